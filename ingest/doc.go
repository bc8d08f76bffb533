// Package ingest loads normalized records into a document store with
// batch-then-fallback resilience, and wires the format builders into
// single-call entry points (payload in, success count out).
package ingest
