// Package storage defines the document store contract the ingestion
// pipeline loads into, along with the binary serialization used by
// implementations. The contract is deliberately minimal: add one
// document, add many, commit, close. Everything else a real store can do
// (search, schema, admin) is out of scope here.
package storage
