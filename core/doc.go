// Package core defines the canonical record model shared by the format
// builders and the ingestion pipeline.
//
// A Record is a flat mapping from sanitized field names to Values. A Value
// is a small closed variant (string, bool, int32, int64, float64, or an
// ordered list of those scalars) so that type coercion stays deterministic
// instead of relying on reflection over arbitrary parsed values.
package core
