// Package builder turns raw JSON, CSV, and XML payloads into flat
// core.Record slices. Each builder owns record construction for its
// format end to end: field name sanitizing, structural flattening, and
// value coercion all happen here so the ingestion layer only ever sees
// normalized records.
package builder
