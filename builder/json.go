package builder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poiesic/docfeed/core"
)

// JSONBuilder converts a JSON array of objects into records. Each object
// element becomes one record; nested objects are flattened with
// underscore-joined prefixes and arrays of scalars become multi-valued
// fields. A payload whose root is not an array yields zero records and no
// error, which lets callers probe payloads without special-casing.
type JSONBuilder struct{}

// NewJSONBuilder returns a JSONBuilder.
func NewJSONBuilder() *JSONBuilder { return &JSONBuilder{} }

// Build parses payload and returns one record per object element.
// Non-object elements are skipped.
func (b *JSONBuilder) Build(payload string) ([]core.Record, error) {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	elements, ok := root.([]any)
	if !ok {
		return []core.Record{}, nil
	}

	records := make([]core.Record, 0, len(elements))
	for _, element := range elements {
		obj, ok := element.(map[string]any)
		if !ok {
			continue
		}
		rec := core.Record{}
		flattenObject(obj, "", rec)
		records = append(records, rec)
	}
	return records, nil
}

// flattenObject walks obj depth-first, writing leaf values into rec under
// prefix-joined sanitized names. Null values disappear entirely. Array
// values keep their scalar elements in order and drop everything else;
// an array left empty after filtering is omitted.
func flattenObject(obj map[string]any, prefix string, rec core.Record) {
	for name, raw := range obj {
		field := joinField(prefix, core.NormalizeFieldName(name))
		switch v := raw.(type) {
		case nil:
			continue
		case map[string]any:
			flattenObject(v, field, rec)
		case []any:
			var items []core.Value
			for _, item := range v {
				if value, ok := core.CoerceScalar(item); ok {
					items = append(items, value)
				}
			}
			if len(items) > 0 {
				rec[field] = core.List(items...)
			}
		default:
			if value, ok := core.CoerceScalar(v); ok {
				rec[field] = value
			}
		}
	}
}

func joinField(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	return prefix + "_" + name
}
