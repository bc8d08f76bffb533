package core

// Kind discriminates the closed set of types a field value can hold.
type Kind int

const (
	// KindString is a plain string value.
	KindString Kind = iota + 1
	// KindBool is a boolean value.
	KindBool
	// KindInt32 is an integer that fits the signed 32-bit range.
	KindInt32
	// KindInt64 is an integer that fits the signed 64-bit range but not 32-bit.
	KindInt64
	// KindFloat64 is a double-precision floating point value.
	KindFloat64
	// KindList is an ordered list of scalar values (a multi-valued field).
	KindList
)

// Value is a single field value. Exactly one payload field is meaningful,
// selected by Kind. KindInt32 and KindInt64 both store their payload in Int.
type Value struct {
	Kind  Kind
	Str   string
	Bool  bool
	Int   int64
	Float float64
	List  []Value
}

// String wraps a string as a Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bool wraps a boolean as a Value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int32 wraps a 32-bit integer as a Value.
func Int32(i int32) Value { return Value{Kind: KindInt32, Int: int64(i)} }

// Int64 wraps a 64-bit integer as a Value.
func Int64(i int64) Value { return Value{Kind: KindInt64, Int: i} }

// Float64 wraps a double as a Value.
func Float64(f float64) Value { return Value{Kind: KindFloat64, Float: f} }

// List wraps an ordered list of scalar values as a multi-valued Value.
func List(values ...Value) Value { return Value{Kind: KindList, List: values} }

// Record is a flat, unordered mapping from sanitized field names to values.
//
// Invariants maintained by the builders:
//   - field names satisfy the sanitized identifier grammar (or are empty)
//   - absent/null source values are omitted, never stored
//   - a multi-valued field is never present with an empty list
type Record map[string]Value
