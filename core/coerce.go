package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoerceToken classifies a textual token into the narrowest value type.
// Order matters: boolean literals first, then integers (int32 before
// int64), then floats, falling back to a plain string. An integral token
// never becomes a float and an int64-range token is never truncated.
func CoerceToken(token string) Value {
	if strings.EqualFold(token, "true") {
		return Bool(true)
	}
	if strings.EqualFold(token, "false") {
		return Bool(false)
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return Int32(int32(i))
		}
		return Int64(i)
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return Float64(f)
	}
	return String(token)
}

// CoerceScalar classifies a scalar decoded from JSON. Returns ok=false
// for null and for anything that is not a scalar (maps, slices). Numbers
// must arrive as json.Number; a raw float64 is accepted for decoders that
// did not enable UseNumber.
func CoerceScalar(v any) (Value, bool) {
	switch s := v.(type) {
	case nil:
		return Value{}, false
	case bool:
		return Bool(s), true
	case string:
		return String(s), true
	case json.Number:
		if i, err := s.Int64(); err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return Int32(int32(i)), true
			}
			return Int64(i), true
		}
		if f, err := s.Float64(); err == nil {
			return Float64(f), true
		}
		return String(s.String()), true
	case float64:
		return Float64(s), true
	default:
		return Value{}, false
	}
}
