package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Value is a scalar cell of a data record: a string, a number, a boolean or null.
// Numbers keep their textual JSON form so integers are not widened to floats.
type Value struct {
	raw any
}

// Null returns the null value
func Null() Value {
	return Value{}
}

// NewString wraps a string
func NewString(s string) Value {
	return Value{raw: s}
}

// NewNumber wraps a float
func NewNumber(f float64) Value {
	return Value{raw: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

// NewInt wraps an integer
func NewInt(i int64) Value {
	return Value{raw: json.Number(strconv.FormatInt(i, 10))}
}

// NewBool wraps a boolean
func NewBool(b bool) Value {
	return Value{raw: b}
}

// IsNull reports whether the value is null
func (v Value) IsNull() bool {
	return v.raw == nil
}

// IsNumber reports whether the value was given as a JSON number
func (v Value) IsNumber() bool {
	_, ok := v.raw.(json.Number)
	return ok
}

// Float64 returns the numeric reading of the value.
// Numbers convert directly and numeric strings are parsed; booleans, null,
// NaN and infinities are not numeric.
func (v Value) Float64() (float64, bool) {
	switch raw := v.raw.(type) {
	case json.Number:
		f, err := raw.Float64()
		return f, err == nil && finite(f)
	case string:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return 0, false
		}
		f, err := cast.ToFloat64E(trimmed)
		if err != nil || !finite(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// String returns the display form of the value, empty for null
func (v Value) String() string {
	switch raw := v.raw.(type) {
	case nil:
		return ""
	case string:
		return raw
	case json.Number:
		return raw.String()
	default:
		return cast.ToString(raw)
	}
}

// Interface returns the plain Go form of the value: nil, string, bool, int64 or float64
func (v Value) Interface() any {
	if n, ok := v.raw.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return f
	}
	return v.raw
}

// Equal reports whether two values hold the same scalar
func (v Value) Equal(other Value) bool {
	return v.raw == other.raw
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// UnmarshalJSON implements json.Unmarshaler, rejecting arrays and objects
func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	switch raw.(type) {
	case nil, string, json.Number, bool:
		v.raw = raw
		return nil
	default:
		return fmt.Errorf("%w: got %s", ErrNotScalar, bytes.TrimSpace(data))
	}
}

// MarshalYAML implements yaml.Marshaler
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// Record is a single data row keyed by field name
type Record map[string]Value

// Get returns the value bound to field and whether the field is present
func (r Record) Get(field string) (Value, bool) {
	value, ok := r[field]
	return value, ok
}

// Clone returns a shallow copy of the record; values are immutable
func (r Record) Clone() Record {
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}
