package engine

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is a derived number that may be undefined. Division by a zero
// denominator yields an undefined Value instead of 0 or an infinity.
type Value struct {
	Float   float64
	Defined bool
}

// Undefined is the marker for a result that has no numeric value.
var Undefined = Value{}

// Of wraps a finite float. NaN and infinities become Undefined.
func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Undefined
	}
	return Value{Float: f, Defined: true}
}

// Div returns num/den, or Undefined when den is zero.
func Div(num, den float64) Value {
	if den == 0 {
		return Undefined
	}
	return Of(num / den)
}

// Round rounds half-up to the given number of decimal digits.
func (v Value) Round(digits int) Value {
	if !v.Defined {
		return v
	}
	p := math.Pow(10, float64(digits))
	return Of(math.Floor(v.Float*p+0.5) / p)
}

// Ptr returns nil for an undefined value.
func (v Value) Ptr() *float64 {
	if !v.Defined {
		return nil
	}
	f := v.Float
	return &f
}

// Format renders the value with fixed digits, or "N/A".
func (v Value) Format(digits int) string {
	if !v.Defined {
		return "N/A"
	}
	return strconv.FormatFloat(v.Float, 'f', digits, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Undefined
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Of(f)
	return nil
}
