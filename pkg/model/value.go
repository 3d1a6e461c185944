package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind discriminates the three states an indicator result can be in.
type Kind int

const (
	// KindDefined marks an ordinary numeric result.
	KindDefined Kind = iota
	// KindUndefined marks a result that could not be computed, typically
	// because the requested window is longer than the available history.
	KindUndefined
	// KindInfinite marks a ratio whose denominator was zero. The sentinel
	// is sign-free: any blown-up ratio maps here.
	KindInfinite
)

// Value is the result of a single indicator evaluation. It is an explicit
// tagged float rather than a bare float64 so that the undefined and
// infinite sentinels survive comparison and serialization instead of
// leaking around as native NaN/Inf.
type Value struct {
	kind Kind
	num  float64
}

// Defined wraps an ordinary number.
func Defined(x float64) Value {
	return Value{kind: KindDefined, num: x}
}

// Undefined returns the insufficient-history sentinel.
func Undefined() Value {
	return Value{kind: KindUndefined}
}

// Infinite returns the zero-denominator sentinel.
func Infinite() Value {
	return Value{kind: KindInfinite}
}

// FromFloat converts a raw computation result into a Value, mapping NaN to
// Undefined and either infinity to Infinite.
func FromFloat(x float64) Value {
	switch {
	case math.IsNaN(x):
		return Undefined()
	case math.IsInf(x, 0):
		return Infinite()
	default:
		return Defined(x)
	}
}

// Kind returns the value's state.
func (v Value) Kind() Kind {
	return v.kind
}

// Float returns the numeric payload and whether the value is defined.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindDefined
}

// IsDefined reports whether the value carries an ordinary number.
func (v Value) IsDefined() bool {
	return v.kind == KindDefined
}

// IsUndefined reports whether the value is the insufficient-history sentinel.
func (v Value) IsUndefined() bool {
	return v.kind == KindUndefined
}

// IsInfinite reports whether the value is the zero-denominator sentinel.
func (v Value) IsInfinite() bool {
	return v.kind == KindInfinite
}

// String renders the value for tables and CSV cells. Sentinels use fixed
// spellings that ParseValue accepts back.
func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return "NaN"
	case KindInfinite:
		return "+Inf"
	default:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
}

// ParseValue is the inverse of String. It never coerces a sentinel
// spelling into an ordinary number.
func ParseValue(s string) (Value, error) {
	switch s {
	case "NaN":
		return Undefined(), nil
	case "+Inf", "Inf", "-Inf":
		return Infinite(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, err
	}
	return FromFloat(f), nil
}

// MarshalJSON encodes defined values as numbers and sentinels as their
// string spellings, since JSON has no NaN or infinity literals.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindDefined {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = FromFloat(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseValue(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
