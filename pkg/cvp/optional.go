package cvp

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Optional is a float64 that may be absent. The zero value is absent.
//
// It is used for metrics that are undefined for some inputs, such as the
// break-even point of a business with a non-positive contribution margin.
// An absent Optional encodes to JSON null.
type Optional struct {
	value float64
	valid bool
}

// Some returns a present value. Non-finite values are not representable
// and yield an absent Optional.
func Some(v float64) Optional {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Optional{}
	}
	return Optional{value: v, valid: true}
}

// None returns an absent value.
func None() Optional { return Optional{} }

// Get returns the value and whether it is present.
func (o Optional) Get() (float64, bool) { return o.value, o.valid }

// Valid reports whether the value is present.
func (o Optional) Valid() bool { return o.valid }

// OrElse returns the value, or d when absent.
func (o Optional) OrElse(d float64) float64 {
	if !o.valid {
		return d
	}
	return o.value
}

// Map applies f to a present value. Absent values stay absent.
func (o Optional) Map(f func(float64) float64) Optional {
	if !o.valid {
		return o
	}
	return Some(f(o.value))
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Optional) Ptr() *float64 {
	if !o.valid {
		return nil
	}
	v := o.value
	return &v
}

// String formats the value, or "n/a" when absent.
func (o Optional) String() string {
	if !o.valid {
		return "n/a"
	}
	return strconv.FormatFloat(o.value, 'g', -1, 64)
}

// MarshalJSON encodes a present value as a number and an absent one as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON accepts a number or null.
func (o *Optional) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
