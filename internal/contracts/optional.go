package contracts

import "math"

// Optional numeric fields are *float64: nil means the provider did not report a
// usable number. Strategy predicates must check presence before comparing.

// Float returns a present value, or nil when v is NaN or infinite
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Present reports whether every field is non-nil
func Present(fields ...*float64) bool {
	for _, f := range fields {
		if f == nil {
			return false
		}
	}
	return true
}
