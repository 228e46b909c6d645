package utils

import "golang.org/x/exp/constraints"

// MinCap is the capacity of the first allocation of a growable array.
const MinCap = 8

// GrowCap returns the next capacity for a full growable array.
func GrowCap[I constraints.Integer](cap_ I) I {
	if cap_ < MinCap {
		return MinCap
	}
	return cap_ * 2
}
