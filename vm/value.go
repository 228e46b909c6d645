package vm

import (
	"fmt"

	"github.com/kali-lang/kali/debug"
	"github.com/kali-lang/kali/utils"
)

type Value float64

func (v Value) String() string { return fmt.Sprintf("%g", v) }

// ValueArray is an append-only pool of consts. The zero value is an empty pool.
type ValueArray struct {
	values []Value
	grows  int
}

// Write appends val and returns its index, which stays valid until Free.
func (a *ValueArray) Write(val Value) (idx int) {
	idx = len(a.values)
	if idx == cap(a.values) {
		values := make([]Value, idx, utils.GrowCap(cap(a.values)))
		copy(values, a.values)
		a.values = values
		a.grows++
	}
	a.values = append(a.values, val)
	return
}

func (a *ValueArray) Get(idx int) Value {
	debug.Requiref(0 <= idx && idx < len(a.values),
		"const index %d out of range [0, %d)", idx, len(a.values))
	return a.values[idx]
}

func (a *ValueArray) Len() int { return len(a.values) }
func (a *ValueArray) Cap() int { return cap(a.values) }

// Grows returns the number of reallocations since the last Free.
func (a *ValueArray) Grows() int { return a.grows }

func (a *ValueArray) Free() { *a = ValueArray{} }
