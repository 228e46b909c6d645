package debug

import (
	"fmt"

	e "github.com/kali-lang/kali/errors"
)

// Assertf checks an internal invariant. It is a no-op unless built with the `debug` tag.
func Assertf(b bool, format string, a ...any) {
	if DEBUG && !b {
		panic(fmt.Sprintf(format, a...))
	}
}

func AssertEq[T comparable](expected, got T) { Assertf(expected == got, "%v != %v", expected, got) }

// Requiref checks a caller contract and panics with a *errors.ContractError on violation,
// regardless of build tags.
func Requiref(b bool, format string, a ...any) {
	if !b {
		panic(&e.ContractError{Reason: fmt.Sprintf(format, a...)})
	}
}
