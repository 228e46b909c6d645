package errors

import (
	"fmt"
)

type CompilationError struct {
	Line   int
	Reason string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation error [L%d]: %s", e.Line, e.Reason)
}

// DecodeError reports a malformed instruction stream found while reading a chunk.
type DecodeError struct {
	Offset int
	Line   int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error [L%d@%04d]: %s", e.Line, e.Offset, e.Reason)
}

// ContractError is the panic value for caller errors such as out-of-range indices.
type ContractError struct{ Reason string }

func (e *ContractError) Error() string {
	return fmt.Sprintf("contract violation: %s", e.Reason)
}

const Unreachable = "internal error: entered unreachable code"
