package vm

//go:generate stringer -type=OpCode
type OpCode byte

const (
	OpReturn OpCode = iota
	// Operand: 1-byte const index.
	OpConst
	// Operand: 3-byte little-endian const index.
	OpConstLong
)

// MaxConsts is the number of consts addressable by OpConstLong.
const MaxConsts = 1 << 24

// OperandWidth returns the number of operand bytes following op,
// and false if op is not a known instruction.
func (op OpCode) OperandWidth() (width int, ok bool) {
	switch op {
	case OpReturn:
		return 0, true
	case OpConst:
		return 1, true
	case OpConstLong:
		return 3, true
	default:
		return 0, false
	}
}
