package vm

import (
	"fmt"

	"github.com/kali-lang/kali/debug"
	e "github.com/kali-lang/kali/errors"
)

// Inst is one decoded instruction.
type Inst struct {
	Offset int
	Op     OpCode
	// Const index for OpConst and OpConstLong.
	Operand int
	Line    int
}

// Width returns the number of bytes taken by inst, opcode included.
func (inst Inst) Width() int {
	width, _ := inst.Op.OperandWidth()
	return 1 + width
}

// Decode reads the instruction starting at offset without modifying c.
func (c *Chunk) Decode(offset int) (inst Inst, err error) {
	c.checkOffset(offset)
	inst = Inst{Offset: offset, Op: OpCode(c.code[offset]), Line: c.lines[offset]}

	width, ok := inst.Op.OperandWidth()
	if !ok {
		return inst, c.decodeError(offset, "unknown instruction '%d'", c.code[offset])
	}
	if offset+width >= len(c.code) {
		return inst, c.decodeError(offset, "truncated operand for %s", inst.Op)
	}
	for i := width; i > 0; i-- {
		inst.Operand = inst.Operand<<8 | int(c.code[offset+i])
	}

	switch inst.Op {
	case OpConst, OpConstLong:
		if inst.Operand >= c.consts.Len() {
			return inst, c.decodeError(offset,
				"const index %d out of range [0, %d)", inst.Operand, c.consts.Len())
		}
	case OpReturn:
	default:
		panic(e.Unreachable)
	}
	return inst, nil
}

// DecodeAll walks c front to back, stopping at the first malformed instruction.
func (c *Chunk) DecodeAll() (insts []Inst, err error) {
	for offset := 0; offset < len(c.code); {
		inst, err := c.Decode(offset)
		if err != nil {
			return insts, err
		}
		insts = append(insts, inst)
		offset += inst.Width()
	}
	return insts, nil
}

func (c *Chunk) decodeError(offset int, format string, a ...any) *e.DecodeError {
	return &e.DecodeError{Offset: offset, Line: c.lines[offset], Reason: fmt.Sprintf(format, a...)}
}

// DisassembleInst renders the instruction at offset.
// A malformed instruction is rendered as its error and newOffset is set to c.Len().
func (c *Chunk) DisassembleInst(offset int) (res string, newOffset int) {
	sprintf := func(format string, a ...any) { res += fmt.Sprintf(format, a...) }

	inst, err := c.Decode(offset)
	sprintf("%04d ", offset)
	if offset > 0 && c.lines[offset] == c.lines[offset-1] {
		sprintf("   | ")
	} else {
		sprintf("%4d ", c.lines[offset])
	}
	if err != nil {
		sprintf("<%s>", err)
		return res, len(c.code)
	}

	switch inst.Op {
	case OpConst, OpConstLong:
		sprintf("%-16s %4d '%s'", inst.Op, inst.Operand, c.consts.Get(inst.Operand))
	case OpReturn:
		sprintf("%s", inst.Op)
	default:
		panic(e.Unreachable)
	}
	newOffset = offset + inst.Width()
	debug.Assertf(newOffset <= len(c.code), "offset %d past end of chunk", newOffset)
	return res, newOffset
}

func (c *Chunk) Disassemble(name string) (res string) {
	res = fmt.Sprintf("== %s ==\n", name)
	for i := 0; i < len(c.code); {
		var delta string
		delta, i = c.DisassembleInst(i)
		res += delta + "\n"
	}
	return res
}
