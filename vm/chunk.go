package vm

import (
	"math"

	"github.com/kali-lang/kali/debug"
	"github.com/kali-lang/kali/utils"
	"github.com/sirupsen/logrus"
)

type Chunk struct {
	code []byte
	// Contract: len(lines) == len(code) && cap(lines) == cap(code)
	lines  []int
	consts ValueArray
	grows  int
}

func NewChunk() *Chunk { return &Chunk{} }

func (c *Chunk) Write(b byte, line int) {
	if len(c.code) == cap(c.code) {
		c.grow()
	}
	c.code = append(c.code, b)
	c.lines = append(c.lines, line)
	debug.AssertEq(len(c.code), len(c.lines))
}

func (c *Chunk) WriteOp(op OpCode, line int) { c.Write(byte(op), line) }

// grow reallocates code and lines together so that they always share one capacity.
func (c *Chunk) grow() {
	newCap := utils.GrowCap(cap(c.code))
	code, lines := make([]byte, len(c.code), newCap), make([]int, len(c.lines), newCap)
	copy(code, c.code)
	copy(lines, c.lines)
	c.code, c.lines = code, lines
	c.grows++
	logrus.Tracef("chunk: grown to capacity %d", newCap)
}

func (c *Chunk) AddConst(const_ Value) (idx int) { return c.consts.Write(const_) }

// WriteConst adds const_ to the pool and emits the instruction loading it,
// using OpConstLong once the index no longer fits in one byte.
func (c *Chunk) WriteConst(const_ Value, line int) (idx int) {
	debug.Requiref(c.consts.Len() < MaxConsts, "too many consts in one chunk")
	idx = c.AddConst(const_)
	if idx <= math.MaxUint8 {
		c.writeConstRef(OpConst, idx, line)
	} else {
		c.writeConstRef(OpConstLong, idx, line)
	}
	return
}

func (c *Chunk) writeConstRef(op OpCode, idx, line int) {
	width, _ := op.OperandWidth()
	c.WriteOp(op, line)
	for i := 0; i < width; i++ {
		c.Write(byte(idx>>(8*i)), line)
	}
}

// Free releases all storage and leaves c empty. Calling it on an empty chunk is a no-op.
func (c *Chunk) Free() { *c = Chunk{} }

func (c *Chunk) Len() int { return len(c.code) }
func (c *Chunk) Cap() int { return cap(c.code) }

// Grows returns the number of code reallocations since the last Free.
func (c *Chunk) Grows() int { return c.grows }

func (c *Chunk) Code(offset int) byte {
	c.checkOffset(offset)
	return c.code[offset]
}

func (c *Chunk) Line(offset int) int {
	c.checkOffset(offset)
	return c.lines[offset]
}

func (c *Chunk) Const(idx int) Value { return c.consts.Get(idx) }
func (c *Chunk) NumConsts() int      { return c.consts.Len() }

func (c *Chunk) checkOffset(offset int) {
	debug.Requiref(0 <= offset && offset < len(c.code),
		"code offset %d out of range [0, %d)", offset, len(c.code))
}
