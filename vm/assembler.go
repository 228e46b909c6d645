package vm

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/hashicorp/go-multierror"
	"github.com/josharian/intern"
	e "github.com/kali-lang/kali/errors"
	"github.com/sirupsen/logrus"
)

var mnemonics = map[string]OpCode{
	"RETURN":        OpReturn,
	"CONSTANT":      OpConst,
	"CONSTANT_LONG": OpConstLong,
}

// Assembler turns line-oriented assembly into chunk bytes.
// Each instruction is tagged with the source line it was written on.
type Assembler struct {
	*Scanner
	prev, curr      Token
	assemblingChunk *Chunk

	errors *multierror.Error
	// Whether the assembler is trying to sync, i.e. in the error recovery process.
	panicMode bool
}

func NewAssembler() *Assembler { return &Assembler{} }

func (a *Assembler) Assemble(src string) (*Chunk, error) {
	res := NewChunk()
	err := a.AssembleInto(res, src, 1)
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugln(res.Disassemble("code"))
	}
	return res, err
}

// AssembleInto appends the instructions of src to chunk, numbering src from line.
func (a *Assembler) AssembleInto(chunk *Chunk, src string, line int) error {
	a.assemblingChunk = chunk
	defer func() { a.assemblingChunk = nil }()

	a.Scanner = NewScannerAt(src, line)
	a.errors, a.panicMode = nil, false
	a.advance()

	for !a.match(TEOF) {
		a.stmt()
	}
	return a.errors.ErrorOrNil()
}

func (a *Assembler) currentChunk() *Chunk { return a.assemblingChunk }

/* Single-pass assembly */

func (a *Assembler) stmt() {
	switch {
	case a.match(TNewline): // Blank line.
	case a.match(TIdent):
		a.inst()
	default:
		a.ErrorAtCurr("expect mnemonic")
		a.advance()
	}
	if a.panicMode {
		a.sync()
	}
}

func (a *Assembler) inst() {
	name := intern.String(strings.ToUpper(a.prev.String()))
	op, ok := mnemonics[name]
	if !ok {
		a.Error("unknown mnemonic")
		return
	}
	line := a.prev.Line

	switch op {
	case OpReturn:
		a.currentChunk().WriteOp(op, line)
	case OpConst, OpConstLong:
		val, ok := a.num()
		if !ok {
			return
		}
		a.emitConst(op, val, line)
	default:
		panic(e.Unreachable)
	}

	if !a.check(TEOF) {
		a.consume(TNewline, "expect end of line after instruction")
	}
}

func (a *Assembler) num() (val Value, ok bool) {
	neg := a.match(TMinus)
	if !a.check(TNum) {
		a.ErrorAtCurr("expect number operand")
		return
	}
	a.advance()
	f, err := strconv.ParseFloat(a.prev.String(), 64)
	if err != nil {
		a.Error(err.Error())
		return
	}
	if neg {
		f = -f
	}
	return Value(f), true
}

func (a *Assembler) emitConst(op OpCode, val Value, line int) {
	chunk := a.currentChunk()
	switch n := chunk.NumConsts(); {
	case op == OpConst && n > math.MaxUint8:
		a.Error("too many consts for CONSTANT, use CONSTANT_LONG")
		return
	case n >= MaxConsts:
		a.Error("too many consts in one chunk")
		return
	}
	chunk.writeConstRef(op, chunk.AddConst(val), line)
}

/* Parsing helpers */

func (a *Assembler) advance() {
	a.prev = a.curr
	for {
		// Skip until the first non-TErr token.
		if a.curr = a.ScanToken(); a.curr.Type != TErr {
			break
		}
		a.ErrorAtCurr("")
	}
}

func (a *Assembler) check(ty TokenType) bool { return a.curr.Type == ty }

func (a *Assembler) match(ty TokenType) bool {
	if !a.check(ty) {
		return false
	}
	a.advance()
	return true
}

func (a *Assembler) consume(ty TokenType, errorMsg string) {
	if !a.check(ty) {
		a.ErrorAtCurr(errorMsg)
		return
	}
	a.advance()
}

// sync skips the rest of the current line.
func (a *Assembler) sync() {
	a.panicMode = false
	for !a.check(TEOF) {
		if a.prev.Type == TNewline {
			return
		}
		a.advance()
	}
}

/* Error handling */

func (a *Assembler) ErrorAt(tk Token, reason string) {
	// Don't collect error when we're syncing.
	if a.panicMode {
		return
	}
	a.panicMode = true

	var reason1 string
	switch tk.Type {
	case TErr:
		reason1 = tk.String()
	case TEOF:
		reason1 = fmt.Sprintf("at EOF, %s", reason)
	case TNewline:
		reason1 = fmt.Sprintf("at end of line, %s", reason)
	case TIdent:
		reason1 = fmt.Sprintf("at mnemonic `%s`, %s", tk, reason)
	default:
		reason1 = fmt.Sprintf("at `%s`, %s", tk, reason)
	}
	err := &e.CompilationError{Line: tk.Line, Reason: reason1}
	a.errors = multierror.Append(a.errors, err)
}

func (a *Assembler) Error(reason string)       { a.ErrorAt(a.prev, reason) }
func (a *Assembler) ErrorAtCurr(reason string) { a.ErrorAt(a.curr, reason) }

/* REPL */

func (a *Assembler) REPL(out io.Writer) error {
	reader, err := readline.New(">> ")
	if err != nil {
		return err
	}
	defer reader.Close()

	chunk := NewChunk()
	defer chunk.Free()

	for lineNo := 1; ; lineNo++ {
		line, err := reader.Readline()
		switch err {
		case nil:
			if line == "" {
				return nil
			}
		case readline.ErrInterrupt: // ^C
			continue
		case io.EOF: // ^D
			return nil
		default:
			return err
		}

		a.replLine(out, chunk, line, lineNo)
	}
}

// replLine assembles line into chunk and prints the instructions it appended.
func (a *Assembler) replLine(out io.Writer, chunk *Chunk, line string, lineNo int) {
	start := chunk.Len()
	if err := a.AssembleInto(chunk, line, lineNo); err != nil {
		logrus.Error(err)
	}
	for offset := start; offset < chunk.Len(); {
		var res string
		res, offset = chunk.DisassembleInst(offset)
		fmt.Fprintln(out, res)
	}
}
