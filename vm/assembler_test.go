package vm_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/hashicorp/go-multierror"
	e "github.com/kali-lang/kali/errors"
	"github.com/kali-lang/kali/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	t.Parallel()
	chunk, err := vm.NewAssembler().Assemble(heredoc.Doc(`
        // The answer.
        constant 3.14
        CONSTANT -2
        CONSTANT_LONG 42
        Return
    `))
	require.NoError(t, err)

	insts, err := chunk.DecodeAll()
	require.NoError(t, err)
	assert.Equal(t, []vm.Inst{
		{Offset: 0, Op: vm.OpConst, Operand: 0, Line: 2},
		{Offset: 2, Op: vm.OpConst, Operand: 1, Line: 3},
		{Offset: 4, Op: vm.OpConstLong, Operand: 2, Line: 4},
		{Offset: 8, Op: vm.OpReturn, Line: 5},
	}, insts)
	assert.Equal(t, vm.Value(3.14), chunk.Const(0))
	assert.Equal(t, vm.Value(-2), chunk.Const(1))
	assert.Equal(t, vm.Value(42), chunk.Const(2))
}

func TestAssembleEmpty(t *testing.T) {
	t.Parallel()
	chunk, err := vm.NewAssembler().Assemble("\n\n// nothing\n")
	require.NoError(t, err)
	assert.Zero(t, chunk.Len())
}

func assertAsmErrors(t *testing.T, src string, reasons ...string) *vm.Chunk {
	t.Helper()
	chunk, err := vm.NewAssembler().Assemble(src)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, len(reasons))
	for i, reason := range reasons {
		var compErr *e.CompilationError
		require.ErrorAs(t, merr.Errors[i], &compErr)
		assert.Equal(t, reason, compErr.Error())
	}
	return chunk
}

func TestAssembleErrors(t *testing.T) {
	t.Parallel()
	chunk := assertAsmErrors(t,
		heredoc.Doc(`
            PUSH 1
            CONSTANT
            CONSTANT 1 2
            CONSTANT $
            RETURN
        `),
		"compilation error [L1]: at mnemonic `PUSH`, unknown mnemonic",
		"compilation error [L2]: at end of line, expect number operand",
		"compilation error [L3]: at `2`, expect end of line after instruction",
		"compilation error [L4]: unexpected character",
	)

	// Lines after an error are still assembled.
	insts, err := chunk.DecodeAll()
	require.NoError(t, err)
	assert.Equal(t, []vm.Inst{
		{Offset: 0, Op: vm.OpConst, Operand: 0, Line: 3},
		{Offset: 2, Op: vm.OpReturn, Line: 5},
	}, insts)
}

func TestAssembleMissingOperandAtEOF(t *testing.T) {
	t.Parallel()
	assertAsmErrors(t, "CONSTANT_LONG",
		"compilation error [L1]: at EOF, expect number operand",
	)
}

func TestAssembleTooManyShortConsts(t *testing.T) {
	t.Parallel()
	var src strings.Builder
	for k := 0; k <= 256; k++ {
		fmt.Fprintf(&src, "CONSTANT %d\n", k)
	}
	src.WriteString("CONSTANT_LONG 257\n")

	chunk := assertAsmErrors(t, src.String(),
		"compilation error [L257]: at `256`, too many consts for CONSTANT, use CONSTANT_LONG",
	)
	assert.Equal(t, 257, chunk.NumConsts())
	assert.Equal(t, vm.Value(257), chunk.Const(256))
}

// assembleWithin fails the test instead of hanging when Assemble does not return.
func assembleWithin(t *testing.T, src string) (chunk *vm.Chunk, err error) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		chunk, err = vm.NewAssembler().Assemble(src)
	}()
	select {
	case <-done:
		return chunk, err
	case <-time.After(2 * time.Second):
		require.FailNowf(t, "Assemble did not return", "%q", src)
		return nil, nil
	}
}

func TestAssembleRecoversMidStream(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		src    string
		reason string
		insts  []vm.Inst
	}{
		{
			"RETURN\n5\n",
			"compilation error [L2]: at `5`, expect mnemonic",
			[]vm.Inst{{Offset: 0, Op: vm.OpReturn, Line: 1}},
		},
		{
			"\n5",
			"compilation error [L2]: at `5`, expect mnemonic",
			nil,
		},
		{
			"RETURN\n-\n",
			"compilation error [L2]: at `-`, expect mnemonic",
			[]vm.Inst{{Offset: 0, Op: vm.OpReturn, Line: 1}},
		},
	} {
		chunk, err := assembleWithin(t, tc.src)
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr, tc.src)
		require.Len(t, merr.Errors, 1, tc.src)
		assert.EqualError(t, merr.Errors[0], tc.reason, tc.src)

		insts, err := chunk.DecodeAll()
		require.NoError(t, err)
		assert.Equal(t, tc.insts, insts, tc.src)
	}
}

func TestAssembleRecoversAcrossLines(t *testing.T) {
	t.Parallel()
	chunk, err := assembleWithin(t, heredoc.Doc(`
        RETURN
        5
        CONSTANT 1

        -3
        RETURN
    `))
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 2)
	assert.EqualError(t, merr.Errors[0], "compilation error [L2]: at `5`, expect mnemonic")
	assert.EqualError(t, merr.Errors[1], "compilation error [L5]: at `-`, expect mnemonic")

	insts, err := chunk.DecodeAll()
	require.NoError(t, err)
	assert.Equal(t, []vm.Inst{
		{Offset: 0, Op: vm.OpReturn, Line: 1},
		{Offset: 1, Op: vm.OpConst, Operand: 0, Line: 3},
		{Offset: 3, Op: vm.OpReturn, Line: 6},
	}, insts)
}
