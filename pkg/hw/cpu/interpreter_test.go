package cpu

import (
	"testing"

	"github.com/Manu343726/isasim/pkg/hw/eval"
	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/Manu343726/isasim/pkg/hw/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, rf *regfile.RegisterFile, program ...string) (*string, error) {
	t.Helper()
	return MakeRegisterFileProgramInterpreter(rf, nil).Run(program)
}

func TestStripComment(t *testing.T) {
	assert.Equal(t, "ADD x0, x1, x2 ", StripComment("ADD x0, x1, x2 ; sum"))
	assert.Equal(t, "", StripComment("  // whole line"))
	assert.Equal(t, "EVAL 7 // 2", StripComment("EVAL 7 // 2"))
	assert.Equal(t, "", StripComment("; only a comment"))
}

func TestInterpreter_ReadWrite(t *testing.T) {
	rf := newRegisterFile(t)

	result, err := run(t, rf, "WR x0 0x1234", "RD x0")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "x0 = 0x1234", *result)

	result, err = run(t, rf, "RD w0")
	require.NoError(t, err)
	assert.Equal(t, "w0 = 0x1234", *result)

	result, err = run(t, rf, "WR x0 -1", "RD x0")
	require.NoError(t, err)
	assert.Equal(t, "x0 = 0xffffffffffffffff", *result)

	result, err = run(t, rf, "WR x0 X", "RD x0")
	require.NoError(t, err)
	assert.Equal(t, "x0 = X", *result)

	result, err = run(t, rf, "wr x1 0b101", "rd X1")
	require.NoError(t, err)
	assert.Equal(t, "x1 = 0x5", *result)
}

func TestInterpreter_Program(t *testing.T) {
	rf := newRegisterFile(t)

	result, err := run(t, rf,
		"// computes (5 + 7) << 1",
		"WR x1, 5",
		"WR x2, 7 ; second operand",
		"",
		"ADD x0, x1, x2",
		"WR x3 1",
		"LSL x0, x0, x3",
		"RD x0",
	)
	require.NoError(t, err)
	assert.Equal(t, "x0 = 0x18", *result)
}

func TestInterpreter_LastResultIsReturned(t *testing.T) {
	rf := newRegisterFile(t)

	result, err := run(t, rf, "WR x0 5", "RD x0", "WR x0 6")
	require.NoError(t, err)
	assert.Equal(t, "x0 = 0x5", *result)

	result, err = run(t, rf, "WR x0 5")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestInterpreter_AluInstructions(t *testing.T) {
	tests := []struct {
		program  []string
		expected string
	}{
		{[]string{"WR x1 10", "WR x2 3", "SUB x0 x1 x2", "RD x0"}, "x0 = 0x7"},
		{[]string{"WR x1 10", "WR x2 3", "MUL x0 x1 x2", "RD x0"}, "x0 = 0x1e"},
		{[]string{"WR x1 10", "WR x2 3", "UDIV x0 x1 x2", "RD x0"}, "x0 = 0x3"},
		{[]string{"WR x1 -10", "WR x2 3", "SDIV x0 x1 x2", "RD x0"}, "x0 = 0xfffffffffffffffd"},
		{[]string{"WR x1 0xf0", "WR x2 0x3c", "AND x0 x1 x2", "RD x0"}, "x0 = 0x30"},
		{[]string{"WR x1 0xf0", "WR x2 0x0f", "ORR x0 x1 x2", "RD x0"}, "x0 = 0xff"},
		{[]string{"WR x1 0xff", "WR x2 0x0f", "EOR x0 x1 x2", "RD x0"}, "x0 = 0xf0"},
		{[]string{"WR x1 0x10", "WR x2 4", "LSR x0 x1 x2", "RD x0"}, "x0 = 0x1"},
		{[]string{"WR w1 0x80000000", "WR w2 31", "ASR w0 w1 w2", "RD w0"}, "w0 = 0xffffffff"},
		{[]string{"MVN x0 xzr", "RD x0"}, "x0 = 0xffffffffffffffff"},
		{[]string{"WR x1 2", "NEG x0 x1", "RD x0"}, "x0 = 0xfffffffffffffffe"},
		{[]string{"WR x1 -1", "WR x2 -1", "UMULL q0 x1 x2", "RD q0"}, "q0 = 0xfffffffffffffffe0000000000000001"},
		{[]string{"WR x1 -1", "WR x2 -1", "SMULL q0 x1 x2", "RD q0"}, "q0 = 0x1"},
		{[]string{"WR x1 1", "add X0, X1, X1", "RD x0"}, "x0 = 0x2"},
	}

	for _, test := range tests {
		t.Run(test.program[len(test.program)-2], func(t *testing.T) {
			result, err := run(t, newRegisterFile(t), test.program...)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, test.expected, *result)
		})
	}
}

func TestInterpreter_SetAndEval(t *testing.T) {
	rf := newRegisterFile(t)

	t.Run("set typed expression", func(t *testing.T) {
		result, err := run(t, rf, "SET x3 u8(200) + u8(100)", "RD x3")
		require.NoError(t, err)
		assert.Equal(t, "x3 = 0x2c", *result)
	})

	t.Run("set untyped expression", func(t *testing.T) {
		result, err := run(t, rf, "SET x4 (1 << 8) | 0xff", "RD x4")
		require.NoError(t, err)
		assert.Equal(t, "x4 = 0x1ff", *result)
	})

	t.Run("set from registers", func(t *testing.T) {
		result, err := run(t, rf, "SET x5 x3 + x4", "RD x5")
		require.NoError(t, err)
		assert.Equal(t, "x5 = 0x22b", *result)
	})

	t.Run("set unknown", func(t *testing.T) {
		result, err := run(t, rf, "SET x5 u8(X)", "RD x5")
		require.NoError(t, err)
		assert.Equal(t, "x5 = X", *result)
	})

	t.Run("set real", func(t *testing.T) {
		_, err := run(t, rf, "SET x5 1.5")
		assert.ErrorIs(t, err, value.ErrTypeMismatch)
	})

	t.Run("eval", func(t *testing.T) {
		result, err := run(t, rf, "EVAL u8(8) + u8(10)")
		require.NoError(t, err)
		assert.Equal(t, "UInt(8)(18) 0x12", *result)

		result, err = run(t, rf, "EVAL x3 + 1")
		require.NoError(t, err)
		assert.Equal(t, "UInt(64)(45) 0x2d", *result)

		result, err = run(t, rf, "EVAL 7 // 2")
		require.NoError(t, err)
		assert.Equal(t, "3", *result)
	})
}

func TestInterpreter_Reset(t *testing.T) {
	rf := newRegisterFile(t)

	result, err := run(t, rf, "RD x9")
	require.NoError(t, err)
	assert.Equal(t, "x9 = X", *result)

	result, err = run(t, rf, "WR x0 5", "RESET", "RD x0")
	require.NoError(t, err)
	assert.Equal(t, "x0 = X", *result)
}

func TestInterpreter_Errors(t *testing.T) {
	tests := []struct {
		command  string
		expected error
	}{
		{"FOO x0", ErrBadInstruction},
		{"ADD x0 x1", ErrBadParameters},
		{"ADD x0 x1 q99", ErrBadParameters},
		{"ADD x0 x1 q99", regfile.ErrUnknownRegister},
		{"NEG x0", ErrBadParameters},
		{"RD", ErrBadParameters},
		{"RD x0 x1", ErrBadParameters},
		{"WR x0 notanumber", ErrBadParameters},
		{"WR x0", ErrBadParameters},
		{"SET x0", ErrBadParameters},
		{"SET x0 1 +", eval.ErrSyntax},
		{"EVAL", ErrBadParameters},
		{"EVAL 1 / 0", value.ErrDivisionByZero},
		{"RESET now", ErrBadParameters},
		{"UMULL x0 x1 x2", regfile.ErrInvalidSize},
	}

	for _, test := range tests {
		t.Run(test.command, func(t *testing.T) {
			_, err := run(t, newRegisterFile(t), test.command)
			assert.ErrorIs(t, err, test.expected)
			assert.ErrorIs(t, err, ErrInterpreter)
		})
	}
}

func TestInterpreter_ErrorsReportTheLine(t *testing.T) {
	_, err := run(t, newRegisterFile(t), "WR x0 1", "", "BOGUS x0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error at line 3 (BOGUS x0)")
}

func TestCommandInterpreter_EmptyCommand(t *testing.T) {
	i := MakeCommandInterpreter(MakeRegisterFileInterpreter(newRegisterFile(t), nil))

	_, err := i.Run("  ; nothing")
	assert.ErrorIs(t, err, ErrBadParameters)

	result, err := MakeSanitizedCommandInterpreter(i).Run("  ; nothing")
	assert.NoError(t, err)
	assert.Nil(t, result)
}
