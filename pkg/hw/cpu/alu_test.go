package cpu

import (
	"testing"

	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegisterFile(t *testing.T) *regfile.RegisterFile {
	rf, err := regfile.New(regfile.DefaultSettings())
	require.NoError(t, err)
	return rf
}

func reg(t *testing.T, name string) regfile.Register {
	r, err := regfile.ParseRegister(name)
	require.NoError(t, err)
	return r
}

// Register contents in hex, or X
func hex(t *testing.T, rf *regfile.RegisterFile, name string) string {
	v, err := rf.ReadRegister(reg(t, name))
	require.NoError(t, err)

	if v.IsUnknown() {
		return "X"
	}

	return v.Hex()
}

func write(t *testing.T, rf *regfile.RegisterFile, name string, v int64) {
	require.NoError(t, rf.WriteRegister(reg(t, name), v))
}

func TestAlu_BinaryOps(t *testing.T) {
	tests := []struct {
		name     string
		op       func(alu Alu) func(dest, lhs, rhs regfile.Register) error
		dest     string
		lhs      int64
		rhs      int64
		size     string
		expected string
	}{
		{"add", func(a Alu) func(d, l, r regfile.Register) error { return a.Add }, "x0", 5, 7, "x", "0xc"},
		{"add wraps", func(a Alu) func(d, l, r regfile.Register) error { return a.Add }, "x0", -1, 1, "x", "0x0"},
		{"sub", func(a Alu) func(d, l, r regfile.Register) error { return a.Sub }, "x0", 1, 2, "x", "0xffffffffffffffff"},
		{"sub w", func(a Alu) func(d, l, r regfile.Register) error { return a.Sub }, "w0", 1, 2, "w", "0xffffffff"},
		{"mul", func(a Alu) func(d, l, r regfile.Register) error { return a.Mul }, "x0", -1, 2, "x", "0xfffffffffffffffe"},
		{"udiv", func(a Alu) func(d, l, r regfile.Register) error { return a.UDiv }, "x0", 7, 2, "x", "0x3"},
		{"udiv by zero", func(a Alu) func(d, l, r regfile.Register) error { return a.UDiv }, "x0", 7, 0, "x", "0x0"},
		{"udiv large", func(a Alu) func(d, l, r regfile.Register) error { return a.UDiv }, "x0", -2, 2, "x", "0x7fffffffffffffff"},
		{"sdiv", func(a Alu) func(d, l, r regfile.Register) error { return a.SDiv }, "x0", -7, 2, "x", "0xfffffffffffffffd"},
		{"sdiv by zero", func(a Alu) func(d, l, r regfile.Register) error { return a.SDiv }, "x0", -7, 0, "x", "0x0"},
		{"sdiv overflow", func(a Alu) func(d, l, r regfile.Register) error { return a.SDiv }, "x0", -1 << 63, -1, "x", "0x8000000000000000"},
		{"sdiv w", func(a Alu) func(d, l, r regfile.Register) error { return a.SDiv }, "w0", -8, 2, "w", "0xfffffffc"},
		{"and", func(a Alu) func(d, l, r regfile.Register) error { return a.And }, "x0", 0xff, 0x0f, "x", "0xf"},
		{"orr", func(a Alu) func(d, l, r regfile.Register) error { return a.Orr }, "x0", 0xf0, 0x0f, "x", "0xff"},
		{"eor", func(a Alu) func(d, l, r regfile.Register) error { return a.Eor }, "x0", 0xff, 0x0f, "x", "0xf0"},
		{"lsl", func(a Alu) func(d, l, r regfile.Register) error { return a.Lsl }, "x0", 1, 4, "x", "0x10"},
		{"lsl amount wraps", func(a Alu) func(d, l, r regfile.Register) error { return a.Lsl }, "x0", 1, 65, "x", "0x2"},
		{"lsr", func(a Alu) func(d, l, r regfile.Register) error { return a.Lsr }, "x0", -1 << 63, 63, "x", "0x1"},
		{"asr", func(a Alu) func(d, l, r regfile.Register) error { return a.Asr }, "x0", -1 << 63, 63, "x", "0xffffffffffffffff"},
		{"asr positive", func(a Alu) func(d, l, r regfile.Register) error { return a.Asr }, "x0", 0x40, 4, "x", "0x4"},
		{"asr w", func(a Alu) func(d, l, r regfile.Register) error { return a.Asr }, "w0", 0x80000000, 4, "w", "0xf8000000"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rf := newRegisterFile(t)
			alu := MakeAlu(rf, nil)

			write(t, rf, "x1", test.lhs)
			write(t, rf, "x2", test.rhs)

			lhs, rhs := reg(t, test.size+"1"), reg(t, test.size+"2")
			require.NoError(t, test.op(alu)(reg(t, test.dest), lhs, rhs))
			assert.Equal(t, test.expected, hex(t, rf, test.dest))
		})
	}
}

func TestAlu_OperandsAreExtendedToTheDestination(t *testing.T) {
	rf := newRegisterFile(t)
	alu := MakeAlu(rf, nil)

	write(t, rf, "x1", -1)
	write(t, rf, "x2", 1)

	t.Run("zero extension", func(t *testing.T) {
		require.NoError(t, alu.Add(reg(t, "x0"), reg(t, "w1"), reg(t, "x2")))
		assert.Equal(t, "0x100000000", hex(t, rf, "x0"))
	})

	t.Run("sign extension", func(t *testing.T) {
		require.NoError(t, alu.SDiv(reg(t, "x0"), reg(t, "w1"), reg(t, "x2")))
		assert.Equal(t, "0xffffffffffffffff", hex(t, rf, "x0"))
	})

	t.Run("truncation", func(t *testing.T) {
		require.NoError(t, alu.Add(reg(t, "w3"), reg(t, "x1"), reg(t, "x2")))
		assert.Equal(t, "0x0", hex(t, rf, "x3"))
	})
}

func TestAlu_UnaryOps(t *testing.T) {
	rf := newRegisterFile(t)
	alu := MakeAlu(rf, nil)

	write(t, rf, "x1", 1)

	require.NoError(t, alu.Mvn(reg(t, "x0"), reg(t, "xzr")))
	assert.Equal(t, "0xffffffffffffffff", hex(t, rf, "x0"))

	require.NoError(t, alu.Neg(reg(t, "x0"), reg(t, "x1")))
	assert.Equal(t, "0xffffffffffffffff", hex(t, rf, "x0"))

	require.NoError(t, alu.Mvn(reg(t, "w0"), reg(t, "w1")))
	assert.Equal(t, "0xfffffffe", hex(t, rf, "w0"))
}

func TestAlu_WideningMultiplication(t *testing.T) {
	rf := newRegisterFile(t)
	alu := MakeAlu(rf, nil)

	write(t, rf, "x1", -1)
	write(t, rf, "x2", 2)

	t.Run("umull", func(t *testing.T) {
		require.NoError(t, alu.UMull(reg(t, "q0"), reg(t, "x1"), reg(t, "x2")))
		assert.Equal(t, "0x1fffffffffffffffe", hex(t, rf, "q0"))
	})

	t.Run("smull", func(t *testing.T) {
		require.NoError(t, alu.SMull(reg(t, "q0"), reg(t, "x1"), reg(t, "x2")))
		assert.Equal(t, "0xfffffffffffffffffffffffffffffffe", hex(t, rf, "q0"))
	})

	t.Run("smull w", func(t *testing.T) {
		write(t, rf, "x3", -3)
		write(t, rf, "x4", 5)

		require.NoError(t, alu.SMull(reg(t, "x0"), reg(t, "w3"), reg(t, "w4")))
		assert.Equal(t, "0xfffffffffffffff1", hex(t, rf, "x0"))
	})

	t.Run("destination size must match", func(t *testing.T) {
		assert.ErrorIs(t, alu.UMull(reg(t, "x0"), reg(t, "x1"), reg(t, "x2")), regfile.ErrInvalidSize)
	})
}

func TestAlu_UnknownOperands(t *testing.T) {
	rf := newRegisterFile(t)
	alu := MakeAlu(rf, nil)

	write(t, rf, "x2", 3)
	require.NoError(t, rf.Invalidate(reg(t, "x1")))

	require.NoError(t, alu.Add(reg(t, "x0"), reg(t, "x1"), reg(t, "x2")))
	assert.Equal(t, "X", hex(t, rf, "x0"))

	require.NoError(t, alu.UDiv(reg(t, "x3"), reg(t, "x2"), reg(t, "x1")))
	assert.Equal(t, "X", hex(t, rf, "x3"))

	require.NoError(t, alu.Lsl(reg(t, "x4"), reg(t, "x2"), reg(t, "x1")))
	assert.Equal(t, "X", hex(t, rf, "x4"))

	require.NoError(t, alu.Neg(reg(t, "x5"), reg(t, "x1")))
	assert.Equal(t, "X", hex(t, rf, "x5"))

	// never written since reset
	require.NoError(t, alu.Add(reg(t, "x6"), reg(t, "x7"), reg(t, "x2")))
	assert.Equal(t, "X", hex(t, rf, "x6"))
}

func TestAlu_ZeroRegister(t *testing.T) {
	rf := newRegisterFile(t)
	alu := MakeAlu(rf, nil)

	write(t, rf, "x1", 3)

	require.NoError(t, alu.Add(reg(t, "xzr"), reg(t, "x1"), reg(t, "x1")))
	assert.Equal(t, "0x0", hex(t, rf, "xzr"))

	require.NoError(t, alu.Orr(reg(t, "x0"), reg(t, "xzr"), reg(t, "x1")))
	assert.Equal(t, "0x3", hex(t, rf, "x0"))
}
