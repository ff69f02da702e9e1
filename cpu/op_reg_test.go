package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// regOp is the common shape of the register-register instructions.
type regOp func(cpu *Processor, rd, rs1, rs2 uint32)

type regCase struct {
	want uint32
	val1 uint32
	val2 uint32
}

func doRegOp(t *testing.T, name string, op regOp, table []regCase) {
	assert := assert.New(t)

	for _, entry := range table {
		cpu := NewProcessor()
		cpu.Set(3, entry.val1)
		cpu.Set(4, entry.val2)
		op(cpu, 1, 3, 4)
		assert.Equal(entry.want, cpu.Get(1), "%v %#x, %#x", name, entry.val1, entry.val2)

		// x0 as destination discards the result.
		cpu = NewProcessor()
		cpu.Set(3, entry.val1)
		cpu.Set(4, entry.val2)
		op(cpu, 0, 3, 4)
		assert.Equal(uint32(0), cpu.Get(0), "%v (rd==x0)", name)
	}
}

func TestAdd(t *testing.T) {
	doRegOp(t, "add", (*Processor).Add, []regCase{
		{0x00000000, 0x00000000, 0x00000000},
		{0x00000002, 0x00000001, 0x00000001},
		{0x0000000a, 0x00000003, 0x00000007},
		{0xffff8000, 0x00000000, 0xffff8000},
		{0x80000000, 0x80000000, 0x00000000},
		// Overflow wraps.
		{0x7fff8000, 0x80000000, 0xffff8000},
		{0x80000000, 0x7fffffff, 0x00000001},
		{0xfffffffe, 0xffffffff, 0xffffffff},
	})
}

func TestSub(t *testing.T) {
	doRegOp(t, "sub", (*Processor).Sub, []regCase{
		{0x00000000, 0x00000000, 0x00000000},
		{0x00000000, 0x00000001, 0x00000001},
		{0xfffffffc, 0x00000003, 0x00000007},
		{0x00008000, 0x00000000, 0xffff8000},
		// Overflow wraps.
		{0x80008000, 0x80000000, 0xffff8000},
		{0x7fffffff, 0x80000000, 0x00000001},
		{0x00000001, 0x00000000, 0xffffffff},
	})
}

func TestSltSltu(t *testing.T) {
	doRegOp(t, "slt", (*Processor).Slt, []regCase{
		{0, 0x00000000, 0x00000000},
		{1, 0x00000003, 0x00000007},
		{0, 0x00000007, 0x00000003},
		{1, 0x80000000, 0x00000000},
		{0, 0x00000000, 0x80000000},
		{1, 0xffffffff, 0x00000001},
		{0, 0x00000001, 0xffffffff},
	})

	doRegOp(t, "sltu", (*Processor).Sltu, []regCase{
		{0, 0x00000000, 0x00000000},
		{1, 0x00000003, 0x00000007},
		{0, 0x00000007, 0x00000003},
		{0, 0x80000000, 0x00000000},
		{1, 0x00000000, 0x80000000},
		{0, 0xffffffff, 0x00000001},
		{1, 0x00000001, 0xffffffff},
		// SNEZ via SLTU rd, x0, rs2.
	})
}

func TestSnez(t *testing.T) {
	assert := assert.New(t)

	cpu := NewProcessor()
	cpu.Set(4, 0x00ff00ff)
	cpu.Sltu(1, 0, 4)
	assert.Equal(uint32(1), cpu.Get(1))

	cpu.Set(4, 0)
	cpu.Sltu(1, 0, 4)
	assert.Equal(uint32(0), cpu.Get(1))
}

func TestBitwise(t *testing.T) {
	doRegOp(t, "and", (*Processor).And, []regCase{
		{0x0f000f00, 0xff00ff00, 0x0f0f0f0f},
		{0x00f000f0, 0x0ff00ff0, 0xf0f0f0f0},
		{0x000f000f, 0x00ff00ff, 0x0f0f0f0f},
	})
	doRegOp(t, "or", (*Processor).Or, []regCase{
		{0xff0fff0f, 0xff00ff00, 0x0f0f0f0f},
		{0xfff0fff0, 0x0ff00ff0, 0xf0f0f0f0},
		{0x0fff0fff, 0x00ff00ff, 0x0f0f0f0f},
	})
	doRegOp(t, "xor", (*Processor).Xor, []regCase{
		{0xf00ff00f, 0xff00ff00, 0x0f0f0f0f},
		{0xff00ff00, 0x0ff00ff0, 0xf0f0f0f0},
		{0x0ff00ff0, 0x00ff00ff, 0x0f0f0f0f},
	})
}

func TestShiftRegister(t *testing.T) {
	doRegOp(t, "sll", (*Processor).Sll, []regCase{
		{0x00000002, 0x00000001, 1},
		{0x80000000, 0x00000001, 31},
		{0x21212100, 0x21212121, 8},
		// Only the low five bits of rs2 count.
		{0x00000001, 0x00000001, 32},
		{0x00000010, 0x00000001, 0xffffffc4},
	})
	doRegOp(t, "srl", (*Processor).Srl, []regCase{
		{0x7fffffff, 0xffffffff, 1},
		{0x00000001, 0x80000000, 31},
		{0x00212121, 0x21212121, 8},
		{0xffffffff, 0xffffffff, 32},
		{0x08000000, 0x80000000, 0xffffffc4},
	})
	doRegOp(t, "sra", (*Processor).Sra, []regCase{
		{0xc0000000, 0x80000000, 1},
		{0xffffffff, 0x80000000, 31},
		{0x00000000, 0x7fffffff, 31},
		{0x80000000, 0x80000000, 32},
		{0xffffffff, 0x80000000, 0xffffffdf},
	})
}
