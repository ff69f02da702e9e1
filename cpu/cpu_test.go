package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroRegister(t *testing.T) {
	assert := assert.New(t)

	cpu := NewProcessor()

	cpu.Set(0, 0xdeadbeef)
	assert.Equal(uint32(0), cpu.Get(0))

	// A computation into x0 is discarded.
	cpu.Addi(0, 0, 33)
	assert.Equal(uint32(0), cpu.Get(0))

	// x0 as a source reads zero even after a write attempt.
	cpu.Set(0, 0xffffffff)
	cpu.Addi(1, 0, 32)
	assert.Equal(uint32(32), cpu.Get(1))
}

func TestGetSet(t *testing.T) {
	assert := assert.New(t)

	cpu := NewProcessor()

	for reg := uint32(1); reg < NREGS; reg++ {
		cpu.Set(reg, reg*0x01010101)
	}
	for reg := uint32(1); reg < NREGS; reg++ {
		assert.Equal(reg*0x01010101, cpu.Get(reg))
	}

	cpu.SetPC(0x8000_0000)
	assert.Equal(uint32(0x8000_0000), cpu.PC())

	cpu.Reset()
	for reg := uint32(0); reg < NREGS; reg++ {
		assert.Equal(uint32(0), cpu.Get(reg))
	}
	assert.Equal(uint32(0), cpu.PC())
}

func TestAddiInverse(t *testing.T) {
	assert := assert.New(t)

	// ADDI followed by ADDI of the negated immediate restores the
	// register, for any starting value, modulo 2^32.
	starts := []uint32{0, 1, 0x7fffffff, 0x80000000, 0xffffffff, 0x12345678}
	imms := []uint32{0x001, 0x7ff, 0x800, 0xfff}

	cpu := NewProcessor()
	for _, start := range starts {
		for _, imm := range imms {
			ext := SignExtend12(imm)
			neg := uint32(-int32(ext))

			cpu.Set(1, start)
			cpu.Addi(1, 1, ext)
			cpu.Addi(1, 1, neg)
			assert.Equal(start, cpu.Get(1), "start %#x imm %#x", start, imm)
		}
	}
}

func TestSignExtend12(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		imm  uint32
		want uint32
	}){
		{0x000, 0x00000000},
		{0x001, 0x00000001},
		{0x7ff, 0x000007ff},
		{0x800, 0xfffff800},
		{0xfff, 0xffffffff},
	}

	for _, entry := range table {
		assert.Equal(entry.want, SignExtend12(entry.imm), "imm %#x", entry.imm)
	}
}

func TestEndToEnd(t *testing.T) {
	assert := assert.New(t)

	cpu := NewProcessor()
	cpu.Addi(1, 0, 5)
	cpu.Addi(2, 0, 3)
	cpu.Add(3, 1, 2)

	assert.Equal(uint32(8), cpu.Get(3))
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewProcessor()
	cpu.Set(1, 0xcafe)
	cpu.SetPC(0x100)

	dump := cpu.String()
	assert.True(strings.Contains(dump, "pc: 00000100"))
	assert.True(strings.Contains(dump, "x1 : 0000cafe"))
}
