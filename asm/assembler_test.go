// Copyright 2026, Kevin M. Granger

package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KevinMGranger/riscv-harmony/emulator"
	"github.com/KevinMGranger/riscv-harmony/isa"
)

func assemble(t *testing.T, lines ...string) *Program {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	return prog
}

func encoded(insts ...isa.Instruction) (out []uint32) {
	for _, inst := range insts {
		out = append(out, isa.Encode(inst))
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))

	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"addi x1, zero, 5",
		"add x3, x1, x1   # doubled",
		"sw x3, 16(zero)  ; stashed",
		"lw x4, 16(zero)",
	)

	assert.Equal(encoded(
		isa.Instruction{Mnemonic: isa.ADDI, Rd: 1, Imm: 5},
		isa.Instruction{Mnemonic: isa.ADD, Rd: 3, Rs1: 1, Rs2: 1},
		isa.Instruction{Mnemonic: isa.SW, Rs1: 0, Rs2: 3, Imm: 16},
		isa.Instruction{Mnemonic: isa.LW, Rd: 4, Rs1: 0, Imm: 16},
	), prog.Binary())

	assert.Equal(uint32(0x00500093), prog.Binary()[0])
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"    addi x1, zero, 5",
		"loop:",
		"    addi x1, x1, -1",
		"    bne x1, zero, loop",
		"    jal done",
		"dead:",
		"    nop",
		"done: ebreak",
	)

	assert.Equal(encoded(
		isa.Instruction{Mnemonic: isa.ADDI, Rd: 1, Imm: 5},
		isa.Instruction{Mnemonic: isa.ADDI, Rd: 1, Rs1: 1, Imm: 0xffffffff},
		isa.Instruction{Mnemonic: isa.BNE, Rs1: 1, Imm: 0xfffffffc},
		isa.Instruction{Mnemonic: isa.JAL, Rd: isa.REG_RA, Imm: 8},
		isa.Instruction{Mnemonic: isa.ADDI},
		isa.Instruction{Mnemonic: isa.EBREAK},
	), prog.Binary())
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".equ COUNT 5",
		".equ OFF 16",
		"addi x1, zero, COUNT",
		"addi x2, zero, $(COUNT * 2 + 1)",
		"lw x3, OFF(sp)",
	)

	assert.Equal(encoded(
		isa.Instruction{Mnemonic: isa.ADDI, Rd: 1, Imm: 5},
		isa.Instruction{Mnemonic: isa.ADDI, Rd: 2, Imm: 11},
		isa.Instruction{Mnemonic: isa.LW, Rd: 3, Rs1: isa.REG_SP, Imm: 16},
	), prog.Binary())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("MAGIC", "42")

	prog, err := asm.Parse(strings.NewReader("addi a0, zero, MAGIC"))
	assert.NoError(err)

	assert.Equal(encoded(
		isa.Instruction{Mnemonic: isa.ADDI, Rd: isa.REG_A0, Imm: 42},
	), prog.Binary())
}

func TestAssemblerPseudo(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"nop",
		"mv x2, x1",
		"not x3, x1",
		"neg x4, x1",
		"seqz x5, x1",
		"snez x6, x1",
		"jr x1",
		"ret",
	)

	assert.Equal(encoded(
		isa.Instruction{Mnemonic: isa.ADDI},
		isa.Instruction{Mnemonic: isa.ADDI, Rd: 2, Rs1: 1},
		isa.Instruction{Mnemonic: isa.XORI, Rd: 3, Rs1: 1, Imm: 0xffffffff},
		isa.Instruction{Mnemonic: isa.SUB, Rd: 4, Rs2: 1},
		isa.Instruction{Mnemonic: isa.SLTIU, Rd: 5, Rs1: 1, Imm: 1},
		isa.Instruction{Mnemonic: isa.SLTU, Rd: 6, Rs2: 1},
		isa.Instruction{Mnemonic: isa.JALR, Rs1: 1},
		isa.Instruction{Mnemonic: isa.JALR, Rs1: isa.REG_RA},
	), prog.Binary())
}

func TestAssemblerLi(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"li x1, 5",
		"li x2, -1",
		"li x3, 0x2000",
		"li x4, 0x12345678",
	)

	assert.Equal(encoded(
		isa.Instruction{Mnemonic: isa.ADDI, Rd: 1, Imm: 5},
		isa.Instruction{Mnemonic: isa.ADDI, Rd: 2, Imm: 0xffffffff},
		isa.Instruction{Mnemonic: isa.LUI, Rd: 3, Imm: 0x2},
		isa.Instruction{Mnemonic: isa.LUI, Rd: 4, Imm: 0x12345},
		isa.Instruction{Mnemonic: isa.ADDI, Rd: 4, Rs1: 4, Imm: 0x678},
	), prog.Binary())
}

func TestAssemblerWordData(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"table: .word 0xdeadbeef 1 -1",
		"lw x1, 0(zero)",
	)

	bins := prog.Binary()
	assert.Equal(uint32(0xdeadbeef), bins[0])
	assert.Equal(uint32(1), bins[1])
	assert.Equal(uint32(0xffffffff), bins[2])

	assert.Equal([]byte{0xef, 0xbe, 0xad, 0xde}, prog.Bytes()[:4])
}

func TestAssemblerOrigin(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{Origin: 0x1000}
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"loop: jal zero, loop",
	}, "\n")))
	assert.NoError(err)

	assert.Equal(uint32(0x1000), prog.Statements[0].Addr)
	assert.Equal(encoded(
		isa.Instruction{Mnemonic: isa.JAL, Imm: 0},
	), prog.Binary())
}

func TestAssemblerDebug(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"li x1, 0x12345678",
		"ebreak",
	)

	dbg := prog.Debug(4)
	assert.NotNil(dbg.Statement)
	assert.Equal(1, dbg.Statement.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(8)
	assert.Equal(2, dbg.Statement.LineNo)

	dbg = prog.Debug(0x100)
	assert.Nil(dbg.Statement)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		program string
		err     error
	}{
		{"bogus x1", ErrMnemonicUnknown("bogus")},
		{"addi x1, q7, 0", ErrRegisterUnknown("q7")},
		{"addi x1, zero, 4096", ErrImmediateRange{Word: "4096", Bits: 12}},
		{"slli x1, x1, 32", ErrImmediateRange{Word: "32", Bits: 5}},
		{"add x1, x2", ErrOperandCount},
		{"beq x1, x2, 3", ErrBranchOffsetOdd},
		{"beq x1, x2, 0x2000", ErrImmediateRange{Word: "0x2000", Bits: 13}},
		{"bne x1, x2, -4098", ErrImmediateRange{Word: "-4098", Bits: 13}},
		{"jal zero, 0x200000", ErrImmediateRange{Word: "0x200000", Bits: 21}},
		{"li x1, -3000000000", ErrImmediateRange{Word: "-3000000000", Bits: 32}},
		{".word -4294967296", ErrImmediateRange{Word: "-4294967296", Bits: 32}},
		{"bne x1, x2, nowhere", ErrLabelMissing("nowhere")},
		{".equ ONLY", ErrEquateSyntax},
		{".equ A 1\n.equ A 2", ErrEquateDuplicate},
		{"a:\na: nop", ErrLabelDuplicate},
		{".word", ErrWordSyntax},
	}

	for _, test := range tests {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(test.program))
		assert.Error(err, "%v", test.program)
		assert.ErrorIs(err, test.err, "%v", test.program)

		var serr *ErrSyntax
		assert.ErrorAs(err, &serr, "%v", test.program)
	}
}

func TestAssemblerTargetRange(t *testing.T) {
	assert := assert.New(t)

	// 4400 bytes of data put the label out of conditional-branch reach
	// but well within jal's.
	filler := ".word " + strings.TrimSpace(strings.Repeat("0 ", 1100))

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"beq x1, x2, far",
		filler,
		"far: ebreak",
	}, "\n")))
	assert.Error(err)
	assert.ErrorIs(err, ErrImmediateRange{Word: "far", Bits: 13})

	asm = &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"jal zero, far",
		filler,
		"far: ebreak",
	}, "\n")))
	assert.NoError(err)

	inst, derr := isa.Decode(prog.Binary()[0])
	assert.NoError(derr)
	assert.Equal(isa.JAL, inst.Mnemonic)
	assert.Equal(uint32(4404), inst.Imm)
}

func TestAssembledProgramRuns(t *testing.T) {
	assert := assert.New(t)

	hart := emulator.NewHart()

	asm := &Assembler{}
	for key, value := range hart.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"# sum the integers 1..5, then report the sum as the exit code",
		".equ COUNT 5",
		"      li t0, COUNT",
		"      li t1, 0",
		"loop: add t1, t1, t0",
		"      addi t0, t0, -1",
		"      bne t0, zero, loop",
		"      mv a0, t1",
		"      li a7, ECALL_HALT",
		"      ecall",
	}, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	hart.LoadProgram(prog.Bytes(), prog.Origin, prog.Origin)
	err = hart.Run(1000)
	assert.NoError(err)

	assert.True(hart.Halted)
	assert.Equal(uint32(15), hart.ExitCode)
}
