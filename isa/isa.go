// Package isa defines the RV32I instruction set at the boundary between
// the binary encoding and the execution core: the mnemonic enumeration,
// the decoded operand record, and the word-level decode and encode
// helpers. The decoder hands the processor fully extracted operands with
// immediates already sign-extended where the format is signed; the
// processor never parses instruction words itself.
package isa

import (
	"fmt"
)

// Mnemonic selects one RV32I instruction.
type Mnemonic int

const (
	// Immediate-operand computational instructions.
	ADDI = Mnemonic(iota)
	SLTI
	SLTIU
	ANDI
	ORI
	XORI
	SLLI
	SRLI
	SRAI

	// Upper-immediate instructions.
	LUI
	AUIPC

	// Register-register computational instructions.
	ADD
	SUB
	SLT
	SLTU
	AND
	OR
	XOR
	SLL
	SRL
	SRA

	// Control transfer.
	JAL
	JALR
	BEQ
	BNE
	BLT
	BLTU
	BGE
	BGEU

	// Loads and stores.
	LB
	LH
	LW
	LBU
	LHU
	SB
	SH
	SW

	// System.
	FENCE
	ECALL
	EBREAK

	NMNEMONICS = int(EBREAK) + 1
)

// mnemonicNames is indexed by Mnemonic. The table is consumed in both
// directions (String here, name lookup in the assembler), which is why
// it is a plain array rather than stringer output.
var mnemonicNames = [NMNEMONICS]string{
	"addi", "slti", "sltiu", "andi", "ori", "xori", "slli", "srli", "srai",
	"lui", "auipc",
	"add", "sub", "slt", "sltu", "and", "or", "xor", "sll", "srl", "sra",
	"jal", "jalr", "beq", "bne", "blt", "bltu", "bge", "bgeu",
	"lb", "lh", "lw", "lbu", "lhu", "sb", "sh", "sw",
	"fence", "ecall", "ebreak",
}

// String returns the assembly mnemonic.
func (m Mnemonic) String() string {
	if m < 0 || int(m) >= NMNEMONICS {
		return fmt.Sprintf("Mnemonic(%d)", int(m))
	}
	return mnemonicNames[m]
}

// MnemonicByName maps an assembly mnemonic back to its Mnemonic.
func MnemonicByName(name string) (m Mnemonic, ok bool) {
	for n, candidate := range mnemonicNames {
		if candidate == name {
			return Mnemonic(n), true
		}
	}
	return 0, false
}

// IsBranch reports whether the mnemonic is a conditional branch, whose
// not-taken path leaves the PC for the fetch loop to advance.
func (m Mnemonic) IsBranch() bool {
	return m >= BEQ && m <= BGEU
}

// IsJump reports whether the mnemonic unconditionally transfers control.
func (m Mnemonic) IsJump() bool {
	return m == JAL || m == JALR
}

// IsLoad reports whether the mnemonic reads memory.
func (m Mnemonic) IsLoad() bool {
	return m >= LB && m <= LHU
}

// IsStore reports whether the mnemonic writes memory.
func (m Mnemonic) IsStore() bool {
	return m >= SB && m <= SW
}

// Instruction is one decoded instruction: a mnemonic plus the extracted
// operand fields. Fields that a format does not carry are zero. Imm is a
// raw 32-bit pattern, sign-extended by the decoder when the format is
// signed; for LUI/AUIPC it holds the upper-20-bit immediate in its low
// bits, and for the shift-immediate instructions the masked shift
// amount.
type Instruction struct {
	Mnemonic Mnemonic
	Rd       uint32
	Rs1      uint32
	Rs2      uint32
	Imm      uint32
}

// String renders the instruction in assembly syntax.
func (inst Instruction) String() string {
	m := inst.Mnemonic
	switch {
	case m == LUI || m == AUIPC:
		return fmt.Sprintf("%v %v, %#x", m, RegName(inst.Rd), inst.Imm)
	case m == JAL:
		return fmt.Sprintf("%v %v, %d", m, RegName(inst.Rd), int32(inst.Imm))
	case m == JALR || m.IsLoad():
		return fmt.Sprintf("%v %v, %d(%v)", m, RegName(inst.Rd), int32(inst.Imm), RegName(inst.Rs1))
	case m.IsStore():
		return fmt.Sprintf("%v %v, %d(%v)", m, RegName(inst.Rs2), int32(inst.Imm), RegName(inst.Rs1))
	case m.IsBranch():
		return fmt.Sprintf("%v %v, %v, %d", m, RegName(inst.Rs1), RegName(inst.Rs2), int32(inst.Imm))
	case m >= ADD && m <= SRA:
		return fmt.Sprintf("%v %v, %v, %v", m, RegName(inst.Rd), RegName(inst.Rs1), RegName(inst.Rs2))
	case m == FENCE || m == ECALL || m == EBREAK:
		return m.String()
	default:
		return fmt.Sprintf("%v %v, %v, %d", m, RegName(inst.Rd), RegName(inst.Rs1), int32(inst.Imm))
	}
}
