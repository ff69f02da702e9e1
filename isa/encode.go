package isa

// Instruction-word construction. The assembler and the test suites
// build programs through these; Decode is their inverse.

// EncodeR encodes an R-type instruction.
func EncodeR(opcode, rd, f3, rs1, rs2, f7 uint32) uint32 {
	return (f7 << 25) | (rs2 << 20) | (rs1 << 15) | (f3 << 12) | (rd << 7) | opcode
}

// EncodeI encodes an I-type instruction with a 12-bit immediate.
func EncodeI(opcode, rd, f3, rs1 uint32, imm uint32) uint32 {
	return ((imm & 0xfff) << 20) | (rs1 << 15) | (f3 << 12) | (rd << 7) | opcode
}

// EncodeS encodes an S-type instruction with a 12-bit immediate.
func EncodeS(opcode, f3, rs1, rs2 uint32, imm uint32) uint32 {
	return ((imm >> 5 & 0x7f) << 25) | (rs2 << 20) | (rs1 << 15) | (f3 << 12) |
		((imm & 0x1f) << 7) | opcode
}

// EncodeB encodes a B-type instruction with a 13-bit branch offset.
func EncodeB(opcode, f3, rs1, rs2 uint32, imm uint32) uint32 {
	return ((imm >> 12 & 0x1) << 31) | ((imm >> 5 & 0x3f) << 25) |
		(rs2 << 20) | (rs1 << 15) | (f3 << 12) |
		((imm >> 1 & 0xf) << 8) | ((imm >> 11 & 0x1) << 7) | opcode
}

// EncodeU encodes a U-type instruction. imm holds the upper-20-bit
// immediate in its low bits, matching the decoder's output form.
func EncodeU(opcode, rd uint32, imm uint32) uint32 {
	return ((imm & 0xfffff) << 12) | (rd << 7) | opcode
}

// EncodeJ encodes a J-type instruction with a 21-bit jump offset.
func EncodeJ(opcode, rd uint32, imm uint32) uint32 {
	return ((imm >> 20 & 0x1) << 31) | ((imm >> 1 & 0x3ff) << 21) |
		((imm >> 11 & 0x1) << 20) | ((imm >> 12 & 0xff) << 12) |
		(rd << 7) | opcode
}

// format selects the operand layout of a mnemonic.
type format int

const (
	formatR = format(iota)
	formatI
	formatShift
	formatS
	formatB
	formatU
	formatJ
	formatSystem
)

type encoding struct {
	format format
	opcode uint32
	f3     uint32
	f7     uint32
}

// encodings is indexed by Mnemonic.
var encodings = [NMNEMONICS]encoding{
	ADDI:  {formatI, OPCODE_OP_IMM, 0b000, 0},
	SLTI:  {formatI, OPCODE_OP_IMM, 0b010, 0},
	SLTIU: {formatI, OPCODE_OP_IMM, 0b011, 0},
	XORI:  {formatI, OPCODE_OP_IMM, 0b100, 0},
	ORI:   {formatI, OPCODE_OP_IMM, 0b110, 0},
	ANDI:  {formatI, OPCODE_OP_IMM, 0b111, 0},
	SLLI:  {formatShift, OPCODE_OP_IMM, 0b001, 0x00},
	SRLI:  {formatShift, OPCODE_OP_IMM, 0b101, 0x00},
	SRAI:  {formatShift, OPCODE_OP_IMM, 0b101, 0x20},

	LUI:   {formatU, OPCODE_LUI, 0, 0},
	AUIPC: {formatU, OPCODE_AUIPC, 0, 0},

	ADD:  {formatR, OPCODE_OP, 0b000, 0x00},
	SUB:  {formatR, OPCODE_OP, 0b000, 0x20},
	SLL:  {formatR, OPCODE_OP, 0b001, 0x00},
	SLT:  {formatR, OPCODE_OP, 0b010, 0x00},
	SLTU: {formatR, OPCODE_OP, 0b011, 0x00},
	XOR:  {formatR, OPCODE_OP, 0b100, 0x00},
	SRL:  {formatR, OPCODE_OP, 0b101, 0x00},
	SRA:  {formatR, OPCODE_OP, 0b101, 0x20},
	OR:   {formatR, OPCODE_OP, 0b110, 0x00},
	AND:  {formatR, OPCODE_OP, 0b111, 0x00},

	JAL:  {formatJ, OPCODE_JAL, 0, 0},
	JALR: {formatI, OPCODE_JALR, 0b000, 0},
	BEQ:  {formatB, OPCODE_BRANCH, 0b000, 0},
	BNE:  {formatB, OPCODE_BRANCH, 0b001, 0},
	BLT:  {formatB, OPCODE_BRANCH, 0b100, 0},
	BGE:  {formatB, OPCODE_BRANCH, 0b101, 0},
	BLTU: {formatB, OPCODE_BRANCH, 0b110, 0},
	BGEU: {formatB, OPCODE_BRANCH, 0b111, 0},

	LB:  {formatI, OPCODE_LOAD, 0b000, 0},
	LH:  {formatI, OPCODE_LOAD, 0b001, 0},
	LW:  {formatI, OPCODE_LOAD, 0b010, 0},
	LBU: {formatI, OPCODE_LOAD, 0b100, 0},
	LHU: {formatI, OPCODE_LOAD, 0b101, 0},
	SB:  {formatS, OPCODE_STORE, 0b000, 0},
	SH:  {formatS, OPCODE_STORE, 0b001, 0},
	SW:  {formatS, OPCODE_STORE, 0b010, 0},

	FENCE:  {formatSystem, OPCODE_FENCE, 0b000, 0},
	ECALL:  {formatSystem, OPCODE_SYSTEM, 0b000, 0},
	EBREAK: {formatSystem, OPCODE_SYSTEM, 0b000, 0},
}

// Encode builds the instruction word for a decoded instruction.
// It is the inverse of Decode for every legal instruction.
func Encode(inst Instruction) uint32 {
	enc := encodings[inst.Mnemonic]

	switch enc.format {
	case formatR:
		return EncodeR(enc.opcode, inst.Rd, enc.f3, inst.Rs1, inst.Rs2, enc.f7)
	case formatI:
		return EncodeI(enc.opcode, inst.Rd, enc.f3, inst.Rs1, inst.Imm)
	case formatShift:
		return EncodeI(enc.opcode, inst.Rd, enc.f3, inst.Rs1, (enc.f7<<5)|(inst.Imm&0x1f))
	case formatS:
		return EncodeS(enc.opcode, enc.f3, inst.Rs1, inst.Rs2, inst.Imm)
	case formatB:
		return EncodeB(enc.opcode, enc.f3, inst.Rs1, inst.Rs2, inst.Imm)
	case formatU:
		return EncodeU(enc.opcode, inst.Rd, inst.Imm)
	case formatJ:
		return EncodeJ(enc.opcode, inst.Rd, inst.Imm)
	case formatSystem:
		if inst.Mnemonic == EBREAK {
			return EncodeI(enc.opcode, 0, enc.f3, 0, 1)
		}
		return EncodeI(enc.opcode, 0, enc.f3, 0, 0)
	}

	return 0
}
