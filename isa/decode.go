package isa

// Standard RV32I base opcodes (bits 6:0 of the instruction word).
const (
	OPCODE_LUI    = 0x37
	OPCODE_AUIPC  = 0x17
	OPCODE_JAL    = 0x6f
	OPCODE_JALR   = 0x67
	OPCODE_BRANCH = 0x63
	OPCODE_LOAD   = 0x03
	OPCODE_STORE  = 0x23
	OPCODE_OP_IMM = 0x13
	OPCODE_OP     = 0x33
	OPCODE_FENCE  = 0x0f
	OPCODE_SYSTEM = 0x73
)

// Field extraction helpers, shared by decode and the encoders' tests.

func fieldRd(word uint32) uint32  { return (word >> 7) & 0x1f }
func fieldRs1(word uint32) uint32 { return (word >> 15) & 0x1f }
func fieldRs2(word uint32) uint32 { return (word >> 20) & 0x1f }
func funct3(word uint32) uint32   { return (word >> 12) & 0x7 }
func funct7(word uint32) uint32   { return (word >> 25) & 0x7f }

// immI extracts the I-type immediate, sign-extended from bit 11.
func immI(word uint32) uint32 {
	imm := word >> 20
	if imm&(1<<11) != 0 {
		imm |= 0xfffff000
	}
	return imm
}

// immS extracts the S-type immediate, sign-extended from bit 11.
func immS(word uint32) uint32 {
	imm := ((word >> 7) & 0x1f) | (((word >> 25) & 0x7f) << 5)
	if imm&(1<<11) != 0 {
		imm |= 0xfffff000
	}
	return imm
}

// immB extracts the B-type immediate imm[12|10:5|4:1|11], sign-extended
// from bit 12.
func immB(word uint32) uint32 {
	imm := (((word >> 31) & 0x1) << 12) |
		(((word >> 7) & 0x1) << 11) |
		(((word >> 25) & 0x3f) << 5) |
		(((word >> 8) & 0xf) << 1)
	if imm&(1<<12) != 0 {
		imm |= 0xffffe000
	}
	return imm
}

// immU extracts the U-type immediate as its upper-20 bits value, in the
// low bits of the result (the processor applies the << 12).
func immU(word uint32) uint32 {
	return word >> 12
}

// immJ extracts the J-type immediate imm[20|10:1|11|19:12], sign-extended
// from bit 20.
func immJ(word uint32) uint32 {
	imm := ((word >> 31) << 20) |
		(((word >> 12) & 0xff) << 12) |
		(((word >> 20) & 0x1) << 11) |
		(((word >> 21) & 0x3ff) << 1)
	if imm&(1<<20) != 0 {
		imm |= 0xfff00000
	}
	return imm
}

// Decode parses a 32-bit instruction word into its mnemonic and operand
// fields per the standard RV32I encoding. Unknown encodings return an
// ErrIllegal wrapping the reason.
func Decode(word uint32) (inst Instruction, err error) {
	defer func() {
		if err != nil {
			err = &ErrIllegal{Word: word, Err: err}
		}
	}()

	switch word & 0x7f {
	case OPCODE_LUI:
		inst = Instruction{Mnemonic: LUI, Rd: fieldRd(word), Imm: immU(word)}
	case OPCODE_AUIPC:
		inst = Instruction{Mnemonic: AUIPC, Rd: fieldRd(word), Imm: immU(word)}
	case OPCODE_JAL:
		inst = Instruction{Mnemonic: JAL, Rd: fieldRd(word), Imm: immJ(word)}
	case OPCODE_JALR:
		if funct3(word) != 0 {
			err = ErrFunctUnknown
			return
		}
		inst = Instruction{Mnemonic: JALR, Rd: fieldRd(word), Rs1: fieldRs1(word), Imm: immI(word)}
	case OPCODE_BRANCH:
		var m Mnemonic
		switch funct3(word) {
		case 0b000:
			m = BEQ
		case 0b001:
			m = BNE
		case 0b100:
			m = BLT
		case 0b101:
			m = BGE
		case 0b110:
			m = BLTU
		case 0b111:
			m = BGEU
		default:
			err = ErrFunctUnknown
			return
		}
		inst = Instruction{Mnemonic: m, Rs1: fieldRs1(word), Rs2: fieldRs2(word), Imm: immB(word)}
	case OPCODE_LOAD:
		var m Mnemonic
		switch funct3(word) {
		case 0b000:
			m = LB
		case 0b001:
			m = LH
		case 0b010:
			m = LW
		case 0b100:
			m = LBU
		case 0b101:
			m = LHU
		default:
			err = ErrFunctUnknown
			return
		}
		inst = Instruction{Mnemonic: m, Rd: fieldRd(word), Rs1: fieldRs1(word), Imm: immI(word)}
	case OPCODE_STORE:
		var m Mnemonic
		switch funct3(word) {
		case 0b000:
			m = SB
		case 0b001:
			m = SH
		case 0b010:
			m = SW
		default:
			err = ErrFunctUnknown
			return
		}
		inst = Instruction{Mnemonic: m, Rs1: fieldRs1(word), Rs2: fieldRs2(word), Imm: immS(word)}
	case OPCODE_OP_IMM:
		inst, err = decodeOpImm(word)
	case OPCODE_OP:
		inst, err = decodeOp(word)
	case OPCODE_FENCE:
		// funct3 1 is FENCE.I, which is Zifencei rather than the base set.
		if funct3(word) != 0 {
			err = ErrFunctUnknown
			return
		}
		inst = Instruction{Mnemonic: FENCE}
	case OPCODE_SYSTEM:
		if funct3(word) != 0 {
			err = ErrFunctUnknown
			return
		}
		switch word >> 20 {
		case 0:
			inst = Instruction{Mnemonic: ECALL}
		case 1:
			inst = Instruction{Mnemonic: EBREAK}
		default:
			err = ErrFunctUnknown
		}
	default:
		err = ErrOpcodeUnknown
	}

	return
}

// decodeOpImm decodes the OP-IMM major opcode. For the shift
// instructions, Imm carries the already-masked shift amount, per the
// processor's operand contract.
func decodeOpImm(word uint32) (inst Instruction, err error) {
	inst = Instruction{Rd: fieldRd(word), Rs1: fieldRs1(word), Imm: immI(word)}

	switch funct3(word) {
	case 0b000:
		inst.Mnemonic = ADDI
	case 0b010:
		inst.Mnemonic = SLTI
	case 0b011:
		inst.Mnemonic = SLTIU
	case 0b100:
		inst.Mnemonic = XORI
	case 0b110:
		inst.Mnemonic = ORI
	case 0b111:
		inst.Mnemonic = ANDI
	case 0b001:
		if funct7(word) != 0 {
			err = ErrFunctUnknown
			return
		}
		inst.Mnemonic = SLLI
		inst.Imm = fieldRs2(word)
	case 0b101:
		switch funct7(word) {
		case 0x00:
			inst.Mnemonic = SRLI
		case 0x20:
			inst.Mnemonic = SRAI
		default:
			err = ErrFunctUnknown
			return
		}
		inst.Imm = fieldRs2(word)
	}

	return
}

// decodeOp decodes the OP major opcode.
func decodeOp(word uint32) (inst Instruction, err error) {
	inst = Instruction{Rd: fieldRd(word), Rs1: fieldRs1(word), Rs2: fieldRs2(word)}

	alt := false
	switch funct7(word) {
	case 0x00:
	case 0x20:
		alt = true
	default:
		err = ErrFunctUnknown
		return
	}

	switch funct3(word) {
	case 0b000:
		if alt {
			inst.Mnemonic = SUB
		} else {
			inst.Mnemonic = ADD
		}
	case 0b001:
		inst.Mnemonic = SLL
	case 0b010:
		inst.Mnemonic = SLT
	case 0b011:
		inst.Mnemonic = SLTU
	case 0b100:
		inst.Mnemonic = XOR
	case 0b101:
		if alt {
			inst.Mnemonic = SRA
		} else {
			inst.Mnemonic = SRL
		}
	case 0b110:
		inst.Mnemonic = OR
	case 0b111:
		inst.Mnemonic = AND
	}

	if alt && inst.Mnemonic != SUB && inst.Mnemonic != SRA {
		err = ErrFunctUnknown
	}

	return
}
