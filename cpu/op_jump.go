package cpu

// Control-transfer instructions. Targets are computed by adding the
// signed 32-bit offset to an unsigned base with wraparound; see
// unsignedSignedAdd. Conditional branches leave the program counter
// untouched on the not-taken path and report the outcome, so the fetch
// loop owns the normal advance by 4.

// Jal performs an unconditional jump to a signed offset of the current
// PC, storing the return address PC+4 in rd. JAL x0, imm == J imm: the
// return address is discarded by the zero-register rule.
func (cpu *Processor) Jal(rd uint32, imm uint32) {
	cpu.Set(rd, cpu.pc+4)
	cpu.pc = unsignedSignedAdd(cpu.pc, int32(imm))
}

// Jalr performs an unconditional jump to a signed offset from rs1,
// storing the return address PC+4 in rd. Bit 0 of the computed target
// is cleared, as the standard requires for indirect jumps.
func (cpu *Processor) Jalr(rd, rs1 uint32, imm uint32) {
	target := unsignedSignedAdd(cpu.Get(rs1), int32(imm)) &^ 1
	cpu.Set(rd, cpu.pc+4)
	cpu.pc = target
}

// Beq jumps to the signed offset if the two registers are equal.
func (cpu *Processor) Beq(rs1, rs2 uint32, imm uint32) (taken bool) {
	taken = cpu.Get(rs1) == cpu.Get(rs2)
	if taken {
		cpu.pc = unsignedSignedAdd(cpu.pc, int32(imm))
	}
	return
}

// Bne jumps to the signed offset if the two registers are not equal.
func (cpu *Processor) Bne(rs1, rs2 uint32, imm uint32) (taken bool) {
	taken = cpu.Get(rs1) != cpu.Get(rs2)
	if taken {
		cpu.pc = unsignedSignedAdd(cpu.pc, int32(imm))
	}
	return
}

// Blt jumps to the signed offset if rs1 < rs2 in a signed comparison.
func (cpu *Processor) Blt(rs1, rs2 uint32, imm uint32) (taken bool) {
	taken = int32(cpu.Get(rs1)) < int32(cpu.Get(rs2))
	if taken {
		cpu.pc = unsignedSignedAdd(cpu.pc, int32(imm))
	}
	return
}

// Bltu jumps to the signed offset if rs1 < rs2 in an unsigned
// comparison.
func (cpu *Processor) Bltu(rs1, rs2 uint32, imm uint32) (taken bool) {
	taken = cpu.Get(rs1) < cpu.Get(rs2)
	if taken {
		cpu.pc = unsignedSignedAdd(cpu.pc, int32(imm))
	}
	return
}

// Bge jumps to the signed offset if rs1 >= rs2 in a signed comparison.
func (cpu *Processor) Bge(rs1, rs2 uint32, imm uint32) (taken bool) {
	taken = int32(cpu.Get(rs1)) >= int32(cpu.Get(rs2))
	if taken {
		cpu.pc = unsignedSignedAdd(cpu.pc, int32(imm))
	}
	return
}

// Bgeu jumps to the signed offset if rs1 >= rs2 in an unsigned
// comparison.
func (cpu *Processor) Bgeu(rs1, rs2 uint32, imm uint32) (taken bool) {
	taken = cpu.Get(rs1) >= cpu.Get(rs2)
	if taken {
		cpu.pc = unsignedSignedAdd(cpu.pc, int32(imm))
	}
	return
}
