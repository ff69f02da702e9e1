package cpu

// Immediate-operand instructions. The decoder supplies imm already
// sign-extended to 32 bits where the instruction format is signed, and
// shift amounts already masked to 0-31.

// Addi adds a sign-extended immediate to rs1. Overflow is discarded.
// ADDI rd, rs1, 0 == MV rd, rs1.
func (cpu *Processor) Addi(rd, rs1 uint32, imm uint32) {
	result := int32(cpu.Get(rs1)) + int32(imm)
	cpu.Set(rd, uint32(result))
}

// Slti sets rd to 1 if rs1 is less than the sign-extended immediate in
// a signed comparison, else 0.
func (cpu *Processor) Slti(rd, rs1 uint32, imm uint32) {
	cpu.Set(rd, boolTo32(int32(cpu.Get(rs1)) < int32(imm)))
}

// Sltiu sets rd to 1 if rs1 is less than the immediate in an unsigned
// comparison, else 0. With imm == 1 this is the SEQZ pseudo-op; the
// general rule already yields the SEQZ result.
func (cpu *Processor) Sltiu(rd, rs1 uint32, imm uint32) {
	cpu.Set(rd, boolTo32(cpu.Get(rs1) < imm))
}

// Andi performs a bitwise AND of rs1 and the immediate.
func (cpu *Processor) Andi(rd, rs1 uint32, imm uint32) {
	cpu.Set(rd, cpu.Get(rs1)&imm)
}

// Ori performs a bitwise OR of rs1 and the immediate.
func (cpu *Processor) Ori(rd, rs1 uint32, imm uint32) {
	cpu.Set(rd, cpu.Get(rs1)|imm)
}

// Xori performs a bitwise XOR of rs1 and the immediate.
// XORI rd, rs1, -1 == NOT rd, rs1.
func (cpu *Processor) Xori(rd, rs1 uint32, imm uint32) {
	cpu.Set(rd, cpu.Get(rs1)^imm)
}

// Slli shifts rs1 left by the immediate, filling with zeroes.
func (cpu *Processor) Slli(rd, rs1 uint32, imm uint32) {
	cpu.Set(rd, cpu.Get(rs1)<<imm)
}

// Srli shifts rs1 right by the immediate, filling with zeroes.
func (cpu *Processor) Srli(rd, rs1 uint32, imm uint32) {
	cpu.Set(rd, cpu.Get(rs1)>>imm)
}

// Srai shifts rs1 right by the immediate, replicating the sign bit
// into the vacated upper bits.
func (cpu *Processor) Srai(rd, rs1 uint32, imm uint32) {
	cpu.Set(rd, uint32(int32(cpu.Get(rs1))>>imm))
}

// Lui loads the immediate's low 20 bits into the upper bits of rd.
// The low 12 bits of the result are zero.
func (cpu *Processor) Lui(rd uint32, imm uint32) {
	cpu.Set(rd, imm<<12)
}

// Auipc builds a 32-bit value the same way as LUI, adds the program
// counter with wraparound, and puts the result in rd.
func (cpu *Processor) Auipc(rd uint32, imm uint32) {
	cpu.Set(rd, (imm<<12)+cpu.pc)
}

func boolTo32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
