package cpu

// Register-register instructions. Shift amounts come from the low five
// bits of rs2.

// Add adds two registers, discarding overflow.
func (cpu *Processor) Add(rd, rs1, rs2 uint32) {
	cpu.Set(rd, cpu.Get(rs1)+cpu.Get(rs2))
}

// Sub subtracts rs2 from rs1, discarding overflow.
func (cpu *Processor) Sub(rd, rs1, rs2 uint32) {
	cpu.Set(rd, cpu.Get(rs1)-cpu.Get(rs2))
}

// Slt sets rd to 1 if rs1 < rs2 in a signed comparison, else 0.
func (cpu *Processor) Slt(rd, rs1, rs2 uint32) {
	cpu.Set(rd, boolTo32(int32(cpu.Get(rs1)) < int32(cpu.Get(rs2))))
}

// Sltu sets rd to 1 if rs1 < rs2 in an unsigned comparison, else 0.
// SLTU rd, x0, rs2 == SNEZ rd, rs2.
func (cpu *Processor) Sltu(rd, rs1, rs2 uint32) {
	cpu.Set(rd, boolTo32(cpu.Get(rs1) < cpu.Get(rs2)))
}

// And performs a bitwise AND of two registers.
func (cpu *Processor) And(rd, rs1, rs2 uint32) {
	cpu.Set(rd, cpu.Get(rs1)&cpu.Get(rs2))
}

// Or performs a bitwise OR of two registers.
func (cpu *Processor) Or(rd, rs1, rs2 uint32) {
	cpu.Set(rd, cpu.Get(rs1)|cpu.Get(rs2))
}

// Xor performs a bitwise XOR of two registers.
func (cpu *Processor) Xor(rd, rs1, rs2 uint32) {
	cpu.Set(rd, cpu.Get(rs1)^cpu.Get(rs2))
}

// Sll shifts rs1 left by the low five bits of rs2, filling with zeroes.
func (cpu *Processor) Sll(rd, rs1, rs2 uint32) {
	cpu.Set(rd, cpu.Get(rs1)<<(cpu.Get(rs2)&0b11111))
}

// Srl shifts rs1 right by the low five bits of rs2, filling with zeroes.
func (cpu *Processor) Srl(rd, rs1, rs2 uint32) {
	cpu.Set(rd, cpu.Get(rs1)>>(cpu.Get(rs2)&0b11111))
}

// Sra shifts rs1 right by the low five bits of rs2, replicating the
// sign bit into the vacated upper bits.
func (cpu *Processor) Sra(rd, rs1, rs2 uint32) {
	cpu.Set(rd, uint32(int32(cpu.Get(rs1))>>(cpu.Get(rs2)&0b11111)))
}
