// Copyright 2026, Kevin M. Granger

// Package emulator drives the fetch/decode/execute loop over one
// Processor and one Memory. The processor owns the architectural state
// and the per-instruction transitions; this package owns instruction
// fetch, PC advancement on the non-branching path, memory-touching
// instructions, and the host-call interface.
package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/KevinMGranger/riscv-harmony/cpu"
	"github.com/KevinMGranger/riscv-harmony/internal"
	"github.com/KevinMGranger/riscv-harmony/isa"
	"github.com/KevinMGranger/riscv-harmony/memory"
)

// Host-call function codes, selected by a7. Exit codes and bytes travel
// in a0.
const (
	ECALL_HALT    = uint32(0) // Halt. Exit code in a0.
	ECALL_PUTCHAR = uint32(1) // Write the byte in a0 to Output.
	ECALL_GETCHAR = uint32(2) // Read a byte from Input into a0; -1 at EOF.
)

var _emulator_defines = map[string]string{
	"ECALL_HALT":    fmt.Sprintf("%v", ECALL_HALT),
	"ECALL_PUTCHAR": fmt.Sprintf("%v", ECALL_PUTCHAR),
	"ECALL_GETCHAR": fmt.Sprintf("%v", ECALL_GETCHAR),
}

// Hart is one hardware thread: a processor plus its view of memory.
// A multi-hart setup would share one Memory between Harts; nothing in
// this simulator does so, and no locking is provided.
type Hart struct {
	Verbose bool // Set to enable verbose execution tracing.

	Cpu *cpu.Processor
	Mem *memory.Memory

	Input  io.Reader // ECALL_GETCHAR source. May be nil.
	Output io.Writer // ECALL_PUTCHAR sink. May be nil.

	Halted   bool
	ExitCode uint32
	Steps    int
}

// NewHart creates a hart with fresh processor and memory state.
func NewHart() *Hart {
	return &Hart{
		Cpu: cpu.NewProcessor(),
		Mem: memory.NewMemory(),
	}
}

// Defines returns the host constants visible to assembly programs.
func (hart *Hart) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		maps.All(_emulator_defines),
		hart.Mem.Defines(),
	)
}

// Reset returns the hart to its power-on state. Memory contents are
// kept; reload the program to clear them.
func (hart *Hart) Reset() {
	hart.Cpu.Reset()
	hart.Halted = false
	hart.ExitCode = 0
	hart.Steps = 0
}

// LoadProgram writes machine code into memory at base and points the PC
// at the entry address.
func (hart *Hart) LoadProgram(code []byte, base, entry uint32) {
	hart.Mem.LoadSegment(base, code)
	hart.Cpu.SetPC(entry)
}

// LoadWords writes instruction words into memory at base, little-endian,
// and points the PC at base.
func (hart *Hart) LoadWords(base uint32, words []uint32) {
	for n, word := range words {
		hart.Mem.SetWord(base+uint32(n)*4, word)
	}
	hart.Cpu.SetPC(base)
}

// Step fetches, decodes, and executes one instruction. done is true
// when the hart has halted or execution ran off initialized memory.
func (hart *Hart) Step() (done bool, err error) {
	if hart.Halted {
		done = true
		return
	}

	pc := hart.Cpu.PC()

	word, ok := hart.Mem.GetWord(pc)
	if !ok {
		// Ran off the end of the program.
		if hart.Verbose {
			log.Printf("%08x: fetch from unwritten memory, halting", pc)
		}
		hart.Halted = true
		done = true
		return
	}

	inst, err := isa.Decode(word)
	if err != nil {
		err = &ErrRuntime{PC: pc, Err: err}
		return
	}

	if hart.Verbose {
		log.Printf("%08x: %v", pc, inst)
	}

	err = hart.execute(inst)
	if err != nil {
		err = &ErrRuntime{PC: pc, Err: err}
		return
	}

	hart.Steps++
	done = hart.Halted

	return
}

// Run steps the hart until it halts. limit bounds the number of
// executed instructions; zero means no bound.
func (hart *Hart) Run(limit int) (err error) {
	for done := false; !done; {
		done, err = hart.Step()
		if err != nil {
			return
		}
		if limit > 0 && hart.Steps >= limit && !done {
			err = &ErrRuntime{PC: hart.Cpu.PC(), Err: ErrStepLimit}
			return
		}
	}

	return
}

// execute dispatches one decoded instruction to the processor, or
// handles it here when it touches memory or the host. PC advancement on
// the non-branching path happens here: the processor only assigns the
// PC for taken control transfers.
func (hart *Hart) execute(inst isa.Instruction) (err error) {
	proc := hart.Cpu
	pc := proc.PC()
	rd, rs1, rs2, imm := inst.Rd, inst.Rs1, inst.Rs2, inst.Imm

	advance := true

	switch inst.Mnemonic {
	case isa.ADDI:
		proc.Addi(rd, rs1, imm)
	case isa.SLTI:
		proc.Slti(rd, rs1, imm)
	case isa.SLTIU:
		proc.Sltiu(rd, rs1, imm)
	case isa.ANDI:
		proc.Andi(rd, rs1, imm)
	case isa.ORI:
		proc.Ori(rd, rs1, imm)
	case isa.XORI:
		proc.Xori(rd, rs1, imm)
	case isa.SLLI:
		proc.Slli(rd, rs1, imm)
	case isa.SRLI:
		proc.Srli(rd, rs1, imm)
	case isa.SRAI:
		proc.Srai(rd, rs1, imm)
	case isa.LUI:
		proc.Lui(rd, imm)
	case isa.AUIPC:
		proc.Auipc(rd, imm)

	case isa.ADD:
		proc.Add(rd, rs1, rs2)
	case isa.SUB:
		proc.Sub(rd, rs1, rs2)
	case isa.SLT:
		proc.Slt(rd, rs1, rs2)
	case isa.SLTU:
		proc.Sltu(rd, rs1, rs2)
	case isa.AND:
		proc.And(rd, rs1, rs2)
	case isa.OR:
		proc.Or(rd, rs1, rs2)
	case isa.XOR:
		proc.Xor(rd, rs1, rs2)
	case isa.SLL:
		proc.Sll(rd, rs1, rs2)
	case isa.SRL:
		proc.Srl(rd, rs1, rs2)
	case isa.SRA:
		proc.Sra(rd, rs1, rs2)

	case isa.JAL:
		proc.Jal(rd, imm)
		advance = false
	case isa.JALR:
		proc.Jalr(rd, rs1, imm)
		advance = false
	case isa.BEQ:
		advance = !proc.Beq(rs1, rs2, imm)
	case isa.BNE:
		advance = !proc.Bne(rs1, rs2, imm)
	case isa.BLT:
		advance = !proc.Blt(rs1, rs2, imm)
	case isa.BLTU:
		advance = !proc.Bltu(rs1, rs2, imm)
	case isa.BGE:
		advance = !proc.Bge(rs1, rs2, imm)
	case isa.BGEU:
		advance = !proc.Bgeu(rs1, rs2, imm)

	case isa.LB, isa.LH, isa.LW, isa.LBU, isa.LHU:
		hart.load(inst)
	case isa.SB, isa.SH, isa.SW:
		hart.store(inst)

	case isa.FENCE:
		// A single in-order hart has nothing to fence.
	case isa.ECALL:
		err = hart.ecall()
	case isa.EBREAK:
		hart.Halted = true
	}

	if advance && !hart.Halted {
		proc.SetPC(pc + 4)
	}

	return
}

// load executes one load instruction. Absent slabs read as zero.
func (hart *Hart) load(inst isa.Instruction) {
	proc := hart.Cpu
	addr := proc.Get(inst.Rs1) + inst.Imm

	var value uint32
	switch inst.Mnemonic {
	case isa.LB:
		b, _ := hart.Mem.GetByte(addr)
		value = uint32(int32(int8(b)))
	case isa.LBU:
		b, _ := hart.Mem.GetByte(addr)
		value = uint32(b)
	case isa.LH:
		h, _ := hart.Mem.GetHalf(addr)
		value = uint32(int32(int16(h)))
	case isa.LHU:
		h, _ := hart.Mem.GetHalf(addr)
		value = uint32(h)
	case isa.LW:
		value, _ = hart.Mem.GetWord(addr)
	}

	proc.Set(inst.Rd, value)
}

// store executes one store instruction.
func (hart *Hart) store(inst isa.Instruction) {
	proc := hart.Cpu
	addr := proc.Get(inst.Rs1) + inst.Imm
	value := proc.Get(inst.Rs2)

	switch inst.Mnemonic {
	case isa.SB:
		hart.Mem.SetByte(addr, byte(value))
	case isa.SH:
		hart.Mem.SetHalf(addr, uint16(value))
	case isa.SW:
		hart.Mem.SetWord(addr, value)
	}
}

// ecall services a host call selected by a7.
func (hart *Hart) ecall() (err error) {
	proc := hart.Cpu

	switch proc.Get(isa.REG_A7) {
	case ECALL_HALT:
		hart.ExitCode = proc.Get(isa.REG_A0)
		hart.Halted = true
	case ECALL_PUTCHAR:
		if hart.Output != nil {
			_, err = hart.Output.Write([]byte{byte(proc.Get(isa.REG_A0))})
		}
	case ECALL_GETCHAR:
		var one [1]byte
		if hart.Input != nil {
			if _, rerr := io.ReadFull(hart.Input, one[:]); rerr == nil {
				proc.Set(isa.REG_A0, uint32(one[0]))
				return
			}
		}
		proc.Set(isa.REG_A0, ^uint32(0))
	default:
		err = ErrEcallUnknown
	}

	return
}
