// Package cpu implements the execution core of a single RV32I hart.
//
// A Processor holds 32 general-purpose 32-bit registers and an explicit
// program counter. Register x0 is hard-wired to zero: reads always yield
// zero and writes are discarded. Each RV32I computational and
// control-transfer instruction is exposed as one state-transition method.
// The processor performs no instruction fetch or decode of its own; an
// external fetch loop reads instruction words from memory, decodes them,
// and calls the per-mnemonic methods.
//
// Register contents are bit patterns with no inherent signedness. Each
// operation interprets them as signed or unsigned two's-complement values
// as the instruction requires. Arithmetic overflow wraps modulo 2^32 and
// is never a fault.
package cpu
