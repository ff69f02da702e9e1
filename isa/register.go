package isa

import (
	"strconv"
)

// abiNames holds the standard ABI register names, indexed by register
// number.
var abiNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Calling-convention register numbers used by the host-call interface.
const (
	REG_ZERO = uint32(0)
	REG_RA   = uint32(1)
	REG_SP   = uint32(2)
	REG_A0   = uint32(10)
	REG_A7   = uint32(17)
)

// RegName returns the ABI name of a register.
func RegName(reg uint32) string {
	return abiNames[reg&0x1f]
}

var regByName map[string]uint32

func init() {
	regByName = make(map[string]uint32, 65)
	for n, name := range abiNames {
		regByName[name] = uint32(n)
	}
	for n := range abiNames {
		regByName["x"+strconv.Itoa(n)] = uint32(n)
	}
	// The other accepted name for x8.
	regByName["fp"] = 8
}

// RegisterByName maps an x-name or ABI name to a register number.
func RegisterByName(name string) (reg uint32, ok bool) {
	reg, ok = regByName[name]
	return
}
