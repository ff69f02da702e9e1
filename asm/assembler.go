// Copyright 2026, Kevin M. Granger

// Package asm implements a single-pass assembler for the RV32I
// instruction set. Lines hold at most one label, one instruction or
// directive, and a trailing comment ('#' or ';'). Forward references to
// labels are linked after the last line has been read. Compile-time
// arithmetic is available through $() expressions, evaluated by
// Starlark with every numeric equate bound as a variable.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/KevinMGranger/riscv-harmony/isa"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for RV32I assembly text.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Origin  uint32 // Address of the first emitted word.

	Statements []Statement // Statements emitted so far.

	predefine map[string]string // Predefines
	Label     map[string]uint32 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrImmediateRange{Word: word, Bits: 32}
		return
	}
	if v64 < 0 {
		value = uint32(0xffffffff + (v64 + 1))
	} else {
		value = uint32(v64)
	}

	if invert {
		value = ^value
	}

	return
}

// regOf returns the register number for an x-name or ABI name.
func (asm *Assembler) regOf(word string) (reg uint32, err error) {
	reg, ok := isa.RegisterByName(word)
	if !ok {
		err = ErrRegisterUnknown(word)
	}
	return
}

// imm12Of returns a signed 12-bit immediate, sign-extended to 32 bits.
func (asm *Assembler) imm12Of(word string) (imm uint32, err error) {
	imm, err = asm.valueOf(word)
	if err != nil {
		return
	}
	if int32(imm) < -2048 || int32(imm) > 2047 {
		err = ErrImmediateRange{Word: word, Bits: 12}
	}
	return
}

// imm20Of returns an unsigned 20-bit upper immediate.
func (asm *Assembler) imm20Of(word string) (imm uint32, err error) {
	imm, err = asm.valueOf(word)
	if err != nil {
		return
	}
	if imm > 0xfffff {
		err = ErrImmediateRange{Word: word, Bits: 20}
	}
	return
}

// shamtOf returns a 5-bit shift amount.
func (asm *Assembler) shamtOf(word string) (imm uint32, err error) {
	imm, err = asm.valueOf(word)
	if err != nil {
		return
	}
	if imm > 31 {
		err = ErrImmediateRange{Word: word, Bits: 5}
	}
	return
}

// targetOf resolves a branch or jump target word: a numeric PC-relative
// offset, or a label to be linked after the last line.
func (asm *Assembler) targetOf(m isa.Mnemonic, word string) (imm uint32, label string, err error) {
	imm, err = asm.valueOf(word)
	if err != nil {
		if _, numeric := err.(ErrParseNumber); numeric {
			err = nil
			label = word
		}
		return
	}
	if imm&1 != 0 {
		err = ErrBranchOffsetOdd
		return
	}
	err = asm.targetRange(m, imm, word)
	return
}

// targetRange validates a PC-relative offset against the width of the
// mnemonic's offset field: 13 bits for the conditional branches, 21 for
// jal. The encoders mask to the field width, so an unchecked offset
// would silently truncate.
func (asm *Assembler) targetRange(m isa.Mnemonic, imm uint32, word string) (err error) {
	bits := 21
	if m.IsBranch() {
		bits = 13
	}
	limit := int32(1) << (bits - 1)
	if int32(imm) < -limit || int32(imm) >= limit {
		err = ErrImmediateRange{Word: word, Bits: bits}
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)
var offsetRe = regexp.MustCompile(`^([^()]+)\((\w+)\)$`)

// parseLine splits one line into operand words: $() evaluation, .equ
// handling, label definitions, equate substitution, and expansion of the
// offset(reg) addressing form into two words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// Expand the offset(reg) addressing form, then substitute equates.
	var expanded []string
	for _, word := range words {
		if sub := offsetRe.FindStringSubmatch(word); sub != nil {
			expanded = append(expanded, sub[1], sub[2])
		} else {
			expanded = append(expanded, word)
		}
	}
	words = expanded

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// currentAddr gets the address of the next emitted word.
func (asm *Assembler) currentAddr() uint32 {
	if len(asm.Statements) == 0 {
		return asm.Origin
	}

	last := asm.Statements[len(asm.Statements)-1]

	return last.Addr + 4*uint32(len(last.Insts)+len(last.Data))
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.Label == nil {
		asm.Label = make(map[string]uint32, 16)
	}
	clear(asm.Label)
	asm.Statements = asm.Statements[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		if n := strings.IndexAny(text, "#;"); n >= 0 {
			text = text[:n]
		}
		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	// Final linking of branch and jump labels.
	for n := range asm.Statements {
		stmt := &asm.Statements[n]

		if len(stmt.LinkLabel) == 0 {
			continue
		}
		target, ok := asm.Label[stmt.LinkLabel]
		if !ok {
			lineno = stmt.LineNo
			line = strings.Join(stmt.Words, " ")
			err = ErrLabelMissing(stmt.LinkLabel)
			return
		}

		// The linked instruction is the last of its statement; its
		// offset is relative to its own address.
		linked := &stmt.Insts[len(stmt.Insts)-1]
		addr := stmt.Addr + 4*uint32(len(stmt.Insts)-1)
		linked.Imm = target - addr

		err = asm.targetRange(linked.Mnemonic, linked.Imm, stmt.LinkLabel)
		if err != nil {
			lineno = stmt.LineNo
			line = strings.Join(stmt.Words, " ")
			return
		}
	}

	prog = &Program{
		Origin:     asm.Origin,
		Statements: slices.Clone(asm.Statements),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var insts []isa.Instruction
	var data []uint32
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(insts) == 0 && len(data) == 0 {
			return
		}
		stmt := Statement{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Insts: insts, Data: data, LinkLabel: label}
		asm.Statements = append(asm.Statements, stmt)
	}()

	// Pseudo-instruction substitutions
	switch {
	case len(words) == 1 && words[0] == "nop":
		words = []string{"addi", "zero", "zero", "0"}
	case len(words) == 3 && words[0] == "mv":
		// mv RD RS => addi RD RS 0
		words = []string{"addi", words[1], words[2], "0"}
	case len(words) == 3 && words[0] == "not":
		// not RD RS => xori RD RS -1
		words = []string{"xori", words[1], words[2], "-1"}
	case len(words) == 3 && words[0] == "neg":
		// neg RD RS => sub RD zero RS
		words = []string{"sub", words[1], "zero", words[2]}
	case len(words) == 3 && words[0] == "seqz":
		// seqz RD RS => sltiu RD RS 1
		words = []string{"sltiu", words[1], words[2], "1"}
	case len(words) == 3 && words[0] == "snez":
		// snez RD RS => sltu RD zero RS
		words = []string{"sltu", words[1], "zero", words[2]}
	case len(words) == 2 && words[0] == "j":
		// j TARGET => jal zero TARGET
		words = []string{"jal", "zero", words[1]}
	case len(words) == 2 && words[0] == "jr":
		// jr RS => jalr zero 0 RS
		words = []string{"jalr", "zero", "0", words[1]}
	case len(words) == 1 && words[0] == "ret":
		words = []string{"jalr", "zero", "0", "ra"}
	default:
		// unchanged
	}

	// .word VALUE...
	if words[0] == ".word" {
		if len(words) < 2 {
			err = ErrWordSyntax
			return
		}
		for _, word := range words[1:] {
			var value uint32
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			data = append(data, value)
		}
		return
	}

	// li RD VALUE, one or two instructions depending on the value.
	if words[0] == "li" {
		if len(words) != 3 {
			err = ErrOperandCount
			return
		}
		var rd, value uint32
		rd, err = asm.regOf(words[1])
		if err != nil {
			return
		}
		value, err = asm.valueOf(words[2])
		if err != nil {
			return
		}
		if int32(value) >= -2048 && int32(value) <= 2047 {
			insts = append(insts, isa.Instruction{Mnemonic: isa.ADDI, Rd: rd, Imm: value})
			return
		}
		hi := ((value + 0x800) >> 12) & 0xfffff
		lo := uint32(int32(value<<20) >> 20)
		insts = append(insts,
			isa.Instruction{Mnemonic: isa.LUI, Rd: rd, Imm: hi},
		)
		if lo != 0 {
			insts = append(insts,
				isa.Instruction{Mnemonic: isa.ADDI, Rd: rd, Rs1: rd, Imm: lo},
			)
		}
		return
	}

	m, ok := isa.MnemonicByName(words[0])
	if !ok {
		err = ErrMnemonicUnknown(words[0])
		return
	}
	args := words[1:]

	inst := isa.Instruction{Mnemonic: m}

	switch {
	case m == isa.LUI || m == isa.AUIPC:
		if len(args) != 2 {
			err = ErrOperandCount
			return
		}
		if inst.Rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if inst.Imm, err = asm.imm20Of(args[1]); err != nil {
			return
		}

	case m == isa.JAL:
		// jal TARGET assumes ra.
		if len(args) == 1 {
			args = []string{"ra", args[0]}
		}
		if len(args) != 2 {
			err = ErrOperandCount
			return
		}
		if inst.Rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if inst.Imm, label, err = asm.targetOf(m, args[1]); err != nil {
			return
		}

	case m == isa.JALR:
		// jalr RS assumes ra and offset 0.
		if len(args) == 1 {
			args = []string{"ra", "0", args[0]}
		}
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		if inst.Rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if inst.Imm, err = asm.imm12Of(args[1]); err != nil {
			return
		}
		if inst.Rs1, err = asm.regOf(args[2]); err != nil {
			return
		}

	case m.IsBranch():
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		if inst.Rs1, err = asm.regOf(args[0]); err != nil {
			return
		}
		if inst.Rs2, err = asm.regOf(args[1]); err != nil {
			return
		}
		if inst.Imm, label, err = asm.targetOf(m, args[2]); err != nil {
			return
		}

	case m.IsLoad():
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		if inst.Rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if inst.Imm, err = asm.imm12Of(args[1]); err != nil {
			return
		}
		if inst.Rs1, err = asm.regOf(args[2]); err != nil {
			return
		}

	case m.IsStore():
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		if inst.Rs2, err = asm.regOf(args[0]); err != nil {
			return
		}
		if inst.Imm, err = asm.imm12Of(args[1]); err != nil {
			return
		}
		if inst.Rs1, err = asm.regOf(args[2]); err != nil {
			return
		}

	case m >= isa.SLLI && m <= isa.SRAI:
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		if inst.Rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if inst.Rs1, err = asm.regOf(args[1]); err != nil {
			return
		}
		if inst.Imm, err = asm.shamtOf(args[2]); err != nil {
			return
		}

	case m <= isa.XORI:
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		if inst.Rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if inst.Rs1, err = asm.regOf(args[1]); err != nil {
			return
		}
		if inst.Imm, err = asm.imm12Of(args[2]); err != nil {
			return
		}

	case m >= isa.ADD && m <= isa.SRA:
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		if inst.Rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if inst.Rs1, err = asm.regOf(args[1]); err != nil {
			return
		}
		if inst.Rs2, err = asm.regOf(args[2]); err != nil {
			return
		}

	default: // fence, ecall, ebreak
		if len(args) != 0 {
			err = ErrOperandCount
			return
		}
	}

	insts = append(insts, inst)

	return
}
