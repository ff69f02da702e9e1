// Copyright 2026, Kevin M. Granger

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/KevinMGranger/riscv-harmony/asm"
	"github.com/KevinMGranger/riscv-harmony/emulator"
)

func main() {
	var compile string
	var binary string
	var save string
	var base uint
	var limit int
	var input string
	var output string
	var dump bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&binary, "b", "", "raw binary image to load")
	flag.StringVar(&save, "s", "", "save assembled image to file, do not execute")
	flag.UintVar(&base, "base", 0, "load address and entry point")
	flag.IntVar(&limit, "t", 0, "instruction limit (0 for none)")
	flag.StringVar(&input, "i", "-", "console input")
	flag.StringVar(&output, "o", "-", "console output")
	flag.BoolVar(&dump, "d", false, "dump registers after the run")
	flag.BoolVar(&verbose, "v", false, "verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	hart := emulator.NewHart()
	hart.Verbose = verbose

	var prog *asm.Program

	// Assemble a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		assembler := &asm.Assembler{Verbose: verbose, Origin: uint32(base)}
		for key, value := range hart.Defines() {
			assembler.Predefine(key, value)
		}
		prog, err = assembler.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		hart.LoadProgram(prog.Bytes(), prog.Origin, prog.Origin)
	}

	if len(binary) != 0 {
		image, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}

		hart.LoadProgram(image, uint32(base), uint32(base))
	}

	if len(save) != 0 {
		if prog == nil {
			log.Fatalf("%v: nothing assembled to save", save)
		}
		err := os.WriteFile(save, prog.Bytes(), 0o644)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if input == "-" {
		hart.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		hart.Input = inf
	}

	if output == "-" {
		hart.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		hart.Output = ouf
	}

	err := hart.Run(limit)
	if err != nil {
		var runtime *emulator.ErrRuntime
		if prog != nil && errors.As(err, &runtime) {
			dbg := prog.Debug(runtime.PC)
			if dbg.Statement != nil {
				log.Fatalf("%v: line %v '%v': %v",
					compile, dbg.LineNo, strings.Join(dbg.Words, " "), err)
			}
		}
		log.Fatal(err)
	}

	if dump {
		fmt.Fprintln(os.Stderr, hart.Cpu.String())
	}

	os.Exit(int(hart.ExitCode & 0xff))
}
