// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezrec/pip2/asm"
	"github.com/ezrec/pip2/emulator"
	"github.com/ezrec/pip2/encoding"
)

// assemble parses a source file laid out for emu.
func assemble(emu *emulator.Emulator, path string) (prog *asm.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = emu.Assemble(inf)
	return
}

// listing writes the assembled words with their source lines.
func listing(prog *asm.Program) {
	for _, op := range prog.Opcodes {
		pc := prog.Origin + op.Pc
		for n, word := range op.Codes {
			text := ""
			if n == 0 {
				text = encoding.Disassemble(word)
				if op.Words[0] == ".word" {
					text = strings.Join(op.Words, " ")
				}
			}
			fmt.Printf("%08x: %08x  %-28s ; %d\n", pc+uint32(n*4), word, text, op.LineNo)
		}
	}

	for n, item := range prog.Pool.Items {
		fmt.Printf("pool %d: %#v\n", n, item)
	}
}

func main() {
	var verbose bool
	var memorySize uint32

	rootCmd := &cobra.Command{
		Use:   "pip2",
		Short: "PIP2 assembler and interpreter",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
	rootCmd.PersistentFlags().Uint32Var(&memorySize, "memory", emulator.DEFAULT_MEMORY_SIZE, "Bytes of memory")

	asmCmd := &cobra.Command{
		Use:   "asm FILE",
		Short: "Assemble a file and print the listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			emu := emulator.NewEmulator(memorySize)
			emu.Verbose = verbose

			prog, err := assemble(emu, args[0])
			if err != nil {
				return
			}

			listing(prog)
			return
		},
	}

	var budget int
	var tasks int
	var timeout time.Duration
	var stackSize uint32
	var entry string

	runCmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Assemble a file and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			emu := emulator.NewEmulator(memorySize)
			emu.Verbose = verbose
			emu.Budget = budget
			emu.StackSize = stackSize

			prog, err := assemble(emu, args[0])
			if err != nil {
				return
			}

			err = emu.Load(prog)
			if err != nil {
				return
			}

			pc := prog.Origin
			if len(entry) != 0 {
				var ok bool
				pc, ok = prog.Entry(entry)
				if !ok {
					return asm.ErrLabelMissing(entry)
				}
			}

			for range tasks {
				_, err = emu.Spawn(pc)
				if err != nil {
					return
				}
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			err = emu.Run(ctx)

			for _, task := range emu.Tasks() {
				fmt.Printf("task %d: done=%v ran=%d\n%v", task.Id, task.Done, task.Ran, task.String())
			}
			fmt.Printf("instructions: %d\n", emu.Instructions())

			return
		},
	}
	runCmd.Flags().IntVar(&budget, "budget", emulator.DEFAULT_BUDGET, "Instructions per task per tick")
	runCmd.Flags().IntVar(&tasks, "tasks", 1, "Number of tasks to spawn")
	runCmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop after this long (0 = no limit)")
	runCmd.Flags().Uint32Var(&stackSize, "stack", emulator.DEFAULT_STACK_SIZE, "Bytes of stack per task")
	runCmd.Flags().StringVar(&entry, "entry", "", "Entry label (default is the program origin)")

	rootCmd.AddCommand(asmCmd, runCmd)

	rootCmd.SilenceUsage = true
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
