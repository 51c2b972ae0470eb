package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flavioheleno/go-jmespath/internal/compiler"
)

var compileCmd = &cobra.Command{
	Use:   "compile <expression>",
	Short: "Print the compiled bytecode for an expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := compiler.Compile(args[0])
		if err != nil {
			return err
		}
		dumpProgram(program)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func dumpProgram(p *compiler.Program) {
	for i, instr := range p.Instructions {
		line := fmt.Sprintf("%4d  %s", i, instr.Op)
		if instr.Removed {
			line += " (removed)"
		}
		if instr.HasA {
			line += fmt.Sprintf(" a=%d", instr.A)
		}
		if instr.HasB {
			line += fmt.Sprintf(" b=%d", instr.B)
		}
		if instr.HasC {
			line += fmt.Sprintf(" c=%d", instr.C)
		}
		if debugLogger != nil {
			debugLogger.Println(line)
		} else {
			fmt.Println(line)
		}
	}
}
