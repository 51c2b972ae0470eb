package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flavioheleno/go-jmespath"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression> [file]",
	Short: "Evaluate an expression against a JSON file or stdin",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(args)
		if err != nil {
			return err
		}
		input, err := jmespath.ParseJSON(string(raw))
		if err != nil {
			return fmt.Errorf("jmespath: invalid JSON input: %w", err)
		}

		program, err := jmespath.Compile(args[0])
		if err != nil {
			return err
		}

		var result jmespath.Value
		if extended {
			result, err = jmespath.EvaluateExtended(program, input)
		} else {
			result, err = jmespath.Evaluate(program, input)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.ToInterface())
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 2 {
		return os.ReadFile(args[1])
	}
	return io.ReadAll(os.Stdin)
}
