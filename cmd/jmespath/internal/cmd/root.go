package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

// debugLogger receives the compile subcommand's instruction listing
// (one line per compiled instruction) on stderr when --debug is set,
// mirroring pigeon's own -debug flag (SPEC_FULL §2.2). Evaluation is
// not traced. It is nil unless --debug was passed.
var debugLogger *log.Logger

var extended bool

var rootCmd = &cobra.Command{
	Use:   "jmespath",
	Short: "Compile and evaluate JMESPath expressions",
	Long:  `jmespath compiles and evaluates JMESPath expressions against JSON documents.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log the compile subcommand's instruction listing to stderr")
	rootCmd.PersistentFlags().BoolVar(&extended, "extended", false, "enable the extended function library (adds uuid())")
}

var debugFlag bool

func init() {
	cobra.OnInitialize(func() {
		if debugFlag {
			debugLogger = log.New(os.Stderr, "jmespath: ", log.Ltime)
		}
	})
}
