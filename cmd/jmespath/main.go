// Command jmespath is a thin CLI wrapper around the jmespath package:
// compiling and evaluating expressions against JSON files, stdin, or a
// SQLite table (SPEC_FULL §2.4). It is explicitly outside the core
// engine's scope, the way the teacher's examples/json command sits
// alongside its vm package as a consumer rather than part of the core.
package main

import (
	"fmt"
	"os"

	"github.com/flavioheleno/go-jmespath/cmd/jmespath/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
