package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/flavioheleno/go-jmespath"
)

var (
	queryDB     string
	queryTable  string
	queryColumn string
)

// queryCmd batch-evaluates a compiled expression against every row of
// a SQLite table, treating column as a JSON-text column (SPEC_FULL
// §3.2). Grounded on funxy's builtins_sql.go SqlDB wrapper, reusing
// the same modernc.org/sqlite driver the rest of the pack settled on.
var queryCmd = &cobra.Command{
	Use:   "query <expression>",
	Short: "Evaluate an expression against every row of a SQLite table column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := jmespath.Compile(args[0])
		if err != nil {
			return err
		}

		db, err := sql.Open("sqlite", queryDB)
		if err != nil {
			return fmt.Errorf("jmespath: opening %s: %w", queryDB, err)
		}
		defer db.Close()

		rows, err := db.Query(fmt.Sprintf(`SELECT %s FROM %s`, quoteIdent(queryColumn), quoteIdent(queryTable)))
		if err != nil {
			return fmt.Errorf("jmespath: querying %s.%s: %w", queryTable, queryColumn, err)
		}
		defer rows.Close()

		enc := json.NewEncoder(cmd.OutOrStdout())
		for rows.Next() {
			var raw string
			if err := rows.Scan(&raw); err != nil {
				return err
			}
			input, err := jmespath.ParseJSON(raw)
			if err != nil {
				return fmt.Errorf("jmespath: row is not valid JSON: %w", err)
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
			if err := enc.Encode(result.ToInterface()); err != nil {
				return err
			}
		}
		return rows.Err()
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&queryDB, "db", "", "path to the SQLite database file")
	queryCmd.Flags().StringVar(&queryTable, "table", "", "table to read rows from")
	queryCmd.Flags().StringVar(&queryColumn, "column", "", "JSON-text column to evaluate the expression against")
	queryCmd.MarkFlagRequired("db")
	queryCmd.MarkFlagRequired("table")
	queryCmd.MarkFlagRequired("column")
}

// quoteIdent wraps a SQLite identifier in double quotes, doubling any
// embedded quote, since database/sql placeholders only bind values,
// not table/column names.
func quoteIdent(ident string) string {
	out := make([]byte, 0, len(ident)+2)
	out = append(out, '"')
	for i := 0; i < len(ident); i++ {
		if ident[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, ident[i])
	}
	out = append(out, '"')
	return string(out)
}
