package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bisegni/sds/pkg/parser"
	"github.com/bisegni/sds/pkg/script"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]...",
	Short: "Validate statement scripts and record files",
	Long: `Validate the syntax of statement scripts without running them. Files
with a .json, .jsonl, .ndjson, .yaml or .yml extension are validated as
record sources instead.

Examples:
  sds check edits.sds
  sds check fruit.yaml edits.sds`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func isRecordFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonl", ".ndjson", ".yaml", ".yml":
		return true
	}
	return false
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var failed error
	for _, name := range args {
		var err error
		if isRecordFile(name) {
			var records []parser.Record
			var format parser.Format
			records, format, err = parser.Load(name)
			if err == nil {
				fmt.Fprintf(out, "✅ %s: valid %s file with %d record(s)\n", name, format, len(records))
			}
		} else {
			var src string
			src, err = readScript(name)
			if err == nil {
				var stmts []*script.Statement
				stmts, err = script.Parse(src)
				if err == nil {
					fmt.Fprintf(out, "✅ %s: %d statement(s)\n", name, len(stmts))
				}
			}
		}
		if err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", name, err)
			if failed == nil {
				failed = fmt.Errorf("validation failed: %w", err)
			}
		}
	}
	return failed
}
