package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bisegni/sds/pkg/engine"
	"github.com/bisegni/sds/pkg/parser"
)

var (
	exportTo     string
	exportScript string
	exportOutput string
	exportKeepID bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file|-]",
	Short: "Write the records of a container in section order",
	Long: `Load a record file, optionally apply a statement script, and write
the fetched records in section-then-row order.

Examples:
  sds export fruit.yaml --to jsonl
  sds export fruit.json --script edits.sds --to yaml -o out.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportTo, "to", "t", "json", "Output format (json, jsonl or yaml)")
	exportCmd.Flags().StringVarP(&exportScript, "script", "s", "", "Statement script to apply first")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportKeepID, "keep-ids", false, "Keep the "+parser.IDField+" field")
}

func runExport(cmd *cobra.Command, args []string) error {
	filename := "-"
	if len(args) > 0 {
		filename = args[0]
	}

	a, _, err := loadContainer(filename)
	if err != nil {
		return err
	}

	if exportScript != "" {
		src, err := readScript(exportScript)
		if err != nil {
			return err
		}
		if err := engine.NewExecutor(a, cmd.ErrOrStderr()).RunScript(src); err != nil {
			return err
		}
	}

	records := a.FetchedObjects()
	if !exportKeepID {
		stripped := make([]parser.Record, len(records))
		for i, r := range records {
			r = r.Clone()
			delete(r, parser.IDField)
			stripped[i] = r
		}
		records = stripped
	}

	w := cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch strings.ToLower(exportTo) {
	case "json":
		return parser.WriteJSON(w, records, true)
	case "jsonl":
		return parser.WriteJSONL(w, records)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", exportTo)
	}
}
