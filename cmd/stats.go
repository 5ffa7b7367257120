package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bisegni/sds/pkg/parser"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file|-]",
	Short: "Show statistics about a sectioned record file",
	Long: `Display statistics about a record file after grouping: section count,
rows per section and the types seen for each field.

Examples:
  sds stats fruit.yaml --group-by kind
  cat data.jsonl | sds stats`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	filename := "-"
	if len(args) > 0 {
		filename = args[0]
	}

	a, format, err := loadContainer(filename)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	records := a.FetchedObjects()
	fmt.Fprintf(out, "File: %s\n", sourceName(filename))
	fmt.Fprintf(out, "Format: %s\n", format)
	fmt.Fprintf(out, "Total records: %d\n", len(records))
	fmt.Fprintf(out, "Sections: %d\n", a.NumberOfSections())
	for i, s := range a.Sections() {
		fmt.Fprintf(out, "  [%d] %q: %d\n", i, s.Name(), s.NumberOfObjects())
	}

	fields := gatherStats(records)
	if len(fields) == 0 {
		return nil
	}
	fmt.Fprintf(out, "\nFields:\n")
	for _, field := range sortedKeys(fields) {
		types := fields[field]
		fmt.Fprintf(out, "  %s:\n", field)
		for _, typ := range sortedKeys(types) {
			count := types[typ]
			fmt.Fprintf(out, "    %s: %d (%.1f%%)\n", typ, count, float64(count)/float64(len(records))*100)
		}
	}
	return nil
}

// gatherStats counts value types per field, skipping the identity field.
func gatherStats(records []parser.Record) map[string]map[string]int {
	fields := make(map[string]map[string]int)
	for _, record := range records {
		for key, value := range record {
			if key == parser.IDField {
				continue
			}
			if _, exists := fields[key]; !exists {
				fields[key] = make(map[string]int)
			}
			fields[key][getTypeName(value)]++
		}
	}
	return fields
}

func getTypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, uint64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}, parser.Record:
		return "object"
	default:
		return "unknown"
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
