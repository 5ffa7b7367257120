package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bisegni/sds/pkg/container"
	"github.com/bisegni/sds/pkg/parser"
	"github.com/bisegni/sds/pkg/query"
	"github.com/bisegni/sds/pkg/script"
	"github.com/bisegni/sds/pkg/tableview"
)

var (
	filterField    string
	filterOperator string
	filterValue    string
	filterPretty   bool
	filterFormat   string
)

var filterCmd = &cobra.Command{
	Use:   "filter [file] [condition]",
	Short: "Show the sections of a file narrowed by a condition",
	Long: `Load a record file into sections and keep only the records that
satisfy a condition. Sections keep their place even when the filter empties
them. The condition uses the FILTER statement syntax, or is built from
--field, --op and --value.

Examples:
  sds filter fruit.yaml "price > 2 AND NOT name contains 'apple'"
  sds filter fruit.yaml --field price --op ">" --value 2
  sds filter fruit.yaml "kind = 'citrus'" --format jsonl`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVarP(&filterField, "field", "f", "", "Field path to filter on")
	filterCmd.Flags().StringVarP(&filterOperator, "op", "o", "=", "Operator (=, !=, >, >=, <, <=, contains)")
	filterCmd.Flags().StringVar(&filterValue, "value", "", "Value to compare against")
	filterCmd.Flags().BoolVar(&filterPretty, "pretty", true, "Pretty print json output")
	filterCmd.Flags().StringVar(&filterFormat, "format", "tree", "Output format (tree, json or jsonl)")
}

// filterCondition builds the predicate from the positional condition or the
// field flags.
func filterCondition(args []string) (query.Expression, error) {
	if len(args) > 1 {
		if filterField != "" {
			return nil, fmt.Errorf("use either a condition or --field, not both")
		}
		st, err := script.ParseStatement("FILTER " + args[1])
		if err != nil {
			return nil, err
		}
		return st.Cond, nil
	}
	if filterField == "" {
		return nil, fmt.Errorf("a condition or --field is required")
	}

	var val interface{} = filterValue
	if n, err := parseNumber(filterValue); err == nil {
		val = n
	}
	return &query.Condition{Filter: query.NewFilter(filterField, filterOperator, val)}, nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	cond, err := filterCondition(args)
	if err != nil {
		return err
	}

	a, _, err := loadContainer(args[0])
	if err != nil {
		return err
	}
	view := container.NewFiltered[parser.Record](a)
	view.Filter(func(r parser.Record) bool { return cond.Evaluate(r) })

	out := cmd.OutOrStdout()
	switch strings.ToLower(filterFormat) {
	case "tree":
		fmt.Fprint(out, tableview.FormatTree(view, recordLabel))
		return nil
	case "jsonl":
		return parser.WriteJSONL(out, view.FetchedObjects())
	case "json":
		return parser.WriteJSON(out, view.FetchedObjects(), filterPretty)
	default:
		return fmt.Errorf("unsupported format: %s", filterFormat)
	}
}

func parseNumber(s string) (interface{}, error) {
	var val interface{}
	if err := json.Unmarshal([]byte(s), &val); err != nil {
		return nil, err
	}
	switch val.(type) {
	case float64:
		return val, nil
	default:
		return nil, fmt.Errorf("not a number")
	}
}
