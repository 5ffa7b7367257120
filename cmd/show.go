package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bisegni/sds/pkg/tableview"
)

var showCmd = &cobra.Command{
	Use:   "show [file|-]",
	Short: "Print the sections of a record file",
	Long: `Load a JSON, JSONL or YAML file, group its records into sections and
print the resulting tree.

Examples:
  sds show fruit.yaml
  sds show fruit.yaml --group-by kind --index-titles`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	filename := "-"
	if len(args) > 0 {
		filename = args[0]
	}

	a, _, err := loadContainer(filename)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), tableview.FormatTree(a, recordLabel))
	return nil
}
