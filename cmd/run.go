package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bisegni/sds/pkg/engine"
	"github.com/bisegni/sds/pkg/journal"
	"github.com/bisegni/sds/pkg/tableview"
)

var (
	runQuiet  bool
	runNoTree bool
)

var runCmd = &cobra.Command{
	Use:   "run [file] [script|-]",
	Short: "Apply a statement script and stream the change events",
	Long: `Load a record file, apply every statement of a script to it and print
each change batch as it is delivered, then the final tree.

Statements:
  INSERT <value> AT <s>,<r>
  REMOVE <s>,<r>
  REPLACE <value> AT <s>,<r> [RELOAD]
  INSERT SECTION [<values>] [AT <s>] [NAMED '<name>'] [TITLE '<t>']
  REPLACE SECTION <s> WITH [<values>] [NAMED '<name>'] [TITLE '<t>']
  APPEND [<values>] TO <s> [NAMED '<name>'] [TITLE '<t>']
  REMOVE SECTION <s>
  CLEAR
  FIND <condition>
  FILTER <condition> | FILTER OFF
  SHOW

Examples:
  sds run fruit.yaml edits.sds
  echo "REMOVE 0,0" | sds run fruit.yaml - --events json`,
	Args: cobra.ExactArgs(2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Do not print change events")
	runCmd.Flags().BoolVar(&runNoTree, "no-tree", false, "Do not print the final tree")
}

func readScript(source string) (string, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(data), nil
}

func runRun(cmd *cobra.Command, args []string) error {
	if args[0] == "-" && args[1] == "-" {
		return fmt.Errorf("records and script cannot both come from stdin")
	}

	a, _, err := loadContainer(args[0])
	if err != nil {
		return err
	}
	src, err := readScript(args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var j *journal.Journal
	if !runQuiet {
		j = journal.New(out, eventFormat())
		a.SetDelegate(j)
	}

	e := engine.NewExecutor(a, out)
	runErr := e.RunScript(src)
	if j != nil && j.Err() != nil {
		return j.Err()
	}
	if runErr != nil {
		return runErr
	}

	if !runNoTree {
		fmt.Fprint(out, tableview.FormatTree(a, recordLabel))
	}
	return nil
}
