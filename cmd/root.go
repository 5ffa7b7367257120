package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bisegni/sds/pkg/config"
	"github.com/bisegni/sds/pkg/journal"
)

var (
	ConfigPath      string
	GroupBy         string
	NameField       string
	IndexTitles     bool
	EventFormat     string
	LegacyReplace   bool
	InteractiveMode bool

	// settings is the config file merged with explicitly set flags.
	settings *config.Resolved
)

var rootCmd = &cobra.Command{
	Use:   "sds [file]",
	Short: "Sectioned data sources with change notification",
	Long: `sds loads JSON, JSONL or YAML records into a sectioned container,
applies insert/remove/replace statements and reports every change as a
batch of events.

Supports:
  - File paths: sds show data.json
  - Stdin: cat data.json | sds show -
  - Inline JSON: sds show '[{"name":"Alice"}]'

Examples:
  sds show fruit.yaml --group-by kind
  sds run fruit.yaml edits.sds --events json
  sds check edits.sds
  sds view fruit.yaml --group-by kind
  sds -i fruit.yaml`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: resolveSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !InteractiveMode {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runShow(cmd, args)
		}

		filename := ""
		if len(args) > 0 {
			filename = args[0]
		} else {
			stat, _ := os.Stdin.Stat()
			if (stat.Mode() & os.ModeCharDevice) == 0 {
				return fmt.Errorf("interactive mode reads statements from the terminal; pass the data file as an argument")
			}
		}
		return RunInteractive(filename)
	},
}

func Execute() error {
	defer glog.Flush()
	return rootCmd.Execute()
}

func init() {
	// glog registers on the standard flag set
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	_ = flag.Set("logtostderr", "true")

	rootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "Config file (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVarP(&GroupBy, "group-by", "g", "", "Field path that names each record's section")
	rootCmd.PersistentFlags().StringVar(&NameField, "name-field", "", "Field used as the row label (default name)")
	rootCmd.PersistentFlags().BoolVar(&IndexTitles, "index-titles", false, "Derive section index titles from section names")
	rootCmd.PersistentFlags().StringVar(&EventFormat, "events", "", "Change event format (text or json)")
	rootCmd.PersistentFlags().BoolVar(&LegacyReplace, "legacy-replace", false, "Report in-place replaces without a change batch")
	rootCmd.PersistentFlags().BoolVarP(&InteractiveMode, "interactive", "i", false, "Interactive REPL mode")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(exportCmd)
}

func resolveSettings(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOptional(ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("group-by") {
		cfg.GroupBy = GroupBy
	}
	if flags.Changed("name-field") {
		cfg.NameField = NameField
	}
	if flags.Changed("index-titles") {
		cfg.IndexTitles = IndexTitles
	}
	if flags.Changed("events") {
		cfg.Events = EventFormat
	}
	if flags.Changed("legacy-replace") {
		cfg.LegacyReplace = LegacyReplace
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return err
	}
	settings = resolved
	glog.V(1).Infof("settings: group_by=%q name_field=%q events=%s legacy_replace=%v",
		settings.GroupBy, settings.NameField, settings.Events, settings.LegacyReplace)
	return nil
}

func eventFormat() journal.Format {
	if settings == nil {
		return journal.Text
	}
	return settings.Events
}
