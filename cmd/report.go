package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/QuesmaOrg/worklog/internal/report"
	"github.com/QuesmaOrg/worklog/internal/show"
	"github.com/QuesmaOrg/worklog/internal/worklog"
)

var (
	reportFlags       analysisFlags
	formatFlag        string
	interactiveFlag   bool
	noInteractiveFlag bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report work blocks per day",
	Long: `Group a project's Claude Code activity into work blocks and report
active time per block, per day and in total.

A block ends when more than 10 minutes pass between two events. Active time
sums the gaps of up to 10 minutes inside a block; blocks with less than one
active minute are dropped.

Prints the plain text report by default. Use -i to browse days, blocks
and prompts in an interactive viewer instead.

Examples:
  worklog report                              # Current git repository
  worklog report --project ~/src/app --tz -3  # Explicit project, UTC-3
  worklog report --day 2025-01-15             # A single day
  worklog report --format json                # Machine-readable output
  worklog report -i                           # Interactive viewer`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportFlags.register(reportCmd, true)
	reportCmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
	reportCmd.Flags().BoolVarP(&interactiveFlag, "interactive", "i", false, "Open the interactive viewer")
	reportCmd.Flags().BoolVar(&noInteractiveFlag, "no-interactive", false, "Print the text report even with -i")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if formatFlag != "text" && formatFlag != "json" {
		return fmt.Errorf("invalid --format %q: want text or json", formatFlag)
	}

	project, opts, err := reportFlags.resolve(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	store := newStore()
	records, err := store.Load(project, nil)
	if err != nil {
		if reportMissing(out, store, project, err) {
			return nil
		}
		return err
	}

	rep := worklog.Analyze(records, opts)
	rep.Project = project

	if formatFlag == "json" {
		return report.WriteJSON(out, rep)
	}

	if useInteractive(interactiveFlag, noInteractiveFlag) && len(rep.Days) > 0 {
		return show.RunTUI(rep, worklog.GroupByDay(records, opts), project)
	}

	return report.WriteText(out, rep, report.TextOptions{Color: cfg.ColorEnabled(isTerminal(out))})
}

// useInteractive reports whether the TUI replaces the text report.
// The viewer is opt-in; --no-interactive wins over -i.
func useInteractive(interactive, noInteractive bool) bool {
	return interactive && !noInteractive
}
