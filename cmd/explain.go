package cmd

import (
	"github.com/spf13/cobra"

	"github.com/QuesmaOrg/worklog/internal/explain"
)

var explainFlags analysisFlags

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain session discovery and segmentation decisions",
	Long: `Explain how worklog finds and reads a project's session logs.

Shows the decision process behind a report, including:
- Where session files are searched for
- How many lines and events each file contributed
- Why records were skipped
- How each day was split into blocks and which were dropped`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project, opts, err := explainFlags.resolve(cmd)
		if err != nil {
			return err
		}
		return explain.Explain(newStore(), project, opts, cmd.OutOrStdout())
	},
}

func init() {
	explainFlags.register(explainCmd, true)
	rootCmd.AddCommand(explainCmd)
}
