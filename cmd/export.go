package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/QuesmaOrg/worklog/internal/store"
	"github.com/QuesmaOrg/worklog/internal/worklog"
)

var (
	exportFlags analysisFlags
	dbFlag      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Save work blocks to a SQLite database",
	Long: `Analyze a project and save its work blocks to a SQLite database,
so history accumulates across runs even after old session logs are gone.

Every day in the report replaces the blocks stored for that project, zone
and day; other days are kept.

Examples:
  worklog export --db ~/worklog.db
  worklog export --db ~/worklog.db --project ~/src/app --tz 1`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportFlags.register(exportCmd, true)
	exportCmd.Flags().StringVar(&dbFlag, "db", "", "SQLite database file (required)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if dbFlag == "" {
		return errors.New("--db is required")
	}

	project, opts, err := exportFlags.resolve(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sessions := newStore()
	records, err := sessions.Load(project, nil)
	if err != nil {
		if reportMissing(out, sessions, project, err) {
			return nil
		}
		return err
	}

	rep := worklog.Analyze(records, opts)
	rep.Project = project

	db, err := store.Open(dbFlag)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.SaveReport(rep, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported %d block(s) across %d day(s) to %s\n", n, len(rep.Days), db.Path())
	return nil
}
