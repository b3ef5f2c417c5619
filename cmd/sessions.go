package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/QuesmaOrg/worklog/internal/logger"
	"github.com/QuesmaOrg/worklog/internal/session"
	"github.com/QuesmaOrg/worklog/internal/worklog"
)

var sessionsFlags analysisFlags

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List a project's session files",
	Long: `List the session log files of a project with their kind, the time
range of their activity, event count and size.

Kinds: "session" for main transcripts (named by UUID), "agent" for
subagent transcripts, "other" for anything else.`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

func init() {
	sessionsFlags.register(sessionsCmd, false)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	project, opts, err := sessionsFlags.resolve(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	store := newStore()
	files, err := store.ListSessions(project)
	if err != nil {
		if reportMissing(out, store, project, err) {
			return nil
		}
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tFIRST\tLAST\tEVENTS\tSIZE\tMODIFIED")

	var total uint64
	for _, f := range files {
		first, last, events := fileExtent(f, opts.Location)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			f.ID, f.Kind, stamp(first, events), stamp(last, events), events,
			humanize.Bytes(uint64(f.Size)), humanize.Time(f.ModTime))
		total += uint64(f.Size)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d file(s), %s\n", len(files), humanize.Bytes(total))
	return nil
}

func fileExtent(f session.SessionFile, loc *time.Location) (time.Time, time.Time, int) {
	records, _, err := session.ReadFile(f.Path)
	if err != nil {
		logger.Warn("reading %s: %v", f.Path, err)
	}
	return worklog.Extent(records, loc)
}

func stamp(t time.Time, events int) string {
	if events == 0 {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
