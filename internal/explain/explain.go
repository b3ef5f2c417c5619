package explain

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/QuesmaOrg/worklog/internal/display"
	"github.com/QuesmaOrg/worklog/internal/session"
	"github.com/QuesmaOrg/worklog/internal/worklog"
)

// DayTrace explains how one calendar day was segmented
type DayTrace struct {
	Date          string
	Events        int
	Prompts       int
	Spans         int // candidate blocks before the one-minute floor
	Kept          int
	ActiveMinutes float64
}

// Explain runs the discovery and analysis pipeline with full tracing
// and outputs a human-readable explanation
func Explain(store *session.Store, projectPath string, opts worklog.Options, w io.Writer) error {
	trace := &session.TraceContext{}

	records, err := store.Load(projectPath, trace)
	if err != nil && !errors.Is(err, session.ErrProjectNotFound) && !errors.Is(err, session.ErrNoSessionFiles) {
		return err
	}

	opts.Trace = trace
	days := traceDays(worklog.GroupByDay(records, opts))

	renderExplanation(store.Root(), trace, days, w)
	return nil
}

func traceDays(grouped []worklog.DayEvents) []DayTrace {
	var days []DayTrace
	for _, de := range grouped {
		blocks := worklog.Segment(de.Events, de.Prompts)
		dt := DayTrace{
			Date:    de.Date,
			Events:  len(de.Events),
			Prompts: len(de.Prompts),
			Kept:    len(blocks),
		}
		if len(de.Events) >= 2 {
			dt.Spans = len(worklog.Spans(de.Events))
		}
		for _, b := range blocks {
			dt.ActiveMinutes += b.ActiveMinutes
		}
		days = append(days, dt)
	}
	return days
}

func renderExplanation(root string, trace *session.TraceContext, days []DayTrace, w io.Writer) {
	fmt.Fprintln(w, "=== Session Discovery ===")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Project: %s\n", trace.ProjectPath)
	fmt.Fprintf(w, "Projects root: %s\n", root)
	fmt.Fprintf(w, "Encoded name: %s\n", trace.EncodedPath)
	fmt.Fprintf(w, "Session directory: %s\n", trace.SessionDir)

	if trace.SessionDirExists {
		fmt.Fprintf(w, "  Status: exists, found %d session file(s)\n", len(trace.FoundFiles))
	} else {
		fmt.Fprintln(w, "  Status: directory does not exist")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Files ===")
	fmt.Fprintln(w)

	if len(trace.Files) == 0 {
		fmt.Fprintln(w, "No files read.")
		fmt.Fprintln(w)
	}

	for _, f := range trace.Files {
		fmt.Fprintf(w, "%s\n", filepath.Base(f.Path))
		fmt.Fprintf(w, "  Lines: %d (%d malformed)\n", f.Lines, f.Malformed)
		if f.ReadError != "" {
			fmt.Fprintf(w, "  Read stopped early: %s\n", f.ReadError)
		}
		fmt.Fprintf(w, "  Events: %d (%d genuine prompts)\n", f.Events, f.GenuinePrompts)

		skipped := f.OtherType + f.NoTimestamp + f.BadTimestamp + f.OutsideDay
		if skipped > 0 {
			fmt.Fprintf(w, "  Skipped: %d (other type %d, no timestamp %d, bad timestamp %d, outside day %d)\n",
				skipped, f.OtherType, f.NoTimestamp, f.BadTimestamp, f.OutsideDay)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "=== Days ===")
	fmt.Fprintln(w)

	if len(days) == 0 {
		fmt.Fprintln(w, "No events.")
		fmt.Fprintln(w)
	}

	for _, d := range days {
		fmt.Fprintf(w, "%s (%s)\n", d.Date, display.DayHeader(d.Date))
		fmt.Fprintf(w, "  Events: %d, prompts: %d\n", d.Events, d.Prompts)
		switch {
		case d.Events < 2:
			fmt.Fprintln(w, "  Too few events to form a block")
		case d.Kept == 0:
			fmt.Fprintf(w, "  Blocks: %d candidate(s), all under %.0f min\n", d.Spans, worklog.MinBlockMinutes)
		default:
			fmt.Fprintf(w, "  Blocks: %d kept, %d dropped under %.0f min\n", d.Kept, d.Spans-d.Kept, worklog.MinBlockMinutes)
			fmt.Fprintf(w, "  Active: %s\n", display.DurationLabel(d.ActiveMinutes))
		}
		if d.Kept > 0 {
			fmt.Fprintln(w, "  → REPORTED")
		} else {
			fmt.Fprintln(w, "  → SKIPPED")
		}
		fmt.Fprintln(w)
	}

	printSummary(trace, days, w)
}

func printSummary(trace *session.TraceContext, days []DayTrace, w io.Writer) {
	reported := 0
	blocks := 0
	for _, d := range days {
		if d.Kept > 0 {
			reported++
		}
		blocks += d.Kept
	}

	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "Files: %d\n", len(trace.Files))
	fmt.Fprintf(w, "Days with events: %d\n", len(days))
	fmt.Fprintf(w, "Days reported: %d\n", reported)
	fmt.Fprintf(w, "Blocks: %d\n", blocks)
}
