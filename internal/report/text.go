// Package report renders a worklog.Report for the terminal or as JSON.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/QuesmaOrg/worklog/internal/display"
	"github.com/QuesmaOrg/worklog/internal/worklog"
)

const (
	columnHeader = "#   Started   Stopped   Duration                          Prompts   Avg Gap"
	rule         = 70
)

var (
	dayHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	columnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	totalStyle     = lipgloss.NewStyle().Bold(true)
)

// TextOptions controls text rendering
type TextOptions struct {
	Color bool // style headers, bars and totals with ANSI sequences
}

// WriteText writes the per-day block tables followed by the grand total.
// The grand total is written even when the report has no days.
func WriteText(w io.Writer, rep *worklog.Report, opts TextOptions) error {
	bw := bufio.NewWriter(w)
	style := func(s lipgloss.Style, text string) string {
		if !opts.Color {
			return text
		}
		return s.Render(text)
	}

	for _, day := range rep.Days {
		fmt.Fprintf(bw, "\n%s\n\n", style(dayHeaderStyle, display.DayHeader(day.Date)))
		fmt.Fprintln(bw, style(columnStyle, columnHeader))

		for i, b := range day.Blocks {
			// The bar is padded before styling so escape sequences don't count toward its width.
			bar := fmt.Sprintf("%-30s", display.Bar(b.ActiveMinutes, day.MaxBlockMinutes))
			fmt.Fprintf(bw, "%-3d %-9s %-9s %-8s %s %-9d %s\n",
				i+1,
				display.Clock(b.Start),
				display.Clock(b.End),
				display.DurationLabel(b.ActiveMinutes),
				style(barStyle, bar),
				b.Prompts,
				display.GapLabel(b.AvgPromptGap))
		}

		first := day.Blocks[0].Start
		last := day.Blocks[len(day.Blocks)-1].End
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, style(totalStyle, fmt.Sprintf("Day total: %s | Window: %s → %s | Prompts: %d",
			minutesAndHours(day.TotalMinutes), display.Clock(first), display.Clock(last), day.TotalPrompts)))
	}

	banner := strings.Repeat("=", rule)
	fmt.Fprintf(bw, "\n%s\n", banner)
	fmt.Fprintln(bw, style(totalStyle, fmt.Sprintf("GRAND TOTAL: %s | Prompts: %d",
		minutesAndHours(rep.TotalMinutes), rep.TotalPrompts)))
	fmt.Fprintln(bw, banner)

	return bw.Flush()
}

func minutesAndHours(minutes float64) string {
	return fmt.Sprintf("%.0f min (%s)", minutes, display.Hours(minutes))
}
