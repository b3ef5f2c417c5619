package worklog

import (
	"sort"
	"time"

	"github.com/QuesmaOrg/worklog/internal/session"
)

// DateLayout is the calendar day key used for grouping and the --day filter.
const DateLayout = "2006-01-02"

// Options controls how records are turned into a report
type Options struct {
	Location *time.Location // target zone; nil means UTC
	Day      string         // restrict to one YYYY-MM-DD day; empty means all days

	// Trace, when set, receives per-file counters of kept and skipped records.
	Trace *session.TraceContext
}

// DayEvents holds the sorted events of one calendar day
type DayEvents struct {
	Date    string
	Events  []Event     // user and assistant events
	Prompts []time.Time // genuine prompts only
}

// Day is the report for one calendar day
type Day struct {
	Date            string  `json:"date"`
	Blocks          []Block `json:"blocks"`
	MaxBlockMinutes float64 `json:"max_block_minutes"`
	TotalMinutes    float64 `json:"total_active_minutes"`
	TotalPrompts    int     `json:"total_prompts"`
}

// Report is the full analysis of a project's logs
type Report struct {
	Project      string  `json:"project,omitempty"`
	Zone         string  `json:"zone"`
	Days         []Day   `json:"days"`
	TotalMinutes float64 `json:"total_active_minutes"`
	TotalPrompts int     `json:"total_prompts"`
}

// GroupByDay normalizes records into events and groups them by calendar day
// in the target zone. Records that are not user/assistant, lack a timestamp
// or have one that does not parse are skipped. Days come back in ascending
// date order with their events sorted.
func GroupByDay(records []session.Record, opts Options) []DayEvents {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	byDay := make(map[string]*DayEvents)
	for _, rec := range records {
		var ft *session.FileTrace
		if opts.Trace != nil && rec.Source != "" {
			ft = opts.Trace.FindOrCreateFileTrace(rec.Source)
		}

		kind, ok := ParseKind(rec.Type)
		if !ok {
			if ft != nil {
				ft.OtherType++
			}
			continue
		}

		raw := rec.RawTimestamp()
		if raw == nil {
			if ft != nil {
				ft.NoTimestamp++
			}
			continue
		}

		ts, ok := Normalize(raw, loc)
		if !ok {
			if ft != nil {
				ft.BadTimestamp++
			}
			continue
		}

		date := ts.Format(DateLayout)
		if opts.Day != "" && date != opts.Day {
			if ft != nil {
				ft.OutsideDay++
			}
			continue
		}

		day, exists := byDay[date]
		if !exists {
			day = &DayEvents{Date: date}
			byDay[date] = day
		}

		genuine := kind == KindUser && IsGenuinePrompt(rec)
		day.Events = append(day.Events, Event{Time: ts, Kind: kind, Genuine: genuine})
		if genuine {
			day.Prompts = append(day.Prompts, ts)
		}

		if ft != nil {
			ft.Events++
			if genuine {
				ft.GenuinePrompts++
			}
		}
	}

	days := make([]DayEvents, 0, len(byDay))
	for _, day := range byDay {
		sort.SliceStable(day.Events, func(i, j int) bool {
			a, b := day.Events[i], day.Events[j]
			if !a.Time.Equal(b.Time) {
				return a.Time.Before(b.Time)
			}
			return a.Kind < b.Kind
		})
		sort.Slice(day.Prompts, func(i, j int) bool {
			return day.Prompts[i].Before(day.Prompts[j])
		})
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}

// Analyze runs the whole pipeline: grouping, segmentation and totals.
// Days without a surviving block are left out.
func Analyze(records []session.Record, opts Options) *Report {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	report := &Report{
		Zone: loc.String(),
		Days: make([]Day, 0),
	}

	for _, de := range GroupByDay(records, opts) {
		blocks := Segment(de.Events, de.Prompts)
		if len(blocks) == 0 {
			continue
		}

		day := Day{
			Date:            de.Date,
			Blocks:          blocks,
			MaxBlockMinutes: MaxMinutes(blocks),
		}
		for _, b := range blocks {
			day.TotalMinutes += b.ActiveMinutes
			day.TotalPrompts += b.Prompts
		}

		report.Days = append(report.Days, day)
		report.TotalMinutes += day.TotalMinutes
		report.TotalPrompts += day.TotalPrompts
	}

	return report
}

// Extent returns the earliest and latest user/assistant instants among
// records, in loc, and how many such events there are.
func Extent(records []session.Record, loc *time.Location) (first, last time.Time, events int) {
	if loc == nil {
		loc = time.UTC
	}
	for _, rec := range records {
		if _, ok := ParseKind(rec.Type); !ok {
			continue
		}
		ts, ok := Normalize(rec.RawTimestamp(), loc)
		if !ok {
			continue
		}
		if events == 0 || ts.Before(first) {
			first = ts
		}
		if events == 0 || ts.After(last) {
			last = ts
		}
		events++
	}
	return first, last, events
}
