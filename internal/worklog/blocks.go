package worklog

import (
	"time"
)

const (
	// IdleThreshold is the longest gap between events that still counts as
	// continuous work. A strictly longer gap starts a new block.
	IdleThreshold = 10 * time.Minute

	// MinBlockMinutes is the least active time a block needs to be reported.
	MinBlockMinutes = 1.0
)

// Kind is the record kind an event was derived from
type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
)

// ParseKind maps a record type to an event kind. Other record types
// (summaries, snapshots, queue operations) carry no activity signal.
func ParseKind(recordType string) (Kind, bool) {
	switch Kind(recordType) {
	case KindUser:
		return KindUser, true
	case KindAssistant:
		return KindAssistant, true
	}
	return "", false
}

// Event is a normalized (instant, kind) pair
type Event struct {
	Time    time.Time
	Kind    Kind
	Genuine bool // user events only: typed by a human, not a tool result echo
}

// Span is the time window of one block, bounded by actual event instants
type Span struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the span, bounds included.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

// Block is one contiguous run of work
type Block struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	ActiveMinutes float64   `json:"active_minutes"`
	Prompts       int       `json:"prompts"`
	AvgPromptGap  float64   `json:"avg_prompt_gap_seconds"` // 0 when fewer than two prompts
}

// Spans splits time-ordered events into blocks wherever two consecutive
// events are more than IdleThreshold apart.
func Spans(events []Event) []Span {
	if len(events) == 0 {
		return nil
	}

	var spans []Span
	current := Span{Start: events[0].Time, End: events[0].Time}

	for i := 1; i < len(events); i++ {
		ts := events[i].Time
		if ts.Sub(events[i-1].Time) > IdleThreshold {
			spans = append(spans, current)
			current = Span{Start: ts, End: ts}
		} else {
			current.End = ts
		}
	}

	return append(spans, current)
}

// Segment builds the work blocks of one day.
// events holds every user and assistant event of the day and prompts the
// genuine prompt instants; both must be sorted ascending. Days with fewer
// than two events yield no blocks, and blocks with less than
// MinBlockMinutes of active time are dropped.
func Segment(events []Event, prompts []time.Time) []Block {
	if len(events) < 2 {
		return nil
	}

	var blocks []Block
	for _, span := range Spans(events) {
		active := ActiveMinutes(eventTimesWithin(events, span))
		if active < MinBlockMinutes {
			continue
		}

		inBlock := timesWithin(prompts, span)
		blocks = append(blocks, Block{
			Start:         span.Start,
			End:           span.End,
			ActiveMinutes: active,
			Prompts:       len(inBlock),
			AvgPromptGap:  MeanGapSeconds(inBlock),
		})
	}
	return blocks
}

// ActiveMinutes sums the gaps between consecutive instants that do not
// exceed IdleThreshold. Sub-threshold idle time counts in full.
func ActiveMinutes(times []time.Time) float64 {
	var total float64
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		if gap <= IdleThreshold {
			total += gap.Minutes()
		}
	}
	return total
}

// MeanGapSeconds returns the average spacing of consecutive instants,
// or 0 when there are fewer than two.
func MeanGapSeconds(times []time.Time) float64 {
	if len(times) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(times); i++ {
		total += times[i].Sub(times[i-1]).Seconds()
	}
	return total / float64(len(times)-1)
}

// MaxMinutes returns the largest active time among blocks, the denominator
// for the relative duration bar.
func MaxMinutes(blocks []Block) float64 {
	var longest float64
	for _, b := range blocks {
		if b.ActiveMinutes > longest {
			longest = b.ActiveMinutes
		}
	}
	return longest
}

func eventTimesWithin(events []Event, span Span) []time.Time {
	var times []time.Time
	for _, e := range events {
		if span.Contains(e.Time) {
			times = append(times, e.Time)
		}
	}
	return times
}

func timesWithin(times []time.Time, span Span) []time.Time {
	var within []time.Time
	for _, t := range times {
		if span.Contains(t) {
			within = append(within, t)
		}
	}
	return within
}
