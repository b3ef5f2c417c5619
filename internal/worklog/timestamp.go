package worklog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Millisecond epochs outside year 1..9999 cannot be represented as an ISO date.
const (
	minEpochMillis = -62135596800000
	maxEpochMillis = 253402300799999
)

// isoLayouts are tried in order. Fractional seconds are accepted after the
// seconds field even though the layouts don't spell them out.
var isoLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05-07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04-07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FixedOffset returns a zone shifted from UTC by the given number of hours.
// Fractional hours are allowed (5.5 is UTC+05:30).
func FixedOffset(hours float64) *time.Location {
	seconds := int(math.Round(hours * 3600))
	if seconds == 0 {
		return time.FixedZone("UTC", 0)
	}
	sign := '+'
	abs := seconds
	if seconds < 0 {
		sign = '-'
		abs = -seconds
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, seconds)
}

// Normalize converts a raw JSON timestamp into an instant in loc.
// Strings are read as ISO-8601 (a "Z" suffix means +00:00, a missing offset
// means UTC); numbers are Unix epoch milliseconds. Any other value, or a
// value that does not parse, reports false and the caller drops the record.
func Normalize(raw json.RawMessage, loc *time.Location) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return time.Time{}, false
	}

	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, false
		}
		t, ok := parseISO(s)
		if !ok {
			return time.Time{}, false
		}
		return t.In(loc), true

	case c == '-' || (c >= '0' && c <= '9'):
		ms, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || math.IsNaN(ms) || ms < minEpochMillis || ms > maxEpochMillis {
			return time.Time{}, false
		}
		return fromMillis(ms).In(loc), true
	}

	return time.Time{}, false
}

// parseISO parses an ISO-8601-like timestamp.
func parseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "Z", "+00:00"))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// fromMillis converts epoch milliseconds to a UTC time with microsecond precision.
func fromMillis(ms float64) time.Time {
	whole := math.Floor(ms)
	frac := ms - whole
	t := time.UnixMilli(int64(whole)).UTC()
	return t.Add(time.Duration(math.Round(frac*1000)) * time.Microsecond)
}
