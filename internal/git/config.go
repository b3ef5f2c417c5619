package git

import (
	"strconv"
)

// TZOffsetKey is the repo-local git config key holding a default UTC offset
const TZOffsetKey = "worklog.tz-offset"

// GetConfig retrieves a git config value as seen from dir.
// Returns "" when the key is unset or git is unavailable.
func GetConfig(dir, key string) string {
	out, err := RunGitIn(dir, "config", "--get", key)
	if err != nil {
		return ""
	}
	return out
}

// GetTZOffset reads worklog.tz-offset from the repository config.
// ok is false when the key is unset or not a number.
func GetTZOffset(dir string) (hours float64, ok bool) {
	raw := GetConfig(dir, TZOffsetKey)
	if raw == "" {
		return 0, false
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return hours, true
}
