// Package config loads worklog settings from a YAML file and applies
// command-line overrides on top of them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClaudeDirEnv overrides the default Claude state directory (~/.claude).
const ClaudeDirEnv = "WORKLOG_CLAUDE_DIR"

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// MaxTZOffset bounds the accepted UTC offset in hours.
const MaxTZOffset = 14.0

// Config holds all configurable worklog settings.
type Config struct {
	ProjectsDir string  `yaml:"projects_dir"` // root holding one folder per encoded project path
	TZOffset    float64 `yaml:"tz_offset"`    // hours from UTC, fractional allowed
	Color       string  `yaml:"color"`        // "auto" | "always" | "never"
	LogFile     string  `yaml:"log_file"`     // empty disables the file sink
}

// Overrides carries values given on the command line. Nil and empty
// fields leave the configured value untouched.
type Overrides struct {
	ProjectsDir string
	TZOffset    *float64
	NoColor     bool
	LogFile     string
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	projectsDir, _ := DefaultProjectsDir()
	return Config{
		ProjectsDir: projectsDir,
		Color:       ColorAuto,
	}
}

// DefaultProjectsDir returns ~/.claude/projects, or the projects folder
// under $WORKLOG_CLAUDE_DIR when set.
func DefaultProjectsDir() (string, error) {
	if envDir := os.Getenv(ClaudeDirEnv); envDir != "" {
		return filepath.Join(envDir, "projects"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// Path returns the default config file location:
// $XDG_CONFIG_HOME/worklog/config.yaml, else ~/.config/worklog/config.yaml.
func Path() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "worklog", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "worklog", "config.yaml"), nil
}

// Load reads the config file at path merged over the defaults.
// An empty path means the default location, where a missing file is not
// an error. An explicitly named file must exist.
func Load(path string) (Config, error) {
	required := path != ""
	if !required {
		p, err := Path()
		if err != nil {
			return Defaults(), nil
		}
		path = p
	}

	file, err := loadFile(path, required)
	if err != nil {
		return Config{}, err
	}

	cfg := Merge(Defaults(), file)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// loadFile reads and parses a YAML config file at path.
// Returns nil when the file is absent and not required.
func loadFile(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge applies the non-empty values of file over base.
func Merge(base Config, file *Config) Config {
	result := base
	if file == nil {
		return result
	}
	if file.ProjectsDir != "" {
		result.ProjectsDir = expandHome(file.ProjectsDir)
	}
	if file.TZOffset != 0 {
		result.TZOffset = file.TZOffset
	}
	if file.Color != "" {
		result.Color = file.Color
	}
	if file.LogFile != "" {
		result.LogFile = expandHome(file.LogFile)
	}
	return result
}

// Apply returns cfg with command-line overrides applied.
func (c Config) Apply(o Overrides) Config {
	if o.ProjectsDir != "" {
		c.ProjectsDir = o.ProjectsDir
	}
	if o.TZOffset != nil {
		c.TZOffset = *o.TZOffset
	}
	if o.NoColor {
		c.Color = ColorNever
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	return c
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	if c.TZOffset < -MaxTZOffset || c.TZOffset > MaxTZOffset {
		return fmt.Errorf("tz offset %g out of range [-%g, %g]", c.TZOffset, MaxTZOffset, MaxTZOffset)
	}
	return nil
}

// ColorEnabled resolves the color mode against whether output is a terminal.
func (c Config) ColorEnabled(isTTY bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return isTTY
}

func expandHome(path string) string {
	if path == "~" || (len(path) > 1 && path[:2] == "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
