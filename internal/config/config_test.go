package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv(ClaudeDirEnv, "/tmp/claude")

	cfg := Defaults()

	assert.Equal(t, filepath.Join("/tmp/claude", "projects"), cfg.ProjectsDir)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Zero(t, cfg.TZOffset)
	assert.Empty(t, cfg.LogFile)
}

func TestDefaultProjectsDir_Home(t *testing.T) {
	t.Setenv(ClaudeDirEnv, "")
	t.Setenv("HOME", "/home/dev")

	dir, err := DefaultProjectsDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/dev", ".claude", "projects"), dir)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "worklog", "config.yaml"), p)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/dev")
	p, err = Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/dev", ".config", "worklog", "config.yaml"), p)
}

func TestLoad_File(t *testing.T) {
	t.Setenv(ClaudeDirEnv, "/tmp/claude")
	path := writeConfig(t, `
projects_dir: /data/projects
tz_offset: 5.5
color: never
log_file: /var/log/worklog.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/projects", cfg.ProjectsDir)
	assert.InDelta(t, 5.5, cfg.TZOffset, 1e-9)
	assert.Equal(t, ColorNever, cfg.Color)
	assert.Equal(t, "/var/log/worklog.log", cfg.LogFile)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(ClaudeDirEnv, "/tmp/claude")
	path := writeConfig(t, "tz_offset: -3\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/tmp/claude", "projects"), cfg.ProjectsDir)
	assert.InDelta(t, -3.0, cfg.TZOffset, 1e-9)
	assert.Equal(t, ColorAuto, cfg.Color)
}

func TestLoad_DefaultLocationMissing(t *testing.T) {
	t.Setenv(ClaudeDirEnv, "/tmp/claude")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_ExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "tz_offset: [1, 2\n")

	_, err := Load(path)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad color", "color: sometimes\n"},
		{"offset too far east", "tz_offset: 15\n"},
		{"offset too far west", "tz_offset: -14.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestMerge_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/dev")

	cfg := Merge(Config{Color: ColorAuto}, &Config{ProjectsDir: "~/logs", LogFile: "~/worklog.log"})

	assert.Equal(t, filepath.Join("/home/dev", "logs"), cfg.ProjectsDir)
	assert.Equal(t, filepath.Join("/home/dev", "worklog.log"), cfg.LogFile)
}

func TestApply(t *testing.T) {
	base := Config{ProjectsDir: "/a", TZOffset: 2, Color: ColorAlways, LogFile: "/l"}
	zero := 0.0

	got := base.Apply(Overrides{ProjectsDir: "/b", TZOffset: &zero, NoColor: true})

	assert.Equal(t, Config{ProjectsDir: "/b", TZOffset: 0, Color: ColorNever, LogFile: "/l"}, got)
	assert.Equal(t, base, base.Apply(Overrides{}))
}

func TestColorEnabled(t *testing.T) {
	assert.True(t, Config{Color: ColorAlways}.ColorEnabled(false))
	assert.False(t, Config{Color: ColorNever}.ColorEnabled(true))
	assert.True(t, Config{Color: ColorAuto}.ColorEnabled(true))
	assert.False(t, Config{Color: ColorAuto}.ColorEnabled(false))
}

// Flags win over the file, the file wins over defaults.
func TestConfigPrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`/[a-z0-9_.-]{1,20}`)

	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasProjectsDir") {
			cfg.ProjectsDir = nonEmptyString.Draw(t, "projectsDir")
		}
		if rapid.Bool().Draw(t, "hasLogFile") {
			cfg.LogFile = nonEmptyString.Draw(t, "logFile")
		}
		if rapid.Bool().Draw(t, "hasColor") {
			cfg.Color = rapid.SampledFrom([]string{ColorAuto, ColorAlways, ColorNever}).Draw(t, "color")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		defaults := Config{ProjectsDir: "/default", Color: ColorAuto}
		file := configGen.Draw(t, "file")
		flagDir := rapid.SampledFrom([]string{"", "/flag"}).Draw(t, "flagDir")

		got := Merge(defaults, file).Apply(Overrides{ProjectsDir: flagDir})

		want := defaults.ProjectsDir
		if file.ProjectsDir != "" {
			want = file.ProjectsDir
		}
		if flagDir != "" {
			want = flagDir
		}
		if got.ProjectsDir != want {
			t.Fatalf("ProjectsDir = %q, want %q", got.ProjectsDir, want)
		}
		if file.Color != "" && got.Color != file.Color {
			t.Fatalf("Color = %q, want %q", got.Color, file.Color)
		}
		if file.LogFile == "" && got.LogFile != "" {
			t.Fatalf("LogFile = %q, want empty", got.LogFile)
		}
	})
}
