package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/QuesmaOrg/worklog/internal/config"
	"github.com/QuesmaOrg/worklog/internal/logger"
)

var version = "dev"

// SetVersion sets the version reported by --version
func SetVersion(v string) {
	SetVersionInfo(v, "", "")
}

// GetVersion returns the version string
func GetVersion() string {
	return version
}

func SetVersionInfo(v, commit, date string) {
	version = v

	// Build version string with optional commit and date
	var parts []string
	parts = append(parts, v)
	if commit != "" {
		parts = append(parts, commit)
	}
	if date != "" {
		// Shorten ISO date to just the date part if it's a full timestamp
		if len(date) > 10 {
			date = date[:10]
		}
		parts = append(parts, date)
	}

	rootCmd.Version = strings.Join(parts, " ")
}

var (
	configFlag      string
	projectsDirFlag string
	verboseFlag     bool
	logFileFlag     string
	noColorFlag     bool
)

// cfg is the effective configuration, resolved before each command runs
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "worklog",
	Short: "Reconstruct time spent working with Claude Code",
	Long: `worklog reads the JSONL session logs Claude Code keeps under
~/.claude/projects and reconstructs how a project's time was spent:
activity is grouped into work blocks separated by more than 10 idle
minutes, and active time is reported per block, per day and in total.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "Config file (default $XDG_CONFIG_HOME/worklog/config.yaml)")
	pf.StringVar(&projectsDirFlag, "projects-dir", "", "Claude projects directory (default ~/.claude/projects)")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "Write diagnostic log to stderr")
	pf.StringVar(&logFileFlag, "log-file", "", "Write diagnostic log to a rotated file")
	pf.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
}

// setup loads configuration and starts the logger
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	cfg = loaded.Apply(config.Overrides{
		ProjectsDir: projectsDirFlag,
		NoColor:     noColorFlag,
		LogFile:     logFileFlag,
	})

	if err := logger.Init(logger.Options{
		Path:    cfg.LogFile,
		Verbose: verboseFlag,
		Stderr:  cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}
	logger.Debug("worklog %s: projects root %s", version, cfg.ProjectsDir)
	return nil
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func Execute() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "worklog: %v\n", err)
		os.Exit(1)
	}
}
