package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/QuesmaOrg/worklog/internal/config"
	"github.com/QuesmaOrg/worklog/internal/git"
	"github.com/QuesmaOrg/worklog/internal/logger"
	"github.com/QuesmaOrg/worklog/internal/session"
	"github.com/QuesmaOrg/worklog/internal/worklog"
)

// analysisFlags are shared by every command that reads a project's logs
type analysisFlags struct {
	project string
	tz      float64
	day     string
}

func (f *analysisFlags) register(cmd *cobra.Command, withDay bool) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "Project path (default: root of the current git repository)")
	cmd.Flags().Float64Var(&f.tz, "tz", 0, "UTC offset in hours, e.g. -3 or 5.5 (default from config)")
	if withDay {
		cmd.Flags().StringVar(&f.day, "day", "", "Only report this day (YYYY-MM-DD)")
	}
}

// resolve returns the absolute project path and the analysis options.
// The UTC offset comes from --tz, else the repository's git config, else
// the config file.
func (f *analysisFlags) resolve(cmd *cobra.Command) (string, worklog.Options, error) {
	project, err := resolveProject(f.project)
	if err != nil {
		return "", worklog.Options{}, err
	}

	if err := validateDay(f.day); err != nil {
		return "", worklog.Options{}, err
	}

	var overrides config.Overrides
	if hours, ok := git.GetTZOffset(project); ok {
		overrides.TZOffset = &hours
	}
	if cmd.Flags().Changed("tz") {
		overrides.TZOffset = &f.tz
	}
	effective := cfg.Apply(overrides)
	if err := effective.Validate(); err != nil {
		return "", worklog.Options{}, err
	}
	offset := effective.TZOffset

	logger.Debug("project %s, offset %g, day %q", project, offset, f.day)
	return project, worklog.Options{
		Location: worklog.FixedOffset(offset),
		Day:      f.day,
	}, nil
}

// resolveProject makes the project path absolute, defaulting to the
// enclosing git repository.
func resolveProject(flag string) (string, error) {
	if flag == "" {
		if !git.IsInsideWorkTree("") {
			return "", errors.New("no --project given and the current directory is not inside a git repository")
		}
		root, err := git.GetRepoRoot("")
		if err != nil {
			return "", fmt.Errorf("failed to find repository root: %w", err)
		}
		flag = root
	}
	abs, err := filepath.Abs(flag)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project path: %w", err)
	}
	return abs, nil
}

// validateDay checks a --day value is a real YYYY-MM-DD date.
func validateDay(day string) error {
	if day == "" {
		return nil
	}
	t, err := time.Parse(worklog.DateLayout, day)
	if err != nil || t.Format(worklog.DateLayout) != day {
		return fmt.Errorf("invalid --day %q: want YYYY-MM-DD", day)
	}
	return nil
}

func newStore() *session.Store {
	return session.NewStore(cfg.ProjectsDir)
}

// reportMissing prints the diagnostic for a project without readable logs.
// It returns false when err is not one of those conditions.
func reportMissing(w io.Writer, store *session.Store, project string, err error) bool {
	dir, dirErr := store.ProjectDir(project)
	if dirErr != nil {
		dir = project
	}
	dir += string(filepath.Separator)

	switch {
	case errors.Is(err, session.ErrProjectNotFound):
		fmt.Fprintf(w, "Error: Session folder not found: %s\n", dir)
		fmt.Fprintf(w, "Expected path: %s\n", dir)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Available projects:")
		projects, listErr := store.ListProjects()
		if listErr != nil {
			logger.Warn("listing %s: %v", store.Root(), listErr)
		}
		for _, name := range projects {
			fmt.Fprintf(w, "  %s\n", name)
		}
		return true
	case errors.Is(err, session.ErrNoSessionFiles):
		fmt.Fprintf(w, "Error: No session files found in %s\n", dir)
		return true
	}
	return false
}
