package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/QuesmaOrg/worklog/internal/logger"
)

var (
	// ErrProjectNotFound is returned when the project's session folder does not exist
	ErrProjectNotFound = errors.New("session folder not found")

	// ErrNoSessionFiles is returned when the session folder holds no *.jsonl files
	ErrNoSessionFiles = errors.New("no session files found")
)

// Store reads Claude Code session logs below a projects root
// (normally ~/.claude/projects).
type Store struct {
	root string
}

// NewStore creates a store rooted at the given projects directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the projects directory this store reads from.
func (s *Store) Root() string {
	return s.root
}

// EncodeProjectPath converts /Users/jacek/git/myapp to -Users-jacek-git-myapp
func EncodeProjectPath(projectPath string) string {
	sep := string(filepath.Separator)
	trimmed := strings.TrimRight(projectPath, sep)
	return strings.ReplaceAll(trimmed, sep, "-")
}

// ProjectDir returns the session directory for a project path.
func (s *Store) ProjectDir(projectPath string) (string, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, EncodeProjectPath(absPath)), nil
}

// SessionFiles returns the *.jsonl files for a project, sorted by name.
// Returns ErrProjectNotFound or ErrNoSessionFiles (wrapped with the directory)
// when there is nothing to read.
func (s *Store) SessionFiles(projectPath string, trace *TraceContext) ([]string, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, EncodeProjectPath(absPath))

	if trace != nil {
		trace.ProjectPath = absPath
		trace.EncodedPath = EncodeProjectPath(absPath)
		trace.SessionDir = dir
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, dir)
	}
	if trace != nil {
		trace.SessionDirExists = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	if trace != nil {
		trace.FoundFiles = files
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSessionFiles, dir)
	}
	return files, nil
}

// Load reads every record of every session file of a project.
// Files are read one at a time. A file that cannot be opened fails the
// load; a file that fails mid-scan contributes whatever was read before.
func (s *Store) Load(projectPath string, trace *TraceContext) ([]Record, error) {
	files, err := s.SessionFiles(projectPath, trace)
	if err != nil {
		return nil, err
	}

	var all []Record
	for _, f := range files {
		records, stats, err := ReadFile(f)
		if errors.Is(err, ErrUnreadable) {
			return nil, err
		}
		if err != nil {
			logger.Warn("reading %s stopped after %d lines: %v", f, stats.Lines, err)
		}
		logger.Debug("read %s: %d lines, %d records, %d malformed", f, stats.Lines, len(records), stats.Malformed)
		if trace != nil {
			ft := trace.FindOrCreateFileTrace(f)
			ft.Lines = stats.Lines
			ft.Malformed = stats.Malformed
			ft.Records = len(records)
			if err != nil {
				ft.ReadError = err.Error()
			}
		}
		all = append(all, records...)
	}
	return all, nil
}

// ListSessions describes the session files of a project.
func (s *Store) ListSessions(projectPath string) ([]SessionFile, error) {
	files, err := s.SessionFiles(projectPath, nil)
	if err != nil {
		return nil, err
	}

	var sessions []SessionFile
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(filepath.Base(f), ".jsonl")
		sessions = append(sessions, SessionFile{
			ID:      id,
			Path:    f,
			Kind:    sessionKind(id),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return sessions, nil
}

// ListProjects returns the names of all project folders under the root, sorted.
// A missing root yields no projects and no error.
func (s *Store) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RootExists reports whether the projects root is an existing directory.
func (s *Store) RootExists() bool {
	info, err := os.Stat(s.root)
	return err == nil && info.IsDir()
}

// sessionKind classifies a session file by its name: main transcripts are
// named by UUID, subagent transcripts are prefixed with "agent-".
func sessionKind(id string) string {
	if strings.HasPrefix(id, "agent-") {
		return "agent"
	}
	if _, err := uuid.Parse(id); err == nil {
		return "session"
	}
	return "other"
}
