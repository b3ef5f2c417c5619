package git

import (
	"os/exec"
	"strings"
)

// GetRepoRoot returns the root directory of the git repo containing dir.
// An empty dir means the current directory.
func GetRepoRoot(dir string) (string, error) {
	return RunGitIn(dir, "rev-parse", "--show-toplevel")
}

// IsInsideWorkTree checks if dir is inside a git work tree
func IsInsideWorkTree(dir string) bool {
	out, err := RunGitIn(dir, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false
	}
	return out == "true"
}

// RunGitIn executes a git command in dir and returns the trimmed output
func RunGitIn(dir string, args ...string) (string, error) {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
