// Package gitremote resolves a repository's remotes to normalized https base
// URLs. All queries shell out to git with a minimal environment; a directory
// outside any repository is not an error, it simply resolves nothing.
package gitremote

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"openref/cli/internal/erruser"
)

// RepoRoot returns the absolute path of the git repository root containing dir.
// Runs "git rev-parse --show-toplevel" with Dir=dir. Returns error if dir is
// not inside a git repository.
func RepoRoot(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	cmd.Env = minimalEnv()
	out, err := cmd.Output()
	if err != nil {
		return "", erruser.New("This directory is not inside a Git repository.", err)
	}
	root := strings.TrimSpace(string(out))
	return filepath.Abs(root)
}

// Remotes returns the remote names configured in the repository at dir, in
// git's output order.
func Remotes(dir string) ([]string, error) {
	cmd := exec.Command("git", "remote")
	cmd.Dir = dir
	cmd.Env = minimalEnv()
	out, err := cmd.Output()
	if err != nil {
		return nil, erruser.New("Could not list git remotes.", err)
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// RemoteURL returns the raw fetch URL (or push URL when push is true) of the
// named remote.
func RemoteURL(dir, name string, push bool) (string, error) {
	args := []string{"remote", "get-url"}
	if push {
		args = append(args, "--push")
	}
	args = append(args, name)
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = minimalEnv()
	out, err := cmd.Output()
	if err != nil {
		return "", erruser.New("Could not read the URL of remote "+name+".", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// minimalEnv returns a reduced environment for git subprocesses: PATH and
// HOME only, prompts disabled, pager suppressed.
func minimalEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_PAGER=cat",
	}
	if home := os.Getenv("HOME"); home != "" {
		env = append(env, "HOME="+home)
	} else if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			env = append(env, "HOME="+profile)
		}
	}
	return env
}
