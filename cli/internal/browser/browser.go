// Package browser hands a final URL to the platform opener. Opening is
// best-effort and fire-and-forget; the opener's own exit status is not
// observed.
package browser

import (
	"net/url"
	"os/exec"
	"runtime"

	"openref/cli/internal/erruser"
)

// Command builds the opener invocation for rawURL without starting it. An
// override of the form ["cmd", "arg"...] runs that command with the URL
// appended; otherwise the platform default is used (xdg-open, open, or
// cmd /c start).
func Command(rawURL string, override []string) (*exec.Cmd, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || u.Scheme == "" {
		return nil, erruser.New("Not a valid URL: "+rawURL, err)
	}
	if len(override) > 0 {
		args := append(append([]string{}, override[1:]...), rawURL)
		return exec.Command(override[0], args...), nil
	}
	switch runtime.GOOS {
	case "windows":
		return exec.Command("cmd", "/c", "start", rawURL), nil
	case "darwin":
		return exec.Command("open", rawURL), nil
	default:
		return exec.Command("xdg-open", rawURL), nil
	}
}

// Open launches the opener and returns without waiting for it.
func Open(rawURL string, override []string) error {
	cmd, err := Command(rawURL, override)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return erruser.New("Could not start the URL opener.", err)
	}
	// Reap the child in the background so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}
