// Package config provides openref configuration with a defined load order:
// CLI flags > environment variables > repo config > global config > defaults.
//
// Paths:
//   - Repo: .openref.toml (at the git repository root)
//   - Global: XDG config dir, e.g. ~/.config/openref/config.toml (see os.UserConfigDir)
//
// Environment variables (override config files when set):
//   - OPENREF_SEARCH_ENGINE (engine key or literal URL template),
//   - OPENREF_GIT_REMOTE_PUSH (1/true/yes/on = true, 0/false/no/off = false),
//   - OPENREF_GIT_REMOTES (comma-separated remote names, tried in order),
//   - OPENREF_OPEN_COMMAND (space-separated opener command; URL is appended).
//
// Handler definitions live in [handlers.<name>] tables and are deep-merged
// over the built-ins, user leaves winning key by key:
//
//	[handlers.jira]
//	pattern = '([A-Z]+-\d+)'
//	url_template = "https://jira.example.com/browse/%s"
//
//	[handlers.cve]
//	disabled = true
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"openref/cli/internal/erruser"
)

// HandlerSpec is one [handlers.<name>] table. Zero-valued fields keep the
// value from lower-precedence layers (or the built-in definition).
type HandlerSpec struct {
	Pattern     string   `toml:"pattern"`
	URLTemplate string   `toml:"url_template"`
	FileTypes   []string `toml:"filetypes"`
	Filename    string   `toml:"filename"`
	Disabled    *bool    `toml:"disabled"`
	Lua         string   `toml:"lua"`
}

// Config holds all openref configuration. GitRemotes is the preference order
// for picking a remote; LeaveVisual is carried for editor integrations that
// want to drop back to normal mode before opening (the CLI itself takes no
// action on it).
type Config struct {
	SearchEngine  string
	GitRemotePush bool
	GitRemotes    []string
	LeaveVisual   bool
	OpenCommand   []string
	Handlers      map[string]HandlerSpec
}

// Overrides represents optional CLI flag overrides. Non-nil pointer means
// "override with this value".
type Overrides struct {
	SearchEngine  *string
	GitRemotePush *bool
	GitRemotes    *[]string
	OpenCommand   *[]string
}

// LoadOptions configures Load. All fields are optional.
type LoadOptions struct {
	// RepoRoot is the repository root; if set, repo config is RepoRoot/.openref.toml.
	RepoRoot string
	// GlobalConfigPath is the global config file path; if empty, XDG path is used.
	GlobalConfigPath string
	// Env is the environment key=value slice; if nil, os.Environ() is used.
	Env []string
	// Overrides are applied last (highest precedence).
	Overrides *Overrides
}

const (
	_defaultSearchEngine = "google"
	repoConfigName       = ".openref.toml"
)

// DefaultConfig returns the default configuration (no I/O).
func DefaultConfig() Config {
	return Config{
		SearchEngine: _defaultSearchEngine,
		GitRemotes:   []string{"upstream", "origin"},
		Handlers:     map[string]HandlerSpec{},
	}
}

// Load loads configuration with precedence: defaults < global file < repo file < env < overrides.
// Missing config files are ignored. Invalid TOML or invalid env values return an error.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	cfg := DefaultConfig()

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, erruser.New("Could not determine config directory.", err)
		}
		globalPath = filepath.Join(dir, "openref", "config.toml")
	}
	if err := mergeFile(&cfg, globalPath); err != nil {
		return nil, err
	}

	if opts.RepoRoot != "" {
		if err := mergeFile(&cfg, filepath.Join(opts.RepoRoot, repoConfigName)); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg, opts.Env); err != nil {
		return nil, err
	}

	applyOverrides(&cfg, opts.Overrides)
	return &cfg, nil
}

// mergeFile reads path and merges into cfg. Only overwrites fields present
// and non-zero in the file, so a higher layer can flip one leaf without
// restating the rest. Missing file is skipped (no error).
func mergeFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return erruser.New("Invalid configuration file.", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return erruser.New("Could not read configuration file.", err)
	}
	var file struct {
		SearchEngine  *string                `toml:"search_engine"`
		GitRemotePush *bool                  `toml:"git_remote_push"`
		GitRemotes    *[]string              `toml:"git_remotes"`
		LeaveVisual   *bool                  `toml:"leave_visual"`
		OpenCommand   *[]string              `toml:"open_command"`
		Handlers      map[string]HandlerSpec `toml:"handlers"`
	}
	if _, err := toml.Decode(string(data), &file); err != nil {
		return erruser.New("Invalid configuration in "+filepath.Base(path)+".", err)
	}
	if file.SearchEngine != nil && *file.SearchEngine != "" {
		cfg.SearchEngine = *file.SearchEngine
	}
	if file.GitRemotePush != nil {
		cfg.GitRemotePush = *file.GitRemotePush
	}
	if file.GitRemotes != nil && len(*file.GitRemotes) > 0 {
		cfg.GitRemotes = *file.GitRemotes
	}
	if file.LeaveVisual != nil {
		cfg.LeaveVisual = *file.LeaveVisual
	}
	if file.OpenCommand != nil && len(*file.OpenCommand) > 0 {
		cfg.OpenCommand = *file.OpenCommand
	}
	for name, spec := range file.Handlers {
		cfg.Handlers[name] = mergeHandlerSpec(cfg.Handlers[name], spec)
	}
	return nil
}

// mergeHandlerSpec overlays the set leaves of next onto prev.
func mergeHandlerSpec(prev, next HandlerSpec) HandlerSpec {
	out := prev
	if next.Pattern != "" {
		out.Pattern = next.Pattern
	}
	if next.URLTemplate != "" {
		out.URLTemplate = next.URLTemplate
	}
	if next.FileTypes != nil {
		out.FileTypes = next.FileTypes
	}
	if next.Filename != "" {
		out.Filename = next.Filename
	}
	if next.Disabled != nil {
		out.Disabled = next.Disabled
	}
	if next.Lua != "" {
		out.Lua = next.Lua
	}
	return out
}

// applyEnv merges OPENREF_* variables into cfg. Later entries win for
// duplicate keys, matching os.Environ semantics.
func applyEnv(cfg *Config, env []string) error {
	for _, kv := range env {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || val == "" {
			continue
		}
		switch key {
		case "OPENREF_SEARCH_ENGINE":
			cfg.SearchEngine = val
		case "OPENREF_GIT_REMOTE_PUSH":
			b, err := parseBool(val)
			if err != nil {
				return erruser.New("OPENREF_GIT_REMOTE_PUSH must be a boolean.", err)
			}
			cfg.GitRemotePush = b
		case "OPENREF_GIT_REMOTES":
			var names []string
			for _, name := range strings.Split(val, ",") {
				if name = strings.TrimSpace(name); name != "" {
					names = append(names, name)
				}
			}
			if len(names) > 0 {
				cfg.GitRemotes = names
			}
		case "OPENREF_OPEN_COMMAND":
			cfg.OpenCommand = strings.Fields(val)
		}
	}
	return nil
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o == nil {
		return
	}
	if o.SearchEngine != nil && *o.SearchEngine != "" {
		cfg.SearchEngine = *o.SearchEngine
	}
	if o.GitRemotePush != nil {
		cfg.GitRemotePush = *o.GitRemotePush
	}
	if o.GitRemotes != nil && len(*o.GitRemotes) > 0 {
		cfg.GitRemotes = *o.GitRemotes
	}
	if o.OpenCommand != nil && len(*o.OpenCommand) > 0 {
		cfg.OpenCommand = *o.OpenCommand
	}
}

// parseBool accepts 1/true/yes/on and 0/false/no/off, case-insensitive.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, erruser.New("Not a boolean: "+s, nil)
}
