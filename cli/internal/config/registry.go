package config

import (
	"os"
	"path/filepath"
	"strings"

	"openref/cli/internal/handler"
	"openref/cli/internal/luares"
)

// BuildRegistry materializes the handler registry for cfg: the built-in
// handlers plus the [handlers.*] tables merged on top. Lua resolvers are
// loaded and syntax-checked here so a broken chunk fails the command instead
// of silently matching nothing.
func (c *Config) BuildRegistry() (*handler.Registry, error) {
	reg := handler.Builtin()
	specs := make(map[string]handler.Spec, len(c.Handlers))
	for name, hs := range c.Handlers {
		spec := handler.Spec{
			Pattern:     hs.Pattern,
			URLTemplate: hs.URLTemplate,
			FileTypes:   hs.FileTypes,
			Filename:    hs.Filename,
			Disabled:    hs.Disabled,
		}
		if hs.Lua != "" {
			res, err := loadLua(name, hs.Lua)
			if err != nil {
				return nil, err
			}
			spec.Resolver = res
		}
		specs[name] = spec
	}
	if err := reg.ApplyAll(specs); err != nil {
		return nil, err
	}
	return reg, nil
}

// loadLua loads the resolver for a handler. A value ending in .lua is a file
// path (with ~ expanded); anything else is treated as an inline chunk.
func loadLua(name, src string) (*luares.Resolver, error) {
	if strings.HasSuffix(src, ".lua") {
		path := src
		if strings.HasPrefix(path, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, path[2:])
			}
		}
		return luares.Load(name, path)
	}
	return luares.LoadString(name, src)
}

// Settings returns the per-dispatch snapshot handed to handlers.
func (c *Config) Settings() handler.Settings {
	return handler.Settings{
		SearchEngine:  c.SearchEngine,
		GitRemotes:    c.GitRemotes,
		GitRemotePush: c.GitRemotePush,
	}
}
