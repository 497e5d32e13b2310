package gitremote

import (
	"strings"

	"openref/cli/internal/handler"
)

// defaultPreferred is tried when the query names no remotes.
var defaultPreferred = []string{"upstream", "origin"}

// Resolver implements handler.RemoteResolver on top of the local git
// repository at the queried directory.
type Resolver struct{}

// ResolveRemote picks a remote and returns its normalized https base URL.
// An "owner/repo" hint wins when some remote's URL carries that exact path;
// otherwise the first present name from the preferred list is used. Returns
// ok=false outside a repository or when no usable remote exists.
func (Resolver) ResolveRemote(dir string, q handler.RemoteQuery) (string, bool) {
	names, err := Remotes(dir)
	if err != nil || len(names) == 0 {
		return "", false
	}

	if q.OwnerRepo != "" {
		for _, name := range names {
			raw, err := RemoteURL(dir, name, q.Push)
			if err != nil {
				continue
			}
			if base, ok := Normalize(raw); ok && strings.HasSuffix(base, "/"+q.OwnerRepo) {
				return base, true
			}
		}
	}

	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[name] = struct{}{}
	}
	preferred := q.Remotes
	if len(preferred) == 0 {
		preferred = defaultPreferred
	}
	for _, want := range preferred {
		if _, ok := present[want]; !ok {
			continue
		}
		raw, err := RemoteURL(dir, want, q.Push)
		if err != nil {
			continue
		}
		if base, ok := Normalize(raw); ok {
			return base, true
		}
	}
	return "", false
}
