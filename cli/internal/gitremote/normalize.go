package gitremote

import "strings"

// Normalize rewrites a raw git remote URL to an https base suitable for
// appending web paths like /commit/<hash> or /issues/<n>. The trailing ".git"
// and any trailing slash are stripped. Recognized forms:
//
//	https://host/owner/repo(.git)
//	http://host/owner/repo(.git)
//	git@host:owner/repo(.git)
//	ssh://git@host/owner/repo(.git)
//	ssh://host/owner/repo(.git)
//	git://host/owner/repo(.git)
//
// Anything else returns ok=false.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	switch {
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"):
		return s, true
	case strings.HasPrefix(s, "ssh://"):
		rest := strings.TrimPrefix(s, "ssh://")
		rest = strings.TrimPrefix(rest, "git@")
		return "https://" + rest, true
	case strings.HasPrefix(s, "git://"):
		return "https://" + strings.TrimPrefix(s, "git://"), true
	case strings.HasPrefix(s, "git@"):
		rest := strings.TrimPrefix(s, "git@")
		host, path, ok := strings.Cut(rest, ":")
		if !ok || host == "" || path == "" {
			return "", false
		}
		return "https://" + host + "/" + path, true
	default:
		return "", false
	}
}
