package handler

import "regexp"

// Built-in handler names. Dispatch policy refers to NameURL (scheme-literal
// short-circuit) and NameSearch (last-resort demotion) by name.
const (
	NameBrewfile    = "brewfile"
	NameCargo       = "cargo"
	NameCommit      = "commit"
	NameCVE         = "cve"
	NameIssue       = "issue"
	NameGoImport    = "goimport"
	NameMarkdown    = "markdown"
	NamePlugin      = "plugin"
	NamePackageJSON = "packagejson"
	NameSearch      = "search"
	NameURL         = "url"
)

const (
	maxCommitHashLen = 40
	maxCVELen        = 20
)

var (
	brewRe = regexp.MustCompile(`brew "([^"]+)"`)
	caskRe = regexp.MustCompile(`cask "([^"]+)"`)

	commitHashRe = regexp.MustCompile(`[0-9a-fA-F]{7,}`)
	cveRe        = regexp.MustCompile(`CVE[\d-]+`)

	// Issue references, most qualified first: owner/repo#N, repo#N, #N.
	// The first expression that matches wins, even when a later one would
	// capture a different substring of the same text.
	issueFullRe  = regexp.MustCompile(`([A-Za-z0-9._-]+)/([A-Za-z0-9._-]+)#(\d+)`)
	issueRepoRe  = regexp.MustCompile(`([A-Za-z0-9._-]+)#(\d+)`)
	issueShortRe = regexp.MustCompile(`#(\d+)`)
)

// Builtin returns the default registry. Registration order is the
// tie-breaking order for duplicate URLs and the display order of candidates.
func Builtin() *Registry {
	r := NewRegistry()
	r.Add(&Handler{
		Name:            NameBrewfile,
		FileNamePattern: regexp.MustCompile(`(^|/)Brewfile$`),
		Resolver:        Func(resolveBrewfile),
	})
	r.Add(&Handler{
		Name:            NameCargo,
		FileTypes:       []string{"toml"},
		FileNamePattern: regexp.MustCompile(`(^|/)Cargo\.toml$`),
		Resolver:        MustPattern(`([A-Za-z0-9_-]+)\s*=`, "https://crates.io/crates/%s"),
	})
	r.Add(&Handler{Name: NameCommit, Resolver: Func(resolveCommit)})
	r.Add(&Handler{Name: NameCVE, Resolver: Func(resolveCVE)})
	r.Add(&Handler{Name: NameIssue, Resolver: Func(resolveIssue)})
	r.Add(&Handler{
		Name:      NameGoImport,
		FileTypes: []string{"go"},
		Resolver:  Func(resolveGoImport),
	})
	r.Add(&Handler{
		Name:      NameMarkdown,
		FileTypes: []string{"markdown"},
		Resolver:  MustPattern(`\[[\w\s._~-]*\]\((https?://[-A-Za-z0-9@:%._+~#=/?&!$,;'*]+)\)`, ""),
	})
	r.Add(&Handler{
		Name:      NamePlugin,
		FileTypes: []string{"vim", "lua"},
		Resolver:  MustPattern(`["']([-A-Za-z0-9_.]+/[-A-Za-z0-9_.]+)["']`, "https://github.com/%s"),
	})
	r.Add(&Handler{
		Name:            NamePackageJSON,
		FileTypes:       []string{"json"},
		FileNamePattern: regexp.MustCompile(`(^|/)package\.json$`),
		Resolver:        MustPattern(`"([^"]+)"\s*:`, "https://www.npmjs.com/package/%s"),
	})
	r.Add(&Handler{Name: NameSearch, Resolver: Func(resolveSearch)})
	r.Add(&Handler{
		Name:     NameURL,
		Resolver: MustPattern(`https?://[-A-Za-z0-9._~:/?#\[\]@!$&'()*+,;=%–]+`, ""),
	})
	return r
}

// resolveBrewfile recognizes brew "<name>" and cask "<name>" tokens; brew
// takes precedence when both are present.
func resolveBrewfile(req Request) (string, bool) {
	if m := brewRe.FindStringSubmatch(req.Text); m != nil {
		return "https://formulae.brew.sh/formula/" + m[1], true
	}
	if m := caskRe.FindStringSubmatch(req.Text); m != nil {
		return "https://formulae.brew.sh/cask/" + m[1], true
	}
	return "", false
}

// resolveCommit extracts a hexadecimal run of length >= 7 and appends it to
// the repository's remote base URL. Runs longer than 40 characters are
// rejected as pathological input, not reported as errors.
func resolveCommit(req Request) (string, bool) {
	hash := commitHashRe.FindString(req.Text)
	if hash == "" || len(hash) > maxCommitHashLen {
		return "", false
	}
	base, ok := remoteBase(req, "")
	if !ok {
		return "", false
	}
	return base + "/commit/" + hash, true
}

func resolveCVE(req Request) (string, bool) {
	id := cveRe.FindString(req.Text)
	if id == "" || len(id) > maxCVELen {
		return "", false
	}
	return "https://nvd.nist.gov/vuln/detail/" + id, true
}

// resolveIssue matches owner/repo#N, then repo#N, then bare #N; the owner and
// repo default to empty when absent. An owner/repo capture becomes a hint for
// picking a non-default remote.
func resolveIssue(req Request) (string, bool) {
	owner, repo, num, ok := parseIssueRef(req.Text)
	if !ok {
		return "", false
	}
	var hint string
	if owner != "" {
		hint = owner + "/" + repo
	}
	base, ok := remoteBase(req, hint)
	if !ok {
		return "", false
	}
	return base + "/issues/" + num, true
}

func parseIssueRef(text string) (owner, repo, num string, ok bool) {
	if m := issueFullRe.FindStringSubmatch(text); m != nil {
		return m[1], m[2], m[3], true
	}
	if m := issueRepoRe.FindStringSubmatch(text); m != nil {
		return "", m[1], m[2], true
	}
	if m := issueShortRe.FindStringSubmatch(text); m != nil {
		return "", "", m[1], true
	}
	return "", "", "", false
}

// resolveGoImport asks the syntax source for the import spec enclosing the
// cursor. No enclosing import, no candidate.
func resolveGoImport(req Request) (string, bool) {
	if req.Deps.Syntax == nil || req.Ctx.FilePath == "" || req.Ctx.Line <= 0 {
		return "", false
	}
	path, ok := req.Deps.Syntax.ImportPathAt(req.Ctx.FilePath, req.Ctx.Line, req.Ctx.Col)
	if !ok || path == "" {
		return "", false
	}
	return "https://pkg.go.dev/" + path, true
}

// remoteBase resolves the repository base URL through the injected remote
// resolver. A missing resolver or unresolvable remote silently yields no
// candidate for the dependent handler.
func remoteBase(req Request, ownerRepo string) (string, bool) {
	if req.Deps.Remote == nil {
		return "", false
	}
	return req.Deps.Remote.ResolveRemote(req.Ctx.Dir, RemoteQuery{
		Remotes:   req.Cfg.GitRemotes,
		Push:      req.Cfg.GitRemotePush,
		OwnerRepo: ownerRepo,
	})
}
