// Package handler defines URL handlers: named rules that may claim
// applicability to a file context and try to extract a navigable URL from a
// fragment of text. A handler resolves via either a single capturing regular
// expression or an arbitrary function; both are pure with respect to dispatch
// state and report absence of a match as (_, false), never as an error.
package handler

import (
	"regexp"
	"strings"

	"openref/cli/internal/erruser"
)

// Mode says where the input text came from.
type Mode string

const (
	// ModeCursor is line-under-cursor (or word-under-cursor) input.
	ModeCursor Mode = "cursor"
	// ModeSelection is selection or literal-argument input.
	ModeSelection Mode = "selection"
)

// Context is the per-invocation file context. It is immutable during a
// dispatch; a zero Context means "no file" and leaves only global handlers
// eligible.
type Context struct {
	FileType string // e.g. "go", "markdown"; empty when unknown
	FileName string // base name, e.g. "Cargo.toml"
	FilePath string // full path for syntax lookups; may be empty
	Line     int    // 1-based cursor line, 0 when unknown
	Col      int    // 1-based cursor column, 0 when unknown
	Dir      string // working directory for git lookups
}

// RemoteQuery asks the remote resolver for a base repository URL.
type RemoteQuery struct {
	Remotes   []string // preferred remote names in order; empty = resolver default
	Push      bool     // prefer the push URL over the fetch URL
	OwnerRepo string   // optional "owner/repo" hint to pick a non-default remote
}

// RemoteResolver returns a normalized https base URL for a repository remote,
// or ok=false when no usable remote exists. Consumed by the commit and issue
// handlers.
type RemoteResolver interface {
	ResolveRemote(dir string, q RemoteQuery) (string, bool)
}

// SyntaxSource answers "which import path encloses this cursor position".
// Consumed by the goimport handler.
type SyntaxSource interface {
	ImportPathAt(path string, line, col int) (string, bool)
}

// Deps are the injected collaborators handlers may consult. Nil fields make
// the dependent handlers yield no candidate.
type Deps struct {
	Remote RemoteResolver
	Syntax SyntaxSource
}

// Settings is the slice of configuration handlers read during dispatch. It is
// a snapshot: dispatch never observes configuration changes mid-flight.
type Settings struct {
	SearchEngine  string   // engine key or literal URL template
	GitRemotes    []string // preferred remote names
	GitRemotePush bool     // use push URLs when resolving remotes
}

// Request carries one dispatch invocation's input to a resolver.
type Request struct {
	Mode Mode
	Text string
	Ctx  Context
	Deps Deps
	Cfg  Settings
}

// Resolver turns a Request into at most one URL. ok=false is the common
// no-match case, not a failure.
type Resolver interface {
	Resolve(req Request) (url string, ok bool)
}

// Func adapts a plain function to the Resolver interface.
type Func func(req Request) (string, bool)

// Resolve implements Resolver.
func (f Func) Resolve(req Request) (string, bool) { return f(req) }

// Pattern resolves via a single capturing regular expression. The first
// capture group (or the whole match when the expression has no groups) is
// substituted into the template, or returned as-is when the template is empty.
type Pattern struct {
	re       *regexp.Regexp
	template string // "%s" is replaced with the capture; empty = capture is the URL
}

// NewPattern compiles expr into a Pattern. template may be empty.
func NewPattern(expr, template string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, erruser.New("Invalid handler pattern.", err)
	}
	return &Pattern{re: re, template: template}, nil
}

// MustPattern is NewPattern for built-in expressions known to compile.
func MustPattern(expr, template string) *Pattern {
	p, err := NewPattern(expr, template)
	if err != nil {
		panic(err)
	}
	return p
}

// Resolve implements Resolver. Non-matching input yields ("", false).
func (p *Pattern) Resolve(req Request) (string, bool) {
	m := p.re.FindStringSubmatch(req.Text)
	if m == nil {
		return "", false
	}
	capture := m[0]
	if len(m) > 1 {
		capture = m[1]
	}
	if capture == "" {
		return "", false
	}
	if p.template == "" {
		return capture, true
	}
	return strings.Replace(p.template, "%s", capture, 1), true
}

// Handler is one named rule in the registry.
type Handler struct {
	Name            string
	FileTypes       []string       // eligible file types; nil = no file-type scope
	FileNamePattern *regexp.Regexp // eligible file names; nil = no file-name scope
	Disabled        bool
	Resolver        Resolver
}

// Scoped reports whether the handler carries any scope constraint. Unscoped
// handlers are globally eligible unless disabled.
func (h *Handler) Scoped() bool {
	return len(h.FileTypes) > 0 || h.FileNamePattern != nil
}

// EligibleFor applies the scope rules to ctx: a file-type match wins, then a
// file-name match; a scoped handler failing all its checks is out. Disabled
// handlers are never eligible.
func (h *Handler) EligibleFor(ctx Context) bool {
	if h.Disabled {
		return false
	}
	if !h.Scoped() {
		return true
	}
	for _, ft := range h.FileTypes {
		if ft == ctx.FileType && ft != "" {
			return true
		}
	}
	if h.FileNamePattern != nil && ctx.FileName != "" {
		return h.FileNamePattern.MatchString(ctx.FileName)
	}
	return false
}
