package handler

import (
	"strings"
	"testing"
)

// fakeRemote records the query it was asked and returns a fixed base URL.
type fakeRemote struct {
	base string
	got  RemoteQuery
}

func (f *fakeRemote) ResolveRemote(dir string, q RemoteQuery) (string, bool) {
	f.got = q
	if f.base == "" {
		return "", false
	}
	return f.base, true
}

type fakeSyntax struct {
	path string
}

func (f *fakeSyntax) ImportPathAt(path string, line, col int) (string, bool) {
	if f.path == "" {
		return "", false
	}
	return f.path, true
}

func req(text string) Request {
	return Request{Mode: ModeCursor, Text: text}
}

func TestBrewfile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"formula", `brew "wget"`, "https://formulae.brew.sh/formula/wget", true},
		{"cask", `cask "firefox"`, "https://formulae.brew.sh/cask/firefox", true},
		{"brew wins over cask", `brew "wget" cask "firefox"`, "https://formulae.brew.sh/formula/wget", true},
		{"no token", `tap "homebrew/core"`, "", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := resolveBrewfile(req(tt.text))
			if ok != tt.ok || got != tt.want {
				t.Errorf("resolveBrewfile(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCargoPattern(t *testing.T) {
	t.Parallel()
	r := Builtin()
	h, _ := r.Get(NameCargo)
	got, ok := h.Resolver.Resolve(req(`serde = "1.0"`))
	if !ok || got != "https://crates.io/crates/serde" {
		t.Errorf("cargo resolve = (%q, %v)", got, ok)
	}
	if _, ok := h.Resolver.Resolve(req(`[dependencies]`)); ok {
		t.Error("cargo should not match a section header")
	}
}

func TestCommit(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{base: "https://github.com/acme/widgets"}
	r := req("fixed in deadbeefcafe yesterday")
	r.Deps.Remote = remote
	r.Cfg.GitRemotes = []string{"origin"}
	got, ok := resolveCommit(r)
	if !ok || got != "https://github.com/acme/widgets/commit/deadbeefcafe" {
		t.Errorf("resolveCommit = (%q, %v)", got, ok)
	}
	if len(remote.got.Remotes) != 1 || remote.got.Remotes[0] != "origin" {
		t.Errorf("remote query remotes = %v", remote.got.Remotes)
	}
}

func TestCommit_rejectsOverlongHash(t *testing.T) {
	t.Parallel()
	r := req(strings.Repeat("a", 41))
	r.Deps.Remote = &fakeRemote{base: "https://github.com/acme/widgets"}
	if got, ok := resolveCommit(r); ok {
		t.Errorf("overlong hash resolved to %q", got)
	}
}

func TestCommit_shortRunNoMatch(t *testing.T) {
	t.Parallel()
	r := req("abc123")
	r.Deps.Remote = &fakeRemote{base: "https://github.com/acme/widgets"}
	if _, ok := resolveCommit(r); ok {
		t.Error("6 hex chars should not match")
	}
}

func TestCommit_noRemote(t *testing.T) {
	t.Parallel()
	r := req("deadbeefcafe")
	if _, ok := resolveCommit(r); ok {
		t.Error("no resolver injected: want no candidate")
	}
	r.Deps.Remote = &fakeRemote{}
	if _, ok := resolveCommit(r); ok {
		t.Error("unresolvable remote: want no candidate")
	}
}

func TestCVE(t *testing.T) {
	t.Parallel()
	got, ok := resolveCVE(req("see CVE-2023-12345 for details"))
	if !ok || got != "https://nvd.nist.gov/vuln/detail/CVE-2023-12345" {
		t.Errorf("resolveCVE = (%q, %v)", got, ok)
	}
	if _, ok := resolveCVE(req("CVE-1111111111-1111111111")); ok {
		t.Error("overlong CVE id should be rejected")
	}
	if _, ok := resolveCVE(req("no vulnerability here")); ok {
		t.Error("plain text should not match")
	}
}

func TestParseIssueRef(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text             string
		owner, repo, num string
		ok               bool
	}{
		{"acme/widgets#42", "acme", "widgets", "42", true},
		{"widgets#7", "", "widgets", "7", true},
		{"see #123 please", "", "", "123", true},
		{"no reference", "", "", "", false},
		// The qualified pattern is tried first even when a bare #N appears earlier.
		{"#5 and acme/widgets#42", "acme", "widgets", "42", true},
	}
	for _, tt := range tests {
		owner, repo, num, ok := parseIssueRef(tt.text)
		if owner != tt.owner || repo != tt.repo || num != tt.num || ok != tt.ok {
			t.Errorf("parseIssueRef(%q) = (%q,%q,%q,%v), want (%q,%q,%q,%v)",
				tt.text, owner, repo, num, ok, tt.owner, tt.repo, tt.num, tt.ok)
		}
	}
}

func TestIssue_usesOwnerRepoHint(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{base: "https://github.com/acme/widgets"}
	r := req("acme/widgets#42")
	r.Deps.Remote = remote
	got, ok := resolveIssue(r)
	if !ok || got != "https://github.com/acme/widgets/issues/42" {
		t.Errorf("resolveIssue = (%q, %v)", got, ok)
	}
	if remote.got.OwnerRepo != "acme/widgets" {
		t.Errorf("hint = %q, want acme/widgets", remote.got.OwnerRepo)
	}
}

func TestIssue_noRemoteNoMatch(t *testing.T) {
	t.Parallel()
	r := req("acme/widgets#42")
	if _, ok := resolveIssue(r); ok {
		t.Error("issue without a resolvable remote should yield no candidate")
	}
}

func TestGoImport(t *testing.T) {
	t.Parallel()
	r := req(`"github.com/spf13/cobra"`)
	r.Ctx = Context{FilePath: "main.go", Line: 5, Col: 3}
	r.Deps.Syntax = &fakeSyntax{path: "github.com/spf13/cobra"}
	got, ok := resolveGoImport(r)
	if !ok || got != "https://pkg.go.dev/github.com/spf13/cobra" {
		t.Errorf("resolveGoImport = (%q, %v)", got, ok)
	}
}

func TestGoImport_noEnclosingImport(t *testing.T) {
	t.Parallel()
	r := req("x := 1")
	r.Ctx = Context{FilePath: "main.go", Line: 20}
	r.Deps.Syntax = &fakeSyntax{}
	if _, ok := resolveGoImport(r); ok {
		t.Error("no enclosing import: want no candidate")
	}
	r.Deps.Syntax = nil
	if _, ok := resolveGoImport(r); ok {
		t.Error("nil syntax source: want no candidate")
	}
}

func TestMarkdownPattern(t *testing.T) {
	t.Parallel()
	r := Builtin()
	h, _ := r.Get(NameMarkdown)
	got, ok := h.Resolver.Resolve(req("see [the docs](https://example.com/guide?x=1) here"))
	if !ok || got != "https://example.com/guide?x=1" {
		t.Errorf("markdown resolve = (%q, %v)", got, ok)
	}
	if _, ok := h.Resolver.Resolve(req("[relative link](./docs/guide.md)")); ok {
		t.Error("non-http link should not match")
	}
}

func TestPluginPattern(t *testing.T) {
	t.Parallel()
	r := Builtin()
	h, _ := r.Get(NamePlugin)
	got, ok := h.Resolver.Resolve(req(`use { "folke/lazy.nvim" }`))
	if !ok || got != "https://github.com/folke/lazy.nvim" {
		t.Errorf("plugin resolve = (%q, %v)", got, ok)
	}
	if _, ok := h.Resolver.Resolve(req(`source "~/dotfiles/init.vim"`)); ok {
		t.Error("paths with ~ should not match")
	}
}

func TestPackageJSONPattern(t *testing.T) {
	t.Parallel()
	r := Builtin()
	h, _ := r.Get(NamePackageJSON)
	got, ok := h.Resolver.Resolve(req(`    "react": "^18.2.0",`))
	if !ok || got != "https://www.npmjs.com/package/react" {
		t.Errorf("packagejson resolve = (%q, %v)", got, ok)
	}
}

func TestURLPattern(t *testing.T) {
	t.Parallel()
	r := Builtin()
	h, _ := r.Get(NameURL)
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"https://example.com/path?q=1", "https://example.com/path?q=1", true},
		{"go to http://example.com now", "http://example.com", true},
		{"https://en.wikipedia.org/wiki/A–B", "https://en.wikipedia.org/wiki/A–B", true},
		{"example.com has no scheme", "", false},
	}
	for _, tt := range tests {
		got, ok := h.Resolver.Resolve(req(tt.text))
		if ok != tt.ok || got != tt.want {
			t.Errorf("url resolve(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}
