package gitremote

import (
	"os/exec"
	"testing"

	"openref/cli/internal/handler"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run(t, dir, "git", "init")
	run(t, dir, "git", "config", "user.email", "test@openref.local")
	run(t, dir, "git", "config", "user.name", "Test")
	return dir
}

func run(t *testing.T, dir, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %v: %v\n%s", name, args, err, out)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"https://github.com/acme/widgets.git", "https://github.com/acme/widgets", true},
		{"https://github.com/acme/widgets", "https://github.com/acme/widgets", true},
		{"http://git.example.com/acme/widgets/", "http://git.example.com/acme/widgets", true},
		{"git@github.com:acme/widgets.git", "https://github.com/acme/widgets", true},
		{"ssh://git@github.com/acme/widgets.git", "https://github.com/acme/widgets", true},
		{"ssh://gitlab.example.com/acme/widgets", "https://gitlab.example.com/acme/widgets", true},
		{"git://github.com/acme/widgets.git", "https://github.com/acme/widgets", true},
		{"/srv/git/widgets.git", "", false},
		{"git@github.com", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRemotes(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	run(t, repo, "git", "remote", "add", "origin", "git@github.com:acme/widgets.git")
	run(t, repo, "git", "remote", "add", "upstream", "https://github.com/upstream/widgets.git")
	names, err := Remotes(repo)
	if err != nil {
		t.Fatalf("Remotes: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("Remotes = %v, want 2 names", names)
	}
}

func TestRemotes_emptyRepo(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	names, err := Remotes(repo)
	if err != nil {
		t.Fatalf("Remotes: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Remotes = %v, want none", names)
	}
}

func TestRemoteURL_pushAndFetch(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	run(t, repo, "git", "remote", "add", "origin", "https://github.com/acme/widgets.git")
	run(t, repo, "git", "remote", "set-url", "--push", "origin", "git@github.com:acme/widgets.git")

	fetch, err := RemoteURL(repo, "origin", false)
	if err != nil || fetch != "https://github.com/acme/widgets.git" {
		t.Errorf("fetch URL = (%q, %v)", fetch, err)
	}
	push, err := RemoteURL(repo, "origin", true)
	if err != nil || push != "git@github.com:acme/widgets.git" {
		t.Errorf("push URL = (%q, %v)", push, err)
	}
}

func TestResolveRemote_prefersUpstream(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	run(t, repo, "git", "remote", "add", "origin", "git@github.com:fork/widgets.git")
	run(t, repo, "git", "remote", "add", "upstream", "git@github.com:acme/widgets.git")

	base, ok := Resolver{}.ResolveRemote(repo, handler.RemoteQuery{})
	if !ok || base != "https://github.com/acme/widgets" {
		t.Errorf("ResolveRemote = (%q, %v), want upstream first", base, ok)
	}
}

func TestResolveRemote_configuredOrder(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	run(t, repo, "git", "remote", "add", "origin", "git@github.com:fork/widgets.git")
	run(t, repo, "git", "remote", "add", "upstream", "git@github.com:acme/widgets.git")

	base, ok := Resolver{}.ResolveRemote(repo, handler.RemoteQuery{Remotes: []string{"origin"}})
	if !ok || base != "https://github.com/fork/widgets" {
		t.Errorf("ResolveRemote = (%q, %v), want configured origin", base, ok)
	}
}

func TestResolveRemote_ownerRepoHint(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	run(t, repo, "git", "remote", "add", "origin", "git@github.com:fork/widgets.git")
	run(t, repo, "git", "remote", "add", "acme", "git@github.com:acme/widgets.git")

	base, ok := Resolver{}.ResolveRemote(repo, handler.RemoteQuery{OwnerRepo: "acme/widgets"})
	if !ok || base != "https://github.com/acme/widgets" {
		t.Errorf("ResolveRemote = (%q, %v), want hint to pick the acme remote", base, ok)
	}

	// An unmatched hint falls back to the preferred list.
	base, ok = Resolver{}.ResolveRemote(repo, handler.RemoteQuery{OwnerRepo: "nobody/nothing"})
	if !ok || base != "https://github.com/fork/widgets" {
		t.Errorf("ResolveRemote fallback = (%q, %v)", base, ok)
	}
}

func TestResolveRemote_noRepo(t *testing.T) {
	t.Parallel()
	if base, ok := (Resolver{}).ResolveRemote(t.TempDir(), handler.RemoteQuery{}); ok {
		t.Errorf("ResolveRemote outside a repo = %q, want none", base)
	}
}

func TestResolveRemote_noPreferredPresent(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	run(t, repo, "git", "remote", "add", "mirror", "git@github.com:acme/widgets.git")
	if base, ok := (Resolver{}).ResolveRemote(repo, handler.RemoteQuery{}); ok {
		t.Errorf("ResolveRemote = %q, want none when neither upstream nor origin exists", base)
	}
}

func TestRepoRoot(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	got, err := RepoRoot(repo)
	if err != nil {
		t.Fatalf("RepoRoot: %v", err)
	}
	if got == "" {
		t.Error("RepoRoot returned empty path")
	}
	if _, err := RepoRoot(t.TempDir()); err == nil {
		t.Error("RepoRoot outside a repo should error")
	}
}
