package handler

import "testing"

func TestLookupTemplate(t *testing.T) {
	t.Parallel()
	if got := lookupTemplate("duckduckgo"); got != "https://duckduckgo.com/?q=" {
		t.Errorf("duckduckgo template = %q", got)
	}
	// Unknown keys are themselves the template.
	custom := "https://search.example.com/?q="
	if got := lookupTemplate(custom); got != custom {
		t.Errorf("unknown key = %q, want the key back", got)
	}
}

func TestEncodeQuery(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
	}{
		{"hello world", "hello+world"},
		{"a\nb", "a%0D%0Ab"},
		{"café", "caf%C3%A9"},
		{"50%", "50%"},
		{"a_b.c~d-e", "a_b.c~d-e"},
		{"x=y&z", "x%3Dy%26z"},
	}
	for _, tt := range tests {
		if got := encodeQuery(tt.in); got != tt.want {
			t.Errorf("encodeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveSearch(t *testing.T) {
	t.Parallel()
	r := req("hello world")
	got, ok := resolveSearch(r)
	if !ok || got != "https://www.google.com/search?q=hello+world" {
		t.Errorf("default engine search = (%q, %v)", got, ok)
	}

	r.Cfg.SearchEngine = "ecosia"
	got, _ = resolveSearch(r)
	if got != "https://www.ecosia.org/search?q=hello+world" {
		t.Errorf("ecosia search = %q", got)
	}

	r.Cfg.SearchEngine = "https://kagi.com/search?q="
	got, _ = resolveSearch(r)
	if got != "https://kagi.com/search?q=hello+world" {
		t.Errorf("literal template search = %q", got)
	}

	if _, ok := resolveSearch(req("   ")); ok {
		t.Error("blank text should not produce a search candidate")
	}
}

func TestKnownSearchEngines_allHaveTemplates(t *testing.T) {
	t.Parallel()
	for _, key := range KnownSearchEngines() {
		if _, ok := searchTemplates[key]; !ok {
			t.Errorf("engine %q listed but has no template", key)
		}
	}
}
