package handler

import (
	"fmt"
	"strings"
)

// DefaultSearchEngine is used when configuration names no engine.
const DefaultSearchEngine = "google"

// searchTemplates maps known engine keys to URL prefixes the encoded query is
// appended to.
var searchTemplates = map[string]string{
	"google":     "https://www.google.com/search?q=",
	"bing":       "https://www.bing.com/search?q=",
	"duckduckgo": "https://duckduckgo.com/?q=",
	"ecosia":     "https://www.ecosia.org/search?q=",
	"yandex":     "https://ya.ru/search/?text=",
}

// lookupTemplate returns the template for key; an unknown key is treated as a
// literal URL template so arbitrary engines can be configured directly.
func lookupTemplate(key string) string {
	if t, ok := searchTemplates[key]; ok {
		return t
	}
	return key
}

// KnownSearchEngines returns the engine keys with built-in templates, sorted.
func KnownSearchEngines() []string {
	return []string{"bing", "duckduckgo", "ecosia", "google", "yandex"}
}

// resolveSearch is the last-resort handler: any non-blank text becomes a
// search query for the configured engine. Dispatch demotes its candidate
// whenever a more specific handler also matched.
func resolveSearch(req Request) (string, bool) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", false
	}
	engine := req.Cfg.SearchEngine
	if engine == "" {
		engine = DefaultSearchEngine
	}
	return lookupTemplate(engine) + encodeQuery(text), true
}

// encodeQuery percent-encodes a query: newlines become CRLF, bytes outside
// [A-Za-z0-9 _%.~-] become %XX, spaces become +.
func encodeQuery(s string) string {
	s = strings.ReplaceAll(s, "\n", "\r\n")
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '_', c == '%', c == '.', c == '~', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
