// Package dispatch runs every eligible handler against one fragment of text
// and reduces the produced candidates to a single action: open a URL, ask the
// user to pick one, or do nothing. A dispatch is stateless and sequential;
// handlers are visited in registration order so that the first handler to
// produce a given URL keeps it and later duplicates are dropped.
package dispatch

import (
	"openref/cli/internal/handler"
	"openref/cli/internal/trace"
)

// Candidate is one successfully extracted (handler, url) pair.
type Candidate struct {
	Handler string
	URL     string
}

// Kind classifies the resolution outcome.
type Kind int

const (
	// NoMatch means no handler produced a usable URL; the caller performs
	// no action and surfaces no error.
	NoMatch Kind = iota
	// SingleMatch carries exactly one URL to open.
	SingleMatch
	// MultipleMatches needs interactive disambiguation.
	MultipleMatches
)

// Outcome is the final decision for one dispatch.
type Outcome struct {
	Kind       Kind
	URL        string      // set for SingleMatch
	Candidates []Candidate // aggregation order; set for Single and Multiple
}

// aggregate is the candidate set under construction. The three structures are
// deliberately separate: an ordered list, a seen-URL set, and a name-to-ordinal
// map (used by the policy for name-based lookup and removal).
type aggregate struct {
	list    []Candidate
	seen    map[string]struct{}
	ordinal map[string]int
}

func newAggregate() *aggregate {
	return &aggregate{
		seen:    make(map[string]struct{}),
		ordinal: make(map[string]int),
	}
}

// add appends a candidate unless its URL was already produced by an earlier
// handler.
func (a *aggregate) add(name, url string) {
	if url == "" {
		return
	}
	if _, dup := a.seen[url]; dup {
		return
	}
	a.seen[url] = struct{}{}
	a.ordinal[name] = len(a.list)
	a.list = append(a.list, Candidate{Handler: name, URL: url})
}

// Run evaluates the eligible handlers of reg against req.Text, sequentially
// and in registration order, and applies the resolution policy. tr may be nil.
func Run(reg *handler.Registry, req handler.Request, tr *trace.Tracer) Outcome {
	agg := newAggregate()
	for _, h := range reg.Eligible(req.Ctx) {
		url, ok := h.Resolver.Resolve(req)
		if !ok || url == "" {
			tr.Printf("handler %s: no match\n", h.Name)
			continue
		}
		tr.Printf("handler %s: match %s\n", h.Name, url)
		agg.add(h.Name, url)
	}
	return resolve(agg, tr)
}

// resolve applies the policy: a scheme-literal candidate short-circuits
// everything; the generic search candidate is demoted whenever any other
// candidate exists; what remains decides the outcome by count.
func resolve(agg *aggregate, tr *trace.Tracer) Outcome {
	if i, ok := agg.ordinal[handler.NameURL]; ok {
		tr.Printf("policy: scheme literal wins\n")
		c := agg.list[i]
		return Outcome{Kind: SingleMatch, URL: c.URL, Candidates: []Candidate{c}}
	}
	cands := agg.list
	if len(cands) >= 2 {
		if i, ok := agg.ordinal[handler.NameSearch]; ok {
			tr.Printf("policy: search demoted\n")
			trimmed := make([]Candidate, 0, len(cands)-1)
			trimmed = append(trimmed, cands[:i]...)
			trimmed = append(trimmed, cands[i+1:]...)
			cands = trimmed
		}
	}
	switch len(cands) {
	case 0:
		return Outcome{Kind: NoMatch}
	case 1:
		return Outcome{Kind: SingleMatch, URL: cands[0].URL, Candidates: cands}
	default:
		return Outcome{Kind: MultipleMatches, Candidates: cands}
	}
}

// Chooser presents an ordered candidate list and returns the chosen entry, or
// ok=false when the user cancels. Cancellation is not an error.
type Chooser interface {
	Choose(cands []Candidate) (Candidate, bool)
}

// Resolve runs a dispatch and reduces a MultipleMatches outcome through
// chooser. It returns the URL to open, or ok=false for the silent no-op cases
// (no match, cancelled choice, nil chooser on ambiguity).
func Resolve(reg *handler.Registry, req handler.Request, chooser Chooser, tr *trace.Tracer) (string, bool) {
	out := Run(reg, req, tr)
	switch out.Kind {
	case SingleMatch:
		return out.URL, true
	case MultipleMatches:
		if chooser == nil {
			return "", false
		}
		c, ok := chooser.Choose(out.Candidates)
		if !ok {
			return "", false
		}
		return c.URL, true
	default:
		return "", false
	}
}
