package handler

import (
	"regexp"
	"sort"

	"openref/cli/internal/erruser"
)

// Registry is an insertion-ordered set of handlers keyed by name. It is built
// once at configuration time and read-only during dispatch; the order of
// registration decides which handler wins URL-deduplication ties downstream.
type Registry struct {
	order  []string
	byName map[string]*Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Handler)}
}

// Add registers h. A handler with a name already present replaces the
// existing definition in place, keeping its original position.
func (r *Registry) Add(h *Handler) {
	if _, ok := r.byName[h.Name]; !ok {
		r.order = append(r.order, h.Name)
	}
	r.byName[h.Name] = h
}

// Get returns the handler registered under name.
func (r *Registry) Get(name string) (*Handler, bool) {
	h, ok := r.byName[name]
	return h, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int { return len(r.order) }

// Eligible returns the handlers eligible for ctx, in registration order.
func (r *Registry) Eligible(ctx Context) []*Handler {
	var out []*Handler
	for _, name := range r.order {
		if h := r.byName[name]; h.EligibleFor(ctx) {
			out = append(out, h)
		}
	}
	return out
}

// Spec is a user-supplied handler definition from configuration. Zero-valued
// fields leave the existing definition untouched, so users can flip a single
// leaf (e.g. disabled) on a built-in without restating the rest.
type Spec struct {
	Pattern     string   // capturing regular expression; replaces the resolver when set
	URLTemplate string   // "%s" template applied to the capture
	FileTypes   []string // replaces the file-type scope when non-nil
	Filename    string   // file-name pattern; replaces the scope when set
	Disabled    *bool    // nil = keep current value
	Resolver    Resolver // custom resolver (e.g. Lua); wins over Pattern
}

// Apply merges spec onto the handler registered under name, leaf by leaf.
// Unknown names create a new handler appended after the existing ones; a new
// handler needs a resolver or a pattern to be usable.
func (r *Registry) Apply(name string, spec Spec) error {
	h, ok := r.byName[name]
	if !ok {
		h = &Handler{Name: name}
		r.Add(h)
	}
	if spec.FileTypes != nil {
		h.FileTypes = spec.FileTypes
	}
	if spec.Filename != "" {
		re, err := regexp.Compile(spec.Filename)
		if err != nil {
			return erruser.New("Invalid filename pattern for handler "+name+".", err)
		}
		h.FileNamePattern = re
	}
	if spec.Disabled != nil {
		h.Disabled = *spec.Disabled
	}
	switch {
	case spec.Resolver != nil:
		h.Resolver = spec.Resolver
	case spec.Pattern != "":
		p, err := NewPattern(spec.Pattern, spec.URLTemplate)
		if err != nil {
			return erruser.New("Invalid pattern for handler "+name+".", err)
		}
		h.Resolver = p
	}
	if h.Resolver == nil {
		return erruser.New("Handler "+name+" has no pattern or resolver.", nil)
	}
	return nil
}

// ApplyAll merges the named specs in sorted-name order so the resulting
// registry is deterministic regardless of map iteration.
func (r *Registry) ApplyAll(specs map[string]Spec) error {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.Apply(name, specs[name]); err != nil {
			return err
		}
	}
	return nil
}
