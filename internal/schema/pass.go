package schema

import "github.com/griffnb/core-schemagen/internal/domain"

// RecursionGuard records the signatures already expanded during a pass.
type RecursionGuard struct {
	seen map[string]struct{}
}

// NewRecursionGuard creates an empty guard.
func NewRecursionGuard() *RecursionGuard {
	return &RecursionGuard{seen: make(map[string]struct{})}
}

// Add records sig and reports whether it was new.
func (g *RecursionGuard) Add(sig string) bool {
	if _, ok := g.seen[sig]; ok {
		return false
	}
	g.seen[sig] = struct{}{}
	return true
}

// Contains reports whether sig was recorded.
func (g *RecursionGuard) Contains(sig string) bool {
	_, ok := g.seen[sig]
	return ok
}

// Len returns the number of recorded signatures.
func (g *RecursionGuard) Len() int {
	return len(g.seen)
}

// ForcedEntry is a schema the builder could only emit as a reference and
// that the caller must still define.
type ForcedEntry struct {
	Key  string
	Type *domain.TypeDescription
}

// AdditionalSchemas collects forced entries in insertion order.
// The first description registered under a key wins.
type AdditionalSchemas struct {
	order   []ForcedEntry
	index   map[string]int
	drained int
}

// NewAdditionalSchemas creates an empty registry.
func NewAdditionalSchemas() *AdditionalSchemas {
	return &AdditionalSchemas{index: make(map[string]int)}
}

// Add registers desc under key unless the key is taken, and reports whether
// it was inserted.
func (a *AdditionalSchemas) Add(key string, desc *domain.TypeDescription) bool {
	if _, ok := a.index[key]; ok {
		return false
	}
	a.index[key] = len(a.order)
	a.order = append(a.order, ForcedEntry{Key: key, Type: desc})
	return true
}

// Get returns the description registered under key.
func (a *AdditionalSchemas) Get(key string) (*domain.TypeDescription, bool) {
	i, ok := a.index[key]
	if !ok {
		return nil, false
	}
	return a.order[i].Type, true
}

// Entries returns every entry in insertion order.
func (a *AdditionalSchemas) Entries() []ForcedEntry {
	out := make([]ForcedEntry, len(a.order))
	copy(out, a.order)
	return out
}

// Drain returns the entries added since the previous Drain.
func (a *AdditionalSchemas) Drain() []ForcedEntry {
	if a.drained == len(a.order) {
		return nil
	}
	out := make([]ForcedEntry, len(a.order)-a.drained)
	copy(out, a.order[a.drained:])
	a.drained = len(a.order)
	return out
}

// Len returns the number of entries.
func (a *AdditionalSchemas) Len() int {
	return len(a.order)
}

// Pass holds the state of one top-level generation run. A Pass is not safe
// for concurrent use and must not be reused across runs.
type Pass struct {
	guard      *RecursionGuard
	additional *AdditionalSchemas
	referenced []*domain.TypeDescription
	refSeen    map[string]struct{}
	drainedRef int
}

// NewPass creates a pass with a fresh guard and registry.
func NewPass() *Pass {
	return &Pass{
		guard:      NewRecursionGuard(),
		additional: NewAdditionalSchemas(),
		refSeen:    make(map[string]struct{}),
	}
}

// Guard returns the pass recursion guard.
func (p *Pass) Guard() *RecursionGuard {
	return p.guard
}

// Additional returns the pass forced schema registry.
func (p *Pass) Additional() *AdditionalSchemas {
	return p.additional
}

func (p *Pass) reference(desc *domain.TypeDescription) {
	if _, ok := p.refSeen[desc.Identity]; ok {
		return
	}
	p.refSeen[desc.Identity] = struct{}{}
	p.referenced = append(p.referenced, desc)
}

// DrainReferences returns the named types referenced by $ref since the
// previous call, each identity once per pass.
func (p *Pass) DrainReferences() []*domain.TypeDescription {
	if p.drainedRef == len(p.referenced) {
		return nil
	}
	out := make([]*domain.TypeDescription, len(p.referenced)-p.drainedRef)
	copy(out, p.referenced[p.drainedRef:])
	p.drainedRef = len(p.referenced)
	return out
}
