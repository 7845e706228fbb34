// Package constraints stores the validation rules declared on fields.
package constraints

import "sync"

// Constraints are the rules that influence a property schema.
type Constraints struct {
	// Required is set when a not-null rule exists on the field.
	Required  bool
	MinLength *int
	MaxLength *int
}

// IsZero reports whether no rule is set.
func (c Constraints) IsZero() bool {
	return !c.Required && c.MinLength == nil && c.MaxLength == nil
}

// Lookup answers constraint queries for the property builder. A field with
// no rules yields the zero Constraints.
type Lookup interface {
	For(identity, field string) Constraints
}

// None is a Lookup with no rules at all.
var None Lookup = none{}

type none struct{}

func (none) For(string, string) Constraints { return Constraints{} }

// Index is an in-memory Lookup populated by the loaders. It is safe for
// concurrent use.
type Index struct {
	mu    sync.RWMutex
	rules map[string]map[string]Constraints
}

// NewIndex creates an empty constraint index.
func NewIndex() *Index {
	return &Index{rules: make(map[string]map[string]Constraints)}
}

// Set records the rules of one field. Zero constraints are not stored.
func (i *Index) Set(identity, field string, c Constraints) {
	if c.IsZero() {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	fields, ok := i.rules[identity]
	if !ok {
		fields = make(map[string]Constraints)
		i.rules[identity] = fields
	}
	fields[field] = c
}

// For implements Lookup.
func (i *Index) For(identity, field string) Constraints {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.rules[identity][field]
}

// Int returns a pointer to v, for building Constraints literals.
func Int(v int) *int {
	return &v
}
