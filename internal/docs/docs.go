// Package docs stores the human-readable documentation attached to types,
// fields and enum literals, keyed by type identity.
package docs

import "sync"

// Lookup answers documentation queries for the schema builder. Absence of
// documentation is never an error.
type Lookup interface {
	// Documented reports whether any documentation exists for the type.
	Documented(identity string) bool
	Description(identity string) (string, bool)
	FieldDescription(identity, field string) (string, bool)
	EnumValueDescription(identity, literal string) (string, bool)
}

// None is a Lookup with no documentation at all.
var None Lookup = none{}

type none struct{}

func (none) Documented(string) bool                             { return false }
func (none) Description(string) (string, bool)                  { return "", false }
func (none) FieldDescription(string, string) (string, bool)     { return "", false }
func (none) EnumValueDescription(string, string) (string, bool) { return "", false }

type entry struct {
	description    string
	hasDescription bool
	fields         map[string]string
	values         map[string]string
}

// Index is an in-memory Lookup populated by the loaders. It is safe for
// concurrent use.
type Index struct {
	mu    sync.RWMutex
	types map[string]*entry
}

// NewIndex creates an empty documentation index.
func NewIndex() *Index {
	return &Index{types: make(map[string]*entry)}
}

func (i *Index) entryFor(identity string) *entry {
	e, ok := i.types[identity]
	if !ok {
		e = &entry{fields: make(map[string]string), values: make(map[string]string)}
		i.types[identity] = e
	}
	return e
}

// SetDescription records the description of a type.
func (i *Index) SetDescription(identity, text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	e := i.entryFor(identity)
	e.description = text
	e.hasDescription = true
}

// SetFieldDescription records the description of a field of a type.
func (i *Index) SetFieldDescription(identity, field, text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entryFor(identity).fields[field] = text
}

// SetEnumValueDescription records the description of one enum literal.
func (i *Index) SetEnumValueDescription(identity, literal, text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entryFor(identity).values[literal] = text
}

// Documented implements Lookup.
func (i *Index) Documented(identity string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.types[identity]
	return ok
}

// Description implements Lookup.
func (i *Index) Description(identity string) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	e, ok := i.types[identity]
	if !ok || !e.hasDescription {
		return "", false
	}
	return e.description, true
}

// FieldDescription implements Lookup.
func (i *Index) FieldDescription(identity, field string) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	e, ok := i.types[identity]
	if !ok {
		return "", false
	}
	text, ok := e.fields[field]
	return text, ok
}

// EnumValueDescription implements Lookup.
func (i *Index) EnumValueDescription(identity, literal string) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	e, ok := i.types[identity]
	if !ok {
		return "", false
	}
	text, ok := e.values[literal]
	return text, ok
}

// Len returns the number of documented types.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.types)
}
