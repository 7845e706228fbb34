// Package schema builds OpenAPI schema trees from type descriptions.
package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Properties is the ordered field name to property map of an object schema.
type Properties = orderedmap.OrderedMap[string, *Property]

// Schema is one node of the schema tree. It is either a reference or an
// inline definition, never both.
type Schema struct {
	// Description is emitted whenever non-nil, even when empty.
	Description          *string
	Type                 string
	Format               string
	Properties           *Properties
	Required             []string
	EnumValues           []string
	AdditionalProperties *Schema
	Reference            string
	Items                *Schema

	mainReference bool
}

// IsReference reports whether the schema only points at another schema.
func (s *Schema) IsReference() bool {
	return s.Reference != ""
}

// MainReference reports whether the schema was built as a top-level entry.
func (s *Schema) MainReference() bool {
	return s.mainReference
}

// Property returns the named property of an object schema.
func (s *Schema) Property(name string) (*Property, bool) {
	if s.Properties == nil {
		return nil, false
	}
	return s.Properties.Get(name)
}

// PropertyNames returns property names in declaration order.
func (s *Schema) PropertyNames() []string {
	if s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (s *Schema) setProperty(prop *Property) {
	if s.Properties == nil {
		s.Properties = orderedmap.New[string, *Property]()
	}
	s.Properties.Set(prop.Name, prop)
}

// requiredNames derives the ordered required list from the properties.
func (s *Schema) requiredNames() []string {
	required := []string{}
	if s.Properties == nil {
		return required
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Required {
			required = append(required, pair.Key)
		}
	}
	return required
}

// Property is a Schema reached through a named field.
type Property struct {
	Schema
	// Name and Required are never serialized. Required drives the parent's
	// required list and shadows Schema.Required, which remains reachable as
	// p.Schema.Required for inline object expansions.
	Name      string
	Required  bool
	MinLength *int
	MaxLength *int
}

func stringPtr(s string) *string {
	return &s
}
