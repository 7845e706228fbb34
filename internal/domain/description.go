package domain

import "fmt"

// Kind is the structural classification of a type description.
type Kind int

const (
	KindPrimitive Kind = iota
	KindEnum
	KindMap
	KindArray
	KindGeneric
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindMap:
		return "map"
	case KindArray:
		return "array"
	case KindGeneric:
		return "generic"
	case KindObject:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Binding maps one generic parameter name to its concrete type.
type Binding struct {
	Param string
	Type  *TypeExpr
}

// Bindings is an ordered parameter list, in declaration order.
type Bindings []Binding

// Lookup returns the type bound to a parameter name.
func (b Bindings) Lookup(param string) (*TypeExpr, bool) {
	for _, binding := range b {
		if binding.Param == param {
			return binding.Type, true
		}
	}
	return nil, false
}

// Field is a named member with its declared type expression.
type Field struct {
	Name string
	Type *TypeExpr
}

// TypeDescription is the introspected, schema-relevant view of one concrete
// type. Kind is computed by the introspection layer, never by callers.
type TypeDescription struct {
	Kind     Kind
	Identity string
	Name     string
	// Expr is the concrete expression this description was produced from.
	Expr *TypeExpr

	// Bindings is non-empty exactly when Kind is KindGeneric.
	Bindings Bindings

	// MapValue and ArrayItem are resolved lazily so that self-referencing
	// named collections can be described without looping.
	MapValue  *TypeExpr
	ArrayItem *TypeExpr

	Fields     []Field
	EnumValues []string
	Primitive  Primitive
}

// Signature is the inner type signature used for recursion detection. It
// carries full identities so same-named types of different packages differ.
func (d *TypeDescription) Signature() string {
	if d.Expr != nil {
		return d.Expr.String()
	}
	return d.Identity
}

// RecursiveSuffix is the key suffix of a forced schema entry for this type.
// name maps each type identity to its component name.
func (d *TypeDescription) RecursiveSuffix(name func(string) string) string {
	if d.Expr != nil {
		return "Recursive" + d.Expr.SchemaSafeName(name)
	}
	return "Recursive" + Named(d.Identity).SchemaSafeName(name)
}

// Validate checks the structural preconditions of the description's kind.
func (d *TypeDescription) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil description", ErrMalformedType)
	}
	switch d.Kind {
	case KindMap:
		if d.MapValue == nil {
			return fmt.Errorf("%w: map %s has no value type", ErrMalformedType, d.Name)
		}
	case KindArray:
		if d.ArrayItem == nil {
			return fmt.Errorf("%w: array %s has no item type", ErrMalformedType, d.Name)
		}
	case KindGeneric:
		if len(d.Bindings) == 0 {
			return fmt.Errorf("%w: generic %s has no bindings", ErrMalformedType, d.Name)
		}
	case KindPrimitive, KindEnum, KindObject:
	default:
		return fmt.Errorf("%w: %s has unknown kind %s", ErrMalformedType, d.Name, d.Kind)
	}
	return nil
}
