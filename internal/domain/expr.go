package domain

import (
	"strings"
	"unicode"
)

// ExprForm identifies the shape of a declared type expression.
type ExprForm int

const (
	// FormNamed is a reference to a named type, possibly with type arguments.
	FormNamed ExprForm = iota
	// FormParam is a generic type parameter.
	FormParam
	// FormArray is a slice or array of Elem.
	FormArray
	// FormMap is a map from Key to Elem.
	FormMap
)

func (f ExprForm) String() string {
	switch f {
	case FormNamed:
		return "named"
	case FormParam:
		return "param"
	case FormArray:
		return "array"
	case FormMap:
		return "map"
	}
	return "unknown"
}

// TypeExpr is a type as written on a field or accessor, before generic
// parameters of the enclosing declaration are substituted.
// Values are never mutated after construction.
type TypeExpr struct {
	Form ExprForm
	// Name is the identity of a named type, or the parameter name of a param.
	Name string
	Args []*TypeExpr
	Elem *TypeExpr
	Key  *TypeExpr
}

// Named builds a named type expression.
func Named(identity string, args ...*TypeExpr) *TypeExpr {
	return &TypeExpr{Form: FormNamed, Name: identity, Args: args}
}

// Param builds a type parameter expression.
func Param(name string) *TypeExpr {
	return &TypeExpr{Form: FormParam, Name: name}
}

// ArrayOf builds an array expression.
func ArrayOf(elem *TypeExpr) *TypeExpr {
	return &TypeExpr{Form: FormArray, Elem: elem}
}

// MapOf builds a map expression.
func MapOf(key, value *TypeExpr) *TypeExpr {
	return &TypeExpr{Form: FormMap, Key: key, Elem: value}
}

// HasParams reports whether a type parameter occurs anywhere in the expression.
func (e *TypeExpr) HasParams() bool {
	if e == nil {
		return false
	}
	switch e.Form {
	case FormParam:
		return true
	case FormArray:
		return e.Elem.HasParams()
	case FormMap:
		return e.Key.HasParams() || e.Elem.HasParams()
	}
	for _, arg := range e.Args {
		if arg.HasParams() {
			return true
		}
	}
	return false
}

// Equal reports structural equality.
func (e *TypeExpr) Equal(other *TypeExpr) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Form != other.Form || e.Name != other.Name || len(e.Args) != len(other.Args) {
		return false
	}
	for i := range e.Args {
		if !e.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return e.Elem.Equal(other.Elem) && e.Key.Equal(other.Key)
}

// String renders the expression with full identities, e.g.
// github.com/acme/models.Page[[]github.com/acme/models.User].
func (e *TypeExpr) String() string {
	return e.render(func(name string) string { return name })
}

// Signature renders the expression with simple names, e.g. Node[Foo].
func (e *TypeExpr) Signature() string {
	return e.render(SimpleName)
}

// SchemaSafeName renders the expression with every named type passed
// through name, then drops everything but letters, digits and underscores.
// With SimpleName, Node[Foo] becomes NodeFoo.
func (e *TypeExpr) SchemaSafeName(name func(string) string) string {
	var sb strings.Builder
	for _, r := range e.render(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (e *TypeExpr) render(name func(string) string) string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	e.write(&sb, name)
	return sb.String()
}

func (e *TypeExpr) write(sb *strings.Builder, name func(string) string) {
	switch e.Form {
	case FormParam:
		sb.WriteString(e.Name)
	case FormArray:
		sb.WriteString("[]")
		writeExpr(sb, e.Elem, name)
	case FormMap:
		sb.WriteString("map[")
		writeExpr(sb, e.Key, name)
		sb.WriteString("]")
		writeExpr(sb, e.Elem, name)
	default:
		sb.WriteString(name(e.Name))
		if len(e.Args) == 0 {
			return
		}
		sb.WriteString("[")
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(",")
			}
			writeExpr(sb, arg, name)
		}
		sb.WriteString("]")
	}
}

func writeExpr(sb *strings.Builder, e *TypeExpr, name func(string) string) {
	if e == nil {
		sb.WriteString("?")
		return
	}
	e.write(sb, name)
}

// SimpleName strips the package path from a type identity.
//
//	github.com/acme/api/models.User -> User
//	time.Time                       -> Time
//	int64                           -> int64
func SimpleName(identity string) string {
	rest := identity
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		rest = rest[i+1:]
	}
	if i := strings.LastIndex(rest, "."); i >= 0 {
		return rest[i+1:]
	}
	return rest
}

// PackagePath returns the package part of a type identity, or "" for
// unqualified identities.
func PackagePath(identity string) string {
	slash := strings.LastIndex(identity, "/")
	dot := strings.LastIndex(identity, ".")
	if dot <= slash {
		return ""
	}
	return identity[:dot]
}

// QualifiedName joins a package path and a type name into an identity.
func QualifiedName(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}
	return pkgPath + "." + name
}
