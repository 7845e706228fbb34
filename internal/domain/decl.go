package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DeclKind is the shape of a type declaration.
type DeclKind int

const (
	// DeclStruct is a struct with declared fields.
	DeclStruct DeclKind = iota
	// DeclInterface is an interface whose accessors become fields.
	DeclInterface
	// DeclEnum is a named basic type with a closed set of constants.
	DeclEnum
	// DeclAlias is a named type over another expression, e.g. a named slice.
	DeclAlias
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclInterface:
		return "interface"
	case DeclEnum:
		return "enum"
	case DeclAlias:
		return "alias"
	}
	return "unknown"
}

// Accessor is a parameterless getter on an interface.
type Accessor struct {
	Method string
	Type   *TypeExpr
}

// Decl is a type declaration as registered in the type universe.
type Decl struct {
	Identity   string
	Kind       DeclKind
	TypeParams []string
	Fields     []Field
	Accessors  []Accessor
	EnumValues []string
	// Underlying is set for DeclAlias only.
	Underlying *TypeExpr
}

// Name returns the simple name of the declaration.
func (d *Decl) Name() string {
	return SimpleName(d.Identity)
}

// PkgPath returns the declaring package path.
func (d *Decl) PkgPath() string {
	return PackagePath(d.Identity)
}

// AccessorFieldName derives a field name from a getter method name:
// GetName -> name, IsActive -> active. The second result is false when the
// method is not a getter.
func AccessorFieldName(method string) (string, bool) {
	var rest string
	switch {
	case strings.HasPrefix(method, "Get") && len(method) > len("Get"):
		rest = method[len("Get"):]
	case strings.HasPrefix(method, "Is") && len(method) > len("Is"):
		rest = method[len("Is"):]
	default:
		return "", false
	}

	r, size := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return string(unicode.ToLower(r)) + rest[size:], true
}

// RootGroup is a set of root identities that are built in one pass, usually
// the exported types of a single package.
type RootGroup struct {
	Name  string
	Roots []string
}
