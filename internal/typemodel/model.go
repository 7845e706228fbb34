// Package typemodel reads type universes described in a file instead of Go
// source. A model file declares the types of one package; they are
// registered exactly like types discovered by the Go loader.
package typemodel

// Declaration kinds accepted in a model file.
const (
	KindStruct    = "struct"
	KindInterface = "interface"
	KindEnum      = "enum"
	KindAlias     = "alias"
)

// File is the root of a type model file.
type File struct {
	Package string   `json:"package" toml:"package" jsonschema:"required,description=Package path that qualifies every declared type"`
	Roots   []string `json:"roots,omitempty" toml:"roots" jsonschema:"description=Types to generate; defaults to every struct interface and enum"`
	Types   []Type   `json:"types" toml:"types" jsonschema:"required"`
}

// Type declares one named type.
type Type struct {
	Name        string     `json:"name" toml:"name" jsonschema:"required"`
	Kind        string     `json:"kind" toml:"kind" jsonschema:"required,enum=struct,enum=interface,enum=enum,enum=alias"`
	Description string     `json:"description,omitempty" toml:"description"`
	TypeParams  []string   `json:"typeParams,omitempty" toml:"typeParams"`
	Fields      []Field    `json:"fields,omitempty" toml:"fields"`
	Accessors   []Accessor `json:"accessors,omitempty" toml:"accessors"`
	Values      []Value    `json:"values,omitempty" toml:"values"`
	Underlying  string     `json:"underlying,omitempty" toml:"underlying" jsonschema:"description=Aliased type expression such as []string or map[string]Tree"`
}

// Field is a struct field in serialized form.
type Field struct {
	Name        string `json:"name" toml:"name" jsonschema:"required"`
	Type        string `json:"type" toml:"type" jsonschema:"required,description=Type expression such as int64 or Page[User]"`
	Description string `json:"description,omitempty" toml:"description"`
	Required    bool   `json:"required,omitempty" toml:"required"`
	MinLength   *int   `json:"minLength,omitempty" toml:"minLength" jsonschema:"minimum=0"`
	MaxLength   *int   `json:"maxLength,omitempty" toml:"maxLength" jsonschema:"minimum=0"`
}

// Accessor is an interface getter such as GetName or IsActive.
type Accessor struct {
	Method      string `json:"method" toml:"method" jsonschema:"required"`
	Type        string `json:"type" toml:"type" jsonschema:"required"`
	Description string `json:"description,omitempty" toml:"description"`
}

// Value is one enum literal.
type Value struct {
	Value       string `json:"value" toml:"value" jsonschema:"required"`
	Description string `json:"description,omitempty" toml:"description"`
}
