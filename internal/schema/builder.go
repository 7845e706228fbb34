package schema

import (
	"errors"
	"fmt"

	"github.com/go-openapi/spec"

	"github.com/griffnb/core-schemagen/internal/console"
	"github.com/griffnb/core-schemagen/internal/constraints"
	"github.com/griffnb/core-schemagen/internal/docs"
	"github.com/griffnb/core-schemagen/internal/domain"
	"github.com/griffnb/core-schemagen/internal/generics"
)

const (
	// DefaultRefPrefix is the location of component schemas in an OpenAPI 3 document.
	DefaultRefPrefix = "#/components/schemas/"
	// DefinitionsRefPrefix is the location of definitions in a Swagger 2.0 document.
	DefinitionsRefPrefix = "#/definitions/"
	// DefaultMaxDepth bounds nesting that never crosses a guarded field edge.
	DefaultMaxDepth = 64
)

// ErrUnboundedRecursion is returned when a type nests deeper than the
// builder's maximum depth, for example a named map whose value is itself.
var ErrUnboundedRecursion = errors.New("unbounded type recursion")

// Resolver describes concrete type expressions and names their schemas.
type Resolver interface {
	Describe(expr *domain.TypeExpr) (*domain.TypeDescription, error)
	SchemaName(identity string) string
}

// DeclaringContext is the type and field through which a type was reached.
type DeclaringContext struct {
	Type  *domain.TypeDescription
	Field string
}

// Builder turns type descriptions into schema trees.
type Builder struct {
	resolver    Resolver
	docs        docs.Lookup
	constraints constraints.Lookup
	refPrefix   string
	maxDepth    int
}

// NewBuilder creates a Builder with no documentation, no constraints and the
// OpenAPI 3 reference prefix.
func NewBuilder(resolver Resolver) *Builder {
	return &Builder{
		resolver:    resolver,
		docs:        docs.None,
		constraints: constraints.None,
		refPrefix:   DefaultRefPrefix,
		maxDepth:    DefaultMaxDepth,
	}
}

// SetDocs sets the documentation lookup.
func (b *Builder) SetDocs(lookup docs.Lookup) {
	if lookup == nil {
		lookup = docs.None
	}
	b.docs = lookup
}

// SetConstraints sets the constraint lookup.
func (b *Builder) SetConstraints(lookup constraints.Lookup) {
	if lookup == nil {
		lookup = constraints.None
	}
	b.constraints = lookup
}

// SetRefPrefix sets the prefix of every emitted $ref.
func (b *Builder) SetRefPrefix(prefix string) {
	if prefix == "" {
		prefix = DefaultRefPrefix
	}
	b.refPrefix = prefix
}

// SetMaxDepth sets the nesting limit. Zero or less restores the default.
func (b *Builder) SetMaxDepth(depth int) {
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	b.maxDepth = depth
}

// RefPrefix returns the prefix of every emitted $ref.
func (b *Builder) RefPrefix() string {
	return b.refPrefix
}

// Build produces the schema of desc. A main schema is a top-level entry and
// is always expanded; otherwise named objects and enums become references.
// declaring may be nil, in which case the recursion check is skipped for
// this occurrence.
func (b *Builder) Build(pass *Pass, desc *domain.TypeDescription, main bool, declaring *DeclaringContext) (*Schema, error) {
	return b.build(pass, desc, main, declaring, 0)
}

// BuildMain builds desc as a top-level entry and returns, besides the
// schema, the forced entries this call added to the pass.
func (b *Builder) BuildMain(pass *Pass, desc *domain.TypeDescription) (*Schema, []ForcedEntry, error) {
	before := pass.additional.Len()
	s, err := b.build(pass, desc, true, nil, 0)
	if err != nil {
		return nil, nil, err
	}
	return s, pass.additional.Entries()[before:], nil
}

func (b *Builder) build(pass *Pass, desc *domain.TypeDescription, main bool, declaring *DeclaringContext, depth int) (*Schema, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if depth > b.maxDepth {
		return nil, fmt.Errorf("%w: %s nests deeper than %d", ErrUnboundedRecursion, desc.Expr, b.maxDepth)
	}

	switch desc.Kind {
	case domain.KindMap:
		value, err := b.describe(desc.MapValue)
		if err != nil {
			return nil, err
		}
		child, err := b.build(pass, value, false, declaring, depth+1)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: domain.OBJECT, AdditionalProperties: child, mainReference: main}, nil

	case domain.KindArray:
		item, err := b.describe(desc.ArrayItem)
		if err != nil {
			return nil, err
		}
		child, err := b.build(pass, item, false, declaring, depth+1)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: domain.ARRAY, Items: child, mainReference: main}, nil

	case domain.KindObject, domain.KindEnum:
		if !main {
			pass.reference(desc)
			return b.reference(b.resolver.SchemaName(desc.Identity))
		}
		return b.expand(pass, desc, main, declaring, depth)

	case domain.KindGeneric:
		return b.expand(pass, desc, main, declaring, depth)

	case domain.KindPrimitive:
		s := &Schema{Type: desc.Primitive.Type, mainReference: main}
		if desc.Primitive.HasFormat() {
			s.Format = desc.Primitive.Format
		}
		return s, nil
	}

	return nil, fmt.Errorf("%w: %s has unknown kind %s", domain.ErrMalformedType, desc.Name, desc.Kind)
}

func (b *Builder) describe(expr *domain.TypeExpr) (*domain.TypeDescription, error) {
	desc, err := b.resolver.Describe(expr)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", expr, err)
	}
	return desc, nil
}

func (b *Builder) reference(name string) (*Schema, error) {
	ref, err := spec.NewRef(b.refPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("invalid reference %q: %w", name, err)
	}
	return &Schema{Reference: ref.String()}, nil
}

// expand builds the full definition of an object, enum or generic type.
func (b *Builder) expand(pass *Pass, desc *domain.TypeDescription, main bool, declaring *DeclaringContext, depth int) (*Schema, error) {
	if declaring != nil && declaring.Type != nil {
		signature := declaring.Type.Identity + "_" + declaring.Field + "_" + desc.Signature()
		if !pass.guard.Add(signature) {
			key := b.resolver.SchemaName(declaring.Type.Identity) + "_" + desc.RecursiveSuffix(b.resolver.SchemaName)
			if pass.additional.Add(key, desc) {
				console.Logger.Debug("recursion at %s, forcing schema %s", signature, key)
			}
			return b.reference(key)
		}
	}

	s := &Schema{mainReference: main}
	if main {
		if text, ok := b.docs.Description(desc.Identity); ok {
			s.Description = stringPtr(text)
		}
	}

	if desc.Kind == domain.KindEnum {
		s.Type = domain.STRING
		s.EnumValues = append([]string(nil), desc.EnumValues...)
		s.Description = b.enumDescription(desc, s.Description)
		return s, nil
	}

	s.Type = domain.OBJECT
	for _, field := range desc.Fields {
		child, err := b.describe(generics.FieldType(desc, field))
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", desc.Name, field.Name, err)
		}
		prop, err := b.buildProperty(pass, field.Name, child, desc, depth+1)
		if err != nil {
			return nil, err
		}
		s.setProperty(prop)
	}
	s.Required = s.requiredNames()
	return s, nil
}
