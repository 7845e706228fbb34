package schema

import (
	"strings"

	"github.com/griffnb/core-schemagen/internal/domain"
)

// BuildProperty builds the schema of a named field of declaring, then
// applies the field's documentation and constraints.
func (b *Builder) BuildProperty(pass *Pass, name string, desc *domain.TypeDescription, declaring *domain.TypeDescription) (*Property, error) {
	return b.buildProperty(pass, name, desc, declaring, 0)
}

func (b *Builder) buildProperty(pass *Pass, name string, desc *domain.TypeDescription, declaring *domain.TypeDescription, depth int) (*Property, error) {
	s, err := b.build(pass, desc, false, &DeclaringContext{Type: declaring, Field: name}, depth)
	if err != nil {
		return nil, err
	}

	prop := &Property{Schema: *s, Name: name}
	if declaring == nil {
		return prop, nil
	}

	if text, ok := b.docs.FieldDescription(declaring.Identity, name); ok {
		prop.Description = stringPtr(text)
	}

	rules := b.constraints.For(declaring.Identity, name)
	prop.Required = rules.Required
	prop.MinLength = rules.MinLength
	prop.MaxLength = rules.MaxLength
	return prop, nil
}

// enumDescription appends one line per documented literal to the type
// description. Enums without any documentation keep current unchanged.
func (b *Builder) enumDescription(desc *domain.TypeDescription, current *string) *string {
	if !b.docs.Documented(desc.Identity) {
		return current
	}

	var sb strings.Builder
	if current != nil {
		sb.WriteString(*current)
	} else {
		sb.WriteString(desc.Name)
	}
	sb.WriteString("\n")
	for _, literal := range desc.EnumValues {
		text, ok := b.docs.EnumValueDescription(desc.Identity, literal)
		if !ok {
			continue
		}
		sb.WriteString("  * `")
		sb.WriteString(literal)
		sb.WriteString("` - ")
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return stringPtr(sb.String())
}
