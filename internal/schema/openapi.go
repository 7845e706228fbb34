package schema

import (
	"github.com/go-openapi/spec"
)

// ToSpec converts the tree into a go-openapi schema. Property order is kept
// in each property's x-order extension, which go-openapi honors when
// marshaling.
func (s *Schema) ToSpec() *spec.Schema {
	return s.toSpec(nil, nil)
}

// ToSpec converts the property, including its length constraints.
func (p *Property) ToSpec() *spec.Schema {
	return p.Schema.toSpec(p.MinLength, p.MaxLength)
}

func (s *Schema) toSpec(minLength, maxLength *int) *spec.Schema {
	if s.Reference != "" {
		out := spec.RefSchema(s.Reference)
		if s.Description != nil {
			out.Description = *s.Description
		}
		return out
	}

	out := &spec.Schema{}
	if s.Description != nil {
		out.Description = *s.Description
	}
	if s.Type != "" {
		out.Type = spec.StringOrArray{s.Type}
	}
	out.Format = s.Format
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	for _, v := range s.EnumValues {
		out.Enum = append(out.Enum, v)
	}
	if minLength != nil {
		v := int64(*minLength)
		out.MinLength = &v
	}
	if maxLength != nil {
		v := int64(*maxLength)
		out.MaxLength = &v
	}
	if s.AdditionalProperties != nil {
		out.AdditionalProperties = &spec.SchemaOrBool{Allows: true, Schema: s.AdditionalProperties.ToSpec()}
	}
	if s.Items != nil {
		out.Items = &spec.SchemaOrArray{Schema: s.Items.ToSpec()}
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		out.Properties = make(spec.SchemaProperties, s.Properties.Len())
		order := 0
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			prop := pair.Value.ToSpec()
			prop.AddExtension("x-order", order)
			out.Properties[pair.Key] = *prop
			order++
		}
	}
	return out
}
