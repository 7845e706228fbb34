package typemodel

import (
	"fmt"

	"github.com/griffnb/core-schemagen/internal/constraints"
	"github.com/griffnb/core-schemagen/internal/docs"
	"github.com/griffnb/core-schemagen/internal/domain"
	"github.com/griffnb/core-schemagen/internal/generics"
	"github.com/griffnb/core-schemagen/internal/registry"
)

// Apply registers every declared type with reg and records its documentation
// and constraints. It returns the group of roots to generate.
func (f *File) Apply(reg *registry.Service, index *docs.Index, rules *constraints.Index) (domain.RootGroup, error) {
	group := domain.RootGroup{Name: f.Package}

	for i := range f.Types {
		t := &f.Types[i]
		decl, err := f.decl(t)
		if err != nil {
			return group, fmt.Errorf("%s: %w", t.Name, err)
		}
		if err := reg.Register(decl); err != nil {
			return group, err
		}
		f.record(t, decl.Identity, index, rules)
	}

	if len(f.Roots) > 0 {
		for _, root := range f.Roots {
			group.Roots = append(group.Roots, f.identity(f.localName(root)))
		}
		return group, nil
	}
	for _, t := range f.Types {
		if t.Kind != KindAlias && len(t.TypeParams) == 0 {
			group.Roots = append(group.Roots, f.identity(t.Name))
		}
	}
	return group, nil
}

func (f *File) identity(name string) string {
	return f.Package + "." + name
}

func (f *File) decl(t *Type) (*domain.Decl, error) {
	decl := &domain.Decl{
		Identity:   f.identity(t.Name),
		TypeParams: append([]string(nil), t.TypeParams...),
	}

	switch t.Kind {
	case KindStruct:
		decl.Kind = domain.DeclStruct
		for _, field := range t.Fields {
			expr, err := f.parse(field.Type, t.TypeParams)
			if err != nil {
				return nil, err
			}
			decl.Fields = append(decl.Fields, domain.Field{Name: field.Name, Type: expr})
		}
	case KindInterface:
		decl.Kind = domain.DeclInterface
		for _, accessor := range t.Accessors {
			expr, err := f.parse(accessor.Type, t.TypeParams)
			if err != nil {
				return nil, err
			}
			decl.Accessors = append(decl.Accessors, domain.Accessor{Method: accessor.Method, Type: expr})
		}
	case KindEnum:
		decl.Kind = domain.DeclEnum
		for _, v := range t.Values {
			decl.EnumValues = append(decl.EnumValues, v.Value)
		}
	case KindAlias:
		decl.Kind = domain.DeclAlias
		expr, err := f.parse(t.Underlying, t.TypeParams)
		if err != nil {
			return nil, err
		}
		decl.Underlying = expr
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidModel, t.Kind)
	}
	return decl, nil
}

func (f *File) record(t *Type, identity string, index *docs.Index, rules *constraints.Index) {
	if index != nil {
		if t.Description != "" {
			index.SetDescription(identity, t.Description)
		}
		for _, field := range t.Fields {
			if field.Description != "" {
				index.SetFieldDescription(identity, field.Name, field.Description)
			}
		}
		for _, accessor := range t.Accessors {
			name, ok := domain.AccessorFieldName(accessor.Method)
			if ok && accessor.Description != "" {
				index.SetFieldDescription(identity, name, accessor.Description)
			}
		}
		for _, v := range t.Values {
			if v.Description != "" {
				index.SetEnumValueDescription(identity, v.Value, v.Description)
			}
		}
	}

	if rules != nil {
		for _, field := range t.Fields {
			rules.Set(identity, field.Name, constraints.Constraints{
				Required:  field.Required,
				MinLength: field.MinLength,
				MaxLength: field.MaxLength,
			})
		}
	}
}

// parse reads a type expression and qualifies the names declared in this file.
func (f *File) parse(text string, params []string) (*domain.TypeExpr, error) {
	expr, err := generics.ParseExpr(text, params)
	if err != nil {
		return nil, err
	}
	return f.qualify(expr), nil
}

func (f *File) qualify(expr *domain.TypeExpr) *domain.TypeExpr {
	switch expr.Form {
	case domain.FormArray:
		return domain.ArrayOf(f.qualify(expr.Elem))
	case domain.FormMap:
		return domain.MapOf(f.qualify(expr.Key), f.qualify(expr.Elem))
	case domain.FormNamed:
		name := expr.Name
		if !domain.IsPrimitive(name) {
			name = f.identity(f.localName(name))
		}
		var args []*domain.TypeExpr
		for _, arg := range expr.Args {
			args = append(args, f.qualify(arg))
		}
		return domain.Named(name, args...)
	}
	return expr
}
