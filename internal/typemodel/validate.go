package typemodel

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/griffnb/core-schemagen/internal/domain"
	"github.com/griffnb/core-schemagen/internal/generics"
)

// ErrInvalidModel wraps every validation problem of a model file.
var ErrInvalidModel = errors.New("invalid type model")

// Validate checks the whole file and reports every problem found.
func (f *File) Validate() error {
	var errs error
	add := func(format string, args ...interface{}) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidModel}, args...)...))
	}

	if strings.TrimSpace(f.Package) == "" {
		add("package is required")
	}
	if len(f.Types) == 0 {
		add("no types declared")
	}

	declared := make(map[string]*Type, len(f.Types))
	for i := range f.Types {
		t := &f.Types[i]
		if t.Name == "" {
			add("type %d has no name", i)
			continue
		}
		if _, dup := declared[t.Name]; dup {
			add("type %s declared twice", t.Name)
			continue
		}
		declared[t.Name] = t
	}

	for i := range f.Types {
		t := &f.Types[i]
		if t.Name == "" {
			continue
		}
		for _, err := range multierr.Errors(f.validateType(t, declared)) {
			add("%s: %v", t.Name, err)
		}
	}

	for _, root := range f.Roots {
		t, ok := declared[f.localName(root)]
		if !ok {
			add("root %s is not declared", root)
			continue
		}
		if t.Kind == KindAlias {
			add("root %s is an alias", root)
		}
		if len(t.TypeParams) > 0 {
			add("root %s is generic", root)
		}
	}

	return errs
}

func (f *File) validateType(t *Type, declared map[string]*Type) error {
	var errs error
	checkExpr := func(what, text string) {
		if err := f.checkExpr(text, t.TypeParams, declared); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", what, err))
		}
	}

	switch t.Kind {
	case KindStruct:
		names := make(map[string]struct{}, len(t.Fields))
		for i, field := range t.Fields {
			if field.Name == "" {
				errs = multierr.Append(errs, fmt.Errorf("field %d has no name", i))
				continue
			}
			if _, dup := names[field.Name]; dup {
				errs = multierr.Append(errs, fmt.Errorf("field %s declared twice", field.Name))
			}
			names[field.Name] = struct{}{}
			checkExpr("field "+field.Name, field.Type)
			if field.MinLength != nil && field.MaxLength != nil && *field.MinLength > *field.MaxLength {
				errs = multierr.Append(errs, fmt.Errorf("field %s has minLength above maxLength", field.Name))
			}
		}
	case KindInterface:
		for _, accessor := range t.Accessors {
			if _, ok := domain.AccessorFieldName(accessor.Method); !ok {
				errs = multierr.Append(errs, fmt.Errorf("method %s is not a getter", accessor.Method))
				continue
			}
			checkExpr("method "+accessor.Method, accessor.Type)
		}
	case KindEnum:
		if len(t.Values) == 0 {
			errs = multierr.Append(errs, errors.New("enum has no values"))
		}
		if len(t.TypeParams) > 0 {
			errs = multierr.Append(errs, errors.New("enum cannot take type parameters"))
		}
	case KindAlias:
		if t.Underlying == "" {
			errs = multierr.Append(errs, errors.New("alias has no underlying type"))
			break
		}
		checkExpr("underlying", t.Underlying)
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown kind %q", t.Kind))
	}

	if t.Kind != KindStruct && len(t.Fields) > 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s cannot declare fields", t.Kind))
	}
	return errs
}

// checkExpr parses a type expression and confirms every name it mentions is
// a primitive, a declared type or a qualified identity.
func (f *File) checkExpr(text string, params []string, declared map[string]*Type) error {
	expr, err := generics.ParseExpr(text, params)
	if err != nil {
		return err
	}
	var walk func(e *domain.TypeExpr) error
	walk = func(e *domain.TypeExpr) error {
		switch e.Form {
		case domain.FormArray:
			return walk(e.Elem)
		case domain.FormMap:
			if err := walk(e.Key); err != nil {
				return err
			}
			return walk(e.Elem)
		case domain.FormNamed:
			if _, ok := declared[f.localName(e.Name)]; !ok && !domain.IsPrimitive(e.Name) {
				return fmt.Errorf("unknown type %s", e.Name)
			}
			for _, arg := range e.Args {
				if err := walk(arg); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(expr)
}

// localName strips this file's package from a qualified name.
func (f *File) localName(name string) string {
	if rest, ok := strings.CutPrefix(name, f.Package+"."); ok {
		return rest
	}
	return name
}
