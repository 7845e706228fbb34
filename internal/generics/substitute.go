// Package generics resolves generic type parameters inside declared type
// expressions against the bindings of the concrete use site.
package generics

import "github.com/griffnb/core-schemagen/internal/domain"

// Substitute replaces every bound type parameter in expr with its binding.
// Parameters missing from bindings are left in place for an enclosing scope.
// With no bindings the expression is returned unchanged. Inputs are never
// mutated; a fresh tree is returned whenever something was replaced.
func Substitute(expr *domain.TypeExpr, bindings domain.Bindings) *domain.TypeExpr {
	if expr == nil || len(bindings) == 0 {
		return expr
	}
	return resolveGenericType(expr, bindings)
}

// FieldType returns the concrete type of a field within desc.
func FieldType(desc *domain.TypeDescription, field domain.Field) *domain.TypeExpr {
	return Substitute(field.Type, desc.Bindings)
}

func resolveGenericType(expr *domain.TypeExpr, bindings domain.Bindings) *domain.TypeExpr {
	switch expr.Form {
	case domain.FormParam:
		if bound, ok := bindings.Lookup(expr.Name); ok {
			return bound
		}
		return expr
	case domain.FormArray:
		elem := resolveOptional(expr.Elem, bindings)
		if elem == expr.Elem {
			return expr
		}
		return domain.ArrayOf(elem)
	case domain.FormMap:
		key := resolveOptional(expr.Key, bindings)
		value := resolveOptional(expr.Elem, bindings)
		if key == expr.Key && value == expr.Elem {
			return expr
		}
		return domain.MapOf(key, value)
	}

	if len(expr.Args) == 0 {
		return expr
	}
	var args []*domain.TypeExpr
	for i, arg := range expr.Args {
		resolved := resolveGenericType(arg, bindings)
		if resolved != arg && args == nil {
			args = make([]*domain.TypeExpr, len(expr.Args))
			copy(args, expr.Args[:i])
		}
		if args != nil {
			args[i] = resolved
		}
	}
	if args == nil {
		return expr
	}
	return domain.Named(expr.Name, args...)
}

func resolveOptional(expr *domain.TypeExpr, bindings domain.Bindings) *domain.TypeExpr {
	if expr == nil {
		return nil
	}
	return resolveGenericType(expr, bindings)
}
