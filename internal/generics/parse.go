package generics

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/griffnb/core-schemagen/internal/domain"
)

// ParseExpr parses the textual type notation used by type model files:
//
//	Name, pkg.Name, []T, map[K]V, Box[T], Page[[]models.User,string]
//
// Names listed in params become parameter expressions. A leading * is
// accepted and ignored.
func ParseExpr(text string, params []string) (*domain.TypeExpr, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty type expression", domain.ErrMalformedType)
	}
	expr, err := parseExpr(clean, params)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", text, err)
	}
	return expr, nil
}

func parseExpr(text string, params []string) (*domain.TypeExpr, error) {
	text = strings.TrimLeft(text, "*")
	if text == "" {
		return nil, fmt.Errorf("%w: missing type", domain.ErrMalformedType)
	}

	if text == domain.BYTES {
		return domain.Named(domain.BYTES), nil
	}

	if rest, ok := strings.CutPrefix(text, "[]"); ok {
		elem, err := parseExpr(rest, params)
		if err != nil {
			return nil, err
		}
		return domain.ArrayOf(elem), nil
	}

	if rest, ok := strings.CutPrefix(text, "map["); ok {
		end := matchingBracket(rest)
		if end < 0 {
			return nil, fmt.Errorf("%w: unbalanced map key in %s", domain.ErrMalformedType, text)
		}
		key, err := parseExpr(rest[:end], params)
		if err != nil {
			return nil, err
		}
		value, err := parseExpr(rest[end+1:], params)
		if err != nil {
			return nil, err
		}
		return domain.MapOf(key, value), nil
	}

	if strings.ContainsAny(text, "[]") {
		name, args := splitGenericsTypeName(text)
		if name == "" || len(args) == 0 {
			return nil, fmt.Errorf("%w: invalid generic form %s", domain.ErrMalformedType, text)
		}
		exprs := make([]*domain.TypeExpr, 0, len(args))
		for _, arg := range args {
			parsed, err := parseExpr(arg, params)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, parsed)
		}
		return domain.Named(name, exprs...), nil
	}

	for _, p := range params {
		if p == text {
			return domain.Param(text), nil
		}
	}
	return domain.Named(text), nil
}

// matchingBracket returns the index of the ']' closing an already opened '['.
func matchingBracket(text string) int {
	depth := 0
	for i, r := range text {
		switch r {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// splitGenericsTypeName splits Name[A,B[C]] into Name and [A B[C]].
func splitGenericsTypeName(fullGenericForm string) (string, []string) {
	if fullGenericForm[len(fullGenericForm)-1] != ']' {
		return "", nil
	}

	// split only at the first '[' and remove the last ']'
	genericParams := strings.SplitN(fullGenericForm[:len(fullGenericForm)-1], "[", 2)
	if len(genericParams) == 1 {
		return "", nil
	}

	genericTypeName := genericParams[0]

	depth := 0
	genericParams = strings.FieldsFunc(genericParams[1], func(r rune) bool {
		if r == '[' {
			depth++
		} else if r == ']' {
			depth--
		} else if r == ',' && depth == 0 {
			return true
		}
		return false
	})
	if depth != 0 {
		return "", nil
	}

	return genericTypeName, genericParams
}
