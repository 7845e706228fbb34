package field

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToSnakeCase converts a name to snake_case
func ToSnakeCase(in string) string {
	var (
		runes  = []rune(in)
		length = len(runes)
		out    []rune
	)

	for idx := 0; idx < length; idx++ {
		if idx > 0 && unicode.IsUpper(runes[idx]) &&
			((idx+1 < length && unicode.IsLower(runes[idx+1])) || unicode.IsLower(runes[idx-1])) {
			out = append(out, '_')
		}

		out = append(out, unicode.ToLower(runes[idx]))
	}

	return string(out)
}

// ToLowerCamelCase converts a name to lowerCamelCase
func ToLowerCamelCase(in string) string {
	var flag bool

	out := make([]rune, 0, len(in))

	runes := []rune(in)
	for i, curr := range runes {
		if (i == 0 && unicode.IsUpper(curr)) || (flag && unicode.IsUpper(curr)) {
			// keep the last upper rune of an acronym when a lower rune follows
			if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				out = append(out, curr)
				flag = false
				continue
			}
			out = append(out, unicode.ToLower(curr))
			flag = true

			continue
		}

		out = append(out, curr)
		flag = false
	}

	return string(out)
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// ToPascalCase converts a name to PascalCase
func ToPascalCase(in string) string {
	if in == "" {
		return in
	}
	runes := []rune(in)
	return titleCaser.String(string(runes[0])) + string(runes[1:])
}

// ApplyNamingStrategy applies the specified naming strategy to a field name
func ApplyNamingStrategy(name string, strategy string) string {
	switch strategy {
	case SnakeCase:
		return ToSnakeCase(name)
	case PascalCase:
		return ToPascalCase(name)
	default:
		return ToLowerCamelCase(name)
	}
}

// ValidStrategy reports whether strategy names a known naming strategy.
func ValidStrategy(strategy string) bool {
	switch strategy {
	case "", CamelCase, SnakeCase, PascalCase:
		return true
	}
	return false
}
