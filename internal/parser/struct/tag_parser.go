// Package structparser reads the struct tags that shape a field's schema:
// its serialized name and its validation rules.
package structparser

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/griffnb/core-schemagen/internal/constraints"
)

// TagInfo contains all parsed information from struct field tags
type TagInfo struct {
	JSONName  string // Field name from json tag
	OmitEmpty bool   // Whether json tag has omitempty
	Ignore    bool   // Whether field should be ignored (json:"-" or schemaignore)
	Required  bool   // Whether field is required (from binding/validate tags)
	Optional  bool   // Whether field is explicitly optional
	Min       string // Minimum length constraint
	Max       string // Maximum length constraint
}

// ParseTags parses a raw struct tag string.
func ParseTags(tag string) TagInfo {
	return parseCombinedTags(reflect.StructTag(tag))
}

// Constraints converts the validation rules into field constraints. Length
// bounds only apply to string-like fields; numeric min/max are not lengths.
func (t TagInfo) Constraints(stringLike bool) constraints.Constraints {
	c := constraints.Constraints{Required: t.Required && !t.Optional}
	if !stringLike {
		return c
	}
	if v, err := strconv.Atoi(t.Min); err == nil {
		c.MinLength = constraints.Int(v)
	}
	if v, err := strconv.Atoi(t.Max); err == nil {
		c.MaxLength = constraints.Int(v)
	}
	return c
}

// parseJSONTag parses the json struct tag and returns field name, omitempty flag, and ignore flag.
// If no json tag is present, falls back to column tag for custom model systems.
//
// Examples:
//   - `json:"first_name"` → ("first_name", false, false)
//   - `json:"count,omitempty"` → ("count", true, false)
//   - `json:"-"` → ("", false, true)
//   - `column:"external_id"` (no json tag) → ("external_id", false, false)
func parseJSONTag(tag reflect.StructTag) (name string, omitEmpty bool, ignore bool) {
	jsonTag := tag.Get("json")
	if jsonTag == "" {
		columnTag := tag.Get("column")
		if columnTag != "" {
			return strings.TrimSpace(columnTag), false, false
		}
		return "", false, false
	}

	parts := strings.Split(jsonTag, ",")
	name = strings.TrimSpace(parts[0])
	if name == "-" && len(parts) == 1 {
		return "", false, true
	}

	for i := 1; i < len(parts); i++ {
		if strings.TrimSpace(parts[i]) == "omitempty" {
			omitEmpty = true
			break
		}
	}

	return name, omitEmpty, ignore
}

// parseValidationTags parses binding and validate struct tags and returns validation constraints.
//
// Examples:
//   - `binding:"required"` → (true, false, "", "")
//   - `validate:"required,min=1,max=100"` → (true, false, "1", "100")
//   - `validate:"omitempty"` → (false, true, "", "")
func parseValidationTags(tag reflect.StructTag) (required bool, optional bool, min string, max string) {
	allValidation := tag.Get("binding")
	if validateTag := tag.Get("validate"); validateTag != "" {
		if allValidation != "" {
			allValidation += "," + validateTag
		} else {
			allValidation = validateTag
		}
	}

	if allValidation == "" {
		return false, false, "", ""
	}

	for _, rule := range strings.Split(allValidation, ",") {
		rule = strings.TrimSpace(rule)

		switch {
		case rule == "required":
			required = true
		case rule == "optional" || rule == "omitempty":
			optional = true
		case strings.HasPrefix(rule, "min=") || strings.HasPrefix(rule, "gte="):
			min = strings.TrimSpace(strings.SplitN(rule, "=", 2)[1])
		case strings.HasPrefix(rule, "max=") || strings.HasPrefix(rule, "lte="):
			max = strings.TrimSpace(strings.SplitN(rule, "=", 2)[1])
		case strings.HasPrefix(rule, "len="):
			min = strings.TrimSpace(strings.SplitN(rule, "=", 2)[1])
			max = min
		}
	}

	return required, optional, min, max
}

// parseCombinedTags parses all struct tags together and returns a TagInfo with all parsed data.
//
// Example:
//   - `json:"username" validate:"required,min=3,max=20"` →
//     TagInfo{JSONName: "username", Required: true, Min: "3", Max: "20"}
func parseCombinedTags(tag reflect.StructTag) TagInfo {
	jsonName, omitEmpty, ignore := parseJSONTag(tag)
	required, optional, min, max := parseValidationTags(tag)

	return TagInfo{
		JSONName:  jsonName,
		OmitEmpty: omitEmpty,
		Ignore:    ignore || isSchemaIgnore(tag),
		Required:  required,
		Optional:  optional,
		Min:       min,
		Max:       max,
	}
}

// isSchemaIgnore checks if the field has schemaignore:"true" or swaggerignore:"true".
func isSchemaIgnore(tag reflect.StructTag) bool {
	for _, key := range []string{"schemaignore", "swaggerignore"} {
		if strings.EqualFold(strings.TrimSpace(tag.Get(key)), "true") {
			return true
		}
	}
	return false
}
