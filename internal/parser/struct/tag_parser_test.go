package structparser

import (
	"reflect"
	"testing"
)

// TestParseJSONTag tests parsing JSON struct tags
func TestParseJSONTag(t *testing.T) {
	tests := []struct {
		name          string
		tag           string
		wantName      string
		wantOmitEmpty bool
		wantIgnore    bool
	}{
		{
			name:     "Simple JSON tag",
			tag:      `json:"first_name"`,
			wantName: "first_name",
		},
		{
			name:          "JSON tag with omitempty",
			tag:           `json:"count,omitempty"`,
			wantName:      "count",
			wantOmitEmpty: true,
		},
		{
			name:       "JSON tag with ignore",
			tag:        `json:"-"`,
			wantIgnore: true,
		},
		{
			name:     "Dash with comma names the field",
			tag:      `json:"-,"`,
			wantName: "-",
		},
		{
			name:          "JSON tag with omitempty and spaces",
			tag:           `json:"field_name , omitempty"`,
			wantName:      "field_name",
			wantOmitEmpty: true,
		},
		{
			name:          "Options without a name",
			tag:           `json:",omitempty"`,
			wantName:      "",
			wantOmitEmpty: true,
		},
		{
			name:     "Column fallback",
			tag:      `column:"external_id"`,
			wantName: "external_id",
		},
		{
			name: "No JSON tag",
			tag:  `xml:"name"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotOmitEmpty, gotIgnore := parseJSONTag(reflect.StructTag(tt.tag))
			if gotName != tt.wantName {
				t.Errorf("parseJSONTag() name = %q, want %q", gotName, tt.wantName)
			}
			if gotOmitEmpty != tt.wantOmitEmpty {
				t.Errorf("parseJSONTag() omitEmpty = %v, want %v", gotOmitEmpty, tt.wantOmitEmpty)
			}
			if gotIgnore != tt.wantIgnore {
				t.Errorf("parseJSONTag() ignore = %v, want %v", gotIgnore, tt.wantIgnore)
			}
		})
	}
}

// TestParseValidationTags tests parsing binding and validate tags
func TestParseValidationTags(t *testing.T) {
	tests := []struct {
		name         string
		tag          string
		wantRequired bool
		wantOptional bool
		wantMin      string
		wantMax      string
	}{
		{name: "Binding required", tag: `binding:"required"`, wantRequired: true},
		{name: "Validate with bounds", tag: `validate:"required,min=1,max=100"`, wantRequired: true, wantMin: "1", wantMax: "100"},
		{name: "gte and lte", tag: `validate:"gte=2,lte=8"`, wantMin: "2", wantMax: "8"},
		{name: "Exact length", tag: `validate:"len=6"`, wantMin: "6", wantMax: "6"},
		{name: "Omitempty is optional", tag: `validate:"omitempty,max=5"`, wantOptional: true, wantMax: "5"},
		{name: "Both tags combine", tag: `binding:"required" validate:"min=3"`, wantRequired: true, wantMin: "3"},
		{name: "No validation", tag: `json:"name"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			required, optional, min, max := parseValidationTags(reflect.StructTag(tt.tag))
			if required != tt.wantRequired {
				t.Errorf("required = %v, want %v", required, tt.wantRequired)
			}
			if optional != tt.wantOptional {
				t.Errorf("optional = %v, want %v", optional, tt.wantOptional)
			}
			if min != tt.wantMin {
				t.Errorf("min = %q, want %q", min, tt.wantMin)
			}
			if max != tt.wantMax {
				t.Errorf("max = %q, want %q", max, tt.wantMax)
			}
		})
	}
}

// TestParseTags tests the combined entry point
func TestParseTags(t *testing.T) {
	t.Run("combines all tags", func(t *testing.T) {
		// Act
		info := ParseTags(`json:"username,omitempty" validate:"required,min=3,max=20"`)

		// Assert
		want := TagInfo{JSONName: "username", OmitEmpty: true, Required: true, Min: "3", Max: "20"}
		if info != want {
			t.Errorf("ParseTags() = %+v, want %+v", info, want)
		}
	})

	t.Run("schemaignore hides the field", func(t *testing.T) {
		if !ParseTags(`json:"secret" schemaignore:"true"`).Ignore {
			t.Error("expected schemaignore to set Ignore")
		}
		if !ParseTags(`swaggerignore:"TRUE"`).Ignore {
			t.Error("expected swaggerignore to set Ignore")
		}
		if ParseTags(`swaggerignore:"false"`).Ignore {
			t.Error("expected swaggerignore false to keep the field")
		}
	})
}

// TestTagInfoConstraints tests conversion into field constraints
func TestTagInfoConstraints(t *testing.T) {
	t.Run("string fields get length bounds", func(t *testing.T) {
		c := ParseTags(`validate:"required,min=3,max=20"`).Constraints(true)

		if !c.Required {
			t.Error("expected required")
		}
		if c.MinLength == nil || *c.MinLength != 3 {
			t.Errorf("MinLength = %v, want 3", c.MinLength)
		}
		if c.MaxLength == nil || *c.MaxLength != 20 {
			t.Errorf("MaxLength = %v, want 20", c.MaxLength)
		}
	})

	t.Run("numeric fields keep only required", func(t *testing.T) {
		c := ParseTags(`validate:"required,min=3"`).Constraints(false)

		if !c.Required || c.MinLength != nil || c.MaxLength != nil {
			t.Errorf("unexpected constraints %+v", c)
		}
	})

	t.Run("non numeric bounds are ignored", func(t *testing.T) {
		c := ParseTags(`validate:"min=abc"`).Constraints(true)

		if !c.IsZero() {
			t.Errorf("expected no constraints, got %+v", c)
		}
	})

	t.Run("optional wins over required", func(t *testing.T) {
		c := ParseTags(`binding:"required" validate:"optional"`).Constraints(true)

		if c.Required {
			t.Error("expected optional to clear required")
		}
	})
}
