package domain

import "strings"

const (
	// ARRAY represent a array value.
	ARRAY = "array"
	// OBJECT represent a object value.
	OBJECT = "object"
	// BOOLEAN represent a boolean value.
	BOOLEAN = "boolean"
	// INTEGER represent a integer value.
	INTEGER = "integer"
	// NUMBER represent a number value.
	NUMBER = "number"
	// STRING represent a string value.
	STRING = "string"
	// ANY represent a any value.
	ANY = "any"
	// INTERFACE represent a interface value.
	INTERFACE = "interface{}"
	// ERROR represent a error value.
	ERROR = "error"
	// BYTES represent a byte slice, serialized as base64 text.
	BYTES = "[]byte"
)

// FormatUnknown marks a primitive whose format could not be classified.
// The builder treats it exactly like an absent format.
const FormatUnknown = "unknown"

// Primitive is the OpenAPI classification of a leaf type.
type Primitive struct {
	Type   string
	Format string
}

// HasFormat reports whether the format should be emitted.
func (p Primitive) HasFormat() bool {
	return p.Format != "" && p.Format != FormatUnknown
}

var primitives = map[string]Primitive{
	"int":     {Type: INTEGER},
	"uint":    {Type: INTEGER},
	"int8":    {Type: INTEGER, Format: "int32"},
	"uint8":   {Type: INTEGER, Format: "int32"},
	"int16":   {Type: INTEGER, Format: "int32"},
	"uint16":  {Type: INTEGER, Format: "int32"},
	"int32":   {Type: INTEGER, Format: "int32"},
	"uint32":  {Type: INTEGER, Format: "int32"},
	"byte":    {Type: INTEGER, Format: "int32"},
	"rune":    {Type: INTEGER, Format: "int32"},
	"int64":   {Type: INTEGER, Format: "int64"},
	"uint64":  {Type: INTEGER, Format: "int64"},
	"uintptr": {Type: INTEGER, Format: FormatUnknown},
	"float32": {Type: NUMBER, Format: "float"},
	"float64": {Type: NUMBER, Format: "double"},
	"bool":    {Type: BOOLEAN},
	"string":  {Type: STRING},
	BYTES:     {Type: STRING, Format: "byte"},

	ANY:       {Type: OBJECT},
	INTERFACE: {Type: OBJECT},
	ERROR:     {Type: STRING},

	// Extended primitives
	"time.Time":                             {Type: STRING, Format: "date-time"},
	"time.Duration":                         {Type: INTEGER, Format: "int64"},
	"uuid.UUID":                             {Type: STRING, Format: "uuid"},
	"github.com/google/uuid.UUID":           {Type: STRING, Format: "uuid"},
	"decimal.Decimal":                       {Type: NUMBER},
	"github.com/shopspring/decimal.Decimal": {Type: NUMBER},
	"encoding/json.Number":                  {Type: NUMBER, Format: FormatUnknown},
	"encoding/json.RawMessage":              {Type: OBJECT},
	"net/url.URL":                           {Type: STRING, Format: "uri"},
}

// ClassifyPrimitive returns the OpenAPI classification of a leaf type
// identity. The second result is false for anything that is not a leaf.
func ClassifyPrimitive(identity string) (Primitive, bool) {
	p, ok := primitives[strings.TrimPrefix(identity, "*")]
	return p, ok
}

// IsPrimitive checks if a type identity is classified as a leaf.
func IsPrimitive(identity string) bool {
	_, ok := ClassifyPrimitive(identity)
	return ok
}
