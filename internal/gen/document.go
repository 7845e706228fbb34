package gen

import (
	"bytes"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-openapi/spec"
	"gopkg.in/yaml.v3"

	"github.com/griffnb/core-schemagen/internal/console"
	"github.com/griffnb/core-schemagen/internal/orchestrator"
)

// OpenAPIVersion is written to the openapi member of emitted documents.
const OpenAPIVersion = "3.0.3"

// Document is the smallest OpenAPI 3 document that carries component
// schemas. Paths stay empty.
type Document struct {
	OpenAPI    string     `json:"openapi" yaml:"openapi"`
	Info       Info       `json:"info" yaml:"info"`
	Paths      struct{}   `json:"paths" yaml:"paths"`
	Components Components `json:"components" yaml:"-"`
}

// Info is the document info section.
type Info struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

// Components holds the schemas in build order.
type Components struct {
	Schemas *orchestrator.Schemas `json:"schemas"`
}

func newDocument(config *Config, schemas *orchestrator.Schemas) *Document {
	return &Document{
		OpenAPI:    OpenAPIVersion,
		Info:       Info{Title: config.Title, Version: config.Version},
		Components: Components{Schemas: schemas},
	}
}

// marshalYAML encodes the document keeping schema order. The schemas map is
// built by hand so the order does not depend on how the ordered map encodes
// itself.
func marshalYAML(doc *Document) ([]byte, error) {
	root := &yaml.Node{}
	if err := root.Encode(doc); err != nil {
		return nil, err
	}

	schemas := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for pair := doc.Components.Schemas.Oldest(); pair != nil; pair = pair.Next() {
		value, err := pair.Value.MarshalYAML()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pair.Key, err)
		}
		node, ok := value.(*yaml.Node)
		if !ok {
			return nil, fmt.Errorf("%s: unexpected yaml value %T", pair.Key, value)
		}
		schemas.Content = append(schemas.Content, scalar(pair.Key), node)
	}

	components := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	components.Content = append(components.Content, scalar("schemas"), schemas)
	root.Content = append(root.Content, scalar("components"), components)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// newSwagger converts definitions into a Swagger 2.0 document.
func newSwagger(config *Config, definitions *orchestrator.Schemas) *spec.Swagger {
	defs := make(spec.Definitions, definitions.Len())
	for pair := definitions.Oldest(); pair != nil; pair = pair.Next() {
		defs[pair.Key] = *pair.Value.ToSpec()
	}

	return &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger: "2.0",
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:   config.Title,
					Version: config.Version,
				},
			},
			Paths:       &spec.Paths{Paths: map[string]spec.PathItem{}},
			Definitions: defs,
		},
	}
}

// validate loads the OpenAPI document the way a consumer would and checks it.
func (g *Gen) validate(config *Config, out *artifacts) error {
	data, err := g.json(newDocument(config, out.schemas))
	if err != nil {
		return err
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("failed to load generated document: %w", err)
	}
	// Field docs sit next to $ref on reference properties.
	if err := doc.Validate(loader.Context, openapi3.AllowExtraSiblingFields("description")); err != nil {
		return fmt.Errorf("generated document is invalid: %w", err)
	}

	console.Logger.Debug("validated %d component schemas", len(doc.Components.Schemas))
	return nil
}
