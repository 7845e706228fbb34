package schema

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

type entry struct {
	key   string
	value any
}

// entries lists the serialized members in their fixed output order.
// Empty type, format, enum, properties, $ref and required are omitted;
// description, additionalProperties and items only when nil.
func (s *Schema) entries(minLength, maxLength *int) []entry {
	var out []entry
	if s.Description != nil {
		out = append(out, entry{"description", *s.Description})
	}
	if len(s.Required) > 0 {
		out = append(out, entry{"required", s.Required})
	}
	if s.Type != "" {
		out = append(out, entry{"type", s.Type})
	}
	if s.Format != "" {
		out = append(out, entry{"format", s.Format})
	}
	if minLength != nil {
		out = append(out, entry{"minLength", *minLength})
	}
	if maxLength != nil {
		out = append(out, entry{"maxLength", *maxLength})
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		out = append(out, entry{"properties", s.Properties})
	}
	if len(s.EnumValues) > 0 {
		out = append(out, entry{"enum", s.EnumValues})
	}
	if s.AdditionalProperties != nil {
		out = append(out, entry{"additionalProperties", s.AdditionalProperties})
	}
	if s.Reference != "" {
		out = append(out, entry{"$ref", s.Reference})
	}
	if s.Items != nil {
		out = append(out, entry{"items", s.Items})
	}
	return out
}

// MarshalJSON implements json.Marshaler with a stable member order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return marshalEntries(s.entries(nil, nil))
}

// MarshalJSON implements json.Marshaler. Name and Required are not emitted.
func (p *Property) MarshalJSON() ([]byte, error) {
	return marshalEntries(p.Schema.entries(p.MinLength, p.MaxLength))
}

func marshalEntries(entries []entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeJSON(e.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var value []byte
		if props, ok := e.value.(*Properties); ok {
			value, err = marshalProperties(props)
		} else {
			value, err = encodeJSON(e.value)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalProperties(props *Properties) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := encodeJSON(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := pair.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeJSON marshals v without HTML escaping so descriptions keep their text.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalYAML implements yaml.Marshaler with the same member order as JSON.
func (s *Schema) MarshalYAML() (interface{}, error) {
	return entriesNode(s.entries(nil, nil))
}

// MarshalYAML implements yaml.Marshaler.
func (p *Property) MarshalYAML() (interface{}, error) {
	return entriesNode(p.Schema.entries(p.MinLength, p.MaxLength))
}

func entriesNode(entries []entry) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range entries {
		value, err := valueNode(e.value)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode(e.key), value)
	}
	return node, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case *Schema:
		return entriesNode(v.entries(nil, nil))
	case *Properties:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			value, err := entriesNode(pair.Value.Schema.entries(pair.Value.MinLength, pair.Value.MaxLength))
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, keyNode(pair.Key), value)
		}
		return node, nil
	}

	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
