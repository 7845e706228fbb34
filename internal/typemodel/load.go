package typemodel

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Supported model file formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// FormatFromPath picks the decoder for a file from its extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.Errorf("unsupported model file extension %q", filepath.Ext(path))
}

// Load reads, decodes and validates a model file.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read model file %s", path)
	}

	file, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "decode model file %s", path)
	}
	return file, nil
}

// Decode parses model file contents in the given format and validates them.
func Decode(data []byte, format string) (*File, error) {
	file := &File{}

	switch format {
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, file); err != nil {
			return nil, errors.Wrap(err, "yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(file); err != nil {
			return nil, errors.Wrap(err, "json")
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), file)
		if err != nil {
			return nil, errors.Wrap(err, "toml")
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Errorf("toml: unknown key %s", undecoded[0])
		}
	default:
		return nil, errors.Errorf("unsupported model format %q", format)
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}
	return file, nil
}
