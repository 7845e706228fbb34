package gen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/griffnb/core-schemagen/internal/console"
	"github.com/griffnb/core-schemagen/internal/loader"
	"github.com/griffnb/core-schemagen/internal/orchestrator"
	"github.com/griffnb/core-schemagen/internal/schema"
)

// Version of core-schemagen.
const Version = "v0.1.0"

// Output file names.
const (
	JSONFile    = "openapi.json"
	YAMLFile    = "openapi.yaml"
	SwaggerFile = "swagger.json"
	DocsFile    = "docs.go"
)

// DefaultTitle and DefaultVersion fill the info section of emitted documents.
const (
	DefaultTitle   = "core-schemagen"
	DefaultVersion = "1.0.0"
)

type genTypeWriter func(*Config, *artifacts) error

// artifacts are the build results shared by all writers.
type artifacts struct {
	schemas *orchestrator.Schemas
	// definitions is only built when a swagger output was requested.
	definitions *orchestrator.Schemas
}

// Gen presents a generate tool for component schemas.
type Gen struct {
	json          func(data interface{}) ([]byte, error)
	jsonIndent    func(data interface{}) ([]byte, error)
	outputTypeMap map[string]genTypeWriter
	debug         Debugger
}

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// New creates a new Gen.
func New() *Gen {
	gen := Gen{
		json: func(data interface{}) ([]byte, error) {
			return encodeJSON(data, "")
		},
		jsonIndent: func(data interface{}) ([]byte, error) {
			return encodeJSON(data, "    ")
		},
		debug: log.New(os.Stdout, "", log.LstdFlags),
	}

	gen.outputTypeMap = map[string]genTypeWriter{
		"go":      gen.writeGoDoc,
		"json":    gen.writeJSON,
		"yaml":    gen.writeYAML,
		"yml":     gen.writeYAML,
		"swagger": gen.writeSwagger,
	}

	return &gen
}

// Config presents Gen configurations.
type Config struct {
	Debugger Debugger

	// SearchDir the directories to load, comma separated if multiple
	SearchDir string

	// ModelFile a type model file used instead of SearchDir
	ModelFile string

	// Types root type names, comma separated. Empty means every exported type.
	Types string

	// Excludes dirs and packages skipped while loading, comma separated
	Excludes string

	// PackagePrefix parse only packages whose import path match the given prefix, comma separated
	PackagePrefix string

	// Recursive whether search dirs include their subpackages
	Recursive bool

	// BuildTags build tags passed to the go tool, comma separated
	BuildTags string

	// OutputDir represents the output directory for all the generated files
	OutputDir string

	// OutputTypes define types of files which should be generated
	OutputTypes []string

	// PropNamingStrategy represents property naming strategy like snake case,camel case,pascal case
	PropNamingStrategy string

	// ParseDepth dependency parse depth
	ParseDepth int

	// ParseDependency whether to read docs from dependency packages: 0 none, 1 models
	ParseDependency int

	// ParseInternal whether internal dependency packages are read
	ParseInternal bool

	// MaxDepth bounds nesting that never crosses a named field
	MaxDepth int

	// Parallelism bounds the number of concurrent root group passes
	Parallelism int

	// Title and Version fill the info section of the document
	Title   string
	Version string

	// Validate whether the emitted OpenAPI document is validated
	Validate bool

	// PackageName defines package name of generated `docs.go`
	PackageName string

	// GeneratedTime whether to write the timestamp at the top of docs.go
	GeneratedTime bool
}

// Build generates the configured outputs for SearchDir or ModelFile.
func (g *Gen) Build(config *Config) error {
	if config.Debugger != nil {
		g.debug = config.Debugger
	}
	if config.Title == "" {
		config.Title = DefaultTitle
	}
	if config.Version == "" {
		config.Version = DefaultVersion
	}

	searchDirs := splitList(config.SearchDir)
	if config.ModelFile == "" {
		if len(searchDirs) == 0 {
			return fmt.Errorf("no search dir or model file given")
		}
		for _, searchDir := range searchDirs {
			if _, err := os.Stat(searchDir); os.IsNotExist(err) {
				return fmt.Errorf("dir: %s does not exist", searchDir)
			}
		}
	}

	console.Logger.Debug("Generate component schemas....")

	orc := orchestrator.New(&orchestrator.Config{
		SearchDirs:         searchDirs,
		ModelFile:          config.ModelFile,
		Types:              splitList(config.Types),
		Excludes:           parseExcludes(config.Excludes),
		PackagePrefix:      splitList(config.PackagePrefix),
		ParseInternal:      config.ParseInternal,
		ParseDependency:    loader.ParseFlag(config.ParseDependency),
		ParseDepth:         config.ParseDepth,
		Recursive:          config.Recursive,
		PropNamingStrategy: config.PropNamingStrategy,
		BuildTags:          splitList(config.BuildTags),
		MaxDepth:           config.MaxDepth,
		Parallelism:        config.Parallelism,
		Debug:              g.debug,
	})

	result, err := orc.Parse()
	if err != nil {
		return err
	}
	out := &artifacts{schemas: result.Schemas}

	if wantsSwagger(config.OutputTypes) {
		g.debug.Printf("Rebuilding %d groups for swagger definitions...", len(result.Groups))
		orc.SetRefPrefix(schema.DefinitionsRefPrefix)
		out.definitions, err = orc.Build(result.Groups)
		if err != nil {
			return err
		}
	}

	if config.Validate {
		if err := g.validate(config, out); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
		return err
	}

	for _, outputType := range config.OutputTypes {
		outputType = strings.ToLower(strings.TrimSpace(outputType))
		if typeWriter, ok := g.outputTypeMap[outputType]; ok {
			if err := typeWriter(config, out); err != nil {
				return err
			}
		} else {
			log.Printf("output type '%s' not supported", outputType)
		}
	}

	return nil
}

func (g *Gen) writeJSON(config *Config, out *artifacts) error {
	b, err := g.jsonIndent(newDocument(config, out.schemas))
	if err != nil {
		return err
	}

	fileName := path.Join(config.OutputDir, JSONFile)
	if err := g.writeFile(b, fileName); err != nil {
		return err
	}

	console.Logger.Debug("create %s at %+v", JSONFile, fileName)
	return nil
}

func (g *Gen) writeYAML(config *Config, out *artifacts) error {
	b, err := marshalYAML(newDocument(config, out.schemas))
	if err != nil {
		return fmt.Errorf("cannot write yaml: %w", err)
	}

	fileName := path.Join(config.OutputDir, YAMLFile)
	if err := g.writeFile(b, fileName); err != nil {
		return err
	}

	console.Logger.Debug("create %s at %+v", YAMLFile, fileName)
	return nil
}

func (g *Gen) writeSwagger(config *Config, out *artifacts) error {
	if out.definitions == nil {
		return fmt.Errorf("swagger definitions were not built")
	}

	b, err := g.jsonIndent(newSwagger(config, out.definitions))
	if err != nil {
		return err
	}

	fileName := path.Join(config.OutputDir, SwaggerFile)
	if err := g.writeFile(b, fileName); err != nil {
		return err
	}

	console.Logger.Debug("create %s at %+v", SwaggerFile, fileName)
	return nil
}

func (g *Gen) writeGoDoc(config *Config, out *artifacts) error {
	absOutputDir, err := filepath.Abs(config.OutputDir)
	if err != nil {
		return err
	}

	packageName := config.PackageName
	if packageName == "" {
		packageName = strings.ReplaceAll(filepath.Base(absOutputDir), "-", "_")
	}

	doc, err := g.jsonIndent(newDocument(config, out.schemas))
	if err != nil {
		return err
	}

	src, err := renderGoDoc(goDocData{
		PackageName:   packageName,
		GeneratedTime: config.GeneratedTime,
		Names:         schemaNames(out.schemas),
		Doc:           string(doc),
	})
	if err != nil {
		return err
	}

	fileName := path.Join(config.OutputDir, DocsFile)
	if err := g.writeFile(g.formatSource(src), fileName); err != nil {
		return err
	}

	console.Logger.Debug("create %s at %+v", DocsFile, fileName)
	return nil
}

func (g *Gen) writeFile(b []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	defer f.Close()

	_, err = f.Write(b)

	return err
}

func (g *Gen) formatSource(src []byte) []byte {
	code, err := format.Source(src)
	if err != nil {
		code = src // Formatter failed, return original code.
	}

	return code
}

// encodeJSON marshals without HTML escaping so descriptions keep their text.
func encodeJSON(data interface{}, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func wantsSwagger(outputTypes []string) bool {
	for _, outputType := range outputTypes {
		if strings.EqualFold(strings.TrimSpace(outputType), "swagger") {
			return true
		}
	}
	return false
}

func schemaNames(schemas *orchestrator.Schemas) []string {
	names := make([]string, 0, schemas.Len())
	for pair := schemas.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// parseExcludes converts comma-separated exclude string to map.
func parseExcludes(excludes string) map[string]struct{} {
	result := make(map[string]struct{})
	for _, exclude := range splitList(excludes) {
		result[exclude] = struct{}{}
	}
	return result
}

// splitList converts a comma-separated string to a slice, dropping blanks.
func splitList(list string) []string {
	result := []string{}
	if list == "" {
		return result
	}

	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
