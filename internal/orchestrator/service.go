// Package orchestrator coordinates loading, registration and schema building.
// It turns search directories or a type model file into an ordered set of
// named component schemas.
package orchestrator

import (
	"fmt"
	"runtime"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/griffnb/core-schemagen/internal/constraints"
	"github.com/griffnb/core-schemagen/internal/docs"
	"github.com/griffnb/core-schemagen/internal/domain"
	"github.com/griffnb/core-schemagen/internal/loader"
	"github.com/griffnb/core-schemagen/internal/parser/field"
	"github.com/griffnb/core-schemagen/internal/registry"
	"github.com/griffnb/core-schemagen/internal/schema"
	"github.com/griffnb/core-schemagen/internal/typemodel"
)

// Schemas maps component names to schemas in build order.
type Schemas = orderedmap.OrderedMap[string, *schema.Schema]

// Service coordinates all services to generate component schemas.
type Service struct {
	loader      *loader.Service
	registry    *registry.Service
	docs        *docs.Index
	constraints *constraints.Index
	builder     *schema.Builder
	config      *Config
}

// Config holds orchestrator configuration options.
type Config struct {
	SearchDirs         []string
	ModelFile          string
	Types              []string
	Excludes           map[string]struct{}
	PackagePrefix      []string
	ParseInternal      bool
	ParseDependency    loader.ParseFlag
	ParseDepth         int
	Recursive          bool
	PropNamingStrategy string
	BuildTags          []string
	RefPrefix          string
	MaxDepth           int
	Parallelism        int
	Debug              Debugger
}

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Result is the outcome of a generation run.
type Result struct {
	Schemas *Schemas
	Groups  []domain.RootGroup
}

// New creates a new orchestrator service with the given configuration.
func New(config *Config) *Service {
	if config == nil {
		config = &Config{}
	}

	// Apply defaults for zero values
	if config.PropNamingStrategy == "" {
		config.PropNamingStrategy = field.CamelCase
	}
	if config.Excludes == nil {
		config.Excludes = make(map[string]struct{})
	}
	if config.PackagePrefix == nil {
		config.PackagePrefix = []string{}
	}
	if config.ParseDepth <= 0 {
		config.ParseDepth = loader.DefaultParseDepth
	}
	if config.RefPrefix == "" {
		config.RefPrefix = schema.DefaultRefPrefix
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = schema.DefaultMaxDepth
	}
	if config.Parallelism <= 0 {
		config.Parallelism = runtime.NumCPU()
	}

	loaderService := loader.NewService(
		loader.WithParseInternal(config.ParseInternal),
		loader.WithParseDependency(config.ParseDependency),
		loader.WithParseDepth(config.ParseDepth),
		loader.WithRecursive(config.Recursive),
		loader.WithExcludes(config.Excludes),
		loader.WithPackagePrefix(config.PackagePrefix),
		loader.WithNamingStrategy(config.PropNamingStrategy),
		loader.WithBuildTags(config.BuildTags),
		loader.WithDebugger(config.Debug),
	)

	registryService := registry.NewService()
	if config.Debug != nil {
		registryService.SetDebugger(config.Debug)
	}

	docIndex := docs.NewIndex()
	rules := constraints.NewIndex()

	builder := schema.NewBuilder(registryService)
	builder.SetDocs(docIndex)
	builder.SetConstraints(rules)
	builder.SetRefPrefix(config.RefPrefix)
	builder.SetMaxDepth(config.MaxDepth)

	return &Service{
		loader:      loaderService,
		registry:    registryService,
		docs:        docIndex,
		constraints: rules,
		builder:     builder,
		config:      config,
	}
}

// Parse loads the configured source, selects the roots and builds every
// schema they reach.
func (s *Service) Parse() (*Result, error) {
	s.debugf("Orchestrator: Step 1 - Loading types")
	groups, err := s.load()
	if err != nil {
		return nil, err
	}
	s.debugf("Orchestrator: Registry has %d declarations", s.registry.Len())

	if len(s.config.Types) > 0 {
		s.debugf("Orchestrator: Selecting %d explicit root types", len(s.config.Types))
		group, err := s.resolveRoots(s.config.Types)
		if err != nil {
			return nil, err
		}
		groups = []domain.RootGroup{group}
	}

	s.debugf("Orchestrator: Step 2 - Building schemas (%d groups, limit=%d)", len(groups), s.config.Parallelism)
	schemas, err := s.Build(groups)
	if err != nil {
		return nil, err
	}

	s.debugf("Orchestrator: Built %d schema definitions", schemas.Len())
	return &Result{Schemas: schemas, Groups: groups}, nil
}

// load fills the registry from the model file or the search directories.
func (s *Service) load() ([]domain.RootGroup, error) {
	if s.config.ModelFile != "" {
		file, err := typemodel.Load(s.config.ModelFile)
		if err != nil {
			return nil, err
		}
		group, err := file.Apply(s.registry, s.docs, s.constraints)
		if err != nil {
			return nil, fmt.Errorf("failed to register model types: %w", err)
		}
		return []domain.RootGroup{group}, nil
	}

	result, err := s.loader.LoadWithGoPackages(s.config.SearchDirs)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages with go/packages: %w", err)
	}

	groups, err := s.loader.Collect(result, loader.Target{
		Registry:    s.registry,
		Docs:        s.docs,
		Constraints: s.constraints,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect types: %w", err)
	}
	return groups, nil
}

// Build runs one pass per root group and merges the results.
func (s *Service) Build(groups []domain.RootGroup) (*Schemas, error) {
	results, err := s.buildGroupsParallel(groups)
	if err != nil {
		return nil, err
	}

	schemas := orderedmap.New[string, *schema.Schema]()
	for _, result := range results {
		for _, entry := range result.entries {
			if _, exists := schemas.Get(entry.name); !exists {
				schemas.Set(entry.name, entry.schema)
			}
		}
	}

	if err := checkReferences(schemas, s.config.RefPrefix); err != nil {
		return nil, err
	}
	return schemas, nil
}

// SetRefPrefix changes where later builds point their references. Call it
// between builds only.
func (s *Service) SetRefPrefix(prefix string) {
	s.config.RefPrefix = prefix
	s.builder.SetRefPrefix(prefix)
}

// Registry returns the registry service for external access.
func (s *Service) Registry() *registry.Service {
	return s.registry
}

// Docs returns the documentation index filled while loading.
func (s *Service) Docs() *docs.Index {
	return s.docs
}

// Constraints returns the constraint index filled while loading.
func (s *Service) Constraints() *constraints.Index {
	return s.constraints
}

// Builder returns the schema builder for external access.
func (s *Service) Builder() *schema.Builder {
	return s.builder
}

func (s *Service) debugf(format string, v ...interface{}) {
	if s.config.Debug != nil {
		s.config.Debug.Printf(format, v...)
	}
}
