package loader

import "github.com/griffnb/core-schemagen/internal/parser/field"

// DefaultParseDepth is the dependency depth read for documentation
const DefaultParseDepth = 100

// NewService creates a new loader service with optional configuration
func NewService(options ...Option) *Service {
	s := &Service{
		parseInternal:   false,
		recursive:       true,
		excludes:        make(map[string]struct{}),
		packagePrefix:   []string{},
		parseDependency: ParseNone,
		parseDepth:      DefaultParseDepth,
		namingStrategy:  field.CamelCase,
		debug:           &noOpDebugger{},
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// WithParseInternal sets whether to read documentation from standard library packages
func WithParseInternal(parse bool) Option {
	return func(s *Service) {
		s.parseInternal = parse
	}
}

// WithRecursive sets whether search directories include their subdirectories
func WithRecursive(recursive bool) Option {
	return func(s *Service) {
		s.recursive = recursive
	}
}

// WithExcludes sets directory exclusion patterns
func WithExcludes(excludes map[string]struct{}) Option {
	return func(s *Service) {
		s.excludes = excludes
	}
}

// WithPackagePrefix sets package path prefixes to filter
func WithPackagePrefix(prefixes []string) Option {
	return func(s *Service) {
		s.packagePrefix = prefixes
	}
}

// WithParseDependency sets the dependency parsing flag
func WithParseDependency(flag ParseFlag) Option {
	return func(s *Service) {
		s.parseDependency = flag
	}
}

// WithParseDepth sets how deep dependency packages are read
func WithParseDepth(depth int) Option {
	return func(s *Service) {
		if depth > 0 {
			s.parseDepth = depth
		}
	}
}

// WithNamingStrategy sets the property naming strategy for untagged fields
func WithNamingStrategy(strategy string) Option {
	return func(s *Service) {
		if strategy != "" {
			s.namingStrategy = strategy
		}
	}
}

// WithBuildTags sets the build tags used when loading packages
func WithBuildTags(tags []string) Option {
	return func(s *Service) {
		s.buildTags = tags
	}
}

// WithDir sets the working directory packages are resolved from
func WithDir(dir string) Option {
	return func(s *Service) {
		s.dir = dir
	}
}

// WithDebugger sets the debugger for logging
func WithDebugger(debugger Debugger) Option {
	return func(s *Service) {
		if debugger != nil {
			s.debug = debugger
		}
	}
}
