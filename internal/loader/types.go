package loader

import (
	"go/token"

	"golang.org/x/tools/go/packages"

	"github.com/griffnb/core-schemagen/internal/constraints"
	"github.com/griffnb/core-schemagen/internal/docs"
	"github.com/griffnb/core-schemagen/internal/registry"
)

// ParseFlag determines what dependency packages contribute
type ParseFlag int

const (
	// ParseNone reads documentation from the root packages only
	ParseNone ParseFlag = 0x00
	// ParseModels also reads documentation from dependency packages
	ParseModels ParseFlag = 0x01
)

// Service handles loading Go packages and turning their types into
// registered declarations
type Service struct {
	parseInternal   bool
	recursive       bool
	excludes        map[string]struct{}
	packagePrefix   []string
	parseDependency ParseFlag
	parseDepth      int
	namingStrategy  string
	buildTags       []string
	dir             string
	debug           Debugger
}

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

// LoadResult contains the results of loading packages
type LoadResult struct {
	// Packages are the root packages whose exported types become roots.
	Packages []*packages.Package
	// DocPackages hold syntax that documentation is read from, roots included.
	DocPackages []*packages.Package
	FileSet     *token.FileSet
}

// Target receives everything the loader discovers
type Target struct {
	Registry    *registry.Service
	Docs        *docs.Index
	Constraints *constraints.Index
}

// Option is a functional option for configuring Service
type Option func(*Service)

// noOpDebugger is a no-op debugger
type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}
