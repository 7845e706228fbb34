package loader

import (
	"github.com/KyleBanks/depth"
	"golang.org/x/tools/go/packages"
)

// dependencyPaths resolves the import tree of every root up to the configured
// depth. A nil result means the tree could not be resolved and no depth limit
// applies.
func (s *Service) dependencyPaths(roots []*packages.Package) (map[string]struct{}, error) {
	allowed := make(map[string]struct{})

	for _, root := range roots {
		var t depth.Tree
		t.ResolveInternal = s.parseInternal
		t.MaxDepth = s.parseDepth

		if err := t.Resolve(root.PkgPath); err != nil {
			s.debug.Printf("Loader: pkg %s cannot find all dependencies, %s", root.PkgPath, err)
			return nil, nil
		}

		for i := 0; i < len(t.Root.Deps); i++ {
			s.collectDepth(&t.Root.Deps[i], allowed)
		}
	}

	return allowed, nil
}

// collectDepth records a resolved dependency and its own dependencies
func (s *Service) collectDepth(pkg *depth.Pkg, allowed map[string]struct{}) {
	ignoreInternal := pkg.Internal && !s.parseInternal
	if ignoreInternal || !pkg.Resolved {
		return
	}
	if pkg.Raw == nil && pkg.Name == "C" {
		return
	}
	if _, ok := allowed[pkg.Name]; ok {
		return
	}
	allowed[pkg.Name] = struct{}{}

	for i := 0; i < len(pkg.Deps); i++ {
		s.collectDepth(&pkg.Deps[i], allowed)
	}
}
