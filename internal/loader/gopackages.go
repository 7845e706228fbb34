package loader

import (
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedImports |
	packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax | packages.NeedTypesInfo

// LoadWithGoPackages loads the packages found in searchDirs using go/packages
func (s *Service) LoadWithGoPackages(searchDirs []string) (*LoadResult, error) {
	if len(searchDirs) == 0 {
		return nil, errors.New("no search directories given")
	}

	mode := loadMode
	if s.parseDependency > 0 {
		mode |= packages.NeedDeps
	}

	patterns := make([]string, 0, len(searchDirs))
	for _, dir := range searchDirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve search dir %s", dir)
		}
		if s.recursive {
			absDir += "/..."
		}
		patterns = append(patterns, absDir)
	}

	cfg := &packages.Config{
		Mode: mode,
		Dir:  s.dir,
		Fset: token.NewFileSet(),
	}
	if len(s.buildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(s.buildTags, ",")}
	}

	s.debug.Printf("Loader: loading %s", strings.Join(patterns, " "))
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "load packages")
	}

	var loadErr error
	roots := make([]*packages.Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			loadErr = multierr.Append(loadErr, e)
		}
		if s.skipPackage(pkg) {
			s.debug.Printf("Loader: skipping excluded package %s", pkg.PkgPath)
			continue
		}
		roots = append(roots, pkg)
	}
	if loadErr != nil {
		return nil, errors.Wrap(loadErr, "package errors")
	}

	result := &LoadResult{
		Packages:    roots,
		DocPackages: roots,
		FileSet:     cfg.Fset,
	}

	if s.parseDependency > 0 {
		deps, err := s.dependencyPackages(roots)
		if err != nil {
			return nil, err
		}
		result.DocPackages = append(append([]*packages.Package(nil), roots...), deps...)
	}

	s.debug.Printf("Loader: %d root packages, %d documentation packages", len(result.Packages), len(result.DocPackages))
	return result, nil
}

// dependencyPackages walks the import graph of the roots and returns the
// packages documentation should also be read from
func (s *Service) dependencyPackages(roots []*packages.Package) ([]*packages.Package, error) {
	allowed, err := s.dependencyPaths(roots)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		seen[root.PkgPath] = struct{}{}
	}

	var deps []*packages.Package
	var walk func(pkg *packages.Package)
	walk = func(pkg *packages.Package) {
		paths := make([]string, 0, len(pkg.Imports))
		for path := range pkg.Imports {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			dep := pkg.Imports[path]
			if _, ok := seen[dep.PkgPath]; ok {
				continue
			}
			seen[dep.PkgPath] = struct{}{}
			if s.skipPackageByPrefix(dep.PkgPath) {
				continue
			}
			if allowed != nil {
				if _, ok := allowed[dep.PkgPath]; !ok {
					continue
				}
			}
			if len(dep.Syntax) == 0 {
				continue
			}
			deps = append(deps, dep)
			walk(dep)
		}
	}
	for _, root := range roots {
		walk(root)
	}

	return deps, nil
}

// skipPackage reports whether a root package lives under an excluded directory
func (s *Service) skipPackage(pkg *packages.Package) bool {
	if len(s.excludes) == 0 || len(pkg.GoFiles) == 0 {
		return false
	}
	dir := filepath.Dir(pkg.GoFiles[0])
	for exclude := range s.excludes {
		absExclude, err := filepath.Abs(exclude)
		if err != nil {
			continue
		}
		if dir == absExclude || strings.HasPrefix(dir, absExclude+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// skipPackageByPrefix reports whether a dependency falls outside every
// configured package prefix
func (s *Service) skipPackageByPrefix(pkgPath string) bool {
	if len(s.packagePrefix) == 0 {
		return false
	}
	for _, prefix := range s.packagePrefix {
		if strings.HasPrefix(pkgPath, prefix) {
			return false
		}
	}
	return true
}
