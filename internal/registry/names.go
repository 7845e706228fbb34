package registry

import (
	"strings"

	"github.com/griffnb/core-schemagen/internal/domain"
)

// SchemaName returns the component name of a registered type: its simple
// name when unique, pkg_Name when another package declares the same simple
// name, and the sanitized full package path when even that collides.
func (s *Service) SchemaName(identity string) string {
	s.mu.RLock()
	name, ok := s.names[identity]
	s.mu.RUnlock()
	if ok {
		return name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if name, ok := s.names[identity]; ok {
		return name
	}
	name = s.uniqueName(identity)
	s.names[identity] = name
	return name
}

func (s *Service) uniqueName(identity string) string {
	simple := domain.SimpleName(identity)
	pkgPath := domain.PackagePath(identity)
	pkgName := lastSegment(pkgPath)

	simpleClash, pkgClash := false, false
	for _, other := range s.order {
		if other == identity || domain.SimpleName(other) != simple {
			continue
		}
		simpleClash = true
		if lastSegment(domain.PackagePath(other)) == pkgName {
			pkgClash = true
		}
	}

	switch {
	case !simpleClash || pkgPath == "":
		return simple
	case !pkgClash:
		return pkgName + "_" + simple
	default:
		return makeFullPathDefName(pkgPath) + "_" + simple
	}
}

func lastSegment(pkgPath string) string {
	if i := strings.LastIndex(pkgPath, "/"); i >= 0 {
		return pkgPath[i+1:]
	}
	return pkgPath
}

// makeFullPathDefName converts a package path into a component-safe name.
// "github.com/chargebee/chargebee-go/v3/enum" →
// "github_com_chargebee_chargebee-go_v3_enum"
func makeFullPathDefName(pkgPath string) string {
	return strings.Map(func(r rune) rune {
		if r == '\\' || r == '/' || r == '.' {
			return '_'
		}
		return r
	}, pkgPath)
}
