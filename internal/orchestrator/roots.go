package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/griffnb/core-schemagen/internal/domain"
)

// ErrRootNotFound is returned when an explicit root type matches nothing.
var ErrRootNotFound = errors.New("root type not found")

// ErrAmbiguousRoot is returned when an explicit root type matches several
// registered types.
var ErrAmbiguousRoot = errors.New("ambiguous root type")

// resolveRoots turns the names given on the command line into registered
// identities. A name may be the full identity, a package-qualified name
// ("models.User") or a simple name when that is unique.
func (s *Service) resolveRoots(names []string) (domain.RootGroup, error) {
	group := domain.RootGroup{Name: "types"}
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		matches := s.registry.FindByName(name)
		switch len(matches) {
		case 0:
			return group, fmt.Errorf("%w: %s", ErrRootNotFound, name)
		case 1:
		default:
			identities := make([]string, 0, len(matches))
			for _, m := range matches {
				identities = append(identities, m.Identity)
			}
			return group, fmt.Errorf("%w: %s matches %s", ErrAmbiguousRoot, name, strings.Join(identities, ", "))
		}

		decl := matches[0]
		if len(decl.TypeParams) > 0 {
			return group, fmt.Errorf("%w: %s is generic and needs type arguments", domain.ErrMalformedType, decl.Identity)
		}
		if _, dup := seen[decl.Identity]; dup {
			continue
		}
		seen[decl.Identity] = struct{}{}
		group.Roots = append(group.Roots, decl.Identity)
	}

	return group, nil
}
