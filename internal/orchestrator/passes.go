package orchestrator

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/griffnb/core-schemagen/internal/domain"
	"github.com/griffnb/core-schemagen/internal/schema"
)

type namedSchema struct {
	name   string
	schema *schema.Schema
}

// groupSchemas pairs a group name with its built schemas for deterministic ordering.
type groupSchemas struct {
	group   string
	entries []namedSchema
}

// buildGroupsParallel builds every group in its own pass using an errgroup
// bounded by the configured parallelism. Results are sorted by group name so
// the merge order does not depend on goroutine scheduling.
func (s *Service) buildGroupsParallel(groups []domain.RootGroup) ([]groupSchemas, error) {
	var (
		mu        sync.Mutex
		collected []groupSchemas
	)

	var g errgroup.Group
	g.SetLimit(s.config.Parallelism)

	for _, group := range groups {
		if len(group.Roots) == 0 {
			continue
		}

		group := group

		g.Go(func() error {
			entries, err := s.buildGroup(group)
			if err != nil {
				return fmt.Errorf("failed to build schemas for %s: %w", group.Name, err)
			}

			mu.Lock()
			collected = append(collected, groupSchemas{group: group.Name, entries: entries})
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].group < collected[j].group
	})
	return collected, nil
}

// buildGroup builds the roots of one group, then drains forced entries and
// referenced types until nothing new appears.
func (s *Service) buildGroup(group domain.RootGroup) ([]namedSchema, error) {
	pass := schema.NewPass()
	built := make(map[string]struct{})
	var entries []namedSchema

	add := func(name string, desc *domain.TypeDescription) error {
		if _, ok := built[name]; ok {
			return nil
		}
		built[name] = struct{}{}
		sch, _, err := s.builder.BuildMain(pass, desc)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		entries = append(entries, namedSchema{name: name, schema: sch})
		return nil
	}

	for _, identity := range group.Roots {
		desc, err := s.registry.Describe(domain.Named(identity))
		if err != nil {
			return nil, err
		}
		if err := add(s.registry.SchemaName(identity), desc); err != nil {
			return nil, err
		}
	}

	for {
		forced := pass.Additional().Drain()
		refs := pass.DrainReferences()
		if len(forced) == 0 && len(refs) == 0 {
			break
		}
		for _, entry := range forced {
			s.debugf("Orchestrator: %s forced schema %s", group.Name, entry.Key)
			if err := add(entry.Key, entry.Type); err != nil {
				return nil, err
			}
		}
		for _, desc := range refs {
			if err := add(s.registry.SchemaName(desc.Identity), desc); err != nil {
				return nil, err
			}
		}
	}

	return entries, nil
}
