package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/griffnb/core-schemagen/internal/schema"
)

// ErrDanglingReference is returned when a $ref names a schema that was never built.
var ErrDanglingReference = errors.New("dangling reference")

// CollectReferences walks all schemas and returns the unique set of schema
// names referenced in $ref strings. The returned map keys are names with
// refPrefix stripped; values name the schema where the ref was first
// encountered.
func CollectReferences(schemas *Schemas, refPrefix string) map[string]string {
	refs := make(map[string]string)
	for pair := schemas.Oldest(); pair != nil; pair = pair.Next() {
		collectRefsFromSchema(pair.Value, refs, refPrefix, pair.Key)
	}
	return refs
}

// collectRefsFromSchema recursively walks a schema tree and collects all $ref names.
func collectRefsFromSchema(s *schema.Schema, refs map[string]string, refPrefix, source string) {
	if s == nil {
		return
	}
	if s.Reference != "" {
		name := strings.TrimPrefix(s.Reference, refPrefix)
		if name != "" {
			if _, exists := refs[name]; !exists {
				refs[name] = source
			}
		}
	}
	if s.Items != nil {
		collectRefsFromSchema(s.Items, refs, refPrefix, source)
	}
	if s.AdditionalProperties != nil {
		collectRefsFromSchema(s.AdditionalProperties, refs, refPrefix, source)
	}
	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			collectRefsFromSchema(&pair.Value.Schema, refs, refPrefix, source+"."+pair.Key)
		}
	}
}

// checkReferences reports every $ref without a matching schema.
func checkReferences(schemas *Schemas, refPrefix string) error {
	var errs error
	for name, source := range CollectReferences(schemas, refPrefix) {
		if _, ok := schemas.Get(name); !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s referenced from %s", ErrDanglingReference, name, source))
		}
	}
	return errs
}
