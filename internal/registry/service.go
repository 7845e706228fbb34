// Package registry is the type universe: every declaration discovered by a
// loader, and the introspection that turns type expressions into
// descriptions the schema builder can consume.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/griffnb/core-schemagen/internal/domain"
	"github.com/griffnb/core-schemagen/internal/generics"
)

var (
	// ErrUnknownType is returned for an identity that is neither a primitive
	// nor a registered declaration.
	ErrUnknownType = errors.New("unknown type")
	// ErrUnboundTypeParameter is returned when a type parameter reaches
	// introspection without having been substituted.
	ErrUnboundTypeParameter = errors.New("unbound type parameter")
	// ErrTypeArgumentCount is returned when a generic type is used with the
	// wrong number of type arguments.
	ErrTypeArgumentCount = errors.New("type argument count mismatch")
	// ErrDuplicateType is returned when an identity is registered twice.
	ErrDuplicateType = errors.New("duplicate type")
)

// maxAliasHops bounds chains of named aliases, which can only loop in a
// hand-written type model.
const maxAliasHops = 32

// Service manages the registered declarations. Registration happens before
// generation; lookups are safe for concurrent use.
type Service struct {
	mu    sync.RWMutex
	decls map[string]*domain.Decl
	order []string
	names map[string]string
	debug Debugger
}

// NewService creates a new registry service.
func NewService() *Service {
	return &Service{
		decls: make(map[string]*domain.Decl),
		names: make(map[string]string),
		debug: noOpDebugger{},
	}
}

// SetDebugger sets the debugger.
func (s *Service) SetDebugger(debug Debugger) {
	if debug == nil {
		debug = noOpDebugger{}
	}
	s.debug = debug
}

// Register adds a declaration to the universe.
func (s *Service) Register(decl *domain.Decl) error {
	if decl == nil || decl.Identity == "" {
		return fmt.Errorf("%w: declaration without identity", domain.ErrMalformedType)
	}
	if domain.IsPrimitive(decl.Identity) {
		return fmt.Errorf("%w: %s shadows a primitive", domain.ErrMalformedType, decl.Identity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decls[decl.Identity]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, decl.Identity)
	}
	s.decls[decl.Identity] = decl
	s.order = append(s.order, decl.Identity)
	s.names = make(map[string]string)
	s.debug.Printf("Registry: registered %s %s", decl.Kind, decl.Identity)
	return nil
}

// Lookup returns the declaration registered under identity.
func (s *Service) Lookup(identity string) (*domain.Decl, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	decl, ok := s.decls[identity]
	return decl, ok
}

// Decls returns every declaration in registration order.
func (s *Service) Decls() []*domain.Decl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Decl, 0, len(s.order))
	for _, identity := range s.order {
		out = append(out, s.decls[identity])
	}
	return out
}

// Len returns the number of declarations.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// FindByName returns the declarations matching name, which may be a full
// identity, a package-qualified name (models.User) or a simple name (User).
func (s *Service) FindByName(name string) []*domain.Decl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if decl, ok := s.decls[name]; ok {
		return []*domain.Decl{decl}
	}

	var out []*domain.Decl
	for _, identity := range s.order {
		if identity == name || strings.HasSuffix(identity, "/"+name) || domain.SimpleName(identity) == name {
			out = append(out, s.decls[identity])
		}
	}
	return out
}

// Describe implements schema.Resolver.
func (s *Service) Describe(expr *domain.TypeExpr) (*domain.TypeDescription, error) {
	return s.describe(expr, 0)
}

func (s *Service) describe(expr *domain.TypeExpr, hops int) (*domain.TypeDescription, error) {
	if expr == nil {
		return nil, fmt.Errorf("%w: nil type expression", domain.ErrMalformedType)
	}

	switch expr.Form {
	case domain.FormArray:
		if expr.Elem == nil {
			return nil, fmt.Errorf("%w: array without element type", domain.ErrMalformedType)
		}
		return &domain.TypeDescription{
			Kind:      domain.KindArray,
			Identity:  domain.ARRAY,
			Name:      domain.ARRAY,
			Expr:      expr,
			ArrayItem: expr.Elem,
		}, nil
	case domain.FormMap:
		if expr.Elem == nil {
			return nil, fmt.Errorf("%w: map without value type", domain.ErrMalformedType)
		}
		return &domain.TypeDescription{
			Kind:     domain.KindMap,
			Identity: "map",
			Name:     "map",
			Expr:     expr,
			MapValue: expr.Elem,
		}, nil
	case domain.FormParam:
		return nil, fmt.Errorf("%w: %s", ErrUnboundTypeParameter, expr.Name)
	}

	if p, ok := domain.ClassifyPrimitive(expr.Name); ok && len(expr.Args) == 0 {
		return &domain.TypeDescription{
			Kind:      domain.KindPrimitive,
			Identity:  expr.Name,
			Name:      domain.SimpleName(expr.Name),
			Expr:      expr,
			Primitive: p,
		}, nil
	}

	decl, ok := s.Lookup(expr.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, expr.Name)
	}
	if len(expr.Args) != len(decl.TypeParams) {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrTypeArgumentCount, decl.Identity, len(decl.TypeParams), len(expr.Args))
	}

	bindings := make(domain.Bindings, 0, len(decl.TypeParams))
	for i, param := range decl.TypeParams {
		bindings = append(bindings, domain.Binding{Param: param, Type: expr.Args[i]})
	}

	switch decl.Kind {
	case domain.DeclAlias:
		if hops >= maxAliasHops {
			return nil, fmt.Errorf("%w: alias chain through %s is too long", domain.ErrMalformedType, decl.Identity)
		}
		if decl.Underlying == nil {
			return nil, fmt.Errorf("%w: alias %s has no underlying type", domain.ErrMalformedType, decl.Identity)
		}
		return s.describe(generics.Substitute(decl.Underlying, bindings), hops+1)

	case domain.DeclEnum:
		return &domain.TypeDescription{
			Kind:       domain.KindEnum,
			Identity:   decl.Identity,
			Name:       decl.Name(),
			Expr:       expr,
			EnumValues: append([]string(nil), decl.EnumValues...),
		}, nil

	case domain.DeclStruct, domain.DeclInterface:
		desc := &domain.TypeDescription{
			Kind:     domain.KindObject,
			Identity: decl.Identity,
			Name:     decl.Name(),
			Expr:     expr,
			Fields:   objectFields(decl),
		}
		if len(bindings) > 0 {
			desc.Kind = domain.KindGeneric
			desc.Bindings = bindings
		}
		return desc, nil
	}

	return nil, fmt.Errorf("%w: %s has unknown declaration kind %s", domain.ErrMalformedType, decl.Identity, decl.Kind)
}

// objectFields returns the declared fields followed by the accessor-derived
// fields, the latter ordered by method name.
func objectFields(decl *domain.Decl) []domain.Field {
	fields := make([]domain.Field, 0, len(decl.Fields)+len(decl.Accessors))
	fields = append(fields, decl.Fields...)
	if len(decl.Accessors) == 0 {
		return fields
	}

	accessors := append([]domain.Accessor(nil), decl.Accessors...)
	sort.Slice(accessors, func(i, j int) bool {
		return accessors[i].Method < accessors[j].Method
	})
	for _, accessor := range accessors {
		name, ok := domain.AccessorFieldName(accessor.Method)
		if !ok {
			continue
		}
		fields = append(fields, domain.Field{Name: name, Type: accessor.Type})
	}
	return fields
}
