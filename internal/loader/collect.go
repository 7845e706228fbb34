package loader

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"

	"github.com/griffnb/core-schemagen/internal/constraints"
	"github.com/griffnb/core-schemagen/internal/docs"
	"github.com/griffnb/core-schemagen/internal/domain"
	"github.com/griffnb/core-schemagen/internal/parser/field"
	structparser "github.com/griffnb/core-schemagen/internal/parser/struct"
)

// textMarshaler matches types that serialize themselves as JSON strings.
var textMarshaler = types.NewInterfaceType([]*types.Func{
	types.NewFunc(token.NoPos, nil, "MarshalText", types.NewSignatureType(nil, nil, nil, nil,
		types.NewTuple(
			types.NewVar(token.NoPos, nil, "", types.NewSlice(types.Typ[types.Byte])),
			types.NewVar(token.NoPos, nil, "", types.Universe.Lookup("error").Type()),
		), false)),
}, nil).Complete()

type collector struct {
	svc      *Service
	target   Target
	comments map[string]string
	seen     map[string]struct{}
	errs     error
}

// Collect registers every named type reachable from the exported types of the
// root packages, along with their documentation and field constraints. It
// returns one root group per package, in load order.
func (s *Service) Collect(result *LoadResult, target Target) ([]domain.RootGroup, error) {
	if result == nil {
		return nil, errors.New("nil load result")
	}
	if target.Registry == nil {
		return nil, errors.New("nil registry")
	}
	if target.Docs == nil {
		target.Docs = docs.NewIndex()
	}
	if target.Constraints == nil {
		target.Constraints = constraints.NewIndex()
	}

	c := &collector{
		svc:      s,
		target:   target,
		comments: make(map[string]string),
		seen:     make(map[string]struct{}),
	}
	for _, pkg := range result.DocPackages {
		c.readComments(pkg)
	}

	groups := make([]domain.RootGroup, 0, len(result.Packages))
	for _, pkg := range result.Packages {
		group := domain.RootGroup{Name: pkg.PkgPath}
		for _, obj := range rootTypes(pkg) {
			identity, err := c.declare(obj.Type().(*types.Named))
			if err != nil {
				c.errs = multierr.Append(c.errs, err)
				continue
			}
			if decl, ok := target.Registry.Lookup(identity); ok && decl.Kind != domain.DeclAlias {
				group.Roots = append(group.Roots, identity)
			}
		}
		if len(group.Roots) > 0 {
			s.debug.Printf("Loader: %s has %d roots", group.Name, len(group.Roots))
			groups = append(groups, group)
		}
	}

	if c.errs != nil {
		return nil, c.errs
	}
	return groups, nil
}

// rootTypes returns the exported, non-generic type declarations of a package
// in source order.
func rootTypes(pkg *packages.Package) []*types.TypeName {
	var out []*types.TypeName
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				if !ts.Name.IsExported() || ts.TypeParams != nil || ts.Assign.IsValid() {
					continue
				}
				obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}
				if _, ok := obj.Type().(*types.Named); ok {
					out = append(out, obj)
				}
			}
		}
	}
	return out
}

// readComments indexes the doc comments of types, fields, methods and
// constants by a string key.
func (c *collector) readComments(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			switch gen.Tok {
			case token.TYPE:
				for _, spec := range gen.Specs {
					ts := spec.(*ast.TypeSpec)
					identity := pkg.PkgPath + "." + ts.Name.Name
					doc := ts.Doc
					if doc == nil && len(gen.Specs) == 1 {
						doc = gen.Doc
					}
					c.comment(identity, doc)

					switch t := ts.Type.(type) {
					case *ast.StructType:
						c.listComments(identity, t.Fields)
					case *ast.InterfaceType:
						c.listComments(identity, t.Methods)
					}
				}
			case token.CONST:
				for _, spec := range gen.Specs {
					vs := spec.(*ast.ValueSpec)
					doc := vs.Doc
					if doc == nil {
						doc = vs.Comment
					}
					for _, name := range vs.Names {
						c.comment(pkg.PkgPath+"."+name.Name, doc)
					}
				}
			}
		}
	}
}

func (c *collector) listComments(owner string, list *ast.FieldList) {
	if list == nil {
		return
	}
	for _, f := range list.List {
		doc := f.Doc
		if doc == nil {
			doc = f.Comment
		}
		for _, name := range f.Names {
			c.comment(owner+"#"+name.Name, doc)
		}
	}
}

func (c *collector) comment(key string, group *ast.CommentGroup) {
	if group == nil {
		return
	}
	if text := strings.TrimSpace(group.Text()); text != "" {
		c.comments[key] = text
	}
}

// declare registers the generic origin of named and returns its identity.
// Primitive identities are returned without registration.
func (c *collector) declare(named *types.Named) (string, error) {
	origin := named.Origin()
	obj := origin.Obj()
	if obj.Pkg() == nil {
		return obj.Name(), nil
	}
	identity := obj.Pkg().Path() + "." + obj.Name()
	if domain.IsPrimitive(identity) {
		return identity, nil
	}
	if _, ok := c.seen[identity]; ok {
		return identity, nil
	}
	c.seen[identity] = struct{}{}

	decl := &domain.Decl{Identity: identity}
	if tps := origin.TypeParams(); tps != nil {
		for i := 0; i < tps.Len(); i++ {
			decl.TypeParams = append(decl.TypeParams, tps.At(i).Obj().Name())
		}
	}

	var err error
	switch underlying := origin.Underlying().(type) {
	case *types.Struct:
		if types.Implements(origin, textMarshaler) || types.Implements(types.NewPointer(origin), textMarshaler) {
			decl.Kind = domain.DeclAlias
			decl.Underlying = domain.Named(domain.STRING)
			break
		}
		decl.Kind = domain.DeclStruct
		err = c.structFields(identity, identity, underlying, decl, newFieldSet(), 0, map[*types.Struct]struct{}{underlying: {}})

	case *types.Interface:
		decl.Kind = domain.DeclInterface
		err = c.accessors(identity, underlying, decl)

	case *types.Basic:
		if values := c.enumValues(identity, obj); len(values) > 0 {
			decl.Kind = domain.DeclEnum
			decl.EnumValues = values
			break
		}
		decl.Kind = domain.DeclAlias
		decl.Underlying, err = c.expr(underlying)

	default:
		decl.Kind = domain.DeclAlias
		decl.Underlying, err = c.expr(underlying)
	}
	if err != nil {
		return "", errors.Wrapf(err, "declare %s", identity)
	}

	if doc, ok := c.comments[identity]; ok {
		c.target.Docs.SetDescription(identity, doc)
	}
	if err := c.target.Registry.Register(decl); err != nil {
		return "", err
	}
	return identity, nil
}

// fieldSet tracks which property names are taken and at what embedding depth.
type fieldSet struct {
	index map[string]int
	depth map[string]int
}

func newFieldSet() *fieldSet {
	return &fieldSet{index: make(map[string]int), depth: make(map[string]int)}
}

// structFields appends the serialized fields of st to decl. Embedded structs
// without a json name are flattened, and a shallower field wins a name clash.
func (c *collector) structFields(owner, docOwner string, st *types.Struct, decl *domain.Decl, taken *fieldSet, depth int, visiting map[*types.Struct]struct{}) error {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := structparser.ParseTags(st.Tag(i))

		if f.Embedded() && tag.JSONName == "" && !tag.Ignore {
			if inner, innerOwner, ok := embeddedStruct(f.Type()); ok {
				if _, loop := visiting[inner]; loop {
					continue
				}
				visiting[inner] = struct{}{}
				err := c.structFields(owner, innerOwner, inner, decl, taken, depth+1, visiting)
				delete(visiting, inner)
				if err != nil {
					return err
				}
				continue
			}
		}

		if !f.Exported() || tag.Ignore {
			continue
		}

		name := tag.JSONName
		if name == "" {
			name = field.ApplyNamingStrategy(f.Name(), c.svc.namingStrategy)
		}

		expr, err := c.expr(f.Type())
		if err != nil {
			return errors.Wrapf(err, "field %s", f.Name())
		}

		if idx, ok := taken.index[name]; ok {
			if taken.depth[name] <= depth {
				continue
			}
			decl.Fields[idx] = domain.Field{Name: name, Type: expr}
		} else {
			taken.index[name] = len(decl.Fields)
			decl.Fields = append(decl.Fields, domain.Field{Name: name, Type: expr})
		}
		taken.depth[name] = depth

		if doc, ok := c.comments[docOwner+"#"+f.Name()]; ok {
			c.target.Docs.SetFieldDescription(owner, name, doc)
		}
		c.target.Constraints.Set(owner, name, tag.Constraints(isStringLike(f.Type())))
	}
	return nil
}

// embeddedStruct returns the struct behind an embedded field and the identity
// its field comments are recorded under.
func embeddedStruct(t types.Type) (*types.Struct, string, bool) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, "", false
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, "", false
	}
	obj := named.Origin().Obj()
	if obj.Pkg() == nil {
		return nil, "", false
	}
	identity := obj.Pkg().Path() + "." + obj.Name()
	if domain.IsPrimitive(identity) {
		return nil, "", false
	}
	return st, identity, true
}

// accessors records the getters of an interface.
func (c *collector) accessors(identity string, iface *types.Interface, decl *domain.Decl) error {
	for i := 0; i < iface.NumMethods(); i++ {
		m := iface.Method(i)
		if !m.Exported() {
			continue
		}
		sig := m.Type().(*types.Signature)
		if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
			continue
		}
		name, ok := domain.AccessorFieldName(m.Name())
		if !ok {
			continue
		}

		expr, err := c.expr(sig.Results().At(0).Type())
		if err != nil {
			return errors.Wrapf(err, "method %s", m.Name())
		}
		decl.Accessors = append(decl.Accessors, domain.Accessor{Method: m.Name(), Type: expr})

		if doc, ok := c.comments[identity+"#"+m.Name()]; ok {
			c.target.Docs.SetFieldDescription(identity, name, doc)
		}
	}
	return nil
}

type enumConst struct {
	pos     token.Pos
	name    string
	literal string
}

// enumValues returns the literals of the exported constants declared with the
// named type, in declaration order.
func (c *collector) enumValues(identity string, obj *types.TypeName) []string {
	scope := obj.Pkg().Scope()
	var consts []enumConst
	for _, name := range scope.Names() {
		cnst, ok := scope.Lookup(name).(*types.Const)
		if !ok || !cnst.Exported() || !types.Identical(cnst.Type(), obj.Type()) {
			continue
		}
		literal := cnst.Val().ExactString()
		if cnst.Val().Kind() == constant.String {
			literal = constant.StringVal(cnst.Val())
		}
		consts = append(consts, enumConst{pos: cnst.Pos(), name: name, literal: literal})
	}
	sort.SliceStable(consts, func(i, j int) bool {
		return consts[i].pos < consts[j].pos
	})

	values := make([]string, 0, len(consts))
	seen := make(map[string]struct{}, len(consts))
	for _, cnst := range consts {
		if _, ok := seen[cnst.literal]; ok {
			continue
		}
		seen[cnst.literal] = struct{}{}
		values = append(values, cnst.literal)

		if doc, ok := c.comments[obj.Pkg().Path()+"."+cnst.name]; ok {
			c.target.Docs.SetEnumValueDescription(identity, cnst.literal, doc)
		}
	}
	return values
}

// expr converts a go/types type into a type expression, declaring every
// named type it mentions.
func (c *collector) expr(t types.Type) (*domain.TypeExpr, error) {
	switch tt := t.(type) {
	case *types.Alias:
		return c.expr(types.Unalias(tt))

	case *types.Pointer:
		return c.expr(tt.Elem())

	case *types.Basic:
		if tt.Kind() == types.UnsafePointer || tt.Kind() == types.Invalid {
			return domain.Named(domain.ANY), nil
		}
		return domain.Named(tt.Name()), nil

	case *types.Slice:
		if isByte(tt.Elem()) {
			return domain.Named(domain.BYTES), nil
		}
		elem, err := c.expr(tt.Elem())
		if err != nil {
			return nil, err
		}
		return domain.ArrayOf(elem), nil

	case *types.Array:
		elem, err := c.expr(tt.Elem())
		if err != nil {
			return nil, err
		}
		return domain.ArrayOf(elem), nil

	case *types.Map:
		key, err := c.expr(tt.Key())
		if err != nil {
			return nil, err
		}
		value, err := c.expr(tt.Elem())
		if err != nil {
			return nil, err
		}
		return domain.MapOf(key, value), nil

	case *types.TypeParam:
		return domain.Param(tt.Obj().Name()), nil

	case *types.Named:
		identity, err := c.declare(tt)
		if err != nil {
			return nil, err
		}
		if domain.IsPrimitive(identity) {
			return domain.Named(identity), nil
		}
		targs := tt.TypeArgs()
		if targs == nil {
			return domain.Named(identity), nil
		}
		args := make([]*domain.TypeExpr, 0, targs.Len())
		for i := 0; i < targs.Len(); i++ {
			arg, err := c.expr(targs.At(i))
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return domain.Named(identity, args...), nil
	}

	return domain.Named(domain.ANY), nil
}

func isByte(t types.Type) bool {
	b, ok := types.Unalias(t).(*types.Basic)
	return ok && b.Kind() == types.Byte
}

// isStringLike reports whether length constraints apply to values of t.
func isStringLike(t types.Type) bool {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		return u.Info()&types.IsString != 0
	case *types.Slice, *types.Array, *types.Map:
		return true
	}
	return false
}
