package orchestrator

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-schemagen/internal/domain"
	"github.com/griffnb/core-schemagen/internal/schema"
	"github.com/griffnb/core-schemagen/internal/typemodel"
)

func schemaNames(schemas *Schemas) []string {
	names := make([]string, 0, schemas.Len())
	for pair := schemas.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func mustSchema(t *testing.T, schemas *Schemas, name string) *schema.Schema {
	t.Helper()
	s, ok := schemas.Get(name)
	require.True(t, ok, "schema %s missing, have %v", name, schemaNames(schemas))
	return s
}

func mustProperty(t *testing.T, s *schema.Schema, name string) *schema.Property {
	t.Helper()
	p, ok := s.Property(name)
	require.True(t, ok, "property %s missing, have %v", name, s.PropertyNames())
	return p
}

// applyModel registers an inline YAML model with a fresh service.
func applyModel(t *testing.T, config *Config, model string) (*Service, domain.RootGroup) {
	t.Helper()
	file, err := typemodel.Decode([]byte(model), typemodel.FormatYAML)
	require.NoError(t, err)

	svc := New(config)
	group, err := file.Apply(svc.Registry(), svc.Docs(), svc.Constraints())
	require.NoError(t, err)
	return svc, group
}

func TestNew(t *testing.T) {
	t.Run("creates orchestrator with default config", func(t *testing.T) {
		// Act
		service := New(nil)

		// Assert
		require.NotNil(t, service)
		assert.NotNil(t, service.loader)
		assert.NotNil(t, service.registry)
		assert.NotNil(t, service.builder)
		assert.Equal(t, "camelcase", service.config.PropNamingStrategy)
		assert.Equal(t, schema.DefaultRefPrefix, service.config.RefPrefix)
		assert.Equal(t, schema.DefaultMaxDepth, service.config.MaxDepth)
		assert.Positive(t, service.config.Parallelism)
	})

	t.Run("keeps custom config", func(t *testing.T) {
		config := &Config{RefPrefix: schema.DefinitionsRefPrefix, PropNamingStrategy: "snakecase", Parallelism: 2}

		service := New(config)

		assert.Same(t, config, service.config)
		assert.Equal(t, schema.DefinitionsRefPrefix, service.builder.RefPrefix())
		assert.Equal(t, 2, service.config.Parallelism)
	})
}

func TestService_Parse_ModelFile(t *testing.T) {
	// Arrange
	svc := New(&Config{
		ModelFile: "testdata/catalog.yaml",
		Debug:     log.New(os.Stderr, "[TEST] ", 0),
	})

	// Act
	result, err := svc.Parse()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Item", "State", "Node_RecursiveNodeItem"}, schemaNames(result.Schemas))

	t.Run("root schema carries its description", func(t *testing.T) {
		category := mustSchema(t, result.Schemas, "Category")
		require.NotNil(t, category.Description)
		assert.Equal(t, "A node in the catalog tree.", *category.Description)
		assert.Equal(t, []string{"name"}, category.Required)
		assert.Equal(t, []string{"name", "children", "tree"}, category.PropertyNames())
	})

	t.Run("self reference through an array is a ref", func(t *testing.T) {
		children := mustProperty(t, mustSchema(t, result.Schemas, "Category"), "children")
		require.NotNil(t, children.Items)
		assert.Equal(t, "#/components/schemas/Category", children.Items.Reference)
	})

	t.Run("generic recursion is forced into a named schema", func(t *testing.T) {
		tree := mustProperty(t, mustSchema(t, result.Schemas, "Category"), "tree")
		assert.Equal(t, domain.OBJECT, tree.Type)
		assert.Equal(t, "#/components/schemas/Item", mustProperty(t, &tree.Schema, "value").Reference)

		inner := mustProperty(t, &tree.Schema, "children").Items
		require.NotNil(t, inner)
		innermost := mustProperty(t, inner, "children").Items
		require.NotNil(t, innermost)
		assert.Equal(t, "#/components/schemas/Node_RecursiveNodeItem", innermost.Reference)

		forced := mustSchema(t, result.Schemas, "Node_RecursiveNodeItem")
		assert.Equal(t, []string{"value", "children"}, forced.PropertyNames())
		again := mustProperty(t, forced, "children").Items
		require.NotNil(t, again)
		assert.Equal(t, "#/components/schemas/Node_RecursiveNodeItem", again.Reference)
	})

	t.Run("constraints and enums", func(t *testing.T) {
		sku := mustProperty(t, mustSchema(t, result.Schemas, "Item"), "sku")
		require.NotNil(t, sku.MinLength)
		assert.Equal(t, 4, *sku.MinLength)

		state := mustSchema(t, result.Schemas, "State")
		assert.Equal(t, domain.STRING, state.Type)
		assert.Equal(t, []string{"draft", "live"}, state.EnumValues)
		require.NotNil(t, state.Description)
		assert.Equal(t, "State\n  * `draft` - Not visible yet.\n", *state.Description)
	})
}

func TestService_Parse_GoPackages(t *testing.T) {
	// Arrange
	svc := New(&Config{
		SearchDirs: []string{"../loader/testdata/models", "../loader/testdata/billing"},
	})

	// Act
	result, err := svc.Parse()

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Groups, 2)
	names := schemaNames(result.Schemas)
	for _, name := range []string{"billing_User", "Invoice", "models_User", "Status", "Priority", "Base", "Directory", "Account", "Node_RecursiveNodemodels_User"} {
		assert.Contains(t, names, name)
	}
	assert.Equal(t, "billing_User", names[0], "groups merge in sorted order")

	user := mustSchema(t, result.Schemas, "models_User")
	assert.Equal(t, "#/components/schemas/models_User", mustProperty(t, user, "manager").Reference)
	assert.Equal(t, "#/components/schemas/Status", mustProperty(t, user, "status").Reference)
	assert.Equal(t, []string{"name", "email"}, user.Required)

	lines := mustProperty(t, mustSchema(t, result.Schemas, "Invoice"), "lines")
	require.NotNil(t, lines.AdditionalProperties)
	page := lines.AdditionalProperties
	assert.Equal(t, domain.OBJECT, page.Type)
	assert.Equal(t, domain.STRING, mustProperty(t, page, "items").Items.Type)

	account := mustSchema(t, result.Schemas, "Account")
	assert.Equal(t, []string{"name", "owner", "active"}, account.PropertyNames())
}

func TestService_Parse_ForcedNamesAcrossPackages(t *testing.T) {
	// Arrange
	svc := New(&Config{
		SearchDirs: []string{"testdata/clash/a", "testdata/clash/b", "testdata/clash/tree"},
	})

	// Act
	result, err := svc.Parse()

	// Assert
	require.NoError(t, err)
	names := schemaNames(result.Schemas)
	for _, name := range []string{"a_Item", "b_Item", "Root", "Node_RecursiveNodea_Item", "Node_RecursiveNodeb_Item"} {
		assert.Contains(t, names, name)
	}

	root := mustSchema(t, result.Schemas, "Root")
	for _, pkg := range []string{"a", "b"} {
		t.Run("instantiation over "+pkg, func(t *testing.T) {
			item := "#/components/schemas/" + pkg + "_Item"
			forcedName := "Node_RecursiveNode" + pkg + "_Item"

			node := mustProperty(t, root, pkg)
			assert.Equal(t, item, mustProperty(t, &node.Schema, "value").Reference)

			inner := mustProperty(t, &node.Schema, "children").Items
			require.NotNil(t, inner)
			assert.Equal(t, item, mustProperty(t, inner, "value").Reference)
			innermost := mustProperty(t, inner, "children").Items
			require.NotNil(t, innermost)
			assert.Equal(t, "#/components/schemas/"+forcedName, innermost.Reference)

			forced := mustSchema(t, result.Schemas, forcedName)
			assert.Equal(t, item, mustProperty(t, forced, "value").Reference)
			again := mustProperty(t, forced, "children").Items
			require.NotNil(t, again)
			assert.Equal(t, "#/components/schemas/"+forcedName, again.Reference)
		})
	}
}

func TestService_Parse_ExplicitTypes(t *testing.T) {
	t.Run("builds only what the roots reach", func(t *testing.T) {
		svc := New(&Config{
			SearchDirs: []string{"../loader/testdata/models", "../loader/testdata/billing"},
			Types:      []string{"Invoice"},
		})

		result, err := svc.Parse()

		require.NoError(t, err)
		names := schemaNames(result.Schemas)
		assert.Equal(t, "Invoice", names[0])
		assert.Contains(t, names, "models_User")
		assert.NotContains(t, names, "Directory")
		assert.NotContains(t, names, "Account")
	})
}

func TestService_resolveRoots(t *testing.T) {
	svc, _ := applyModel(t, nil, `
package: github.com/acme/a
types:
  - name: User
    kind: struct
  - name: Box
    kind: struct
    typeParams: [T]
    fields:
      - name: value
        type: T
`)
	file, err := typemodel.Decode([]byte("package: github.com/acme/b\ntypes:\n  - name: User\n    kind: struct\n"), typemodel.FormatYAML)
	require.NoError(t, err)
	_, err = file.Apply(svc.Registry(), svc.Docs(), svc.Constraints())
	require.NoError(t, err)

	t.Run("qualified names", func(t *testing.T) {
		group, err := svc.resolveRoots([]string{"a.User", "github.com/acme/b.User", "a.User"})

		require.NoError(t, err)
		assert.Equal(t, []string{"github.com/acme/a.User", "github.com/acme/b.User"}, group.Roots)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := svc.resolveRoots([]string{"User"})
		assert.True(t, errors.Is(err, ErrAmbiguousRoot))

		_, err = svc.resolveRoots([]string{"Missing"})
		assert.True(t, errors.Is(err, ErrRootNotFound))

		_, err = svc.resolveRoots([]string{"Box"})
		assert.True(t, errors.Is(err, domain.ErrMalformedType))
	})
}

func TestService_Build(t *testing.T) {
	model := `
package: github.com/acme/shop
types:
  - name: Customer
    kind: struct
    fields:
      - name: orders
        type: "[]Order"
  - name: Order
    kind: struct
    fields:
      - name: customer
        type: Customer
      - name: lines
        type: map[string]Line
  - name: Line
    kind: struct
    fields:
      - name: qty
        type: int32
`

	t.Run("referenced types are built once", func(t *testing.T) {
		svc, _ := applyModel(t, nil, model)

		schemas, err := svc.Build([]domain.RootGroup{{Name: "a", Roots: []string{"github.com/acme/shop.Customer"}}})

		require.NoError(t, err)
		assert.Equal(t, []string{"Customer", "Order", "Line"}, schemaNames(schemas))
	})

	t.Run("output does not depend on parallelism", func(t *testing.T) {
		groups := []domain.RootGroup{
			{Name: "z", Roots: []string{"github.com/acme/shop.Line"}},
			{Name: "b", Roots: []string{"github.com/acme/shop.Order"}},
			{Name: "a", Roots: []string{"github.com/acme/shop.Customer"}},
		}
		render := func(parallelism int) string {
			svc, _ := applyModel(t, &Config{Parallelism: parallelism}, model)
			schemas, err := svc.Build(groups)
			require.NoError(t, err)
			out, err := json.Marshal(schemas)
			require.NoError(t, err)
			return string(out)
		}

		serial := render(1)
		for i := 0; i < 5; i++ {
			assert.Equal(t, serial, render(8))
		}
	})

	t.Run("rebuild with another ref prefix", func(t *testing.T) {
		svc, _ := applyModel(t, nil, model)
		groups := []domain.RootGroup{{Name: "a", Roots: []string{"github.com/acme/shop.Order"}}}

		svc.SetRefPrefix(schema.DefinitionsRefPrefix)
		schemas, err := svc.Build(groups)

		require.NoError(t, err)
		order := mustSchema(t, schemas, "Order")
		assert.Equal(t, "#/definitions/Customer", mustProperty(t, order, "customer").Reference)
	})

	t.Run("unbounded recursion fails", func(t *testing.T) {
		svc, group := applyModel(t, &Config{MaxDepth: 8}, `
package: github.com/acme/loop
types:
  - name: Tree
    kind: alias
    underlying: map[string]Tree
  - name: Holder
    kind: struct
    fields:
      - name: tree
        type: Tree
`)

		_, err := svc.Build([]domain.RootGroup{group})

		require.Error(t, err)
		assert.True(t, errors.Is(err, schema.ErrUnboundedRecursion))
	})

	t.Run("unknown roots fail", func(t *testing.T) {
		svc, _ := applyModel(t, nil, model)

		_, err := svc.Build([]domain.RootGroup{{Name: "a", Roots: []string{"github.com/acme/shop.Missing"}}})

		assert.Error(t, err)
	})
}
