package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/core-schemagen/internal/domain"
)

func mustRegister(t *testing.T, svc *Service, decls ...*domain.Decl) {
	t.Helper()
	for _, decl := range decls {
		require.NoError(t, svc.Register(decl))
	}
}

func TestService_Register(t *testing.T) {
	t.Run("rejects duplicates", func(t *testing.T) {
		// Arrange
		svc := NewService()
		mustRegister(t, svc, &domain.Decl{Identity: "models.User", Kind: domain.DeclStruct})

		// Act
		err := svc.Register(&domain.Decl{Identity: "models.User", Kind: domain.DeclStruct})

		// Assert
		assert.True(t, errors.Is(err, ErrDuplicateType))
		assert.Equal(t, 1, svc.Len())
	})

	t.Run("rejects primitives", func(t *testing.T) {
		svc := NewService()

		err := svc.Register(&domain.Decl{Identity: "time.Time", Kind: domain.DeclStruct})

		assert.True(t, errors.Is(err, domain.ErrMalformedType))
	})

	t.Run("keeps registration order", func(t *testing.T) {
		svc := NewService()
		mustRegister(t, svc,
			&domain.Decl{Identity: "models.B", Kind: domain.DeclStruct},
			&domain.Decl{Identity: "models.A", Kind: domain.DeclStruct},
		)

		decls := svc.Decls()

		require.Len(t, decls, 2)
		assert.Equal(t, "models.B", decls[0].Identity)
		assert.Equal(t, "models.A", decls[1].Identity)
	})
}

func TestService_Describe(t *testing.T) {
	svc := NewService()
	mustRegister(t, svc,
		&domain.Decl{Identity: "github.com/acme/models.User", Kind: domain.DeclStruct, Fields: []domain.Field{
			{Name: "id", Type: domain.Named("int64")},
		}},
		&domain.Decl{Identity: "github.com/acme/models.Status", Kind: domain.DeclEnum, EnumValues: []string{"active", "banned"}},
		&domain.Decl{Identity: "github.com/acme/models.Page", Kind: domain.DeclStruct, TypeParams: []string{"T"}, Fields: []domain.Field{
			{Name: "items", Type: domain.ArrayOf(domain.Param("T"))},
		}},
		&domain.Decl{Identity: "github.com/acme/models.Users", Kind: domain.DeclAlias, Underlying: domain.ArrayOf(domain.Named("github.com/acme/models.User"))},
		&domain.Decl{Identity: "github.com/acme/models.List", Kind: domain.DeclAlias, TypeParams: []string{"T"}, Underlying: domain.ArrayOf(domain.Param("T"))},
		&domain.Decl{Identity: "github.com/acme/models.Email", Kind: domain.DeclAlias, Underlying: domain.Named("string")},
		&domain.Decl{Identity: "github.com/acme/models.Tree", Kind: domain.DeclAlias, Underlying: domain.MapOf(domain.Named("string"), domain.Named("github.com/acme/models.Tree"))},
		&domain.Decl{Identity: "github.com/acme/models.Loop", Kind: domain.DeclAlias, Underlying: domain.Named("github.com/acme/models.Loop")},
		&domain.Decl{Identity: "github.com/acme/models.Account", Kind: domain.DeclInterface, Accessors: []domain.Accessor{
			{Method: "IsActive", Type: domain.Named("bool")},
			{Method: "GetName", Type: domain.Named("string")},
			{Method: "GetEmail", Type: domain.Named("github.com/acme/models.Email")},
		}},
	)

	t.Run("object", func(t *testing.T) {
		desc, err := svc.Describe(domain.Named("github.com/acme/models.User"))

		require.NoError(t, err)
		assert.Equal(t, domain.KindObject, desc.Kind)
		assert.Equal(t, "User", desc.Name)
		assert.Empty(t, desc.Bindings)
		require.Len(t, desc.Fields, 1)
	})

	t.Run("enum", func(t *testing.T) {
		desc, err := svc.Describe(domain.Named("github.com/acme/models.Status"))

		require.NoError(t, err)
		assert.Equal(t, domain.KindEnum, desc.Kind)
		assert.Equal(t, []string{"active", "banned"}, desc.EnumValues)
	})

	t.Run("generic binds arguments in order", func(t *testing.T) {
		user := domain.Named("github.com/acme/models.User")

		desc, err := svc.Describe(domain.Named("github.com/acme/models.Page", user))

		require.NoError(t, err)
		assert.Equal(t, domain.KindGeneric, desc.Kind)
		require.Len(t, desc.Bindings, 1)
		assert.Equal(t, "T", desc.Bindings[0].Param)
		assert.Same(t, user, desc.Bindings[0].Type)
		assert.Equal(t, "github.com/acme/models.Page[github.com/acme/models.User]", desc.Signature())
	})

	t.Run("primitive", func(t *testing.T) {
		desc, err := svc.Describe(domain.Named("time.Time"))

		require.NoError(t, err)
		assert.Equal(t, domain.KindPrimitive, desc.Kind)
		assert.Equal(t, "date-time", desc.Primitive.Format)
	})

	t.Run("named collection uses its underlying type", func(t *testing.T) {
		desc, err := svc.Describe(domain.Named("github.com/acme/models.Users"))

		require.NoError(t, err)
		assert.Equal(t, domain.KindArray, desc.Kind)
		assert.Equal(t, "github.com/acme/models.User", desc.ArrayItem.Name)
	})

	t.Run("generic alias substitutes its underlying type", func(t *testing.T) {
		desc, err := svc.Describe(domain.Named("github.com/acme/models.List", domain.Named("string")))

		require.NoError(t, err)
		assert.Equal(t, domain.KindArray, desc.Kind)
		assert.Equal(t, "string", desc.ArrayItem.Name)
	})

	t.Run("primitive alias", func(t *testing.T) {
		desc, err := svc.Describe(domain.Named("github.com/acme/models.Email"))

		require.NoError(t, err)
		assert.Equal(t, domain.KindPrimitive, desc.Kind)
		assert.Equal(t, domain.STRING, desc.Primitive.Type)
	})

	t.Run("self referencing map is described lazily", func(t *testing.T) {
		desc, err := svc.Describe(domain.Named("github.com/acme/models.Tree"))

		require.NoError(t, err)
		assert.Equal(t, domain.KindMap, desc.Kind)
		assert.Equal(t, "github.com/acme/models.Tree", desc.MapValue.Name)
	})

	t.Run("alias loops fail", func(t *testing.T) {
		_, err := svc.Describe(domain.Named("github.com/acme/models.Loop"))

		assert.True(t, errors.Is(err, domain.ErrMalformedType))
	})

	t.Run("interface accessors become sorted fields", func(t *testing.T) {
		desc, err := svc.Describe(domain.Named("github.com/acme/models.Account"))

		require.NoError(t, err)
		names := make([]string, 0, len(desc.Fields))
		for _, f := range desc.Fields {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"email", "name", "active"}, names)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := svc.Describe(domain.Named("github.com/acme/models.Missing"))
		assert.True(t, errors.Is(err, ErrUnknownType))

		_, err = svc.Describe(domain.Param("T"))
		assert.True(t, errors.Is(err, ErrUnboundTypeParameter))

		_, err = svc.Describe(domain.Named("github.com/acme/models.Page"))
		assert.True(t, errors.Is(err, ErrTypeArgumentCount))

		_, err = svc.Describe(&domain.TypeExpr{Form: domain.FormMap, Key: domain.Named("string")})
		assert.True(t, errors.Is(err, domain.ErrMalformedType))
	})
}

func TestService_SchemaName(t *testing.T) {
	// Arrange
	svc := NewService()
	mustRegister(t, svc,
		&domain.Decl{Identity: "github.com/acme/api/models.User", Kind: domain.DeclStruct},
		&domain.Decl{Identity: "github.com/acme/api/billing.Invoice", Kind: domain.DeclStruct},
		&domain.Decl{Identity: "github.com/acme/api/billing.User", Kind: domain.DeclStruct},
		&domain.Decl{Identity: "github.com/acme/api/models.Role", Kind: domain.DeclEnum},
		&domain.Decl{Identity: "github.com/other/models.Role", Kind: domain.DeclEnum},
	)

	tests := []struct {
		identity string
		want     string
	}{
		{"github.com/acme/api/billing.Invoice", "Invoice"},
		{"github.com/acme/api/models.User", "models_User"},
		{"github.com/acme/api/billing.User", "billing_User"},
		{"github.com/acme/api/models.Role", "github_com_acme_api_models_Role"},
		{"github.com/other/models.Role", "github_com_other_models_Role"},
	}

	for _, tt := range tests {
		t.Run(tt.identity, func(t *testing.T) {
			// Act
			got := svc.SchemaName(tt.identity)

			// Assert
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("registration invalidates cached names", func(t *testing.T) {
		assert.Equal(t, "Invoice", svc.SchemaName("github.com/acme/api/billing.Invoice"))

		mustRegister(t, svc, &domain.Decl{Identity: "github.com/acme/api/legacy.Invoice", Kind: domain.DeclStruct})

		assert.Equal(t, "billing_Invoice", svc.SchemaName("github.com/acme/api/billing.Invoice"))
	})
}

func TestService_FindByName(t *testing.T) {
	svc := NewService()
	mustRegister(t, svc,
		&domain.Decl{Identity: "github.com/acme/api/models.User", Kind: domain.DeclStruct},
		&domain.Decl{Identity: "github.com/acme/api/billing.User", Kind: domain.DeclStruct},
	)

	assert.Len(t, svc.FindByName("User"), 2)
	assert.Len(t, svc.FindByName("models.User"), 1)
	assert.Len(t, svc.FindByName("github.com/acme/api/billing.User"), 1)
	assert.Empty(t, svc.FindByName("Missing"))
}
