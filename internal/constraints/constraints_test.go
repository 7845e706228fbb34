package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	t.Run("returns recorded rules", func(t *testing.T) {
		idx := NewIndex()
		idx.Set("models.User", "name", Constraints{Required: true, MinLength: Int(2), MaxLength: Int(64)})

		got := idx.For("models.User", "name")

		assert.True(t, got.Required)
		assert.Equal(t, 2, *got.MinLength)
		assert.Equal(t, 64, *got.MaxLength)
	})

	t.Run("unknown fields have no rules", func(t *testing.T) {
		idx := NewIndex()

		assert.True(t, idx.For("models.User", "missing").IsZero())
		assert.True(t, None.For("models.User", "name").IsZero())
	})

	t.Run("zero rules are not stored", func(t *testing.T) {
		idx := NewIndex()
		idx.Set("models.User", "name", Constraints{})

		assert.Empty(t, idx.rules)
	})
}
