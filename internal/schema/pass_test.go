package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/griffnb/core-schemagen/internal/domain"
)

func TestRecursionGuard(t *testing.T) {
	guard := NewRecursionGuard()

	assert.True(t, guard.Add("A_b_B"))
	assert.False(t, guard.Add("A_b_B"))
	assert.True(t, guard.Add("A_c_B"))
	assert.True(t, guard.Contains("A_b_B"))
	assert.Equal(t, 2, guard.Len())
}

func TestAdditionalSchemas(t *testing.T) {
	t.Run("first registration wins", func(t *testing.T) {
		// Arrange
		reg := NewAdditionalSchemas()
		first := &domain.TypeDescription{Name: "first"}
		second := &domain.TypeDescription{Name: "second"}

		// Act
		added := reg.Add("B_RecursiveA", first)
		again := reg.Add("B_RecursiveA", second)

		// Assert
		assert.True(t, added)
		assert.False(t, again)
		got, ok := reg.Get("B_RecursiveA")
		assert.True(t, ok)
		assert.Same(t, first, got)
	})

	t.Run("drain returns only new entries", func(t *testing.T) {
		reg := NewAdditionalSchemas()
		reg.Add("one", &domain.TypeDescription{})
		reg.Add("two", &domain.TypeDescription{})

		firstDrain := reg.Drain()
		reg.Add("three", &domain.TypeDescription{})
		secondDrain := reg.Drain()
		thirdDrain := reg.Drain()

		assert.Equal(t, []string{"one", "two"}, keys(firstDrain))
		assert.Equal(t, []string{"three"}, keys(secondDrain))
		assert.Empty(t, thirdDrain)
		assert.Equal(t, []string{"one", "two", "three"}, keys(reg.Entries()))
	})
}

func TestPassReferences(t *testing.T) {
	pass := NewPass()
	user := &domain.TypeDescription{Identity: "models.User"}

	pass.reference(user)
	pass.reference(user)
	first := pass.DrainReferences()
	pass.reference(&domain.TypeDescription{Identity: "models.Order"})
	second := pass.DrainReferences()

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Equal(t, "models.Order", second[0].Identity)
	assert.Empty(t, pass.DrainReferences())
}

func keys(entries []ForcedEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}
