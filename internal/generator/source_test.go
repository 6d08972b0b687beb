package generator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakerSource_IntRange(t *testing.T) {
	src := NewFakerSource()

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		n := src.IntRange(0, 3)
		require.GreaterOrEqual(t, n, 0)
		require.LessOrEqual(t, n, 3)
		seen[n] = true
	}
	assert.Len(t, seen, 4, "every value of a small inclusive range should show up")

	assert.Equal(t, 5, src.IntRange(5, 5))
}

func TestFakerSource_Float64Range(t *testing.T) {
	src := NewFakerSource()

	for i := 0; i < 500; i++ {
		f := src.Float64Range(-90, 90)
		require.GreaterOrEqual(t, f, -90.0)
		require.LessOrEqual(t, f, 90.0)
	}
}

func TestFakerSource_UUID(t *testing.T) {
	src := NewFakerSource()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := src.UUID()
		id, err := uuid.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version())
		assert.Equal(t, s, id.String(), "must be the canonical lowercase form")
		seen[s] = true
	}
	assert.Len(t, seen, 100)
}
