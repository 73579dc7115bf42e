package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferenceHasDatePrefix(t *testing.T) {
	refs, err := NewRequestReference("test-salt")
	require.NoError(t, err)

	ref, err := refs.Generate(1)
	require.NoError(t, err)
	require.Greater(t, len(ref), 12)

	_, err = time.Parse("200601021504", ref[:12])
	assert.NoError(t, err)
}

func TestGenerateReferenceUnique(t *testing.T) {
	refs, err := NewRequestReference("test-salt")
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for seq := int64(1); seq <= 100; seq++ {
		ref, err := refs.Generate(seq)
		require.NoError(t, err)
		_, dup := seen[ref]
		assert.False(t, dup, "duplicate reference %v", ref)
		seen[ref] = struct{}{}
	}
}

func TestDifferentSaltsDiverge(t *testing.T) {
	a, err := NewRequestReference("salt-a")
	require.NoError(t, err)
	b, err := NewRequestReference("salt-b")
	require.NoError(t, err)

	refA, err := a.Generate(7)
	require.NoError(t, err)
	refB, err := b.Generate(7)
	require.NoError(t, err)

	assert.NotEqual(t, refA[12:], refB[12:])
}
