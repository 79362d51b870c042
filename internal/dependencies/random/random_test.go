package random

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoRandomIntnInRange(t *testing.T) {
	r := New()
	for range 200 {
		n := r.Intn(81)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 81)
	}
	assert.Equal(t, 0, r.Intn(0))
}

func TestStringUsesAlphabet(t *testing.T) {
	const alphabet = "abc"
	s := New().String(32, alphabet)

	require.Len(t, s, 32)
	for _, c := range s {
		assert.True(t, strings.ContainsRune(alphabet, c))
	}
	assert.Empty(t, New().String(5, ""))
}

func TestSeededDealsRepeat(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for n := 81; n > 0; n-- {
		assert.Equal(t, a.Intn(n), b.Intn(n))
	}
}

func TestSeededTokensAndIDsStayRandom(t *testing.T) {
	a, b := NewSeeded(7), NewSeeded(7)

	assert.NotEqual(t, a.String(32, "abcdefghijklmnopqrstuvwxyz"), b.String(32, "abcdefghijklmnopqrstuvwxyz"))
	_, err := uuid.Parse(a.ID())
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}
