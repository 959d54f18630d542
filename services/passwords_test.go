package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.True(t, CheckPassword(hash, "correct-horse"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "correct-horse"))
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := GenerateTempPassword(12)
	require.NoError(t, err)
	assert.Len(t, pw, 12)
	for _, c := range pw {
		assert.True(t, strings.ContainsRune(tempPasswordAlphabet, c), "unexpected character %q", c)
	}

	// Zero and negative lengths fall back to the default.
	pw, err = GenerateTempPassword(0)
	require.NoError(t, err)
	assert.Len(t, pw, 12)

	other, err := GenerateTempPassword(12)
	require.NoError(t, err)
	assert.NotEqual(t, pw, other)
}
