package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	plain := "Correct-Horse-7!"

	hash, err := HashPassword(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	match, err := ComparePassword(hash, plain)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestComparePassword_SingleCharMutation(t *testing.T) {
	plain := "Correct-Horse-7!"

	hash, err := HashPassword(plain)
	require.NoError(t, err)

	for i := 0; i < len(plain); i++ {
		mutated := []byte(plain)
		mutated[i] ^= 0x01

		match, err := ComparePassword(hash, string(mutated))
		require.NoError(t, err)
		assert.False(t, match, "mutation at index %d should not match", i)
	}
}

func TestHashPassword_RejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHashPassword_RejectsOverLength(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// Exactly at the limit is fine.
	hash, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComparePassword_MalformedHash(t *testing.T) {
	match, err := ComparePassword("not-a-bcrypt-hash", "whatever")
	assert.Error(t, err)
	assert.False(t, match)
}

func TestComparePassword_OverLengthInput(t *testing.T) {
	hash, err := HashPassword("Correct-Horse-7!")
	require.NoError(t, err)

	match, err := ComparePassword(hash, strings.Repeat("b", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.False(t, match)
}
