package credential_test

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-insights/internal/credential"
)

func TestSigningKeyIsGeneratedOnce(t *testing.T) {
	v := credential.NewVault(keyring.NewArrayKeyring(nil))

	first, err := v.SigningKey()
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := v.SigningKey()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, err := v.Get(credential.SigningKeyName)
	require.NoError(t, err)
	assert.Equal(t, string(first), stored)
}

func TestVaultSetGetDelete(t *testing.T) {
	v := credential.NewVault(keyring.NewArrayKeyring(nil))

	_, err := v.Get("missing")
	require.ErrorIs(t, err, keyring.ErrKeyNotFound)

	require.NoError(t, v.Set("k", "v"))
	got, err := v.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, v.Delete("k"))
	_, err = v.Get("k")
	require.ErrorIs(t, err, keyring.ErrKeyNotFound)
}
