package keystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer_SetGetDelete(t *testing.T) {
	c := New()

	entry := Entry{Kind: EntrySecretKey, SecretKeyBytes: []byte("hunter2"), SecretKeyAlgorithm: "AES"}
	require.NoError(t, c.Set("alice", entry))

	got, err := c.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	require.NoError(t, c.Delete("alice"))

	_, err = c.Get("alice")
	assert.ErrorIs(t, err, ErrAliasNotFound)
}

func TestContainer_DeleteMissingAliasIsNotAnError(t *testing.T) {
	c := New()
	assert.NoError(t, c.Delete("nothing-here"))
}

func TestContainer_SetRejectsEmptyAlias(t *testing.T) {
	c := New()
	err := c.Set("", Entry{Kind: EntrySecretKey})
	assert.ErrorIs(t, err, ErrEmptyAlias)
}

func TestContainer_SetRejectsEmptyCertificateChain(t *testing.T) {
	c := New()
	err := c.Set("leaf", Entry{Kind: EntryPrivateKeyChain})
	assert.ErrorIs(t, err, ErrEmptyChain)
}

func TestContainer_Aliases(t *testing.T) {
	c := New()
	require.NoError(t, c.Set("one", Entry{Kind: EntrySecretKey}))
	require.NoError(t, c.Set("two", Entry{Kind: EntrySecretKey}))

	aliases, err := c.Aliases()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, aliases)
}

func TestContainer_OperationsFailAfterClose(t *testing.T) {
	c := New()
	require.NoError(t, c.Set("alice", Entry{Kind: EntrySecretKey}))
	require.NoError(t, c.Close())

	_, err := c.Get("alice")
	assert.ErrorIs(t, err, ErrClosed)

	err = c.Set("bob", Entry{Kind: EntrySecretKey})
	assert.ErrorIs(t, err, ErrClosed)

	err = c.Delete("alice")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = c.Aliases()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestContainer_OverwriteReplacesEntry(t *testing.T) {
	c := New()
	require.NoError(t, c.Set("alice", Entry{Kind: EntrySecretKey, SecretKeyBytes: []byte("first")}))
	require.NoError(t, c.Set("alice", Entry{Kind: EntrySecretKey, SecretKeyBytes: []byte("second")}))

	got, err := c.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got.SecretKeyBytes)
}
