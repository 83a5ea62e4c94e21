package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashwell/credstore/pkg/storage"
	"github.com/hashwell/credstore/pkg/storage/file"
)

func TestSaveLoad_RoundTripUnencrypted(t *testing.T) {
	backend, err := storage.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	c := New()
	require.NoError(t, c.Set("alice", Entry{Kind: EntrySecretKey, SecretKeyBytes: []byte("s3cret"), SecretKeyAlgorithm: "AES"}))

	require.NoError(t, Save(c, backend, "container", nil))

	loaded, err := Load(backend, "container", nil)
	require.NoError(t, err)

	entry, err := loaded.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), entry.SecretKeyBytes)
	assert.Equal(t, "AES", entry.SecretKeyAlgorithm)
}

func TestSaveLoad_RoundTripEncrypted(t *testing.T) {
	backend, err := storage.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	c := New()
	require.NoError(t, c.Set("alice", Entry{Kind: EntrySecretKey, SecretKeyBytes: []byte("s3cret")}))

	password := []byte("correct-password")
	require.NoError(t, Save(c, backend, "container", password))

	loaded, err := Load(backend, "container", password)
	require.NoError(t, err)

	entry, err := loaded.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), entry.SecretKeyBytes)
}

func TestLoad_WrongPasswordFails(t *testing.T) {
	backend, err := storage.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	c := New()
	require.NoError(t, c.Set("alice", Entry{Kind: EntrySecretKey, SecretKeyBytes: []byte("s3cret")}))
	require.NoError(t, Save(c, backend, "container", []byte("correct-password")))

	_, err = Load(backend, "container", []byte("wrong-password"))
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestLoad_EmptyPasswordAgainstEncryptedContainerFails(t *testing.T) {
	backend, err := storage.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	c := New()
	require.NoError(t, c.Set("alice", Entry{Kind: EntrySecretKey, SecretKeyBytes: []byte("s3cret")}))
	require.NoError(t, Save(c, backend, "container", []byte("correct-password")))

	_, err = Load(backend, "container", nil)
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestSaveLoad_EmptyContainer(t *testing.T) {
	backend, err := storage.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	c := New()
	require.NoError(t, Save(c, backend, "container", nil))

	loaded, err := Load(backend, "container", nil)
	require.NoError(t, err)

	aliases, err := loaded.Aliases()
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestSave_ClosedContainerFails(t *testing.T) {
	backend, err := storage.NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()

	c := New()
	require.NoError(t, c.Close())

	err = Save(c, backend, "container", nil)
	assert.ErrorIs(t, err, ErrClosed)
}

// TestSave_FlushFailureLeavesLocationUntouched pins testable property 8
// against Save itself, not just the file.FileStorage.PutAtomic it
// delegates to: Save writes a real container, then a second Save is
// forced to fail by revoking write access to the backend directory, and
// the on-disk container must still Load exactly as it did before the
// failed attempt.
func TestSave_FlushFailureLeavesLocationUntouched(t *testing.T) {
	dir := t.TempDir()
	keysDir := filepath.Join(dir, "keys")
	require.NoError(t, os.MkdirAll(keysDir, 0700))

	backend, err := file.New(dir)
	require.NoError(t, err)
	defer backend.Close()

	c := New()
	require.NoError(t, c.Set("alice", Entry{Kind: EntrySecretKey, SecretKeyBytes: []byte("s3cret"), SecretKeyAlgorithm: "AES"}))
	require.NoError(t, Save(c, backend, "keys/container", nil))

	require.NoError(t, os.Chmod(keysDir, 0500))
	defer func() { _ = os.Chmod(keysDir, 0700) }()

	c2 := New()
	require.NoError(t, c2.Set("bob", Entry{Kind: EntrySecretKey, SecretKeyBytes: []byte("should-not-land"), SecretKeyAlgorithm: "AES"}))
	err = Save(c2, backend, "keys/container", nil)
	assert.Error(t, err, "Save into a read-only directory should fail")

	require.NoError(t, os.Chmod(keysDir, 0700))

	loaded, err := Load(backend, "keys/container", nil)
	require.NoError(t, err)
	aliases, err := loaded.Aliases()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice"}, aliases, "failed Save must leave the previously saved container untouched")

	entry, err := loaded.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), entry.SecretKeyBytes)
}
