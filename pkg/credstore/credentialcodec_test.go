package credstore

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashwell/credstore/pkg/keystore"
)

func TestEncodeDecodeCredential_SecretKey(t *testing.T) {
	cred := SecretKeyCredential{Algorithm: "AES", Key: []byte("top-secret")}

	encoded, err := encodeCredential(cred)
	require.NoError(t, err)
	assert.Equal(t, keystore.EntrySecretKey, encoded.Entry.Kind)

	decoded, err := decodeCredential(TypeSecretKey, encoded.Algorithm, encoded.ParamsDER, encoded.Entry)
	require.NoError(t, err)
	assert.Equal(t, cred, decoded)
}

func TestEncodeDecodeCredential_BearerToken(t *testing.T) {
	cred := BearerTokenCredential{Token: "opaque-token-value"}

	encoded, err := encodeCredential(cred)
	require.NoError(t, err)

	decoded, err := decodeCredential(TypeBearerToken, encoded.Algorithm, encoded.ParamsDER, encoded.Entry)
	require.NoError(t, err)
	assert.Equal(t, cred, decoded)
}

func TestEncodeDecodeCredential_PublicKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	cred := PublicKeyCredential{Algorithm: "Ed25519", Public: pub}
	encoded, err := encodeCredential(cred)
	require.NoError(t, err)

	decoded, err := decodeCredential(TypePublicKey, encoded.Algorithm, encoded.ParamsDER, encoded.Entry)
	require.NoError(t, err)

	got := decoded.(PublicKeyCredential)
	assert.Equal(t, "Ed25519", got.Algorithm)
	assert.Equal(t, pub, got.Public)
}

func TestEncodeDecodeCredential_KeyPair(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	cred := KeyPairCredential{Algorithm: "Ed25519", Public: pub, Private: priv}
	encoded, err := encodeCredential(cred)
	require.NoError(t, err)

	decoded, err := decodeCredential(TypeKeyPair, encoded.Algorithm, encoded.ParamsDER, encoded.Entry)
	require.NoError(t, err)

	got := decoded.(KeyPairCredential)
	assert.Equal(t, pub, got.Public)
	assert.Equal(t, priv, got.Private)
}

func TestEncodeDecodeCredential_X509ChainPublic(t *testing.T) {
	cred := X509ChainCredential{Algorithm: "Ed25519", Certificates: [][]byte{[]byte("leaf-der"), []byte("root-der")}}

	encoded, err := encodeCredential(cred)
	require.NoError(t, err)

	decoded, err := decodeCredential(TypeX509ChainPublic, encoded.Algorithm, encoded.ParamsDER, encoded.Entry)
	require.NoError(t, err)
	assert.Equal(t, cred, decoded)
}

func TestEncodeCredential_X509ChainPublicRejectsEmptyChain(t *testing.T) {
	_, err := encodeCredential(X509ChainCredential{Algorithm: "Ed25519"})
	assert.ErrorIs(t, err, ErrCannotWrite)
}

func TestEncodeDecodeCredential_X509ChainPrivateUsesNativeEntryKind(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	cred := X509ChainPrivateCredential{
		Algorithm:    "Ed25519",
		Private:      priv,
		Certificates: [][]byte{[]byte("leaf-der")},
	}

	encoded, err := encodeCredential(cred)
	require.NoError(t, err)
	assert.Equal(t, keystore.EntryPrivateKeyChain, encoded.Entry.Kind)

	decoded, err := decodeCredential(TypeX509ChainPrivate, encoded.Algorithm, encoded.ParamsDER, encoded.Entry)
	require.NoError(t, err)

	got := decoded.(X509ChainPrivateCredential)
	assert.Equal(t, priv, got.Private)
	assert.Equal(t, cred.Certificates, got.Certificates)
}

func TestEncodeCredential_X509ChainPrivateRejectsEmptyChain(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	_, err = encodeCredential(X509ChainPrivateCredential{Algorithm: "Ed25519", Private: priv})
	assert.ErrorIs(t, err, ErrCannotWrite)
}

func TestDecodeCredential_RejectsWrongEntryKind(t *testing.T) {
	wrongKind := keystore.Entry{Kind: keystore.EntryTrustedCertificate}
	_, err := decodeCredential(TypeSecretKey, "", nil, wrongKind)
	assert.ErrorIs(t, err, ErrInvalidEntryType)
}

func TestDecodeCredential_RejectsUnknownType(t *testing.T) {
	_, err := decodeCredential(CredentialType("made_up"), "", nil, keystore.Entry{Kind: keystore.EntrySecretKey})
	assert.ErrorIs(t, err, ErrUnsupportedCredential)
}
