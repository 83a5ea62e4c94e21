package credstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAlias_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		alias     string
		typ       CredentialType
		algorithm string
		params    []byte
	}{
		{name: "no algorithm no params", alias: "MyAlias", typ: TypeBearerToken},
		{name: "algorithm only", alias: "db-password", typ: TypePassword, algorithm: "bcrypt"},
		{name: "algorithm and params", alias: "signing-key", typ: TypeKeyPair, algorithm: "RSA", params: []byte{0x30, 0x03, 0x02, 0x01, 0x05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			underlying := EncodeAlias(tt.alias, tt.typ, tt.algorithm, tt.params)
			decoded, err := DecodeAlias(underlying)
			require.NoError(t, err)

			assert.Equal(t, foldLower(tt.alias), decoded.Alias)
			assert.Equal(t, tt.typ, decoded.Type)
			assert.Equal(t, foldLower(tt.algorithm), decoded.Algorithm)
			assert.Equal(t, tt.params, decoded.ParamsDER)
		})
	}
}

func TestEncodeAlias_IsCaseInsensitive(t *testing.T) {
	a := EncodeAlias("MyAlias", TypeSecretKey, "AES", nil)
	b := EncodeAlias("myalias", TypeSecretKey, "aes", nil)
	assert.Equal(t, a, b)
}

func TestDecodeAlias_RejectsUnrecognizedFormat(t *testing.T) {
	tests := []string{
		"",
		"no-slashes-at-all",
		"alias/Invalid_Type_With_Caps/algo/",
		"alias/type/algo with spaces/",
		"alias/type//not-base32!!!",
	}
	for _, underlying := range tests {
		_, err := DecodeAlias(underlying)
		assert.ErrorIs(t, err, ErrInvalidAliasFormat, "expected rejection for %q", underlying)
	}
}

func TestDecodeAlias_AliasSegmentMayContainSlashes(t *testing.T) {
	underlying := EncodeAlias("path/like/alias", TypeSecretKey, "aes", nil)
	decoded, err := DecodeAlias(underlying)
	require.NoError(t, err)
	assert.Equal(t, "path/like/alias", decoded.Alias)
}
