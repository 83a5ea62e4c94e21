package credstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePassword_Clear(t *testing.T) {
	cred := PasswordCredential{Algorithm: PasswordClear, Params: PasswordParams{Clear: "s3cret"}}
	encoded, err := encodePassword(cred)
	require.NoError(t, err)

	decoded, err := decodePassword(PasswordClear, encoded.Entry.SecretKeyBytes)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", decoded.(PasswordCredential).Params.Clear)
}

func TestEncodeDecodePassword_BCryptNeverStoresClear(t *testing.T) {
	cred := PasswordCredential{Algorithm: PasswordBCrypt, Params: PasswordParams{Clear: "s3cret"}}
	encoded, err := encodePassword(cred)
	require.NoError(t, err)

	decoded, err := decodePassword(PasswordBCrypt, encoded.Entry.SecretKeyBytes)
	require.NoError(t, err)

	params := decoded.(PasswordCredential).Params
	assert.Empty(t, params.Clear)
	assert.NotEmpty(t, params.Hash)
}

func TestPasswordCodecs_EncodeDecodeRoundTrip(t *testing.T) {
	algorithms := []PasswordAlgorithm{
		PasswordScramSHA1,
		PasswordScramSHA256,
		PasswordScramSHA384,
		PasswordScramSHA512,
		PasswordCryptSHA256,
		PasswordCryptSHA512,
		PasswordUnixMD5Crypt,
		PasswordSunCryptMD5,
		PasswordSunCryptMD5BareSalt,
		PasswordDigestMD5,
		PasswordDigestSHA,
		PasswordDigestSHA256,
		PasswordDigestSHA384,
		PasswordDigestSHA512,
		PasswordOTPMD5,
		PasswordOTPSHA1,
		PasswordSaltedDigestMD5First,
		PasswordSaltedDigestMD5Second,
		PasswordSaltedDigestSHA1First,
		PasswordSaltedDigestSHA1Second,
		PasswordSaltedDigestFirst,
		PasswordSaltedDigestSecond,
		PasswordSaltedDigestSHA384First,
		PasswordSaltedDigestSHA384Second,
		PasswordSaltedDigestSHA512First,
		PasswordSaltedDigestSHA512Second,
		PasswordSimpleDigestMD5,
		PasswordSimpleDigestSHA1,
		PasswordSimpleDigest,
		PasswordSimpleDigestSHA384,
		PasswordSimpleDigestSHA512,
	}

	for _, algo := range algorithms {
		t.Run(string(algo), func(t *testing.T) {
			cred := PasswordCredential{
				Algorithm: algo,
				Params: PasswordParams{
					Clear:    "s3cret",
					Username: "alice",
					Realm:    "example.com",
				},
			}
			encoded, err := encodePassword(cred)
			require.NoError(t, err)

			decoded, err := decodePassword(algo, encoded.Entry.SecretKeyBytes)
			require.NoError(t, err)
			assert.NotEmpty(t, decoded.(PasswordCredential).Params.Hash)
		})
	}
}

func TestPasswordCodec_ScramIsDeterministicGivenSameSaltAndIterations(t *testing.T) {
	salt := []byte("fixed-salt-value")
	cred := PasswordCredential{
		Algorithm: PasswordScramSHA256,
		Params:    PasswordParams{Clear: "s3cret", Salt: salt, Iterations: 100000},
	}
	first, err := encodePassword(cred)
	require.NoError(t, err)
	second, err := encodePassword(cred)
	require.NoError(t, err)
	assert.Equal(t, first.Entry.SecretKeyBytes, second.Entry.SecretKeyBytes)
}

func TestPasswordCodec_UnsupportedDESAlgorithmsAreRejected(t *testing.T) {
	for _, algo := range []PasswordAlgorithm{PasswordUnixDESCrypt, PasswordBSDCryptDES} {
		_, err := encodePassword(PasswordCredential{Algorithm: algo, Params: PasswordParams{Clear: "s3cret"}})
		assert.ErrorIs(t, err, ErrUnsupportedCredential, "expected %s to be rejected", algo)
	}
}

func TestMaskedPassword_EncodeUnmaskRoundTrip(t *testing.T) {
	cred := PasswordCredential{Algorithm: PasswordMasked, Params: PasswordParams{Clear: "s3cret"}}
	encoded, err := encodePassword(cred)
	require.NoError(t, err)

	decoded, err := decodePassword(PasswordMasked, encoded.Entry.SecretKeyBytes)
	require.NoError(t, err)

	params := decoded.(PasswordCredential).Params
	clear, err := Unmask(params)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", clear)
}

func TestMaskedPassword_UnmaskFailsWithWrongKeyMaterial(t *testing.T) {
	cred := PasswordCredential{Algorithm: PasswordMasked, Params: PasswordParams{Clear: "s3cret"}}
	encoded, err := encodePassword(cred)
	require.NoError(t, err)

	decoded, err := decodePassword(PasswordMasked, encoded.Entry.SecretKeyBytes)
	require.NoError(t, err)

	params := decoded.(PasswordCredential).Params
	params.InitialKeyMaterial = []byte("not-the-right-key-material-32b!")

	_, err = Unmask(params)
	assert.Error(t, err)
}

func TestOTP_SequenceAdvancesDigest(t *testing.T) {
	base := PasswordParams{Clear: "s3cret", SeedString: "seed"}

	zero, err := passwordCodecs[PasswordOTPMD5].encode(base)
	require.NoError(t, err)

	advanced := base
	advanced.SequenceNumber = 1
	one, err := passwordCodecs[PasswordOTPMD5].encode(advanced)
	require.NoError(t, err)

	assert.NotEqual(t, zero, one)
}
