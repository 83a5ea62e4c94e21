package credstore

// CredentialType names one of the closed set of credential variants this
// store knows how to encode, index, and retrieve.
type CredentialType string

// Values use only [a-z0-9_] because they are embedded as the second
// segment of the AliasCodec grammar, which excludes hyphens for that
// segment (see pkg/credstore/aliascodec.go).
const (
	TypeSecretKey        CredentialType = "secret_key"
	TypePublicKey        CredentialType = "public_key"
	TypeKeyPair          CredentialType = "key_pair"
	TypeX509ChainPublic  CredentialType = "x509_chain_public"
	TypeX509ChainPrivate CredentialType = "x509_chain_private"
	TypeBearerToken      CredentialType = "bearer_token"
	TypePassword         CredentialType = "password"
)

// IsSubtypeOf reports whether t should satisfy a lookup that asked for
// want, supporting the loose-type-match semantics of Index.Lookup. Today
// every type is only a subtype of itself; this hook exists so a future
// variant hierarchy (e.g. a specific password algorithm narrowing the
// generic TypePassword request) has a single place to extend.
func (t CredentialType) IsSubtypeOf(want CredentialType) bool {
	return t == want
}

// Credential is implemented by every concrete credential variant this
// store can hold.
type Credential interface {
	CredentialType() CredentialType
}

// SecretKeyCredential wraps raw symmetric key material.
type SecretKeyCredential struct {
	Algorithm string
	Key       []byte
}

func (SecretKeyCredential) CredentialType() CredentialType { return TypeSecretKey }

// PublicKeyCredential wraps an asymmetric public key.
type PublicKeyCredential struct {
	Algorithm string
	Public    interface{} // crypto.PublicKey
}

func (PublicKeyCredential) CredentialType() CredentialType { return TypePublicKey }

// KeyPairCredential wraps a public/private key pair of the same algorithm.
type KeyPairCredential struct {
	Algorithm string
	Public    interface{} // crypto.PublicKey
	Private   interface{} // crypto.PrivateKey
}

func (KeyPairCredential) CredentialType() CredentialType { return TypeKeyPair }

// X509ChainCredential wraps an ordered, non-empty X.509 certificate chain
// with no associated private key (leaf certificate first).
type X509ChainCredential struct {
	Algorithm   string
	Certificates [][]byte // DER-encoded, leaf first
}

func (X509ChainCredential) CredentialType() CredentialType { return TypeX509ChainPublic }

// X509ChainPrivateCredential pairs a private key with its certificate chain.
type X509ChainPrivateCredential struct {
	Algorithm    string
	Private      interface{} // crypto.PrivateKey
	Certificates [][]byte    // DER-encoded, leaf first
}

func (X509ChainPrivateCredential) CredentialType() CredentialType { return TypeX509ChainPrivate }

// BearerTokenCredential wraps an opaque textual bearer token.
type BearerTokenCredential struct {
	Token string
}

func (BearerTokenCredential) CredentialType() CredentialType { return TypeBearerToken }

// PasswordAlgorithm names one of the closed set of password encodings this
// store supports.
type PasswordAlgorithm string

// PasswordUnixDESCrypt and PasswordBSDCryptDES are named for completeness
// against the full closed set but have no codec registered in
// passwordalgo.go: no dependency in this module's reach implements single
// DES, so Store/Retrieve against either returns ErrUnsupportedCredential.
//
// The salted-simple-digest and simple-digest families are named once per
// hash function (MD5, SHA-1, SHA-256, SHA-384, SHA-512), mirroring
// KeyStoreCredentialStore.java's ALGORITHM_*_DIGEST_* constants, with one
// exception: MD2. No dependency in this module's reach (stdlib or the
// broader ecosystem) implements MD2, so PasswordSimpleDigestMD2 is not
// defined at all — there is no hash to register it against, unlike
// PasswordUnixDESCrypt/PasswordBSDCryptDES above which at least have a name
// to return ErrUnsupportedCredential against.
const (
	PasswordClear                    PasswordAlgorithm = "clear"
	PasswordBCrypt                   PasswordAlgorithm = "bcrypt"
	PasswordScramSHA1                PasswordAlgorithm = "scram-sha-1"
	PasswordScramSHA256              PasswordAlgorithm = "scram-sha-256"
	PasswordScramSHA384              PasswordAlgorithm = "scram-sha-384"
	PasswordScramSHA512              PasswordAlgorithm = "scram-sha-512"
	PasswordCryptSHA256              PasswordAlgorithm = "crypt-sha-256"
	PasswordCryptSHA512              PasswordAlgorithm = "crypt-sha-512"
	PasswordSunCryptMD5              PasswordAlgorithm = "sun-crypt-md5"
	PasswordSunCryptMD5BareSalt      PasswordAlgorithm = "sun-crypt-md5-bare-salt"
	PasswordUnixMD5Crypt             PasswordAlgorithm = "unix-md5-crypt"
	PasswordUnixDESCrypt             PasswordAlgorithm = "unix-des-crypt"
	PasswordBSDCryptDES              PasswordAlgorithm = "bsd-crypt-des"
	PasswordDigestMD5                PasswordAlgorithm = "digest-md5"
	PasswordDigestSHA                PasswordAlgorithm = "digest-sha"
	PasswordDigestSHA256             PasswordAlgorithm = "digest-sha-256"
	PasswordDigestSHA384             PasswordAlgorithm = "digest-sha-384"
	PasswordDigestSHA512             PasswordAlgorithm = "digest-sha-512"
	PasswordOTPMD5                   PasswordAlgorithm = "otp-md5"
	PasswordOTPSHA1                  PasswordAlgorithm = "otp-sha1"
	PasswordSaltedDigestMD5First     PasswordAlgorithm = "salted-simple-digest-md5"
	PasswordSaltedDigestMD5Second    PasswordAlgorithm = "salted-simple-digest-md5-reversed"
	PasswordSaltedDigestSHA1First    PasswordAlgorithm = "salted-simple-digest-sha-1"
	PasswordSaltedDigestSHA1Second   PasswordAlgorithm = "salted-simple-digest-sha-1-reversed"
	PasswordSaltedDigestFirst        PasswordAlgorithm = "salted-simple-digest"
	PasswordSaltedDigestSecond       PasswordAlgorithm = "salted-simple-digest-reversed"
	PasswordSaltedDigestSHA384First  PasswordAlgorithm = "salted-simple-digest-sha-384"
	PasswordSaltedDigestSHA384Second PasswordAlgorithm = "salted-simple-digest-sha-384-reversed"
	PasswordSaltedDigestSHA512First  PasswordAlgorithm = "salted-simple-digest-sha-512"
	PasswordSaltedDigestSHA512Second PasswordAlgorithm = "salted-simple-digest-sha-512-reversed"
	PasswordSimpleDigestMD5          PasswordAlgorithm = "simple-digest-md5"
	PasswordSimpleDigestSHA1         PasswordAlgorithm = "simple-digest-sha-1"
	PasswordSimpleDigest             PasswordAlgorithm = "simple-digest"
	PasswordSimpleDigestSHA384       PasswordAlgorithm = "simple-digest-sha-384"
	PasswordSimpleDigestSHA512       PasswordAlgorithm = "simple-digest-sha-512"
	PasswordMasked                   PasswordAlgorithm = "masked"
)

// PasswordCredential wraps one of the closed set of password algorithms.
// Algorithm selects which fields of Params are meaningful; see
// pkg/credstore/passwordalgo.go for the per-algorithm codecs.
type PasswordCredential struct {
	Algorithm PasswordAlgorithm
	Params    PasswordParams
}

func (PasswordCredential) CredentialType() CredentialType { return TypePassword }

// PasswordParams carries every field any supported password algorithm
// might need. Only the fields relevant to Algorithm are populated; this
// mirrors the closed, finite set of algorithm-specific "spec" shapes
// described in the DER encoding table, collapsed into one Go struct
// instead of one type per algorithm so PasswordCredential stays a single
// concrete type.
type PasswordParams struct {
	// Clear holds the plaintext password for PasswordClear and is also the
	// input to every codec that must hash or encrypt a clear password.
	Clear string

	Hash       []byte
	Salt       []byte
	Iterations int

	// Username/Realm are used by the digest-* family (RFC 2617 digest).
	Username string
	Realm    string

	// SequenceNumber and SeedString are used by the OTP-* family.
	SequenceNumber int
	SeedString     string

	// InitialKeyMaterial and MaskedBytes are used by the masked-password family.
	InitialKeyMaterial []byte
	MaskedBytes        []byte
}
