package credstore

import (
	"encoding/asn1"
	"fmt"

	"github.com/hashwell/credstore/pkg/encoding"
	"github.com/hashwell/credstore/pkg/keystore"
)

// encodedCredential is what encodeCredential produces: the underlying
// entry to store and the algorithm/params to fold into the alias.
type encodedCredential struct {
	Entry     keystore.Entry
	Algorithm string
	ParamsDER []byte
}

// keystoreSecretEntry wraps der as an opaque secret-key entry. It is the
// transport shape every password codec's output is stored in, since the
// underlying container has no "opaque blob" kind of its own.
func keystoreSecretEntry(der []byte) keystore.Entry {
	return keystore.Entry{Kind: keystore.EntrySecretKey, SecretKeyBytes: der}
}

// keyPairDER is the DER shape of a KeyPairCredential: SEQUENCE { publicSPKI, privatePKCS8 }.
type keyPairDER struct {
	PublicSPKI   []byte
	PrivatePKCS8 []byte
}

// x509ChainDER is the DER shape of an X509ChainCredential: INTEGER count, then the chain.
type x509ChainDER struct {
	Count        int
	Certificates [][]byte
}

// encodeCredential turns cred into the bytes that belong in the
// underlying container, plus the algorithm/parameter payload that gets
// folded into the alias.
func encodeCredential(cred Credential) (encodedCredential, error) {
	switch c := cred.(type) {
	case SecretKeyCredential:
		return encodedCredential{
			Entry: keystore.Entry{
				Kind:               keystore.EntrySecretKey,
				SecretKeyBytes:     c.Key,
				SecretKeyAlgorithm: c.Algorithm,
			},
			Algorithm: c.Algorithm,
		}, nil

	case PublicKeyCredential:
		der, err := encoding.EncodePublicKeyPKIX(c.Public)
		if err != nil {
			return encodedCredential{}, fmt.Errorf("%w: %v", ErrCannotWrite, err)
		}
		return encodedCredential{
			Entry: keystore.Entry{
				Kind:               keystore.EntrySecretKey,
				SecretKeyBytes:     der,
				SecretKeyAlgorithm: c.Algorithm,
			},
			Algorithm: c.Algorithm,
		}, nil

	case KeyPairCredential:
		pub, err := encoding.EncodePublicKeyPKIX(c.Public)
		if err != nil {
			return encodedCredential{}, fmt.Errorf("%w: %v", ErrCannotWrite, err)
		}
		priv, err := encoding.EncodePKCS8(c.Private, nil)
		if err != nil {
			return encodedCredential{}, fmt.Errorf("%w: %v", ErrCannotWrite, err)
		}
		der, err := asn1.Marshal(keyPairDER{PublicSPKI: pub, PrivatePKCS8: priv})
		if err != nil {
			return encodedCredential{}, fmt.Errorf("%w: %v", ErrCannotWrite, err)
		}
		return encodedCredential{
			Entry: keystore.Entry{
				Kind:               keystore.EntrySecretKey,
				SecretKeyBytes:     der,
				SecretKeyAlgorithm: c.Algorithm,
			},
			Algorithm: c.Algorithm,
		}, nil

	case X509ChainCredential:
		if len(c.Certificates) == 0 {
			return encodedCredential{}, fmt.Errorf("%w: certificate chain must not be empty", ErrCannotWrite)
		}
		der, err := asn1.Marshal(x509ChainDER{Count: len(c.Certificates), Certificates: c.Certificates})
		if err != nil {
			return encodedCredential{}, fmt.Errorf("%w: %v", ErrCannotWrite, err)
		}
		return encodedCredential{
			Entry: keystore.Entry{
				Kind:               keystore.EntrySecretKey,
				SecretKeyBytes:     der,
				SecretKeyAlgorithm: c.Algorithm,
			},
			Algorithm: c.Algorithm,
		}, nil

	case X509ChainPrivateCredential:
		if len(c.Certificates) == 0 {
			return encodedCredential{}, fmt.Errorf("%w: certificate chain must not be empty", ErrCannotWrite)
		}
		priv, err := encoding.EncodePKCS8(c.Private, nil)
		if err != nil {
			return encodedCredential{}, fmt.Errorf("%w: %v", ErrCannotWrite, err)
		}
		return encodedCredential{
			Entry: keystore.Entry{
				Kind:                keystore.EntryPrivateKeyChain,
				PrivateKeyDER:       priv,
				CertificateChainDER: c.Certificates,
			},
			Algorithm: c.Algorithm,
		}, nil

	case BearerTokenCredential:
		return encodedCredential{
			Entry: keystore.Entry{
				Kind:           keystore.EntrySecretKey,
				SecretKeyBytes: []byte(c.Token),
			},
		}, nil

	case PasswordCredential:
		return encodePassword(c)

	default:
		return encodedCredential{}, fmt.Errorf("%w: %T", ErrUnsupportedCredential, cred)
	}
}

// decodeCredential rebuilds a Credential from an underlying entry given
// the type/algorithm/params recovered from its alias.
func decodeCredential(typ CredentialType, algorithm string, paramsDER []byte, entry keystore.Entry) (Credential, error) {
	switch typ {
	case TypeSecretKey:
		if entry.Kind != keystore.EntrySecretKey {
			return nil, ErrInvalidEntryType
		}
		return SecretKeyCredential{Algorithm: algorithm, Key: entry.SecretKeyBytes}, nil

	case TypePublicKey:
		if entry.Kind != keystore.EntrySecretKey {
			return nil, ErrInvalidEntryType
		}
		pub, err := encoding.DecodePublicKeyPKIX(entry.SecretKeyBytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCannotRead, err)
		}
		return PublicKeyCredential{Algorithm: algorithm, Public: pub}, nil

	case TypeKeyPair:
		if entry.Kind != keystore.EntrySecretKey {
			return nil, ErrInvalidEntryType
		}
		var kp keyPairDER
		if _, err := asn1.Unmarshal(entry.SecretKeyBytes, &kp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCannotRead, err)
		}
		pub, err := encoding.DecodePublicKeyPKIX(kp.PublicSPKI)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCannotRead, err)
		}
		priv, err := encoding.DecodePKCS8(kp.PrivatePKCS8, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCannotRead, err)
		}
		return KeyPairCredential{Algorithm: algorithm, Public: pub, Private: priv}, nil

	case TypeX509ChainPublic:
		if entry.Kind != keystore.EntrySecretKey {
			return nil, ErrInvalidEntryType
		}
		var chain x509ChainDER
		if _, err := asn1.Unmarshal(entry.SecretKeyBytes, &chain); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCannotRead, err)
		}
		return X509ChainCredential{Algorithm: algorithm, Certificates: chain.Certificates}, nil

	case TypeX509ChainPrivate:
		if entry.Kind != keystore.EntryPrivateKeyChain {
			return nil, ErrInvalidEntryType
		}
		priv, err := encoding.DecodePKCS8(entry.PrivateKeyDER, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCannotRead, err)
		}
		return X509ChainPrivateCredential{
			Algorithm:    algorithm,
			Private:      priv,
			Certificates: entry.CertificateChainDER,
		}, nil

	case TypeBearerToken:
		if entry.Kind != keystore.EntrySecretKey {
			return nil, ErrInvalidEntryType
		}
		return BearerTokenCredential{Token: string(entry.SecretKeyBytes)}, nil

	case TypePassword:
		if entry.Kind != keystore.EntrySecretKey {
			return nil, ErrInvalidEntryType
		}
		return decodePassword(PasswordAlgorithm(algorithm), entry.SecretKeyBytes)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCredential, typ)
	}
}
