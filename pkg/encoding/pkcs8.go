// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-keychain.
//
// go-keychain is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package encoding

import (
	"crypto"
	"crypto/x509"
	"fmt"
	"strings"

	"github.com/youmark/pkcs8"
)

// EncodePKCS8 encodes a private key to ASN.1 DER PKCS#8 format, called by
// pkg/credstore's CredentialCodec for KeyPairCredential and
// X509ChainPrivateCredential's private half. credstore never passes a
// password here — the private-key DER is encrypted at rest by the
// underlying container, not per-key — so this always takes the
// unencrypted path, but a caller outside credstore's use may still supply
// one.
//
// Supported key types: *rsa.PrivateKey, *ecdsa.PrivateKey, ed25519.PrivateKey
func EncodePKCS8(privateKey crypto.PrivateKey, password []byte) ([]byte, error) {
	if privateKey == nil {
		return nil, ErrInvalidPrivateKey
	}

	der, err := pkcs8.MarshalPrivateKey(privateKey, password, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PKCS#8: %w", err)
	}

	return der, nil
}

// DecodePKCS8 decodes ASN.1 DER PKCS#8 encoded data to a private key, the
// counterpart CredentialCodec calls when reconstructing a KeyPairCredential
// or X509ChainPrivateCredential from a stored entry.
//
// Returns the private key as crypto.PrivateKey (type assert to specific type if needed).
func DecodePKCS8(data []byte, password []byte) (crypto.PrivateKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	key, err := pkcs8.ParsePKCS8PrivateKey(data, password)
	if err != nil {
		if isPasswordError(err) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to parse PKCS#8: %w", err)
	}

	privKey, ok := key.(crypto.PrivateKey)
	if !ok {
		return nil, ErrInvalidPrivateKey
	}

	return privKey, nil
}

// EncodePublicKeyPKIX encodes a public key to ASN.1 DER PKIX format
// (SubjectPublicKeyInfo), used by CredentialCodec for PublicKeyCredential
// and for the public half of a KeyPairCredential.
//
// Supported key types: *rsa.PublicKey, *ecdsa.PublicKey, ed25519.PublicKey
func EncodePublicKeyPKIX(publicKey crypto.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, ErrInvalidPublicKey
	}

	der, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PKIX public key: %w", err)
	}

	return der, nil
}

// DecodePublicKeyPKIX decodes ASN.1 DER PKIX encoded data to a public key,
// the counterpart CredentialCodec calls when reconstructing a
// PublicKeyCredential or a KeyPairCredential's public half.
//
// Returns the public key as crypto.PublicKey (type assert to specific type if needed).
func DecodePublicKeyPKIX(data []byte) (crypto.PublicKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	pubKey, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKIX public key: %w", err)
	}

	return pubKey, nil
}

// isPasswordError reports whether err looks like youmark/pkcs8's way of
// signaling a wrong decryption password; the package surfaces errors as
// plain strings with no sentinel of its own to compare against. A wrong
// password usually shows up as an ASN.1 structure error after decryption,
// so a structurally malformed DER blob failing with the same ASN.1
// messages is also reported as a password error.
func isPasswordError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	for _, candidate := range []string{
		"pkcs8: incorrect password",
		"incorrect password",
		"asn1: structure error",
		"tags don't match",
	} {
		if strings.Contains(msg, candidate) {
			return true
		}
	}

	return false
}
