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
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// PEM block types
const (
	PEMTypeRSAPrivateKey       = "RSA PRIVATE KEY"
	PEMTypeECPrivateKey        = "EC PRIVATE KEY"
	PEMTypePrivateKey          = "PRIVATE KEY"
	PEMTypeEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	PEMTypePublicKey           = "PUBLIC KEY"
	PEMTypeCertificate         = "CERTIFICATE"
	PEMTypeCertificateRequest  = "CERTIFICATE REQUEST"
)

// EncodePrivateKeyPEM wraps a private key's PKCS#8 DER in a PEM block, for
// interchange formats outside credstore's own container persistence (which
// stores raw DER, never PEM). Not currently called by any credstore or
// keystore code path — kept alongside EncodePKCS8 as the PEM-wrapped
// counterpart an operator-facing export command would use.
//
// The keyAlgorithm parameter helps determine the PEM block type:
//   - x509.RSA: Uses "RSA PRIVATE KEY" (unencrypted) or "ENCRYPTED PRIVATE KEY" (encrypted)
//   - x509.ECDSA: Uses "EC PRIVATE KEY" (unencrypted) or "ENCRYPTED PRIVATE KEY" (encrypted)
//   - x509.Ed25519: Uses "PRIVATE KEY" (unencrypted) or "ENCRYPTED PRIVATE KEY" (encrypted)
func EncodePrivateKeyPEM(privateKey crypto.PrivateKey, keyAlgorithm x509.PublicKeyAlgorithm, password []byte) ([]byte, error) {
	if privateKey == nil {
		return nil, ErrInvalidPrivateKey
	}

	// Encode to PKCS#8 DER first
	der, err := EncodePKCS8(privateKey, password)
	if err != nil {
		return nil, err
	}

	// Determine PEM block type
	blockType := getPEMBlockType(keyAlgorithm, password)

	// Create PEM block
	block := &pem.Block{
		Type:  blockType,
		Bytes: der,
	}

	// Encode to PEM
	var buf bytes.Buffer
	if err := pem.Encode(&buf, block); err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodePrivateKeyPEM is EncodePrivateKeyPEM's counterpart, unwrapping a
// PEM block back to PKCS#8 DER before delegating to DecodePKCS8. Like
// EncodePrivateKeyPEM, not on any credstore code path today.
//
// Returns the private key as crypto.PrivateKey (type assert to specific type if needed).
func DecodePrivateKeyPEM(data []byte, password []byte) (crypto.PrivateKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	// Decode PEM block
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMEncoding
	}

	// Decode PKCS#8 DER
	return DecodePKCS8(block.Bytes, password)
}

// EncodePublicKeyPEM is EncodePublicKeyPKIX's PEM-wrapped counterpart, for
// the same operator-export use as EncodePrivateKeyPEM.
func EncodePublicKeyPEM(publicKey crypto.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, ErrInvalidPublicKey
	}

	// Encode to PKIX DER
	der, err := EncodePublicKeyPKIX(publicKey)
	if err != nil {
		return nil, err
	}

	// Create PEM block
	block := &pem.Block{
		Type:  PEMTypePublicKey,
		Bytes: der,
	}

	// Encode to PEM
	var buf bytes.Buffer
	if err := pem.Encode(&buf, block); err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodePublicKeyPEM is DecodePublicKeyPKIX's PEM-wrapped counterpart.
//
// Returns the public key as crypto.PublicKey (type assert to specific type if needed).
func DecodePublicKeyPEM(data []byte) (crypto.PublicKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	// Decode PEM block
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMEncoding
	}

	// Decode PKIX DER
	return DecodePublicKeyPKIX(block.Bytes)
}

// EncodeCertificatePEM wraps a single certificate's raw DER in a PEM block.
// credstore's X509ChainCredential stores certificate DER directly (see
// x509ChainDER in pkg/credstore/credentialcodec.go) rather than through
// PEM, so this is an interchange helper, not on that codec's path.
func EncodeCertificatePEM(cert *x509.Certificate) ([]byte, error) {
	if cert == nil {
		return nil, ErrInvalidCertificate
	}

	// Create PEM block from certificate's Raw bytes
	block := &pem.Block{
		Type:  PEMTypeCertificate,
		Bytes: cert.Raw,
	}

	// Encode to PEM
	var buf bytes.Buffer
	if err := pem.Encode(&buf, block); err != nil {
		return nil, fmt.Errorf("failed to encode certificate PEM: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeCertificatePEM is EncodeCertificatePEM's counterpart.
func DecodeCertificatePEM(data []byte) (*x509.Certificate, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	// Decode PEM block
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMEncoding
	}

	// Parse certificate
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return cert, nil
}

// EncodeCertificateChainPEM concatenates multiple certificates into one PEM
// stream, leaf first — the PEM-interchange equivalent of the DER chain
// X509ChainCredential carries internally.
func EncodeCertificateChainPEM(certs []*x509.Certificate) ([]byte, error) {
	if len(certs) == 0 {
		return nil, ErrInvalidCertificate
	}

	var buf bytes.Buffer

	for _, cert := range certs {
		if cert == nil {
			return nil, ErrInvalidCertificate
		}

		block := &pem.Block{
			Type:  PEMTypeCertificate,
			Bytes: cert.Raw,
		}

		if err := pem.Encode(&buf, block); err != nil {
			return nil, fmt.Errorf("failed to encode certificate chain PEM: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// DecodeCertificateChainPEM is EncodeCertificateChainPEM's counterpart,
// returning every certificate found in data in order.
func DecodeCertificateChainPEM(data []byte) ([]*x509.Certificate, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	var certs []*x509.Certificate
	remaining := data

	for len(remaining) > 0 {
		var block *pem.Block
		block, remaining = pem.Decode(remaining)
		if block == nil {
			break
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate in chain: %w", err)
		}

		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, ErrInvalidPEMEncoding
	}

	return certs, nil
}

// getPEMBlockType picks the PEM block type EncodePrivateKeyPEM uses, based
// on whether the key is encrypted and, if not, which algorithm it is.
func getPEMBlockType(keyAlgorithm x509.PublicKeyAlgorithm, password []byte) string {
	// If encrypted, always use ENCRYPTED PRIVATE KEY
	if len(password) > 0 {
		return PEMTypeEncryptedPrivateKey
	}

	// Unencrypted - use algorithm-specific types
	switch keyAlgorithm {
	case x509.RSA:
		return PEMTypeRSAPrivateKey
	case x509.ECDSA:
		return PEMTypeECPrivateKey
	case x509.Ed25519:
		return PEMTypePrivateKey
	default:
		return PEMTypePrivateKey
	}
}
