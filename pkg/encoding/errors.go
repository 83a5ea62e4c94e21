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

import "errors"

var (
	// ErrInvalidPrivateKey is returned by EncodePKCS8/DecodePKCS8 (and
	// their PEM-wrapped counterparts) for a nil key or a DER blob that
	// fails to assert back to crypto.PrivateKey.
	ErrInvalidPrivateKey = errors.New("encoding: invalid private key")

	// ErrInvalidPublicKey is returned by EncodePublicKeyPKIX for a nil key.
	ErrInvalidPublicKey = errors.New("encoding: invalid public key")

	// ErrInvalidCertificate is returned by the certificate PEM helpers for
	// a nil *x509.Certificate or an empty chain.
	ErrInvalidCertificate = errors.New("encoding: invalid certificate")

	// ErrInvalidData is returned by every Decode* function in this
	// package when handed a zero-length input.
	ErrInvalidData = errors.New("encoding: invalid data")

	// ErrInvalidPassword is DecodePKCS8's translation of youmark/pkcs8's
	// unsentineled "wrong password" string error (see isPasswordError).
	ErrInvalidPassword = errors.New("encoding: invalid password")

	// ErrPasswordRequired is reserved for a DecodePKCS8 path that
	// distinguishes "no password supplied" from "wrong password
	// supplied"; youmark/pkcs8 does not expose that distinction today, so
	// DecodePKCS8 currently folds both into ErrInvalidPassword.
	ErrPasswordRequired = errors.New("encoding: password required")

	// ErrInvalidPEMEncoding is returned by the PEM Decode* functions when
	// pem.Decode finds no block, or finds zero certificates in a chain.
	ErrInvalidPEMEncoding = errors.New("encoding: invalid PEM encoding")
)
