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

package storage

import "errors"

var (
	// ErrClosed is returned by the in-memory Backend (pkg/storage) once
	// Close has been called; pkg/keystore's Container surfaces this when
	// an operation is attempted after it, too, under its own sentinel.
	ErrClosed = errors.New("storage: closed")

	// ErrNotFound is returned by every Backend implementation's Get/Delete
	// when the key has no value — pkg/credstore's Store translates this
	// into ErrCredentialNotFound at the façade.
	ErrNotFound = errors.New("storage: not found")

	// ErrAlreadyExists is reserved for a future Backend.Put variant that
	// rejects an overwrite instead of silently replacing; no Backend in
	// this tree takes that option today — Put always overwrites.
	ErrAlreadyExists = errors.New("storage: already exists")

	// ErrInvalidID is returned by pkg/storage/file's FileStorage when a
	// key fails validateStorageKey (empty, a null byte, an absolute path,
	// or a path-traversal attempt).
	ErrInvalidID = errors.New("storage: invalid ID")

	// ErrInvalidData is reserved for a Backend that validates a value's
	// shape before storing it; the current Backend implementations treat
	// any non-nil byte slice as opaque.
	ErrInvalidData = errors.New("storage: invalid data")
)
