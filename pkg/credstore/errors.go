package credstore

import "errors"

// Lifecycle errors.
var (
	// ErrNotInitialized is returned by any operation attempted before
	// Initialize has completed successfully.
	ErrNotInitialized = errors.New("credstore: store not initialized")

	// ErrAutomaticCreationDisabled is returned by Initialize when no
	// container exists at Location and Config.Create is false.
	ErrAutomaticCreationDisabled = errors.New("credstore: no existing store at location and automatic creation is disabled")

	// ErrCannotInitialize is returned when the underlying container
	// cannot be opened or decoded during Initialize.
	ErrCannotInitialize = errors.New("credstore: cannot initialize store")
)

// Operation errors.
var (
	// ErrCannotWrite is returned when Store cannot encode the credential
	// or place it into the underlying container.
	ErrCannotWrite = errors.New("credstore: cannot write credential")

	// ErrCannotRead is returned when Retrieve cannot decode a matched
	// underlying entry.
	ErrCannotRead = errors.New("credstore: cannot read credential")

	// ErrCannotRemove is returned when Remove cannot delete a matched
	// underlying entry.
	ErrCannotRemove = errors.New("credstore: cannot remove credential")

	// ErrCannotFlush is returned when Flush cannot persist the container.
	ErrCannotFlush = errors.New("credstore: cannot flush store")
)

// Data and shape errors.
var (
	// ErrUnsupportedCredential is returned for a credential variant or
	// password algorithm outside the closed set this store understands.
	ErrUnsupportedCredential = errors.New("credstore: unsupported credential type or algorithm")

	// ErrInvalidEntryType indicates an underlying entry exists but its
	// kind contradicts the credential type it is indexed under.
	ErrInvalidEntryType = errors.New("credstore: underlying entry kind does not match indexed credential type")

	// ErrInvalidProtectionParameter is returned when a protection
	// parameter is supplied in a shape this store does not accept.
	ErrInvalidProtectionParameter = errors.New("credstore: invalid protection parameter")

	// ErrNonModifiable is returned by Store or Remove on a store opened
	// with Config.Modifiable == false.
	ErrNonModifiable = errors.New("credstore: store is not modifiable")

	// ErrAliasNotFound indicates no entry matches the requested alias. No
	// Store method returns it; Retrieve reports an unknown alias with
	// ErrCredentialNotFound.
	ErrAliasNotFound = errors.New("credstore: alias not found")

	// ErrCredentialNotFound indicates no entry matches the requested
	// alias/type/algorithm/parameters, whether or not the alias itself is
	// indexed.
	ErrCredentialNotFound = errors.New("credstore: credential not found")
)
