// Package credstore layers a richer credential model over a plain
// key-value key store. Where the underlying container (pkg/keystore)
// only knows how to hold a secret key, a private key with its
// certificate chain, or a trusted certificate under a single textual
// alias, credstore lets several distinct credentials share one
// user-facing alias, disambiguated by credential type, algorithm, and
// optional algorithm parameters.
//
// # Overview
//
// A Store wraps a pkg/keystore.Container and an in-memory Index. Every
// Store call maps a (alias, type, algorithm, params) tuple to a single
// underlying alias using AliasCodec, and every credential value is
// transported through the container as an opaque secret-key entry (or,
// for a private key with its certificate chain, the container's native
// private-key-chain entry) using CredentialCodec.
//
// # Key Concepts
//
// Credential: one of a closed set of variants — SecretKeyCredential,
// PublicKeyCredential, KeyPairCredential, X509ChainCredential,
// X509ChainPrivateCredential, BearerTokenCredential, PasswordCredential.
//
// AliasCodec: encodes/decodes the composite underlying alias
// "<alias>/<type>/[<algorithm>]/[<params>]".
//
// Index: the in-memory alias -> type -> algorithm -> params -> underlying
// alias tree that makes Retrieve and Remove fast and supports loose
// type-match lookups.
//
// ProtectionParameter: the password (or nil) protecting the underlying
// container. Masked-password credentials carry their own key material in
// their PasswordParams and do not use it.
//
// # Basic Usage
//
//	store := credstore.NewStore()
//	err := store.Initialize(credstore.Config{
//	    Location:   "/var/lib/credstore/creds.store",
//	    Modifiable: true,
//	    Create:     true,
//	}, credstore.NewPasswordFromString("store-password"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.Store("db-password", credstore.PasswordCredential{
//	    Algorithm: credstore.PasswordClear,
//	    Params:    credstore.PasswordParams{Clear: "s3cret"},
//	}, nil, nil)
//
//	cred, err := store.Retrieve("db-password", credstore.TypePassword, "", nil)
//
//	// Close never flushes on its own — it releases the underlying
//	// container but has no password cached to re-encrypt with. A write
//	// that should survive process exit needs an explicit Flush first.
//	err = store.Flush(credstore.NewPasswordFromString("store-password"))
//
// # Security Considerations
//
// The underlying container is encrypted under the store's protection
// parameter using AES-256-GCM with a PBKDF2-derived key; an empty or nil
// password stores the container in the clear, which should only be used
// for development or when Location is empty. Password credentials other
// than PasswordClear are one-way hashed (or, for PasswordMasked,
// symmetrically encrypted) and this package never returns a clear
// password from a hashed variant; PasswordClear stores and returns the
// password as given.
//
// # Thread Safety
//
// Store is safe for concurrent use. Store, Remove, Flush, and Initialize
// take a write lock; Retrieve and Aliases take a read lock. Credential
// values returned by Retrieve are not shared state and may be used
// freely by the caller.
//
// # Error Handling
//
// Errors are sentinel values in errors.go, meant to be compared with
// errors.Is:
//
//	if errors.Is(err, credstore.ErrCredentialNotFound) {
//	    // handle a miss
//	}
//
// # Testing
//
// For testing, use an empty Location (a pure in-memory store) or a
// temporary directory:
//
//	tempDir, _ := os.MkdirTemp("", "credstore-test")
//	defer os.RemoveAll(tempDir)
//
//	store := credstore.NewStore()
//	_ = store.Initialize(credstore.Config{
//	    Location: filepath.Join(tempDir, "creds.store"),
//	    Create:   true,
//	}, nil)
//	defer store.Close()
package credstore
