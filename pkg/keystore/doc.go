// Package keystore implements a minimal conventional key store: a single
// textual alias maps to exactly one entry, and an entry is one of a secret
// key, a private key with its certificate chain, or a trusted certificate.
//
// It intentionally knows nothing about credential types, algorithms, or
// parameters — that richer model is built on top of it by pkg/credstore.
// A Container is persisted as a whole, never entry-by-entry, through a
// pkg/storage.Backend, optionally encrypted under a password.
package keystore
