package keystore

import "sync"

// EntryKind identifies which of the three entry shapes a given alias holds.
type EntryKind int

const (
	// EntrySecretKey holds opaque key bytes tagged with an algorithm name.
	EntrySecretKey EntryKind = iota

	// EntryPrivateKeyChain holds a PKCS#8-encoded private key plus an
	// ordered, non-empty chain of DER-encoded X.509 certificates.
	EntryPrivateKeyChain

	// EntryTrustedCertificate holds a single DER-encoded X.509 certificate.
	EntryTrustedCertificate
)

// Entry is the union of everything a Container can hold under one alias.
// Exactly one of the fields relevant to Kind is populated; gob requires the
// fields to be exported, so zero values of the unused fields are harmless.
type Entry struct {
	Kind EntryKind

	// SecretKeyBytes and SecretKeyAlgorithm are set when Kind == EntrySecretKey.
	SecretKeyBytes     []byte
	SecretKeyAlgorithm string

	// PrivateKeyDER is the PKCS#8 encoding of the private key, and
	// CertificateChainDER is the ordered DER encoding of each certificate
	// in the chain (leaf first). Both are set when Kind == EntryPrivateKeyChain.
	PrivateKeyDER        []byte
	CertificateChainDER  [][]byte

	// CertificateDER is set when Kind == EntryTrustedCertificate.
	CertificateDER []byte
}

// Container is a generic keyed store of Entry values, guarded by a single
// reader-writer lock. It is the "conventional key store" the credential
// store in pkg/credstore is built on top of.
type Container struct {
	mu      sync.RWMutex
	entries map[string]Entry
	closed  bool
}

// New returns an empty, open Container.
func New() *Container {
	return &Container{
		entries: make(map[string]Entry),
	}
}

// Get returns the entry stored under alias.
func (c *Container) Get(alias string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return Entry{}, ErrClosed
	}
	e, ok := c.entries[alias]
	if !ok {
		return Entry{}, ErrAliasNotFound
	}
	return e, nil
}

// Set stores entry under alias, replacing any prior entry.
func (c *Container) Set(alias string, entry Entry) error {
	if alias == "" {
		return ErrEmptyAlias
	}
	if entry.Kind == EntryPrivateKeyChain && len(entry.CertificateChainDER) == 0 {
		return ErrEmptyChain
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.entries[alias] = entry
	return nil
}

// Delete removes the entry stored under alias. It is not an error to
// delete an alias that does not exist.
func (c *Container) Delete(alias string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	delete(c.entries, alias)
	return nil
}

// Aliases returns every alias currently stored, in no particular order.
func (c *Container) Aliases() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrClosed
	}
	aliases := make([]string, 0, len(c.entries))
	for alias := range c.entries {
		aliases = append(aliases, alias)
	}
	return aliases, nil
}

// Close marks the container closed. Further operations return ErrClosed.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.entries = nil
	return nil
}

// snapshot copies the entry map for serialization, called under an
// already-held read lock by the persistence layer.
func (c *Container) snapshot() map[string]Entry {
	out := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// restore replaces the entry map wholesale. It takes no lock: the
// persistence layer calls it during Load on a freshly built Container that
// no other goroutine can see yet.
func (c *Container) restore(entries map[string]Entry) {
	if entries == nil {
		entries = make(map[string]Entry)
	}
	c.entries = entries
	c.closed = false
}
