package credstore

import "hash/fnv"

// ParamKey is a value-equality wrapper around the canonical DER encoding of
// an algorithm-parameter specification. Two ParamKey values are equal iff
// their underlying DER bytes are byte-equal; the der field is a string
// (Go strings are comparable and hashable) so ParamKey itself can be used
// directly as a map key.
type ParamKey struct {
	der  string
	hash uint64
}

// NewParamKey builds a ParamKey from the DER encoding of an algorithm
// parameter specification. An empty der represents "no parameters".
func NewParamKey(der []byte) ParamKey {
	h := fnv.New64a()
	h.Write(der)
	return ParamKey{der: string(der), hash: h.Sum64()}
}

// IsEmpty reports whether this key represents "no parameters".
func (p ParamKey) IsEmpty() bool {
	return p.der == ""
}

// DER returns the canonical DER bytes this key was built from.
func (p ParamKey) DER() []byte {
	return []byte(p.der)
}

// Hash returns the precomputed FNV-1a hash of the DER bytes. It is not
// used by Go's own map implementation (which hashes the comparable struct
// directly) but is exposed for diagnostics and for callers building their
// own auxiliary indexes over parameter specs.
func (p ParamKey) Hash() uint64 {
	return p.hash
}

// Equal reports whether p and other represent the same parameter spec.
func (p ParamKey) Equal(other ParamKey) bool {
	return p.der == other.der
}
