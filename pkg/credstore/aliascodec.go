package credstore

import (
	"encoding/base32"
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidAliasFormat indicates a string does not match the underlying
// alias grammar this codec produces and consumes.
var ErrInvalidAliasFormat = errors.New("credstore: alias does not match expected format")

// aliasGrammar matches "<alias>/<type>/[<algorithm>]/[<params_b32>]".
// The alias segment is greedy and may itself contain slashes; type is
// restricted to [a-z0-9_]+, algorithm additionally allows hyphens, and
// the trailing parameter payload is lower-case RFC 4648 base32 with no
// padding.
var aliasGrammar = regexp.MustCompile(`^(.+)/([a-z0-9_]+)/([-a-z0-9_]+)?/([2-7a-z]+)?$`)

// lowerB32 is the lower-case variant of RFC 4648 base32 used for encoding
// the parameter payload, so the whole underlying alias can be treated as
// case-insensitive-safe without a separate case map for that segment.
var lowerB32 = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// decodedAlias is the reconstructed form of an underlying alias.
type decodedAlias struct {
	Alias     string
	Type      CredentialType
	Algorithm string
	ParamsDER []byte
}

// EncodeAlias builds the underlying container alias for the given tuple.
// alias and algorithm are lower-cased using the same ASCII-only fold on
// both encode and decode, so round-tripping never depends on the
// platform's default locale.
func EncodeAlias(alias string, typ CredentialType, algorithm string, paramsDER []byte) string {
	var b strings.Builder
	b.WriteString(foldLower(alias))
	b.WriteByte('/')
	b.WriteString(string(typ))
	b.WriteByte('/')
	if algorithm != "" {
		b.WriteString(foldLower(algorithm))
	}
	b.WriteByte('/')
	if len(paramsDER) > 0 {
		b.WriteString(lowerB32.EncodeToString(paramsDER))
	}
	return b.String()
}

// DecodeAlias parses an underlying container alias produced by EncodeAlias.
// A string that does not match the grammar returns ErrInvalidAliasFormat
// so the caller (the tolerant boot-scan in persistence.go) can skip it.
func DecodeAlias(underlying string) (decodedAlias, error) {
	m := aliasGrammar.FindStringSubmatch(underlying)
	if m == nil {
		return decodedAlias{}, ErrInvalidAliasFormat
	}

	var der []byte
	if m[4] != "" {
		decoded, err := lowerB32.DecodeString(m[4])
		if err != nil {
			return decodedAlias{}, ErrInvalidAliasFormat
		}
		der = decoded
	}

	return decodedAlias{
		Alias:     m[1],
		Type:      CredentialType(m[2]),
		Algorithm: m[3],
		ParamsDER: der,
	}, nil
}

// foldLower lower-cases s using the ASCII range only, which is all the
// grammar's alias and algorithm segments ever legitimately contain, and
// avoids Unicode case-folding surprises that vary by platform locale.
func foldLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
