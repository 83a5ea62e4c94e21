package credstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_PutThenLookupExact(t *testing.T) {
	idx := NewIndex()
	params := NewParamKey([]byte("rsa-2048"))
	_, had := idx.Put("alice", TypeKeyPair, "RSA", &params, "underlying-1")
	assert.False(t, had)

	got, ok := idx.Lookup("alice", TypeKeyPair, "RSA", &params)
	require.True(t, ok)
	assert.Equal(t, "underlying-1", got)
}

func TestIndex_LookupFallsBackToNoAlgorithmSlot(t *testing.T) {
	idx := NewIndex()
	idx.Put("bob", TypeBearerToken, "", nil, "underlying-token")

	got, ok := idx.Lookup("bob", TypeBearerToken, "", nil)
	require.True(t, ok)
	assert.Equal(t, "underlying-token", got)
}

func TestIndex_LookupFallsBackToNoParamsSlot(t *testing.T) {
	idx := NewIndex()
	idx.Put("carol", TypePassword, "bcrypt", nil, "underlying-pw")

	got, ok := idx.Lookup("carol", TypePassword, "bcrypt", nil)
	require.True(t, ok)
	assert.Equal(t, "underlying-pw", got)
}

func TestIndex_LooseTypeMatchResolvesExactType(t *testing.T) {
	idx := NewIndex()
	idx.Put("dave", TypeSecretKey, "AES", nil, "underlying-secret")

	// TypeSecretKey.IsSubtypeOf(TypeSecretKey) is the only true case today,
	// so an exact-type lookup must still resolve.
	got, ok := idx.Lookup("dave", TypeSecretKey, "AES", nil)
	require.True(t, ok)
	assert.Equal(t, "underlying-secret", got)
}

func TestIndex_PutReplacesExactSlotAndReportsPrevious(t *testing.T) {
	idx := NewIndex()
	idx.Put("alice", TypePassword, "bcrypt", nil, "underlying-v1")
	previous, had := idx.Put("alice", TypePassword, "bcrypt", nil, "underlying-v2")

	assert.True(t, had)
	assert.Equal(t, "underlying-v1", previous)

	got, ok := idx.Lookup("alice", TypePassword, "bcrypt", nil)
	require.True(t, ok)
	assert.Equal(t, "underlying-v2", got)
}

func TestIndex_PutDistinctParamsDoesNotReportPrevious(t *testing.T) {
	idx := NewIndex()
	p1 := NewParamKey([]byte("params-1"))
	p2 := NewParamKey([]byte("params-2"))

	idx.Put("alice", TypeKeyPair, "RSA", &p1, "underlying-1")
	_, had := idx.Put("alice", TypeKeyPair, "RSA", &p2, "underlying-2")

	assert.False(t, had)

	got1, ok1 := idx.Lookup("alice", TypeKeyPair, "RSA", &p1)
	require.True(t, ok1)
	assert.Equal(t, "underlying-1", got1)

	got2, ok2 := idx.Lookup("alice", TypeKeyPair, "RSA", &p2)
	require.True(t, ok2)
	assert.Equal(t, "underlying-2", got2)
}

func TestIndex_RemoveWholeAlias(t *testing.T) {
	idx := NewIndex()
	idx.Put("alice", TypePassword, "bcrypt", nil, "underlying-pw")
	idx.Put("alice", TypeBearerToken, "", nil, "underlying-token")

	removed := idx.Remove("alice", nil, nil, nil)
	assert.ElementsMatch(t, []string{"underlying-pw", "underlying-token"}, removed)

	_, ok := idx.Lookup("alice", TypePassword, "bcrypt", nil)
	assert.False(t, ok)
	assert.NotContains(t, idx.Aliases(), "alice")
}

func TestIndex_RemoveByTypeEvictsWholeTopEntry(t *testing.T) {
	idx := NewIndex()
	idx.Put("alice", TypePassword, "bcrypt", nil, "underlying-pw")
	idx.Put("alice", TypeBearerToken, "", nil, "underlying-token")

	typ := TypePassword
	removed := idx.Remove("alice", &typ, nil, nil)
	assert.Equal(t, []string{"underlying-pw"}, removed)

	// Per the preserved cascade behavior, removing at the type level still
	// evicts the entire top-level alias, so the bearer token is orphaned
	// from the index even though its own entry was never targeted.
	assert.NotContains(t, idx.Aliases(), "alice")
	_, ok := idx.Lookup("alice", TypeBearerToken, "", nil)
	assert.False(t, ok)
}

func TestIndex_RemoveByAlgorithmLeavesSiblingAlgorithmReachable(t *testing.T) {
	idx := NewIndex()
	idx.Put("alice", TypePassword, "bcrypt", nil, "underlying-bcrypt")
	idx.Put("alice", TypePassword, "crypt-sha-512", nil, "underlying-sha512")

	typ := TypePassword
	algo := "bcrypt"
	removed := idx.Remove("alice", &typ, &algo, nil)
	assert.Equal(t, []string{"underlying-bcrypt"}, removed)

	// Unlike type-level-or-broader removal, removing a single algorithm
	// must not evict the whole top-level alias while a sibling algorithm
	// is still indexed under it.
	assert.Contains(t, idx.Aliases(), "alice")
	got, ok := idx.Lookup("alice", TypePassword, "crypt-sha-512", nil)
	require.True(t, ok)
	assert.Equal(t, "underlying-sha512", got)
}

func TestIndex_RemoveUnknownAliasIsNoop(t *testing.T) {
	idx := NewIndex()
	removed := idx.Remove("ghost", nil, nil, nil)
	assert.Nil(t, removed)
}

func TestIndex_Aliases(t *testing.T) {
	idx := NewIndex()
	idx.Put("alice", TypePassword, "bcrypt", nil, "u1")
	idx.Put("bob", TypeBearerToken, "", nil, "u2")

	assert.ElementsMatch(t, []string{"alice", "bob"}, idx.Aliases())
}
