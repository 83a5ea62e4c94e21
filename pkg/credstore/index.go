package credstore

// bottomEntry maps ParamKey to an underlying alias, plus an optional
// "no parameters" slot.
type bottomEntry struct {
	mid      *midEntry
	byParams map[ParamKey]string
	noParams string
	hasNoParams bool
}

func newBottomEntry(mid *midEntry) *bottomEntry {
	return &bottomEntry{mid: mid, byParams: make(map[ParamKey]string)}
}

func (b *bottomEntry) empty() bool {
	return len(b.byParams) == 0 && !b.hasNoParams
}

// put records alias under params (ParamKey zero value when params is nil).
func (b *bottomEntry) put(params *ParamKey, alias string) {
	if params == nil {
		b.noParams = alias
		b.hasNoParams = true
		return
	}
	b.byParams[*params] = alias
}

// get looks up params; when params is nil it falls back to any arbitrary
// parameterized entry, or to the "no params" slot when there is none, per
// the loose-match semantics in SPEC_FULL.md §4.5.
func (b *bottomEntry) get(params *ParamKey) (string, bool) {
	if params != nil {
		alias, ok := b.byParams[*params]
		return alias, ok
	}
	for _, alias := range b.byParams {
		return alias, true
	}
	if b.hasNoParams {
		return b.noParams, true
	}
	return "", false
}

// getExact looks up exactly the slot params addresses (the "no params"
// slot when params is nil), with no fallback to an arbitrary entry. Used
// by Put to decide whether a write is replacing a prior underlying alias.
func (b *bottomEntry) getExact(params *ParamKey) (string, bool) {
	if params == nil {
		if b.hasNoParams {
			return b.noParams, true
		}
		return "", false
	}
	alias, ok := b.byParams[*params]
	return alias, ok
}

// remove deletes the entry for params (nil removes "no params"); returns
// every underlying alias removed so the caller can delete them from the
// container too. A nil params with nothing else specified clears the
// entire bottom entry.
func (b *bottomEntry) remove(params *ParamKey) []string {
	var removed []string
	if params != nil {
		if alias, ok := b.byParams[*params]; ok {
			removed = append(removed, alias)
			delete(b.byParams, *params)
		}
		return removed
	}
	if b.hasNoParams {
		removed = append(removed, b.noParams)
		b.noParams = ""
		b.hasNoParams = false
	}
	for k, alias := range b.byParams {
		removed = append(removed, alias)
		delete(b.byParams, k)
	}
	return removed
}

// midEntry maps algorithm to a bottomEntry, plus an optional "no algorithm"
// slot.
type midEntry struct {
	top          *topEntry
	byAlgorithm  map[string]*bottomEntry
	algoOrder    []string
	noAlgorithm  *bottomEntry
}

func newMidEntry(top *topEntry) *midEntry {
	return &midEntry{top: top, byAlgorithm: make(map[string]*bottomEntry)}
}

func (m *midEntry) empty() bool {
	return len(m.byAlgorithm) == 0 && m.noAlgorithm == nil
}

func (m *midEntry) bottomFor(algorithm string, create bool) *bottomEntry {
	if algorithm == "" {
		if m.noAlgorithm == nil && create {
			m.noAlgorithm = newBottomEntry(m)
		}
		return m.noAlgorithm
	}
	b, ok := m.byAlgorithm[algorithm]
	if !ok && create {
		b = newBottomEntry(m)
		m.byAlgorithm[algorithm] = b
		m.algoOrder = append(m.algoOrder, algorithm)
	}
	return b
}

// bottomLookup resolves algorithm per the loose-match rule: a non-empty
// algorithm matches exactly or not at all; an empty one takes the first
// algorithm-specific bottom entry in insertion order, or the
// "no algorithm" slot when there is none.
func (m *midEntry) bottomLookup(algorithm string) *bottomEntry {
	if algorithm != "" {
		if b, ok := m.byAlgorithm[algorithm]; ok {
			return b
		}
		return nil
	}
	for _, a := range m.algoOrder {
		return m.byAlgorithm[a]
	}
	if m.noAlgorithm != nil {
		return m.noAlgorithm
	}
	return nil
}

func (m *midEntry) pruneAlgorithm(algorithm string) {
	if algorithm == "" {
		if m.noAlgorithm != nil && m.noAlgorithm.empty() {
			m.noAlgorithm = nil
		}
		return
	}
	b, ok := m.byAlgorithm[algorithm]
	if ok && b.empty() {
		delete(m.byAlgorithm, algorithm)
		for i, a := range m.algoOrder {
			if a == algorithm {
				m.algoOrder = append(m.algoOrder[:i], m.algoOrder[i+1:]...)
				break
			}
		}
	}
}

// topEntry maps CredentialType to a midEntry, tracking insertion order for
// loose-type-match lookups.
type topEntry struct {
	alias    string
	byType   map[CredentialType]*midEntry
	typeOrder []CredentialType
}

func newTopEntry(alias string) *topEntry {
	return &topEntry{alias: alias, byType: make(map[CredentialType]*midEntry)}
}

func (t *topEntry) empty() bool {
	return len(t.byType) == 0
}

func (t *topEntry) midFor(typ CredentialType, create bool) *midEntry {
	m, ok := t.byType[typ]
	if !ok && create {
		m = newMidEntry(t)
		t.byType[typ] = m
		t.typeOrder = append(t.typeOrder, typ)
	}
	return m
}

// midLookup resolves typ per the loose-type-match rule: an exact match if
// present, otherwise the first-inserted mid-entry whose stored type is a
// subtype of typ.
func (t *topEntry) midLookup(typ CredentialType) *midEntry {
	if m, ok := t.byType[typ]; ok {
		return m
	}
	for _, stored := range t.typeOrder {
		if stored.IsSubtypeOf(typ) {
			return t.byType[stored]
		}
	}
	return nil
}

func (t *topEntry) pruneType(typ CredentialType) {
	m, ok := t.byType[typ]
	if ok && m.empty() {
		delete(t.byType, typ)
		for i, s := range t.typeOrder {
			if s == typ {
				t.typeOrder = append(t.typeOrder[:i], t.typeOrder[i+1:]...)
				break
			}
		}
	}
}

// Index is the in-memory alias -> type -> algorithm -> params -> underlying
// alias tree described in SPEC_FULL.md §3/§4.5. It holds no locks of its
// own; Store's facade serializes all access to it under its own RWMutex.
type Index struct {
	top map[string]*topEntry
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{top: make(map[string]*topEntry)}
}

// Lookup resolves (alias, typ, algorithm, params) to an underlying alias
// using loose-type-match and "no algorithm"/"no params" fallbacks.
func (idx *Index) Lookup(alias string, typ CredentialType, algorithm string, params *ParamKey) (string, bool) {
	top, ok := idx.top[alias]
	if !ok {
		return "", false
	}
	mid := top.midLookup(typ)
	if mid == nil {
		return "", false
	}
	bottom := mid.bottomLookup(algorithm)
	if bottom == nil {
		return "", false
	}
	return bottom.get(params)
}

// Put records that (alias, typ, algorithm, params) maps to underlyingAlias,
// replacing and returning any prior underlying alias at that exact slot so
// the caller can delete the orphaned underlying entry.
func (idx *Index) Put(alias string, typ CredentialType, algorithm string, params *ParamKey, underlyingAlias string) (previous string, hadPrevious bool) {
	top, ok := idx.top[alias]
	if !ok {
		top = newTopEntry(alias)
		idx.top[alias] = top
	}
	mid := top.midFor(typ, true)
	bottom := mid.bottomFor(algorithm, true)

	previous, hadPrevious = bottom.getExact(params)
	bottom.put(params, underlyingAlias)
	return previous, hadPrevious
}

// Remove deletes every index entry matching the supplied, possibly partial
// tuple and returns the underlying aliases that were removed. A nil typ
// removes the whole alias; a nil algorithm with non-nil typ removes every
// algorithm/params combination under that type; and so on.
//
// Type-level-or-broader removal (typ == nil, or algorithm == nil) evicts
// the entire top-level entry for alias once pruned, even if other
// credential types remain indexed under it — this preserves the
// documented quirk of the target system (SPEC_FULL.md §10). Removal
// deeper than type (algorithm specified) only evicts the top-level entry
// once it is actually empty, so a surviving algorithm under the same
// type stays retrievable.
func (idx *Index) Remove(alias string, typ *CredentialType, algorithm *string, params *ParamKey) []string {
	top, ok := idx.top[alias]
	if !ok {
		return nil
	}

	var removed []string

	if typ == nil {
		for _, m := range top.byType {
			removed = append(removed, removeAllFromMid(m)...)
		}
		delete(idx.top, alias)
		return removed
	}

	mid, ok := top.byType[*typ]
	if !ok {
		return nil
	}

	if algorithm == nil {
		removed = append(removed, removeAllFromMid(mid)...)
		top.pruneType(*typ)
		delete(idx.top, alias)
		return removed
	}

	bottom := mid.bottomFor(*algorithm, false)
	if bottom != nil {
		removed = append(removed, bottom.remove(params)...)
		mid.pruneAlgorithm(*algorithm)
	}

	top.pruneType(*typ)
	if top.empty() {
		delete(idx.top, alias)
	}
	return removed
}

func removeAllFromMid(m *midEntry) []string {
	var removed []string
	for _, b := range m.byAlgorithm {
		removed = append(removed, b.remove(nil)...)
	}
	if m.noAlgorithm != nil {
		removed = append(removed, m.noAlgorithm.remove(nil)...)
	}
	return removed
}

// Aliases returns every top-level alias currently indexed.
func (idx *Index) Aliases() []string {
	out := make([]string, 0, len(idx.top))
	for a := range idx.top {
		out = append(out, a)
	}
	return out
}
