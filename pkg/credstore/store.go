package credstore

import (
	"fmt"
	"sync"

	"github.com/hashwell/credstore/pkg/adapters/logger"
	"github.com/hashwell/credstore/pkg/keystore"
	"github.com/hashwell/credstore/pkg/storage"
	"github.com/hashwell/credstore/pkg/storage/file"
)

// Config controls how a Store is opened. It intentionally carries a
// small, closed set of fields rather than a generic attribute bag, since
// that is the full set this store understands.
type Config struct {
	// Location is the filesystem path to persist the underlying container
	// to. An empty Location means the store is in-memory only and Flush
	// is a no-op.
	Location string

	// Modifiable controls whether Store and Remove are permitted.
	Modifiable bool

	// Create allows Initialize to build an empty container when nothing
	// exists at Location yet. Ignored when Location is empty (an
	// in-memory store always starts empty).
	Create bool

	// Backend overrides how the container is persisted. When nil and
	// Location is non-empty, a file-backed storage.Backend rooted at the
	// directory containing Location is used.
	Backend storage.Backend

	// Logger receives diagnostics from the tolerant boot-scan. When nil,
	// Initialize defaults it to a logger.SlogAdapter writing to os.Stderr,
	// so boot-scan warnings are never silently dropped unless the caller
	// explicitly wants that (pass a no-op Logger to opt out).
	Logger logger.Logger
}

// Store is a credential store layered over a pkg/keystore.Container. All
// mutating operations (Store, Remove, Flush, Initialize) take the write
// lock; Retrieve and Aliases take the read lock. See SPEC_FULL.md §6 for
// why this departs from an otherwise-similar system that uses the read
// lock for writes too.
type Store struct {
	mu sync.RWMutex

	cfg         Config
	container   *keystore.Container
	index       *Index
	backend     storage.Backend
	initialized bool
}

// NewStore returns an unopened Store. Call Initialize before any other
// method.
func NewStore() *Store {
	return &Store{}
}

// Initialize opens (or creates) the underlying container per cfg and
// reconstructs the in-memory index from it.
func (s *Store) Initialize(cfg Config, protection ProtectionParameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	password, err := protectionBytes(protection)
	if err != nil {
		return err
	}

	s.cfg = cfg
	if s.cfg.Logger == nil {
		s.cfg.Logger = logger.NewSlogAdapter(nil)
	}
	s.cfg.Logger.Debug("initializing credential store", logger.String("version", Version()))

	if cfg.Location == "" {
		s.container = keystore.New()
		s.index = NewIndex()
		s.backend = nil
		s.initialized = true
		return nil
	}

	backend := cfg.Backend
	if backend == nil {
		b, err := file.New(parentDir(cfg.Location))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCannotInitialize, err)
		}
		backend = b
	}

	container, idx, err := loadContainer(cfg, backend, password, s.cfg.Logger)
	if err != nil {
		return err
	}

	s.container = container
	s.index = idx
	s.backend = backend
	s.initialized = true
	return nil
}

// IsModifiable reports whether Store and Remove are permitted.
func (s *Store) IsModifiable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Modifiable
}

// Store records cred under alias, replacing any credential previously
// stored under the exact same (alias, type, algorithm, parameters) tuple.
func (s *Store) Store(alias string, cred Credential, paramsDER []byte, protection ProtectionParameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if !s.cfg.Modifiable {
		return ErrNonModifiable
	}

	encoded, err := encodeCredential(cred)
	if err != nil {
		return err
	}
	if len(paramsDER) > 0 {
		encoded.ParamsDER = paramsDER
	}

	underlying := EncodeAlias(alias, cred.CredentialType(), encoded.Algorithm, encoded.ParamsDER)

	if err := s.container.Set(underlying, encoded.Entry); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotWrite, err)
	}

	var paramKey *ParamKey
	if len(encoded.ParamsDER) > 0 {
		pk := NewParamKey(encoded.ParamsDER)
		paramKey = &pk
	}
	previous, had := s.index.Put(foldLower(alias), cred.CredentialType(), foldLower(encoded.Algorithm), paramKey, underlying)
	if had && previous != underlying {
		if err := s.container.Delete(previous); err != nil {
			return fmt.Errorf("%w: %v", ErrCannotWrite, err)
		}
	}

	return nil
}

// Retrieve resolves (alias, typ, algorithm, params) using loose-type and
// "no algorithm"/"no params" fallbacks, decodes the matched underlying
// entry, and returns the reconstructed credential.
func (s *Store) Retrieve(alias string, typ CredentialType, algorithm string, paramsDER []byte) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}

	var paramKey *ParamKey
	if len(paramsDER) > 0 {
		pk := NewParamKey(paramsDER)
		paramKey = &pk
	}

	underlying, ok := s.index.Lookup(foldLower(alias), typ, foldLower(algorithm), paramKey)
	if !ok {
		return nil, ErrCredentialNotFound
	}

	entry, err := s.container.Get(underlying)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotRead, err)
	}

	decoded, err := DecodeAlias(underlying)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotRead, err)
	}

	return decodeCredential(decoded.Type, decoded.Algorithm, decoded.ParamsDER, entry)
}

// Remove deletes every credential matching the supplied, possibly-partial
// tuple. A zero-value typ ("") removes every credential under alias.
func (s *Store) Remove(alias string, typ CredentialType, algorithm string, paramsDER []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if !s.cfg.Modifiable {
		return ErrNonModifiable
	}

	var typPtr *CredentialType
	if typ != "" {
		typPtr = &typ
	}
	var algoPtr *string
	if typPtr != nil && algorithm != "" {
		folded := foldLower(algorithm)
		algoPtr = &folded
	}
	var paramKey *ParamKey
	if algoPtr != nil && len(paramsDER) > 0 {
		pk := NewParamKey(paramsDER)
		paramKey = &pk
	}

	removed := s.index.Remove(foldLower(alias), typPtr, algoPtr, paramKey)
	for _, underlying := range removed {
		if err := s.container.Delete(underlying); err != nil {
			return fmt.Errorf("%w: %v", ErrCannotRemove, err)
		}
	}
	return nil
}

// Aliases returns every top-level alias currently indexed.
func (s *Store) Aliases() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return s.index.Aliases(), nil
}

// Flush persists the underlying container to Config.Location. It is a
// no-op when Location is empty.
func (s *Store) Flush(protection ProtectionParameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if s.cfg.Location == "" {
		return nil
	}

	password, err := protectionBytes(protection)
	if err != nil {
		return err
	}

	return flushContainer(s.container, s.backend, password)
}

// Close releases the underlying container. It does not flush: a
// protected store needs its password to re-encrypt on write, and Close
// takes none, so callers that want a final persist must call
// Flush(protection) themselves first.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}

	closeErr := s.container.Close()
	s.initialized = false

	if closeErr != nil {
		return fmt.Errorf("%w: %v", ErrCannotFlush, closeErr)
	}
	return nil
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			if i == 0 {
				return "/"
			}
			return path[:i]
		}
	}
	return "."
}
