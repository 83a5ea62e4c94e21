package credstore

import (
	"fmt"

	"github.com/hashwell/credstore/pkg/adapters/logger"
	"github.com/hashwell/credstore/pkg/keystore"
	"github.com/hashwell/credstore/pkg/storage"
)

// containerKey is the single fixed key a Container is persisted under
// within its storage.Backend. The backend itself (a whole file, or a
// single in-memory slot) already scopes one container per Location, so
// there is never a reason for more than one key.
const containerKey = "container"

// loadContainer opens or creates the underlying container per cfg, then
// reconstructs an Index by decoding every alias currently in it. An alias
// that doesn't match the AliasCodec grammar, or whose underlying entry
// kind contradicts what its type implies, is skipped with a log line
// rather than failing the whole load.
func loadContainer(cfg Config, backend storage.Backend, password []byte, log logger.Logger) (*keystore.Container, *Index, error) {
	var container *keystore.Container

	exists, err := backend.Exists(containerKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCannotInitialize, err)
	}

	if exists {
		container, err = keystore.Load(backend, containerKey, password)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCannotInitialize, err)
		}
	} else {
		if !cfg.Create {
			return nil, nil, ErrAutomaticCreationDisabled
		}
		container = keystore.New()
	}

	idx := NewIndex()
	aliases, err := container.Aliases()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCannotInitialize, err)
	}

	for _, underlying := range aliases {
		decoded, err := DecodeAlias(underlying)
		if err != nil {
			if log != nil {
				log.Warn("skipping unrecognized underlying alias", logger.String("alias", underlying), logger.Error(err))
			}
			continue
		}

		entry, err := container.Get(underlying)
		if err != nil {
			if log != nil {
				log.Warn("skipping alias with unreadable underlying entry", logger.String("alias", underlying), logger.Error(err))
			}
			continue
		}
		if !entryKindMatchesType(decoded.Type, entry.Kind) {
			if log != nil {
				log.Warn("skipping alias with mismatched entry kind", logger.String("alias", underlying), logger.String("type", string(decoded.Type)))
			}
			continue
		}

		var paramKey *ParamKey
		if len(decoded.ParamsDER) > 0 {
			pk := NewParamKey(decoded.ParamsDER)
			paramKey = &pk
		}
		idx.Put(decoded.Alias, decoded.Type, decoded.Algorithm, paramKey, underlying)
	}

	return container, idx, nil
}

// entryKindMatchesType reports whether a container entry of kind is the
// kind this store would have produced for a credential of type typ.
func entryKindMatchesType(typ CredentialType, kind keystore.EntryKind) bool {
	if typ == TypeX509ChainPrivate {
		return kind == keystore.EntryPrivateKeyChain
	}
	return kind == keystore.EntrySecretKey
}

// flushContainer persists container to backend, encrypted under password
// when non-empty.
func flushContainer(container *keystore.Container, backend storage.Backend, password []byte) error {
	if err := keystore.Save(container, backend, containerKey, password); err != nil {
		return fmt.Errorf("%w: %v", ErrCannotFlush, err)
	}
	return nil
}
