package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/hashwell/credstore/pkg/adapters/kdf"
	"github.com/hashwell/credstore/pkg/storage"
)

const (
	persistenceSaltLength     = 16
	persistenceKeyLength      = 32
	persistenceIterations     = 600000
	persistenceMagic          = "keystore.v1"
)

// header precedes the ciphertext of an encrypted container file. It is
// gob-encoded together with the ciphertext into a single envelope so a
// reader never needs a second file or a fixed-offset binary layout.
type header struct {
	Magic      string
	Encrypted  bool
	Salt       []byte
	Nonce      []byte
	Iterations int
}

type envelope struct {
	Header    header
	Payload   []byte // gob-encoded map[string]Entry, plaintext or ciphertext per Header.Encrypted
}

// Save serializes c and writes it to backend under key, encrypting the
// payload with AES-256-GCM under a PBKDF2-HMAC-SHA256 key derived from
// password when password is non-empty. An empty password stores the
// container in the clear.
func Save(c *Container, backend storage.Backend, key string, password []byte) error {
	c.mu.RLock()
	entries := c.snapshot()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return fmt.Errorf("keystore: failed to encode container: %w", err)
	}
	plaintext := buf.Bytes()

	env := envelope{Header: header{Magic: persistenceMagic}}

	if len(password) == 0 {
		env.Payload = plaintext
	} else {
		salt := make([]byte, persistenceSaltLength)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return fmt.Errorf("keystore: failed to generate salt: %w", err)
		}
		derived, err := deriveContainerKey(password, salt, persistenceIterations)
		if err != nil {
			return fmt.Errorf("keystore: failed to derive encryption key: %w", err)
		}
		block, err := aes.NewCipher(derived)
		if err != nil {
			return fmt.Errorf("keystore: failed to initialize cipher: %w", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return fmt.Errorf("keystore: failed to initialize AEAD: %w", err)
		}
		nonce := make([]byte, gcm.NonceSize())
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return fmt.Errorf("keystore: failed to generate nonce: %w", err)
		}
		env.Header.Encrypted = true
		env.Header.Salt = salt
		env.Header.Nonce = nonce
		env.Header.Iterations = persistenceIterations
		env.Payload = gcm.Seal(nil, nonce, plaintext, nil)
	}

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(env); err != nil {
		return fmt.Errorf("keystore: failed to encode envelope: %w", err)
	}

	if atomic, ok := backend.(storage.AtomicBackend); ok {
		return atomic.PutAtomic(key, out.Bytes(), nil)
	}
	return backend.Put(key, out.Bytes(), nil)
}

// Load reads a container previously written by Save from backend under
// key and returns a new Container populated with its entries. password
// must match what Save was called with, including the empty case.
func Load(backend storage.Backend, key string, password []byte) (*Container, error) {
	raw, err := backend.Get(key)
	if err != nil {
		return nil, fmt.Errorf("keystore: failed to read container: %w", err)
	}

	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return nil, fmt.Errorf("keystore: failed to decode envelope: %w", err)
	}
	if env.Header.Magic != persistenceMagic {
		return nil, fmt.Errorf("keystore: unrecognized container format")
	}

	var plaintext []byte
	if !env.Header.Encrypted {
		plaintext = env.Payload
	} else {
		if len(password) == 0 {
			return nil, ErrIncorrectPassword
		}
		derived, err := deriveContainerKey(password, env.Header.Salt, env.Header.Iterations)
		if err != nil {
			return nil, fmt.Errorf("keystore: failed to derive decryption key: %w", err)
		}
		block, err := aes.NewCipher(derived)
		if err != nil {
			return nil, fmt.Errorf("keystore: failed to initialize cipher: %w", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("keystore: failed to initialize AEAD: %w", err)
		}
		plaintext, err = gcm.Open(nil, env.Header.Nonce, env.Payload, nil)
		if err != nil {
			return nil, ErrIncorrectPassword
		}
	}

	entries := make(map[string]Entry)
	if len(plaintext) > 0 {
		if err := gob.NewDecoder(bytes.NewReader(plaintext)).Decode(&entries); err != nil {
			return nil, fmt.Errorf("keystore: failed to decode container: %w", err)
		}
	}

	c := New()
	c.restore(entries)
	return c, nil
}

func deriveContainerKey(password, salt []byte, iterations int) ([]byte, error) {
	adapter := kdf.NewPBKDF2Adapter()
	params := kdf.DefaultParams(kdf.AlgorithmPBKDF2)
	params.Salt = salt
	params.Iterations = iterations
	params.KeyLength = persistenceKeyLength
	return adapter.DeriveKey(password, params)
}
