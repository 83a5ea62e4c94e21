package credstore

// ProtectionParameter is the type-erased protection argument accepted by
// Initialize, Store, and Flush. Store accepts one but does not use it, and
// Retrieve takes none, so there is no per-operation protection override;
// the container password is the one given to Initialize and Flush. The
// only concrete shape this store
// understands is Password; nil means "no protection". Any other
// concrete type is rejected with ErrInvalidProtectionParameter, which is
// why the parameter is not simply typed as Password — a future protection
// mechanism (e.g. an external secret reference) has a place to plug in
// without changing every call site's signature.
type ProtectionParameter interface{}

// Password represents a secret used to protect the underlying container.
// Masked password credentials do not use it; they carry their own
// InitialKeyMaterial. Implementations may store the secret in clear memory or
// retrieve it from some other source; the store only ever asks for Bytes.
type Password interface {
	// String returns the password as a string.
	String() (string, error)

	// Bytes returns the password as a byte slice.
	Bytes() ([]byte, error)
}

// ClearPassword is an in-memory Password holding the secret in clear text.
type ClearPassword struct {
	password []byte
}

// NewPassword creates a Password from raw bytes. The bytes are copied so
// the caller's slice can be reused or zeroed independently.
func NewPassword(password []byte) Password {
	p := make([]byte, len(password))
	copy(p, password)
	return &ClearPassword{password: p}
}

// NewPasswordFromString creates a Password from a string.
func NewPasswordFromString(password string) Password {
	return &ClearPassword{password: []byte(password)}
}

// String returns the password as a string.
func (p *ClearPassword) String() (string, error) {
	return string(p.password), nil
}

// Bytes returns a copy of the password bytes.
func (p *ClearPassword) Bytes() ([]byte, error) {
	b := make([]byte, len(p.password))
	copy(b, p.password)
	return b, nil
}

// Zeroize overwrites the password memory with zeros.
func (p *ClearPassword) Zeroize() {
	for i := range p.password {
		p.password[i] = 0
	}
}

// protectionBytes converts a ProtectionParameter into the byte form the
// underlying keystore container expects. nil means "no password". Any
// non-nil value that is not a Password is rejected — it is the only shape
// this store understands.
func protectionBytes(protection ProtectionParameter) ([]byte, error) {
	if protection == nil {
		return nil, nil
	}
	pw, ok := protection.(Password)
	if !ok {
		return nil, ErrInvalidProtectionParameter
	}
	return pw.Bytes()
}
