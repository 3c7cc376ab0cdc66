package vault

// Vault stores opaque key material by key ID.
type Vault interface {
	// Import stores key under keyID, replacing any previous value.
	Import(keyID string, key []byte) error
	Get(keyID string) ([]byte, error)
	Delete(keyID string) error
	// Keys returns the stored key IDs in no particular order.
	Keys() []string
	Len() int
}
