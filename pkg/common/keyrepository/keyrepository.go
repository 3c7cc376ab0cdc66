package keyrepository

// KeyData describes one key share of a threshold key.
type KeyData struct {
	// ShareID is the string form of the share's uuid.
	ShareID string
	// Holder names the party holding the share.
	Holder string
}

// KeyRepository manages the share metadata of threshold keys referred to by a key ID.
type KeyRepository interface {
	// Import records a share of the key ID.
	// ID is the key ID and key is the share metadata (ex. ShareID, Holder).
	Import(ID string, key KeyData) error

	// GetAll returns the metadata of all shares of the key ID, indexed by share ID.
	GetAll(ID string) (map[string]KeyData, error)

	// DeleteAll removes the metadata of all shares of the key ID.
	DeleteAll(ID string) error
}
