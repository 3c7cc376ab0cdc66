package vault

import (
	"errors"
	"sync"

	"github.com/mr-shifu/tpaillier/pkg/common/vault"
)

var (
	ErrKeyNotFound = errors.New("vault: key not found")
	ErrEmptyKeyID  = errors.New("vault: empty key id")
)

var _ vault.Vault = (*InMemoryVault)(nil)

type InMemoryVault struct {
	lock sync.RWMutex
	keys map[string][]byte
}

func NewInMemoryVault() *InMemoryVault {
	return &InMemoryVault{
		keys: make(map[string][]byte),
	}
}

func (store *InMemoryVault) Import(keyID string, key []byte) error {
	if keyID == "" {
		return ErrEmptyKeyID
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	store.keys[keyID] = append([]byte(nil), key...)
	return nil
}

func (store *InMemoryVault) Get(keyID string) ([]byte, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	key, ok := store.keys[keyID]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), key...), nil
}

// Delete removes keyID, ErrKeyNotFound if it is not stored.
func (store *InMemoryVault) Delete(keyID string) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	if _, ok := store.keys[keyID]; !ok {
		return ErrKeyNotFound
	}
	delete(store.keys, keyID)
	return nil
}

func (store *InMemoryVault) Keys() []string {
	store.lock.RLock()
	defer store.lock.RUnlock()

	ids := make([]string, 0, len(store.keys))
	for id := range store.keys {
		ids = append(ids, id)
	}
	return ids
}

func (store *InMemoryVault) Len() int {
	store.lock.RLock()
	defer store.lock.RUnlock()

	return len(store.keys)
}
