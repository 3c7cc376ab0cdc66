package keyrepository

import (
	"errors"
	"sync"

	"github.com/mr-shifu/tpaillier/pkg/common/keyrepository"
)

var (
	ErrInvalidShareID = errors.New("keyrepository: invalid share id")
	ErrKeyNotFound    = errors.New("keyrepository: key not found")
)

var _ keyrepository.KeyRepository = (*KeyRepository)(nil)

type Keys map[string]keyrepository.KeyData

type KeyRepository struct {
	lock sync.RWMutex

	// keys is a map of KeyID to a map of ShareID to share metadata.
	keys map[string]Keys
}

func NewKeyRepository() *KeyRepository {
	return &KeyRepository{
		keys: make(map[string]Keys),
	}
}

func (kr *KeyRepository) Import(ID string, key keyrepository.KeyData) error {
	kr.lock.Lock()
	defer kr.lock.Unlock()

	if key.ShareID == "" {
		return ErrInvalidShareID
	}

	if _, ok := kr.keys[ID]; !ok {
		kr.keys[ID] = make(Keys)
	}

	kr.keys[ID][key.ShareID] = key
	return nil
}

func (kr *KeyRepository) GetAll(ID string) (map[string]keyrepository.KeyData, error) {
	kr.lock.RLock()
	defer kr.lock.RUnlock()

	ks, ok := kr.keys[ID]
	if !ok {
		return nil, ErrKeyNotFound
	}

	result := make(map[string]keyrepository.KeyData, len(ks))
	for shareID, key := range ks {
		result[shareID] = key
	}
	return result, nil
}

func (kr *KeyRepository) DeleteAll(ID string) error {
	kr.lock.Lock()
	defer kr.lock.Unlock()

	_, ok := kr.keys[ID]
	if !ok {
		return ErrKeyNotFound
	}

	delete(kr.keys, ID)
	return nil
}
