package keyrepository

import "github.com/mr-shifu/tpaillier/pkg/common/keyrepository"

type InMemoryKeyRepositoryFactory struct{}

var _ keyrepository.KeyRepositoryFactory = (*InMemoryKeyRepositoryFactory)(nil)

// NewKeyRepository creates a new KeyRepository instance for the given repository configuration
func (f *InMemoryKeyRepositoryFactory) NewKeyRepository(cfg interface{}) keyrepository.KeyRepository {
	return NewKeyRepository()
}
