package keyrepository

// KeyRepositoryFactory is a factory for KeyRepository instances
type KeyRepositoryFactory interface {
	// NewKeyRepository creates a new KeyRepository from a repository configuration
	NewKeyRepository(cfg interface{}) KeyRepository
}
