package vault

// VaultFactory is a factory interface for creating new Vault instances
type VaultFactory interface {
	// NewVault creates a new Vault instance for the given vault configuration
	NewVault(cfg interface{}) Vault
}
