package threshold

import (
	"github.com/google/uuid"
	"github.com/mr-shifu/tpaillier/core/paillier"
	"github.com/mr-shifu/tpaillier/pkg/common/keyrepository"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Config describes the share set a Session expects.
type Config struct {
	// KeyID of the public key the shares belong to.
	KeyID string
	// Shares lists the IDs of the complete share set.
	Shares []uuid.UUID
	Logger zerolog.Logger
}

// NewConfig returns a Config for the given key and shares, without logging.
func NewConfig(keyID string, shares []uuid.UUID) *Config {
	return &Config{
		KeyID:  keyID,
		Shares: shares,
		Logger: zerolog.Nop(),
	}
}

// NewConfigFromRepository builds a Config from the shares registered for pk.
func NewConfigFromRepository(repo keyrepository.KeyRepository, pk *paillier.PublicKey, log zerolog.Logger) (*Config, error) {
	keyID := pk.KeyID()
	keys, err := repo.GetAll(keyID)
	if err != nil {
		return nil, errors.WithMessagef(err, "threshold: no shares registered for key %s", keyID)
	}
	shares := make([]uuid.UUID, 0, len(keys))
	for shareID := range keys {
		id, err := uuid.Parse(shareID)
		if err != nil {
			return nil, errors.WithMessagef(ErrInvalidConfig, "share id %q: %v", shareID, err)
		}
		shares = append(shares, id)
	}
	return &Config{KeyID: keyID, Shares: shares, Logger: log}, nil
}

func (cfg *Config) validate() error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "nil config")
	}
	if len(cfg.Shares) < 2 {
		return errors.WithMessage(ErrInvalidConfig, "at least two shares are required")
	}
	seen := make(map[uuid.UUID]struct{}, len(cfg.Shares))
	for _, id := range cfg.Shares {
		if _, ok := seen[id]; ok {
			return errors.WithMessagef(ErrInvalidConfig, "duplicate share %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
