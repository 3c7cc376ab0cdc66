package threshold

import (
	"github.com/mr-shifu/tpaillier/core/paillier"
	"github.com/mr-shifu/tpaillier/pkg/common/keyrepository"
	keyrepositoryimpl "github.com/mr-shifu/tpaillier/pkg/keyrepository"
	"github.com/pkg/errors"
)

// NewRepository returns an in-memory share repository.
func NewRepository() keyrepository.KeyRepository {
	f := &keyrepositoryimpl.InMemoryKeyRepositoryFactory{}
	return f.NewKeyRepository(nil)
}

// Deal splits priv into one additive share per holder and records which
// holder received which share under the key ID of priv's public key.
// The i-th returned share belongs to holders[i].
//
// Shares of a previous deal for the same key are forgotten, sessions built
// from repo afterwards only accept the new set.
func Deal(priv *paillier.PrivateKey, holders []string, repo keyrepository.KeyRepository) ([]*paillier.KeyShare, error) {
	if len(holders) < 2 {
		return nil, ErrInvalidHolders
	}
	seen := make(map[string]struct{}, len(holders))
	for _, h := range holders {
		if _, ok := seen[h]; ok || h == "" {
			return nil, errors.WithMessagef(ErrInvalidHolders, "holder %q", h)
		}
		seen[h] = struct{}{}
	}

	shares, err := priv.SplitN(len(holders))
	if err != nil {
		return nil, errors.WithMessage(err, "threshold: failed to split private key")
	}

	keyID := priv.PublicKey().KeyID()
	if err := repo.DeleteAll(keyID); err != nil && !errors.Is(err, keyrepositoryimpl.ErrKeyNotFound) {
		return nil, errors.WithMessage(err, "threshold: failed to drop previous shares")
	}
	for i, share := range shares {
		data := keyrepository.KeyData{ShareID: share.ID().String(), Holder: holders[i]}
		if err := repo.Import(keyID, data); err != nil {
			return nil, errors.WithMessage(err, "threshold: failed to register share")
		}
	}
	return shares, nil
}
