package keyring

import (
	"math/big"

	"github.com/mr-shifu/tpaillier/core/paillier"
	"github.com/mr-shifu/tpaillier/pkg/common/vault"
	vaultimpl "github.com/mr-shifu/tpaillier/pkg/vault"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrKeyNotFound = errors.New("keyring: no private key for public key")

// KeyRing maps public keys to their private keys. Private keys are stored
// cbor encoded in a vault, indexed by the public key's KeyID.
type KeyRing struct {
	vault vault.Vault
	log   zerolog.Logger
}

var _ paillier.Registry = (*KeyRing)(nil)

// New returns a KeyRing backed by v.
func New(v vault.Vault, log zerolog.Logger) *KeyRing {
	return &KeyRing{
		vault: v,
		log:   log.With().Str("component", "keyring").Logger(),
	}
}

// NewInMemory returns a KeyRing backed by an in-memory vault, without logging.
func NewInMemory() *KeyRing {
	return New(vaultimpl.InMemoryVaultFactory{}.NewVault(nil), zerolog.Nop())
}

// Add stores priv, replacing the key previously stored for the same public key.
func (kr *KeyRing) Add(priv *paillier.PrivateKey) error {
	data, err := priv.MarshalBinary()
	if err != nil {
		return errors.WithMessage(err, "keyring: failed to encode private key")
	}
	keyID := priv.PublicKey().KeyID()
	if err := kr.vault.Import(keyID, data); err != nil {
		return errors.WithMessage(err, "keyring: failed to store private key")
	}
	kr.log.Debug().Str("key", keyID).Msg("private key added")
	return nil
}

// Get returns the private key of pk, ErrKeyNotFound if there is none.
// The decoded key draws randomness from crypto/rand and not from the reader
// of pk. Call WithRand on the result to split it with another source.
func (kr *KeyRing) Get(pk *paillier.PublicKey) (*paillier.PrivateKey, error) {
	return kr.get(pk.KeyID())
}

func (kr *KeyRing) get(keyID string) (*paillier.PrivateKey, error) {
	data, err := kr.vault.Get(keyID)
	if errors.Is(err, vaultimpl.ErrKeyNotFound) {
		return nil, errors.WithMessagef(ErrKeyNotFound, "key %s", keyID)
	}
	if err != nil {
		return nil, errors.WithMessage(err, "keyring: failed to load private key")
	}
	priv := new(paillier.PrivateKey)
	if err := priv.UnmarshalBinary(data); err != nil {
		return nil, errors.WithMessage(err, "keyring: failed to decode private key")
	}
	return priv, nil
}

// Remove deletes the private key of pk.
func (kr *KeyRing) Remove(pk *paillier.PublicKey) error {
	keyID := pk.KeyID()
	err := kr.vault.Delete(keyID)
	if errors.Is(err, vaultimpl.ErrKeyNotFound) {
		return errors.WithMessagef(ErrKeyNotFound, "key %s", keyID)
	}
	if err != nil {
		return errors.WithMessage(err, "keyring: failed to remove private key")
	}
	kr.log.Debug().Str("key", keyID).Msg("private key removed")
	return nil
}

// Keys returns the public keys that have a private key in the ring.
func (kr *KeyRing) Keys() ([]*paillier.PublicKey, error) {
	ids := kr.vault.Keys()
	keys := make([]*paillier.PublicKey, 0, len(ids))
	for _, id := range ids {
		priv, err := kr.get(id)
		if err != nil {
			return nil, err
		}
		keys = append(keys, priv.PublicKey())
	}
	return keys, nil
}

// Len returns the number of stored private keys.
func (kr *KeyRing) Len() int {
	return kr.vault.Len()
}

// DecryptEncoded decrypts en with the private key of its public key.
func (kr *KeyRing) DecryptEncoded(en *paillier.EncryptedNumber) (*paillier.EncodedNumber, error) {
	priv, err := kr.Get(en.PublicKey())
	if err != nil {
		return nil, err
	}
	return priv.DecryptEncoded(en)
}

// Decrypt decrypts en with the private key of its public key.
func (kr *KeyRing) Decrypt(en *paillier.EncryptedNumber) (*big.Rat, error) {
	enc, err := kr.DecryptEncoded(en)
	if err != nil {
		return nil, err
	}
	return enc.Decode()
}
