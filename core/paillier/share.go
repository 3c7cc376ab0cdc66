package paillier

import (
	"io"
	"math/big"

	"github.com/google/uuid"
	"github.com/mr-shifu/tpaillier/core/math/sample"
	"github.com/pkg/errors"
)

// KeyShare is one additive component of a PrivateKey's secret exponent.
// A share holds no primes, decryption uses the plain modulus n².
type KeyShare struct {
	secretExponent
	id uuid.UUID
}

// NewKeyShare restores a share from its identifier and secret exponent.
func NewKeyShare(id uuid.UUID, pk *PublicKey, sk *big.Int) (*KeyShare, error) {
	if sk == nil || sk.Sign() < 0 || sk.Cmp(pk.nSquared) >= 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "share must lie in [0, n²)")
	}
	return &KeyShare{
		secretExponent: secretExponent{pk: pk, sk: natFromBig(sk), mod: pk.nSquaredMod},
		id:             id,
	}, nil
}

func newShares(pk *PublicKey, r1, r2 *big.Int) (*KeyShare, *KeyShare, error) {
	id1, err := uuid.NewRandom()
	if err != nil {
		return nil, nil, errors.WithMessage(err, "paillier: failed to generate share id")
	}
	id2, err := uuid.NewRandom()
	if err != nil {
		return nil, nil, errors.WithMessage(err, "paillier: failed to generate share id")
	}
	s1, err := NewKeyShare(id1, pk, r1)
	if err != nil {
		return nil, nil, err
	}
	s2, err := NewKeyShare(id2, pk, r2)
	if err != nil {
		return nil, nil, err
	}
	return s1, s2, nil
}

// ID identifies the share within its set.
func (s *KeyShare) ID() uuid.UUID { return s.id }

// WithRand returns a copy of s whose public key draws from rand.
func (s *KeyShare) WithRand(rand io.Reader) *KeyShare {
	cpy := *s
	cpy.pk = s.pk.WithRand(rand)
	return &cpy
}

// Split splits the share into two shares summing to it. The receiver must no
// longer be used in a set that contains the new shares.
func (s *KeyShare) Split() (*KeyShare, *KeyShare, error) {
	r1, r2, err := s.split()
	if err != nil {
		return nil, nil, err
	}
	return newShares(s.pk, r1, r2)
}

// Equal returns true if both shares have the same identifier and exponent.
func (s *KeyShare) Equal(other *KeyShare) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.id == other.id && s.pk.Equal(other.pk) && s.sk.Big().Cmp(other.sk.Big()) == 0
}

// PartiallyDecrypt applies share to en. Each share of a set must be applied
// exactly once, the last one through Decrypt instead.
func PartiallyDecrypt(share *KeyShare, en *EncryptedNumber) (*EncryptedNumber, error) {
	return share.PartiallyDecrypt(en)
}

func sampleBelow(pk *PublicKey, bound *big.Int) (*big.Int, error) {
	r, err := sample.Below(pk.rand, bound)
	if err != nil {
		return nil, errors.WithMessage(err, "paillier: failed to sample share")
	}
	return r, nil
}
