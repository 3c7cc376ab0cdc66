package paillier

import (
	"io"
	"math/big"

	"github.com/mr-shifu/tpaillier/core/math/sample"
	"github.com/pkg/errors"
)

const (
	// DefaultKeySize is the bit length of n used when Config.Bits is zero.
	DefaultKeySize = 2048
	MinKeySize     = 64
)

// Registry stores generated private keys, a keyring.KeyRing for instance.
type Registry interface {
	Add(priv *PrivateKey) error
}

// Config holds the key generation parameters.
type Config struct {
	// Bits is the bit length of n, DefaultKeySize when zero.
	Bits int
	// Rand is the entropy source, crypto/rand.Reader when nil.
	Rand io.Reader
	// Registry, if set, receives the generated private key.
	Registry Registry
}

func (cfg *Config) bits() int {
	if cfg == nil || cfg.Bits == 0 {
		return DefaultKeySize
	}
	return cfg.Bits
}

func (cfg *Config) rand() io.Reader {
	if cfg == nil {
		return nil
	}
	return cfg.Rand
}

// KeyGen generates a key pair with an n of the given bit length.
func KeyGen(rand io.Reader, bits int) (*PublicKey, *PrivateKey, error) {
	return GenerateKeypair(&Config{Bits: bits, Rand: rand})
}

// GenerateKeypair generates a key pair according to cfg, a nil cfg uses the defaults.
//
// n = p⋅q for two distinct primes of ⌊bits/2⌋ and ⌈bits/2⌉ bits,
// α ∈ [2, n²), g a random unit of ℤₙ₂ and h = g^α.
func GenerateKeypair(cfg *Config) (*PublicKey, *PrivateKey, error) {
	bits := cfg.bits()
	if bits < MinKeySize {
		return nil, nil, errors.WithMessagef(ErrOutOfRange, "key size %d is below %d bits", bits, MinKeySize)
	}
	rand := sample.NewLockedReader(cfg.rand())

	p, q, n, err := samplePrimes(rand, bits)
	if err != nil {
		return nil, nil, err
	}
	nSquared := new(big.Int).Mul(n, n)

	alpha, err := sample.Between(rand, big.NewInt(2), nSquared)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "paillier: failed to sample secret")
	}

	// h is computed with the factorization, so the private key comes first.
	pk := newPublicKey(n, nil, nil, rand)
	priv := newPrivateKey(pk, p, q, alpha)
	if pk.g, err = sample.UnitModN(rand, pk.nSquaredMod.Modulus); err != nil {
		return nil, nil, errors.WithMessage(err, "paillier: failed to sample generator")
	}
	pk.h = priv.mod.Exp(pk.g, priv.sk)

	if cfg != nil && cfg.Registry != nil {
		if err = cfg.Registry.Add(priv); err != nil {
			return nil, nil, errors.WithMessage(err, "paillier: failed to register private key")
		}
	}
	return pk, priv, nil
}

// samplePrimes samples p ≠ q until n = p⋅q has exactly bits bits.
func samplePrimes(rand io.Reader, bits int) (p, q, n *big.Int, err error) {
	for {
		if p, q, err = sample.PrimePair(rand, bits/2, bits-bits/2); err != nil {
			return nil, nil, nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}
		n = new(big.Int).Mul(p, q)
		if n.BitLen() == bits {
			return p, q, n, nil
		}
	}
}
