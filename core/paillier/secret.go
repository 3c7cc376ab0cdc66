package paillier

import (
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/tpaillier/core/math/arith"
	"github.com/pkg/errors"
)

// secretExponent is the decryption capability shared by PrivateKey and KeyShare:
// a secret exponent sk and the modulus n² to exponentiate with.
type secretExponent struct {
	pk  *PublicKey
	sk  *saferith.Nat
	mod *arith.Modulus
}

// PublicKey returns the key this secret belongs to.
func (s *secretExponent) PublicKey() *PublicKey { return s.pk }

// RawDecrypt returns ((B⋅(A⁻¹)^sk − 1) mod n²) / n.
// For a KeyShare the result is only meaningful once every other share of the
// set has been applied with PartiallyDecrypt.
func (s *secretExponent) RawDecrypt(ct *Ciphertext) (*big.Int, error) {
	stripped, err := strip(s.pk, s.mod, s.sk, ct)
	if err != nil {
		return nil, err
	}
	x := stripped.b.Big()
	x.Sub(x, one)
	x.Mod(x, s.pk.nSquared)
	return x.Div(x, s.pk.n), nil
}

// DecryptEncoded decrypts en and keeps its exponent.
func (s *secretExponent) DecryptEncoded(en *EncryptedNumber) (*EncodedNumber, error) {
	if !s.pk.Equal(en.pk) {
		return nil, errors.WithMessage(ErrKeyMismatch, "attempted to decrypt a number encrypted under another key")
	}
	m, err := s.RawDecrypt(en.ct)
	if err != nil {
		return nil, err
	}
	return &EncodedNumber{pk: s.pk, encoding: m, exponent: en.exponent}, nil
}

// Decrypt returns the exact rational plaintext of en.
func (s *secretExponent) Decrypt(en *EncryptedNumber) (*big.Rat, error) {
	enc, err := s.DecryptEncoded(en)
	if err != nil {
		return nil, err
	}
	return enc.Decode()
}

func (s *secretExponent) DecryptFloat(en *EncryptedNumber) (float64, error) {
	enc, err := s.DecryptEncoded(en)
	if err != nil {
		return 0, err
	}
	return enc.DecodeFloat()
}

func (s *secretExponent) DecryptInt(en *EncryptedNumber) (*big.Int, error) {
	enc, err := s.DecryptEncoded(en)
	if err != nil {
		return nil, err
	}
	return enc.DecodeInt()
}

// PartiallyDecrypt strips this secret from en. The result stays encrypted under
// the remaining secrets and is flagged partial.
func (s *secretExponent) PartiallyDecrypt(en *EncryptedNumber) (*EncryptedNumber, error) {
	if !s.pk.Equal(en.pk) {
		return nil, errors.WithMessage(ErrKeyMismatch, "attempted to transform a number encrypted under another key")
	}
	ct, err := strip(s.pk, s.mod, s.sk, en.ct)
	if err != nil {
		return nil, err
	}
	return &EncryptedNumber{
		pk:         en.pk,
		ct:         ct,
		exponent:   en.exponent,
		obfuscated: en.obfuscated,
		partial:    true,
	}, nil
}

// split returns two exponents r₁ ∈ [0, ⌊sk/2⌋) and r₂ = sk − r₁.
func (s *secretExponent) split() (*big.Int, *big.Int, error) {
	sk := s.sk.Big()
	half := new(big.Int).Rsh(sk, 1)
	if half.Sign() == 0 {
		return nil, nil, errors.WithMessage(ErrOutOfRange, "secret too small to split")
	}
	r1, err := sampleBelow(s.pk, half)
	if err != nil {
		return nil, nil, err
	}
	return r1, sk.Sub(sk, r1), nil
}

// PrivateKey is the full decryption key. It knows the factorization of n and
// decrypts with CRT over (p², q²).
type PrivateKey struct {
	secretExponent
	p, q *big.Int
}

// NewPrivateKey checks that p⋅q = n and g^sk = h before building the key.
func NewPrivateKey(pk *PublicKey, p, q, sk *big.Int) (*PrivateKey, error) {
	if p == nil || q == nil || sk == nil {
		return nil, errors.WithMessage(ErrOutOfRange, "nil private key component")
	}
	if p.Cmp(q) == 0 || new(big.Int).Mul(p, q).Cmp(pk.n) != 0 {
		return nil, errors.WithMessage(ErrKeyMismatch, "factors do not match n")
	}
	if sk.Sign() < 0 || sk.Cmp(pk.nSquared) >= 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "secret must lie in [0, n²)")
	}
	priv := newPrivateKey(pk, p, q, sk)
	if priv.mod.Exp(pk.g, priv.sk).Big().Cmp(pk.h.Big()) != 0 {
		return nil, errors.WithMessage(ErrKeyMismatch, "g^sk does not match h")
	}
	return priv, nil
}

// NewPrivateKeyFromTotient recovers p and q from φ(n) = (p−1)(q−1):
// p + q = n − φ + 1 and p − q = √((p+q)² − 4n).
func NewPrivateKeyFromTotient(pk *PublicKey, totient, sk *big.Int) (*PrivateKey, error) {
	if totient == nil || totient.Sign() <= 0 || totient.Cmp(pk.n) >= 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "totient must lie in (0, n)")
	}
	sum := new(big.Int).Sub(pk.n, totient)
	sum.Add(sum, one)
	disc := new(big.Int).Mul(sum, sum)
	disc.Sub(disc, new(big.Int).Lsh(pk.n, 2))
	if disc.Sign() < 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "totient does not match n")
	}
	diff := new(big.Int).Sqrt(disc)
	if new(big.Int).Mul(diff, diff).Cmp(disc) != 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "totient does not match n")
	}
	p := new(big.Int).Add(sum, diff)
	q := new(big.Int).Sub(sum, diff)
	if p.Bit(0) != 0 || q.Bit(0) != 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "totient does not match n")
	}
	p.Rsh(p, 1)
	q.Rsh(q, 1)
	if new(big.Int).Mul(p, q).Cmp(pk.n) != 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "totient does not match n")
	}
	return NewPrivateKey(pk, p, q, sk)
}

func newPrivateKey(pk *PublicKey, p, q, sk *big.Int) *PrivateKey {
	pSquared := new(big.Int).Mul(p, p)
	qSquared := new(big.Int).Mul(q, q)
	return &PrivateKey{
		secretExponent: secretExponent{
			pk:  pk,
			sk:  natFromBig(sk),
			mod: arith.ModulusFromFactors(natFromBig(pSquared), natFromBig(qSquared)),
		},
		p: new(big.Int).Set(p),
		q: new(big.Int).Set(q),
	}
}

// WithRand returns a copy of priv whose public key, and therefore share
// splitting and encryption, draws from rand.
func (priv *PrivateKey) WithRand(rand io.Reader) *PrivateKey {
	cpy := *priv
	cpy.pk = priv.pk.WithRand(rand)
	return &cpy
}

// Totient returns φ(n) = (p−1)(q−1).
func (priv *PrivateKey) Totient() *big.Int {
	pm := new(big.Int).Sub(priv.p, one)
	qm := new(big.Int).Sub(priv.q, one)
	return pm.Mul(pm, qm)
}

// Equal returns true if both keys have the same factors and secret exponent.
func (priv *PrivateKey) Equal(other *PrivateKey) bool {
	if priv == nil || other == nil {
		return priv == other
	}
	sameFactors := (priv.p.Cmp(other.p) == 0 && priv.q.Cmp(other.q) == 0) ||
		(priv.p.Cmp(other.q) == 0 && priv.q.Cmp(other.p) == 0)
	return sameFactors && priv.sk.Big().Cmp(other.sk.Big()) == 0
}

// SplitIntoShares splits the secret exponent into two additive shares.
// Applying both, in any order, is equivalent to decrypting with priv.
func (priv *PrivateKey) SplitIntoShares() (*KeyShare, *KeyShare, error) {
	r1, r2, err := priv.split()
	if err != nil {
		return nil, nil, err
	}
	return newShares(priv.pk, r1, r2)
}

// SplitN splits the secret exponent into k ≥ 2 additive shares by splitting
// the last share repeatedly.
func (priv *PrivateKey) SplitN(k int) ([]*KeyShare, error) {
	if k < 2 {
		return nil, errors.WithMessagef(ErrOutOfRange, "cannot split into %d shares", k)
	}
	first, rest, err := priv.SplitIntoShares()
	if err != nil {
		return nil, err
	}
	shares := make([]*KeyShare, 0, k)
	shares = append(shares, first)
	for len(shares) < k-1 {
		var next *KeyShare
		if next, rest, err = rest.Split(); err != nil {
			return nil, err
		}
		shares = append(shares, next)
	}
	return append(shares, rest), nil
}
