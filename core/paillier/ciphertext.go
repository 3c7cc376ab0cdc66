package paillier

import (
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/tpaillier/core/math/arith"
	"github.com/pkg/errors"
)

// Ciphertext is the raw pair (A, B) = (gʳ, (1 + n⋅m)⋅hʳ) mod n².
type Ciphertext struct {
	a, b *saferith.Nat
}

// NewCiphertext wraps the components a and b. Use PublicKey.ValidateCiphertext
// before operating on untrusted values.
func NewCiphertext(a, b *big.Int) *Ciphertext {
	if a == nil || b == nil {
		return &Ciphertext{}
	}
	return &Ciphertext{a: natFromBig(a), b: natFromBig(b)}
}

// A returns a copy of the first component.
func (ct *Ciphertext) A() *big.Int { return ct.a.Big() }

// B returns a copy of the second component.
func (ct *Ciphertext) B() *big.Int { return ct.b.Big() }

// Equal compares both components.
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	if ct == nil || other == nil {
		return ct == other
	}
	return ct.a.Big().Cmp(other.a.Big()) == 0 && ct.b.Big().Cmp(other.b.Big()) == 0
}

// Clone returns a deep copy of ct.
func (ct *Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{
		a: new(saferith.Nat).SetNat(ct.a),
		b: new(saferith.Nat).SetNat(ct.b),
	}
}

// ValidateCiphertext checks that both components are units of ℤₙ₂.
func (pk *PublicKey) ValidateCiphertext(ct *Ciphertext) error {
	if ct == nil || ct.a == nil || ct.b == nil {
		return errors.WithMessage(ErrMalformedCiphertext, "nil component")
	}
	if !pk.nSquaredMod.Valid(ct.a) {
		return errors.WithMessage(ErrMalformedCiphertext, "A is not a unit mod n²")
	}
	if !pk.nSquaredMod.Valid(ct.b) {
		return errors.WithMessage(ErrMalformedCiphertext, "B is not a unit mod n²")
	}
	return nil
}

// add returns the component-wise product, which encrypts the sum of plaintexts.
func (pk *PublicKey) add(x, y *Ciphertext) *Ciphertext {
	return &Ciphertext{
		a: pk.nSquaredMod.Mul(x.a, y.a),
		b: pk.nSquaredMod.Mul(x.b, y.b),
	}
}

// mul raises both components to m ∈ [0, n). For m in the negative half of the
// encoding range, both components are inverted and raised to n − m instead,
// which keeps the exponent small.
func (pk *PublicKey) mul(x *Ciphertext, m *big.Int) (*Ciphertext, error) {
	if m.Sign() < 0 || m.Cmp(pk.n) >= 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "scalar must lie in [0, n)")
	}
	a, b := x.a, x.b
	e := m
	if negThreshold := new(big.Int).Sub(pk.n, pk.maxInt); m.Cmp(negThreshold) >= 0 {
		var ok bool
		if a, ok = pk.nSquaredMod.Inverse(a); !ok {
			return nil, errors.WithMessage(ErrMalformedCiphertext, "A is not invertible")
		}
		if b, ok = pk.nSquaredMod.Inverse(b); !ok {
			return nil, errors.WithMessage(ErrMalformedCiphertext, "B is not invertible")
		}
		e = new(big.Int).Sub(pk.n, m)
	}
	eNat := natFromBig(e)
	return &Ciphertext{
		a: pk.nSquaredMod.Exp(a, eNat),
		b: pk.nSquaredMod.Exp(b, eNat),
	}, nil
}

// rerandomize returns (A⋅gˢ, B⋅hˢ), which encrypts the same plaintext under
// nonce r + s.
func (pk *PublicKey) rerandomize(x *Ciphertext, s *saferith.Nat) *Ciphertext {
	return &Ciphertext{
		a: pk.nSquaredMod.Mul(x.a, pk.nSquaredMod.Exp(pk.g, s)),
		b: pk.nSquaredMod.Mul(x.b, pk.nSquaredMod.Exp(pk.h, s)),
	}
}

// strip removes the contribution of the secret exponent sk from B:
// B ← B⋅(A⁻¹)^sk. A is left as is.
func strip(pk *PublicKey, m *arith.Modulus, sk *saferith.Nat, x *Ciphertext) (*Ciphertext, error) {
	if err := pk.ValidateCiphertext(x); err != nil {
		return nil, err
	}
	aInv, ok := m.Inverse(x.a)
	if !ok {
		return nil, errors.WithMessage(ErrMalformedCiphertext, "A is not invertible")
	}
	return &Ciphertext{
		a: new(saferith.Nat).SetNat(x.a),
		b: m.Mul(x.b, m.Exp(aInv, sk)),
	}, nil
}
