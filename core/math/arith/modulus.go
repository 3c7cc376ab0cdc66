package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// Modulus wraps a saferith.Modulus and enables faster modular exponentiation when
// the factorization is known.
// When m = a⋅b with gcd(a, b) = 1, xᵉ (mod m) can be computed with only two
// exponentiations, mod a and mod b respectively. The Paillier private key uses
// this with a = p², b = q² to work mod n².
type Modulus struct {
	// represents modulus m
	*saferith.Modulus
	// m = a⋅b
	a, b *saferith.Modulus
	// aInv = a⁻¹ (mod b)
	aNat, aInv *saferith.Nat
	// bound is m as a big.Int, for checks that must not touch the shared limbs
	bound *big.Int
}

var one = big.NewInt(1)

// ModulusFromN creates a simple wrapper around a given modulus n.
// The modulus is not copied.
func ModulusFromN(n *saferith.Modulus) *Modulus {
	return &Modulus{
		Modulus: n,
		bound:   n.Big(),
	}
}

// ModulusFromBig creates a wrapper around n without factorization.
func ModulusFromBig(n *big.Int) *Modulus {
	return ModulusFromN(saferith.ModulusFromBytes(n.Bytes()))
}

// ModulusFromFactors creates the necessary cached values to accelerate
// exponentiation mod a⋅b. The factors must be coprime.
func ModulusFromFactors(a, b *saferith.Nat) *Modulus {
	mNat := new(saferith.Nat).Mul(a, b, -1)
	mMod := saferith.ModulusFromNat(mNat)
	aMod := saferith.ModulusFromNat(a)
	bMod := saferith.ModulusFromNat(b)
	aInvB := new(saferith.Nat).ModInverse(a, bMod)
	aNat := new(saferith.Nat).SetNat(a)
	return &Modulus{
		Modulus: mMod,
		a:       aMod,
		b:       bMod,
		aNat:    aNat,
		aInv:    aInvB,
		bound:   mNat.Big(),
	}
}

// Exp is equivalent to (saferith.Nat).Exp(x, e, m.Modulus).
// It returns xᵉ (mod m).
func (m *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	if m.HasFactorization() {
		var xa, xb saferith.Nat
		xa.Exp(x, e, m.a) // x₁ = xᵉ (mod a)
		xb.Exp(x, e, m.b) // x₂ = xᵉ (mod b)
		// r = x₁ + a ⋅ [a⁻¹ (mod b)] ⋅ [x₂ - x₁] (mod m)
		r := xb.ModSub(&xb, &xa, m.Modulus)
		r.ModMul(r, m.aInv, m.Modulus)
		r.ModMul(r, m.aNat, m.Modulus)
		r.ModAdd(r, &xa, m.Modulus)
		return r
	}
	return new(saferith.Nat).Exp(x, e, m.Modulus)
}

// Mul returns x⋅y (mod m).
func (m *Modulus) Mul(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModMul(x, y, m.Modulus)
}

// Valid reports whether x ∈ [1, m) and gcd(x, m) = 1.
// It only reads m and is safe for concurrent use.
func (m *Modulus) Valid(x *saferith.Nat) bool {
	if x == nil {
		return false
	}
	return m.ValidBig(x.Big())
}

// ValidBig is Valid for a big.Int.
func (m *Modulus) ValidBig(x *big.Int) bool {
	if x.Sign() <= 0 || x.Cmp(m.bound) >= 0 {
		return false
	}
	return new(big.Int).GCD(nil, nil, x, m.bound).Cmp(one) == 0
}

// Inverse returns x⁻¹ (mod m). The second return value is false when x is
// not a unit, in which case the first one must not be used.
func (m *Modulus) Inverse(x *saferith.Nat) (*saferith.Nat, bool) {
	if x == nil {
		return nil, false
	}
	xb := x.Big()
	if !m.ValidBig(xb) {
		return nil, false
	}
	inv := new(big.Int).ModInverse(xb, m.bound)
	return new(saferith.Nat).SetBig(inv, m.bound.BitLen()), true
}

// HasFactorization reports whether exponentiation uses the CRT shortcut.
func (m Modulus) HasFactorization() bool {
	return m.a != nil && m.b != nil && m.aNat != nil && m.aInv != nil
}
