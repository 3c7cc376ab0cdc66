package paillier

import (
	"math/big"

	"github.com/pkg/errors"
)

// EncryptedNumber is an encrypted fixed point number: a Ciphertext together
// with the exponent of the encoded plaintext.
//
// EncryptedNumber values are immutable. Every operation returns a new value.
type EncryptedNumber struct {
	pk       *PublicKey
	ct       *Ciphertext
	exponent int
	// obfuscated is set once the ciphertext has been re-randomized
	obfuscated bool
	// partial is set once a key share has been applied
	partial bool
}

// NewEncryptedNumber wraps a raw ciphertext with the exponent of its plaintext.
func NewEncryptedNumber(pk *PublicKey, ct *Ciphertext, exponent int) (*EncryptedNumber, error) {
	if err := pk.ValidateCiphertext(ct); err != nil {
		return nil, err
	}
	return &EncryptedNumber{pk: pk, ct: ct.Clone(), exponent: exponent}, nil
}

func (en *EncryptedNumber) PublicKey() *PublicKey { return en.pk }

// Ciphertext returns a copy of the raw ciphertext.
func (en *EncryptedNumber) Ciphertext() *Ciphertext { return en.ct.Clone() }

func (en *EncryptedNumber) Exponent() int { return en.exponent }

// Obfuscated reports whether the ciphertext was re-randomized after its last operation.
func (en *EncryptedNumber) Obfuscated() bool { return en.obfuscated }

// Partial reports whether at least one key share has been applied.
func (en *EncryptedNumber) Partial() bool { return en.partial }

func (en *EncryptedNumber) with(ct *Ciphertext, exponent int) *EncryptedNumber {
	return &EncryptedNumber{pk: en.pk, ct: ct, exponent: exponent, partial: en.partial}
}

// Obfuscate returns a copy encrypting the same value under a fresh nonce.
func (en *EncryptedNumber) Obfuscate() (*EncryptedNumber, error) {
	if en.partial {
		return nil, errors.WithMessage(ErrPartialCiphertext, "cannot obfuscate")
	}
	s, err := sampleNonce(en.pk)
	if err != nil {
		return nil, err
	}
	out := en.with(en.pk.rerandomize(en.ct, s), en.exponent)
	out.obfuscated = true
	return out, nil
}

// Secure obfuscates en unless it already is.
func (en *EncryptedNumber) Secure() (*EncryptedNumber, error) {
	if en.obfuscated {
		return en, nil
	}
	return en.Obfuscate()
}

// Add returns an encryption of the sum of both plaintexts. Exponents are
// aligned to the smaller one first.
func (en *EncryptedNumber) Add(other *EncryptedNumber) (*EncryptedNumber, error) {
	if !en.pk.Equal(other.pk) {
		return nil, errors.WithMessage(ErrKeyMismatch, "attempted to add numbers encrypted under different keys")
	}
	if en.partial != other.partial {
		return nil, errors.WithMessage(ErrPartialCiphertext, "cannot add a fresh and a partially decrypted number")
	}
	x, y, err := alignExponents(en, other)
	if err != nil {
		return nil, err
	}
	return x.with(x.pk.add(x.ct, y.ct), x.exponent), nil
}

func alignExponents(x, y *EncryptedNumber) (*EncryptedNumber, *EncryptedNumber, error) {
	var err error
	switch {
	case x.exponent > y.exponent:
		x, err = x.DecreaseExponentTo(y.exponent)
	case x.exponent < y.exponent:
		y, err = y.DecreaseExponentTo(x.exponent)
	}
	return x, y, err
}

// AddEncoded returns an encryption of the sum with an encoded scalar.
func (en *EncryptedNumber) AddEncoded(enc *EncodedNumber) (*EncryptedNumber, error) {
	if !en.pk.Equal(enc.pk) {
		return nil, errors.WithMessage(ErrKeyMismatch, "attempted to add a number encoded for another key")
	}
	if en.partial {
		return nil, errors.WithMessage(ErrPartialCiphertext, "cannot add a scalar")
	}
	var err error
	x := en
	switch {
	case en.exponent > enc.exponent:
		x, err = en.DecreaseExponentTo(enc.exponent)
	case en.exponent < enc.exponent:
		enc, err = enc.DecreaseExponentTo(en.exponent)
	}
	if err != nil {
		return nil, err
	}
	// The sum is re-randomized by x's nonce, the scalar needs none.
	scalar, err := x.pk.trivialEncrypt(enc.encoding)
	if err != nil {
		return nil, err
	}
	return x.with(x.pk.add(x.ct, scalar), x.exponent), nil
}

func (en *EncryptedNumber) AddInt(x *big.Int) (*EncryptedNumber, error) {
	enc, err := EncodeIntAtMost(en.pk, x, en.exponent)
	if err != nil {
		return nil, err
	}
	return en.AddEncoded(enc)
}

func (en *EncryptedNumber) AddInt64(x int64) (*EncryptedNumber, error) {
	return en.AddInt(big.NewInt(x))
}

// AddFloat encodes x at an exponent no larger than en's and adds it.
func (en *EncryptedNumber) AddFloat(x float64) (*EncryptedNumber, error) {
	enc, err := EncodeFloatAtMost(en.pk, x, 0, en.exponent)
	if err != nil {
		return nil, err
	}
	return en.AddEncoded(enc)
}

// Sub returns an encryption of en − other.
func (en *EncryptedNumber) Sub(other *EncryptedNumber) (*EncryptedNumber, error) {
	neg, err := other.MulInt64(-1)
	if err != nil {
		return nil, err
	}
	return en.Add(neg)
}

func (en *EncryptedNumber) SubInt64(x int64) (*EncryptedNumber, error) {
	return en.AddInt(new(big.Int).Neg(big.NewInt(x)))
}

func (en *EncryptedNumber) SubFloat(x float64) (*EncryptedNumber, error) {
	return en.AddFloat(-x)
}

// SubFromInt returns an encryption of x − en.
func (en *EncryptedNumber) SubFromInt(x *big.Int) (*EncryptedNumber, error) {
	neg, err := en.negate()
	if err != nil {
		return nil, err
	}
	return neg.AddInt(x)
}

func (en *EncryptedNumber) SubFromInt64(x int64) (*EncryptedNumber, error) {
	return en.SubFromInt(big.NewInt(x))
}

// SubFromFloat returns an encryption of x − en.
func (en *EncryptedNumber) SubFromFloat(x float64) (*EncryptedNumber, error) {
	neg, err := en.negate()
	if err != nil {
		return nil, err
	}
	return neg.AddFloat(x)
}

func (en *EncryptedNumber) negate() (*EncryptedNumber, error) {
	if en.partial {
		return nil, errors.WithMessage(ErrPartialCiphertext, "cannot add a scalar")
	}
	return en.MulInt64(-1)
}

// MulEncoded returns an encryption of the product with an encoded scalar.
// Exponents add up.
func (en *EncryptedNumber) MulEncoded(enc *EncodedNumber) (*EncryptedNumber, error) {
	if !en.pk.Equal(enc.pk) {
		return nil, errors.WithMessage(ErrKeyMismatch, "attempted to multiply by a number encoded for another key")
	}
	ct, err := en.pk.mul(en.ct, enc.encoding)
	if err != nil {
		return nil, err
	}
	return en.with(ct, en.exponent+enc.exponent), nil
}

func (en *EncryptedNumber) MulInt(x *big.Int) (*EncryptedNumber, error) {
	enc, err := EncodeInt(en.pk, x)
	if err != nil {
		return nil, err
	}
	return en.MulEncoded(enc)
}

func (en *EncryptedNumber) MulInt64(x int64) (*EncryptedNumber, error) {
	return en.MulInt(big.NewInt(x))
}

func (en *EncryptedNumber) MulFloat(x float64) (*EncryptedNumber, error) {
	enc, err := EncodeFloat(en.pk, x, 0)
	if err != nil {
		return nil, err
	}
	return en.MulEncoded(enc)
}

// DivFloat multiplies by 1/x.
func (en *EncryptedNumber) DivFloat(x float64) (*EncryptedNumber, error) {
	if x == 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "division by zero")
	}
	return en.MulFloat(1 / x)
}

func (en *EncryptedNumber) DivInt64(x int64) (*EncryptedNumber, error) {
	return en.DivFloat(float64(x))
}

// DecreaseExponentTo returns an encryption of the same value with exponent
// newExp, multiplying the plaintext by Base^(exponent−newExp).
func (en *EncryptedNumber) DecreaseExponentTo(newExp int) (*EncryptedNumber, error) {
	if newExp > en.exponent {
		return nil, errors.WithMessagef(ErrExponentIncrease, "%d > %d", newExp, en.exponent)
	}
	if newExp == en.exponent {
		return en, nil
	}
	factor, err := EncodeInt(en.pk, powBase(en.exponent-newExp))
	if err != nil {
		return nil, err
	}
	out, err := en.MulEncoded(factor)
	if err != nil {
		return nil, err
	}
	out.exponent = newExp
	return out, nil
}
