package paillier

import (
	"math"
	"math/big"

	"github.com/pkg/errors"
)

const (
	// Base is the radix of the fixed point exponent.
	Base = 16
	// log2Base is log₂(Base), used to turn binary exponents into base 16 ones.
	log2Base          = 4
	floatMantissaBits = 53
	// noMaxExponent disables the upper bound on the chosen exponent.
	noMaxExponent = math.MaxInt32
)

var one = big.NewInt(1)

// EncodedNumber is a signed fixed point number represented as
// encoding · Base^exponent, with negative values stored as n − |value|.
type EncodedNumber struct {
	pk       *PublicKey
	encoding *big.Int
	exponent int
}

// NewEncodedNumber wraps an already encoded value. encoding must lie in [0, n).
func NewEncodedNumber(pk *PublicKey, encoding *big.Int, exponent int) (*EncodedNumber, error) {
	if encoding == nil || encoding.Sign() < 0 || encoding.Cmp(pk.n) >= 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "encoding must lie in [0, n)")
	}
	return &EncodedNumber{pk: pk, encoding: new(big.Int).Set(encoding), exponent: exponent}, nil
}

// EncodeInt encodes x with exponent 0.
func EncodeInt(pk *PublicKey, x *big.Int) (*EncodedNumber, error) {
	return EncodeIntAtMost(pk, x, noMaxExponent)
}

// EncodeInt64 encodes x with exponent 0.
func EncodeInt64(pk *PublicKey, x int64) (*EncodedNumber, error) {
	return EncodeInt(pk, big.NewInt(x))
}

// EncodeIntAtMost encodes x with exponent min(0, maxExponent).
func EncodeIntAtMost(pk *PublicKey, x *big.Int, maxExponent int) (*EncodedNumber, error) {
	if x == nil {
		return nil, errors.WithMessage(ErrOutOfRange, "nil integer")
	}
	return EncodeRat(pk, new(big.Rat).SetInt(x), min(0, maxExponent))
}

// EncodeFloat encodes x. A positive precision selects the exponent
// ⌊log₁₆(precision)⌋, otherwise the exponent keeps all 53 bits of the mantissa.
func EncodeFloat(pk *PublicKey, x, precision float64) (*EncodedNumber, error) {
	return EncodeFloatAtMost(pk, x, precision, noMaxExponent)
}

// EncodeFloatAtMost is EncodeFloat with the exponent capped at maxExponent.
func EncodeFloatAtMost(pk *PublicKey, x, precision float64, maxExponent int) (*EncodedNumber, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, errors.WithMessagef(ErrEncodingOverflow, "cannot encode %v", x)
	}
	if math.IsNaN(precision) || math.IsInf(precision, 0) || precision < 0 {
		return nil, errors.WithMessagef(ErrOutOfRange, "invalid precision %v", precision)
	}
	exponent := min(floatExponent(x, precision), maxExponent)
	return EncodeRat(pk, new(big.Rat).SetFloat64(x), exponent)
}

func floatExponent(x, precision float64) int {
	if precision > 0 {
		return int(math.Floor(math.Log2(precision) / log2Base))
	}
	_, binExp := math.Frexp(x)
	return floorDiv(binExp-floatMantissaBits, log2Base)
}

// EncodeRat encodes x at the given exponent, rounding half to even.
func EncodeRat(pk *PublicKey, x *big.Rat, exponent int) (*EncodedNumber, error) {
	intRep := roundHalfEven(scale(x, -exponent))
	if intRep.CmpAbs(pk.maxInt) > 0 {
		return nil, errors.WithMessagef(ErrEncodingOverflow, "|%s| exceeds max %s", intRep, pk.maxInt)
	}
	if intRep.Sign() == 0 && x.Sign() != 0 {
		return nil, errors.WithMessagef(ErrPrecision, "exponent %d", exponent)
	}
	// big.Int.Mod is Euclidean, negatives map to n − |x|.
	encoding := intRep.Mod(intRep, pk.n)
	return &EncodedNumber{pk: pk, encoding: encoding, exponent: exponent}, nil
}

// PublicKey returns the key this number is encoded for.
func (e *EncodedNumber) PublicKey() *PublicKey { return e.pk }

// Encoding returns a copy of the encoded integer in [0, n).
func (e *EncodedNumber) Encoding() *big.Int { return new(big.Int).Set(e.encoding) }

func (e *EncodedNumber) Exponent() int { return e.exponent }

// mantissa maps the encoding back to a signed integer.
func (e *EncodedNumber) mantissa() (*big.Int, error) {
	n, maxInt := e.pk.n, e.pk.maxInt
	switch {
	case e.encoding.Cmp(n) >= 0:
		return nil, errors.WithMessage(ErrMalformedCiphertext, "attempted to decode corrupted number")
	case e.encoding.Cmp(maxInt) <= 0:
		return new(big.Int).Set(e.encoding), nil
	case e.encoding.Cmp(new(big.Int).Sub(n, maxInt)) >= 0:
		return new(big.Int).Sub(e.encoding, n), nil
	default:
		return nil, errors.WithMessage(ErrEncodingOverflow, "overflow detected in decoded number")
	}
}

// Decode returns the exact rational value.
func (e *EncodedNumber) Decode() (*big.Rat, error) {
	m, err := e.mantissa()
	if err != nil {
		return nil, err
	}
	return scale(new(big.Rat).SetInt(m), e.exponent), nil
}

// DecodeFloat returns the nearest float64.
func (e *EncodedNumber) DecodeFloat() (float64, error) {
	r, err := e.Decode()
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	if math.IsInf(f, 0) {
		return 0, errors.WithMessage(ErrEncodingOverflow, "value exceeds float64 range")
	}
	return f, nil
}

// DecodeInt returns the integer value, or ErrNotInteger for a fractional one.
func (e *EncodedNumber) DecodeInt() (*big.Int, error) {
	r, err := e.Decode()
	if err != nil {
		return nil, err
	}
	if !r.IsInt() {
		return nil, errors.WithMessagef(ErrNotInteger, "decoded %s", r.RatString())
	}
	return new(big.Int).Set(r.Num()), nil
}

// DecreaseExponentTo returns an equivalent number with a smaller exponent.
func (e *EncodedNumber) DecreaseExponentTo(newExp int) (*EncodedNumber, error) {
	if newExp > e.exponent {
		return nil, errors.WithMessagef(ErrExponentIncrease, "%d > %d", newExp, e.exponent)
	}
	encoding := new(big.Int).Mul(e.encoding, powBase(e.exponent-newExp))
	encoding.Mod(encoding, e.pk.n)
	return &EncodedNumber{pk: e.pk, encoding: encoding, exponent: newExp}, nil
}

// powBase returns Base^k for k ≥ 0.
func powBase(k int) *big.Int {
	return new(big.Int).Lsh(one, uint(k*log2Base))
}

// scale returns x · Base^k.
func scale(x *big.Rat, k int) *big.Rat {
	out := new(big.Rat).Set(x)
	switch {
	case k > 0:
		out.Mul(out, new(big.Rat).SetInt(powBase(k)))
	case k < 0:
		out.Quo(out, new(big.Rat).SetInt(powBase(-k)))
	}
	return out
}

func roundHalfEven(x *big.Rat) *big.Int {
	num, den := x.Num(), x.Denom()
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	twice := r.Abs(r)
	twice.Lsh(twice, 1)
	if c := twice.Cmp(den); c > 0 || (c == 0 && q.Bit(0) == 1) {
		if num.Sign() < 0 {
			q.Sub(q, one)
		} else {
			q.Add(q, one)
		}
	}
	return q
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
