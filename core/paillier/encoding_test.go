package paillier

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Exponent(t *testing.T) {
	pk, _ := testKey(t)

	enc, err := EncodeInt64(pk, 15)
	require.NoError(t, err)
	assert.Equal(t, 0, enc.Exponent())
	assert.Equal(t, int64(15), enc.Encoding().Int64())

	// frexp(3.0) = 0.75 * 2^2, floor((2 - 53) / 4) = -13
	enc, err = EncodeFloat(pk, 3.0, 0)
	require.NoError(t, err)
	assert.Equal(t, -13, enc.Exponent())
	assert.Equal(t, 0, new(big.Int).Mul(big.NewInt(3), powBase(13)).Cmp(enc.Encoding()))

	// floor(log16(0.001)) = -3, round(3.14159 * 16^3) = 12868
	enc, err = EncodeFloat(pk, 3.14159, 1e-3)
	require.NoError(t, err)
	assert.Equal(t, -3, enc.Exponent())
	assert.Equal(t, int64(12868), enc.Encoding().Int64())

	enc, err = EncodeFloatAtMost(pk, 3.0, 0, -20)
	require.NoError(t, err)
	assert.Equal(t, -20, enc.Exponent())

	enc, err = EncodeIntAtMost(pk, big.NewInt(7), -2)
	require.NoError(t, err)
	assert.Equal(t, -2, enc.Exponent())
	assert.Equal(t, int64(7*256), enc.Encoding().Int64())
}

func TestEncode_Negative(t *testing.T) {
	pk, _ := testKey(t)

	enc, err := EncodeInt64(pk, -5)
	require.NoError(t, err)
	expected := new(big.Int).Sub(pk.N(), big.NewInt(5))
	assert.Equal(t, 0, expected.Cmp(enc.Encoding()))

	decoded, err := enc.DecodeInt()
	require.NoError(t, err)
	assert.Equal(t, int64(-5), decoded.Int64())
}

func TestEncode_RoundHalfEven(t *testing.T) {
	pk, _ := testKey(t)

	for _, tc := range []struct {
		num, den int64
		want     int64
	}{
		{5, 2, 2},
		{7, 2, 4},
		{-5, 2, -2},
		{-7, 2, -4},
		{11, 4, 3},
		{-11, 4, -3},
		{9, 4, 2},
	} {
		enc, err := EncodeRat(pk, big.NewRat(tc.num, tc.den), 0)
		require.NoError(t, err)
		got, err := enc.DecodeInt()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Int64(), "%d/%d", tc.num, tc.den)
	}
}

func TestEncode_Limits(t *testing.T) {
	pk, _ := testKey(t)
	maxInt := pk.MaxInt()

	enc, err := EncodeInt(pk, maxInt)
	require.NoError(t, err)
	decoded, err := enc.DecodeInt()
	require.NoError(t, err)
	assert.Equal(t, 0, maxInt.Cmp(decoded))

	enc, err = EncodeInt(pk, new(big.Int).Neg(maxInt))
	require.NoError(t, err)
	decoded, err = enc.DecodeInt()
	require.NoError(t, err)
	assert.Equal(t, 0, new(big.Int).Neg(maxInt).Cmp(decoded))

	_, err = EncodeInt(pk, new(big.Int).Add(maxInt, big.NewInt(1)))
	assert.ErrorIs(t, err, ErrEncodingOverflow)

	// ⌊n/3⌋ itself is one past the bound
	third := new(big.Int).Div(pk.N(), big.NewInt(3))
	_, err = EncodeInt(pk, third)
	require.ErrorIs(t, err, ErrEncodingOverflow)
	assert.Contains(t, err.Error(), third.String())
	assert.Contains(t, err.Error(), maxInt.String())
	_, err = pk.Encrypt(new(big.Int).Neg(third))
	assert.ErrorIs(t, err, ErrEncodingOverflow)

	_, err = EncodeFloat(pk, math.NaN(), 0)
	assert.ErrorIs(t, err, ErrEncodingOverflow)
	_, err = EncodeFloat(pk, math.Inf(-1), 0)
	assert.ErrorIs(t, err, ErrEncodingOverflow)
	_, err = EncodeFloat(pk, 1, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	// 0.001 rounds to 0 at exponent 0
	_, err = EncodeRat(pk, big.NewRat(1, 1000), 0)
	assert.ErrorIs(t, err, ErrPrecision)
	_, err = EncodeFloat(pk, 1e-9, 1)
	assert.ErrorIs(t, err, ErrPrecision)
}

func TestDecode_Ranges(t *testing.T) {
	pk, _ := testKey(t)

	// between maxInt and n - maxInt
	middle, err := NewEncodedNumber(pk, new(big.Int).Add(pk.MaxInt(), big.NewInt(1)), 0)
	require.NoError(t, err)
	_, err = middle.Decode()
	assert.ErrorIs(t, err, ErrEncodingOverflow)

	corrupted := &EncodedNumber{pk: pk, encoding: pk.N(), exponent: 0}
	_, err = corrupted.Decode()
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = NewEncodedNumber(pk, pk.N(), 0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	enc, err := EncodeFloat(pk, 1.5, 0)
	require.NoError(t, err)
	_, err = enc.DecodeInt()
	assert.ErrorIs(t, err, ErrNotInteger)
	r, err := enc.Decode()
	require.NoError(t, err)
	assert.Equal(t, "3/2", r.RatString())
}

func TestEncodedNumber_DecreaseExponentTo(t *testing.T) {
	pk, _ := testKey(t)

	enc, err := EncodeInt64(pk, -3)
	require.NoError(t, err)

	rescaled, err := enc.DecreaseExponentTo(-2)
	require.NoError(t, err)
	assert.Equal(t, -2, rescaled.Exponent())
	decoded, err := rescaled.DecodeInt()
	require.NoError(t, err)
	assert.Equal(t, int64(-3), decoded.Int64())

	_, err = rescaled.DecreaseExponentTo(0)
	assert.ErrorIs(t, err, ErrExponentIncrease)
}
