package paillier

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/tpaillier/core/math/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_Keys(t *testing.T) {
	pk, sk := testKey(t)

	data, err := pk.MarshalBinary()
	require.NoError(t, err)
	pk2 := new(PublicKey)
	require.NoError(t, pk2.UnmarshalBinary(data))
	assert.True(t, pk.Equal(pk2))
	assert.Equal(t, 0, pk.G().Cmp(pk2.G()))
	assert.Equal(t, 0, pk.H().Cmp(pk2.H()))

	data, err = sk.MarshalBinary()
	require.NoError(t, err)
	sk2 := new(PrivateKey)
	require.NoError(t, sk2.UnmarshalBinary(data))
	assert.True(t, sk.Equal(sk2))

	en := encryptInt64(t, pk, 404)
	decrypted, err := sk2.DecryptInt(en)
	require.NoError(t, err)
	assert.Equal(t, int64(404), decrypted.Int64())

	s1, s2, err := sk.SplitIntoShares()
	require.NoError(t, err)
	data, err = s1.MarshalBinary()
	require.NoError(t, err)
	restored := new(KeyShare)
	require.NoError(t, restored.UnmarshalBinary(data))
	assert.True(t, s1.Equal(restored))

	partial, err := restored.PartiallyDecrypt(en)
	require.NoError(t, err)
	decrypted, err = s2.DecryptInt(partial)
	require.NoError(t, err)
	assert.Equal(t, int64(404), decrypted.Int64())
}

func TestMarshal_WithRand(t *testing.T) {
	pk, sk := testKey(t)
	seed := []byte("decoded keys")

	data, err := sk.MarshalBinary()
	require.NoError(t, err)
	decoded := func() *PrivateKey {
		priv := new(PrivateKey)
		require.NoError(t, priv.UnmarshalBinary(data))
		return priv.WithRand(sample.Deterministic(seed))
	}

	a1, a2, err := decoded().SplitIntoShares()
	require.NoError(t, err)
	b1, b2, err := decoded().SplitIntoShares()
	require.NoError(t, err)
	assert.Equal(t, 0, a1.sk.Big().Cmp(b1.sk.Big()))
	assert.Equal(t, 0, a2.sk.Big().Cmp(b2.sk.Big()))

	pub, err := pk.MarshalBinary()
	require.NoError(t, err)
	encrypt := func() *Ciphertext {
		restored := new(PublicKey)
		require.NoError(t, restored.UnmarshalBinary(pub))
		en, err := restored.WithRand(sample.Deterministic(seed)).EncryptInt64(9)
		require.NoError(t, err)
		return en.Ciphertext()
	}
	assert.True(t, encrypt().Equal(encrypt()))

	shareData, err := a1.MarshalBinary()
	require.NoError(t, err)
	share := new(KeyShare)
	require.NoError(t, share.UnmarshalBinary(shareData))
	c1, _, err := share.WithRand(sample.Deterministic(seed)).Split()
	require.NoError(t, err)
	c2, _, err := share.WithRand(sample.Deterministic(seed)).Split()
	require.NoError(t, err)
	assert.Equal(t, 0, c1.sk.Big().Cmp(c2.sk.Big()))
}

func TestMarshal_PrivateKeyMismatch(t *testing.T) {
	pk, sk := testKey(t)

	pub, err := pk.MarshalBinary()
	require.NoError(t, err)
	// secret exponent does not match h
	data, err := cbor.Marshal(rawPrivateKey{
		Public: pub,
		P:      sk.p.Bytes(),
		Q:      sk.q.Bytes(),
		SK:     []byte{7},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, new(PrivateKey).UnmarshalBinary(data), ErrKeyMismatch)

	assert.Error(t, new(PublicKey).UnmarshalBinary([]byte{0xff}))
}

func TestMarshal_EncryptedNumber(t *testing.T) {
	pk, sk := testKey(t)

	en, err := encryptFloat(t, pk, 1.25).Obfuscate()
	require.NoError(t, err)
	data, err := en.MarshalBinary()
	require.NoError(t, err)

	en2, err := pk.UnmarshalEncryptedNumber(data)
	require.NoError(t, err)
	assert.True(t, en.Ciphertext().Equal(en2.Ciphertext()))
	assert.Equal(t, en.Exponent(), en2.Exponent())
	assert.True(t, en2.Obfuscated())
	assert.False(t, en2.Partial())

	f, err := sk.DecryptFloat(en2)
	require.NoError(t, err)
	assert.Equal(t, 1.25, f)

	// A = 0 is not a unit
	data, err = cbor.Marshal(rawEncryptedNumber{A: nil, B: []byte{1}})
	require.NoError(t, err)
	_, err = pk.UnmarshalEncryptedNumber(data)
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = pk.UnmarshalEncryptedNumber([]byte("not cbor"))
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}
