package hash

import (
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_WriteAny(t *testing.T) {
	testFunc := func(vs ...interface{}) error {
		return New("test").WriteAny(vs...)
	}
	b := big.NewInt(35)
	n := new(saferith.Nat).SetBig(b, b.BitLen())
	m := saferith.ModulusFromBytes(b.Bytes())

	assert.NoError(t, testFunc(b, n, m))
	assert.NoError(t, testFunc(uuid.New()))
	assert.NoError(t, testFunc([]byte{1, 4, 6}))
	assert.Error(t, testFunc(big.NewInt(-1)))
	assert.Error(t, testFunc(42))
	assert.Error(t, testFunc([]byte(nil)))
}

func TestHash_WriteAny_Collision(t *testing.T) {
	testFunc := func(vs ...interface{}) []byte {
		h := New("test")
		require.NoError(t, h.WriteAny(vs...))
		return h.Sum()
	}

	h1 := testFunc([]byte("12"), []byte("3"))
	h2 := testFunc([]byte("1"), []byte("23"))
	assert.NotEqual(t, h1, h2)

	// same bytes, different domains
	h3 := testFunc([]byte{0x23})
	h4 := testFunc(big.NewInt(0x23))
	assert.NotEqual(t, h3, h4)

	assert.NotEqual(t, testFunc(big.NewInt(1)), New("other").Sum())
}

func TestHash_Clone(t *testing.T) {
	h := New("test")
	require.NoError(t, h.WriteAny([]byte("123")))

	h1 := h.Clone()
	require.NoError(t, h1.WriteAny([]byte("456")))
	require.NoError(t, h.WriteAny([]byte("456")))

	assert.Equal(t, h.Sum(), h1.Sum())
	assert.Len(t, h.Sum(), DigestLengthBytes)
}
