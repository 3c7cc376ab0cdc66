package paillier

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testKeySize = 512

var (
	testKeyOnce sync.Once
	testPK      *PublicKey
	testSK      *PrivateKey
	testKeyErr  error
)

// testKey returns a key pair shared by the tests of this package.
func testKey(t *testing.T) (*PublicKey, *PrivateKey) {
	t.Helper()
	testKeyOnce.Do(func() {
		testPK, testSK, testKeyErr = KeyGen(nil, testKeySize)
	})
	require.NoError(t, testKeyErr)
	return testPK, testSK
}

func encryptInt64(t *testing.T, pk *PublicKey, x int64) *EncryptedNumber {
	t.Helper()
	en, err := pk.EncryptInt64(x)
	require.NoError(t, err)
	return en
}

func encryptFloat(t *testing.T, pk *PublicKey, x float64) *EncryptedNumber {
	t.Helper()
	en, err := pk.EncryptFloat(x, 0)
	require.NoError(t, err)
	return en
}
