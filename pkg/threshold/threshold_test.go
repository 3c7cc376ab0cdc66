package threshold

import (
	"bytes"
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mr-shifu/tpaillier/core/paillier"
	"github.com/mr-shifu/tpaillier/pkg/keyrepository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKeyOnce sync.Once
	testPK      *paillier.PublicKey
	testSK      *paillier.PrivateKey
	testKeyErr  error
)

func testKey(t *testing.T) (*paillier.PublicKey, *paillier.PrivateKey) {
	t.Helper()
	testKeyOnce.Do(func() {
		testPK, testSK, testKeyErr = paillier.KeyGen(nil, 512)
	})
	require.NoError(t, testKeyErr)
	return testPK, testSK
}

func TestDeal(t *testing.T) {
	pk, sk := testKey(t)
	repo := keyrepository.NewKeyRepository()

	holders := []string{"alice", "bob", "carol"}
	shares, err := Deal(sk, holders, repo)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	registered, err := repo.GetAll(pk.KeyID())
	require.NoError(t, err)
	require.Len(t, registered, 3)
	for i, share := range shares {
		data, ok := registered[share.ID().String()]
		require.True(t, ok)
		assert.Equal(t, holders[i], data.Holder)
	}

	_, err = Deal(sk, []string{"alice"}, repo)
	assert.ErrorIs(t, err, ErrInvalidHolders)
	_, err = Deal(sk, []string{"alice", "alice"}, repo)
	assert.ErrorIs(t, err, ErrInvalidHolders)
}

func TestDeal_Redeal(t *testing.T) {
	pk, sk := testKey(t)
	repo := NewRepository()

	stale, err := Deal(sk, []string{"alice", "bob"}, repo)
	require.NoError(t, err)
	current, err := Deal(sk, []string{"alice", "bob"}, repo)
	require.NoError(t, err)

	registered, err := repo.GetAll(pk.KeyID())
	require.NoError(t, err)
	assert.Len(t, registered, 2)

	cfg, err := NewConfigFromRepository(repo, pk, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, cfg.Shares, 2)

	en, err := pk.EncryptInt64(77)
	require.NoError(t, err)
	s, err := NewSession(cfg, en)
	require.NoError(t, err)

	// shares of the first deal are no longer accepted
	assert.ErrorIs(t, s.Apply(stale[0]), ErrUnknownShare)
	_, err = s.Finalize(stale[1])
	assert.ErrorIs(t, err, ErrUnknownShare)

	require.NoError(t, s.Apply(current[0]))
	r, err := s.Finalize(current[1])
	require.NoError(t, err)
	assert.Equal(t, 0, r.Cmp(big.NewRat(77, 1)))
}

func TestSession(t *testing.T) {
	pk, sk := testKey(t)
	repo := NewRepository()
	shares, err := Deal(sk, []string{"alice", "bob", "carol"}, repo)
	require.NoError(t, err)

	var logs bytes.Buffer
	cfg, err := NewConfigFromRepository(repo, pk, zerolog.New(&logs).Level(zerolog.DebugLevel))
	require.NoError(t, err)

	en, err := pk.EncryptInt64(-1234)
	require.NoError(t, err)
	s, err := NewSession(cfg, en)
	require.NoError(t, err)
	assert.Equal(t, StateFresh, s.State())
	assert.Len(t, s.Remaining(), 3)

	_, err = s.Result()
	assert.ErrorIs(t, err, ErrIncomplete)

	require.NoError(t, s.Apply(shares[1]))
	assert.Equal(t, StatePartial, s.State())
	assert.True(t, s.Ciphertext().Partial())

	// apply-once
	assert.ErrorIs(t, s.Apply(shares[1]), ErrShareReused)
	_, err = s.Finalize(shares[1])
	assert.ErrorIs(t, err, ErrShareReused)

	// carol still missing
	_, err = s.Finalize(shares[0])
	assert.ErrorIs(t, err, ErrIncomplete)

	require.NoError(t, s.Apply(shares[2]))
	assert.ErrorIs(t, s.Apply(shares[0]), ErrIncomplete)

	r, err := s.Finalize(shares[0])
	require.NoError(t, err)
	assert.Equal(t, 0, r.Cmp(big.NewRat(-1234, 1)))
	assert.Equal(t, StateDone, s.State())
	assert.Empty(t, s.Remaining())

	r, err = s.Result()
	require.NoError(t, err)
	assert.Equal(t, 0, r.Cmp(big.NewRat(-1234, 1)))

	_, err = s.Finalize(shares[0])
	assert.ErrorIs(t, err, ErrSessionDone)

	assert.Contains(t, logs.String(), s.ID().String())
	assert.Contains(t, logs.String(), "session finalized")
}

func TestSession_UnknownShare(t *testing.T) {
	pk, sk := testKey(t)
	shares, err := sk.SplitN(2)
	require.NoError(t, err)
	others, err := sk.SplitN(2)
	require.NoError(t, err)

	en, err := pk.EncryptInt64(5)
	require.NoError(t, err)
	s, err := NewSession(NewConfig(pk.KeyID(), []uuid.UUID{shares[0].ID(), shares[1].ID()}), en)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Apply(others[0]), ErrUnknownShare)
	assert.Equal(t, StateFresh, s.State())

	require.NoError(t, s.Apply(shares[0]))
	r, err := s.Finalize(shares[1])
	require.NoError(t, err)
	assert.Equal(t, 0, r.Cmp(big.NewRat(5, 1)))
}

func TestNewSession_Invalid(t *testing.T) {
	pk, sk := testKey(t)
	otherPK, _, err := paillier.KeyGen(nil, 512)
	require.NoError(t, err)
	shares, err := sk.SplitN(2)
	require.NoError(t, err)
	ids := []uuid.UUID{shares[0].ID(), shares[1].ID()}

	en, err := otherPK.EncryptInt64(1)
	require.NoError(t, err)
	_, err = NewSession(NewConfig(pk.KeyID(), ids), en)
	assert.ErrorIs(t, err, paillier.ErrKeyMismatch)

	en, err = pk.EncryptInt64(1)
	require.NoError(t, err)
	_, err = NewSession(NewConfig(pk.KeyID(), ids[:1]), en)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewSession(NewConfig(pk.KeyID(), []uuid.UUID{ids[0], ids[0]}), en)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewSession(nil, en)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewConfigFromRepository(keyrepository.NewKeyRepository(), pk, zerolog.Nop())
	assert.ErrorIs(t, err, keyrepository.ErrKeyNotFound)
}

func TestApplyAll(t *testing.T) {
	pk, sk := testKey(t)
	s1, s2, err := sk.SplitIntoShares()
	require.NoError(t, err)

	values := []int64{3, -9, 27, 0, 1 << 30}
	cts := make([]*paillier.EncryptedNumber, len(values))
	for i, v := range values {
		cts[i], err = pk.EncryptInt64(v)
		require.NoError(t, err)
	}

	partials, err := ApplyAll(context.Background(), s1, cts)
	require.NoError(t, err)
	require.Len(t, partials, len(values))
	for i, partial := range partials {
		assert.True(t, partial.Partial())
		decrypted, err := s2.DecryptInt(partial)
		require.NoError(t, err)
		assert.Equal(t, values[i], decrypted.Int64())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ApplyAll(ctx, s1, cts)
	assert.ErrorIs(t, err, context.Canceled)

	otherPK, _, err := paillier.KeyGen(nil, 512)
	require.NoError(t, err)
	foreign, err := otherPK.EncryptInt64(1)
	require.NoError(t, err)
	_, err = ApplyAll(context.Background(), s1, append(cts, foreign))
	assert.ErrorIs(t, err, paillier.ErrKeyMismatch)
}
