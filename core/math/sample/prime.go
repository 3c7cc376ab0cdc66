package sample

import (
	cryptorand "crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Prime returns a random prime of exactly the given bit length.
func Prime(rand io.Reader, bits int) (*big.Int, error) {
	p, err := cryptorand.Prime(reader(rand), bits)
	if err != nil {
		return nil, errors.WithMessagef(err, "sample: failed to generate %d-bit prime", bits)
	}
	return p, nil
}

// PrimePair samples two primes of pBits and qBits concurrently.
// rand must be safe for concurrent use, see NewLockedReader.
func PrimePair(rand io.Reader, pBits, qBits int) (p, q *big.Int, err error) {
	var eg errgroup.Group
	eg.Go(func() error {
		var err error
		p, err = Prime(rand, pBits)
		return err
	})
	eg.Go(func() error {
		var err error
		q, err = Prime(rand, qBits)
		return err
	})
	if err = eg.Wait(); err != nil {
		return nil, nil, err
	}
	return p, q, nil
}
