package sample

import (
	cryptorand "crypto/rand"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"
)

// maxIterations bounds rejection sampling loops.
const maxIterations = 255

var ErrMaxIterations = errors.New("sample: failed to generate after 255 iterations")

var one = big.NewInt(1)

func reader(rand io.Reader) io.Reader {
	if rand == nil {
		return cryptorand.Reader
	}
	return rand
}

// readBits fills buf from rand and clears the bits above bitLen.
func readBits(rand io.Reader, buf []byte, bitLen int) error {
	if _, err := io.ReadFull(rand, buf); err != nil {
		return errors.WithMessage(err, "sample: failed to read random bytes")
	}
	if excess := len(buf)*8 - bitLen; excess > 0 {
		buf[0] &= byte(0xff) >> excess
	}
	return nil
}

// ModN samples an element of ℤₙ uniformly at random.
//
// Candidates are compared as big.Int so that n, which is usually shared by a
// key, is only read.
func ModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	return sampleBelow(rand, n, func(_, _ *big.Int) bool { return true })
}

// UnitModN returns a u ∈ ℤₙˣ sampled uniformly at random.
func UnitModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	return sampleBelow(rand, n, func(x, bound *big.Int) bool {
		return x.Sign() > 0 && new(big.Int).GCD(nil, nil, x, bound).Cmp(one) == 0
	})
}

func sampleBelow(rand io.Reader, n *saferith.Modulus, accept func(x, bound *big.Int) bool) (*saferith.Nat, error) {
	rand = reader(rand)
	bound := n.Big()
	bitLen := bound.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	for i := 0; i < maxIterations; i++ {
		if err := readBits(rand, buf, bitLen); err != nil {
			return nil, err
		}
		x := new(big.Int).SetBytes(buf)
		if x.Cmp(bound) < 0 && accept(x, bound) {
			return new(saferith.Nat).SetBig(x, bitLen), nil
		}
	}
	return nil, ErrMaxIterations
}

// Below returns an integer sampled uniformly from [0, bound).
func Below(rand io.Reader, bound *big.Int) (*big.Int, error) {
	if bound == nil || bound.Sign() <= 0 {
		return nil, errors.New("sample: bound must be positive")
	}
	out, err := cryptorand.Int(reader(rand), bound)
	if err != nil {
		return nil, errors.WithMessage(err, "sample: failed to sample below bound")
	}
	return out, nil
}

// Between returns an integer sampled uniformly from [lo, hi).
func Between(rand io.Reader, lo, hi *big.Int) (*big.Int, error) {
	width := new(big.Int).Sub(hi, lo)
	out, err := Below(rand, width)
	if err != nil {
		return nil, err
	}
	return out.Add(out, lo), nil
}
