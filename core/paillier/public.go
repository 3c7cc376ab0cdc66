package paillier

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/tpaillier/core/hash"
	"github.com/mr-shifu/tpaillier/core/math/arith"
	"github.com/mr-shifu/tpaillier/core/math/sample"
	"github.com/pkg/errors"
)

// PublicKey is the encryption key (n, g, h) with h = g^α mod n².
type PublicKey struct {
	n        *big.Int
	nSquared *big.Int
	// nSquaredMod is n² without its factorization
	nSquaredMod *arith.Modulus
	g, h        *saferith.Nat
	// maxInt = n/3 − 1 bounds the magnitude of encodable integers
	maxInt *big.Int

	rand io.Reader
}

// NewPublicKey validates n, g, h and returns the corresponding key.
// Randomness is drawn from crypto/rand, see WithRand.
func NewPublicKey(n, g, h *big.Int) (*PublicKey, error) {
	if n == nil || g == nil || h == nil {
		return nil, errors.WithMessage(ErrOutOfRange, "nil public key component")
	}
	if n.Cmp(big.NewInt(3)) <= 0 || n.Bit(0) == 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "n must be an odd integer > 3")
	}
	pk := newPublicKey(n, natFromBig(g), natFromBig(h), cryptorand.Reader)
	if !pk.nSquaredMod.Valid(pk.g) {
		return nil, errors.WithMessage(ErrOutOfRange, "g is not a unit mod n²")
	}
	if !pk.nSquaredMod.Valid(pk.h) {
		return nil, errors.WithMessage(ErrOutOfRange, "h is not a unit mod n²")
	}
	return pk, nil
}

func newPublicKey(n *big.Int, g, h *saferith.Nat, rand io.Reader) *PublicKey {
	nSquared := new(big.Int).Mul(n, n)
	maxInt := new(big.Int).Div(n, big.NewInt(3))
	maxInt.Sub(maxInt, one)
	return &PublicKey{
		n:           new(big.Int).Set(n),
		nSquared:    nSquared,
		nSquaredMod: arith.ModulusFromBig(nSquared),
		g:           g,
		h:           h,
		maxInt:      maxInt,
		rand:        sample.NewLockedReader(rand),
	}
}

// WithRand returns a copy of pk drawing nonces from rand.
func (pk *PublicKey) WithRand(rand io.Reader) *PublicKey {
	cpy := *pk
	cpy.rand = sample.NewLockedReader(rand)
	return &cpy
}

// N returns a copy of the modulus n.
func (pk *PublicKey) N() *big.Int { return new(big.Int).Set(pk.n) }

func (pk *PublicKey) NSquared() *big.Int { return new(big.Int).Set(pk.nSquared) }

func (pk *PublicKey) G() *big.Int { return pk.g.Big() }

func (pk *PublicKey) H() *big.Int { return pk.h.Big() }

// MaxInt returns the largest encodable magnitude.
func (pk *PublicKey) MaxInt() *big.Int { return new(big.Int).Set(pk.maxInt) }

// Equal returns true if both keys share the same modulus n.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return pk.n.Cmp(other.n) == 0
}

// SKI returns the fingerprint of the key, a blake3 digest of n.
func (pk *PublicKey) SKI() []byte {
	h := hash.New("tpaillier/PublicKey")
	_ = h.WriteAny(pk.n)
	return h.Sum()
}

// KeyID is the hex encoded SKI, used to index keys in stores.
func (pk *PublicKey) KeyID() string {
	return hex.EncodeToString(pk.SKI())
}

func (pk *PublicKey) String() string {
	return fmt.Sprintf("paillier.PublicKey{%s}", pk.KeyID()[:10])
}

// RawEncrypt encrypts m ∈ [0, n) with a fresh nonce r ∈ [0, n²).
func (pk *PublicKey) RawEncrypt(m *big.Int) (*Ciphertext, error) {
	r, err := sampleNonce(pk)
	if err != nil {
		return nil, err
	}
	return pk.rawEncrypt(m, r)
}

func sampleNonce(pk *PublicKey) (*saferith.Nat, error) {
	r, err := sample.ModN(pk.rand, pk.nSquaredMod.Modulus)
	if err != nil {
		return nil, errors.WithMessage(err, "paillier: failed to sample nonce")
	}
	return r, nil
}

// RawEncryptWithNonce encrypts m ∈ [0, n) with the caller supplied nonce r ≥ 0.
func (pk *PublicKey) RawEncryptWithNonce(m, r *big.Int) (*Ciphertext, error) {
	if r == nil || r.Sign() < 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "nonce must be non-negative")
	}
	return pk.rawEncrypt(m, natFromBig(r))
}

// rawEncrypt computes A = gʳ, B = (1 + n⋅m)⋅hʳ (mod n²).
func (pk *PublicKey) rawEncrypt(m *big.Int, r *saferith.Nat) (*Ciphertext, error) {
	nude, err := pk.nude(m)
	if err != nil {
		return nil, err
	}
	a := pk.nSquaredMod.Exp(pk.g, r)
	b := pk.nSquaredMod.Mul(nude, pk.nSquaredMod.Exp(pk.h, r))
	return &Ciphertext{a: a, b: b}, nil
}

// trivialEncrypt returns (1, 1 + n⋅m), the encryption of m with nonce 0.
func (pk *PublicKey) trivialEncrypt(m *big.Int) (*Ciphertext, error) {
	nude, err := pk.nude(m)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{a: new(saferith.Nat).SetUint64(1), b: nude}, nil
}

// nude returns 1 + n⋅m (mod n²).
func (pk *PublicKey) nude(m *big.Int) (*saferith.Nat, error) {
	if m == nil || m.Sign() < 0 || m.Cmp(pk.n) >= 0 {
		return nil, errors.WithMessage(ErrOutOfRange, "plaintext must lie in [0, n)")
	}
	nude := new(big.Int).Mul(pk.n, m)
	nude.Add(nude, one)
	nude.Mod(nude, pk.nSquared)
	return natFromBig(nude), nil
}

// Encrypt encodes and encrypts an integer.
func (pk *PublicKey) Encrypt(x *big.Int) (*EncryptedNumber, error) {
	enc, err := EncodeInt(pk, x)
	if err != nil {
		return nil, err
	}
	return pk.EncryptEncoded(enc)
}

func (pk *PublicKey) EncryptInt64(x int64) (*EncryptedNumber, error) {
	return pk.Encrypt(big.NewInt(x))
}

// EncryptFloat encodes x with the given precision (0 for full precision) and encrypts it.
func (pk *PublicKey) EncryptFloat(x, precision float64) (*EncryptedNumber, error) {
	enc, err := EncodeFloat(pk, x, precision)
	if err != nil {
		return nil, err
	}
	return pk.EncryptEncoded(enc)
}

// EncryptEncoded encrypts an encoded number. The result is not obfuscated.
func (pk *PublicKey) EncryptEncoded(enc *EncodedNumber) (*EncryptedNumber, error) {
	if !pk.Equal(enc.pk) {
		return nil, errors.WithMessage(ErrKeyMismatch, "attempted to encrypt a number encoded for another key")
	}
	ct, err := pk.RawEncrypt(enc.encoding)
	if err != nil {
		return nil, err
	}
	return &EncryptedNumber{pk: pk, ct: ct, exponent: enc.exponent}, nil
}

func natFromBig(x *big.Int) *saferith.Nat {
	return new(saferith.Nat).SetBig(x, max(x.BitLen(), 1))
}
