package paillier

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type rawPublicKey struct {
	N []byte
	G []byte
	H []byte
}

type rawPrivateKey struct {
	Public []byte
	P      []byte
	Q      []byte
	SK     []byte
}

type rawKeyShare struct {
	ID     []byte
	Public []byte
	SK     []byte
}

type rawEncryptedNumber struct {
	A          []byte
	B          []byte
	Exponent   int
	Obfuscated bool
	Partial    bool
}

func bigFromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// MarshalBinary encodes (n, g, h) with cbor.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(rawPublicKey{
		N: pk.n.Bytes(),
		G: pk.g.Big().Bytes(),
		H: pk.h.Big().Bytes(),
	})
}

// UnmarshalBinary decodes and validates a key produced by MarshalBinary.
// The decoded key draws randomness from crypto/rand, use WithRand to replace it.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var raw rawPublicKey
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return errors.WithMessage(err, "paillier: failed to decode public key")
	}
	decoded, err := NewPublicKey(bigFromBytes(raw.N), bigFromBytes(raw.G), bigFromBytes(raw.H))
	if err != nil {
		return err
	}
	*pk = *decoded
	return nil
}

// MarshalBinary encodes the public key, the factors and the secret exponent.
func (priv *PrivateKey) MarshalBinary() ([]byte, error) {
	pub, err := priv.pk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(rawPrivateKey{
		Public: pub,
		P:      priv.p.Bytes(),
		Q:      priv.q.Bytes(),
		SK:     priv.sk.Big().Bytes(),
	})
}

// UnmarshalBinary decodes a private key and checks it against its public key.
// Like PublicKey.UnmarshalBinary it falls back to crypto/rand, see WithRand.
func (priv *PrivateKey) UnmarshalBinary(data []byte) error {
	var raw rawPrivateKey
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return errors.WithMessage(err, "paillier: failed to decode private key")
	}
	pk := new(PublicKey)
	if err := pk.UnmarshalBinary(raw.Public); err != nil {
		return err
	}
	decoded, err := NewPrivateKey(pk, bigFromBytes(raw.P), bigFromBytes(raw.Q), bigFromBytes(raw.SK))
	if err != nil {
		return err
	}
	*priv = *decoded
	return nil
}

func (s *KeyShare) MarshalBinary() ([]byte, error) {
	pub, err := s.pk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	id, err := s.id.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(rawKeyShare{
		ID:     id,
		Public: pub,
		SK:     s.sk.Big().Bytes(),
	})
}

// UnmarshalBinary restores a share. Its public key uses crypto/rand, see WithRand.
func (s *KeyShare) UnmarshalBinary(data []byte) error {
	var raw rawKeyShare
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return errors.WithMessage(err, "paillier: failed to decode key share")
	}
	id, err := uuid.FromBytes(raw.ID)
	if err != nil {
		return errors.WithMessage(err, "paillier: failed to decode share id")
	}
	pk := new(PublicKey)
	if err := pk.UnmarshalBinary(raw.Public); err != nil {
		return err
	}
	decoded, err := NewKeyShare(id, pk, bigFromBytes(raw.SK))
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

// MarshalBinary encodes the ciphertext and its flags. The public key is not
// included, see PublicKey.UnmarshalEncryptedNumber.
func (en *EncryptedNumber) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(rawEncryptedNumber{
		A:          en.ct.a.Big().Bytes(),
		B:          en.ct.b.Big().Bytes(),
		Exponent:   en.exponent,
		Obfuscated: en.obfuscated,
		Partial:    en.partial,
	})
}

// UnmarshalEncryptedNumber decodes an EncryptedNumber under pk, rejecting
// components that are not units of ℤₙ₂.
func (pk *PublicKey) UnmarshalEncryptedNumber(data []byte) (*EncryptedNumber, error) {
	var raw rawEncryptedNumber
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return nil, errors.WithMessage(ErrMalformedCiphertext, err.Error())
	}
	ct := NewCiphertext(bigFromBytes(raw.A), bigFromBytes(raw.B))
	if err := pk.ValidateCiphertext(ct); err != nil {
		return nil, err
	}
	return &EncryptedNumber{
		pk:         pk,
		ct:         ct,
		exponent:   raw.Exponent,
		obfuscated: raw.Obfuscated,
		partial:    raw.Partial,
	}, nil
}
