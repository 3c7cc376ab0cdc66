package paillier

import "errors"

var (
	// ErrMalformedCiphertext is returned when a ciphertext component is not a unit of ℤ*ₙ₂
	// or a decrypted encoding does not fit the key.
	ErrMalformedCiphertext = errors.New("paillier: malformed ciphertext")
	// ErrKeyMismatch is returned when values under different public keys are combined.
	ErrKeyMismatch = errors.New("paillier: public key mismatch")
	ErrOutOfRange  = errors.New("paillier: value out of range")
	// ErrExponentIncrease is returned when rescaling to a larger exponent.
	ErrExponentIncrease = errors.New("paillier: new exponent must not be larger than the current one")
	ErrEncodingOverflow = errors.New("paillier: value does not fit in the encoding range")
	// ErrPrecision is returned when a nonzero value rounds to zero at the chosen exponent.
	ErrPrecision  = errors.New("paillier: value lost to rounding")
	ErrNotInteger = errors.New("paillier: decoded value is not an integer")
	// ErrPartialCiphertext is returned for operations that are only valid on
	// ciphertexts which no key share has been applied to yet.
	ErrPartialCiphertext = errors.New("paillier: operation invalid on a partially decrypted ciphertext")
)
