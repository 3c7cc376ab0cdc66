package hash

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"reflect"

	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the output size of Sum.
const DigestLengthBytes = 32

// Hash is a domain separated blake3 hasher used to fingerprint keys.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash whose state is initialized with the given domain.
func New(domain string) *Hash {
	hash := &Hash{h: blake3.New()}
	_, _ = hash.h.WriteString(domain)
	return hash
}

// Digest returns a reader for the current output of the function.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - *big.Int
//   - *saferith.Nat
//   - *saferith.Modulus
//   - encoding.BinaryMarshaler
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var (
			domain string
			b      []byte
		)
		switch t := d.(type) {
		case []byte:
			if t == nil {
				return errors.New("hash.WriteAny: nil []byte")
			}
			domain, b = "[]byte", t
		case *big.Int:
			if t == nil {
				return errors.New("hash.WriteAny: write *big.Int: nil")
			}
			if t.Sign() < 0 {
				return errors.New("hash.WriteAny: write *big.Int: negative")
			}
			domain, b = "big.Int", t.Bytes()
		case *saferith.Nat:
			if t == nil {
				return errors.New("hash.WriteAny: write *saferith.Nat: nil")
			}
			domain, b = "saferith.Nat", t.Bytes()
		case *saferith.Modulus:
			if t == nil {
				return errors.New("hash.WriteAny: write *saferith.Modulus: nil")
			}
			domain, b = "saferith.Modulus", t.Bytes()
		case encoding.BinaryMarshaler:
			var err error
			domain = reflect.TypeOf(t).String()
			if b, err = t.MarshalBinary(); err != nil {
				return errors.WithMessagef(err, "hash.WriteAny: %s", domain)
			}
		default:
			return errors.Errorf("hash.WriteAny: invalid type %T", d)
		}
		hash.write(domain, b)
	}
	return nil
}

// write emits (<domain_size><domain><data_size><data>) so that each piece of
// data is distinguished from the others.
func (hash *Hash) write(domain string, data []byte) {
	var sizeBuf [8]byte

	_, _ = hash.h.WriteString("(")
	binary.BigEndian.PutUint64(sizeBuf[:], uint64(len(domain)))
	_, _ = hash.h.Write(sizeBuf[:])
	_, _ = hash.h.WriteString(domain)
	binary.BigEndian.PutUint64(sizeBuf[:], uint64(len(data)))
	_, _ = hash.h.Write(sizeBuf[:])
	_, _ = hash.h.Write(data)
	_, _ = hash.h.WriteString(")")
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
