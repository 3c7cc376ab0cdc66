package sample

import (
	cryptorand "crypto/rand"
	"io"
	"sync"

	"golang.org/x/crypto/sha3"
)

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This struct is necessary to read randomness concurrently from the same
// stream, which mainly happens during key generation.
type LockedReader struct {
	r  io.Reader
	mu sync.Mutex
}

// NewLockedReader wraps an io.Reader to be safe for concurrent reads.
// crypto/rand.Reader and readers that are already locked are returned as is.
func NewLockedReader(r io.Reader) io.Reader {
	switch r.(type) {
	case nil:
		return cryptorand.Reader
	case *LockedReader:
		return r
	}
	if r == cryptorand.Reader {
		return r
	}
	return &LockedReader{r: r}
}

// Read calls the underlying Read after taking the lock.
func (lr *LockedReader) Read(p []byte) (int, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.r.Read(p)
}

// Deterministic returns a reader producing the SHAKE256 stream of seed.
// It is meant for reproducible tests, never for key material.
func Deterministic(seed []byte) io.Reader {
	h := sha3.NewShake256()
	_, _ = h.Write(seed)
	return h
}
