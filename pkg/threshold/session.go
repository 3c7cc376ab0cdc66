package threshold

import (
	"math/big"
	"sync"

	"github.com/google/uuid"
	"github.com/mr-shifu/tpaillier/core/paillier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// State is the progress of a Session.
type State int

const (
	// StateFresh means no share has been applied yet.
	StateFresh State = iota
	StatePartial
	// StateDone means the plaintext has been recovered.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StatePartial:
		return "partial"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Session drives the sequential decryption of one ciphertext by a complete
// share set. Every share is applied exactly once, the last one via Finalize.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	keyID    string
	expected map[uuid.UUID]struct{}
	applied  map[uuid.UUID]struct{}
	current  *paillier.EncryptedNumber
	result   *big.Rat
	state    State

	log zerolog.Logger
}

// NewSession starts the decryption of en by the shares listed in cfg.
func NewSession(cfg *Config, en *paillier.EncryptedNumber) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if keyID := en.PublicKey().KeyID(); keyID != cfg.KeyID {
		return nil, errors.WithMessagef(paillier.ErrKeyMismatch, "session for key %s got ciphertext of key %s", cfg.KeyID, keyID)
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.WithMessage(err, "threshold: failed to generate session id")
	}
	expected := make(map[uuid.UUID]struct{}, len(cfg.Shares))
	for _, share := range cfg.Shares {
		expected[share] = struct{}{}
	}
	state := StateFresh
	if en.Partial() {
		state = StatePartial
	}
	s := &Session{
		id:       id,
		keyID:    cfg.KeyID,
		expected: expected,
		applied:  make(map[uuid.UUID]struct{}, len(cfg.Shares)),
		current:  en,
		state:    state,
		log:      cfg.Logger.With().Str("session", id.String()).Str("key", cfg.KeyID).Logger(),
	}
	s.log.Debug().Int("shares", len(expected)).Msg("session started")
	return s, nil
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ciphertext returns the ciphertext with every applied share stripped.
// It can be handed to the next holder.
func (s *Session) Ciphertext() *paillier.EncryptedNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Remaining returns the IDs of the shares not applied yet.
func (s *Session) Remaining() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining()
}

func (s *Session) remaining() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.expected)-len(s.applied))
	for id := range s.expected {
		if _, ok := s.applied[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Result returns the recovered plaintext once the session is done.
func (s *Session) Result() (*big.Rat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDone {
		return nil, ErrIncomplete
	}
	return new(big.Rat).Set(s.result), nil
}

// check returns an error if share cannot be applied in the current state.
func (s *Session) check(share *paillier.KeyShare) error {
	if s.state == StateDone {
		return ErrSessionDone
	}
	if share.PublicKey().KeyID() != s.keyID {
		return errors.WithMessage(paillier.ErrKeyMismatch, "share belongs to another key")
	}
	if _, ok := s.expected[share.ID()]; !ok {
		return errors.WithMessagef(ErrUnknownShare, "share %s", share.ID())
	}
	if _, ok := s.applied[share.ID()]; ok {
		return errors.WithMessagef(ErrShareReused, "share %s", share.ID())
	}
	return nil
}

// Apply strips share from the session's ciphertext. It must not be the last
// share of the set, use Finalize for that one.
func (s *Session) Apply(share *paillier.KeyShare) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(share); err != nil {
		return err
	}
	if len(s.applied) == len(s.expected)-1 {
		return errors.WithMessage(ErrIncomplete, "last share must be used with Finalize")
	}
	next, err := share.PartiallyDecrypt(s.current)
	if err != nil {
		return err
	}
	s.current = next
	s.applied[share.ID()] = struct{}{}
	s.state = StatePartial
	s.log.Debug().
		Str("share", share.ID().String()).
		Int("remaining", len(s.expected)-len(s.applied)).
		Msg("share applied")
	return nil
}

// Finalize recovers the plaintext with the last share of the set.
func (s *Session) Finalize(share *paillier.KeyShare) (*big.Rat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(share); err != nil {
		return nil, err
	}
	if missing := len(s.expected) - len(s.applied) - 1; missing > 0 {
		return nil, errors.WithMessagef(ErrIncomplete, "%d other shares missing", missing)
	}
	result, err := share.Decrypt(s.current)
	if err != nil {
		return nil, err
	}
	s.applied[share.ID()] = struct{}{}
	s.result = result
	s.state = StateDone
	s.log.Info().Str("share", share.ID().String()).Msg("session finalized")
	return new(big.Rat).Set(result), nil
}
