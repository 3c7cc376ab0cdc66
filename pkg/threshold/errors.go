package threshold

import "errors"

var (
	ErrUnknownShare = errors.New("threshold: share is not part of the session")
	ErrShareReused  = errors.New("threshold: share already applied")
	// ErrIncomplete is returned by Finalize while other shares are still missing.
	ErrIncomplete     = errors.New("threshold: not all other shares have been applied")
	ErrSessionDone    = errors.New("threshold: session already finalized")
	ErrInvalidConfig  = errors.New("threshold: invalid config")
	ErrInvalidHolders = errors.New("threshold: at least two distinct holders are required")
)
