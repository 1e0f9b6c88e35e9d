package core

import (
	"errors"
)

var (
	ErrStaleHandle        = errors.New("material handle is stale, the index was rebuilt")
	ErrInvalidHandle      = errors.New("material handle is out of range")
	ErrCollectionReleased = errors.New("collection already released")
	ErrNotADirectory      = errors.New("not a directory")
	ErrIDPoolExhausted    = errors.New("identifier pool exhausted")
	ErrUnknownFilter      = errors.New("unknown texture filter")
)
