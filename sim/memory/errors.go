package memory

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfMemory is returned by Allocate when no free block can hold the
	// request. The space is left untouched.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrInvalidRelease is returned by Release for addresses that are not the
	// start of a currently allocated block. The space is left untouched.
	ErrInvalidRelease = errors.New("invalid release")

	// ErrCapacity is returned when a space is too small to hold the sentinel,
	// one minimum block and the terminator.
	ErrCapacity = errors.New("capacity below minimum viable heap")

	// ErrCorrupt reports a violated heap invariant.
	ErrCorrupt = errors.New("heap corrupt")
)
