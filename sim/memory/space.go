package memory

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

const (
	// Sentinel anchors the circular free list. It is never allocatable.
	Sentinel Address = 0
	// SentinelWords is the width reserved for the sentinel.
	SentinelWords = 4
	// FirstBlock is the address of the lowest real block.
	FirstBlock Address = SentinelWords

	// MinRequest is the smallest payload handed out; smaller requests are
	// rounded up so that a released block can hold two links and a footer.
	MinRequest = 3
	// MinBlock is the smallest block, header included.
	MinBlock = MinRequest + 1
	// MinSplitRemainder is the smallest leftover worth carving into a new
	// free block when splitting.
	MinSplitRemainder = 4

	// MinCapacity is the smallest space that holds the sentinel, one
	// minimum block and the terminator.
	MinCapacity = SentinelWords + MinBlock + 1

	terminatorHeader Header = 1
)

// Address is an index into the simulated address space.
type Address int

// Space is the fixed-size array of words every block lives in.
// All accessors panic on out-of-range addresses: an out-of-range access is a
// bug in the allocator, never a caller error.
type Space struct {
	cells []int
}

// NewSpace returns a zeroed space of capacity words.
func NewSpace(capacity int) (*Space, error) {
	if capacity < MinCapacity {
		return nil, errors.Wrapf(ErrCapacity, "capacity %d, need at least %d words", capacity, MinCapacity)
	}
	return &Space{cells: make([]int, capacity)}, nil
}

// Capacity returns the number of words in the space.
func (s *Space) Capacity() int { return len(s.cells) }

// Terminator returns the address of the end-of-heap cell.
func (s *Space) Terminator() Address { return Address(len(s.cells) - 1) }

// HeapWords returns the number of words available to real blocks.
func (s *Space) HeapWords() int { return len(s.cells) - SentinelWords - 1 }

func (s *Space) check(a Address) {
	if a < 0 || int(a) >= len(s.cells) {
		panic(fmt.Sprintf("memory: address %d out of range [0,%d)", a, len(s.cells)))
	}
}

// Cell returns the raw word at a.
func (s *Space) Cell(a Address) int {
	s.check(a)
	return s.cells[a]
}

// SetCell overwrites the raw word at a.
func (s *Space) SetCell(a Address, v int) {
	s.check(a)
	s.cells[a] = v
}

// Header decodes the word at a as a block header.
func (s *Space) Header(a Address) Header { return Header(s.Cell(a)) }

// SetHeader writes h at a.
func (s *Space) SetHeader(a Address, h Header) { s.SetCell(a, int(h)) }

// Next returns the forward free-list link of the free block at a.
func (s *Space) Next(a Address) Address { return Address(s.Cell(a + 1)) }

// SetNext writes the forward free-list link of the free block at a.
func (s *Space) SetNext(a, next Address) { s.SetCell(a+1, int(next)) }

// Prev returns the backward free-list link of the free block at a.
func (s *Space) Prev(a Address) Address { return Address(s.Cell(a + 2)) }

// SetPrev writes the backward free-list link of the free block at a.
func (s *Space) SetPrev(a, prev Address) { s.SetCell(a+2, int(prev)) }

// Footer returns the last word of the block at a, which holds its size while
// the block is free.
func (s *Space) Footer(a Address) int { return s.Cell(a + Address(s.Header(a).Size()) - 1) }

// writeFooter copies the size of the block at a into its last word.
func (s *Space) writeFooter(a Address) {
	size := s.Header(a).Size()
	s.SetCell(a+Address(size)-1, size)
}

// Cells returns a copy of the whole space.
func (s *Space) Cells() []int {
	out := make([]int, len(s.cells))
	copy(out, s.cells)
	return out
}

// Walk calls fn for every block from FirstBlock up to, but excluding, the
// terminator, in address order. It stops early when fn returns false.
// A block of size zero or one that overruns the terminator stops the walk
// with ErrCorrupt.
func (s *Space) Walk(fn func(a Address, h Header) bool) error {
	term := s.Terminator()
	for a := FirstBlock; a != term; {
		h := s.Header(a)
		size := h.Size()
		if size <= 0 || a+Address(size) > term {
			return errors.Wrapf(ErrCorrupt, "block at %d has size %d", a, size)
		}
		if !fn(a, h) {
			return nil
		}
		a += Address(size)
	}
	return nil
}
