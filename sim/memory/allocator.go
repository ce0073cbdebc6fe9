package memory

import (
	"github.com/cockroachdb/errors"
)

// Allocator hands out and reclaims blocks of a Space.
type Allocator struct {
	space  *Space
	cursor Address // free-list node where the next search starts
	strict bool    // verify release addresses against a heap walk
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithStrictRelease makes Release walk the heap to confirm that the address
// is a block start before trusting its header.
func WithStrictRelease(strict bool) Option {
	return func(a *Allocator) { a.strict = strict }
}

// New formats a space of capacity words and returns an allocator over it.
// The space starts as one free block spanning everything between the
// sentinel and the terminator.
func New(capacity int, opts ...Option) (*Allocator, error) {
	space, err := NewSpace(capacity)
	if err != nil {
		return nil, err
	}
	a := &Allocator{space: space, cursor: Sentinel}
	for _, opt := range opts {
		opt(a)
	}

	// The sentinel counts as an allocated predecessor of the first block.
	size := space.HeapWords()
	space.SetHeader(Sentinel, 0)
	space.SetNext(Sentinel, FirstBlock)
	space.SetPrev(Sentinel, FirstBlock)
	space.SetHeader(FirstBlock, MakeHeader(size, true, false))
	space.SetNext(FirstBlock, Sentinel)
	space.SetPrev(FirstBlock, Sentinel)
	space.writeFooter(FirstBlock)
	space.SetHeader(space.Terminator(), terminatorHeader)
	return a, nil
}

// Space returns the underlying address space.
func (a *Allocator) Space() *Space { return a.space }

// Cursor returns the free-list node where the next search starts.
func (a *Allocator) Cursor() Address { return a.cursor }

// Allocate reserves a block holding at least requested payload words and
// returns the address of its header. Requests below MinRequest are rounded
// up. The search is next-fit: it starts at the cursor and walks the free list
// once around. When nothing fits it returns ErrOutOfMemory and the space is
// not modified.
func (a *Allocator) Allocate(requested int) (Address, error) {
	s := a.space
	if requested >= s.HeapWords() {
		return 0, errors.Wrapf(ErrOutOfMemory, "request of size %d exceeds heap of %d words", requested, s.HeapWords())
	}
	need := max(requested, MinRequest) + 1

	start := a.cursor
	b := start
	for steps := 0; ; steps++ {
		if steps > s.Capacity() {
			return 0, errors.Wrapf(ErrCorrupt, "free list does not return to %d", start)
		}
		if need <= s.Header(b).Size() {
			return a.take(b, need), nil
		}
		b = s.Next(b)
		if b == start {
			break
		}
	}
	return 0, errors.Wrapf(ErrOutOfMemory, "request of size %d (block of %d words)", requested, need)
}

// take carves need words off the front of the free block b.
func (a *Allocator) take(b Address, need int) Address {
	s := a.space
	h := s.Header(b)
	size := h.Size()

	// Taking the whole block sends the next search back to the sentinel.
	if size-need < MinSplitRemainder {
		a.unlink(b)
		s.SetNext(b, 0)
		s.SetPrev(b, 0)
		s.SetCell(b+Address(size)-1, 0)
		s.SetHeader(b, MakeHeader(size, h.PreUse(), true))
		if f := b + Address(size); f != s.Terminator() {
			s.SetHeader(f, s.Header(f).WithPreUse(true))
		}
		a.cursor = Sentinel
		return b
	}

	rest := b + Address(need)
	a.replace(b, rest)
	s.SetHeader(rest, MakeHeader(size-need, true, false))
	s.writeFooter(rest)
	s.SetNext(b, 0)
	s.SetPrev(b, 0)
	s.SetHeader(b, MakeHeader(need, h.PreUse(), true))
	a.cursor = rest
	return b
}

// Release returns the block at addr to the free list and merges it with any
// free physical neighbour. The freed block goes to the head of the list and
// becomes the cursor. Addresses that are not the start of an allocated block
// yield ErrInvalidRelease without touching the space.
func (a *Allocator) Release(addr Address) error {
	if err := a.validateRelease(addr); err != nil {
		return err
	}
	s := a.space
	h := s.Header(addr)
	size := h.Size()

	a.insertHead(addr)
	s.SetHeader(addr, h.WithUse(false))
	s.writeFooter(addr)
	a.cursor = addr

	next := addr + Address(size)
	if next != s.Terminator() {
		nh := s.Header(next).WithPreUse(false)
		s.SetHeader(next, nh)
		if !nh.Use() {
			a.combine(addr, next, addr)
		}
	}
	if !h.PreUse() {
		prev := addr - Address(s.Cell(addr-1))
		a.combine(prev, addr, addr)
	}
	return nil
}

func (a *Allocator) validateRelease(addr Address) error {
	s := a.space
	term := s.Terminator()
	if addr < FirstBlock || addr >= term {
		return errors.Wrapf(ErrInvalidRelease, "address %d outside heap [%d,%d)", addr, FirstBlock, term)
	}
	h := s.Header(addr)
	if !h.Use() {
		return errors.Wrapf(ErrInvalidRelease, "block at %d is not allocated", addr)
	}
	size := h.Size()
	if size < MinBlock || addr+Address(size) > term {
		return errors.Wrapf(ErrInvalidRelease, "word at %d is not a block header (size %d)", addr, size)
	}
	if next := addr + Address(size); next != term && !s.Header(next).PreUse() {
		return errors.Wrapf(ErrInvalidRelease, "block after %d does not see it as allocated", addr)
	}
	if !h.PreUse() {
		footer := s.Cell(addr - 1)
		prev := addr - Address(footer)
		if footer < MinBlock || prev < FirstBlock || s.Header(prev).Use() || s.Header(prev).Size() != footer {
			return errors.Wrapf(ErrInvalidRelease, "block at %d has no free predecessor", addr)
		}
	}
	if a.strict {
		found := false
		if err := s.Walk(func(b Address, _ Header) bool {
			found = b == addr
			return b < addr
		}); err != nil {
			return err
		}
		if !found {
			return errors.Wrapf(ErrInvalidRelease, "address %d is not a block start", addr)
		}
	}
	return nil
}

// combine merges the adjacent free blocks left and right into one block
// starting at left. The merged block takes the free-list slot held by keep,
// which must be left or right.
func (a *Allocator) combine(left, right, keep Address) {
	s := a.space
	lh := s.Header(left)
	merged := lh.Size() + s.Header(right).Size()

	if keep == left {
		a.unlink(right)
	} else {
		a.unlink(left)
		a.replace(right, left)
	}

	s.SetCell(right-1, 0)
	s.SetHeader(right, 0)
	s.SetNext(right, 0)
	s.SetPrev(right, 0)

	s.SetHeader(left, MakeHeader(merged, lh.PreUse(), false))
	s.writeFooter(left)
	a.cursor = left
}

func (a *Allocator) unlink(b Address) {
	s := a.space
	prev, next := s.Prev(b), s.Next(b)
	s.SetNext(prev, next)
	s.SetPrev(next, prev)
}

// replace puts nu into the free-list slot of old.
func (a *Allocator) replace(old, nu Address) {
	s := a.space
	prev, next := s.Prev(old), s.Next(old)
	s.SetNext(nu, next)
	s.SetPrev(nu, prev)
	s.SetNext(prev, nu)
	s.SetPrev(next, nu)
}

// insertHead links b directly after the sentinel.
func (a *Allocator) insertHead(b Address) {
	s := a.space
	head := s.Next(Sentinel)
	s.SetNext(b, head)
	s.SetPrev(b, Sentinel)
	s.SetPrev(head, b)
	s.SetNext(Sentinel, b)
}
