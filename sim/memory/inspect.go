package memory

import (
	"github.com/cockroachdb/errors"
)

// Block is one entry of a heap walk.
type Block struct {
	Address Address
	Header  Header
}

// FreeBlock describes a free block found by a heap walk. Ordinal counts free
// blocks from 1 in address order.
type FreeBlock struct {
	Ordinal int
	Address Address
	Size    int
}

// Blocks returns every block from FirstBlock to the terminator.
func (a *Allocator) Blocks() ([]Block, error) {
	var blocks []Block
	err := a.space.Walk(func(addr Address, h Header) bool {
		blocks = append(blocks, Block{Address: addr, Header: h})
		return true
	})
	return blocks, err
}

// FreeBlocks returns the free blocks in address order.
func (a *Allocator) FreeBlocks() ([]FreeBlock, error) {
	var free []FreeBlock
	err := a.space.Walk(func(addr Address, h Header) bool {
		if !h.Use() {
			free = append(free, FreeBlock{Ordinal: len(free) + 1, Address: addr, Size: h.Size()})
		}
		return true
	})
	return free, err
}

// FreeList returns the free blocks in list order, starting after the sentinel.
func (a *Allocator) FreeList() ([]Address, error) {
	s := a.space
	var list []Address
	for b := s.Next(Sentinel); b != Sentinel; b = s.Next(b) {
		if len(list) > s.Capacity() {
			return nil, errors.Wrap(ErrCorrupt, "free list does not return to the sentinel")
		}
		list = append(list, b)
	}
	return list, nil
}

// FreeWords returns the total size of all free blocks.
func (a *Allocator) FreeWords() (int, error) {
	total := 0
	err := a.space.Walk(func(_ Address, h Header) bool {
		if !h.Use() {
			total += h.Size()
		}
		return true
	})
	return total, err
}

// CheckInvariants verifies the structural invariants of the heap:
//   - block sizes tile the heap exactly from FirstBlock to the terminator
//   - every block's preuse bit matches its predecessor's use bit
//   - every free block's footer equals its size
//   - the free list holds exactly the free blocks, with mutual links
//   - no two free blocks are adjacent
//   - the cursor is the sentinel or a free block
//
// The first violation found is returned wrapped in ErrCorrupt.
func (a *Allocator) CheckInvariants() error {
	s := a.space
	term := s.Terminator()

	if h := s.Header(term); h != terminatorHeader {
		return errors.Wrapf(ErrCorrupt, "terminator at %d holds %d", term, int(h))
	}

	free := make(map[Address]bool)
	total := 0
	prevUse := true
	var violation error
	err := s.Walk(func(addr Address, h Header) bool {
		total += h.Size()
		switch {
		case h.PreUse() != prevUse:
			violation = errors.Newf("block at %d has preuse=%v, predecessor use=%v", addr, h.PreUse(), prevUse)
		case !h.Use() && !prevUse:
			violation = errors.Newf("free block at %d follows a free block", addr)
		case !h.Use() && s.Footer(addr) != h.Size():
			violation = errors.Newf("free block at %d has size %d, footer %d", addr, h.Size(), s.Footer(addr))
		}
		if !h.Use() {
			free[addr] = true
		}
		prevUse = h.Use()
		return violation == nil
	})
	if err != nil {
		return err
	}
	if violation != nil {
		return errors.Mark(violation, ErrCorrupt)
	}
	if total != s.HeapWords() {
		return errors.Wrapf(ErrCorrupt, "block sizes sum to %d, heap holds %d", total, s.HeapWords())
	}

	seen := make(map[Address]bool)
	for b := Sentinel; ; {
		next := s.Next(b)
		if next < 0 || next >= term {
			return errors.Wrapf(ErrCorrupt, "free-list link %d -> %d leaves the heap", b, next)
		}
		if s.Prev(next) != b {
			return errors.Wrapf(ErrCorrupt, "free-list links %d -> %d not mutual", b, next)
		}
		if next == Sentinel {
			break
		}
		if !free[next] {
			return errors.Wrapf(ErrCorrupt, "free list holds %d, which is not a free block", next)
		}
		if seen[next] {
			return errors.Wrapf(ErrCorrupt, "free list visits %d twice", next)
		}
		seen[next] = true
		b = next
	}
	if len(seen) != len(free) {
		return errors.Wrapf(ErrCorrupt, "free list holds %d blocks, heap has %d free", len(seen), len(free))
	}
	if a.cursor != Sentinel && !free[a.cursor] {
		return errors.Wrapf(ErrCorrupt, "cursor %d is not on the free list", a.cursor)
	}
	return nil
}
