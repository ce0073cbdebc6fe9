// Package memory implements a boundary-tag allocator over a fixed-size
// simulated address space.
//
// The address space is a flat slice of signed integer words. Every block
// starts with a packed header word:
//
//	header = 4*size + 2*preuse + use
//
// where size counts every word of the block including the header, preuse
// reports whether the block immediately before it in address order is
// allocated, and use reports whether the block itself is allocated.
//
// Free blocks carry a forward link at +1, a backward link at +2 and a copy of
// their size in their last word (the footer). All free blocks are threaded on
// a circular doubly-linked list anchored at the sentinel at address 0.
// Allocation is next-fit from a cursor; release coalesces with both physical
// neighbours immediately.
//
// Layout of a freshly formatted space of W words:
//
//	0..3    sentinel (size 0, links to the free list, never allocatable)
//	4       first block, initially one free block of W-5 words
//	W-1     terminator (header 1: used, size 0)
//
// An Allocator is not safe for concurrent use.
package memory

import "fmt"

// Header is a packed block header word.
type Header int

// MakeHeader packs size, preuse and use into a header word.
func MakeHeader(size int, preUse, use bool) Header {
	return Header(4*size + 2*bit(preUse) + bit(use))
}

// Size returns the block size in words, header included.
func (h Header) Size() int { return int(h) / 4 }

// PreUse reports whether the preceding block in address order is allocated.
func (h Header) PreUse() bool { return (int(h)%4)/2 == 1 }

// Use reports whether the block is allocated.
func (h Header) Use() bool { return int(h)%2 == 1 }

// WithUse returns h with the use bit replaced.
func (h Header) WithUse(use bool) Header { return MakeHeader(h.Size(), h.PreUse(), use) }

// WithPreUse returns h with the preuse bit replaced.
func (h Header) WithPreUse(preUse bool) Header { return MakeHeader(h.Size(), preUse, h.Use()) }

func (h Header) String() string {
	return fmt.Sprintf("{size=%d preuse=%d use=%d}", h.Size(), bit(h.PreUse()), bit(h.Use()))
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
