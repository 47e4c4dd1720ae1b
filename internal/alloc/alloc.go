// Package alloc defines the scratch memory contract of the JSON core.
//
// The core never allocates scratch buffers on its own: array size lookahead,
// long match patterns and the printer's working copy all come from an
// Allocator supplied by the caller and are always handed back through Free.
package alloc

import (
	"sync"
)

// Allocator hands out scratch buffers. Alloc returns nil when the request
// cannot be satisfied.
type Allocator interface {
	Alloc(size int) []byte
	Free(buf []byte)
}

type heap struct{}

// Heap returns an allocator backed by the Go heap.
func Heap() Allocator {
	return heap{}
}

func (heap) Alloc(size int) []byte {
	if size < 0 {
		return nil
	}
	return make([]byte, size)
}

func (heap) Free([]byte) {}

// Counting wraps an allocator and tracks outstanding allocations.
// It is safe for concurrent use.
type Counting struct {
	next Allocator

	mu          sync.Mutex
	allocs      int
	frees       int
	outstanding int
	bytes       int
	peak        int
}

func NewCounting(next Allocator) *Counting {
	if next == nil {
		next = Heap()
	}
	return &Counting{next: next}
}

func (c *Counting) Alloc(size int) []byte {
	buf := c.next.Alloc(size)
	if buf == nil {
		return nil
	}

	c.mu.Lock()
	c.allocs++
	c.outstanding++
	c.bytes += cap(buf)
	c.peak = max(c.peak, c.bytes)
	c.mu.Unlock()

	return buf
}

func (c *Counting) Free(buf []byte) {
	if buf == nil {
		return
	}

	c.mu.Lock()
	c.frees++
	c.outstanding--
	c.bytes -= cap(buf)
	c.mu.Unlock()

	c.next.Free(buf)
}

// Outstanding returns the number of buffers not yet freed.
func (c *Counting) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outstanding
}

// Stats holds allocation counters.
type Stats struct {
	Allocs    int
	Frees     int
	PeakBytes int
}

func (c *Counting) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Allocs:    c.allocs,
		Frees:     c.frees,
		PeakBytes: c.peak,
	}
}

// Budget fails allocations once the bytes in use would exceed a fixed limit.
// It models the bounded heap available inside an enclave.
type Budget struct {
	next  Allocator
	limit int

	mu    sync.Mutex
	inUse int
}

// NewBudget limits next to limit bytes in use. A limit <= 0 means no limit.
func NewBudget(next Allocator, limit int) *Budget {
	if next == nil {
		next = Heap()
	}
	return &Budget{next: next, limit: limit}
}

func (b *Budget) Alloc(size int) []byte {
	if size < 0 {
		return nil
	}

	b.mu.Lock()
	if b.limit > 0 && b.inUse+size > b.limit {
		b.mu.Unlock()
		return nil
	}
	b.inUse += size
	b.mu.Unlock()

	buf := b.next.Alloc(size)
	if buf == nil {
		b.mu.Lock()
		b.inUse -= size
		b.mu.Unlock()
	}
	return buf
}

func (b *Budget) Free(buf []byte) {
	if buf == nil {
		return
	}

	b.mu.Lock()
	b.inUse -= len(buf)
	b.mu.Unlock()

	b.next.Free(buf)
}

// InUse returns the bytes currently handed out.
func (b *Budget) InUse() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inUse
}
