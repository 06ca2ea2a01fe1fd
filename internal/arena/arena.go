// Package arena provides bump-allocated scratch memory for worker tasks.
// Each in-flight processing task borrows exactly one Arena from a fixed-size
// Pool; arenas are reset and recycled between tasks instead of freed, so the
// chunk memory is amortized across the whole run.
package arena

import (
	"fmt"
	"sync"
)

// defaultChunkSize is the allocation granularity of an Arena. Source files
// larger than this get a dedicated chunk.
const defaultChunkSize = 1 << 20 // 1 MiB

// Arena is a bump allocator owned by one task at a time. Not safe for
// concurrent use; the Pool guarantees single ownership.
type Arena struct {
	chunks [][]byte
	off    int // offset into the last chunk
	used   int // total bytes handed out since the last Reset
}

// Alloc returns a zeroed slice of n bytes backed by the arena.
func (a *Arena) Alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	if len(a.chunks) == 0 || cap(a.chunks[len(a.chunks)-1])-a.off < n {
		a.grow(n)
	}
	chunk := a.chunks[len(a.chunks)-1]
	buf := chunk[a.off : a.off+n : a.off+n]
	a.off += n
	a.used += n
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// Bytes copies src into the arena and returns the arena-backed copy.
func (a *Arena) Bytes(src []byte) []byte {
	buf := a.Alloc(len(src))
	copy(buf, src)
	return buf
}

// String copies s into the arena and returns the arena-backed copy.
func (a *Arena) String(s string) string {
	if s == "" {
		return ""
	}
	return string(a.Bytes([]byte(s)))
}

// Used reports the bytes handed out since the last Reset.
func (a *Arena) Used() int {
	return a.used
}

// Reset recycles the arena for the next task. The largest chunk is kept so
// repeated tasks stop allocating once the arena has warmed up.
func (a *Arena) Reset() {
	if len(a.chunks) == 0 {
		a.off, a.used = 0, 0
		return
	}
	largest := a.chunks[0]
	for _, c := range a.chunks[1:] {
		if cap(c) > cap(largest) {
			largest = c
		}
	}
	a.chunks = a.chunks[:1]
	a.chunks[0] = largest
	a.off, a.used = 0, 0
}

func (a *Arena) grow(n int) {
	size := defaultChunkSize
	if n > size {
		size = n
	}
	a.chunks = append(a.chunks, make([]byte, size))
	a.off = 0
}

// Pool hands out arenas to concurrent tasks, one arena per in-flight task.
// Acquire blocks when all arenas are borrowed, which is what bounds the
// number of concurrently-resident source buffers.
type Pool struct {
	mu   sync.Mutex
	free []*Arena
	sem  chan struct{}
	live int
}

// NewPool creates a pool of n arenas. Arenas are created lazily; a task
// slot that is never used never allocates its chunk.
func NewPool(n int) (*Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("arena pool size must be positive, got %d", n)
	}
	return &Pool{sem: make(chan struct{}, n)}, nil
}

// Acquire borrows an arena, blocking until one is available.
func (p *Pool) Acquire() *Guard {
	p.sem <- struct{}{}
	p.mu.Lock()
	var a *Arena
	if n := len(p.free); n > 0 {
		a = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		a = &Arena{}
	}
	p.live++
	p.mu.Unlock()
	return &Guard{arena: a, pool: p}
}

// TryAcquire borrows an arena only if one is immediately available. The
// coordinator uses this to borrow worker capacity without ever blocking.
func (p *Pool) TryAcquire() (*Guard, bool) {
	select {
	case p.sem <- struct{}{}:
	default:
		return nil, false
	}
	p.mu.Lock()
	var a *Arena
	if n := len(p.free); n > 0 {
		a = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		a = &Arena{}
	}
	p.live++
	p.mu.Unlock()
	return &Guard{arena: a, pool: p}, true
}

// Live reports the number of currently-borrowed arenas.
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

func (p *Pool) release(a *Arena) {
	a.Reset()
	p.mu.Lock()
	p.free = append(p.free, a)
	p.live--
	p.mu.Unlock()
	<-p.sem
}

// Guard represents exclusive access to one pooled Arena.
type Guard struct {
	arena *Arena
	pool  *Pool
	done  bool
}

// Arena returns the borrowed arena. Invalid after Release.
func (g *Guard) Arena() *Arena {
	return g.arena
}

// Release resets the arena and returns it to the pool. Safe to call more
// than once; only the first call has effect.
func (g *Guard) Release() {
	if g.done {
		return
	}
	g.done = true
	g.pool.release(g.arena)
	g.arena = nil
}
