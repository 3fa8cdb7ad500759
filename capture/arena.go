package capture

import (
	"context"
	"sync/atomic"
)

// fullReserve is the number of slab headers reserved for an unlimited
// recording. At one slab per second it covers an hour.
const fullReserve = 3600

// arena accumulates callback blocks into fixed-size slabs. A full slab is
// swapped for the spare that the refill goroutine keeps ready. When no spare
// is ready the next slab is allocated inline and counted; audio is
// only rejected once the sample limit is reached.
type arena struct {
	slabSize int
	limit    int

	full  [][]int16
	cur   []int16
	total int

	spare  atomic.Pointer[[]int16]
	need   chan struct{}
	inline *atomic.Uint64
}

// newArena counts inline slab allocations in inline, or in a private
// counter if inline is nil.
func newArena(slabSize, limit int, inline *atomic.Uint64) *arena {
	slabSize = max(slabSize, 1)
	if inline == nil {
		inline = new(atomic.Uint64)
	}

	slabs := fullReserve
	if limit > 0 {
		slabs = limit/slabSize + 2
	}

	a := &arena{
		slabSize: slabSize,
		limit:    limit,
		full:     make([][]int16, 0, slabs),
		cur:      make([]int16, 0, slabSize),
		need:     make(chan struct{}, 1),
		inline:   inline,
	}

	spare := make([]int16, 0, slabSize)
	a.spare.Store(&spare)

	return a
}

// append stores as much of block as the limit allows and returns the count
// stored.
func (a *arena) append(block []int16) int {
	stored := 0

	for len(block) > 0 {
		if a.limit > 0 && a.total >= a.limit {
			return stored
		}

		if len(a.cur) == cap(a.cur) {
			a.full = append(a.full, a.cur)
			a.cur = a.nextSlab()
		}

		n := min(len(block), cap(a.cur)-len(a.cur))
		if a.limit > 0 {
			n = min(n, a.limit-a.total)
		}

		a.cur = append(a.cur, block[:n]...)
		a.total += n
		stored += n
		block = block[n:]
	}

	return stored
}

func (a *arena) nextSlab() []int16 {
	next := a.spare.Swap(nil)
	a.signal()

	if next == nil {
		a.inline.Add(1)
		return make([]int16, 0, a.slabSize)
	}

	return *next
}

func (a *arena) signal() {
	select {
	case a.need <- struct{}{}:
	default:
	}
}

// refill keeps a spare slab ready until ctx is done.
func (a *arena) refill(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.need:
			if a.spare.Load() == nil {
				slab := make([]int16, 0, a.slabSize)
				a.spare.Store(&slab)
			}
		}
	}
}

// samples concatenates everything stored. It must not race append.
func (a *arena) samples() []int16 {
	out := make([]int16, 0, a.total)
	for _, s := range a.full {
		out = append(out, s...)
	}

	return append(out, a.cur...)
}

func (a *arena) len() int { return a.total }
