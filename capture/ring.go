package capture

import "sync/atomic"

// Ring is a fixed-capacity window over the most recent samples. It has a
// single writer (the device callback) and any number of readers. Writes and
// reads never block; a reader racing the writer may see a torn window,
// which is acceptable for display.
type Ring struct {
	slots   []atomic.Int32
	written atomic.Uint64
}

// NewRing returns a ring holding capacity samples, initially silent.
func NewRing(capacity int) *Ring {
	return &Ring{slots: make([]atomic.Int32, max(capacity, 1))}
}

// Cap returns the window length in samples.
func (r *Ring) Cap() int { return len(r.slots) }

// Written returns the total number of samples ever written.
func (r *Ring) Written() uint64 { return r.written.Load() }

// Write appends block, discarding the oldest samples once full.
func (r *Ring) Write(block []int16) {
	n := uint64(len(r.slots))
	w := r.written.Load()

	// Only the tail of an oversized block can survive.
	if uint64(len(block)) > n {
		skip := uint64(len(block)) - n
		block = block[skip:]
		w += skip
	}

	for i, v := range block {
		r.slots[(w+uint64(i))%n].Store(int32(v))
	}

	r.written.Store(w + uint64(len(block)))
}

// Snapshot copies the window into dst, oldest sample first, and returns it.
// dst is grown to Cap() if needed. Before the ring has filled, the leading
// samples are silence.
func (r *Ring) Snapshot(dst []int16) []int16 {
	n := len(r.slots)
	if cap(dst) < n {
		dst = make([]int16, n)
	}

	dst = dst[:n]
	w := r.written.Load()

	for i := range dst {
		// Position of the i-th oldest sample in the window.
		pos := w + uint64(i)
		dst[i] = int16(r.slots[pos%uint64(n)].Load())
	}

	return dst
}

// Reset silences the window. It must not race a writer.
func (r *Ring) Reset() {
	for i := range r.slots {
		r.slots[i].Store(0)
	}

	r.written.Store(0)
}
