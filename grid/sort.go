package grid

import "github.com/pthm-cable/flock/par"

const radixBuckets = 256

// Sorter reorders (key, value) pairs by ascending key using a least
// significant byte radix sort. The sort is stable: pairs with equal keys
// keep their relative order, and repeated runs over the same input
// produce the same permutation. Keys must be non-negative; cell ids are.
//
// Scratch buffers are reused across calls, so a Sorter is not safe for
// concurrent use.
type Sorter struct {
	keys []int32
	vals []int32

	counts  [][radixBuckets]int32
	offsets [][radixBuckets]int32
}

// NewSorter creates a sorter with scratch capacity for n pairs. Larger
// inputs grow the scratch on demand.
func NewSorter(n int) *Sorter {
	s := &Sorter{}
	s.grow(n, 1)
	return s
}

// SortByKey sorts keys ascending in place and applies the same
// permutation to vals. keys and vals must have equal length.
func (s *Sorter) SortByKey(keys, vals []int32, pool *par.Pool) {
	n := len(keys)
	if n < 2 {
		return
	}
	s.grow(n, pool.Workers())

	srcK, srcV := keys, vals
	dstK, dstV := s.keys[:n], s.vals[:n]

	for shift := uint(0); shift < 32; shift += 8 {
		if s.radixPass(srcK, srcV, dstK, dstV, shift, pool) {
			srcK, dstK = dstK, srcK
			srcV, dstV = dstV, srcV
		}
	}

	// An odd number of scatter passes leaves the result in scratch.
	if &srcK[0] != &keys[0] {
		copy(keys, srcK)
		copy(vals, srcV)
	}
}

// radixPass scatters src into dst ordered by one key byte. Returns false
// without touching dst when every key shares that byte, since the scatter
// would reproduce src as-is.
func (s *Sorter) radixPass(srcK, srcV, dstK, dstV []int32, shift uint, pool *par.Pool) bool {
	n := len(srcK)

	counts := s.counts
	for c := range counts {
		counts[c] = [radixBuckets]int32{}
	}

	// Per-chunk histograms of the key byte.
	pool.ForEachChunk(n, func(chunk, start, end int) {
		cnt := &counts[chunk]
		for i := start; i < end; i++ {
			cnt[(uint32(srcK[i])>>shift)&0xFF]++
		}
	})

	// Exclusive prefix sum in (bucket, chunk) order hands each chunk its
	// write cursors. Walking chunks in index order within a bucket keeps
	// equal keys in their original order, which makes the sort stable.
	var off int32
	uniform := false
	for b := 0; b < radixBuckets; b++ {
		var total int32
		for c := range counts {
			s.offsets[c][b] = off + total
			total += counts[c][b]
		}
		if total == int32(n) {
			uniform = true
		}
		off += total
	}
	if uniform {
		return false
	}

	// Scatter. Chunks write disjoint destination slots, so no locking.
	pool.ForEachChunk(n, func(chunk, start, end int) {
		offs := &s.offsets[chunk]
		for i := start; i < end; i++ {
			b := (uint32(srcK[i]) >> shift) & 0xFF
			j := offs[b]
			offs[b]++
			dstK[j] = srcK[i]
			dstV[j] = srcV[i]
		}
	})

	return true
}

func (s *Sorter) grow(n, chunks int) {
	if cap(s.keys) < n {
		s.keys = make([]int32, n)
		s.vals = make([]int32, n)
	}
	if len(s.counts) < chunks {
		s.counts = make([][radixBuckets]int32, chunks)
		s.offsets = make([][radixBuckets]int32, chunks)
	}
}
