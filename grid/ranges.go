package grid

import "github.com/pthm-cable/flock/par"

// Unset marks a cell whose range has not been written this step.
const Unset int32 = -1

// Ranges indexes the sorted particle order by cell: for each cell id,
// Start and End bound the half-open span of sorted positions whose
// particles occupy that cell. Cells left at the Unset sentinel, or with
// End <= Start, are empty.
type Ranges struct {
	Start []int32
	End   []int32
}

// NewRanges allocates range buffers for cellCount cells.
func NewRanges(cellCount int32) Ranges {
	return Ranges{
		Start: make([]int32, cellCount),
		End:   make([]int32, cellCount),
	}
}

// Reset marks every cell unwritten.
func (r Ranges) Reset(pool *par.Pool) {
	pool.ForEach(len(r.Start), func(start, end int) {
		for i := start; i < end; i++ {
			r.Start[i] = Unset
			r.End[i] = Unset
		}
	})
}

// Build derives the per-cell spans from a sorted key sequence: a cell's
// span starts where its key first differs from the previous key and ends
// where it last differs from the next. Each position is examined
// independently, so the pass parallelizes without coordination. Keys must
// be sorted ascending and every key must be a valid cell id; cells absent
// from keys keep whatever Reset left in place.
func (r Ranges) Build(keys []int32, pool *par.Pool) {
	n := len(keys)
	if n == 0 {
		return
	}

	pool.ForEach(n, func(start, end int) {
		for i := start; i < end; i++ {
			k := keys[i]
			if i == 0 || keys[i-1] != k {
				r.Start[k] = int32(i)
			}
			if i == n-1 || keys[i+1] != k {
				r.End[k] = int32(i + 1)
			}
		}
	})
}

// Span returns the sorted-order bounds for one cell. Empty and unwritten
// cells yield end <= start, so callers can loop the span unconditionally.
func (r Ranges) Span(cell int32) (start, end int32) {
	return r.Start[cell], r.End[cell]
}
