package grid

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pthm-cable/flock/par"
)

// sortedKeys returns n random cell ids in [0, cells), ascending.
func sortedKeys(n int, cells int32, seed int64) []int32 {
	rng := rand.New(rand.NewSource(seed))
	keys := make([]int32, n)
	for i := range keys {
		keys[i] = rng.Int31n(cells)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func TestBuildPartitionsSortedOrder(t *testing.T) {
	pool := par.NewPool(4)
	defer pool.Stop()

	const cells = 64
	keys := sortedKeys(500, cells, 1)

	r := NewRanges(cells)
	r.Reset(pool)
	r.Build(keys, pool)

	// Count per cell from the raw keys.
	counts := make(map[int32]int32)
	for _, k := range keys {
		counts[k]++
	}

	var total int32
	for cell := int32(0); cell < cells; cell++ {
		start, end := r.Span(cell)
		want := counts[cell]

		if want == 0 {
			if start != Unset || end != Unset {
				t.Errorf("cell %d: expected sentinel for empty cell, got [%d, %d)", cell, start, end)
			}
			continue
		}

		if end-start != want {
			t.Errorf("cell %d: span length %d, want %d", cell, end-start, want)
		}
		for i := start; i < end; i++ {
			if keys[i] != cell {
				t.Errorf("cell %d: sorted position %d holds key %d", cell, i, keys[i])
			}
		}
		total += end - start
	}

	if total != int32(len(keys)) {
		t.Errorf("spans cover %d positions, want %d", total, len(keys))
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	pool := par.NewPool(4)
	defer pool.Stop()

	const cells = 32
	keys := sortedKeys(300, cells, 2)

	r := NewRanges(cells)
	r.Reset(pool)
	r.Build(keys, pool)

	first := struct{ start, end []int32 }{
		append([]int32(nil), r.Start...),
		append([]int32(nil), r.End...),
	}

	r.Reset(pool)
	r.Build(keys, pool)

	for i := range r.Start {
		if r.Start[i] != first.start[i] || r.End[i] != first.end[i] {
			t.Fatalf("cell %d changed between rebuilds: [%d, %d) vs [%d, %d)",
				i, first.start[i], first.end[i], r.Start[i], r.End[i])
		}
	}
}

func TestResetClearsAllCells(t *testing.T) {
	pool := par.NewPool(4)
	defer pool.Stop()

	const cells = 16
	r := NewRanges(cells)
	r.Build([]int32{0, 0, 3, 3, 3, 15}, pool)

	r.Reset(pool)
	for i := range r.Start {
		if r.Start[i] != Unset || r.End[i] != Unset {
			t.Errorf("cell %d not reset: [%d, %d)", i, r.Start[i], r.End[i])
		}
	}
}

func TestBuildSingleCell(t *testing.T) {
	pool := par.NewPool(2)
	defer pool.Stop()

	r := NewRanges(8)
	r.Reset(pool)
	r.Build([]int32{5, 5, 5, 5}, pool)

	start, end := r.Span(5)
	if start != 0 || end != 4 {
		t.Errorf("got [%d, %d), want [0, 4)", start, end)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	pool := par.NewPool(2)
	defer pool.Stop()

	r := NewRanges(8)
	r.Reset(pool)
	r.Build(nil, pool)

	for cell := int32(0); cell < 8; cell++ {
		if start, end := r.Span(cell); end > start {
			t.Errorf("cell %d non-empty for empty input: [%d, %d)", cell, start, end)
		}
	}
}
