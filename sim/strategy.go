package sim

import "fmt"

// Strategy selects how the neighbor candidate set is produced during
// evaluation.
type Strategy int

const (
	// BruteForce scans every other particle.
	BruteForce Strategy = iota
	// ScatteredGrid scans the nearest 2x2x2 cell block, reaching particle
	// data through the slot indirection left by the sort.
	ScatteredGrid
	// CoherentGrid scans the same block against physically reordered
	// particle data, indexing it directly.
	CoherentGrid
)

// String returns the name used in config files and flags.
func (s Strategy) String() string {
	switch s {
	case BruteForce:
		return "brute"
	case ScatteredGrid:
		return "scattered"
	case CoherentGrid:
		return "coherent"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a config or flag name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "brute":
		return BruteForce, nil
	case "scattered":
		return ScatteredGrid, nil
	case "coherent":
		return CoherentGrid, nil
	}
	return 0, fmt.Errorf("unknown strategy %q (want brute, scattered or coherent)", name)
}
