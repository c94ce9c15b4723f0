// Package rank maps password costs to estimated guess numbers through a
// precomputed Monte-Carlo rank table, and flags dangerous chunks against a
// digest blocklist. Both structures are built once from the rank artifact
// and are read-only afterwards.
package rank

import (
	"fmt"
	"math"
	"sort"
)

// Table is the Monte-Carlo rank table: costs ascending, and for each cost
// the estimated number of guesses a guessing strategy needs to reach that
// cumulative probability mass. The guesses sequence carries one extra
// trailing element (a duplicate of its last value) so that a lookup past the
// final recorded cost still lands on a defined bucket.
type Table struct {
	costs   []float64
	guesses []float64
}

// NewTable builds a rank table from the artifact's parallel sequences.
// positions[k] is the guess number matching costs[k]. The sequences must be
// non-empty, aligned, and sorted by cost; the boundary duplicate is appended
// here, exactly once.
func NewTable(positions, costs []float64) (*Table, error) {
	if len(costs) == 0 {
		return nil, ErrEmptyTable
	}
	if len(positions) != len(costs) {
		return nil, fmt.Errorf("%w: %d positions, %d probs", ErrMisaligned, len(positions), len(costs))
	}
	for i := 1; i < len(costs); i++ {
		if costs[i] < costs[i-1] {
			return nil, fmt.Errorf("%w: probs[%d]=%g < probs[%d]=%g", ErrUnsorted, i, costs[i], i-1, costs[i-1])
		}
	}
	t := &Table{
		costs:   append([]float64(nil), costs...),
		guesses: make([]float64, 0, len(positions)+1),
	}
	t.guesses = append(t.guesses, positions...)
	t.guesses = append(t.guesses, positions[len(positions)-1])
	return t, nil
}

// Estimate maps a total cost to an estimated guess number: the guess value
// at the leftmost insertion point of cost in the ascending cost sequence.
// A non-finite cost (no parse, or a parse with an unseen segment) maps to
// the table's maximum — the conservative "no model confidence" answer.
// Estimate is monotonically non-decreasing in cost.
func (t *Table) Estimate(cost float64) float64 {
	if math.IsInf(cost, 1) || math.IsNaN(cost) {
		return t.Max()
	}
	k := sort.SearchFloat64s(t.costs, cost)
	return t.guesses[k]
}

// Max returns the largest guess number the table can report.
func (t *Table) Max() float64 { return t.guesses[len(t.guesses)-1] }

// Len returns the number of recorded sample points (without the boundary
// duplicate).
func (t *Table) Len() int { return len(t.costs) }
