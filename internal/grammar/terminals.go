package grammar

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"strconv"

	"chunkmeter/internal/structure"
)

// Segment keys in the model artifact are a fixed 8-hex-character slice of
// the segment's MD5 digest, starting at hex offset 12. The truncation is a
// size optimization inherited from the training pipeline (collisions are
// rare and only perturb one segment's cost), not a security measure.
const (
	segmentKeyOffset = 12
	segmentKeyLen    = 8
)

// EncodeSegmentKey computes the encoded lookup key for a raw segment.
func EncodeSegmentKey(segment string) string {
	sum := md5.Sum([]byte(segment))
	return hex.EncodeToString(sum[:])[segmentKeyOffset : segmentKeyOffset+segmentKeyLen]
}

// TerminalTable maps a (terminal, length) class to the cost of every segment
// observed under it during training, keyed by encoded segment key. Built
// once from the model artifact; read-only afterwards.
type TerminalTable struct {
	costs map[string]map[string]float64
}

// NewTerminalTable merges the per-class tables of the model artifact into a
// single lookup. Class tables already carry "<terminal><length>" keys (for
// example "L8" or "DM10"), so the merge is flat.
func NewTerminalTable(classes ...map[string]map[string]float64) *TerminalTable {
	t := &TerminalTable{costs: make(map[string]map[string]float64)}
	for _, class := range classes {
		for key, segs := range class {
			t.costs[key] = segs
		}
	}
	return t
}

// Cost returns the trained cost of a concrete segment under the given
// (terminal, length) class. A segment never seen in training has no entry
// and costs +Inf, which keeps any parse containing it from ever being
// selected as best.
func (t *TerminalTable) Cost(term structure.Terminal, length int, segment string) float64 {
	segs, ok := t.costs[string(term)+strconv.Itoa(length)]
	if !ok {
		return math.Inf(1)
	}
	cost, ok := segs[EncodeSegmentKey(segment)]
	if !ok {
		return math.Inf(1)
	}
	return cost
}

// Classes returns the number of (terminal, length) classes in the table.
func (t *TerminalTable) Classes() int { return len(t.costs) }
