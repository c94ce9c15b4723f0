package grammar

import (
	"fmt"
	"sort"

	"chunkmeter/internal/structure"
)

// Catalog is the loaded set of grammar rules, indexed by total length so
// that matching a password only walks rules that could possibly apply.
// Catalogs are immutable once built and safe for concurrent readers.
type Catalog struct {
	rules    []*Rule
	byLength map[int][]*Rule
}

// NewCatalog builds a catalog from the model's grammar table (serialized
// rule key to base cost). Every key must parse; a single malformed key makes
// the whole model unusable and fails the build. Rules are held in ascending
// key order, which makes the minimum-cost tie-break deterministic: among
// equal-cost parses the lexicographically smallest key wins.
func NewCatalog(table map[string]float64) (*Catalog, error) {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	c := &Catalog{
		rules:    make([]*Rule, 0, len(keys)),
		byLength: make(map[int][]*Rule),
	}
	for _, key := range keys {
		segs, err := ParseRuleKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse grammar rule: %w", err)
		}
		total := 0
		for _, s := range segs {
			total += s.Length
		}
		rule := &Rule{Key: key, Segments: segs, Cost: table[key], totalLen: total}
		c.rules = append(c.rules, rule)
		c.byLength[total] = append(c.byLength[total], rule)
	}
	return c, nil
}

// Len returns the number of rules in the catalog.
func (c *Catalog) Len() int { return len(c.rules) }

// Match returns every rule consistent with the span table: total declared
// length equal to the password length, and each segment's terminal equal to
// the terminal of the span it would cover. The length check is the cheap
// filter (via the length index); segment comparison bails on the first
// mismatch. Candidates come back in key order.
func (c *Catalog) Match(spans *structure.SpanTable) []*Rule {
	n := spans.Len()
	if n == 0 {
		return nil
	}
	var out []*Rule
	for _, rule := range c.byLength[n] {
		if matches(rule, spans) {
			out = append(out, rule)
		}
	}
	return out
}

func matches(rule *Rule, spans *structure.SpanTable) bool {
	offset := 0
	for _, seg := range rule.Segments {
		if spans.Terminal(offset, offset+seg.Length-1) != seg.Terminal {
			return false
		}
		offset += seg.Length
	}
	return true
}
