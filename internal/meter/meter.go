// Package meter ties the scoring pipeline together: it builds an immutable
// session from loaded artifacts and answers scoring queries against it.
//
// A query runs password -> structure tags -> span table -> grammar match ->
// per-candidate cost -> best parse -> guess number, with every step a pure
// function over the session's read-only state. Independent queries may share
// one session concurrently without locking.
package meter

import (
	"fmt"
	"math"
	"sync/atomic"

	"chunkmeter/internal/artifact"
	"chunkmeter/internal/grammar"
	"chunkmeter/internal/rank"
	"chunkmeter/internal/structure"
)

// Chunk is one segment of the best parse with its blocklist verdict.
type Chunk struct {
	Text      string `json:"text"`
	Dangerous bool   `json:"dangerous"`
}

// Result is the scoring answer: the four-field contract every caller of the
// engine depends on. When no grammar rule parses the password, GuessNumber
// is the rank table's maximum, Prob is 0, and Segments falls back to the
// password's character-class runs.
type Result struct {
	GuessNumber float64  `json:"guess_number"`
	Segments    []string `json:"segments"`
	Chunks      []Chunk  `json:"chunks"`
	Prob        float64  `json:"prob"`
}

// Session is one fully loaded model: grammar catalog, terminal cost tables,
// rank table, and blocklist. Sessions are immutable and safe for concurrent
// use.
type Session struct {
	catalog   *grammar.Catalog
	terminals *grammar.TerminalTable
	ranks     *rank.Table
	blocked   *rank.BlockSet
}

// NewSession assembles a session from decoded artifacts. A grammar key that
// does not parse, or a rank table that is empty, misaligned, or unsorted,
// fails the build; a session is either fully consistent or not constructed.
func NewSession(m *artifact.Model, r *artifact.Rank) (*Session, error) {
	catalog, err := grammar.NewCatalog(m.Grammar)
	if err != nil {
		return nil, fmt.Errorf("build grammar catalog: %w", err)
	}
	ranks, err := rank.NewTable(r.Positions, r.Probs)
	if err != nil {
		return nil, fmt.Errorf("build rank table: %w", err)
	}
	return &Session{
		catalog:   catalog,
		terminals: grammar.NewTerminalTable(m.TerminalClasses()...),
		ranks:     ranks,
		blocked:   rank.NewBlockSet(r.Blocklist),
	}, nil
}

// Score evaluates one password against the session.
func (s *Session) Score(password string) Result {
	runes := []rune(password)
	tags := structure.Classify(password)

	var (
		bestRule *grammar.Rule
		bestCost = math.Inf(1)
	)
	if len(tags) > 0 {
		spans := structure.BuildSpanTable(tags)
		for _, candidate := range s.catalog.Match(spans) {
			cost := s.parseCost(runes, candidate)
			// Candidates arrive in key order, so strict less-than keeps
			// the lexicographically smallest key on cost ties.
			if cost < bestCost {
				bestCost = cost
				bestRule = candidate
			}
		}
	}

	segments := []string{}
	if bestRule != nil {
		segments = slice(runes, bestRule)
	} else if len(runes) > 0 {
		segments = structure.Runs(password)
	}

	chunks := make([]Chunk, 0, len(segments))
	for _, seg := range segments {
		chunks = append(chunks, Chunk{Text: seg, Dangerous: s.blocked.Contains(seg)})
	}

	prob := 0.0
	if !math.IsInf(bestCost, 1) {
		prob = math.Exp2(-bestCost)
	}
	return Result{
		GuessNumber: s.ranks.Estimate(bestCost),
		Segments:    segments,
		Chunks:      chunks,
		Prob:        prob,
	}
}

// parseCost is the total cost of parsing the password with one rule: the
// rule's base cost plus every segment's cost under its terminal class. An
// unseen segment contributes +Inf, which poisons the whole parse.
func (s *Session) parseCost(runes []rune, rule *grammar.Rule) float64 {
	cost := rule.Cost
	offset := 0
	for _, seg := range rule.Segments {
		c := s.terminals.Cost(seg.Terminal, seg.Length, string(runes[offset:offset+seg.Length]))
		if math.IsInf(c, 1) {
			return c
		}
		cost += c
		offset += seg.Length
	}
	return cost
}

// slice partitions the password into the rule's declared segment lengths.
// The lengths are known to sum to the password length: the matcher only
// emits rules that passed the total-length filter.
func slice(runes []rune, rule *grammar.Rule) []string {
	segs := make([]string, 0, len(rule.Segments))
	offset := 0
	for _, seg := range rule.Segments {
		segs = append(segs, string(runes[offset:offset+seg.Length]))
		offset += seg.Length
	}
	return segs
}

// MaxGuesses returns the largest guess number the session can report.
func (s *Session) MaxGuesses() float64 { return s.ranks.Max() }

// Meter is the process-wide handle queries go through. It starts empty and
// fails fast with ErrNotReady until a session is installed; a reload swaps
// the session atomically while in-flight queries keep the one they started
// with.
type Meter struct {
	session atomic.Pointer[Session]
}

// New returns an empty meter.
func New() *Meter { return &Meter{} }

// Ready reports whether a session is installed.
func (m *Meter) Ready() bool { return m.session.Load() != nil }

// Install atomically replaces the served session.
func (m *Meter) Install(s *Session) { m.session.Store(s) }

// Score evaluates a password against the current session.
func (m *Meter) Score(password string) (Result, error) {
	s := m.session.Load()
	if s == nil {
		return Result{}, ErrNotReady
	}
	return s.Score(password), nil
}
