// Package artifact loads the trained model and rank artifacts the scoring
// engine consumes. Artifacts are JSON, optionally gzip-compressed, fetched
// from a local file or an http(s) URL, and validated against embedded JSON
// Schemas before decoding. Loading happens once per session; everything the
// package returns is immutable afterwards.
package artifact

// Model is the trained chunk-level PCFG: the grammar table (serialized rule
// key to base cost) and one segment cost table per terminal class. Segment
// cost tables map "<terminal><length>" to encoded-segment-key/cost pairs.
type Model struct {
	Grammar map[string]float64            `json:"grammar"`
	Lower   map[string]map[string]float64 `json:"lower"`
	Upper   map[string]map[string]float64 `json:"upper"`
	Digits  map[string]map[string]float64 `json:"digits"`
	Special map[string]map[string]float64 `json:"special"`
	DoubleM map[string]map[string]float64 `json:"double_m"`
	TripleM map[string]map[string]float64 `json:"triple_m"`
	FourM   map[string]map[string]float64 `json:"four_m"`
}

// TerminalClasses returns the model's seven terminal-class tables in a fixed
// order, ready to merge into a single lookup table.
func (m *Model) TerminalClasses() []map[string]map[string]float64 {
	return []map[string]map[string]float64{
		m.Lower, m.Upper, m.Digits, m.Special, m.DoubleM, m.TripleM, m.FourM,
	}
}

// Rank is the Monte-Carlo rank artifact: guess-number positions aligned with
// their costs, plus the blocklist of dangerous-chunk digests.
type Rank struct {
	Positions []float64 `json:"positions"`
	Probs     []float64 `json:"probs"`
	Blocklist []string  `json:"blocklist"`
}
