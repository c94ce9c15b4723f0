// Package grammar holds the in-memory catalog of a trained chunk-level PCFG:
// structure rules with their base costs, the per-terminal segment cost
// tables, and the matcher that finds every rule agreeing with a password's
// span table. The catalog is built once from a loaded model artifact and is
// read-only afterwards; all costs are minus-log2 probabilities, lower is
// more probable.
package grammar

import (
	"fmt"
	"strings"

	"chunkmeter/internal/structure"
)

// Segment is one (terminal, length) pair of a grammar rule.
type Segment struct {
	Terminal structure.Terminal
	Length   int
}

// Rule is a password structure rule: an ordered sequence of segments and the
// base cost of choosing this structure. Key is the serialized form the rule
// was loaded under and doubles as its catalog identity.
type Rule struct {
	Key      string
	Segments []Segment
	Cost     float64

	totalLen int
}

// TotalLen returns the summed segment lengths of the rule, i.e. the password
// length it applies to.
func (r *Rule) TotalLen() int { return r.totalLen }

var knownTerminals = map[structure.Terminal]struct{}{
	structure.TermUpper:      {},
	structure.TermLower:      {},
	structure.TermDigit:      {},
	structure.TermSpecial:    {},
	structure.TermMixedTwo:   {},
	structure.TermMixedThree: {},
	structure.TermMixedFour:  {},
}

// ParseRuleKey parses a serialized rule key such as "D2L10S3" or "DM4D2"
// into its segment sequence. Uppercase letters accumulate into the current
// terminal symbol, digits into its length; a letter following digits closes
// the pair. A key that is empty, starts with a digit, ends a terminal with
// no digits, or declares a zero length does not describe a valid rule and is
// rejected.
func ParseRuleKey(key string) ([]Segment, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrMalformedKey)
	}
	var segs []Segment
	var term strings.Builder
	length := 0
	inLength := false
	flush := func() error {
		if !inLength {
			return fmt.Errorf("%w: %q: terminal %q has no length", ErrMalformedKey, key, term.String())
		}
		if length <= 0 {
			return fmt.Errorf("%w: %q: zero-length segment", ErrMalformedKey, key)
		}
		t := structure.Terminal(term.String())
		if _, ok := knownTerminals[t]; !ok {
			return fmt.Errorf("%w: %q in key %q", ErrUnknownTerminal, term.String(), key)
		}
		segs = append(segs, Segment{Terminal: t, Length: length})
		term.Reset()
		length = 0
		inLength = false
		return nil
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= '0' && c <= '9':
			if term.Len() == 0 {
				return nil, fmt.Errorf("%w: %q: length with no terminal", ErrMalformedKey, key)
			}
			inLength = true
			length = length*10 + int(c-'0')
		case c >= 'A' && c <= 'Z':
			if inLength {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			term.WriteByte(c)
		default:
			return nil, fmt.Errorf("%w: %q: unexpected character %q", ErrMalformedKey, key, c)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return segs, nil
}

// SerializeRule renders a segment sequence back into its key form. It is the
// right inverse of ParseRuleKey.
func SerializeRule(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		fmt.Fprintf(&b, "%s%d", s.Terminal, s.Length)
	}
	return b.String()
}
