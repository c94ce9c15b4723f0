// Package structure performs character-level structural analysis of passwords.
//
// A password is reduced to a tag string of elementary character classes
// (upper, lower, digit, special). A SpanTable then records, for every
// contiguous span of the password, the union of classes present in it and
// the grammar terminal that union maps to. The table is built once per
// password and shared by every grammar-matching attempt.
package structure

import "unicode"

// Class is an elementary character class.
type Class uint8

// Elementary classes. The values are single bits so a Set can hold their union.
const (
	Upper Class = 1 << iota
	Lower
	Digit
	Special
)

// Tag returns the single-character structure tag for the class.
func (c Class) Tag() byte {
	switch c {
	case Upper:
		return 'U'
	case Lower:
		return 'L'
	case Digit:
		return 'D'
	default:
		return 'S'
	}
}

// ClassOf classifies a single character. Letters split into upper and lower,
// digits are their own class, and everything else is special.
func ClassOf(r rune) Class {
	switch {
	case unicode.IsUpper(r):
		return Upper
	case unicode.IsLetter(r):
		return Lower
	case unicode.IsDigit(r):
		return Digit
	default:
		return Special
	}
}

// Set is a union of elementary classes seen across a span of characters.
// The zero Set is empty and has no terminal.
type Set uint8

// Join returns the union of two sets. Join is commutative and idempotent,
// and extending a span can only add classes, never remove them.
func (s Set) Join(o Set) Set { return s | o }

// Count reports how many distinct classes the set contains.
func (s Set) Count() int {
	n := 0
	for b := s; b != 0; b &= b - 1 {
		n++
	}
	return n
}

// Terminal is a grammar terminal symbol describing the class composition of
// a password segment: one of the pure tags U/L/D/S, or DM/TM/FM for spans
// mixing two, three, or four classes.
type Terminal string

// Terminal symbols.
const (
	TermUpper      Terminal = "U"
	TermLower      Terminal = "L"
	TermDigit      Terminal = "D"
	TermSpecial    Terminal = "S"
	TermMixedTwo   Terminal = "DM"
	TermMixedThree Terminal = "TM"
	TermMixedFour  Terminal = "FM"
)

// Terminal maps the set to its terminal symbol. The empty set has no
// terminal; ok is false in that case.
func (s Set) Terminal() (Terminal, bool) {
	switch s.Count() {
	case 0:
		return "", false
	case 1:
		switch Class(s) {
		case Upper:
			return TermUpper, true
		case Lower:
			return TermLower, true
		case Digit:
			return TermDigit, true
		default:
			return TermSpecial, true
		}
	case 2:
		return TermMixedTwo, true
	case 3:
		return TermMixedThree, true
	default:
		return TermMixedFour, true
	}
}

// Classify returns the structure tag string of a password: one of U, L, D, S
// per character. An empty password yields an empty structure.
func Classify(password string) string {
	runes := []rune(password)
	tags := make([]byte, len(runes))
	for i, r := range runes {
		tags[i] = ClassOf(r).Tag()
	}
	return string(tags)
}

// classOfTag inverts Tag for the four structure tag characters.
func classOfTag(t byte) Class {
	switch t {
	case 'U':
		return Upper
	case 'L':
		return Lower
	case 'D':
		return Digit
	default:
		return Special
	}
}

// SpanTable holds the class-union set for every contiguous span of a
// structure string. It is built once per password and read many times.
type SpanTable struct {
	n    int
	sets [][]Set // sets[i][j-i] covers characters i..j inclusive
}

// BuildSpanTable computes the span table for a structure string via the
// width-increasing dynamic program: a span of width w+1 starting at i is the
// union of the width-w span at i and the single character at i+w.
func BuildSpanTable(structure string) *SpanTable {
	n := len(structure)
	t := &SpanTable{n: n, sets: make([][]Set, n)}
	for i := 0; i < n; i++ {
		t.sets[i] = make([]Set, n-i)
		t.sets[i][0] = Set(classOfTag(structure[i]))
	}
	for w := 1; w < n; w++ {
		for i := 0; i+w < n; i++ {
			t.sets[i][w] = t.sets[i][w-1].Join(t.sets[i+w][0])
		}
	}
	return t
}

// Len returns the structure length the table was built from.
func (t *SpanTable) Len() int { return t.n }

// Set returns the class union covering characters i..j inclusive.
func (t *SpanTable) Set(i, j int) Set { return t.sets[i][j-i] }

// Terminal returns the terminal symbol for the span i..j inclusive.
func (t *SpanTable) Terminal(i, j int) Terminal {
	term, _ := t.Set(i, j).Terminal()
	return term
}

// Runs splits a password into maximal runs of a single character class, in
// order. This is the segmentation reported when no grammar rule parses the
// password.
func Runs(password string) []string {
	runes := []rune(password)
	if len(runes) == 0 {
		return nil
	}
	var segs []string
	start := 0
	prev := ClassOf(runes[0])
	for i := 1; i < len(runes); i++ {
		c := ClassOf(runes[i])
		if c != prev {
			segs = append(segs, string(runes[start:i]))
			start = i
			prev = c
		}
	}
	return append(segs, string(runes[start:]))
}
