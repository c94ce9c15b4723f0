package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chunkmeter/internal/structure"
)

func TestParseRuleKey(t *testing.T) {
	segs, err := ParseRuleKey("D2L10S3")
	require.NoError(t, err)
	assert.Equal(t, []Segment{
		{Terminal: structure.TermDigit, Length: 2},
		{Terminal: structure.TermLower, Length: 10},
		{Terminal: structure.TermSpecial, Length: 3},
	}, segs)
}

func TestParseRuleKeyMixedTerminals(t *testing.T) {
	segs, err := ParseRuleKey("DM4D2FM1")
	require.NoError(t, err)
	assert.Equal(t, []Segment{
		{Terminal: structure.TermMixedTwo, Length: 4},
		{Terminal: structure.TermDigit, Length: 2},
		{Terminal: structure.TermMixedFour, Length: 1},
	}, segs)
}

func TestParseRuleKeyMalformed(t *testing.T) {
	malformed := []string{
		"",     // empty key
		"D",    // terminal with no length
		"D2L",  // trailing terminal with no length
		"2D3",  // length before any terminal
		"D0",   // zero-length segment
		"d3",   // lowercase is not a terminal letter
		"D2+3", // stray character
	}
	for _, key := range malformed {
		_, err := ParseRuleKey(key)
		assert.ErrorIs(t, err, ErrMalformedKey, "key %q", key)
	}

	_, err := ParseRuleKey("X3")
	assert.ErrorIs(t, err, ErrUnknownTerminal)
	_, err = ParseRuleKey("D2QM3")
	assert.ErrorIs(t, err, ErrUnknownTerminal)
}

func TestSerializeRuleRoundTrip(t *testing.T) {
	for _, key := range []string{"D6", "L3D3", "D2L10S3", "DM4D2", "TM12", "FM1U1"} {
		segs, err := ParseRuleKey(key)
		require.NoError(t, err)
		assert.Equal(t, key, SerializeRule(segs))
	}
}
