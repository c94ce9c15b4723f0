package meter

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chunkmeter/internal/artifact"
	"chunkmeter/internal/grammar"
)

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// testModel covers three rule shapes: a pure-digit rule, a two-segment
// letter/digit rule, and a mixed-span rule with no trained segments at all.
func testModel() *artifact.Model {
	return &artifact.Model{
		Grammar: map[string]float64{
			"D6":   5.0,
			"L3D3": 3.0,
			"DM6":  9.0,
		},
		Lower: map[string]map[string]float64{
			"L3": {grammar.EncodeSegmentKey("abc"): 1.5},
		},
		Upper: map[string]map[string]float64{},
		Digits: map[string]map[string]float64{
			"D6": {grammar.EncodeSegmentKey("123456"): 2.0},
			"D3": {grammar.EncodeSegmentKey("123"): 1.0},
		},
		Special: map[string]map[string]float64{},
		DoubleM: map[string]map[string]float64{},
		TripleM: map[string]map[string]float64{},
		FourM:   map[string]map[string]float64{},
	}
}

func testRank() *artifact.Rank {
	return &artifact.Rank{
		Positions: []float64{1, 10, 100, 1000, 10000},
		Probs:     []float64{1, 5, 10, 20, 40},
		Blocklist: []string{digest("123456"), digest("abc")},
	}
}

func testSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(testModel(), testRank())
	require.NoError(t, err)
	return s
}

func TestScoreSingleSegment(t *testing.T) {
	s := testSession(t)
	result := s.Score("123456")

	// D6 base cost 5.0 plus segment cost 2.0.
	assert.Equal(t, 0.0078125, result.Prob) // 2^-7
	assert.Equal(t, 100.0, result.GuessNumber)
	assert.Equal(t, []string{"123456"}, result.Segments)
	require.Len(t, result.Chunks, 1)
	assert.True(t, result.Chunks[0].Dangerous)
	assert.Equal(t, "123456", result.Chunks[0].Text)
}

func TestScoreTwoSegments(t *testing.T) {
	s := testSession(t)
	result := s.Score("abc123")

	// L3D3 wins: 3.0 + 1.5 + 1.0 = 5.5. DM6 matches the structure too but
	// has no trained segments, so its parse costs +Inf and is never picked.
	assert.InDelta(t, 0.02209708691, result.Prob, 1e-9) // 2^-5.5
	assert.Equal(t, 100.0, result.GuessNumber)
	assert.Equal(t, []string{"abc", "123"}, result.Segments)
	require.Len(t, result.Chunks, 2)
	assert.True(t, result.Chunks[0].Dangerous)  // "abc" is blocklisted
	assert.False(t, result.Chunks[1].Dangerous) // "123" is not
}

func TestScoreEmptyPassword(t *testing.T) {
	s := testSession(t)
	result := s.Score("")

	assert.Equal(t, s.MaxGuesses(), result.GuessNumber)
	assert.Equal(t, 0.0, result.Prob)
	assert.Empty(t, result.Segments)
	assert.Empty(t, result.Chunks)
}

func TestScoreNoMatchingRule(t *testing.T) {
	s := testSession(t)
	result := s.Score("Zz9!")

	assert.Equal(t, 10000.0, result.GuessNumber)
	assert.Equal(t, 0.0, result.Prob)
	// Segmentation falls back to character-class runs.
	assert.Equal(t, []string{"Z", "z", "9", "!"}, result.Segments)
}

func TestScoreUnseenSegment(t *testing.T) {
	s := testSession(t)
	// Matches D6 structurally, but "654321" was never seen in training:
	// the only parse costs +Inf and the no-parse sentinel applies.
	result := s.Score("654321")

	assert.Equal(t, s.MaxGuesses(), result.GuessNumber)
	assert.Equal(t, 0.0, result.Prob)
	assert.Equal(t, []string{"654321"}, result.Segments)
}

func TestScoreCostZeroIsCertainty(t *testing.T) {
	model := &artifact.Model{
		Grammar: map[string]float64{"L4": 0},
		Lower: map[string]map[string]float64{
			"L4": {grammar.EncodeSegmentKey("test"): 0},
		},
		Upper:   map[string]map[string]float64{},
		Digits:  map[string]map[string]float64{},
		Special: map[string]map[string]float64{},
		DoubleM: map[string]map[string]float64{},
		TripleM: map[string]map[string]float64{},
		FourM:   map[string]map[string]float64{},
	}
	s, err := NewSession(model, testRank())
	require.NoError(t, err)

	result := s.Score("test")
	assert.Equal(t, 1.0, result.Prob)
	assert.Equal(t, 1.0, result.GuessNumber)
}

func TestScoreTieBreaksOnSmallestKey(t *testing.T) {
	model := testModel()
	// Give "123456" a second parse with the same total cost 7.0:
	// D3D3 = 5.0 + 1.0 + 1.0, against D6 = 5.0 + 2.0.
	model.Grammar["D3D3"] = 5.0
	model.Digits["D3"][grammar.EncodeSegmentKey("456")] = 1.0

	s, err := NewSession(model, testRank())
	require.NoError(t, err)

	result := s.Score("123456")
	assert.Equal(t, 0.0078125, result.Prob)
	// "D3D3" sorts before "D6", so the two-segment parse wins the tie.
	assert.Equal(t, []string{"123", "456"}, result.Segments)
}

func TestNewSessionRejectsBadGrammar(t *testing.T) {
	model := testModel()
	model.Grammar["D"] = 1.0
	_, err := NewSession(model, testRank())
	assert.ErrorIs(t, err, grammar.ErrMalformedKey)
}

func TestMeterNotReady(t *testing.T) {
	m := New()
	assert.False(t, m.Ready())

	_, err := m.Score("123456")
	assert.ErrorIs(t, err, ErrNotReady)

	m.Install(testSession(t))
	assert.True(t, m.Ready())

	result, err := m.Score("123456")
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.GuessNumber)
}

func TestScoreConcurrent(t *testing.T) {
	s := testSession(t)
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				r := s.Score("abc123")
				if r.GuessNumber != 100.0 {
					t.Errorf("GuessNumber = %v, want 100", r.GuessNumber)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
