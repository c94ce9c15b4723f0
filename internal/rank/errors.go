package rank

import "errors"

var (
	// ErrEmptyTable indicates a rank artifact with no sample points.
	ErrEmptyTable = errors.New("rank: empty table")

	// ErrMisaligned indicates positions and probs of different lengths.
	ErrMisaligned = errors.New("rank: positions and probs are misaligned")

	// ErrUnsorted indicates a probs sequence that is not ascending.
	ErrUnsorted = errors.New("rank: probs are not sorted ascending")
)
