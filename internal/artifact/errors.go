package artifact

import "errors"

var (
	// ErrMalformedModel indicates a model artifact that fails schema
	// validation or JSON decoding. The artifact must be rejected whole; a
	// partially valid catalog must never serve queries.
	ErrMalformedModel = errors.New("artifact: malformed model")

	// ErrMalformedRank indicates a rank artifact that fails schema
	// validation or JSON decoding.
	ErrMalformedRank = errors.New("artifact: malformed rank table")

	// ErrFetch indicates the artifact bytes could not be retrieved.
	ErrFetch = errors.New("artifact: fetch failed")
)
