package grammar

import "errors"

var (
	// ErrMalformedKey indicates a serialized rule key that does not parse
	// into (terminal, length) pairs.
	ErrMalformedKey = errors.New("grammar: malformed rule key")

	// ErrUnknownTerminal indicates a rule key naming a terminal symbol
	// outside the known set.
	ErrUnknownTerminal = errors.New("grammar: unknown terminal symbol")
)
