package meter

import "errors"

// ErrNotReady indicates a scoring query arrived before the model and rank
// artifacts finished loading. Callers get this immediately rather than a
// misleading score.
var ErrNotReady = errors.New("meter: model not loaded")
