package calculator

import "errors"

var (
	// ErrInsufficientData is returned when the window is shorter than the indicator needs.
	// The value returned alongside it is the legacy sentinel (0, or 50 for RSI).
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidArgument is returned for non-positive periods, empty windows and similar caller mistakes.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedBar is returned when a bar breaks the OHLC invariants or series ordering.
	ErrMalformedBar = errors.New("malformed bar")
)
