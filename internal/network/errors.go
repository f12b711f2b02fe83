package network

import "errors"

var (
	// ErrEngineClosed is an error a caller can hand to FailAll(err,
	// close: true) when tearing an engine down. The engine never returns
	// it itself: Add and the other calls panic on a closed engine.
	ErrEngineClosed = errors.New("pending writes: engine closed")

	// ErrAlreadyClosed names a second close of an already-closed engine.
	// The engine does not return it: a second FailAll(err, close: true)
	// panics, since it is a logic violation, not a runtime condition
	// callers are expected to handle.
	ErrAlreadyClosed = errors.New("pending writes: engine already closed")
)
