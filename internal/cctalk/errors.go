package cctalk

import "errors"

// Error taxonomy per the driver's error handling design: structural,
// timeout, port, semantic, and state errors are distinguished so callers
// can branch with errors.Is instead of string matching.
var (
	ErrStructural = errors.New("cctalk: structural error")
	ErrTimeout    = errors.New("cctalk: timeout")
	ErrPort       = errors.New("cctalk: port error")
	ErrSemantic   = errors.New("cctalk: semantic decode error")
	ErrState      = errors.New("cctalk: illegal state for operation")
)
