package e32

import "errors"

var (
	// ErrWouldBlock is returned by byte-stream operations that made no progress
	// before the transport timed out. Callers retry.
	ErrWouldBlock = errors.New("operation would block")

	ErrAuxTimeout         = errors.New("timed out waiting for AUX")
	ErrUnexpectedResponse = errors.New("unexpected response from module")
	ErrInvalidConfig      = errors.New("invalid configuration")
)
