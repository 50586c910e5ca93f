package fec

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig reports a (K, E, nMax, ...) combination no polar code exists for.
	ErrInvalidConfig = errors.New("polar: invalid code configuration")
	// ErrInvalidInput reports malformed input: wrong lengths, non-binary bits, bad list size.
	ErrInvalidInput = errors.New("polar: invalid input")
)
