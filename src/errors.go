package rsfec

import (
	"github.com/pkg/errors"
)

// Every failure is reported synchronously and nothing is retried internally.
// Callers match with errors.Is; the returned errors carry extra context.

var (
	// Output buffer undersized for encode.
	ErrCodewordBufferTooSmall = errors.New("codeword buffer too small")

	// A symbol is not an element of GF(2^m), i.e. it is >= 2^m.
	ErrInvalidSymbolsUsed = errors.New("invalid symbols used")

	// The encoder uses the codeword buffer as scratch space so it must start zeroed.
	ErrUninitialisedCodewordBuffer = errors.New("uninitialised codeword buffer")

	// (m, t) outside the supported range.
	ErrUnsupportedParameters = errors.New("unsupported parameters")

	// Inversion of zero.
	ErrDivisionByZero = errors.New("division by zero")

	// Too many errors to correct, or the locator and its roots disagree.
	ErrUncorrectable = errors.New("uncorrectable")

	// Message length is zero or does not fit in the field's maximum codeword length.
	ErrInvalidMessageLength = errors.New("invalid message length")

	// Decode output buffer undersized.
	ErrMessageBufferTooSmall = errors.New("message buffer too small")

	// No profile matches the requested name, tag or mode.
	ErrUnknownProfile = errors.New("unknown profile")

	// A framed block is malformed.
	ErrBadBlock = errors.New("bad block")
)
