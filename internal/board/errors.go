package board

import (
	"errors"
	"fmt"
)

// Sentinel errors, checked with errors.Is.
var (
	// ErrInvalidSquare indicates a coordinate outside a1-h8.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrMalformedRecord indicates a position record that cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record")
)

// SquareError reports a malformed coordinate.
type SquareError struct {
	Input string
}

func (e *SquareError) Error() string {
	return fmt.Sprintf("%v: %q", ErrInvalidSquare, e.Input)
}

// Unwrap makes errors.Is(err, ErrInvalidSquare) hold.
func (e *SquareError) Unwrap() error { return ErrInvalidSquare }

// RecordError reports the offending field of a position record.
type RecordError struct {
	Field  string // "placement", "side to move", "castling", "en passant", "halfmove clock", "fullmove number"
	Value  string
	Reason string
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("%v: %s %q", ErrMalformedRecord, e.Field, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrMalformedRecord) hold.
func (e *RecordError) Unwrap() error { return ErrMalformedRecord }
