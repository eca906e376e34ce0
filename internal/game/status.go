package game

import (
	"fmt"

	"github.com/hailam/chessplay/internal/board"
)

// Kind is the phase of the game state machine.
type Kind uint8

const (
	Active Kind = iota
	Check
	Checkmate
	Stalemate
	Draw
	Terminated
)

var kindNames = [...]string{"active", "check", "checkmate", "stalemate", "draw", "terminated"}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return Active, false
}

// DrawReason names the rule that ended a drawn game.
type DrawReason uint8

const (
	NoReason DrawReason = iota
	FiftyMove
	InsufficientMaterial
	Repetition
)

var reasonNames = [...]string{"", "fifty-move", "insufficient-material", "repetition"}

func (r DrawReason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("DrawReason(%d)", r)
}

// ParseDrawReason is the inverse of DrawReason.String.
func ParseDrawReason(s string) (DrawReason, bool) {
	for i, name := range reasonNames {
		if name == s {
			return DrawReason(i), true
		}
	}
	return NoReason, false
}

// Status describes where the game stands.
//
// Color is the side in check for Check, the side that was mated for
// Checkmate and the side that resigned for Terminated. It is NoColor
// otherwise. Reason is only set for Draw.
type Status struct {
	Kind   Kind
	Color  board.Color
	Reason DrawReason
}

// IsTerminal reports whether no further moves are accepted.
func (s Status) IsTerminal() bool {
	switch s.Kind {
	case Checkmate, Stalemate, Draw, Terminated:
		return true
	}
	return false
}

// Winner returns the winning side, or NoColor for unfinished and drawn games.
func (s Status) Winner() board.Color {
	switch s.Kind {
	case Checkmate, Terminated:
		return s.Color.Other()
	}
	return board.NoColor
}

// Result returns the PGN result token: "1-0", "0-1", "1/2-1/2" or "*".
func (s Status) Result() string {
	switch {
	case s.Winner() == board.White:
		return "1-0"
	case s.Winner() == board.Black:
		return "0-1"
	case s.Kind == Stalemate || s.Kind == Draw:
		return "1/2-1/2"
	}
	return "*"
}

// String returns a human readable description of the status.
func (s Status) String() string {
	switch s.Kind {
	case Active:
		return "active"
	case Check:
		return fmt.Sprintf("%s is in check", s.Color)
	case Checkmate:
		return fmt.Sprintf("%s wins by checkmate", s.Color.Other())
	case Stalemate:
		return "draw by stalemate"
	case Draw:
		return fmt.Sprintf("draw by %s rule", s.Reason)
	case Terminated:
		return fmt.Sprintf("%s resigned, %s wins", s.Color, s.Color.Other())
	}
	return s.Kind.String()
}
