package game

import (
	"errors"
	"fmt"
)

// Sentinel errors, checked with errors.Is.
var (
	// ErrIllegalMove indicates a well formed move the rules do not allow.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameOver indicates a move or resignation after the game has ended.
	ErrGameOver = errors.New("game over")
)

// InvalidMoveReason explains why a move was rejected.
type InvalidMoveReason uint8

const (
	ReasonUnknown InvalidMoveReason = iota
	ReasonEmptySquare
	ReasonNotYourTurn
	ReasonBlockedByOwnPiece
	ReasonInvalidPieceMovement
	ReasonWouldLeaveKingInCheck
	ReasonBadPromotion
	ReasonMalformedNotation
)

func (r InvalidMoveReason) String() string {
	switch r {
	case ReasonEmptySquare:
		return "no piece on the source square"
	case ReasonNotYourTurn:
		return "piece belongs to the side not to move"
	case ReasonBlockedByOwnPiece:
		return "destination holds an own piece"
	case ReasonInvalidPieceMovement:
		return "piece cannot move that way"
	case ReasonWouldLeaveKingInCheck:
		return "move would leave the king in check"
	case ReasonBadPromotion:
		return "promotion piece not allowed for this move"
	case ReasonMalformedNotation:
		return "not a move in coordinate notation"
	default:
		return "unknown"
	}
}

// MoveError reports a rejected move.
type MoveError struct {
	Move   string
	Reason InvalidMoveReason
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%v %s: %s", ErrIllegalMove, e.Move, e.Reason)
}

// Unwrap makes errors.Is(err, ErrIllegalMove) hold.
func (e *MoveError) Unwrap() error { return ErrIllegalMove }
