package board

import "fmt"

// Move describes a transition from one square to another. It is a value, not
// an executed action; Capture, Castle and EnPassant are filled in by the
// move generator from the position the move was generated in.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType // NoPieceType unless the move promotes a pawn
	Capture   bool
	Castle    bool
	EnPassant bool
}

// NoMove represents an invalid or absent move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove creates a quiet move between two squares.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType}
}

// IsPromotion returns true if this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// IsQuiet returns true if the move neither captures nor promotes.
func (m Move) IsQuiet() bool {
	return !m.Capture && !m.IsPromotion()
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.From == NoSquare || m.To == NoSquare {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove resolves a coordinate move ("e2e4", "e7e8q") against the legal
// moves of pos. The returned move carries the generator's flags.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) == 5 {
		var ok bool
		if promo, ok = ParsePromotion(s[4:]); !ok {
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	m, ok := pos.FindLegal(from, to, promo)
	if !ok {
		return NoMove, fmt.Errorf("no legal move %s in position %s", s, pos.ToFEN())
	}
	return m, nil
}
