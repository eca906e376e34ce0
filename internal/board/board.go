package board

import "strings"

// Board is a 64-slot arena mapping each square to at most one piece.
// It is a value type: assigning a Board copies it, which is how scratch
// boards for legality checks are made. Board applies no chess rules.
type Board struct {
	squares [64]Piece
}

// NewBoard returns an empty board.
func NewBoard() Board {
	var b Board
	b.Clear()
	return b
}

// Clear empties every square.
func (b *Board) Clear() {
	for i := range b.squares {
		b.squares[i] = NoPiece
	}
}

// PieceAt returns the piece on sq, or NoPiece if the square is empty.
func (b *Board) PieceAt(sq Square) Piece {
	mustBeValid(sq)
	return b.squares[sq]
}

// IsEmpty returns true if no piece stands on sq.
func (b *Board) IsEmpty(sq Square) bool {
	return b.PieceAt(sq) == NoPiece
}

// Place puts piece on sq, replacing any occupant.
func (b *Board) Place(sq Square, piece Piece) {
	mustBeValid(sq)
	b.squares[sq] = piece
}

// Remove empties sq and returns the piece that stood there.
func (b *Board) Remove(sq Square) Piece {
	mustBeValid(sq)
	piece := b.squares[sq]
	b.squares[sq] = NoPiece
	return piece
}

// Move relocates the occupant of from onto to and returns whatever was on to.
// Moving from an empty square empties to.
func (b *Board) Move(from, to Square) Piece {
	piece := b.Remove(from)
	captured := b.Remove(to)
	b.squares[to] = piece
	return captured
}

// SquaresOccupiedBy returns the squares holding pieces of color c in a1..h8 order.
func (b *Board) SquaresOccupiedBy(c Color) []Square {
	var squares []Square
	for sq := A1; sq < NoSquare; sq++ {
		if p := b.squares[sq]; p != NoPiece && p.Color() == c {
			squares = append(squares, sq)
		}
	}
	return squares
}

// KingSquare returns the square of c's king, or NoSquare if it has none.
func (b *Board) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq := A1; sq < NoSquare; sq++ {
		if b.squares[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// Count returns how many copies of piece stand on the board.
func (b *Board) Count(piece Piece) int {
	n := 0
	for _, p := range b.squares {
		if p == piece {
			n++
		}
	}
	return n
}

// String renders the board with rank 8 at the top.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteString("  ")
		for file := 0; file < 8; file++ {
			piece := b.squares[square(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
