// Package board implements the chess rules engine: a 64-slot board, move
// generation, legality filtering and the FEN/SAN notation layers.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// NewSquare creates a square from 0-indexed file and rank.
func NewSquare(file, rank int) (Square, error) {
	if !onBoard(file, rank) {
		return NoSquare, &SquareError{Input: fmt.Sprintf("file=%d rank=%d", file, rank)}
	}
	return square(file, rank), nil
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, &SquareError{Input: s}
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if !onBoard(file, rank) {
		return NoSquare, &SquareError{Input: s}
	}

	return square(file, rank), nil
}

// RelativeRank returns the rank from a given color's perspective.
// For White, rank 0 is the 1st rank; for Black, rank 0 is the 8th rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

// IsLight reports whether the square is a light square (h1 is light).
func (sq Square) IsLight() bool {
	return (sq.File()+sq.Rank())%2 == 1
}

// offset returns the square df files and dr ranks away, or false when that
// leaves the board.
func (sq Square) offset(df, dr int) (Square, bool) {
	file, rank := sq.File()+df, sq.Rank()+dr
	if !onBoard(file, rank) {
		return NoSquare, false
	}
	return square(file, rank), true
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// square builds a square from coordinates already known to be on the board.
func square(file, rank int) Square {
	return Square(rank*8 + file)
}

// mustBeValid panics with a *SquareError for squares outside the board.
func mustBeValid(sq Square) {
	if sq >= NoSquare {
		panic(&SquareError{Input: fmt.Sprintf("index %d", sq)})
	}
}
