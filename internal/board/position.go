package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// castlingRightsLost maps each corner and king home square to the rights
// that disappear once anything moves from or onto it.
var castlingRightsLost = map[Square]CastlingRights{
	E1: WhiteKingSideCastle | WhiteQueenSideCastle,
	H1: WhiteKingSideCastle,
	A1: WhiteQueenSideCastle,
	E8: BlackKingSideCastle | BlackQueenSideCastle,
	H8: BlackKingSideCastle,
	A8: BlackQueenSideCastle,
}

// Position is a complete chess position: the board plus everything needed to
// decide which moves are legal next. Positions are values; Copy is a plain
// assignment.
type Position struct {
	Board          Board
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture (for 50-move rule)
	FullMoveNumber int    // Full move counter, starts at 1
}

// NewPosition creates a new position with the standard starting arrangement.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic("invalid starting FEN: " + err.Error())
	}
	return pos
}

// EmptyPosition returns a position with no pieces, white to move.
func EmptyPosition() *Position {
	return &Position{
		Board:          NewBoard(),
		SideToMove:     White,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	cp := *p
	return &cp
}

// PieceAt returns the piece at the given square.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board.PieceAt(sq)
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board.IsEmpty(sq)
}

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square {
	return p.Board.KingSquare(c)
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	sb.WriteString(p.Board.String())
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash())
	return sb.String()
}

// Validate checks that the position could occur in a game.
func (p *Position) Validate() error {
	if p.Board.Count(WhiteKing) != 1 {
		return &RecordError{Field: "placement", Value: p.placement(), Reason: "white must have exactly one king"}
	}
	if p.Board.Count(BlackKing) != 1 {
		return &RecordError{Field: "placement", Value: p.placement(), Reason: "black must have exactly one king"}
	}

	for file := 0; file < 8; file++ {
		for _, rank := range [2]int{0, 7} {
			if p.Board.PieceAt(square(file, rank)).Type() == Pawn {
				return &RecordError{Field: "placement", Value: p.placement(), Reason: "pawns cannot be on rank 1 or 8"}
			}
		}
	}

	for _, c := range [2]Color{White, Black} {
		for _, kingSide := range [2]bool{true, false} {
			if !p.CastlingRights.CanCastle(c, kingSide) {
				continue
			}
			king, rook := castleSquares(c, kingSide)
			if p.Board.PieceAt(king) != NewPiece(King, c) || p.Board.PieceAt(rook) != NewPiece(Rook, c) {
				return &RecordError{Field: "castling", Value: p.CastlingRights.String(), Reason: "king or rook not on its home square"}
			}
		}
	}

	if p.EnPassant != NoSquare {
		if p.EnPassant.RelativeRank(p.SideToMove) != 5 {
			return &RecordError{Field: "en passant", Value: p.EnPassant.String(), Reason: "target must be behind the pawn that just moved"}
		}
		them := p.SideToMove.Other()
		pawnSq, _ := p.EnPassant.offset(0, them.pawnDirection())
		originSq, _ := p.EnPassant.offset(0, -them.pawnDirection())
		if p.Board.PieceAt(pawnSq) != NewPiece(Pawn, them) || !p.Board.IsEmpty(p.EnPassant) || !p.Board.IsEmpty(originSq) {
			return &RecordError{Field: "en passant", Value: p.EnPassant.String(), Reason: "no pawn that just made a double step"}
		}
	}

	if p.IsKingAttacked(p.SideToMove.Other()) {
		return &RecordError{Field: "side to move", Value: p.SideToMove.String(), Reason: "side not to move is in check"}
	}

	return nil
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsKingAttacked(p.SideToMove)
}

// IsKingAttacked returns true if c's king stands on a square attacked by the
// other side. A side without a king is never in check.
func (p *Position) IsKingAttacked(c Color) bool {
	king := p.Board.KingSquare(c)
	if king == NoSquare {
		return false
	}
	return p.IsSquareAttacked(king, c.Other())
}

// IsInsufficientMaterial reports whether neither side can possibly deliver
// mate: K v K, K+minor v K, or bishops only with all bishops on one color.
func (p *Position) IsInsufficientMaterial() bool {
	var knights, lightBishops, darkBishops int
	for sq := A1; sq < NoSquare; sq++ {
		switch p.Board.squares[sq].Type() {
		case NoPieceType, King:
		case Knight:
			knights++
		case Bishop:
			if sq.IsLight() {
				lightBishops++
			} else {
				darkBishops++
			}
		default:
			return false
		}
	}

	bishops := lightBishops + darkBishops
	switch {
	case knights == 0 && bishops == 0:
		return true
	case knights+bishops == 1:
		return true
	case knights == 0 && (lightBishops == 0 || darkBishops == 0):
		return true
	}
	return false
}

// placement returns the FEN placement field, used in error reports.
func (p *Position) placement() string {
	fen := p.ToFEN()
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		return fen[:i]
	}
	return fen
}
