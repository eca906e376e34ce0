package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
//
// The parser accepts exactly the canonical form ToFEN produces: six fields
// separated by single spaces, castling letters in KQkq order, no adjacent
// digits in the placement and no leading zeros in the counters. Every
// failure is a *RecordError naming the offending field. The decoded
// position must also pass Validate.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Split(fen, " ")
	if len(parts) != 6 {
		return nil, &RecordError{Field: "record", Value: fen, Reason: fmt.Sprintf("need 6 fields, got %d", len(parts))}
	}

	pos := EmptyPosition()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, &RecordError{Field: "side to move", Value: parts[1]}
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, &RecordError{Field: "en passant", Value: parts[3], Reason: "not a square"}
		}
		pos.EnPassant = sq
	}

	hmc, err := parseCounter(parts[4], 0)
	if err != nil {
		return nil, &RecordError{Field: "halfmove clock", Value: parts[4], Reason: err.Error()}
	}
	pos.HalfMoveClock = hmc

	fmn, err := parseCounter(parts[5], 1)
	if err != nil {
		return nil, &RecordError{Field: "fullmove number", Value: parts[5], Reason: err.Error()}
	}
	pos.FullMoveNumber = fmn

	if err := pos.Validate(); err != nil {
		return nil, err
	}
	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return &RecordError{Field: "placement", Value: placement, Reason: fmt.Sprintf("need 8 ranks, got %d", len(ranks))}
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0
		lastDigit := false

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if file > 7 {
				return &RecordError{Field: "placement", Value: placement, Reason: fmt.Sprintf("too many squares in rank %d", rank+1)}
			}

			if c >= '1' && c <= '8' {
				if lastDigit {
					return &RecordError{Field: "placement", Value: placement, Reason: fmt.Sprintf("adjacent digits in rank %d", rank+1)}
				}
				file += int(c - '0')
				lastDigit = true
				continue
			}

			piece := PieceFromChar(c)
			if piece == NoPiece {
				return &RecordError{Field: "placement", Value: placement, Reason: fmt.Sprintf("invalid piece character %q", c)}
			}
			pos.Board.Place(square(file, rank), piece)
			file++
			lastDigit = false
		}

		if file != 8 {
			return &RecordError{Field: "placement", Value: placement, Reason: fmt.Sprintf("rank %d has %d squares", rank+1, file)}
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for i := 0; i < len(castling); i++ {
		idx := strings.IndexByte("KQkq", castling[i])
		if idx < 0 {
			return &RecordError{Field: "castling", Value: castling, Reason: fmt.Sprintf("invalid character %q", castling[i])}
		}
		right := CastlingRights(1 << idx)
		// Rights must appear at most once and in KQkq order.
		if pos.CastlingRights >= right {
			return &RecordError{Field: "castling", Value: castling, Reason: "rights must be listed once each in KQkq order"}
		}
		pos.CastlingRights |= right
	}

	return nil
}

// parseCounter parses a decimal counter of at least min without sign or
// leading zeros.
func parseCounter(s string, min int) (int, error) {
	if s == "" || s[0] == '+' || s[0] == '-' || (len(s) > 1 && s[0] == '0') {
		return 0, fmt.Errorf("not a canonical number")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if n < min {
		return 0, fmt.Errorf("must be at least %d", min)
	}
	return n, nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Board.squares[square(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
