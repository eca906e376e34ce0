package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a legal move of pos to Standard Algebraic Notation.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	piece := pos.PieceAt(m.From)
	if piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder

	if m.Castle {
		if m.To > m.From {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, pt))
		}

		if m.Capture {
			if pt == Pawn {
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion])
		}
	}

	after := pos.Copy()
	after.MakeMove(m)
	if after.InCheck() {
		if after.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other pieces of the same type that can reach the same square.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	var candidates []Square
	for _, other := range pos.LegalMoves() {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if pos.PieceAt(other.From).Type() == pt {
			candidates = append(candidates, other.From)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	switch {
	case !sameFile:
		return string(rune('a' + m.From.File()))
	case !sameRank:
		return string(rune('1' + m.From.Rank()))
	default:
		return m.From.String()
	}
}

// ParseSAN parses a SAN string and returns the matching legal move of pos.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingSide := len(s) == 3
		for _, m := range pos.LegalMoves() {
			if m.Castle && (m.To > m.From) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("castling %q is not legal here", orig)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		var ok bool
		if promo, ok = ParsePromotion(s[idx+1:]); !ok {
			return NoMove, fmt.Errorf("invalid promotion in %q", orig)
		}
		s = s[:idx]
	} else if n := len(s); n >= 3 && s[n-2] >= '1' && s[n-2] <= '8' && strings.IndexByte("QRBNqrbn", s[n-1]) >= 0 {
		// Promotion written without '=' ("e8Q", "exd8N").
		promo, _ = ParsePromotion(s[n-1:])
		s = s[:n-1]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 {
		if i := strings.IndexByte("NBRQK", s[0]); i >= 0 {
			pt = PieceType(i + 1)
			s = s[1:]
		}
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %q", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		default:
			return NoMove, fmt.Errorf("invalid SAN: %q", orig)
		}
	}

	var matches []Move
	for _, m := range pos.LegalMoves() {
		if m.To != dest || m.Promotion != promo || m.Castle {
			continue
		}
		if pos.PieceAt(m.From).Type() != pt {
			continue
		}
		if disambigFile >= 0 && m.From.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && m.From.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.Capture {
			continue
		}
		matches = append(matches, m)
	}

	switch len(matches) {
	case 0:
		return NoMove, fmt.Errorf("no legal move matches %q", orig)
	case 1:
		return matches[0], nil
	default:
		return NoMove, fmt.Errorf("ambiguous move %q", orig)
	}
}

// MovesToSAN converts a sequence of moves played from pos to SAN notation.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.MakeMove(m)
	}

	return result
}
