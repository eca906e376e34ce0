package board

// LegalMoves returns all legal moves for the side to move.
func (p *Position) LegalMoves() []Move {
	var legal []Move
	for _, m := range p.GeneratePseudoLegalMoves() {
		if p.isLegalCandidate(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMovesFor returns the moves c could make if it were c's turn. For the
// side not to move no en passant capture is possible.
func (p *Position) LegalMovesFor(c Color) []Move {
	if c == p.SideToMove {
		return p.LegalMoves()
	}
	scratch := *p
	scratch.SideToMove = c
	scratch.EnPassant = NoSquare
	return scratch.LegalMoves()
}

// LegalMovesFrom returns the legal moves of the piece on from. Pieces of the
// side not to move have none.
func (p *Position) LegalMovesFrom(from Square) []Move {
	piece := p.Board.PieceAt(from)
	if piece == NoPiece || piece.Color() != p.SideToMove {
		return nil
	}
	var legal []Move
	for _, m := range p.PseudoLegalMoves(from) {
		if p.isLegalCandidate(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// IsLegal returns true if m is a legal move for the side to move. Only From,
// To and Promotion are compared; the flags are derived from the position.
func (p *Position) IsLegal(m Move) bool {
	_, ok := p.FindLegal(m.From, m.To, m.Promotion)
	return ok
}

// FindLegal looks up the legal move matching from, to and promo (NoPieceType
// for non-promotions) and returns it with its flags set.
func (p *Position) FindLegal(from, to Square, promo PieceType) (Move, bool) {
	if !from.IsValid() || !to.IsValid() {
		return NoMove, false
	}
	for _, m := range p.LegalMovesFrom(from) {
		if m.To == to && m.Promotion == promo {
			return m, true
		}
	}
	return NoMove, false
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	for _, from := range p.Board.SquaresOccupiedBy(p.SideToMove) {
		for _, m := range p.PseudoLegalMoves(from) {
			if p.isLegalCandidate(m) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate returns true if the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// isLegalCandidate checks a generated move of the side to move against the
// check rules by playing it on a scratch copy.
func (p *Position) isLegalCandidate(m Move) bool {
	us := p.SideToMove
	them := us.Other()

	if m.Castle {
		// The king may not castle out of, through, or into check.
		step := 1
		if m.To < m.From {
			step = -1
		}
		crossed, _ := m.From.offset(step, 0)
		if p.Board.isAttacked(m.From, them) ||
			p.Board.isAttacked(crossed, them) ||
			p.Board.isAttacked(m.To, them) {
			return false
		}
	}

	if m.EnPassant {
		if m.To != p.EnPassant {
			return false
		}
		victim, _ := m.To.offset(0, -us.pawnDirection())
		if p.Board.PieceAt(victim) != NewPiece(Pawn, them) || victim.Rank() != m.From.Rank() {
			return false
		}
	}

	scratch := *p
	scratch.MakeMove(m)
	return !scratch.IsKingAttacked(us)
}

// MakeMove plays m without checking its legality and returns the captured
// piece, if any. Castling rights, the en passant target and both counters
// are updated and the turn passes to the other side.
func (p *Position) MakeMove(m Move) Piece {
	us := p.SideToMove
	piece := p.Board.PieceAt(m.From)

	var captured Piece
	switch {
	case m.EnPassant:
		victim, _ := m.To.offset(0, -us.pawnDirection())
		captured = p.Board.Remove(victim)
		p.Board.Move(m.From, m.To)
	case m.Castle:
		kingSide := m.To > m.From
		_, rookFrom := castleSquares(us, kingSide)
		step := 1
		if !kingSide {
			step = -1
		}
		rookTo, _ := m.From.offset(step, 0)
		p.Board.Move(m.From, m.To)
		p.Board.Move(rookFrom, rookTo)
		captured = NoPiece
	default:
		captured = p.Board.Move(m.From, m.To)
	}

	if m.IsPromotion() {
		p.Board.Place(m.To, NewPiece(m.Promotion, us))
	}

	p.CastlingRights &^= castlingRightsLost[m.From] | castlingRightsLost[m.To]

	p.EnPassant = NoSquare
	if piece.Type() == Pawn && (m.To.Rank()-m.From.Rank() == 2 || m.From.Rank()-m.To.Rank() == 2) {
		p.EnPassant, _ = m.From.offset(0, us.pawnDirection())
	}

	if piece.Type() == Pawn || captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = us.Other()

	return captured
}
