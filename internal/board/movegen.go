package board

// PseudoLegalMoves returns the moves the piece on from could make ignoring
// whether its own king is left in check. An empty square yields no moves.
// Pieces are generated for their own color regardless of whose turn it is.
func (p *Position) PseudoLegalMoves(from Square) []Move {
	piece := p.Board.PieceAt(from)
	if piece == NoPiece {
		return nil
	}

	var moves []Move
	switch piece.Type() {
	case Pawn:
		moves = p.pawnMoves(moves, from, piece.Color())
	case Knight:
		moves = p.leaperMoves(moves, from, piece.Color(), knightOffsets[:])
	case Bishop:
		moves = p.sliderMoves(moves, from, piece.Color(), bishopDirections[:])
	case Rook:
		moves = p.sliderMoves(moves, from, piece.Color(), rookDirections[:])
	case Queen:
		moves = p.sliderMoves(moves, from, piece.Color(), rookDirections[:])
		moves = p.sliderMoves(moves, from, piece.Color(), bishopDirections[:])
	case King:
		moves = p.leaperMoves(moves, from, piece.Color(), kingOffsets[:])
		moves = p.castlingMoves(moves, from, piece.Color())
	}
	return moves
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves for the side to
// move (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() []Move {
	var moves []Move
	for _, from := range p.Board.SquaresOccupiedBy(p.SideToMove) {
		moves = append(moves, p.PseudoLegalMoves(from)...)
	}
	return moves
}

func (p *Position) pawnMoves(moves []Move, from Square, us Color) []Move {
	dir := us.pawnDirection()

	if one, ok := from.offset(0, dir); ok && p.Board.IsEmpty(one) {
		moves = addPawnMove(moves, Move{From: from, To: one}, us)

		if from.RelativeRank(us) == 1 {
			if two, _ := one.offset(0, dir); p.Board.IsEmpty(two) {
				moves = append(moves, NewMove(from, two))
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := from.offset(df, dir)
		if !ok {
			continue
		}
		target := p.Board.PieceAt(to)
		switch {
		case target != NoPiece && target.Color() != us:
			moves = addPawnMove(moves, Move{From: from, To: to, Capture: true}, us)
		case to == p.EnPassant && target == NoPiece:
			moves = append(moves, Move{From: from, To: to, Promotion: NoPieceType, Capture: true, EnPassant: true})
		}
	}
	return moves
}

// addPawnMove appends m, expanded into one move per promotion kind when it
// reaches the far rank.
func addPawnMove(moves []Move, m Move, us Color) []Move {
	if m.To.RelativeRank(us) != 7 {
		m.Promotion = NoPieceType
		return append(moves, m)
	}
	for _, pt := range PromotionTypes {
		m.Promotion = pt
		moves = append(moves, m)
	}
	return moves
}

func (p *Position) leaperMoves(moves []Move, from Square, us Color, offsets [][2]int) []Move {
	for _, off := range offsets {
		to, ok := from.offset(off[0], off[1])
		if !ok {
			continue
		}
		target := p.Board.squares[to]
		if target == NoPiece {
			moves = append(moves, NewMove(from, to))
		} else if target.Color() != us {
			moves = append(moves, Move{From: from, To: to, Promotion: NoPieceType, Capture: true})
		}
	}
	return moves
}

func (p *Position) sliderMoves(moves []Move, from Square, us Color, directions [][2]int) []Move {
	for _, dir := range directions {
		cur := from
		for {
			to, ok := cur.offset(dir[0], dir[1])
			if !ok {
				break
			}
			target := p.Board.squares[to]
			if target == NoPiece {
				moves = append(moves, NewMove(from, to))
				cur = to
				continue
			}
			if target.Color() != us {
				moves = append(moves, Move{From: from, To: to, Promotion: NoPieceType, Capture: true})
			}
			break
		}
	}
	return moves
}

// castleSquares returns the home squares of c's king and the rook for the
// given wing.
func castleSquares(c Color, kingSide bool) (king, rook Square) {
	rank := 0
	if c == Black {
		rank = 7
	}
	if kingSide {
		return square(4, rank), square(7, rank)
	}
	return square(4, rank), square(0, rank)
}

// castlingMoves adds castling candidates when the rights allow it and every
// square between king and rook is empty. Check safety of the king's path is
// left to the legality filter.
func (p *Position) castlingMoves(moves []Move, from Square, us Color) []Move {
	for _, kingSide := range [2]bool{true, false} {
		if !p.CastlingRights.CanCastle(us, kingSide) {
			continue
		}
		kingSq, rookSq := castleSquares(us, kingSide)
		if from != kingSq || p.Board.PieceAt(rookSq) != NewPiece(Rook, us) {
			continue
		}

		step := 1
		if !kingSide {
			step = -1
		}
		pathEmpty := true
		for sq, _ := kingSq.offset(step, 0); sq != rookSq; sq, _ = sq.offset(step, 0) {
			if !p.Board.IsEmpty(sq) {
				pathEmpty = false
				break
			}
		}
		if !pathEmpty {
			continue
		}

		to, _ := kingSq.offset(2*step, 0)
		moves = append(moves, Move{From: kingSq, To: to, Promotion: NoPieceType, Castle: true})
	}
	return moves
}
