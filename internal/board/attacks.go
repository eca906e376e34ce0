package board

// Offsets for the leaping pieces and ray directions for the sliders, as
// (file, rank) deltas.
var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

	rookDirections   = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	bishopDirections = [4][2]int{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
)

// IsSquareAttacked returns true if any piece of color by attacks sq.
// It scans outwards from sq, so it does not depend on whose turn it is and
// ignores pins.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.Board.isAttacked(sq, by)
}

// AttackersOf returns the squares of by's pieces that attack sq.
func (p *Position) AttackersOf(sq Square, by Color) []Square {
	mustBeValid(sq)
	b := &p.Board
	var attackers []Square

	for _, off := range knightOffsets {
		if from, ok := sq.offset(off[0], off[1]); ok && b.squares[from] == NewPiece(Knight, by) {
			attackers = append(attackers, from)
		}
	}
	for _, off := range kingOffsets {
		if from, ok := sq.offset(off[0], off[1]); ok && b.squares[from] == NewPiece(King, by) {
			attackers = append(attackers, from)
		}
	}
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.offset(df, -by.pawnDirection()); ok && b.squares[from] == NewPiece(Pawn, by) {
			attackers = append(attackers, from)
		}
	}
	for _, dir := range rookDirections {
		if from, ok := b.firstOnRay(sq, dir); ok {
			if pc := b.squares[from]; pc == NewPiece(Rook, by) || pc == NewPiece(Queen, by) {
				attackers = append(attackers, from)
			}
		}
	}
	for _, dir := range bishopDirections {
		if from, ok := b.firstOnRay(sq, dir); ok {
			if pc := b.squares[from]; pc == NewPiece(Bishop, by) || pc == NewPiece(Queen, by) {
				attackers = append(attackers, from)
			}
		}
	}
	return attackers
}

func (b *Board) isAttacked(sq Square, by Color) bool {
	mustBeValid(sq)

	knight := NewPiece(Knight, by)
	for _, off := range knightOffsets {
		if from, ok := sq.offset(off[0], off[1]); ok && b.squares[from] == knight {
			return true
		}
	}

	king := NewPiece(King, by)
	for _, off := range kingOffsets {
		if from, ok := sq.offset(off[0], off[1]); ok && b.squares[from] == king {
			return true
		}
	}

	// A pawn attacks diagonally forward, so look one rank behind sq from
	// the attacker's point of view.
	pawn := NewPiece(Pawn, by)
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.offset(df, -by.pawnDirection()); ok && b.squares[from] == pawn {
			return true
		}
	}

	queen := NewPiece(Queen, by)
	rook := NewPiece(Rook, by)
	for _, dir := range rookDirections {
		if from, ok := b.firstOnRay(sq, dir); ok {
			if pc := b.squares[from]; pc == rook || pc == queen {
				return true
			}
		}
	}

	bishop := NewPiece(Bishop, by)
	for _, dir := range bishopDirections {
		if from, ok := b.firstOnRay(sq, dir); ok {
			if pc := b.squares[from]; pc == bishop || pc == queen {
				return true
			}
		}
	}

	return false
}

// firstOnRay walks from sq in direction dir and returns the first occupied
// square, or false if the ray reaches the edge first.
func (b *Board) firstOnRay(sq Square, dir [2]int) (Square, bool) {
	cur := sq
	for {
		next, ok := cur.offset(dir[0], dir[1])
		if !ok {
			return NoSquare, false
		}
		if b.squares[next] != NoPiece {
			return next, true
		}
		cur = next
	}
}
