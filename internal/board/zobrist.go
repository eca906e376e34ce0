package board

// Zobrist keys: one per piece on each square, one per castling combination,
// one per en passant file and one for black to move.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristCastling   [16]uint64
	zobristEnPassant  [8]uint64
	zobristSideToMove uint64
)

// zobristSeed fixes the key tables, so a position hashes the same in every run.
const zobristSeed uint64 = 0x98F107A2BEEF1234

func init() {
	next := splitMix64(zobristSeed)

	for c := range zobristPiece {
		for pt := range zobristPiece[c] {
			for sq := range zobristPiece[c][pt] {
				zobristPiece[c][pt][sq] = next()
			}
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = next()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = next()
	}
	zobristSideToMove = next()
}

// splitMix64 returns a generator of the splitmix64 sequence starting at seed.
func splitMix64(seed uint64) func() uint64 {
	state := seed
	return func() uint64 {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
}

// Hash returns the Zobrist key of the position: pieces, side to move,
// castling rights and en passant file. Positions that repeat for the
// threefold rule share a key.
func (p *Position) Hash() uint64 {
	var h uint64
	for sq := A1; sq < NoSquare; sq++ {
		if piece := p.Board.squares[sq]; piece != NoPiece {
			h ^= zobristPiece[piece.Color()][piece.Type()][sq]
		}
	}
	if p.SideToMove == Black {
		h ^= zobristSideToMove
	}
	h ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		h ^= zobristEnPassant[p.EnPassant.File()]
	}
	return h
}
