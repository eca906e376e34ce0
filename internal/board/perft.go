package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It is the standard check of move generator correctness.
func Perft(p *Position, depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := p.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		child := *p
		child.MakeMove(m)
		nodes += Perft(&child, depth-1)
	}
	return nodes
}

// Divide returns the perft count below each legal move, keyed by the move
// in coordinate notation.
func Divide(p *Position, depth int) map[string]int64 {
	counts := make(map[string]int64)
	for _, m := range p.LegalMoves() {
		child := *p
		child.MakeMove(m)
		counts[m.String()] = Perft(&child, depth-1)
	}
	return counts
}
