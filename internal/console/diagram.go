package console

import (
	"fmt"
	"strings"

	"github.com/hailam/chessplay/internal/board"
)

// diagram renders the position with white at the bottom, or black when
// flipped.
func diagram(pos board.Position, unicode, flipped bool) string {
	var sb strings.Builder

	ranks := []int{7, 6, 5, 4, 3, 2, 1, 0}
	files := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if flipped {
		ranks, files = files, ranks
	}

	for _, rank := range ranks {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for _, file := range files {
			sq, _ := board.NewSquare(file, rank)
			piece := pos.PieceAt(sq)
			switch {
			case piece == board.NoPiece:
				sb.WriteString(" .")
			case unicode:
				sb.WriteString(" " + piece.Symbol())
			default:
				sb.WriteString(" " + piece.String())
			}
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("  ")
	for _, file := range files {
		sb.WriteString(" " + string(rune('a'+file)))
	}
	sb.WriteByte('\n')

	fmt.Fprintf(&sb, "%s to move", pos.SideToMove)
	if pos.InCheck() {
		sb.WriteString(" (check)")
	}
	sb.WriteByte('\n')
	return sb.String()
}
