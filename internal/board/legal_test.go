package board

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func destinations(moves []Move) []string {
	var out []string
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func mustParseFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestPawnMovesFromStart(t *testing.T) {
	pos := NewPosition()

	got := destinations(pos.LegalMovesFrom(E2))
	want := []string{"e2e3", "e2e4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LegalMovesFrom(e2) mismatch (-want +got):\n%s", diff)
	}

	if moves := pos.LegalMovesFrom(E7); len(moves) != 0 {
		t.Errorf("black pawn has moves on white's turn: %v", moves)
	}
	if moves := pos.PseudoLegalMoves(E4); moves != nil {
		t.Errorf("empty square generated moves: %v", moves)
	}
}

func TestEnPassantTarget(t *testing.T) {
	pos := NewPosition()

	m, err := ParseMove("e2e4", pos)
	if err != nil {
		t.Fatal(err)
	}
	pos.MakeMove(m)
	if pos.EnPassant != E3 {
		t.Fatalf("EnPassant = %s, want e3", pos.EnPassant)
	}

	m, err = ParseMove("g8f6", pos)
	if err != nil {
		t.Fatal(err)
	}
	pos.MakeMove(m)
	if pos.EnPassant != NoSquare {
		t.Errorf("EnPassant = %s after a reply, want none", pos.EnPassant)
	}
}

func TestEnPassantCapture(t *testing.T) {
	pos := mustParseFEN(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")

	m, ok := pos.FindLegal(E5, F6, NoPieceType)
	if !ok {
		t.Fatal("e5xf6 en passant not legal")
	}
	if !m.EnPassant || !m.Capture {
		t.Errorf("flags = %+v, want en passant capture", m)
	}
	// d6 was the target one move ago and is gone now.
	if pos.IsLegal(NewMove(E5, D6)) {
		t.Error("stale en passant e5xd6 accepted")
	}

	captured := pos.MakeMove(m)
	if captured != BlackPawn {
		t.Errorf("captured %q, want black pawn", captured)
	}
	if !pos.IsEmpty(F5) || pos.PieceAt(F6) != WhitePawn {
		t.Errorf("board after en passant:\n%s", pos)
	}
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		legal bool
	}{
		{"clear path", "4k3/8/8/8/8/8/8/4K2R w K - 0 1", true},
		{"f1 occupied", "4k3/8/8/8/8/8/8/4KB1R w K - 0 1", false},
		{"g1 occupied", "4k3/8/8/8/8/8/8/4K1NR w K - 0 1", false},
		{"no right", "4k3/8/8/8/8/8/8/4K2R w - - 0 1", false},
		{"in check", "4k3/8/8/8/8/8/4r3/4K2R w K - 0 1", false},
		{"f1 attacked", "4k3/8/8/8/8/8/5r2/4K2R w K - 0 1", false},
		{"g1 attacked", "4k3/8/8/8/8/8/6r1/4K2R w K - 0 1", false},
		{"rook attacked only", "4k3/8/8/8/8/8/7r/4K2R w K - 0 1", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParseFEN(t, tc.fen)
			if got := pos.IsLegal(NewMove(E1, G1)); got != tc.legal {
				t.Errorf("IsLegal(e1g1) = %v, want %v", got, tc.legal)
			}
		})
	}
}

func TestCastlingMovesRookAndClearsRights(t *testing.T) {
	pos := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")

	m, ok := pos.FindLegal(E8, C8, NoPieceType)
	if !ok || !m.Castle {
		t.Fatalf("queen-side castling not found: %+v", m)
	}
	pos.MakeMove(m)

	if pos.PieceAt(C8) != BlackKing || pos.PieceAt(D8) != BlackRook || !pos.IsEmpty(A8) {
		t.Errorf("board after O-O-O:\n%s", pos)
	}
	if pos.CastlingRights != WhiteKingSideCastle|WhiteQueenSideCastle {
		t.Errorf("CastlingRights = %s, want KQ", pos.CastlingRights)
	}

	// Capturing a rook on its corner removes the matching right.
	pos = mustParseFEN(t, "4k2r/8/8/8/8/8/8/4K2R w Kk - 0 1")
	pos.MakeMove(Move{From: H1, To: H8, Promotion: NoPieceType, Capture: true})
	if pos.CastlingRights != NoCastling {
		t.Errorf("CastlingRights = %s, want -", pos.CastlingRights)
	}
}

func TestPromotionMoves(t *testing.T) {
	pos := mustParseFEN(t, "4k3/1P6/8/8/8/8/8/4K3 w - - 0 1")

	got := destinations(pos.LegalMovesFrom(B7))
	want := []string{"b7b8b", "b7b8n", "b7b8q", "b7b8r"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("promotions mismatch (-want +got):\n%s", diff)
	}

	if pos.IsLegal(NewMove(B7, B8)) {
		t.Error("promotion without a piece kind accepted")
	}

	m, _ := pos.FindLegal(B7, B8, Knight)
	pos.MakeMove(m)
	if pos.PieceAt(B8) != WhiteKnight {
		t.Errorf("PieceAt(b8) = %q, want N", pos.PieceAt(B8))
	}
}

func TestPinnedPieceCannotMove(t *testing.T) {
	// The e2 knight is pinned by the rook on e8.
	pos := mustParseFEN(t, "k3r3/8/8/8/8/8/4N3/4K3 w - - 0 1")
	if moves := pos.LegalMovesFrom(E2); len(moves) != 0 {
		t.Errorf("pinned knight has moves: %v", destinations(moves))
	}
}

func TestLegalMovesForOtherSide(t *testing.T) {
	pos := NewPosition()
	if got := len(pos.LegalMovesFor(Black)); got != 20 {
		t.Errorf("LegalMovesFor(Black) = %d moves, want 20", got)
	}
	if pos.SideToMove != White {
		t.Error("LegalMovesFor changed the side to move")
	}
}

// TestNoMoveLeavesKingInCheck plays deterministic pseudo-random games and
// checks every generated move against the king safety invariant.
func TestNoMoveLeavesKingInCheck(t *testing.T) {
	seed := uint64(0x5EED)
	next := func(n int) int {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		return int(seed % uint64(n))
	}

	for game := 0; game < 20; game++ {
		pos := NewPosition()
		for ply := 0; ply < 120; ply++ {
			moves := pos.LegalMoves()
			if len(moves) == 0 {
				break
			}
			for _, m := range moves {
				after := *pos
				after.MakeMove(m)
				if after.IsKingAttacked(pos.SideToMove) {
					t.Fatalf("move %s leaves the king in check in %s", m, pos.ToFEN())
				}
			}
			pos.MakeMove(moves[next(len(moves))])

			if _, err := ParseFEN(pos.ToFEN()); err != nil {
				t.Fatalf("reached position does not reparse: %v", err)
			}
		}
	}
}

func TestSquares(t *testing.T) {
	sq, err := ParseSquare("e4")
	if err != nil || sq != E4 {
		t.Errorf("ParseSquare(e4) = %v, %v", sq, err)
	}
	if E4.File() != 4 || E4.Rank() != 3 || E4.String() != "e4" {
		t.Errorf("E4 = file %d rank %d %q", E4.File(), E4.Rank(), E4.String())
	}

	for _, s := range []string{"", "e", "i1", "a9", "a0", "E4", "e44"} {
		if _, err := ParseSquare(s); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) error = %v, want ErrInvalidSquare", s, err)
		}
	}
	if _, err := NewSquare(8, 0); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("NewSquare(8, 0) error = %v", err)
	}
}

func TestBoardPanicsOnInvalidSquare(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("recovered %v, want ErrInvalidSquare", r)
		}
	}()
	b := NewBoard()
	b.PieceAt(NoSquare)
}

func TestBoardMutation(t *testing.T) {
	b := NewBoard()
	b.Place(E4, WhiteQueen)
	b.Place(E5, BlackPawn)

	if captured := b.Move(E4, E5); captured != BlackPawn {
		t.Errorf("Move returned %q, want black pawn", captured)
	}
	if b.PieceAt(E5) != WhiteQueen || !b.IsEmpty(E4) {
		t.Errorf("unexpected board:\n%s", b.String())
	}
	if diff := cmp.Diff([]Square{E5}, b.SquaresOccupiedBy(White)); diff != "" {
		t.Errorf("SquaresOccupiedBy mismatch (-want +got):\n%s", diff)
	}
	if removed := b.Remove(E5); removed != WhiteQueen {
		t.Errorf("Remove returned %q", removed)
	}
	if b.SquaresOccupiedBy(White) != nil {
		t.Error("board not empty after Remove")
	}
}
