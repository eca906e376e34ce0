package session

import (
	"time"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/game"
)

// Snapshot is a read-only view of a session handed to callers.
type Snapshot struct {
	ID        string    `json:"id"`
	FEN       string    `json:"fen"`
	StartFEN  string    `json:"start_fen"`
	Turn      string    `json:"turn"`
	Status    string    `json:"status"`
	Color     string    `json:"color,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Result    string    `json:"result"`
	Message   string    `json:"message"`
	Moves     []string  `json:"moves"`
	SAN       []string  `json:"san"`
	PGN       string    `json:"pgn"`
	LastMove  string    `json:"last_move,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func colorName(c board.Color) string {
	if c == board.NoColor {
		return ""
	}
	return c.String()
}

func newSnapshot(id string, g *game.Game, created, updated time.Time) *Snapshot {
	st := g.Status()
	snap := &Snapshot{
		ID:        id,
		FEN:       g.Serialize(),
		StartFEN:  g.StartFEN(),
		Turn:      g.Turn().String(),
		Status:    st.Kind.String(),
		Color:     colorName(st.Color),
		Reason:    st.Reason.String(),
		Result:    st.Result(),
		Message:   st.String(),
		Moves:     g.MoveStrings(),
		SAN:       g.SANHistory(),
		PGN:       g.PGNMoves(),
		CreatedAt: created,
		UpdatedAt: updated,
	}
	if n := len(snap.Moves); n > 0 {
		snap.LastMove = snap.Moves[n-1]
	}
	return snap
}

// terminationReason names how a finished game ended, for the statistics.
func terminationReason(st game.Status) string {
	switch st.Kind {
	case game.Checkmate, game.Stalemate:
		return st.Kind.String()
	case game.Terminated:
		return "resignation"
	case game.Draw:
		return st.Reason.String()
	}
	return ""
}
