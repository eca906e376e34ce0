package httpapi

import (
	"time"

	"github.com/hailam/chessplay/internal/storage"
)

// createGameRequest is the body of POST /v1/games.
type createGameRequest struct {
	FEN string `json:"fen"`
}

// moveRequest is the body of POST /v1/games/:id/moves.
type moveRequest struct {
	From      string `json:"from" binding:"required"`
	To        string `json:"to" binding:"required"`
	Promotion string `json:"promotion"`
}

// resignRequest is the body of POST /v1/games/:id/resign.
type resignRequest struct {
	Color string `json:"color" binding:"required"`
}

type legalMovesResponse struct {
	From string   `json:"from"`
	To   []string `json:"to"`
}

// gameSummary is one entry of GET /v1/games.
type gameSummary struct {
	ID        string    `json:"id"`
	FEN       string    `json:"fen"`
	Status    string    `json:"status"`
	Result    string    `json:"result"`
	Plies     int       `json:"plies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newGameSummary(rec *storage.GameRecord) gameSummary {
	return gameSummary{
		ID:        rec.ID,
		FEN:       rec.FEN,
		Status:    rec.Status,
		Result:    rec.Result,
		Plies:     len(rec.Moves),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
