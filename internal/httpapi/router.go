// Package httpapi exposes game sessions over HTTP with gin.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/game"
	"github.com/hailam/chessplay/internal/session"
	"github.com/hailam/chessplay/internal/storage"
)

// GameService is the subset of *session.Manager the handlers use.
type GameService interface {
	Create(fen string) (*session.Snapshot, error)
	Get(id string) (*session.Snapshot, error)
	Move(id, from, to, promotion string) (*session.Snapshot, error)
	LegalMoves(id, from string) ([]string, error)
	Resign(id, color string) (*session.Snapshot, error)
	Delete(id string) error
	List() ([]*storage.GameRecord, error)
	Stats() (*storage.GameStats, error)
}

// NewRouter creates the gin engine and registers the routes.
func NewRouter(svc GameService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	v1 := r.Group("/v1")
	{
		v1.POST("/games", createGameHandler(svc))
		v1.GET("/games", listGamesHandler(svc))
		v1.GET("/games/:id", getGameHandler(svc))
		v1.DELETE("/games/:id", deleteGameHandler(svc))
		v1.GET("/games/:id/moves", legalMovesHandler(svc))
		v1.POST("/games/:id/moves", moveHandler(svc))
		v1.POST("/games/:id/resign", resignHandler(svc))
		v1.GET("/stats", statsHandler(svc))
	}

	return r
}

func createGameHandler(svc GameService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGameRequest
		// An empty body starts from the standard arrangement.
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				writeError(c, http.StatusBadRequest, "malformed request body", err)
				return
			}
		}

		snap, err := svc.Create(req.FEN)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, snap)
	}
}

func listGamesHandler(svc GameService) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := svc.List()
		if err != nil {
			handleServiceError(c, err)
			return
		}

		response := make([]gameSummary, len(records))
		for i, rec := range records {
			response[i] = newGameSummary(rec)
		}
		c.JSON(http.StatusOK, response)
	}
}

func getGameHandler(svc GameService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Get(c.Param("id"))
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func deleteGameHandler(svc GameService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Param("id")); err != nil {
			handleServiceError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func legalMovesHandler(svc GameService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from := c.Query("from")
		if from == "" {
			writeError(c, http.StatusBadRequest, "query parameter from is required", errors.New("missing from"))
			return
		}

		dests, err := svc.LegalMoves(c.Param("id"), from)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		if dests == nil {
			dests = []string{}
		}
		c.JSON(http.StatusOK, legalMovesResponse{From: from, To: dests})
	}
}

func moveHandler(svc GameService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req moveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "malformed request body", err)
			return
		}

		snap, err := svc.Move(c.Param("id"), req.From, req.To, req.Promotion)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func resignHandler(svc GameService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "malformed request body", err)
			return
		}

		snap, err := svc.Resign(c.Param("id"), req.Color)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func statsHandler(svc GameService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats()
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// handleServiceError maps engine and session errors to HTTP statuses.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(c, http.StatusNotFound, "game not found", err)
	case errors.Is(err, game.ErrIllegalMove):
		writeError(c, http.StatusUnprocessableEntity, "illegal move", err)
	case errors.Is(err, game.ErrGameOver):
		writeError(c, http.StatusConflict, "game is over", err)
	case errors.Is(err, board.ErrInvalidSquare):
		writeError(c, http.StatusBadRequest, "invalid square", err)
	case errors.Is(err, board.ErrMalformedRecord):
		writeError(c, http.StatusBadRequest, "malformed position", err)
	case errors.Is(err, session.ErrInvalidColor):
		writeError(c, http.StatusBadRequest, "invalid color", err)
	default:
		writeError(c, http.StatusInternalServerError, "internal error", err)
	}
}

// writeError builds the common error response body.
func writeError(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
