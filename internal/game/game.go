// Package game holds the game state machine: it owns a position, commits
// moves atomically, keeps the history and decides when the game is over.
//
// A Game is not safe for concurrent use. Callers that share one between
// goroutines must serialize access themselves.
package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hailam/chessplay/internal/board"
)

// Game is a single game from its start position to its current one.
type Game struct {
	start      board.Position
	position   board.Position
	history    []board.Move
	sanHistory []string
	hashes     []uint64 // hashes[i] is the position before history[i]; the last entry is the current one
	status     Status
}

// New returns a game at the standard starting arrangement with white to move.
func New() *Game {
	return newGame(board.NewPosition())
}

// FromPosition resumes a game from a FEN record. The history of the
// resumed game starts empty.
func FromPosition(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return newGame(pos), nil
}

// Replay rebuilds a game by playing coordinate moves ("e2e4", "e7e8q") from
// startFEN. An empty startFEN means the standard starting arrangement.
func Replay(startFEN string, moves []string) (*Game, error) {
	if startFEN == "" {
		startFEN = board.StartFEN
	}
	g, err := FromPosition(startFEN)
	if err != nil {
		return nil, err
	}
	for i, s := range moves {
		if _, err := g.PlayMove(s); err != nil {
			return nil, fmt.Errorf("replay move %d (%s): %w", i+1, s, err)
		}
	}
	return g, nil
}

func newGame(pos *board.Position) *Game {
	g := &Game{
		start:    *pos,
		position: *pos,
		hashes:   []uint64{pos.Hash()},
	}
	g.status = g.computeStatus()
	return g
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	cp := *g
	cp.history = append([]board.Move(nil), g.history...)
	cp.sanHistory = append([]string(nil), g.sanHistory...)
	cp.hashes = append([]uint64(nil), g.hashes...)
	return &cp
}

// AttemptMove plays the move from one square to another. promotion names
// the piece a pawn promotes to ("q", "rook", ...); when it is empty a
// promotion defaults to a queen. The game is unchanged when an error is
// returned.
//
// Malformed squares fail with board.ErrInvalidSquare, rule violations with
// ErrIllegalMove and moves after the end of the game with ErrGameOver.
func (g *Game) AttemptMove(from, to, promotion string) (board.Move, error) {
	fromSq, err := board.ParseSquare(from)
	if err != nil {
		return board.NoMove, err
	}
	toSq, err := board.ParseSquare(to)
	if err != nil {
		return board.NoMove, err
	}

	if g.status.IsTerminal() {
		return board.NoMove, fmt.Errorf("%w: %s", ErrGameOver, g.status)
	}

	desc := from + to + promotion
	promo := board.NoPieceType
	if promotion != "" {
		var ok bool
		if promo, ok = board.ParsePromotion(promotion); !ok {
			return board.NoMove, &MoveError{Move: desc, Reason: ReasonBadPromotion}
		}
	}

	m, err := g.findMove(fromSq, toSq, promo, desc)
	if err != nil {
		return board.NoMove, err
	}
	g.commit(m)
	return m, nil
}

// PlayMove plays a move in coordinate notation ("e2e4", "e7e8q").
func (g *Game) PlayMove(s string) (board.Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return board.NoMove, &MoveError{Move: s, Reason: ReasonMalformedNotation}
	}
	return g.AttemptMove(s[0:2], s[2:4], s[4:])
}

// PlaySAN plays a move in Standard Algebraic Notation ("Nf3", "exd5", "O-O").
func (g *Game) PlaySAN(san string) (board.Move, error) {
	if g.status.IsTerminal() {
		return board.NoMove, fmt.Errorf("%w: %s", ErrGameOver, g.status)
	}
	m, err := board.ParseSAN(san, &g.position)
	if errors.Is(err, board.ErrInvalidSquare) {
		return board.NoMove, err
	}
	if err != nil {
		return board.NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	g.commit(m)
	return m, nil
}

// findMove resolves a request against the legal moves of the side to move,
// explaining the rejection when there is no match.
func (g *Game) findMove(from, to board.Square, promo board.PieceType, desc string) (board.Move, error) {
	pos := &g.position

	piece := pos.PieceAt(from)
	if piece == board.NoPiece {
		return board.NoMove, &MoveError{Move: desc, Reason: ReasonEmptySquare}
	}
	if piece.Color() != pos.SideToMove {
		return board.NoMove, &MoveError{Move: desc, Reason: ReasonNotYourTurn}
	}

	legal := pos.LegalMovesFrom(from)
	promotes := false
	for _, m := range legal {
		if m.To != to {
			continue
		}
		promotes = promotes || m.IsPromotion()
		if m.Promotion == promo {
			return m, nil
		}
	}
	if promotes && promo == board.NoPieceType {
		if m, ok := pos.FindLegal(from, to, board.Queen); ok {
			return m, nil
		}
	}
	if promotes || (promo != board.NoPieceType && g.reachable(legal, to)) {
		return board.NoMove, &MoveError{Move: desc, Reason: ReasonBadPromotion}
	}

	if dest := pos.PieceAt(to); dest != board.NoPiece && dest.Color() == piece.Color() {
		return board.NoMove, &MoveError{Move: desc, Reason: ReasonBlockedByOwnPiece}
	}
	for _, m := range pos.PseudoLegalMoves(from) {
		if m.To == to {
			return board.NoMove, &MoveError{Move: desc, Reason: ReasonWouldLeaveKingInCheck}
		}
	}
	return board.NoMove, &MoveError{Move: desc, Reason: ReasonInvalidPieceMovement}
}

func (g *Game) reachable(legal []board.Move, to board.Square) bool {
	for _, m := range legal {
		if m.To == to {
			return true
		}
	}
	return false
}

// commit applies a legal move and recomputes the status.
func (g *Game) commit(m board.Move) {
	g.sanHistory = append(g.sanHistory, m.ToSAN(&g.position))
	g.position.MakeMove(m)
	g.history = append(g.history, m)
	g.hashes = append(g.hashes, g.position.Hash())
	g.status = g.computeStatus()
}

// computeStatus derives the status of the current position.
func (g *Game) computeStatus() Status {
	pos := &g.position
	us := pos.SideToMove
	inCheck := pos.InCheck()

	if !pos.HasLegalMoves() {
		if inCheck {
			return Status{Kind: Checkmate, Color: us}
		}
		return Status{Kind: Stalemate, Color: board.NoColor}
	}
	if pos.HalfMoveClock >= 100 {
		return Status{Kind: Draw, Color: board.NoColor, Reason: FiftyMove}
	}
	if g.isThreefoldRepetition() {
		return Status{Kind: Draw, Color: board.NoColor, Reason: Repetition}
	}
	if pos.IsInsufficientMaterial() {
		return Status{Kind: Draw, Color: board.NoColor, Reason: InsufficientMaterial}
	}
	if inCheck {
		return Status{Kind: Check, Color: us}
	}
	return Status{Kind: Active, Color: board.NoColor}
}

// isThreefoldRepetition checks if the current position has occurred 3 times.
func (g *Game) isThreefoldRepetition() bool {
	current := g.hashes[len(g.hashes)-1]
	count := 0
	for _, h := range g.hashes {
		if h == current {
			count++
		}
	}
	return count >= 3
}

// Resign ends the game with c resigning.
func (g *Game) Resign(c board.Color) error {
	if c != board.White && c != board.Black {
		return fmt.Errorf("invalid color %v", c)
	}
	if g.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrGameOver, g.status)
	}
	g.status = Status{Kind: Terminated, Color: c}
	return nil
}

// LegalMoves returns the destination squares of the piece on from, for
// highlighting. Pieces of the side not to move, empty squares and finished
// games yield none.
func (g *Game) LegalMoves(from string) ([]string, error) {
	sq, err := board.ParseSquare(from)
	if err != nil {
		return nil, err
	}
	if g.status.IsTerminal() {
		return nil, nil
	}

	var dests []string
	seen := make(map[board.Square]bool)
	for _, m := range g.position.LegalMovesFrom(sq) {
		if !seen[m.To] {
			seen[m.To] = true
			dests = append(dests, m.To.String())
		}
	}
	return dests, nil
}

// LegalMovesFor returns every legal move c could make in the current
// position. A finished game has none.
func (g *Game) LegalMovesFor(c board.Color) []board.Move {
	if g.status.IsTerminal() {
		return nil
	}
	return g.position.LegalMovesFor(c)
}

// PieceAt returns the piece on the named square.
func (g *Game) PieceAt(sq string) (board.Piece, error) {
	s, err := board.ParseSquare(sq)
	if err != nil {
		return board.NoPiece, err
	}
	return g.position.PieceAt(s), nil
}

// Status returns the current status.
func (g *Game) Status() Status { return g.status }

// Turn returns the side to move.
func (g *Game) Turn() board.Color { return g.position.SideToMove }

// Position returns a copy of the current position.
func (g *Game) Position() board.Position { return g.position }

// Serialize returns the FEN record of the current position.
func (g *Game) Serialize() string { return g.position.ToFEN() }

// StartFEN returns the FEN record the game started from.
func (g *Game) StartFEN() string { return g.start.ToFEN() }

// History returns the moves played so far.
func (g *Game) History() []board.Move {
	return append([]board.Move(nil), g.history...)
}

// SANHistory returns the moves played so far in SAN.
func (g *Game) SANHistory() []string {
	return append([]string(nil), g.sanHistory...)
}

// MoveStrings returns the moves played so far in coordinate notation, the
// form Replay accepts.
func (g *Game) MoveStrings() []string {
	moves := make([]string, len(g.history))
	for i, m := range g.history {
		moves[i] = m.String()
	}
	return moves
}

// PGNMoves renders the history as numbered SAN move text followed by the result.
func (g *Game) PGNMoves() string {
	var sb strings.Builder
	number := g.start.FullMoveNumber
	black := g.start.SideToMove == board.Black

	for i, san := range g.sanHistory {
		switch {
		case !black:
			fmt.Fprintf(&sb, "%d. ", number)
		case i == 0:
			fmt.Fprintf(&sb, "%d... ", number)
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
		if black {
			number++
		}
		black = !black
	}
	sb.WriteString(g.status.Result())
	return sb.String()
}
