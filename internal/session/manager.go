// Package session keeps concurrent games addressable by ID. Every game is
// owned by one session whose mutex serializes moves on it; finished and
// in-progress games are persisted through a Store.
package session

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/game"
	"github.com/hailam/chessplay/internal/storage"
)

// errors
var (
	ErrNotFound     = errors.New("session not found")
	ErrInvalidColor = errors.New("invalid color")
)

// Store is the persistence the manager needs. *storage.Storage implements it.
type Store interface {
	SaveGame(rec *storage.GameRecord) error
	LoadGame(id string) (*storage.GameRecord, error)
	ListGames() ([]*storage.GameRecord, error)
	DeleteGame(id string) error
	RecordResult(result storage.GameResult) error
	LoadStats() (*storage.GameStats, error)
}

type session struct {
	mu        sync.Mutex
	id        string
	game      *game.Game
	createdAt time.Time
	updatedAt time.Time
	deleted   bool
}

// Manager is a thread safe registry of game sessions.
type Manager struct {
	store Store

	mu       sync.RWMutex
	sessions map[string]*session
	deleting map[string]bool // ids whose stored record is being removed
}

// NewManager returns a manager persisting through store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[string]*session),
		deleting: make(map[string]bool),
	}
}

// Create starts a new game, from fen when it is not empty.
func (m *Manager) Create(fen string) (*Snapshot, error) {
	var (
		g   *game.Game
		err error
	)
	if fen == "" {
		g = game.New()
	} else if g, err = game.FromPosition(fen); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &session{id: uuid.NewString(), game: g, createdAt: now, updatedAt: now}
	if err := m.persist(s, g); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	log.Printf("[SESSION] created %s from %s", s.id, g.StartFEN())
	return newSnapshot(s.id, g, s.createdAt, s.updatedAt), nil
}

// Get returns the current state of a session.
func (m *Manager) Get(id string) (*Snapshot, error) {
	s, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return newSnapshot(s.id, s.game, s.createdAt, s.updatedAt), nil
}

// Move plays from→to in the session. The session is unchanged when the
// move is rejected or cannot be persisted.
func (m *Manager) Move(id, from, to, promotion string) (*Snapshot, error) {
	s, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	next := s.game.Clone()
	if _, err := next.AttemptMove(from, to, promotion); err != nil {
		return nil, err
	}
	if err := m.commit(s, next); err != nil {
		return nil, err
	}
	return newSnapshot(s.id, s.game, s.createdAt, s.updatedAt), nil
}

// LegalMoves returns the destinations of the piece on from.
func (m *Manager) LegalMoves(id, from string) ([]string, error) {
	s, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.game.LegalMoves(from)
}

// Resign ends the session's game with color resigning.
func (m *Manager) Resign(id, color string) (*Snapshot, error) {
	c, ok := board.ParseColor(color)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}

	s, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	next := s.game.Clone()
	if err := next.Resign(c); err != nil {
		return nil, err
	}
	if err := m.commit(s, next); err != nil {
		return nil, err
	}
	return newSnapshot(s.id, s.game, s.createdAt, s.updatedAt), nil
}

// Delete forgets a session and removes it from the store. While the record
// is being removed the id cannot be restored from the store.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.deleting[id] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.deleting, id)
		m.mu.Unlock()
	}()

	if ok {
		s.mu.Lock()
		s.deleted = true
		s.mu.Unlock()
	}

	if err := m.store.DeleteGame(id); err != nil {
		if errors.Is(err, storage.ErrGameNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	log.Printf("[SESSION] deleted %s", id)
	return nil
}

// List returns the stored games, most recently updated first.
func (m *Manager) List() ([]*storage.GameRecord, error) {
	return m.store.ListGames()
}

// Stats returns the totals over finished games.
func (m *Manager) Stats() (*storage.GameStats, error) {
	return m.store.LoadStats()
}

// commit persists next and makes it the session's game. A game that has
// just finished is counted in the statistics. Callers hold s.mu.
func (m *Manager) commit(s *session, next *game.Game) error {
	wasOver := s.game.Status().IsTerminal()
	if err := m.persist(s, next); err != nil {
		return err
	}
	s.game = next

	st := next.Status()
	if st.IsTerminal() && !wasOver {
		if err := m.store.RecordResult(ResultOf(next)); err != nil {
			log.Printf("[SESSION] %s: recording result: %v", s.id, err)
		}
		log.Printf("[SESSION] %s finished: %s", s.id, st)
	}
	return nil
}

// persist writes g as the stored record of s and bumps its update time.
func (m *Manager) persist(s *session, g *game.Game) error {
	rec := NewRecord(s.id, g, s.createdAt)
	if err := m.store.SaveGame(rec); err != nil {
		return fmt.Errorf("save game %s: %w", s.id, err)
	}
	s.updatedAt = rec.UpdatedAt
	return nil
}

// NewRecord returns the stored form of g.
func NewRecord(id string, g *game.Game, createdAt time.Time) *storage.GameRecord {
	st := g.Status()
	return &storage.GameRecord{
		ID:        id,
		StartFEN:  g.StartFEN(),
		Moves:     g.MoveStrings(),
		FEN:       g.Serialize(),
		Status:    st.Kind.String(),
		Color:     colorName(st.Color),
		Reason:    st.Reason.String(),
		Result:    st.Result(),
		CreatedAt: createdAt,
	}
}

// ResultOf describes a finished game for the statistics.
func ResultOf(g *game.Game) storage.GameResult {
	st := g.Status()
	return storage.GameResult{
		Result: st.Result(),
		Reason: terminationReason(st),
		Plies:  len(g.History()),
	}
}

// acquire returns the session for id with its mutex held.
func (m *Manager) acquire(id string) (*session, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.deleted {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// lookup returns the live session for id, loading it from the store when it
// is not in memory.
func (m *Manager) lookup(id string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have loaded it meanwhile.
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	if m.deleting[id] {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	rec, err := m.store.LoadGame(id)
	if err != nil {
		if errors.Is(err, storage.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	g, err := Restore(rec)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}

	s = &session{id: rec.ID, game: g, createdAt: rec.CreatedAt, updatedAt: rec.UpdatedAt}
	m.sessions[id] = s
	log.Printf("[SESSION] restored %s (%d moves)", id, len(rec.Moves))
	return s, nil
}

// Restore replays a stored record. Resignation is not a move, so it is
// reapplied from the stored status.
func Restore(rec *storage.GameRecord) (*game.Game, error) {
	g, err := game.Replay(rec.StartFEN, rec.Moves)
	if err != nil {
		return nil, err
	}
	if rec.Status == game.Terminated.String() {
		c, ok := board.ParseColor(rec.Color)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidColor, rec.Color)
		}
		if err := g.Resign(c); err != nil {
			return nil, err
		}
	}
	return g, nil
}
