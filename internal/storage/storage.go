package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyGamePrefix  = "game/"
)

// ErrGameNotFound is returned when no game is stored under an ID.
var ErrGameNotFound = errors.New("game not found")

// GameRecord is the persisted form of one game. The game is rebuilt by
// replaying Moves from StartFEN; FEN and Status are kept for listings.
type GameRecord struct {
	ID        string    `json:"id"`
	StartFEN  string    `json:"start_fen"`
	Moves     []string  `json:"moves"`
	FEN       string    `json:"fen"`
	Status    string    `json:"status"`
	Color     string    `json:"color,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preferences stores settings for the console client.
type Preferences struct {
	Username   string    `json:"username"`
	Unicode    bool      `json:"unicode"`
	Flipped    bool      `json:"flipped"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Username: "Player",
		Unicode:  false,
		Flipped:  false,
	}
}

// GameStats stores totals over finished games.
type GameStats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	ByReason    map[string]int `json:"by_reason"`
	TotalPlies  int            `json:"total_plies"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		ByReason: make(map[string]int),
	}
}

// GameResult describes a finished game for the statistics.
type GameResult struct {
	Result string // "1-0", "0-1" or "1/2-1/2"
	Reason string // checkmate, stalemate, resignation, repetition, ...
	Plies  int
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB

	statsMu sync.Mutex // serializes read-modify-write of the stats key
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value under key into v and reports whether it existed.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SaveGame stores rec under its ID, replacing any earlier version.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == "" {
		return errors.New("game record without id")
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	return s.put(keyGamePrefix+rec.ID, rec)
}

// LoadGame returns the game stored under id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	rec := &GameRecord{}
	found, err := s.get(keyGamePrefix+id, rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return rec, nil
}

// ListGames returns every stored game, most recently updated first.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var records []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyGamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}

// DeleteGame removes the game stored under id.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(keyGamePrefix + id)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now().UTC()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	_, err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return nil, err
	}
	if stats.ByReason == nil {
		stats.ByReason = make(map[string]int)
	}
	return stats, nil
}

// RecordResult records a finished game and updates statistics
func (s *Storage) RecordResult(result GameResult) error {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlies += result.Plies
	switch result.Result {
	case "1-0":
		stats.WhiteWins++
	case "0-1":
		stats.BlackWins++
	case "1/2-1/2":
		stats.Draws++
	default:
		return fmt.Errorf("cannot record unfinished result %q", result.Result)
	}
	if result.Reason != "" {
		stats.ByReason[result.Reason]++
	}

	return s.SaveStats(stats)
}

// GetDrawRate returns the share of drawn games as a percentage (0-100)
func (s *GameStats) GetDrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}
