// Package console implements a line-oriented text front end for playing
// games. Commands are read one per line; anything that is not a command
// is tried as a move in coordinate notation or SAN.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/game"
	"github.com/hailam/chessplay/internal/session"
	"github.com/hailam/chessplay/internal/storage"
)

const maxPerftDepth = 6

// Store is the persistence the console needs. *storage.Storage implements it.
type Store interface {
	SaveGame(rec *storage.GameRecord) error
	LoadGame(id string) (*storage.GameRecord, error)
	ListGames() ([]*storage.GameRecord, error)
	RecordResult(result storage.GameResult) error
	LoadStats() (*storage.GameStats, error)
	LoadPreferences() (*storage.Preferences, error)
	SavePreferences(prefs *storage.Preferences) error
}

// Console runs the command loop over a reader and a writer.
type Console struct {
	in    io.Reader
	out   io.Writer
	store Store
	prefs *storage.Preferences

	game      *game.Game
	gameID    string // empty until the game is first saved
	createdAt time.Time
	recorded  bool // result already counted in the statistics
}

// New creates a console with a fresh game. Preferences are loaded from store.
func New(in io.Reader, out io.Writer, store Store) (*Console, error) {
	prefs, err := store.LoadPreferences()
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	c := &Console{in: in, out: out, store: store, prefs: prefs}
	c.reset(game.New())
	return c, nil
}

// SetUnicode switches the diagram between letters and chess glyphs.
func (c *Console) SetUnicode(on bool) { c.prefs.Unicode = on }

// Game returns the game being played.
func (c *Console) Game() *game.Game { return c.game }

// Run reads commands until quit or the end of input.
func (c *Console) Run() error {
	scanner := bufio.NewScanner(c.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "quit", "exit":
			return c.savePreferences()
		case "help":
			c.handleHelp()
		case "new":
			c.reset(game.New())
			c.println("new game")
		case "fen":
			c.println(c.game.Serialize())
		case "load":
			c.handleLoad(args)
		case "move":
			c.handleMove(args)
		case "moves":
			c.handleMoves(args)
		case "status":
			c.println(c.game.Status())
		case "d":
			c.print(diagram(c.game.Position(), c.prefs.Unicode, c.prefs.Flipped))
		case "flip":
			c.prefs.Flipped = !c.prefs.Flipped
			c.print(diagram(c.game.Position(), c.prefs.Unicode, c.prefs.Flipped))
		case "unicode":
			c.handleUnicode(args)
		case "name":
			c.handleName(args)
		case "history":
			c.println(c.game.PGNMoves())
		case "perft":
			c.handlePerft(args)
		case "resign":
			c.handleResign()
		case "save":
			c.handleSave()
		case "open":
			c.handleOpen(args)
		case "games":
			c.handleGames()
		case "stats":
			c.handleStats()
		default:
			c.playToken(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return c.savePreferences()
}

func (c *Console) reset(g *game.Game) {
	c.game = g
	c.gameID = ""
	c.createdAt = time.Now().UTC()
	c.recorded = g.Status().IsTerminal()
}

func (c *Console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) print(s string) {
	fmt.Fprint(c.out, s)
}

func (c *Console) printError(err error) {
	fmt.Fprintf(c.out, "error: %v\n", err)
}

func (c *Console) handleHelp() {
	c.println(`commands:
  new                      start a new game
  load <fen>               start from a FEN record
  fen                      print the current FEN record
  move <from> <to> [promo] play a move (or type e2e4, e7e8q, Nf3, O-O)
  moves [square]           list legal moves, or destinations from a square
  status                   show the game status
  d | flip                 draw the board, flip the board
  unicode on|off           draw pieces with chess glyphs
  name <username>          set the player name
  history                  print the moves played
  perft <depth>            count move tree leaves
  resign                   resign for the side to move
  save | open <id> | games store, restore and list games
  stats                    show totals over finished games
  quit`)
}

// Load replaces the current game with one starting from fen.
func (c *Console) Load(fen string) error {
	g, err := game.FromPosition(fen)
	if err != nil {
		return err
	}
	c.reset(g)
	return nil
}

func (c *Console) handleLoad(args []string) {
	if len(args) == 0 {
		c.printError(errors.New("load needs a FEN record"))
		return
	}
	if err := c.Load(strings.Join(args, " ")); err != nil {
		c.printError(err)
		return
	}
	c.println("position loaded:", c.game.Status())
}

func (c *Console) handleMove(args []string) {
	if len(args) < 2 || len(args) > 3 {
		c.printError(errors.New("usage: move <from> <to> [promotion]"))
		return
	}
	promo := ""
	if len(args) == 3 {
		promo = args[2]
	}

	before := c.game.Position()
	m, err := c.game.AttemptMove(args[0], args[1], promo)
	c.afterMove(before, m, err)
}

// playToken treats an unknown command as a move: coordinate notation when
// it names two squares, SAN otherwise.
func (c *Console) playToken(tok string) {
	before := c.game.Position()
	var (
		m   board.Move
		err error
	)
	if isCoordinateMove(tok) {
		m, err = c.game.PlayMove(tok)
	} else {
		m, err = c.game.PlaySAN(tok)
	}
	c.afterMove(before, m, err)
}

func isCoordinateMove(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	if _, err := board.ParseSquare(s[0:2]); err != nil {
		return false
	}
	_, err := board.ParseSquare(s[2:4])
	return err == nil
}

func (c *Console) afterMove(before board.Position, m board.Move, err error) {
	if err != nil {
		c.printError(err)
		return
	}
	c.println("played", m.ToSAN(&before))

	st := c.game.Status()
	if st.Kind != game.Active {
		c.println(st)
	}
	c.recordResult()
}

// recordResult counts a newly finished game in the statistics.
func (c *Console) recordResult() {
	if c.recorded || !c.game.Status().IsTerminal() {
		return
	}
	c.recorded = true
	if err := c.store.RecordResult(session.ResultOf(c.game)); err != nil {
		c.printError(err)
		return
	}
	c.println("result:", c.game.Status().Result())
}

func (c *Console) handleMoves(args []string) {
	if len(args) > 0 {
		dests, err := c.game.LegalMoves(args[0])
		if err != nil {
			c.printError(err)
			return
		}
		if len(dests) == 0 {
			c.println("no legal moves")
			return
		}
		sort.Strings(dests)
		c.println(strings.Join(dests, " "))
		return
	}

	pos := c.game.Position()
	moves := c.game.LegalMovesFor(pos.SideToMove)
	if len(moves) == 0 {
		c.println("no legal moves")
		return
	}
	san := make([]string, len(moves))
	for i, m := range moves {
		san[i] = m.ToSAN(&pos)
	}
	sort.Strings(san)
	c.println(strings.Join(san, " "))
}

func (c *Console) handleUnicode(args []string) {
	if len(args) != 1 {
		c.printError(errors.New("usage: unicode on|off"))
		return
	}
	switch args[0] {
	case "on":
		c.prefs.Unicode = true
	case "off":
		c.prefs.Unicode = false
	default:
		c.printError(fmt.Errorf("unicode: unknown setting %q", args[0]))
		return
	}
	c.print(diagram(c.game.Position(), c.prefs.Unicode, c.prefs.Flipped))
}

func (c *Console) handleName(args []string) {
	if len(args) == 0 {
		c.println(c.prefs.Username)
		return
	}
	c.prefs.Username = strings.Join(args, " ")
	if err := c.savePreferences(); err != nil {
		c.printError(err)
		return
	}
	c.println("hello,", c.prefs.Username)
}

// handlePerft runs a perft test on the current position.
func (c *Console) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 || d > maxPerftDepth {
			c.printError(fmt.Errorf("perft depth must be 1-%d", maxPerftDepth))
			return
		}
		depth = d
	}

	pos := c.game.Position()
	start := time.Now()
	nodes := board.Perft(&pos, depth)
	elapsed := time.Since(start)

	fmt.Fprintf(c.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(c.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(c.out, "NPS: %.0f\n", nps)
	}
}

func (c *Console) handleResign() {
	if err := c.game.Resign(c.game.Turn()); err != nil {
		c.printError(err)
		return
	}
	c.println(c.game.Status())
	c.recordResult()
}

func (c *Console) handleSave() {
	if c.gameID == "" {
		c.gameID = uuid.NewString()
	}
	rec := session.NewRecord(c.gameID, c.game, c.createdAt)
	if err := c.store.SaveGame(rec); err != nil {
		c.printError(err)
		return
	}
	c.createdAt = rec.CreatedAt
	c.println("saved", c.gameID)
}

func (c *Console) handleOpen(args []string) {
	if len(args) != 1 {
		c.printError(errors.New("usage: open <id>"))
		return
	}
	rec, err := c.store.LoadGame(args[0])
	if err != nil {
		c.printError(err)
		return
	}
	g, err := session.Restore(rec)
	if err != nil {
		c.printError(err)
		return
	}
	c.reset(g)
	c.gameID = rec.ID
	c.createdAt = rec.CreatedAt
	c.println("opened", rec.ID+":", g.Status())
}

func (c *Console) handleGames() {
	records, err := c.store.ListGames()
	if err != nil {
		c.printError(err)
		return
	}
	if len(records) == 0 {
		c.println("no saved games")
		return
	}
	for _, rec := range records {
		fmt.Fprintf(c.out, "%s  %-10s %-7s %3d plies  %s\n",
			rec.ID, rec.Status, rec.Result, len(rec.Moves), rec.UpdatedAt.Format(time.DateTime))
	}
}

func (c *Console) handleStats() {
	stats, err := c.store.LoadStats()
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.out, "Games: %d  White: %d  Black: %d  Draws: %d (%.0f%%)\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.GetDrawRate())

	reasons := make([]string, 0, len(stats.ByReason))
	for r := range stats.ByReason {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(c.out, "  %s: %d\n", r, stats.ByReason[r])
	}
}

func (c *Console) savePreferences() error {
	if err := c.store.SavePreferences(c.prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
