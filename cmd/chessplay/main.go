// ChessPlay - play chess from the terminal
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/chessplay/internal/config"
	"github.com/hailam/chessplay/internal/console"
	"github.com/hailam/chessplay/internal/storage"
)

var (
	dataDir  = flag.String("data", "", "data directory (overrides CHESSPLAY_DATA_DIR)")
	inMemory = flag.Bool("memory", false, "do not keep games between runs")
	unicode  = flag.Bool("unicode", false, "draw pieces with chess glyphs")
	fen      = flag.String("fen", "", "start from this FEN record")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	cfg.InMemory = cfg.InMemory || *inMemory
	cfg.Unicode = cfg.Unicode || *unicode

	var store *storage.Storage
	if cfg.InMemory {
		store, err = storage.OpenInMemory()
	} else {
		var dir string
		if dir, err = storage.GetDatabaseDir(cfg.DataDir); err == nil {
			store, err = storage.Open(dir)
		}
	}
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	c, err := console.New(os.Stdin, os.Stdout, store)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Unicode {
		c.SetUnicode(true)
	}
	if *fen != "" {
		if err := c.Load(*fen); err != nil {
			log.Fatal(err)
		}
	}

	if err := c.Run(); err != nil {
		log.Printf("console: %v", err)
	}
}
