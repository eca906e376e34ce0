// Command chessplay-server serves games over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hailam/chessplay/internal/config"
	"github.com/hailam/chessplay/internal/httpapi"
	"github.com/hailam/chessplay/internal/session"
	"github.com/hailam/chessplay/internal/storage"
)

var (
	addr     = flag.String("addr", "", "listen address (overrides CHESSPLAY_ADDR)")
	dataDir  = flag.String("data", "", "data directory (overrides CHESSPLAY_DATA_DIR)")
	inMemory = flag.Bool("memory", false, "keep games in memory only")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	applyFlags(&cfg)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.NewRouter(session.NewManager(store)),
	}

	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func applyFlags(cfg *config.Config) {
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *inMemory {
		cfg.InMemory = true
	}
}

// openStore opens the database the configuration names.
func openStore(cfg config.Config) (*storage.Storage, error) {
	if cfg.InMemory {
		return storage.OpenInMemory()
	}
	dir, err := storage.GetDatabaseDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return storage.Open(dir)
}
