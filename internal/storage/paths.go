// Package storage persists games, results and preferences in BadgerDB.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessplay"

// platformEnv is what resolving the data directory depends on.
type platformEnv struct {
	goos   string
	getenv func(string) string
	home   func() (string, error)
}

func hostEnv() platformEnv {
	return platformEnv{goos: runtime.GOOS, getenv: os.Getenv, home: os.UserHomeDir}
}

// baseDir returns the per-user application data root:
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME or ~/.local/share elsewhere.
func (e platformEnv) baseDir() (string, error) {
	var envVar string
	var fallback []string
	switch e.goos {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		envVar, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		envVar, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if envVar != "" {
		if dir := e.getenv(envVar); dir != "" {
			return dir, nil
		}
	}
	home, err := e.home()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// GetDataDir returns the platform data directory for chessplay, creating it
// if needed.
func GetDataDir() (string, error) {
	base, err := hostEnv().baseDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, appName))
}

// GetDatabaseDir returns the BadgerDB directory under dataDir, creating it
// if needed. An empty dataDir means GetDataDir.
func GetDatabaseDir(dataDir string) (string, error) {
	if dataDir == "" {
		var err error
		if dataDir, err = GetDataDir(); err != nil {
			return "", err
		}
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}
