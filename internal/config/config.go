// Package config loads the settings shared by the chessplay binaries.
// Values come from an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the server and console.
type Config struct {
	// Addr is the address the HTTP server listens on.
	Addr string `yaml:"addr"`
	// DataDir holds the database. Empty means the platform data directory.
	DataDir string `yaml:"data_dir"`
	// InMemory keeps games only for the life of the process.
	InMemory bool `yaml:"in_memory"`
	// Unicode draws the console board with chess glyphs.
	Unicode bool `yaml:"unicode"`
}

const (
	envAddr     = "CHESSPLAY_ADDR"
	envDataDir  = "CHESSPLAY_DATA_DIR"
	envInMemory = "CHESSPLAY_IN_MEMORY"
	envUnicode  = "CHESSPLAY_UNICODE"
	envConfig   = "CHESSPLAY_CONFIG"

	defaultAddr = ":8080"
)

// Default returns the built-in settings.
func Default() Config {
	return Config{Addr: defaultAddr}
}

// Load reads the file named by CHESSPLAY_CONFIG, if set, and applies the
// environment on top of it.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(envConfig); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(envDataDir); v != "" {
		c.DataDir = v
	}
	for name, dst := range map[string]*bool{envInMemory: &c.InMemory, envUnicode: &c.Unicode} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = b
	}
	return nil
}
