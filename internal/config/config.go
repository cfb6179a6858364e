// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package config loads the defaults of the xhd command from the environment
// and an optional .env file. Command line flags override these values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/complex-gh/xhd"
	"github.com/complex-gh/xhd/bip32ed25519"
	"github.com/complex-gh/xhd/internal/log"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	configDirPathEnv     = "XHD_CONFIG_DIR"
	defaultConfigDirPath = "."
)

// Config holds the command defaults.
type Config struct {
	Scheme   string `env:"XHD_SCHEME" env-default:"peikert"`
	Context  string `env:"XHD_CONTEXT" env-default:"address"`
	Account  uint32 `env:"XHD_ACCOUNT" env-default:"0"`
	Language string `env:"XHD_LANGUAGE" env-default:"en"`

	Log log.Config
}

// Load reads the .env file in $XHD_CONFIG_DIR (default: the working
// directory) if there is one, then the environment. Variables already set in
// the environment win over the .env file.
func Load() (*Config, error) {
	dir := os.Getenv(configDirPathEnv)
	if dir == "" {
		dir = defaultConfigDirPath
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the scheme and context names are known.
func (c *Config) Validate() error {
	if _, err := c.DerivationScheme(); err != nil {
		return err
	}
	if _, err := c.KeyContext(); err != nil {
		return err
	}
	return nil
}

// DerivationScheme parses Scheme.
func (c *Config) DerivationScheme() (bip32ed25519.Scheme, error) {
	s, err := bip32ed25519.ParseScheme(c.Scheme)
	if err != nil {
		return 0, fmt.Errorf("invalid XHD_SCHEME: %w", err)
	}
	return s, nil
}

// KeyContext parses Context.
func (c *Config) KeyContext() (xhd.KeyContext, error) {
	ctx, err := xhd.ParseKeyContext(c.Context)
	if err != nil {
		return 0, fmt.Errorf("invalid XHD_CONTEXT: %w", err)
	}
	return ctx, nil
}
