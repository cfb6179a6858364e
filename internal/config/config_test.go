// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/complex-gh/xhd"
	"github.com/complex-gh/xhd/bip32ed25519"
	"github.com/matryer/is"
)

// TestLoad_Defaults tests the values used when nothing is configured
func TestLoad_Defaults(t *testing.T) {
	is := is.New(t)
	t.Setenv(configDirPathEnv, t.TempDir())

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.Scheme, "peikert")
	is.Equal(cfg.Context, "address")
	is.Equal(cfg.Account, uint32(0))
	is.Equal(cfg.Language, "en")
	is.Equal(cfg.Log.Level, "warn")
	is.Equal(cfg.Log.Format, "console")

	scheme, err := cfg.DerivationScheme()
	is.NoErr(err)
	is.Equal(scheme, bip32ed25519.Peikert)

	ctx, err := cfg.KeyContext()
	is.NoErr(err)
	is.Equal(ctx, xhd.Address)
}

// TestLoad_Environment tests that environment variables override defaults
func TestLoad_Environment(t *testing.T) {
	is := is.New(t)
	t.Setenv(configDirPathEnv, t.TempDir())
	t.Setenv("XHD_SCHEME", "khovratovich")
	t.Setenv("XHD_CONTEXT", "identity")
	t.Setenv("XHD_ACCOUNT", "7")

	cfg, err := Load()
	is.NoErr(err)

	scheme, err := cfg.DerivationScheme()
	is.NoErr(err)
	is.Equal(scheme, bip32ed25519.Khovratovich)

	ctx, err := cfg.KeyContext()
	is.NoErr(err)
	is.Equal(ctx, xhd.Identity)
	is.Equal(cfg.Account, uint32(7))
}

// TestLoad_DotEnv tests values read from a .env file
func TestLoad_DotEnv(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	t.Setenv(configDirPathEnv, dir)
	// Register the variables with t.Setenv so they are restored after the test,
	// then clear them so the .env file supplies the values.
	t.Setenv("XHD_ACCOUNT", "")
	t.Setenv("XHD_LOG_LEVEL", "")
	is.NoErr(os.Unsetenv("XHD_ACCOUNT"))
	is.NoErr(os.Unsetenv("XHD_LOG_LEVEL"))

	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("XHD_ACCOUNT=3\nXHD_LOG_LEVEL=debug\n"), 0o600)
	is.NoErr(err)

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.Account, uint32(3))
	is.Equal(cfg.Log.Level, "debug")
}

// TestLoad_Invalid tests that unknown scheme and context names are rejected
func TestLoad_Invalid(t *testing.T) {
	is := is.New(t)
	t.Setenv(configDirPathEnv, t.TempDir())

	t.Setenv("XHD_SCHEME", "v1")
	_, err := Load()
	is.True(errors.Is(err, bip32ed25519.ErrUnsupportedScheme))

	t.Setenv("XHD_SCHEME", "peikert")
	t.Setenv("XHD_CONTEXT", "payments")
	_, err = Load()
	is.True(errors.Is(err, xhd.ErrUnknownContext))
}
