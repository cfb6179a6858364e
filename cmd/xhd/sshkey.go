package main

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-tty"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

var (
	errNotProtected   = errors.New("key is not password-protected: keys are required to be password-protected")
	errUnsupportedKey = errors.New("only ed25519 keys are supported")
)

// getDefaultSSHDir returns the default SSH directory for the current platform.
func getDefaultSSHDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ssh"), nil
}

// resolveKeyPath returns path if it exists. A bare file name that does not
// exist in the working directory is looked up in the default SSH directory.
func resolveKeyPath(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	cleanedPath := filepath.Clean(path)
	dir := filepath.Dir(cleanedPath)
	if dir != "." && dir != "" {
		return "", fmt.Errorf("could not open %s: %w", path, os.ErrNotExist)
	}

	pathLower := strings.ToLower(path)
	if strings.HasPrefix(pathLower, "./") || strings.HasPrefix(pathLower, "../") ||
		strings.HasPrefix(pathLower, ".\\") || strings.HasPrefix(pathLower, "..\\") {
		return "", fmt.Errorf("could not open %s: %w", path, os.ErrNotExist)
	}

	sshDir, err := getDefaultSSHDir()
	if err != nil {
		return "", fmt.Errorf("could not determine SSH directory: %w", err)
	}

	defaultPath := filepath.Join(sshDir, filepath.Base(cleanedPath))
	if _, err := os.Stat(defaultPath); err != nil {
		return "", fmt.Errorf("could not open %s: file not found in current directory or %s: %w", path, sshDir, os.ErrNotExist)
	}
	return defaultPath, nil
}

// readSSHKey reads and decrypts a password-protected Ed25519 SSH key,
// prompting for its passphrase on the terminal.
func readSSHKey(path string) (*ed25519.PrivateKey, error) {
	resolved, err := resolveKeyPath(path)
	if err != nil {
		return nil, err
	}
	// G304: resolved is user-provided input, which is expected for a CLI tool
	bts, err := os.ReadFile(resolved) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("could not read key: %w", err)
	}

	key, err := decodeSSHKey(bts, func() ([]byte, error) {
		return askKeyPassphrase(resolved)
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("unlocked ssh key", zap.String("path", resolved))
	return key, nil
}

// decodeSSHKey parses a password-protected Ed25519 key, asking for the
// passphrase through ask. Unprotected keys and other key types are rejected
// before ask is called.
func decodeSSHKey(bts []byte, ask func() ([]byte, error)) (*ed25519.PrivateKey, error) {
	_, err := ssh.ParseRawPrivateKey(bts)
	if err == nil {
		return nil, errNotProtected
	}
	var missing *ssh.PassphraseMissingError
	if !errors.As(err, &missing) {
		return nil, fmt.Errorf("could not parse key: %w", err)
	}
	if missing.PublicKey != nil && missing.PublicKey.Type() != ssh.KeyAlgoED25519 {
		return nil, fmt.Errorf("%w: %s", errUnsupportedKey, missing.PublicKey.Type())
	}

	pass, err := ask()
	if err != nil {
		return nil, err
	}
	key, err := ssh.ParseRawPrivateKeyWithPassphrase(bts, pass)
	if err != nil {
		return nil, fmt.Errorf("could not parse key with passphrase: %w", err)
	}

	edKey, ok := key.(*ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", errUnsupportedKey, key)
	}
	return edKey, nil
}

func readPassword(msg string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, msg)
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open tty: %w", err)
	}
	defer t.Close()                                     //nolint: errcheck
	pass, err := term.ReadPassword(int(t.Input().Fd())) //nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("could not read passphrase: %w", err)
	}
	return pass, nil
}

func askKeyPassphrase(path string) ([]byte, error) {
	defer fmt.Fprintf(os.Stderr, "\n")
	return readPassword(fmt.Sprintf("Enter the passphrase to unlock %q: ", path))
}
