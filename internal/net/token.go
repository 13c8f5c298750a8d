package net

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/pslog"

	"Exacldraw/internal/logx"
)

// TokenStore keeps the bearer token in a file readable only by the user.
type TokenStore struct {
	path string
	log  pslog.Logger
}

// NewTokenStore returns a store backed by path.
func NewTokenStore(path string, logger pslog.Logger) (*TokenStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("net: token file path is required")
	}
	return &TokenStore{path: path, log: logx.Or(logger).With("token_file", path)}, nil
}

// Path is the token file location.
func (s *TokenStore) Path() string { return s.path }

// Load returns the stored token. A missing file yields ErrNoToken.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("token load miss")
			return "", ErrNoToken
		}
		return "", fmt.Errorf("net: read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Save writes the token atomically with mode 0600.
func (s *TokenStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("net: refusing to store an empty token")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("net: create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "token-*")
	if err != nil {
		return fmt.Errorf("net: save token: %w", err)
	}
	if _, err := tmp.WriteString(token + "\n"); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("net: save token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("net: save token: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("net: save token: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("net: save token: %w", err)
	}
	s.log.Debug("token saved")
	return nil
}

// Clear removes the token. Clearing a missing token is not an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("net: clear token: %w", err)
	}
	s.log.Debug("token cleared")
	return nil
}
