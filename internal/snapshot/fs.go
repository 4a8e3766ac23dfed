package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type fsStore struct {
	mu   sync.Mutex
	base string
}

// NewFSStore persists one JSON file per profile under base. The write is a
// full rewrite via a temp file rename, so a crashed save never leaves a
// half-written record behind.
func NewFSStore(base string) (Store, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &fsStore{base: base}, nil
}

func (s *fsStore) path(profile string) string {
	return filepath.Join(s.base, filepath.Clean(profile)+".json")
}

func (s *fsStore) Save(_ context.Context, profile string, snap Snapshot) error {
	if profile == "" {
		return errors.New("snapshot: empty profile")
	}
	buf, err := snap.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dst := s.path(profile)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, dst)
}

func (s *fsStore) Load(_ context.Context, profile string) (Snapshot, error) {
	s.mu.Lock()
	buf, err := os.ReadFile(s.path(profile))
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	return Decode(buf)
}
