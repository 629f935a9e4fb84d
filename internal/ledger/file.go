package ledger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStore is a newline-separated append log of ids with an in-memory set.
// The set is rebuilt whenever the file's size or modification time changes on disk.
type FileStore struct {
	path string

	mu      sync.Mutex
	ids     map[string]struct{}
	size    int64
	modTime time.Time
	loaded  bool
	closed  bool
}

// OpenFile prepares a file store at path, creating the parent directory.
// A missing file is an empty ledger.
func OpenFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("ledger path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	return &FileStore{path: path, ids: make(map[string]struct{})}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Has(ctx context.Context, gameID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	if err := s.refresh(); err != nil {
		return false, err
	}
	_, ok := s.ids[gameID]
	return ok, nil
}

func (s *FileStore) Add(ctx context.Context, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	// Pick up external edits before appending so the set stays complete.
	_ = s.refresh()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(gameID + "\n"); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	s.ids[gameID] = struct{}{}
	s.recordStat()
	return nil
}

func (s *FileStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, nil, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.ids = make(map[string]struct{})
	s.recordStat()
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// refresh must be called with s.mu held.
func (s *FileStore) refresh() error {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.ids = make(map[string]struct{})
		s.size, s.modTime, s.loaded = 0, time.Time{}, true
		return nil
	}
	if err != nil {
		return err
	}
	if s.loaded && info.Size() == s.size && info.ModTime().Equal(s.modTime) {
		return nil
	}
	ids, err := readIDs(s.path)
	if err != nil {
		return err
	}
	s.ids = ids
	s.size, s.modTime, s.loaded = info.Size(), info.ModTime(), true
	return nil
}

// recordStat must be called with s.mu held.
func (s *FileStore) recordStat() {
	info, err := os.Stat(s.path)
	if err != nil {
		s.loaded = false
		return
	}
	s.size, s.modTime, s.loaded = info.Size(), info.ModTime(), true
}

func readIDs(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ids := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			ids[id] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return ids, nil
}
