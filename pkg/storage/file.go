package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// FileStore keeps each plot as a JSON file in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store. If baseDir is empty, it defaults to
// ~/.local/share/ptplot/plots/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "ptplot", "plots")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) plotPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(_ context.Context, id string) (*Plot, error) {
	if err := perrors.ValidatePlotID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := readPlot(s.plotPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	if p.IsExpired() {
		return nil, notFound(id)
	}
	return p, nil
}

func (s *FileStore) Put(_ context.Context, p *Plot) error {
	if err := validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal plot: %w", err)
	}
	if err := os.WriteFile(s.plotPath(p.ID), data, 0600); err != nil {
		return fmt.Errorf("write plot file: %w", err)
	}
	return nil
}

func (s *FileStore) List(_ context.Context, limit int) ([]*Plot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Plot
	err := s.each(func(_ string, p *Plot) {
		if !p.IsExpired() {
			out = append(out, p)
		}
	})
	if err != nil {
		return nil, err
	}
	return newestFirst(out, limit), nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := perrors.ValidatePlotID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.plotPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove plot file: %w", err)
	}
	return nil
}

func (s *FileStore) Cleanup(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.each(func(path string, p *Plot) {
		if p.IsExpired() {
			_ = os.Remove(path)
		}
	})
}

func (s *FileStore) Close(context.Context) error { return nil }

// Path returns the base directory for plot files.
func (s *FileStore) Path() string { return s.baseDir }

// each calls fn for every readable plot file. Unreadable files are skipped.
func (s *FileStore) each(fn func(path string, p *Plot)) error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read plot dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		if p, err := readPlot(path); err == nil {
			fn(path, p)
		}
	}
	return nil
}

func readPlot(path string) (*Plot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Plot
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plot: %w", err)
	}
	return &p, nil
}

var _ Store = (*FileStore)(nil)
