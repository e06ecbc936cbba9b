package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			p := New("svg", []byte("<svg/>"), time.Hour)
			p.Title = "Play 56"
			if err := s.Put(ctx, p); err != nil {
				t.Fatalf("Put() error: %v", err)
			}

			got, err := s.Get(ctx, p.ID)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if got.Title != "Play 56" || string(got.Content) != "<svg/>" || got.Format != "svg" {
				t.Errorf("Get() = %+v", got)
			}

			if err := s.Delete(ctx, p.ID); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if _, err := s.Get(ctx, p.ID); !perrors.Is(err, perrors.ErrCodePlotNotFound) {
				t.Errorf("Get() after delete error = %v, want PLOT_NOT_FOUND", err)
			}
			if err := s.Delete(ctx, p.ID); err != nil {
				t.Errorf("second Delete() error: %v", err)
			}
		})
	}
}

func TestStoreInvalidID(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "../../etc/passwd"); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
				t.Errorf("Get() error = %v, want INVALID_INPUT", err)
			}
			if err := s.Put(ctx, nil); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
				t.Errorf("Put(nil) error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			old := New("svg", []byte("a"), time.Hour)
			past := time.Now().Add(-time.Minute)
			old.ExpiresAt = &past
			live := New("svg", []byte("b"), 0)
			for _, p := range []*Plot{old, live} {
				if err := s.Put(ctx, p); err != nil {
					t.Fatalf("Put() error: %v", err)
				}
			}

			if _, err := s.Get(ctx, old.ID); !perrors.Is(err, perrors.ErrCodePlotNotFound) {
				t.Errorf("Get(expired) error = %v, want PLOT_NOT_FOUND", err)
			}
			list, err := s.List(ctx, 0)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(list) != 1 || list[0].ID != live.ID {
				t.Errorf("List() = %d plots, want only the live one", len(list))
			}
			if err := s.Cleanup(ctx); err != nil {
				t.Fatalf("Cleanup() error: %v", err)
			}
			if _, err := s.Get(ctx, live.ID); err != nil {
				t.Errorf("Cleanup removed a live plot: %v", err)
			}
		})
	}
}

func TestStoreListOrder(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 9, 8, 12, 0, 0, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var ids []string
			for i := range 3 {
				p := New("json", []byte("{}"), 0)
				p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
				ids = append(ids, p.ID)
				if err := s.Put(ctx, p); err != nil {
					t.Fatalf("Put() error: %v", err)
				}
			}

			list, err := s.List(ctx, 2)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(list) != 2 {
				t.Fatalf("len(List()) = %d, want 2", len(list))
			}
			if list[0].ID != ids[2] || list[1].ID != ids[1] {
				t.Error("List() should return newest first")
			}
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := New("svg", nil, 0)
	if err := s.Put(ctx, p); err != nil {
		t.Fatal(err)
	}
	p.Title = "changed"

	got, _ := s.Get(ctx, p.ID)
	if got.Title != "" {
		t.Error("store should not share records with callers")
	}
}

func TestFileStoreSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != dir {
		t.Errorf("Path() = %q, want %q", s.Path(), dir)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %d plots, want 0", len(list))
	}
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{})
	if !perrors.Is(err, perrors.ErrCodeConfiguration) {
		t.Errorf("NewMongoStore() error = %v, want CONFIGURATION", err)
	}
}
