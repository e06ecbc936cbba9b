package draw

import (
	"slices"
	"sync"

	"github.com/matzehuels/ptplot/pkg/dataset"
)

// Source is the data behind one or more glyphs. It holds the full rows the
// glyphs were built from and the subset currently visible. Animation
// adapters change the visible subset; renderers read it.
//
// A Source is safe for concurrent use.
type Source struct {
	ID   string
	full *dataset.Frame

	mu      sync.RWMutex
	visible []int // nil means every row
}

// NewSource creates a source with every row visible.
func NewSource(id string, data *dataset.Frame) *Source {
	return &Source{ID: id, full: data}
}

// Full returns every row of the source.
func (s *Source) Full() *dataset.Frame { return s.full }

// Len returns the number of rows in the full data.
func (s *Source) Len() int { return s.full.Len() }

// SetVisible replaces the visible subset with rows of the full data.
func (s *Source) SetVisible(rows []int) {
	if rows == nil {
		rows = []int{}
	}
	s.mu.Lock()
	s.visible = rows
	s.mu.Unlock()
}

// ShowAll makes every row visible.
func (s *Source) ShowAll() {
	s.mu.Lock()
	s.visible = nil
	s.mu.Unlock()
}

// VisibleRows returns the indices of the visible rows.
func (s *Source) VisibleRows() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.visible == nil {
		rows := make([]int, s.full.Len())
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	return slices.Clone(s.visible)
}

// Visible returns the visible rows as a frame.
func (s *Source) Visible() *dataset.Frame {
	return s.full.Take(s.VisibleRows())
}
