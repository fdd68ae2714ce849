package storage

import (
	"errors"
	"sort"
	"sync"

	"github.com/Johay90/HighlightedItems/internal/optimizer"
)

const maxGridDimension = 64

var (
	// ErrInvalidLayout indicates the provided layout violates validation rules.
	ErrInvalidLayout = errors.New("layout dimensions must be between 1 and 64 and reserved cells must lie inside the grid")
)

// Layout describes the grid the optimizer works against: its dimensions and
// the cells excluded from placement.
type Layout struct {
	Width    int
	Height   int
	Reserved []optimizer.Cell
}

// Cells returns the total number of cells in the layout.
func (l Layout) Cells() int {
	return l.Width * l.Height
}

// Storage provides access to the grid layout used by the optimizer.
type Storage interface {
	GetLayout() (Layout, error)
	SetLayout(layout Layout) error
}

// MemoryStorage keeps the layout in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu     sync.RWMutex
	layout Layout
}

// NewMemoryStorage initialises storage with the default layout.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		layout: DefaultLayout(),
	}
}

// DefaultLayout returns the stock 12x5 layout with no reserved cells.
func DefaultLayout() Layout {
	return Layout{Width: optimizer.DefaultWidth, Height: optimizer.DefaultHeight}
}

// GetLayout returns a defensive copy of the currently configured layout.
func (s *MemoryStorage) GetLayout() (Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneLayout(s.layout), nil
}

// SetLayout validates, normalises, and stores the provided layout.
func (s *MemoryStorage) SetLayout(layout Layout) error {
	normalized, err := NormalizeLayout(layout)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.layout = normalized
	s.mu.Unlock()

	return nil
}

// NormalizeLayout validates the layout and returns a copy with its reserved
// cells deduplicated and sorted in row-major order.
func NormalizeLayout(layout Layout) (Layout, error) {
	if layout.Width < 1 || layout.Width > maxGridDimension ||
		layout.Height < 1 || layout.Height > maxGridDimension {
		return Layout{}, ErrInvalidLayout
	}

	unique := make(map[optimizer.Cell]struct{}, len(layout.Reserved))
	for _, cell := range layout.Reserved {
		if cell.X < 0 || cell.X >= layout.Width || cell.Y < 0 || cell.Y >= layout.Height {
			return Layout{}, ErrInvalidLayout
		}
		unique[cell] = struct{}{}
	}

	out := Layout{Width: layout.Width, Height: layout.Height}
	if len(unique) > 0 {
		out.Reserved = make([]optimizer.Cell, 0, len(unique))
		for cell := range unique {
			out.Reserved = append(out.Reserved, cell)
		}
		sort.Slice(out.Reserved, func(i, j int) bool {
			if out.Reserved[i].Y != out.Reserved[j].Y {
				return out.Reserved[i].Y < out.Reserved[j].Y
			}
			return out.Reserved[i].X < out.Reserved[j].X
		})
	}
	return out, nil
}

func cloneLayout(src Layout) Layout {
	out := Layout{Width: src.Width, Height: src.Height}
	if len(src.Reserved) > 0 {
		out.Reserved = make([]optimizer.Cell, len(src.Reserved))
		copy(out.Reserved, src.Reserved)
	}
	return out
}
