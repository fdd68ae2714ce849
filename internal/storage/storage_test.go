package storage

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"slices"

	"github.com/Johay90/HighlightedItems/internal/optimizer"
)

func TestNewMemoryStorageReturnsDefaultLayout(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	got, err := store.GetLayout()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DefaultLayout()
	if got.Width != want.Width || got.Height != want.Height || len(got.Reserved) != 0 {
		t.Fatalf("expected default layout %+v, got %+v", want, got)
	}
}

func TestGetLayoutReturnsDefensiveCopy(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if err := store.SetLayout(Layout{Width: 12, Height: 5, Reserved: []optimizer.Cell{{X: 0, Y: 0}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetLayout()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ensure mutation safety
	got.Reserved[0] = optimizer.Cell{X: 9, Y: 4}
	again, err := store.GetLayout()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Reserved[0] != (optimizer.Cell{X: 0, Y: 0}) {
		t.Fatalf("expected defensive copy, got %+v", again.Reserved)
	}
}

func TestSetLayoutNormalizesReservedCells(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	layout := Layout{
		Width:  6,
		Height: 4,
		Reserved: []optimizer.Cell{
			{X: 5, Y: 3},
			{X: 0, Y: 1},
			{X: 5, Y: 3},
			{X: 2, Y: 0},
		},
	}
	if err := store.SetLayout(layout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetLayout()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []optimizer.Cell{{X: 2, Y: 0}, {X: 0, Y: 1}, {X: 5, Y: 3}}
	if got.Width != 6 || got.Height != 4 {
		t.Fatalf("expected 6x4 layout, got %dx%d", got.Width, got.Height)
	}
	if !slices.Equal(got.Reserved, want) {
		t.Fatalf("expected reserved cells %v, got %v", want, got.Reserved)
	}
}

func TestSetLayoutRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []Layout{
		{Width: 0, Height: 5},
		{Width: 12, Height: -1},
		{Width: 65, Height: 5},
		{Width: 12, Height: 65},
		{Width: 12, Height: 5, Reserved: []optimizer.Cell{{X: 12, Y: 0}}},
		{Width: 12, Height: 5, Reserved: []optimizer.Cell{{X: 0, Y: -1}}},
	}

	for idx, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			store := NewMemoryStorage()
			if err := store.SetLayout(tc); !errors.Is(err, ErrInvalidLayout) {
				t.Fatalf("expected ErrInvalidLayout for %+v, got %v", tc, err)
			}
		})
	}
}

func TestLayoutCells(t *testing.T) {
	t.Parallel()

	if got := DefaultLayout().Cells(); got != 60 {
		t.Fatalf("expected 60 cells in the default layout, got %d", got)
	}
	if got := (Layout{Width: 3, Height: 4}).Cells(); got != 12 {
		t.Fatalf("expected 12 cells, got %d", got)
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := NewMemoryStorage()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			layout := Layout{
				Width:    12,
				Height:   5,
				Reserved: []optimizer.Cell{{X: offset % 12, Y: offset % 5}},
			}
			if err := store.SetLayout(layout); err != nil {
				t.Errorf("SetLayout failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := store.GetLayout(); err != nil {
				t.Errorf("GetLayout failed: %v", err)
			}
		}()
	}

	wg.Wait()

	// final read should succeed
	if _, err := store.GetLayout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
