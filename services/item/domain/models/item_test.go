package models

import (
	"testing"
	"time"
)

func TestNewItem(t *testing.T) {
	name := ItemName("Test Item")
	createdAt := time.Date(2025, 1, 15, 12, 0, 0, 123456789, time.FixedZone("CET", 3600))

	t.Run("sets ID correctly", func(t *testing.T) {
		item, err := NewItem(42, name, createdAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ID != 42 {
			t.Fatalf("expected ID 42, got %d", item.ID)
		}
	})

	t.Run("sets Name correctly", func(t *testing.T) {
		item, err := NewItem(1, name, createdAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Name != name {
			t.Fatalf("expected Name %v, got %v", name, item.Name)
		}
	})

	t.Run("normalizes CreatedAt to UTC milliseconds", func(t *testing.T) {
		item, err := NewItem(1, name, createdAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 11, 0, 0, 123000000, time.UTC)
		if !item.CreatedAt.Equal(want) {
			t.Fatalf("expected CreatedAt %v, got %v", want, item.CreatedAt)
		}
		if item.CreatedAt.Location() != time.UTC {
			t.Fatalf("expected UTC location, got %v", item.CreatedAt.Location())
		}
	})

	t.Run("rejects non-positive IDs", func(t *testing.T) {
		for _, id := range []int64{0, -1} {
			if _, err := NewItem(id, name, createdAt); err == nil {
				t.Fatalf("expected error for id %d", id)
			}
		}
	})

	t.Run("leaves optional fields empty", func(t *testing.T) {
		item, _ := NewItem(1, name, createdAt)
		if item.Category != "" || item.Price != nil {
			t.Fatalf("expected no category or price, got %q %v", item.Category, item.Price)
		}
	})
}

func TestItem_CreatedAtString(t *testing.T) {
	item, _ := NewItem(1, "x", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	if got := item.CreatedAtString(); got != "2023-01-01T00:00:00.000Z" {
		t.Fatalf("unexpected timestamp: %q", got)
	}

	empty := &Item{ID: 1, Name: "legacy"}
	if got := empty.CreatedAtString(); got != "" {
		t.Fatalf("expected empty timestamp for zero time, got %q", got)
	}
}
