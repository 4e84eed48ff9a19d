package models

import (
	"strings"
	"testing"
)

func TestNewItemName(t *testing.T) {
	t.Run("valid single character", func(t *testing.T) {
		n, err := NewItemName("a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "a" {
			t.Fatalf("expected %q, got %q", "a", n.String())
		}
	})

	t.Run("valid 200 characters", func(t *testing.T) {
		s := strings.Repeat("x", 200)
		n, err := NewItemName(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != s {
			t.Fatalf("expected string of length 200, got %d", len(n.String()))
		}
	})

	t.Run("200 multibyte characters", func(t *testing.T) {
		s := strings.Repeat("é", 200)
		if _, err := NewItemName(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		n, err := NewItemName("  Trimmed  ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "Trimmed" {
			t.Fatalf("expected %q, got %q", "Trimmed", n.String())
		}
	})

	t.Run("padding does not count toward the limit", func(t *testing.T) {
		s := "   " + strings.Repeat("x", 200) + "   "
		if _, err := NewItemName(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty string returns error", func(t *testing.T) {
		if _, err := NewItemName(""); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("whitespace only returns error", func(t *testing.T) {
		if _, err := NewItemName("   \t "); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("201 characters returns error", func(t *testing.T) {
		if _, err := NewItemName(strings.Repeat("x", 201)); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestItemName_String(t *testing.T) {
	n := ItemName("hello")
	if n.String() != "hello" {
		t.Fatalf("expected %q, got %q", "hello", n.String())
	}
}

func TestItemName_EqualFold(t *testing.T) {
	if !ItemName("Widget").EqualFold("wIDGET") {
		t.Fatal("expected case-insensitive equality")
	}
	if ItemName("Widget").EqualFold("Widgets") {
		t.Fatal("expected inequality for different names")
	}
}

func TestItemName_ContainsFold(t *testing.T) {
	tests := []struct {
		name   ItemName
		needle string
		want   bool
	}{
		{"Test Item 1", "test item", true},
		{"Another Test", "test item", false},
		{"Another Test", "another", true},
		{"", "a", false},
	}
	for _, tt := range tests {
		if got := tt.name.ContainsFold(tt.needle); got != tt.want {
			t.Errorf("%q.ContainsFold(%q) = %v, want %v", tt.name, tt.needle, got, tt.want)
		}
	}
}
