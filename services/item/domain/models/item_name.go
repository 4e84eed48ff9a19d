package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ItemName is a value object representing a valid item name.
// Encapsulates validation rules: 1 <= runes(trim(name)) <= 200.
type ItemName string

const (
	minItemNameLength = 1
	maxItemNameLength = 200
)

// NewItemName trims s and constructs a valid ItemName, or returns an error if
// constraints are violated.
func NewItemName(s string) (ItemName, error) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < minItemNameLength {
		return "", fmt.Errorf("item name must be at least %d character", minItemNameLength)
	}
	if n > maxItemNameLength {
		return "", fmt.Errorf("item name must not exceed %d characters", maxItemNameLength)
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}

// EqualFold reports whether two names are equal under case-insensitive comparison.
func (n ItemName) EqualFold(other ItemName) bool {
	return strings.EqualFold(string(n), string(other))
}

// ContainsFold reports whether the name contains the lower-cased needle.
// An empty name never matches.
func (n ItemName) ContainsFold(lowerNeedle string) bool {
	if n == "" {
		return false
	}
	return strings.Contains(strings.ToLower(string(n)), lowerNeedle)
}
