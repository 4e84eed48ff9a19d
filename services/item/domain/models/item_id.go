package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseItemID parses a path or query value into a positive item ID.
func ParseItemID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("item id %q is not an integer", s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("item id must be a positive integer, got %d", id)
	}
	return id, nil
}
