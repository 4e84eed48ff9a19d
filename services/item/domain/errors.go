package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrInvalidArgument indicates a caller-supplied value failed validation.
	// The caller can recover by correcting its input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidItemName indicates the item name violates domain constraints.
	ErrInvalidItemName = fmt.Errorf("%w: invalid item name", ErrInvalidArgument)

	// ErrInvalidItemID indicates the item ID is not a positive integer.
	ErrInvalidItemID = fmt.Errorf("%w: invalid item id", ErrInvalidArgument)

	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyExists indicates an item with the same unique constraint already exists.
	ErrItemAlreadyExists = errors.New("item already exists")

	// ErrCorruptData indicates the backing file is not a JSON array of items.
	// It is never repaired automatically.
	ErrCorruptData = errors.New("corrupt item data")

	// ErrStorageUnavailable indicates an I/O failure reading or writing the
	// backing file. Safe to retry later.
	ErrStorageUnavailable = errors.New("item storage unavailable")
)
