// Package store persists serialized mind maps into named slots.
package store

import (
	"context"
	"errors"
)

// DefaultSlot is the slot the editor autosaves into.
const DefaultSlot = "mindmap-data"

// Common errors.
var (
	ErrNotFound    = errors.New("slot not found")
	ErrStoreClosed = errors.New("store is closed")
)

// Store keeps one opaque blob per slot. Saving a slot replaces it.
type Store interface {
	// Save writes blob into slot.
	Save(ctx context.Context, slot string, blob []byte) error

	// Load returns the blob in slot, or ErrNotFound.
	Load(ctx context.Context, slot string) ([]byte, error)

	// Delete removes slot. Deleting a missing slot is not an error.
	Delete(ctx context.Context, slot string) error

	// Slots lists slot names, most recently saved first.
	Slots(ctx context.Context) ([]string, error)

	// Close closes the store.
	Close() error
}
