package repository

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned when a slot has never been written.
var ErrSlotNotFound = errors.New("slot not found")

// SlotStore persists opaque blobs under named slots. Writes replace the whole
// blob; there is no versioning.
type SlotStore interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Put(ctx context.Context, slot string, payload []byte) error
}
