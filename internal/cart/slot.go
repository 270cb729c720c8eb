package cart

import (
	"context"
	"encoding/json"

	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
)

// Slot is a typed JSON list stored under one key. Storage failures and malformed
// payloads are logged and degrade to an empty list; they never reach callers.
type Slot[T any] struct {
	name    string
	storage Storage
	logg    *logger.Logger
}

func NewSlot[T any](name string, storage Storage, logg *logger.Logger) *Slot[T] {
	if storage == nil {
		storage = NopStorage{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Slot[T]{name: name, storage: storage, logg: logg}
}

// Get returns the stored list, or an empty one when absent or unreadable.
func (s *Slot[T]) Get(ctx context.Context) []T {
	payload, err := s.storage.Load(ctx)
	if err != nil {
		s.warn(ctx, "cart.slot_load_failed", err)
		return []T{}
	}
	if len(payload) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		s.warn(ctx, "cart.slot_malformed", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Set overwrites the slot.
func (s *Slot[T]) Set(ctx context.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		s.warn(ctx, "cart.slot_encode_failed", err)
		return
	}
	if err := s.storage.Save(ctx, payload); err != nil {
		s.warn(ctx, "cart.slot_save_failed", err)
	}
}

// Delete removes the slot entirely.
func (s *Slot[T]) Delete(ctx context.Context) {
	if err := s.storage.Clear(ctx); err != nil {
		s.warn(ctx, "cart.slot_clear_failed", err)
	}
}

func (s *Slot[T]) warn(ctx context.Context, msg string, err error) {
	ctx = s.logg.WithFields(ctx, map[string]any{"slot": s.name, "error": err.Error()})
	s.logg.Warn(ctx, msg)
}
