package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sandeepkv93/tasktimer/internal/model"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrCorrupt  = errors.New("storage: corrupt payload")
)

// CollectionKey is the well-known key the whole collection is stored under.
const CollectionKey = "tasks"

// Store persists the whole collection. Save always writes the full list.
type Store interface {
	Load(ctx context.Context) (model.Collection, error)
	Save(ctx context.Context, c model.Collection) error
}

// LoadOrEmpty never fails: absent data and unreadable data both yield an empty
// collection, the latter with a warning.
func LoadOrEmpty(ctx context.Context, store Store, logger *slog.Logger) model.Collection {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c, err := store.Load(ctx)
	switch {
	case err == nil:
		return c
	case errors.Is(err, ErrNotFound):
		return model.Collection{}
	default:
		logger.Warn("stored tasks unreadable, starting empty", "error", err)
		return model.Collection{}
	}
}

// MemoryStore keeps the encoded payload in memory.
type MemoryStore struct {
	raw []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (model.Collection, error) {
	if m.raw == nil {
		return nil, ErrNotFound
	}
	c, _, err := Decode(m.raw)
	return c, err
}

func (m *MemoryStore) Save(_ context.Context, c model.Collection) error {
	raw, err := Encode(c)
	if err != nil {
		return err
	}
	m.raw = raw
	return nil
}

// SetRaw replaces the stored payload verbatim.
func (m *MemoryStore) SetRaw(raw []byte) {
	m.raw = append([]byte(nil), raw...)
}
