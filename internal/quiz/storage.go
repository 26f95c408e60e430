package quiz

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// KVStore is a persistent string key-value store.
type KVStore interface {
	// Get returns the value under key; ok is false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SessionStorage persists one quiz's finalized answers under its storage key.
type SessionStorage struct {
	kv     KVStore
	key    string
	logger *zap.Logger
}

// NewSessionStorage binds a KV store to a storage key.
func NewSessionStorage(kv KVStore, key string, logger *zap.Logger) *SessionStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStorage{kv: kv, key: key, logger: logger}
}

// Key returns the storage key.
func (s *SessionStorage) Key() string { return s.key }

// Load returns the stored records for elements. Missing, malformed and stale
// entries all yield nil records; the latter two are purged. Store failures
// are logged and treated as a missing entry.
func (s *SessionStorage) Load(ctx context.Context, elements []Element) []Record {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("read stored session failed", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	records, ok := Decode(raw)
	if !ok {
		s.logger.Debug("discarding stored session",
			zap.String("key", s.key),
			zap.Error(ErrMalformedStorage))
		s.discard(ctx)
		return nil
	}

	if !StoredDataIsValidForQuiz(records, elements) {
		s.logger.Warn("discarding stored session",
			zap.String("key", s.key),
			zap.String("stored", raw),
			zap.Error(&StaleStorageError{Key: s.key, Stored: raw}))
		s.discard(ctx)
		return nil
	}

	return records
}

// Save writes records under the storage key.
func (s *SessionStorage) Save(ctx context.Context, records []Record) error {
	if err := s.kv.Set(ctx, s.key, Encode(records)); err != nil {
		return fmt.Errorf("write stored session: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (s *SessionStorage) Clear(ctx context.Context) error {
	return s.purge(ctx)
}

// discard purges an unusable entry. A failed purge leaves the entry to be
// discarded again on the next load.
func (s *SessionStorage) discard(ctx context.Context) {
	if err := s.purge(ctx); err != nil {
		s.logger.Warn("purge stored session failed", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *SessionStorage) purge(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("remove stored session: %w", err)
	}
	return nil
}
