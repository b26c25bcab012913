package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage keeps records in memory. It is the default backend and is
// suitable for one-shot CLI runs and tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists one record.
func (s *MemoryStorage) Store(_ context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Query returns records matching the query, newest first.
func (s *MemoryStorage) Query(_ context.Context, query *Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == nil {
		query = &Query{}
	}

	var out []*Record
	for _, r := range s.records {
		if query.Direction != "" && r.Direction != query.Direction {
			continue
		}
		if query.Valid != nil && r.Valid != *query.Valid {
			continue
		}
		if query.Since != nil && r.ValidatedAt.Before(*query.Since) {
			continue
		}
		if query.Until != nil && !r.ValidatedAt.Before(*query.Until) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ValidatedAt.After(out[j].ValidatedAt)
	})
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

// Count returns the total number of stored records.
func (s *MemoryStorage) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// DeleteOlderThan removes records validated before the cutoff.
func (s *MemoryStorage) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var removed int64
	for _, r := range s.records {
		if r.ValidatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return removed, nil
}

// TrimToCount removes the oldest records until at most max remain.
func (s *MemoryStorage) TrimToCount(_ context.Context, max int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	excess := int64(len(s.records)) - max
	if excess <= 0 {
		return 0, nil
	}

	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].ValidatedAt.Before(s.records[j].ValidatedAt)
	})
	s.records = append([]*Record(nil), s.records[excess:]...)
	return excess, nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
