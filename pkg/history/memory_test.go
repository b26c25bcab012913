package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testRecord(direction string, valid bool, validatedAt time.Time) *Record {
	return &Record{
		ID:          uuid.New().String(),
		Direction:   direction,
		Valid:       valid,
		RuleCount:   10,
		Duration:    250 * time.Microsecond,
		ValidatedAt: validatedAt,
	}
}

func TestMemoryStorage_StoreAndQuery(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	now := time.Now()

	records := []*Record{
		testRecord("sink", false, now.Add(-2*time.Hour)),
		testRecord("source", true, now.Add(-1*time.Hour)),
		testRecord("sink", true, now),
	}
	for _, r := range records {
		if err := s.Store(ctx, r); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}

	got, err := s.Query(ctx, &Query{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Query() returned %d records, want 3", len(got))
	}
	if got[0].ID != records[2].ID {
		t.Error("results should be newest first")
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestMemoryStorage_QueryFilters(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	now := time.Now()

	s.Store(ctx, testRecord("sink", false, now.Add(-2*time.Hour)))
	s.Store(ctx, testRecord("source", true, now.Add(-1*time.Hour)))
	s.Store(ctx, testRecord("sink", true, now))

	got, err := s.Query(ctx, &Query{Direction: "sink"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("direction filter returned %d records, want 2", len(got))
	}

	valid := true
	got, _ = s.Query(ctx, &Query{Valid: &valid})
	if len(got) != 2 {
		t.Errorf("valid filter returned %d records, want 2", len(got))
	}

	since := now.Add(-90 * time.Minute)
	got, _ = s.Query(ctx, &Query{Since: &since})
	if len(got) != 2 {
		t.Errorf("since filter returned %d records, want 2", len(got))
	}

	got, _ = s.Query(ctx, &Query{Limit: 1})
	if len(got) != 1 {
		t.Errorf("limit returned %d records, want 1", len(got))
	}
}

func TestMemoryStorage_DeleteOlderThan(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	now := time.Now()

	s.Store(ctx, testRecord("sink", true, now.Add(-48*time.Hour)))
	s.Store(ctx, testRecord("sink", true, now.Add(-24*time.Hour)))
	s.Store(ctx, testRecord("sink", true, now))

	deleted, err := s.DeleteOlderThan(ctx, now.Add(-36*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteOlderThan() = %d, want 1", deleted)
	}

	count, _ := s.Count(ctx)
	if count != 2 {
		t.Errorf("Count() after delete = %d, want 2", count)
	}
}

func TestMemoryStorage_TrimToCount(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	now := time.Now()

	oldest := testRecord("sink", true, now.Add(-3*time.Hour))
	s.Store(ctx, oldest)
	s.Store(ctx, testRecord("sink", true, now.Add(-2*time.Hour)))
	s.Store(ctx, testRecord("sink", true, now.Add(-1*time.Hour)))

	deleted, err := s.TrimToCount(ctx, 2)
	if err != nil {
		t.Fatalf("TrimToCount() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("TrimToCount() = %d, want 1", deleted)
	}

	got, _ := s.Query(ctx, &Query{})
	for _, r := range got {
		if r.ID == oldest.ID {
			t.Error("oldest record should have been trimmed")
		}
	}

	deleted, _ = s.TrimToCount(ctx, 10)
	if deleted != 0 {
		t.Errorf("TrimToCount() under limit = %d, want 0", deleted)
	}
}
