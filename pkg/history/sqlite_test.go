package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"streamhq/confgate/pkg/validate"
)

func newTestSQLiteStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	config := DefaultSQLiteConfig()
	config.Path = filepath.Join(t.TempDir(), "history.db")

	s, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_StoreAndQuery(t *testing.T) {
	s := newTestSQLiteStorage(t)
	ctx := context.Background()

	record := testRecord("sink", false, time.Now().Round(time.Millisecond))
	record.ConnectorName = "mongo-sink"
	record.ConnectorClass = "MongoDbAtlasSink"
	record.MissingRequired = []string{"database", "collection"}
	record.ErrorMessages = []string{"Missing required fields: database, collection"}
	record.InvalidValues = []validate.InvalidValue{
		{Field: "kafka.auth.mode", Value: "OAUTH", Allowed: []string{"KAFKA_API_KEY"}},
	}

	if err := s.Store(ctx, record); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, err := s.Query(ctx, &Query{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Query() returned %d records, want 1", len(got))
	}

	r := got[0]
	if r.ID != record.ID {
		t.Errorf("ID = %q, want %q", r.ID, record.ID)
	}
	if r.ConnectorName != "mongo-sink" || r.ConnectorClass != "MongoDbAtlasSink" {
		t.Errorf("connector identity = %q/%q", r.ConnectorName, r.ConnectorClass)
	}
	if r.Valid {
		t.Error("Valid should round-trip as false")
	}
	if len(r.MissingRequired) != 2 || r.MissingRequired[0] != "database" {
		t.Errorf("MissingRequired = %v", r.MissingRequired)
	}
	if len(r.InvalidValues) != 1 || r.InvalidValues[0].Field != "kafka.auth.mode" {
		t.Errorf("InvalidValues = %v", r.InvalidValues)
	}
	if r.Duration != record.Duration {
		t.Errorf("Duration = %v, want %v", r.Duration, record.Duration)
	}
}

func TestSQLiteStorage_QueryFilters(t *testing.T) {
	s := newTestSQLiteStorage(t)
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
	if len(got) == 2 && got[0].ValidatedAt.Before(got[1].ValidatedAt) {
		t.Error("results should be newest first")
	}

	valid := false
	got, _ = s.Query(ctx, &Query{Valid: &valid})
	if len(got) != 1 {
		t.Errorf("valid filter returned %d records, want 1", len(got))
	}

	got, _ = s.Query(ctx, &Query{Limit: 2})
	if len(got) != 2 {
		t.Errorf("limit returned %d records, want 2", len(got))
	}
}

func TestSQLiteStorage_Retention(t *testing.T) {
	s := newTestSQLiteStorage(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		s.Store(ctx, testRecord("sink", true, now.Add(time.Duration(-i)*time.Hour)))
	}

	deleted, err := s.DeleteOlderThan(ctx, now.Add(-150*time.Minute))
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteOlderThan() = %d, want 2", deleted)
	}

	deleted, err = s.TrimToCount(ctx, 1)
	if err != nil {
		t.Fatalf("TrimToCount() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("TrimToCount() = %d, want 2", deleted)
	}

	count, _ := s.Count(ctx)
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	got, _ := s.Query(ctx, &Query{})
	if len(got) != 1 || !got[0].ValidatedAt.After(now.Add(-30*time.Minute)) {
		t.Error("newest record should survive trimming")
	}
}
