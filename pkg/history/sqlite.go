package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "history.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists a validation record to the database.
func (s *SQLiteStorage) Store(ctx context.Context, record *Record) error {
	missing, _ := json.Marshal(record.MissingRequired)
	disallowed, _ := json.Marshal(record.DisallowedPresent)
	invalid, _ := json.Marshal(record.InvalidValues)
	messages, _ := json.Marshal(record.ErrorMessages)

	query := `
		INSERT INTO validations (
			id, connector_name, connector_class,
			direction, valid,
			missing_required, disallowed_present, invalid_values, error_messages,
			rule_count, duration_us, validated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.ConnectorName, record.ConnectorClass,
		record.Direction, record.Valid,
		string(missing), string(disallowed), string(invalid), string(messages),
		record.RuleCount, record.Duration.Microseconds(), record.ValidatedAt,
	)
	if err != nil {
		return NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Query retrieves validation records matching the query filters, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, query *Query) ([]*Record, error) {
	if query == nil {
		query = &Query{}
	}

	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT * FROM validations"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY validated_at DESC"
	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", query.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the total number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM validations").Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteOlderThan removes records validated before the cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM validations WHERE validated_at < ?", cutoff)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_older_than", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_older_than", err)
	}
	return count, nil
}

// TrimToCount removes the oldest records until at most max remain.
func (s *SQLiteStorage) TrimToCount(ctx context.Context, max int64) (int64, error) {
	query := `
		DELETE FROM validations WHERE id NOT IN (
			SELECT id FROM validations ORDER BY validated_at DESC LIMIT ?
		)
	`
	result, err := s.db.ExecContext(ctx, query, max)
	if err != nil {
		return 0, NewStorageError("sqlite", "trim_to_count", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "trim_to_count", err)
	}
	return count, nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the WHERE clause (without "WHERE" keyword) and the query arguments.
func buildWhereClause(query *Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if query.Direction != "" {
		conditions = append(conditions, "direction = ?")
		args = append(args, query.Direction)
	}
	if query.Valid != nil {
		conditions = append(conditions, "valid = ?")
		args = append(args, *query.Valid)
	}
	if query.Since != nil {
		conditions = append(conditions, "validated_at >= ?")
		args = append(args, *query.Since)
	}
	if query.Until != nil {
		conditions = append(conditions, "validated_at < ?")
		args = append(args, *query.Until)
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}
	return whereClause, args
}

// scanRow scans a database row into a Record.
func scanRow(row *sql.Rows) (*Record, error) {
	var record Record
	var connectorName, connectorClass sql.NullString
	var missing, disallowed, invalid, messages string
	var durationUs int64

	err := row.Scan(
		&record.ID, &connectorName, &connectorClass,
		&record.Direction, &record.Valid,
		&missing, &disallowed, &invalid, &messages,
		&record.RuleCount, &durationUs, &record.ValidatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ConnectorName = connectorName.String
	record.ConnectorClass = connectorClass.String
	record.Duration = time.Duration(durationUs) * time.Microsecond

	if missing != "" {
		json.Unmarshal([]byte(missing), &record.MissingRequired)
	}
	if disallowed != "" {
		json.Unmarshal([]byte(disallowed), &record.DisallowedPresent)
	}
	if invalid != "" {
		json.Unmarshal([]byte(invalid), &record.InvalidValues)
	}
	if messages != "" {
		json.Unmarshal([]byte(messages), &record.ErrorMessages)
	}

	return &record, nil
}
