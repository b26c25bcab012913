package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the validation history schema.
const Schema = `
-- Validation records table
CREATE TABLE IF NOT EXISTS validations (
    id TEXT PRIMARY KEY,

    -- Connector identity
    connector_name TEXT,
    connector_class TEXT,

    -- Outcome
    direction TEXT NOT NULL,
    valid BOOLEAN NOT NULL,

    -- Findings (JSON-encoded lists)
    missing_required TEXT,
    disallowed_present TEXT,
    invalid_values TEXT,
    error_messages TEXT,

    -- Evaluation stats
    rule_count INTEGER NOT NULL,
    duration_us INTEGER NOT NULL,

    validated_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_validations_validated_at ON validations(validated_at);
CREATE INDEX IF NOT EXISTS idx_validations_direction ON validations(direction);
CREATE INDEX IF NOT EXISTS idx_validations_valid ON validations(valid);
CREATE INDEX IF NOT EXISTS idx_validations_connector_class ON validations(connector_class);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
