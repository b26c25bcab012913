package main

import (
	"os"
	"path/filepath"
	"testing"

	"streamhq/confgate/pkg/config"
	"streamhq/confgate/pkg/history"
)

func TestReadConnectorConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connector.json")
	content := `{
		"name": "mongo-sink",
		"connector.class": "MongoDbAtlasSink",
		"tasks.max": 3
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := readConnectorConfig(path)
	if err != nil {
		t.Fatalf("readConnectorConfig() error = %v", err)
	}
	if cfg["name"] != "mongo-sink" {
		t.Errorf("name = %v", cfg["name"])
	}
	if cfg["tasks.max"] != float64(3) {
		t.Errorf("tasks.max = %v", cfg["tasks.max"])
	}
}

func TestReadConnectorConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connector.json")
	os.WriteFile(path, []byte("not json"), 0644)

	if _, err := readConnectorConfig(path); err == nil {
		t.Error("readConnectorConfig() should fail on invalid JSON")
	}
	if _, err := readConnectorConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("readConnectorConfig() should fail on a missing file")
	}
}

func TestOpenHistoryStorage(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.History.Backend = "memory"
	storage, err := openHistoryStorage(cfg)
	if err != nil {
		t.Fatalf("openHistoryStorage(memory) error = %v", err)
	}
	if _, ok := storage.(*history.MemoryStorage); !ok {
		t.Errorf("backend = %T, want *history.MemoryStorage", storage)
	}
	storage.Close()

	cfg.History.Backend = "cassandra"
	if _, err := openHistoryStorage(cfg); err == nil {
		t.Error("openHistoryStorage() should reject unknown backends")
	}
}
