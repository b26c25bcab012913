package history

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RecorderConfig contains configuration for the history recorder.
type RecorderConfig struct {
	// Enabled enables history recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing records to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes validation records to storage asynchronously so recording
// never blocks the validation path.
type Recorder struct {
	storage    Storage
	config     *RecorderConfig
	recordChan chan *Record
	wg         sync.WaitGroup
	done       chan struct{}
	logger     *slog.Logger
}

// NewRecorder creates a new history recorder with the provided storage
// backend and configuration.
func NewRecorder(storage Storage, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "history.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("history recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues a validation record for async writing to storage.
//
// This method returns immediately and does not block on storage writes.
func (r *Recorder) Record(ctx context.Context, record *Record) error {
	if !r.config.Enabled {
		return nil
	}

	select {
	case r.recordChan <- record:
		return nil
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("history channel full, dropping record",
			"record_id", record.ID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return NewStorageError("recorder", "enqueue", context.DeadlineExceeded)
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
		)
		return NewStorageError("recorder", "enqueue", context.Canceled)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close gracefully shuts down the recorder by draining the async channel and
// waiting for all pending writes to complete.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	r.logger.Debug("history recorder shut down")
	return nil
}

// worker drains the record channel and writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records before exit
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store validation record",
			"record_id", record.ID,
			"error", err,
		)
		return
	}

	r.logger.Debug("validation recorded",
		"record_id", record.ID,
		"direction", record.Direction,
		"valid", record.Valid,
	)
}
