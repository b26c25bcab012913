package rules

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestShouldProcessEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "csv write",
			event: fsnotify.Event{Name: "rules/managed_sink_configs.csv", Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "csv create",
			event: fsnotify.Event{Name: "rules/general_managed_configs.CSV", Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "chmod ignored",
			event: fsnotify.Event{Name: "rules/managed_sink_configs.csv", Op: fsnotify.Chmod},
			want:  false,
		},
		{
			name:  "non-csv ignored",
			event: fsnotify.Event{Name: "rules/notes.txt", Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "hidden file ignored",
			event: fsnotify.Event{Name: "rules/.managed_sink_configs.csv.swp", Op: fsnotify.Write},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcher_OnReloadReportsResult(t *testing.T) {
	dir := t.TempDir()
	writeRuleFiles(t, dir,
		"name,what_to_do\nname,REQUIRE\n",
		"name,what_to_do\n",
		"name,what_to_do\n",
	)

	reg := NewRegistry(dir, nil)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	installed, _ := reg.Snapshot()

	w, err := NewWatcher(reg, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.watcher.Close()

	var results []error
	w.OnReload(func(err error) { results = append(results, err) })

	w.reload(filepath.Join(dir, SinkFile))

	bad := filepath.Join(dir, SinkFile)
	if err := os.WriteFile(bad, []byte("name,what_to_do\ndatabase,NONSENSE\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.reload(bad)

	if len(results) != 2 {
		t.Fatalf("callback ran %d times, want 2", len(results))
	}
	if results[0] != nil {
		t.Errorf("first reload reported error %v, want nil", results[0])
	}
	if results[1] == nil {
		t.Error("failed reload should report its error to the callback")
	}

	snap, err := reg.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap == installed {
		t.Error("successful reload should have installed a new snapshot")
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)
	defer d.stop()

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.trigger(func() { calls.Add(1) })
	}

	time.Sleep(200 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	d.trigger(func() { calls.Add(1) })
	d.stop()

	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("callback ran %d times after stop, want 0", got)
	}
}
