package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/plife/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRunName(t *testing.T) {
	tests := []struct {
		run  Run
		want string
	}{
		{Run{Index: "kdtree", Particles: 2000, Seed: 42}, "kdtree-n2000-s42"},
		{Run{Index: "grid", Particles: 0, Seed: 7}, "grid-n0-s7"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.run.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", Run{Index: "kdtree"})
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty root")
	}
	// Methods are nil-safe
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry on nil manager: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 1, 1); err != nil {
		t.Errorf("WritePerf on nil manager: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir() = %q on nil manager, want empty", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	root := t.TempDir()
	run := Run{Index: "grid", Particles: 2000, Seed: 42}
	om, err := NewOutputManager(root, run)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(root, "grid-n2000-s42")
	if om.Dir() != dir {
		t.Fatalf("Dir() = %q, want %q", om.Dir(), dir)
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Particles: 2000, SpeciesMix: "A:1000 B:1000"}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
		if err := om.WritePerf(PerfStats{}, int32(i*600), 1500); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkClustering, Tick: 600, Description: "x"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, TelemetryFile))
	if len(lines) != 3 {
		t.Fatalf("%s has %d lines, want header + 2 rows", TelemetryFile, len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,particles,species_mix") {
		t.Errorf("telemetry header = %q", lines[0])
	}

	perf := readLines(t, filepath.Join(dir, PerfFile))
	if len(perf) != 3 {
		t.Fatalf("%s has %d lines, want header + 2 rows", PerfFile, len(perf))
	}
	if !strings.HasPrefix(perf[1], "600,grid,1500,") {
		t.Errorf("perf row = %q, want it to start with 600,grid,1500,", perf[1])
	}

	bookmarks := readLines(t, filepath.Join(dir, BookmarkFile))
	if len(bookmarks) != 2 || bookmarks[0] != "type,tick,description" {
		t.Errorf("bookmarks = %q, want header + 1 row", bookmarks)
	}

	if _, err := config.Load(filepath.Join(dir, ConfigFile)); err != nil {
		t.Errorf("written %s does not load: %v", ConfigFile, err)
	}
}

func TestOutputManagerSeparatesRuns(t *testing.T) {
	root := t.TempDir()
	for _, index := range []string{"kdtree", "grid"} {
		om, err := NewOutputManager(root, Run{Index: index, Particles: 10, Seed: 1})
		if err != nil {
			t.Fatal(err)
		}
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: 5}); err != nil {
			t.Fatal(err)
		}
		if err := om.Close(); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("root has %d entries, want one directory per run", len(entries))
	}
}
