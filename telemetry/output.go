package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/plife/config"
)

// Output file names inside a run directory.
const (
	TelemetryFile = "telemetry.csv"
	PerfFile      = "perf.csv"
	BookmarkFile  = "bookmarks.csv"
	ConfigFile    = "config.yaml"
)

// Run identifies one simulation run. Runs sharing an output root get
// separate directories.
type Run struct {
	Index     string // spatial index kind
	Particles int    // initial particle count
	Seed      int64
}

// Name returns the run directory name, e.g. "kdtree-n2000-s42".
func (r Run) Name() string {
	return fmt.Sprintf("%s-n%d-s%d", r.Index, r.Particles, r.Seed)
}

// csvLog is an append-only CSV file whose header goes out with the first record.
type csvLog struct {
	name          string
	f             *os.File
	headerWritten bool
}

func (l *csvLog) open(dir string) error {
	f, err := os.Create(filepath.Join(dir, l.name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", l.name, err)
	}
	l.f = f
	return nil
}

func (l *csvLog) close() error {
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// writeRecord appends one record to l.
func writeRecord[T any](l *csvLog, rec T) error {
	records := []T{rec}
	if l.headerWritten {
		if err := gocsv.MarshalWithoutHeaders(records, l.f); err != nil {
			return fmt.Errorf("writing %s: %w", l.name, err)
		}
		return nil
	}
	if err := gocsv.Marshal(records, l.f); err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	l.headerWritten = true
	return nil
}

// OutputManager writes a run's window stats, perf windows and bookmarks as
// CSV under <root>/<run name>. A nil manager discards everything.
type OutputManager struct {
	dir string
	run Run

	telemetry csvLog
	perf      csvLog
	bookmarks csvLog
}

// NewOutputManager creates the run directory and its CSV files.
// Returns nil if root is empty (output disabled).
func NewOutputManager(root string, run Run) (*OutputManager, error) {
	if root == "" {
		return nil, nil
	}

	om := &OutputManager{
		dir:       filepath.Join(root, run.Name()),
		run:       run,
		telemetry: csvLog{name: TelemetryFile},
		perf:      csvLog{name: PerfFile},
		bookmarks: csvLog{name: BookmarkFile},
	}
	if err := os.MkdirAll(om.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	for _, l := range om.logs() {
		if err := l.open(om.dir); err != nil {
			om.Close()
			return nil, err
		}
	}
	return om, nil
}

func (om *OutputManager) logs() []*csvLog {
	return []*csvLog{&om.telemetry, &om.perf, &om.bookmarks}
}

// WriteConfig saves the configuration the run started from.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends a window stats record.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return writeRecord(&om.telemetry, stats)
}

// WritePerf appends a perf window labelled with the run's index kind.
// particles is the live count, which differs from the run's after a reset.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32, particles int) error {
	if om == nil {
		return nil
	}
	return writeRecord(&om.perf, stats.ToCSV(windowEnd, om.run.Index, particles))
}

// WriteBookmark appends a bookmark record.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return writeRecord(&om.bookmarks, b)
}

// Dir returns the run directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every output file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, l := range om.logs() {
		if err := l.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
