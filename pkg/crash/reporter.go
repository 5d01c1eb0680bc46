// Package crash persists diagnostics when the main loop fails, so a kiosk in
// the field leaves evidence behind instead of a stack trace on the display.
package crash

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/exhibitlabs/kiosk/pkg/log"
)

// Report is the persisted crash record.
type Report struct {
	ID           string     `json:"id"`
	Timestamp    time.Time  `json:"timestamp"`
	Error        string     `json:"error"`
	Stack        string     `json:"stack"`
	RecentEvents []TapEntry `json:"recent_events"`
}

// Reporter writes gzipped JSON crash reports into a directory.
type Reporter struct {
	dir string
	tap *EventTap
}

func NewReporter(dir string, tap *EventTap) *Reporter {
	return &Reporter{
		dir: dir,
		tap: tap,
	}
}

// Capture writes a report for the given failure and returns the file path.
func (r *Reporter) Capture(cause interface{}) (string, error) {
	report := Report{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Error:     fmt.Sprintf("%v", cause),
		Stack:     string(debug.Stack()),
	}
	if r.tap != nil {
		report.RecentEvents = r.tap.History()
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create crash report dir: %v", err)
	}

	name := fmt.Sprintf("crash-%s-%s.json.gz", report.Timestamp.Format("20060102-150405"), report.ID)
	path := filepath.Join(r.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create crash report file: %v", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(report); err != nil {
		zw.Close()
		return "", fmt.Errorf("failed to encode crash report: %v", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish crash report: %v", err)
	}

	log.Error("Crash report written to %s", path)
	return path, nil
}

// Read loads a previously written report, mostly for tests and tooling.
func Read(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open crash report: %v", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read crash report: %v", err)
	}
	defer zr.Close()

	report := &Report{}
	if err := json.NewDecoder(zr).Decode(report); err != nil {
		return nil, fmt.Errorf("failed to decode crash report: %v", err)
	}
	return report, nil
}
