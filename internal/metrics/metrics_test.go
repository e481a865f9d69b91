package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/planbiir/gpxding/internal/reduce"
)

func TestObservePath(t *testing.T) {
	m := New()

	m.ObservePath("track", reduce.Stats{OriginalPoints: 100, FinalPoints: 20, Despiked: 3, Collapsed: 5, Trimmed: 1})
	m.ObservePath("route", reduce.Stats{OriginalPoints: 10, FinalPoints: 10})

	if got := testutil.ToFloat64(m.PathsReduced.WithLabelValues("track")); got != 1 {
		t.Errorf("Expected 1 track, got %v", got)
	}
	if got := testutil.ToFloat64(m.Points.WithLabelValues("input")); got != 110 {
		t.Errorf("Expected 110 input points, got %v", got)
	}
	if got := testutil.ToFloat64(m.Points.WithLabelValues("retained")); got != 30 {
		t.Errorf("Expected 30 retained points, got %v", got)
	}
	if got := testutil.ToFloat64(m.Points.WithLabelValues("despiked")); got != 3 {
		t.Errorf("Expected 3 despiked points, got %v", got)
	}
	if got := testutil.CollectAndCount(m.RetentionRatio); got != 1 {
		t.Errorf("Expected one histogram series, got %d", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.FilesProcessed.Inc()

	path := filepath.Join(t.TempDir(), "gpxding.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	for _, want := range []string{
		"gpxding_files_processed_total 1",
		"gpxding_last_run_timestamp_seconds",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected %q in textfile:\n%s", want, data)
		}
	}
}
