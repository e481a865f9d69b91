package report

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/planbiir/gpxding/internal/gpx"
)

func TestPrint(t *testing.T) {
	f := File{
		Input:          "ride.gpx",
		Output:         "ride_reduced.gpx",
		OriginalPoints: 1000,
		FinalPoints:    125,
		InputBytes:     200000,
		OutputBytes:    10000,
	}

	var buf strings.Builder
	Print(&buf, f)

	want := "ride.gpx => ride_reduced.gpx\n" +
		"    1000 =>      125 (12.50%) trackpoints\n" +
		"  200000 =>    10000 (5.00%) bytes\n"
	if buf.String() != want {
		t.Errorf("Unexpected report:\n%s\nexpected:\n%s", buf.String(), want)
	}
}

func TestPercentEmptyInput(t *testing.T) {
	f := File{}
	if p := f.PointsPercent(); p != 0 {
		t.Errorf("Expected 0%% for empty input, got %v", p)
	}
	if p := f.BytesPercent(); p != 0 {
		t.Errorf("Expected 0%% for empty input, got %v", p)
	}
}

func TestMeasure(t *testing.T) {
	// Three legs of ~111 m along a meridian
	original := [][]gpx.Point{{
		{Lat: 0, Lon: 0},
		{Lat: 0.001, Lon: 0},
		{Lat: 0.002, Lon: 0},
		{Lat: 0.003, Lon: 0},
	}}
	final := [][]gpx.Point{{
		{Lat: 0, Lon: 0},
		{Lat: 0.003, Lon: 0},
	}}

	var f File
	if err := f.Measure(original, final); err != nil {
		t.Fatalf("Measure failed: %v", err)
	}

	if math.Abs(f.OriginalKm-f.FinalKm) > 1e-9 {
		t.Errorf("Straight line should keep its length: %v vs %v", f.OriginalKm, f.FinalKm)
	}
	if math.Abs(f.OriginalLegs.Mean-111.2) > 0.5 {
		t.Errorf("Expected ~111 m legs, got %v", f.OriginalLegs.Mean)
	}
	if math.Abs(f.FinalLegs.Max-333.6) > 1 {
		t.Errorf("Expected ~334 m leg after reduction, got %v", f.FinalLegs.Max)
	}
}

func TestMeasureSinglePoint(t *testing.T) {
	var f File
	if err := f.Measure([][]gpx.Point{{{Lat: 1, Lon: 1}}}, nil); err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if f.OriginalKm != 0 || f.OriginalLegs != (Legs{}) {
		t.Errorf("Expected empty measurements, got %+v", f)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf strings.Builder
	if err := PrintJSON(&buf, []File{{Input: "a.gpx", OriginalPoints: 3, FinalPoints: 2}}); err != nil {
		t.Fatalf("PrintJSON failed: %v", err)
	}

	var files []map[string]any
	if err := json.Unmarshal([]byte(buf.String()), &files); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(files) != 1 || files[0]["input"] != "a.gpx" || files[0]["final_points"] != 2.0 {
		t.Errorf("Unexpected JSON %v", files)
	}
}
