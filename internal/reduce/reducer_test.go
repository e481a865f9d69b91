package reduce

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestReducer(t *testing.T, config Config) *Reducer {
	t.Helper()
	r, err := NewReducer(config)
	if err != nil {
		t.Fatalf("NewReducer failed: %v", err)
	}
	return r
}

func TestNewReducerRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"negative epsilon", Config{EpsilonMeters: -1}},
		{"negative nearby", Config{EpsilonMeters: 2, NearbyMeters: -0.5}},
		{"negative spike", Config{EpsilonMeters: 2, SpikeFactor: -3}},
		{"NaN spike", Config{EpsilonMeters: 2, SpikeFactor: math.NaN()}},
		{"infinite epsilon", Config{EpsilonMeters: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReducer(tt.config)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if err := config.Validate(); err != nil {
		t.Fatalf("DefaultConfig should be valid: %v", err)
	}
	if config.EpsilonMeters != 2.0 {
		t.Errorf("Expected 2 m precision, got %v", config.EpsilonMeters)
	}
	if config.SpikeFactor != 0 || config.NearbyMeters != 0 {
		t.Errorf("Spike and nearby filters should be disabled by default")
	}
	if !config.Elevation {
		t.Errorf("Elevation should be kept by default")
	}
}

func TestReduceEmptyTrack(t *testing.T) {
	r := newTestReducer(t, DefaultConfig())

	result, err := r.Reduce(nil)
	if !errors.Is(err, ErrEmptyTrack) {
		t.Fatalf("Expected ErrEmptyTrack, got %v", err)
	}
	if len(result.Points) != 0 {
		t.Errorf("Expected no output on error, got %d points", len(result.Points))
	}
}

func TestReduceSinglePoint(t *testing.T) {
	r := newTestReducer(t, DefaultConfig())

	result, err := r.Reduce([]Point{{Lat: 46, Lon: 7, Elevation: 1000}})
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if len(result.Points) != 1 {
		t.Errorf("Expected the single point to survive, got %d", len(result.Points))
	}
}

func TestReduceClosedTriangle(t *testing.T) {
	r := newTestReducer(t, DefaultConfig())

	points := []Point{
		{Lat: 0, Lon: 0, PtIdx: 0},
		{Lat: 0, Lon: 10, PtIdx: 1},
		{Lat: 0, Lon: 0, PtIdx: 2},
	}

	result, err := r.Reduce(points)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if result.Stats.Trimmed != 1 {
		t.Errorf("Expected 1 trimmed point, got %d", result.Stats.Trimmed)
	}
	if result.Stats.DegenerateChords != 0 {
		t.Errorf("Trim should leave no zero-length chord, got %d", result.Stats.DegenerateChords)
	}

	var got []int
	for _, p := range result.Points {
		got = append(got, p.PtIdx)
	}
	if diff := cmp.Diff([]int{0, 1}, got); diff != "" {
		t.Errorf("retained points mismatch (-want +got):\n%s", diff)
	}
}

func TestReduceNearbyCollapse(t *testing.T) {
	config := DefaultConfig()
	config.NearbyMeters = 5
	r := newTestReducer(t, config)

	points := []Point{
		{Lat: 45.0, Lon: 7.0, Elevation: 100, PtIdx: 0},
		{Lat: 45.00001, Lon: 7.0, Elevation: 101, PtIdx: 1}, // ~1.1 m away
		{Lat: 45.01, Lon: 7.01, Elevation: 150, PtIdx: 2},
	}

	result, err := r.Reduce(points)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if result.Stats.Collapsed != 1 {
		t.Errorf("Expected 1 collapsed point, got %d", result.Stats.Collapsed)
	}
	if len(result.Points) != 2 {
		t.Fatalf("Expected 2 points after collapse, got %d", len(result.Points))
	}
	if result.Points[0].PtIdx != 0 || result.Points[1].PtIdx != 2 {
		t.Errorf("Expected points 0 and 2, got %d and %d", result.Points[0].PtIdx, result.Points[1].PtIdx)
	}
}

func TestReduceSpike(t *testing.T) {
	config := DefaultConfig()
	config.SpikeFactor = 1
	r := newTestReducer(t, config)

	points := []Point{
		{Lat: 46.0, Lon: 7.0, PtIdx: 0},
		{Lat: 46.01, Lon: 7.01, PtIdx: 1}, // ~1.3 km excursion
		{Lat: 46.0001, Lon: 7.0001, PtIdx: 2},
		{Lat: 46.0002, Lon: 7.0002, PtIdx: 3},
	}

	result, err := r.Reduce(points)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	if result.Stats.Despiked != 1 {
		t.Errorf("Expected 1 despiked point, got %d", result.Stats.Despiked)
	}
	for _, p := range result.Points {
		if p.PtIdx == 1 {
			t.Errorf("Spike should not survive reduction")
		}
	}
}

func TestReduceDoesNotModifyInput(t *testing.T) {
	config := DefaultConfig()
	config.SpikeFactor = 2
	config.NearbyMeters = 10
	r := newTestReducer(t, config)

	points := wiggly(300, 11)
	original := slices.Clone(points)

	if _, err := r.Reduce(points); err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}
	if diff := cmp.Diff(original, points); diff != "" {
		t.Errorf("Reduce modified its input (-want +got):\n%s", diff)
	}
}

func TestReduceDisabledStagesMatchPlainRDP(t *testing.T) {
	r := newTestReducer(t, DefaultConfig())
	points := wiggly(800, 5)

	result, err := r.Reduce(points)
	if err != nil {
		t.Fatalf("Reduce failed: %v", err)
	}

	plain := slices.Clone(points)
	Simplify(plain, MetersToDegrees(DefaultConfig().EpsilonMeters))

	var want []int
	for _, p := range plain {
		if p.Retained {
			want = append(want, p.PtIdx)
		}
	}
	var got []int
	for _, p := range result.Points {
		got = append(got, p.PtIdx)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("retained points mismatch (-want +got):\n%s", diff)
	}
	if result.Stats.Despiked != 0 || result.Stats.Collapsed != 0 {
		t.Errorf("Disabled stages should not touch points: %+v", result.Stats)
	}
}

func TestReduceFiltersNeverIncreaseCount(t *testing.T) {
	configs := []Config{
		{EpsilonMeters: 2},
		{EpsilonMeters: 2, SpikeFactor: 3},
		{EpsilonMeters: 2, NearbyMeters: 20},
		{EpsilonMeters: 2, SpikeFactor: 3, NearbyMeters: 20},
	}

	points := wiggly(500, 9)
	for _, config := range configs {
		r := newTestReducer(t, config)
		result, err := r.Reduce(points)
		if err != nil {
			t.Fatalf("Reduce failed: %v", err)
		}
		if result.Stats.FinalPoints > result.Stats.OriginalPoints {
			t.Errorf("%+v: %d points grew to %d", config, result.Stats.OriginalPoints, result.Stats.FinalPoints)
		}
		if result.Stats.FinalPoints != len(result.Points) {
			t.Errorf("Expected %d final points, got %d", len(result.Points), result.Stats.FinalPoints)
		}
		if result.Stats.PointsRemoved != result.Stats.OriginalPoints-result.Stats.FinalPoints {
			t.Errorf("PointsRemoved inconsistent: %+v", result.Stats)
		}
	}
}

func TestReduceElevation(t *testing.T) {
	points := []Point{
		{Lat: 46.0, Lon: 7.0, Elevation: 1000},
		{Lat: 46.1, Lon: 7.0, Elevation: NoElevation},
	}

	tests := []struct {
		name      string
		elevation bool
		want      []int
	}{
		{"kept", true, []int{1000, NoElevation}},
		{"omitted", false, []int{NoElevation, NoElevation}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Elevation = tt.elevation
			r := newTestReducer(t, config)

			result, err := r.Reduce(points)
			if err != nil {
				t.Fatalf("Reduce failed: %v", err)
			}

			var got []int
			for _, p := range result.Points {
				got = append(got, p.Elevation)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("elevations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
