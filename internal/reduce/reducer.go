package reduce

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Reducer runs the reduction pipeline with one validated configuration.
// Meter thresholds are converted to degree-units once, at construction.
type Reducer struct {
	config Config

	spikeFactor float64
	nearby      float64 // degrees
	epsilon     float64 // degrees
}

// NewReducer validates config and prepares a Reducer.
func NewReducer(config Config) (*Reducer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Reducer{
		config:      config,
		spikeFactor: config.SpikeFactor,
		nearby:      MetersToDegrees(config.NearbyMeters),
		epsilon:     MetersToDegrees(config.EpsilonMeters),
	}, nil
}

// Config returns the configuration the reducer was built with.
func (r *Reducer) Config() Config {
	return r.config
}

// Reduce runs spike removal, nearby collapse, closed-end trim and RDP over
// one track and returns the retained points in their original order.
// The input slice is not modified.
func (r *Reducer) Reduce(points []Point) (Result, error) {
	if len(points) == 0 {
		return Result{}, fmt.Errorf("reduce: %w", ErrEmptyTrack)
	}

	startTime := time.Now()

	work := slices.Clone(points)
	for i := range work {
		work[i].Retained = true
	}

	var stats Stats
	stats.OriginalPoints = len(work)

	if r.spikeFactor > 0 {
		stats.Despiked = Despike(work, r.spikeFactor)
	}
	if r.nearby > 0 {
		stats.Collapsed = CollapseNearby(work, r.nearby)
	}

	n := TrimClosedEnd(work)
	stats.Trimmed = len(work) - n
	for i := n; i < len(work); i++ {
		work[i].Retained = false
	}

	stats.DegenerateChords = Simplify(work[:n], r.epsilon)

	retained := make([]Point, 0, n)
	for _, p := range work {
		if !p.Retained {
			continue
		}
		if !r.config.Elevation {
			p.Elevation = NoElevation
		}
		retained = append(retained, p)
	}

	stats.FinalPoints = len(retained)
	stats.PointsRemoved = stats.OriginalPoints - stats.FinalPoints
	stats.PointsPercent = float64(stats.PointsRemoved) / float64(stats.OriginalPoints) * 100
	stats.ProcessingTime = time.Since(startTime)

	slog.Debug("track reduced",
		"points", stats.OriginalPoints,
		"retained", stats.FinalPoints,
		"despiked", stats.Despiked,
		"collapsed", stats.Collapsed,
		"trimmed", stats.Trimmed,
		"degenerate_chords", stats.DegenerateChords,
	)

	return Result{Points: retained, Stats: stats}, nil
}
