package reduce

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// NoElevation marks a point whose source carried no elevation.
const NoElevation = math.MinInt32

var (
	// ErrEmptyTrack is returned when a track has no points to reduce.
	ErrEmptyTrack = errors.New("track contains no points")

	// ErrInvalidParameter is returned for configuration values outside
	// their documented range.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Point represents a GPS sample for the reduction pipeline
type Point struct {
	Lat       float64
	Lon       float64
	Elevation int // NoElevation when absent

	// Retained is cleared by the pipeline for points that are dropped
	Retained bool

	// Original position for reconstruction
	SegIdx, PtIdx int
}

// HasElevation reports whether the point carries an elevation value.
func (p Point) HasElevation() bool {
	return p.Elevation != NoElevation
}

// replaceWith overwrites the sample with another point's position,
// keeping its own identity within the track.
func (p *Point) replaceWith(other Point) {
	p.Lat = other.Lat
	p.Lon = other.Lon
	p.Elevation = other.Elevation
}

// Config holds reduction parameters. Thresholds are in meters.
type Config struct {
	// SpikeFactor scales the perpendicular deviation of a point against
	// the chord of its neighbours. 0 disables the spike filter.
	SpikeFactor float64

	// NearbyMeters collapses consecutive points closer than this. 0 disables.
	NearbyMeters float64

	// EpsilonMeters is the maximum deviation tolerated by RDP.
	EpsilonMeters float64

	// Elevation keeps elevation on retained points when true.
	Elevation bool
}

// DefaultConfig returns the settings used when no flags are given
func DefaultConfig() Config {
	return Config{
		SpikeFactor:   0,   // disabled
		NearbyMeters:  0,   // disabled
		EpsilonMeters: 2.0, // meters
		Elevation:     true,
	}
}

// Validate rejects negative or non-finite parameters.
func (c Config) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s must be a finite value >= 0, got %v", ErrInvalidParameter, name, v)
		}
		return nil
	}

	if err := check("spike factor", c.SpikeFactor); err != nil {
		return err
	}
	if err := check("nearby distance", c.NearbyMeters); err != nil {
		return err
	}
	return check("epsilon", c.EpsilonMeters)
}

// Stats describes what the pipeline did to one track
type Stats struct {
	OriginalPoints int     `json:"original_points"`
	FinalPoints    int     `json:"final_points"`
	PointsRemoved  int     `json:"points_removed"`
	PointsPercent  float64 `json:"points_removed_percent"`

	// Processing steps
	Despiked         int `json:"despiked_points"`
	Collapsed        int `json:"collapsed_points"`
	Trimmed          int `json:"trimmed_points"`
	DegenerateChords int `json:"degenerate_chords"`

	ProcessingTime time.Duration `json:"processing_time_ns"`
}

// Result contains the retained points and statistics
type Result struct {
	Points []Point
	Stats  Stats
}
