// Package report formats per-file reduction results for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/montanaflynn/stats"

	"github.com/planbiir/gpxding/internal/gpx"
)

// Legs summarizes the distances between consecutive points, in meters
type Legs struct {
	Mean   float64 `json:"mean_m"`
	Median float64 `json:"median_m"`
	P95    float64 `json:"p95_m"`
	Max    float64 `json:"max_m"`
}

// File is the outcome of reducing one input file
type File struct {
	Input  string `json:"input"`
	Output string `json:"output"`

	Paths          int `json:"paths"`
	OriginalPoints int `json:"original_points"`
	FinalPoints    int `json:"final_points"`

	InputBytes  int64 `json:"input_bytes"`
	OutputBytes int64 `json:"output_bytes"`

	OriginalKm float64 `json:"original_km"`
	FinalKm    float64 `json:"final_km"`

	OriginalLegs Legs `json:"original_legs"`
	FinalLegs    Legs `json:"final_legs"`
}

// PointsPercent is the share of points kept
func (f File) PointsPercent() float64 {
	return percent(f.FinalPoints, f.OriginalPoints)
}

// BytesPercent is the output size relative to the input
func (f File) BytesPercent() float64 {
	return percent(int(f.OutputBytes), int(f.InputBytes))
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100.0 / float64(total)
}

// Measure fills the length and leg statistics from the points of each path
// before and after reduction.
func (f *File) Measure(original, final [][]gpx.Point) error {
	var err error
	f.OriginalKm, f.OriginalLegs, err = measure(original)
	if err != nil {
		return fmt.Errorf("measure input: %w", err)
	}
	f.FinalKm, f.FinalLegs, err = measure(final)
	if err != nil {
		return fmt.Errorf("measure output: %w", err)
	}
	return nil
}

func measure(paths [][]gpx.Point) (float64, Legs, error) {
	var km float64
	var legs stats.Float64Data
	for _, points := range paths {
		for i := 1; i < len(points); i++ {
			d := gpx.Distance(points[i-1], points[i])
			km += d
			legs = append(legs, d*1000)
		}
	}

	if len(legs) == 0 {
		return km, Legs{}, nil
	}

	var l Legs
	var err error
	if l.Mean, err = stats.Mean(legs); err != nil {
		return 0, Legs{}, err
	}
	if l.Median, err = stats.Median(legs); err != nil {
		return 0, Legs{}, err
	}
	if l.P95, err = stats.Percentile(legs, 95); err != nil {
		return 0, Legs{}, err
	}
	if l.Max, err = stats.Max(legs); err != nil {
		return 0, Legs{}, err
	}
	return km, l, nil
}

// Print writes the summary lines for one file
func Print(w io.Writer, f File) {
	fmt.Fprintf(w, "%s => %s\n", f.Input, f.Output)
	fmt.Fprintf(w, "%8d => %8d (%.2f%%) trackpoints\n", f.OriginalPoints, f.FinalPoints, f.PointsPercent())
	fmt.Fprintf(w, "%8d => %8d (%.2f%%) bytes\n", f.InputBytes, f.OutputBytes, f.BytesPercent())
}

// PrintDetailed adds lengths and leg distribution to the summary
func PrintDetailed(w io.Writer, f File) {
	Print(w, f)
	fmt.Fprintf(w, "%8.2f => %8.2f km\n", f.OriginalKm, f.FinalKm)
	fmt.Fprintf(w, "   legs: mean %.1f → %.1f m, median %.1f → %.1f m, p95 %.1f → %.1f m, max %.1f → %.1f m\n",
		f.OriginalLegs.Mean, f.FinalLegs.Mean,
		f.OriginalLegs.Median, f.FinalLegs.Median,
		f.OriginalLegs.P95, f.FinalLegs.P95,
		f.OriginalLegs.Max, f.FinalLegs.Max)
}

// PrintJSON writes the reports as an indented JSON array
func PrintJSON(w io.Writer, files []File) error {
	data, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
