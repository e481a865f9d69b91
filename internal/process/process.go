// Package process reduces GPX files end to end: parse, reduce every track
// and route, rebuild the document and write it in the requested format.
package process

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/planbiir/gpxding/internal/export"
	"github.com/planbiir/gpxding/internal/gpx"
	"github.com/planbiir/gpxding/internal/metrics"
	"github.com/planbiir/gpxding/internal/reduce"
	"github.com/planbiir/gpxding/internal/report"
)

// Options controls how reduced documents are written
type Options struct {
	// Output overrides the derived output path. Only valid for one input.
	Output  string
	Format  export.Format
	Digits  int
	Minimal bool
}

// Processor reduces files with one reducer and one set of options
type Processor struct {
	reducer *reduce.Reducer
	opts    Options
	metrics *metrics.Metrics
}

// New creates a Processor. m may be nil when no metrics are collected.
func New(reducer *reduce.Reducer, opts Options, m *metrics.Metrics) *Processor {
	if opts.Format == "" {
		opts.Format = export.GPX
	}
	return &Processor{reducer: reducer, opts: opts, metrics: m}
}

// OutputPath derives <base>_reduced<ext> from the input path
func OutputPath(input string, format export.Format) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + "_reduced" + format.Extension()
}

// File reduces one input file and writes the result. Nothing is left at
// the output path when an error is returned.
func (p *Processor) File(input string) (report.File, error) {
	rep, err := p.file(input)
	if p.metrics != nil {
		if err != nil {
			p.metrics.FilesFailed.Inc()
		} else {
			p.metrics.FilesProcessed.Inc()
		}
	}
	return rep, err
}

func (p *Processor) file(input string) (report.File, error) {
	rep := report.File{Input: input, Output: p.opts.Output}
	if rep.Output == "" {
		rep.Output = OutputPath(input, p.opts.Format)
	}

	info, err := os.Stat(input)
	if err != nil {
		return rep, err
	}
	rep.InputBytes = info.Size()

	doc, err := gpx.Parse(input)
	if err != nil {
		return rep, err
	}

	paths := doc.Paths()
	var original, final [][]gpx.Point
	reduced := make([]gpx.Path, 0, len(paths))

	for _, path := range paths {
		if len(path.Points) == 0 {
			slog.Warn("skipping empty path", "file", input, "kind", path.Kind, "index", path.Index)
			continue
		}

		points, stats, err := p.reducePath(path.Points)
		if err != nil {
			return rep, fmt.Errorf("%s %s %d: %w", input, path.Kind, path.Index, err)
		}
		if p.metrics != nil {
			p.metrics.ObservePath(path.Kind.String(), stats)
		}

		rep.Paths++
		rep.OriginalPoints += stats.OriginalPoints
		rep.FinalPoints += stats.FinalPoints
		original = append(original, path.Points)

		path.Points = points
		reduced = append(reduced, path)
	}

	if rep.OriginalPoints == 0 {
		return rep, fmt.Errorf("%s does not contain rtept/trkpt: %w", input, reduce.ErrEmptyTrack)
	}

	doc.ReplacePaths(reduced)
	doc.Round(p.opts.Digits)
	if p.opts.Minimal {
		doc.Minimal()
	}
	for _, path := range doc.Paths() {
		final = append(final, path.Points)
	}
	if err := rep.Measure(original, final); err != nil {
		return rep, err
	}

	rep.OutputBytes, err = writeAtomic(rep.Output, func(f *os.File) error {
		return export.Write(f, doc, p.opts.Format)
	})
	if err != nil {
		return rep, err
	}

	slog.Debug("file reduced",
		"input", input,
		"output", rep.Output,
		"points", rep.OriginalPoints,
		"retained", rep.FinalPoints,
	)
	return rep, nil
}

// reducePath runs the pipeline over one path and maps the retained points
// back onto their source points, which keep time, name and extensions.
func (p *Processor) reducePath(points []gpx.Point) ([]gpx.Point, reduce.Stats, error) {
	type key struct{ seg, pt int }

	source := make(map[key]gpx.Point, len(points))
	input := make([]reduce.Point, len(points))
	for i, gp := range points {
		source[key{gp.SegIdx, gp.PtIdx}] = gp
		input[i] = toReducePoint(gp)
	}

	result, err := p.reducer.Reduce(input)
	if err != nil {
		return nil, reduce.Stats{}, err
	}

	out := make([]gpx.Point, 0, len(result.Points))
	for _, rp := range result.Points {
		gp, ok := source[key{rp.SegIdx, rp.PtIdx}]
		if !ok {
			return nil, reduce.Stats{}, fmt.Errorf("retained point %d/%d has no source", rp.SegIdx, rp.PtIdx)
		}
		out = append(out, fromReducePoint(gp, rp))
	}
	return out, result.Stats, nil
}

// toReducePoint truncates elevation to whole meters
func toReducePoint(gp gpx.Point) reduce.Point {
	rp := reduce.Point{
		Lat:       float64(gp.Lat),
		Lon:       float64(gp.Lon),
		Elevation: reduce.NoElevation,
		SegIdx:    gp.SegIdx,
		PtIdx:     gp.PtIdx,
	}
	if gp.Elevation != nil {
		rp.Elevation = int(*gp.Elevation)
	}
	return rp
}

// fromReducePoint writes the reduced position into the source point. The
// source elevation is kept at full resolution unless the pipeline changed it.
func fromReducePoint(gp gpx.Point, rp reduce.Point) gpx.Point {
	gp.Lat = gpx.Degrees(rp.Lat)
	gp.Lon = gpx.Degrees(rp.Lon)

	switch {
	case !rp.HasElevation():
		gp.Elevation = nil
	case gp.Elevation == nil || int(*gp.Elevation) != rp.Elevation:
		ele := float64(rp.Elevation)
		gp.Elevation = &ele
	}
	return gp
}

// writeAtomic writes into a temporary file next to path and renames it
// into place. It returns the size of the written file.
func writeAtomic(path string, write func(*os.File) error) (size int64, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}

	info, err := tmp.Stat()
	if err != nil {
		return 0, err
	}
	if err = tmp.Close(); err != nil {
		return 0, err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("rename output: %w", err)
	}
	return info.Size(), nil
}
