package process

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/planbiir/gpxding/internal/export"
	"github.com/planbiir/gpxding/internal/gpx"
)

// SplitPath derives <base>_<n><ext> for the n-th track, counting from 1
func SplitPath(input string, n int) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if ext == "" {
		ext = export.GPX.Extension()
	}
	return base + "_" + strconv.Itoa(n) + ext
}

// Split writes every track of input to its own GPX file, unreduced, and
// returns the paths written.
func Split(input string) ([]string, error) {
	doc, err := gpx.Parse(input)
	if err != nil {
		return nil, err
	}

	docs := doc.SplitTracks()
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: no <trk> found", input)
	}

	written := make([]string, 0, len(docs))
	for i, d := range docs {
		out := SplitPath(input, i+1)
		if _, err := writeAtomic(out, func(f *os.File) error {
			return d.WriteToWriter(f)
		}); err != nil {
			return written, err
		}
		written = append(written, out)

		points, _, segments, duration, km := d.Stats()
		slog.Debug("track written",
			"output", out,
			"points", points,
			"segments", segments,
			"duration", duration,
			"km", km,
		)
	}
	return written, nil
}
