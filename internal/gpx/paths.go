package gpx

// PathKind tells whether a path came from a track or a route
type PathKind int

const (
	TrackPath PathKind = iota
	RoutePath
)

func (k PathKind) String() string {
	if k == RoutePath {
		return "route"
	}
	return "track"
}

// Path is one independently reducible point sequence: all segments of a
// track concatenated in order, or the points of a route.
type Path struct {
	Kind   PathKind
	Index  int // position among the document's tracks or routes
	Name   string
	Points []Point
}

// Paths returns every route and track of the document. Points keep their
// segment and point indices so the document can be rebuilt afterwards.
func (g *GPX) Paths() []Path {
	var paths []Path

	for routeIdx, route := range g.Routes {
		points := make([]Point, len(route.Points))
		copy(points, route.Points)
		paths = append(paths, Path{Kind: RoutePath, Index: routeIdx, Name: route.Name, Points: points})
	}

	for trackIdx, track := range g.Tracks {
		var points []Point
		for segIdx, segment := range track.Segments {
			for ptIdx, point := range segment.Points {
				point.SegIdx = segIdx
				point.PtIdx = ptIdx
				points = append(points, point)
			}
		}
		paths = append(paths, Path{Kind: TrackPath, Index: trackIdx, Name: track.Name, Points: points})
	}

	return paths
}

// FlattenPoints returns all track points from all tracks and segments in order
func (g *GPX) FlattenPoints() []Point {
	var points []Point
	for _, path := range g.Paths() {
		if path.Kind == TrackPath {
			points = append(points, path.Points...)
		}
	}
	return points
}

// ReplacePaths rebuilds routes and tracks from filtered paths. Points are
// grouped back into their original segments; segments, tracks and routes
// left without points are dropped, as are those missing from paths.
func (g *GPX) ReplacePaths(paths []Path) {
	var newRoutes []Route
	var newTracks []Track

	for _, path := range paths {
		if len(path.Points) == 0 {
			continue
		}

		switch path.Kind {
		case RoutePath:
			if path.Index >= len(g.Routes) {
				continue
			}
			route := g.Routes[path.Index]
			route.Points = path.Points
			newRoutes = append(newRoutes, route)

		case TrackPath:
			if path.Index >= len(g.Tracks) {
				continue
			}
			original := g.Tracks[path.Index]

			segmentMap := make(map[int][]Point)
			for _, point := range path.Points {
				segmentMap[point.SegIdx] = append(segmentMap[point.SegIdx], point)
			}

			var newSegments []TrackSegment
			for segIdx := 0; segIdx < len(original.Segments); segIdx++ {
				if points, exists := segmentMap[segIdx]; exists && len(points) > 0 {
					newSegments = append(newSegments, TrackSegment{
						Points:     points,
						Extensions: original.Segments[segIdx].Extensions,
					})
				}
			}

			if len(newSegments) > 0 {
				track := original
				track.Segments = newSegments
				newTracks = append(newTracks, track)
			}
		}
	}

	g.Routes = newRoutes
	g.Tracks = newTracks
	g.index()
}
