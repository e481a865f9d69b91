package reduce

// span is an inclusive index range into the track under simplification.
type span struct {
	first, last int
}

// Simplify applies Ramer-Douglas-Peucker to points, clearing Retained on
// every point that lies within epsilon (degree-units) of the chord of the
// range it belongs to. The first and last point are never cleared.
//
// Ranges are kept on an explicit stack. The left half of a split is
// finished before the right half starts, and the pivot is an endpoint of
// both halves, so it keeps its flag.
//
// Returns the number of ranges whose endpoints coincide.
func Simplify(points []Point, epsilon float64) int {
	if len(points) < 3 {
		return 0
	}

	degenerate := 0
	stack := []span{{0, len(points) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.last-s.first < 2 {
			continue
		}

		a, b := points[s.first], points[s.last]
		if a.Lat == b.Lat && a.Lon == b.Lon {
			degenerate++
		}

		index := s.first
		dmax := 0.0
		for i := s.first + 1; i < s.last; i++ {
			d := PerpendicularDistance(points[i], a, b)
			if d > dmax {
				index = i
				dmax = d
			}
		}

		if dmax > epsilon {
			// pushed in reverse so the left half pops first
			stack = append(stack, span{index, s.last}, span{s.first, index})
			continue
		}

		for i := s.first + 1; i < s.last; i++ {
			points[i].Retained = false
		}
	}
	return degenerate
}
