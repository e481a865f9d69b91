package reduce

// Despike merges a point into its predecessor when it forms an implausible
// spike against its two neighbours: the chord between the neighbours is
// shorter than either leg, or the point's deviation from that chord times
// factor exceeds the chord length. The pass runs left to right and each
// replacement is seen by the following triple. Returns the number of
// replaced points; factor 0 disables the filter.
func Despike(points []Point, factor float64) int {
	if factor <= 0 {
		return 0
	}

	replaced := 0
	for i := 0; i < len(points)-2; i++ {
		ab := PlanarDistance(points[i], points[i+1])
		bc := PlanarDistance(points[i+1], points[i+2])
		ac := PlanarDistance(points[i], points[i+2])

		// Triangle inequality violated: the detour is longer than the way back
		if ac < ab || ac < bc {
			points[i+1].replaceWith(points[i])
			replaced++
			continue
		}

		pd := PerpendicularDistance(points[i+1], points[i], points[i+2])
		if pd*factor > ac {
			points[i+1].replaceWith(points[i])
			replaced++
		}
	}
	return replaced
}

// CollapseNearby merges a point into its predecessor when the two are closer
// than threshold (degree-units). The loop stops one pair short of the end, so
// the final point is never merged. Returns the number of replaced points.
func CollapseNearby(points []Point, threshold float64) int {
	if threshold <= 0 {
		return 0
	}

	replaced := 0
	for i := 0; i < len(points)-2; i++ {
		if PlanarDistance(points[i], points[i+1]) < threshold {
			points[i+1].replaceWith(points[i])
			replaced++
		}
	}
	return replaced
}

// TrimClosedEnd returns the effective length of points after dropping
// trailing points that sit exactly on the first one, so RDP never starts on
// a zero-length chord. The result is at least 1 for a non-empty slice.
func TrimClosedEnd(points []Point) int {
	n := len(points)
	for n > 1 && points[0].Lat == points[n-1].Lat && points[0].Lon == points[n-1].Lon {
		n--
	}
	return n
}
