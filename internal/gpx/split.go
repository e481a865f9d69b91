package gpx

// SplitTracks returns one document per track. Each document keeps the
// header, metadata, waypoints and routes of the original, the way they
// precede the first <trk> in a file.
func (g *GPX) SplitTracks() []*GPX {
	docs := make([]*GPX, 0, len(g.Tracks))
	for _, track := range g.Tracks {
		doc := *g
		doc.Tracks = []Track{track}
		docs = append(docs, &doc)
	}
	return docs
}
