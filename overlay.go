package terradraw

// overlayIndex is the transient parentId → overlay-id mapping select mode
// maintains while a feature is selected. Overlays are stored as ordinary
// features with a parentId back-reference property; this index gives O(1)
// lookup from parentId to {pointIds, midpointIds}, rebuilt on selection
// and discarded on deselection. It holds no long-lived cycle: overlays
// reference their parent by id, never the reverse.
type overlayIndex struct {
	parentID    string
	pointIDs    []string
	midpointIDs []string
}

// buildVertexOverlays creates one selection-point feature per coordinate
// of the exterior ring (or linestring/point), each carrying PropParentID
// and PropVertexIndex, and returns their ids in ring order.
func buildVertexOverlays(s *Store, parentID string, verts []Coordinate) []string {
	ids := make([]string, 0, len(verts))
	for i, v := range verts {
		id, err := s.create("selection-point", Geometry{Type: GeometryPoint, Point: v}, Properties{
			PropParentID:    parentID,
			PropVertexIndex: i,
		})
		if err != nil {
			// A single point is always valid; this cannot fail in
			// practice, but surfacing it as a panic would turn a
			// store bug into a crash of unrelated draw code.
			log.Warn().Err(err).Msg("overlay: failed to create vertex overlay")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// buildMidpointOverlays creates one midpoint feature per consecutive pair
// of vertices in verts (an already-open ring, no closing duplicate), each
// carrying PropParentID and PropSegmentIndex. When closed is true (polygon
// rings), an additional midpoint is created for the closing segment
// between the last and first vertex.
func buildMidpointOverlays(s *Store, parentID string, verts []Coordinate, closed bool) []string {
	if len(verts) < 2 {
		return nil
	}
	ids := make([]string, 0, len(verts))
	for i := 0; i < len(verts)-1; i++ {
		ids = append(ids, createMidpoint(s, parentID, verts[i], verts[i+1], i))
	}
	if closed && len(verts) > 2 {
		ids = append(ids, createMidpoint(s, parentID, verts[len(verts)-1], verts[0], len(verts)-1))
	}
	return compactIDs(ids)
}

func createMidpoint(s *Store, parentID string, a, b Coordinate, segIdx int) string {
	mid := MidpointGreatCircle(a, b)
	id, err := s.create("midpoint", Geometry{Type: GeometryPoint, Point: mid}, Properties{
		PropParentID:     parentID,
		PropSegmentIndex: segIdx,
	})
	if err != nil {
		log.Warn().Err(err).Msg("overlay: failed to create midpoint overlay")
		return ""
	}
	return id
}

func compactIDs(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// deleteOverlays removes every overlay feature referenced by idx.
func deleteOverlays(s *Store, idx overlayIndex) {
	for _, id := range idx.pointIDs {
		if err := s.delete(id); err != nil {
			log.Warn().Err(err).Msg("overlay: failed to delete vertex overlay")
		}
	}
	for _, id := range idx.midpointIDs {
		if err := s.delete(id); err != nil {
			log.Warn().Err(err).Msg("overlay: failed to delete midpoint overlay")
		}
	}
}

// exteriorVertices returns the vertex list select mode derives overlays
// from: the LineString itself, the single Point, or a Polygon/MultiPolygon
// exterior ring without its closing duplicate.
func exteriorVertices(g Geometry) []Coordinate {
	switch g.Type {
	case GeometryPoint:
		return []Coordinate{g.Point}
	case GeometryLineString:
		return g.LineString
	case GeometryPolygon:
		return openRing(g.Polygon[0])
	case GeometryMultiPolygon:
		if len(g.MultiPolygon) == 0 {
			return nil
		}
		return openRing(g.MultiPolygon[0][0])
	default:
		return nil
	}
}

func openRing(ring []Coordinate) []Coordinate {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}
