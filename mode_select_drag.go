package terradraw

import "math"

// onDragStart, from Selected, tests in order coordinate hit, feature hit,
// rotate modifier, scale modifier; the first match freezes the map and
// enters the corresponding dragging sub-state.
func (m *SelectMode) onDragStart(e PointerEvent) {
	if !m.running() || m.state != stateSelected {
		return
	}
	id := m.selectedID
	flags := m.flagsFor(id)

	m.dragStartPx = [2]float64{e.ContainerX, e.ContainerY}
	m.dragObserved = false

	if flags.Coordinates != nil && flags.Coordinates.Draggable {
		if _, idx, ok := m.hitSelectionPoint(e); ok {
			m.dragKind = dragCoordinate
			m.dragVertexIndex = idx
			m.freezeMap()
			return
		}
	}

	if flags.Feature != nil && flags.Feature.Draggable {
		if hitID, ok := m.hitFeature(e); ok && hitID == id {
			m.dragKind = dragFeature
			m.dragLastCoord = e.coordinate()
			m.freezeMap()
			return
		}
	}

	if flags.Coordinates != nil && flags.Coordinates.Rotatable && m.keys.matchesRotate(e.HeldKeys) {
		if geom, err := m.cfg.Store.getGeometryCopy(id); err == nil {
			anchor := geometryCentroid(geom)
			m.dragKind = dragRotating
			m.dragAnchor = anchor
			m.dragPrevBearing = BearingRad(anchor, e.coordinate())
			m.freezeMap()
			return
		}
	}

	if flags.Coordinates != nil && flags.Coordinates.Resizable != ResizeNone && m.keys.matchesScale(e.HeldKeys) {
		if geom, err := m.cfg.Store.getGeometryCopy(id); err == nil {
			anchor := m.resizeAnchor(geom, flags.Coordinates.Resizable, e)
			m.dragKind = dragResizing
			m.dragAnchor = anchor
			m.dragPrevDistKm = HaversineDistanceKm(anchor, e.coordinate())
			m.freezeMap()
			return
		}
	}
}

func (m *SelectMode) freezeMap() {
	if m.cfg.SetDraggability != nil {
		m.cfg.SetDraggability(false)
	}
}

func (m *SelectMode) resizeAnchor(geom Geometry, mode ResizeMode, e PointerEvent) Coordinate {
	if mode == ResizeCenter {
		return geometryCentroid(geom)
	}
	verts := exteriorVertices(geom)
	if len(verts) == 0 {
		return geometryCentroid(geom)
	}
	idx := nearestVertexIndex(verts, e.coordinate())
	opp := (idx + len(verts)/2) % len(verts)
	return verts[opp]
}

func nearestVertexIndex(verts []Coordinate, p Coordinate) int {
	best, bestDist := 0, math.Inf(1)
	for i, v := range verts {
		d := HaversineDistanceKm(v, p)
		if d < bestDist {
			bestDist, best = d, i
		}
	}
	return best
}

// onDrag dispatches to the active dragging sub-state's step function,
// absorbing updates below the minimum-movement guard: a drag is only
// observable once the pointer has moved at least minPixelDragDistance
// (default 8px).
func (m *SelectMode) onDrag(e PointerEvent) {
	if !m.running() || m.dragKind == dragNone {
		return
	}
	if !m.dragObserved {
		dx := e.ContainerX - m.dragStartPx[0]
		dy := e.ContainerY - m.dragStartPx[1]
		if math.Hypot(dx, dy) < m.minDragPx {
			return
		}
		m.dragObserved = true
	}
	switch m.dragKind {
	case dragCoordinate:
		m.dragCoordinateStep(e)
	case dragFeature:
		m.dragFeatureStep(e)
	case dragResizing:
		m.dragResizeStep(e)
	case dragRotating:
		m.dragRotateStep(e)
	}
}

// dragCoordinateStep replaces the grabbed vertex, re-validates, and
// updates the corresponding overlay point plus its adjacent midpoints.
func (m *SelectMode) dragCoordinateStep(e PointerEvent) {
	id := m.selectedID
	geom, err := m.cfg.Store.getGeometryCopy(id)
	if err != nil {
		return
	}
	idx := m.dragVertexIndex
	cursor := e.coordinate()

	updated, ok := replaceVertex(geom, idx, cursor)
	if !ok {
		return
	}
	m.cfg.Store.Scope(func() {
		if err := m.cfg.Store.updateGeometry(id, updated); err != nil {
			// Suppressed without surfacing an error: transient
			// self-intersection during a drag is only logged.
			log.Warn().Err(err).Msg("select: suppressed coordinate drag step")
			return
		}
		m.updateOverlaysAfterVertexMove(updated, idx)
	})
}

func (m *SelectMode) updateOverlaysAfterVertexMove(geom Geometry, idx int) {
	verts := exteriorVertices(geom)
	if idx < 0 || idx >= len(verts) {
		return
	}
	if idx < len(m.overlay.pointIDs) {
		pointID := m.overlay.pointIDs[idx]
		_ = m.cfg.Store.updateGeometry(pointID, Geometry{Type: GeometryPoint, Point: verts[idx]})
	}

	n := len(verts)
	closed := geom.Type == GeometryPolygon || geom.Type == GeometryMultiPolygon
	segIdxs := []int{idx - 1, idx}
	if closed && idx == 0 {
		segIdxs = append(segIdxs, n-1)
	}
	for _, segIdx := range segIdxs {
		if segIdx < 0 || segIdx >= len(m.overlay.midpointIDs) {
			continue
		}
		a, b := segmentEndpoints(verts, segIdx)
		mid := MidpointGreatCircle(a, b)
		midID := m.overlay.midpointIDs[segIdx]
		_ = m.cfg.Store.updateGeometry(midID, Geometry{Type: GeometryPoint, Point: mid})
	}
}

func segmentEndpoints(verts []Coordinate, segIdx int) (Coordinate, Coordinate) {
	n := len(verts)
	return verts[segIdx%n], verts[(segIdx+1)%n]
}

func replaceVertex(g Geometry, idx int, v Coordinate) (Geometry, bool) {
	switch g.Type {
	case GeometryLineString:
		if idx < 0 || idx >= len(g.LineString) {
			return g, false
		}
		verts := append([]Coordinate(nil), g.LineString...)
		verts[idx] = v
		return Geometry{Type: GeometryLineString, LineString: verts}, true
	case GeometryPolygon:
		ring := append([]Coordinate(nil), g.Polygon[0]...)
		n := len(ring)
		if idx < 0 || idx >= n-1 {
			return g, false
		}
		ring[idx] = v
		if idx == 0 {
			ring[n-1] = v
		}
		return Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{ring}}, true
	default:
		return g, false
	}
}

// dragFeatureStep translates every coordinate of the feature and every
// overlay point/midpoint by the delta since the last drag position,
// clamping to valid WGS84 range.
func (m *SelectMode) dragFeatureStep(e PointerEvent) {
	id := m.selectedID
	cursor := e.coordinate()
	dLng := cursor.Lng - m.dragLastCoord.Lng
	dLat := cursor.Lat - m.dragLastCoord.Lat
	translate := func(c Coordinate) Coordinate {
		return clampWGS84(Coordinate{Lng: c.Lng + dLng, Lat: c.Lat + dLat})
	}

	geom, err := m.cfg.Store.getGeometryCopy(id)
	if err != nil {
		return
	}
	updated := transformGeometry(geom, translate)
	m.cfg.Store.Scope(func() {
		if err := m.cfg.Store.updateGeometry(id, updated); err != nil {
			return
		}
		m.translateOverlays(translate)
		m.dragLastCoord = cursor
	})
}

func (m *SelectMode) translateOverlays(fn func(Coordinate) Coordinate) {
	for _, id := range m.overlay.pointIDs {
		if g, err := m.cfg.Store.getGeometryCopy(id); err == nil {
			_ = m.cfg.Store.updateGeometry(id, Geometry{Type: GeometryPoint, Point: fn(g.Point)})
		}
	}
	for _, id := range m.overlay.midpointIDs {
		if g, err := m.cfg.Store.getGeometryCopy(id); err == nil {
			_ = m.cfg.Store.updateGeometry(id, Geometry{Type: GeometryPoint, Point: fn(g.Point)})
		}
	}
}

func clampWGS84(c Coordinate) Coordinate {
	return Coordinate{
		Lng: math.Max(-180, math.Min(180, c.Lng)),
		Lat: math.Max(-90, math.Min(90, c.Lat)),
	}
}

// dragResizeStep scales every vertex uniformly about the anchor by the
// ratio of current to previous distance from the anchor.
func (m *SelectMode) dragResizeStep(e PointerEvent) {
	cursor := e.coordinate()
	dist := HaversineDistanceKm(m.dragAnchor, cursor)
	if m.dragPrevDistKm == 0 {
		m.dragPrevDistKm = dist
		return
	}
	factor := dist / m.dragPrevDistKm
	m.dragPrevDistKm = dist

	id := m.selectedID
	geom, err := m.cfg.Store.getGeometryCopy(id)
	if err != nil {
		return
	}
	scale := func(c Coordinate) Coordinate { return ScaleAroundAnchor(c, m.dragAnchor, factor) }
	updated := transformGeometry(geom, scale)
	m.cfg.Store.Scope(func() {
		if err := m.cfg.Store.updateGeometry(id, updated); err != nil {
			return
		}
		m.translateOverlays(scale)
	})
}

// dragRotateStep rotates every vertex about the centroid anchor by the
// bearing delta since the previous step.
func (m *SelectMode) dragRotateStep(e PointerEvent) {
	cursor := e.coordinate()
	bearing := BearingRad(m.dragAnchor, cursor)
	delta := bearing - m.dragPrevBearing
	m.dragPrevBearing = bearing

	id := m.selectedID
	geom, err := m.cfg.Store.getGeometryCopy(id)
	if err != nil {
		return
	}
	rotate := func(c Coordinate) Coordinate { return RotateAroundAnchor(c, m.dragAnchor, delta) }
	updated := transformGeometry(geom, rotate)
	m.cfg.Store.Scope(func() {
		if err := m.cfg.Store.updateGeometry(id, updated); err != nil {
			return
		}
		m.translateOverlays(rotate)
	})
}

// onDragEnd unfreezes the map, restores the cursor, emits onFinish with
// the action matching the drag kind, and clears drag state.
func (m *SelectMode) onDragEnd(e PointerEvent) {
	if !m.running() || m.dragKind == dragNone {
		return
	}
	id := m.selectedID
	action := actionForDragKind(m.dragKind)

	m.dragKind = dragNone
	m.dragObserved = false

	if m.cfg.SetDraggability != nil {
		m.cfg.SetDraggability(true)
	}
	if m.cfg.SetCursor != nil {
		m.cfg.SetCursor("move")
	}
	if m.cfg.OnFinish != nil && action != "" {
		m.cfg.OnFinish(id, FinishInfo{Action: action, Mode: m.name})
	}
}

func actionForDragKind(k dragKind) string {
	switch k {
	case dragFeature:
		return ActionDragFeature
	case dragCoordinate:
		return ActionDragCoordinate
	case dragResizing:
		return ActionDragCoordinateResize
	case dragRotating:
		return ActionDragCoordinateRotate
	default:
		return ""
	}
}
