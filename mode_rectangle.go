package terradraw

// RectangleMode draws an axis-aligned (in lng/lat) rectangle from two
// clicks: the first pins one corner, the second pins the diagonally
// opposite corner. The ring winds clockwise-closed (5 coordinates) and
// Escape cancels the pending second click.
type RectangleMode struct {
	ModeBase

	draftID string
	anchor  Coordinate
	pinned  bool
}

// NewRectangleMode returns a registrable rectangle draw mode.
func NewRectangleMode() *RectangleMode {
	return &RectangleMode{ModeBase: newModeBase("rectangle", "crosshair", StyleMap{
		"polygonFillColor": "#3bb2d0",
	})}
}

func (m *RectangleMode) onClick(e PointerEvent) {
	if !m.running() {
		return
	}
	p := e.coordinate()

	if !m.pinned {
		m.anchor = p
		id, err := m.cfg.Store.create(m.name, Geometry{Type: GeometryPolygon, Polygon: rectangleRing(m.anchor, p)}, nil)
		if err != nil {
			log.Warn().Err(err).Msg("rectangle: failed to start draft")
			return
		}
		m.draftID = id
		m.pinned = true
		return
	}

	m.finalize(p)
}

func (m *RectangleMode) onMouseMove(e PointerEvent) {
	if !m.running() || !m.pinned {
		return
	}
	geom := Geometry{Type: GeometryPolygon, Polygon: rectangleRing(m.anchor, e.coordinate())}
	if err := m.cfg.Store.updateGeometry(m.draftID, geom); err != nil {
		log.Warn().Err(err).Msg("rectangle: suppressed draft update")
	}
}

func (m *RectangleMode) finalize(opposite Coordinate) {
	id := m.draftID
	geom := Geometry{Type: GeometryPolygon, Polygon: rectangleRing(m.anchor, opposite)}
	if err := m.cfg.Store.updateGeometry(id, geom); err != nil {
		log.Warn().Err(err).Msg("rectangle: finalize produced invalid geometry, draft left in place")
		return
	}
	m.reset()
	if m.cfg.OnFinish != nil {
		m.cfg.OnFinish(id, FinishInfo{Action: "drawRectangle", Mode: m.name})
	}
}

// rectangleRing builds a closed, clockwise 5-coordinate ring (4 distinct
// corners plus the closing duplicate) from two opposite corners.
func rectangleRing(a, b Coordinate) [][]Coordinate {
	minLng, maxLng := a.Lng, b.Lng
	if minLng > maxLng {
		minLng, maxLng = maxLng, minLng
	}
	minLat, maxLat := a.Lat, b.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	ring := []Coordinate{
		{Lng: minLng, Lat: maxLat},
		{Lng: maxLng, Lat: maxLat},
		{Lng: maxLng, Lat: minLat},
		{Lng: minLng, Lat: minLat},
	}
	ring = append(ring, ring[0])
	return [][]Coordinate{ring}
}

func (m *RectangleMode) onKeyDown(key string) {
	if !m.running() || !m.pinned {
		return
	}
	if key == "Escape" {
		m.cleanUp()
	}
}

func (m *RectangleMode) cleanUp() {
	if m.pinned {
		if err := m.cfg.Store.delete(m.draftID); err != nil {
			log.Warn().Err(err).Msg("rectangle: cleanup delete failed")
		}
	}
	m.reset()
}

func (m *RectangleMode) reset() {
	m.draftID = ""
	m.pinned = false
}

func (m *RectangleMode) stop() {
	m.cleanUp()
	m.ModeBase.stop()
}
