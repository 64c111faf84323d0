package terradraw

// LineStringMode draws an open polyline by successive clicks, terminating
// on a close key or a click near the last committed vertex. The normalised PointerEvent
// carries no timestamp, so "double-click" here is realized as
// a position-based proxy — a click landing within pointerDistance px of
// the most recently committed vertex — rather than a timing heuristic;
// CloseKey additionally terminates explicitly.
type LineStringMode struct {
	ModeBase

	pointerDistancePx float64
	// CloseKey, if non-empty, terminates the draft on keydown in addition
	// to the position-based close gesture.
	CloseKey string

	draftID string
	verts   []Coordinate
}

// NewLineStringMode returns a registrable line-string draw mode.
func NewLineStringMode() *LineStringMode {
	return &LineStringMode{
		ModeBase: newModeBase("linestring", "crosshair", StyleMap{
			"lineStringColor": "#3bb2d0",
		}),
		pointerDistancePx: defaultPointerDistancePx,
		CloseKey:          "Enter",
	}
}

func (m *LineStringMode) drawing() bool { return m.draftID != "" }

func (m *LineStringMode) onClick(e PointerEvent) {
	if !m.running() {
		return
	}
	p := e.coordinate()

	if !m.drawing() {
		m.verts = []Coordinate{p, p}
		id, err := m.cfg.Store.create(m.name, Geometry{Type: GeometryLineString, LineString: m.verts}, nil)
		if err != nil {
			log.Warn().Err(err).Msg("linestring: failed to start draft")
			return
		}
		m.draftID = id
		return
	}

	if len(m.verts) >= 3 && m.nearLastCommittedPx(p) {
		m.finalize()
		return
	}

	m.verts[len(m.verts)-1] = p
	m.verts = append(m.verts, p)
	m.pushLine()
}

func (m *LineStringMode) nearLastCommittedPx(p Coordinate) bool {
	if m.cfg.Project == nil || len(m.verts) < 2 {
		return false
	}
	lastCommitted := m.verts[len(m.verts)-2]
	return PointToLineDistancePx(p, lastCommitted, lastCommitted, m.cfg.Project) <= m.pointerDistancePx
}

func (m *LineStringMode) onMouseMove(e PointerEvent) {
	if !m.running() || !m.drawing() {
		return
	}
	m.verts[len(m.verts)-1] = e.coordinate()
	m.pushLine()
}

func (m *LineStringMode) pushLine() {
	if err := m.cfg.Store.updateGeometry(m.draftID, Geometry{Type: GeometryLineString, LineString: m.verts}); err != nil {
		log.Warn().Err(err).Msg("linestring: suppressed draft update")
	}
}

func (m *LineStringMode) finalize() {
	id := m.draftID
	// Drop the trailing ghost vertex; the last click's coordinate is
	// already present as verts[len-2].
	final := append([]Coordinate(nil), m.verts[:len(m.verts)-1]...)
	if err := m.cfg.Store.updateGeometry(id, Geometry{Type: GeometryLineString, LineString: final}); err != nil {
		log.Warn().Err(err).Msg("linestring: finalize produced invalid geometry, draft left in place")
		return
	}
	m.reset()
	if m.cfg.OnFinish != nil {
		m.cfg.OnFinish(id, FinishInfo{Action: "drawLineString", Mode: m.name})
	}
}

func (m *LineStringMode) onKeyDown(key string) {
	if !m.running() || !m.drawing() {
		return
	}
	switch key {
	case "Escape":
		m.cleanUp()
	case m.CloseKey:
		if len(m.verts) >= 3 {
			m.finalize()
		}
	}
}

func (m *LineStringMode) cleanUp() {
	if m.drawing() {
		if err := m.cfg.Store.delete(m.draftID); err != nil {
			log.Warn().Err(err).Msg("linestring: cleanup delete failed")
		}
	}
	m.reset()
}

func (m *LineStringMode) reset() {
	m.draftID = ""
	m.verts = nil
}

func (m *LineStringMode) stop() {
	m.cleanUp()
	m.ModeBase.stop()
}
