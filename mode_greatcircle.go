package terradraw

// greatCircleResampleDepth bounds the recursive bisection resampleGreatCircle
// performs while previewing the draft.
const greatCircleResampleDepth = 10

// greatCircleToleranceKm is the per-segment tolerance below which
// resampleGreatCircle stops bisecting.
const greatCircleToleranceKm = 5.0

// GreatCircleMode draws a two-click LineString whose draft is continuously
// resampled along the great-circle arc between its two endpoints, so the
// preview always shows the curved path rather than a straight chord.
type GreatCircleMode struct {
	ModeBase

	draftID string
	start   Coordinate
	sized   bool
}

// NewGreatCircleMode returns a registrable great-circle draw mode.
func NewGreatCircleMode() *GreatCircleMode {
	return &GreatCircleMode{ModeBase: newModeBase("greatcircle", "crosshair", StyleMap{
		"lineStringColor": "#3bb2d0",
	})}
}

func (m *GreatCircleMode) onClick(e PointerEvent) {
	if !m.running() {
		return
	}
	p := e.coordinate()

	if !m.sized {
		m.start = p
		id, err := m.cfg.Store.create(m.name, Geometry{Type: GeometryLineString, LineString: []Coordinate{p, p}}, nil)
		if err != nil {
			log.Warn().Err(err).Msg("greatcircle: failed to start draft")
			return
		}
		m.draftID = id
		m.sized = true
		return
	}

	m.finalize(p)
}

func (m *GreatCircleMode) onMouseMove(e PointerEvent) {
	if !m.running() || !m.sized {
		return
	}
	arc := resampleGreatCircle(m.start, e.coordinate(), greatCircleToleranceKm, greatCircleResampleDepth)
	if err := m.cfg.Store.updateGeometry(m.draftID, Geometry{Type: GeometryLineString, LineString: arc}); err != nil {
		log.Warn().Err(err).Msg("greatcircle: suppressed draft update")
	}
}

func (m *GreatCircleMode) finalize(end Coordinate) {
	id := m.draftID
	arc := resampleGreatCircle(m.start, end, greatCircleToleranceKm, greatCircleResampleDepth)
	if err := m.cfg.Store.updateGeometry(id, Geometry{Type: GeometryLineString, LineString: arc}); err != nil {
		log.Warn().Err(err).Msg("greatcircle: finalize produced invalid geometry, draft left in place")
		return
	}
	m.reset()
	if m.cfg.OnFinish != nil {
		m.cfg.OnFinish(id, FinishInfo{Action: "drawGreatCircle", Mode: m.name})
	}
}

func (m *GreatCircleMode) onKeyDown(key string) {
	if !m.running() || !m.sized {
		return
	}
	if key == "Escape" {
		m.cleanUp()
	}
}

func (m *GreatCircleMode) cleanUp() {
	if m.sized {
		if err := m.cfg.Store.delete(m.draftID); err != nil {
			log.Warn().Err(err).Msg("greatcircle: cleanup delete failed")
		}
	}
	m.reset()
}

func (m *GreatCircleMode) reset() {
	m.draftID = ""
	m.sized = false
}

func (m *GreatCircleMode) stop() {
	m.cleanUp()
	m.ModeBase.stop()
}
