package terradraw

// initialRadiusKm is the degenerate starting radius circle mode creates
// its draft with.
const initialRadiusKm = 0.00001

// CircleMode draws a geodesic circle: first click fixes the center,
// mouse-move while sized grows the radius to the cursor distance, second
// click finalizes.
type CircleMode struct {
	ModeBase

	draftID string
	center  Coordinate
	sized   bool
}

// NewCircleMode returns a registrable circle draw mode.
func NewCircleMode() *CircleMode {
	return &CircleMode{ModeBase: newModeBase("circle", "crosshair", StyleMap{
		"circleFillColor": "#3bb2d0",
	})}
}

func (m *CircleMode) onClick(e PointerEvent) {
	if !m.running() {
		return
	}
	p := e.coordinate()

	if !m.sized {
		m.center = p
		id, err := m.cfg.Store.create(m.name, Geometry{Type: GeometryPolygon, Polygon: CirclePolygon(p, initialRadiusKm, 0)}, nil)
		if err != nil {
			log.Warn().Err(err).Msg("circle: failed to start draft")
			return
		}
		m.draftID = id
		m.sized = true
		return
	}

	m.finalize()
}

func (m *CircleMode) onMouseMove(e PointerEvent) {
	if !m.running() || !m.sized {
		return
	}
	radius := HaversineDistanceKm(m.center, e.coordinate())
	if radius <= 0 {
		radius = initialRadiusKm
	}
	geom := Geometry{Type: GeometryPolygon, Polygon: CirclePolygon(m.center, radius, 0)}
	if err := m.cfg.Store.updateGeometry(m.draftID, geom); err != nil {
		log.Warn().Err(err).Msg("circle: suppressed draft update")
	}
}

func (m *CircleMode) finalize() {
	id := m.draftID
	m.reset()
	if m.cfg.OnFinish != nil {
		m.cfg.OnFinish(id, FinishInfo{Action: "drawCircle", Mode: m.name})
	}
}

func (m *CircleMode) onKeyDown(key string) {
	if !m.running() || !m.sized {
		return
	}
	if key == "Escape" {
		m.cleanUp()
	}
}

func (m *CircleMode) cleanUp() {
	if m.sized {
		if err := m.cfg.Store.delete(m.draftID); err != nil {
			log.Warn().Err(err).Msg("circle: cleanup delete failed")
		}
	}
	m.reset()
}

func (m *CircleMode) reset() {
	m.draftID = ""
	m.sized = false
}

func (m *CircleMode) stop() {
	m.cleanUp()
	m.ModeBase.stop()
}
