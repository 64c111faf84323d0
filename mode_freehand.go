package terradraw

// freehandSimplifyEpsilonKm is the Douglas-Peucker tolerance applied on
// release.
const freehandSimplifyEpsilonKm = 0.002

// FreehandMode accumulates pointer-move samples while the pointer is down
// and simplifies the resulting polyline on release.
type FreehandMode struct {
	ModeBase

	SimplifyEpsilonKm float64

	draftID string
	drawing bool
	samples []Coordinate
}

// NewFreehandMode returns a registrable freehand draw mode.
func NewFreehandMode() *FreehandMode {
	return &FreehandMode{
		ModeBase: newModeBase("freehand", "crosshair", StyleMap{
			"lineStringColor": "#3bb2d0",
		}),
		SimplifyEpsilonKm: freehandSimplifyEpsilonKm,
	}
}

func (m *FreehandMode) onDragStart(e PointerEvent) {
	if !m.running() {
		return
	}
	p := e.coordinate()
	m.samples = []Coordinate{p}
	id, err := m.cfg.Store.create(m.name, Geometry{Type: GeometryLineString, LineString: []Coordinate{p, p}}, nil)
	if err != nil {
		log.Warn().Err(err).Msg("freehand: failed to start draft")
		return
	}
	m.draftID = id
	m.drawing = true
	if m.cfg.SetDraggability != nil {
		m.cfg.SetDraggability(false)
	}
}

func (m *FreehandMode) onDrag(e PointerEvent) {
	if !m.running() || !m.drawing {
		return
	}
	m.samples = append(m.samples, e.coordinate())
	if err := m.cfg.Store.updateGeometry(m.draftID, Geometry{Type: GeometryLineString, LineString: m.samples}); err != nil {
		log.Warn().Err(err).Msg("freehand: suppressed draft update")
	}
}

func (m *FreehandMode) onDragEnd(e PointerEvent) {
	if !m.running() || !m.drawing {
		return
	}
	id := m.draftID
	simplified := simplifyDouglasPeucker(m.samples, m.SimplifyEpsilonKm)
	if len(simplified) < 2 {
		simplified = m.samples
	}
	if err := m.cfg.Store.updateGeometry(id, Geometry{Type: GeometryLineString, LineString: simplified}); err != nil {
		log.Warn().Err(err).Msg("freehand: finalize produced invalid geometry, keeping unsimplified draft")
	}
	m.reset()
	if m.cfg.SetDraggability != nil {
		m.cfg.SetDraggability(true)
	}
	if m.cfg.OnFinish != nil {
		m.cfg.OnFinish(id, FinishInfo{Action: "drawFreehand", Mode: m.name})
	}
}

func (m *FreehandMode) onKeyDown(key string) {
	if !m.running() || !m.drawing {
		return
	}
	if key == "Escape" {
		m.cleanUp()
	}
}

func (m *FreehandMode) cleanUp() {
	if m.drawing {
		if err := m.cfg.Store.delete(m.draftID); err != nil {
			log.Warn().Err(err).Msg("freehand: cleanup delete failed")
		}
	}
	m.reset()
}

func (m *FreehandMode) reset() {
	m.draftID = ""
	m.drawing = false
	m.samples = nil
}

func (m *FreehandMode) stop() {
	m.cleanUp()
	m.ModeBase.stop()
}
