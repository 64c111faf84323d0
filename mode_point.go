package terradraw

// PointMode creates a single Point feature per click; it has no draft
// state.
type PointMode struct {
	ModeBase
}

// NewPointMode returns a registrable point draw mode.
func NewPointMode() *PointMode {
	return &PointMode{ModeBase: newModeBase("point", "crosshair", StyleMap{
		"pointColor": "#3bb2d0",
	})}
}

func (m *PointMode) onClick(e PointerEvent) {
	if !m.running() {
		return
	}
	_, err := m.cfg.Store.create(m.name, Geometry{Type: GeometryPoint, Point: e.coordinate()}, nil)
	if err != nil {
		log.Warn().Err(err).Msg("point: suppressed invalid click")
	}
}
