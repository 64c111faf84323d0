package terradraw

// PropDraft marks a feature as an in-progress draft so looser draft
// validation is distinguishable from a finished feature, purely for the
// mode's own bookkeeping — the store itself does not special-case it.
const PropDraft = "draft"

const defaultPointerDistancePx = 40.0

// PolygonMode draws a closed ring by successive clicks, finalizing when
// the cursor returns within pointerDistance px of the first vertex.
type PolygonMode struct {
	ModeBase

	pointerDistancePx float64

	draftID string
	// ring holds every fixed vertex plus one trailing ghost vertex that
	// tracks the cursor; ring[0] is the anchor finalize-distance is
	// measured against.
	ring []Coordinate
}

// NewPolygonMode returns a registrable polygon draw mode.
func NewPolygonMode() *PolygonMode {
	return &PolygonMode{
		ModeBase: newModeBase("polygon", "crosshair", StyleMap{
			"polygonFillColor":   "#3bb2d0",
			"polygonOutlineColor": "#3bb2d0",
		}),
		pointerDistancePx: defaultPointerDistancePx,
	}
}

func (m *PolygonMode) drawing() bool { return m.draftID != "" }

func (m *PolygonMode) onClick(e PointerEvent) {
	if !m.running() {
		return
	}
	p := e.coordinate()

	if !m.drawing() {
		m.startDraft(p)
		return
	}

	// Append a new ghost vertex at p, replacing the old ghost.
	m.ring[len(m.ring)-1] = p
	if len(m.ring) >= 4 && m.nearAnchorPx(p) {
		m.finalize()
		return
	}
	m.ring = append(m.ring, p)
	m.pushRing()
}

func (m *PolygonMode) startDraft(p0 Coordinate) {
	// The fixed vertex p0 plus a ghost at p0; draftPolygon stores it as the
	// ring [p0, p0, p0, p0], a deliberate degenerate placeholder until the
	// cursor moves.
	m.ring = []Coordinate{p0, p0}
	id, err := m.cfg.Store.create(m.name, draftPolygon(m.ring), Properties{PropDraft: true})
	if err != nil {
		log.Warn().Err(err).Msg("polygon: failed to start draft")
		return
	}
	m.draftID = id
}

func (m *PolygonMode) onMouseMove(e PointerEvent) {
	if !m.running() || !m.drawing() {
		return
	}
	p := e.coordinate()
	candidate := append([]Coordinate(nil), m.ring[:len(m.ring)-1]...)
	candidate = append(candidate, p)

	if polygonDraftSelfIntersects(candidate) {
		// Re-validate only self-intersection against completed edges;
		// suppress the update silently.
		return
	}
	m.ring[len(m.ring)-1] = p
	m.pushRing()
}

// polygonDraftSelfIntersects checks the open vertex chain (pre-closure)
// for self-intersection; closure happens only at finalize.
func polygonDraftSelfIntersects(ring []Coordinate) bool {
	return SelfIntersects(ring)
}

func (m *PolygonMode) pushRing() {
	geom := draftPolygon(m.ring)
	if err := m.cfg.Store.updateGeometry(m.draftID, geom); err != nil {
		log.Warn().Err(err).Msg("polygon: suppressed draft update")
	}
}

// draftPolygon closes ring (repeating its first vertex) into a single-ring
// polygon geometry. A chain too short to close into the store's minimum of
// 4 coordinates is padded at the front with copies of its first vertex, so
// a draft with fewer than three fixed vertices is still storable;
// finalizing requires three fixed vertices (see onClick).
func draftPolygon(ring []Coordinate) Geometry {
	closed := append(append([]Coordinate(nil), ring...), ring[0])
	for len(closed) < 4 {
		closed = append([]Coordinate{ring[0]}, closed...)
	}
	return Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{closed}}
}

func (m *PolygonMode) nearAnchorPx(p Coordinate) bool {
	if m.cfg.Project == nil {
		return false
	}
	return PointToLineDistancePx(p, m.ring[0], m.ring[0], m.cfg.Project) <= m.pointerDistancePx
}

func (m *PolygonMode) finalize() {
	vertices := m.ring[:len(m.ring)-1]
	if SelfIntersects(vertices) {
		log.Warn().Msg("polygon: finalize rejected self-intersecting ring, draft left in place")
		return
	}
	closed := append(append([]Coordinate(nil), vertices...), m.ring[0])
	geom := Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{closed}}

	id := m.draftID
	err := m.cfg.Store.updateGeometry(id, geom)
	if err != nil {
		log.Warn().Err(err).Msg("polygon: finalize produced invalid geometry, draft left in place")
		return
	}
	if err := m.cfg.Store.updateProperty([]PropertyUpdate{{ID: id, Props: Properties{PropDraft: false}}}); err != nil {
		log.Warn().Err(err).Msg("polygon: failed to clear draft flag")
	}
	m.reset()
	if m.cfg.OnFinish != nil {
		m.cfg.OnFinish(id, FinishInfo{Action: "drawPolygon", Mode: m.name})
	}
}

func (m *PolygonMode) onKeyDown(key string) {
	if !m.running() || !m.drawing() {
		return
	}
	if key == "Escape" {
		m.cleanUp()
	}
}

// cleanUp deletes the in-progress draft and returns to Idle. Also called
// from stop().
func (m *PolygonMode) cleanUp() {
	if m.drawing() {
		if err := m.cfg.Store.delete(m.draftID); err != nil {
			log.Warn().Err(err).Msg("polygon: cleanup delete failed")
		}
	}
	m.reset()
}

func (m *PolygonMode) reset() {
	m.draftID = ""
	m.ring = nil
}

func (m *PolygonMode) stop() {
	m.cleanUp()
	m.ModeBase.stop()
}
