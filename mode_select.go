package terradraw

import "math"

// ResizeMode names the anchor select mode's Resizing state scales about.
// ResizeNone disables resizing for that geometry kind.
type ResizeMode string

const (
	ResizeNone     ResizeMode = ""
	ResizeCenter   ResizeMode = "center"
	ResizeOpposite ResizeMode = "opposite"
)

// FeatureFlags configures whether a selected feature itself (as opposed to
// its individual coordinates) can be dragged.
type FeatureFlags struct {
	Draggable bool
}

// CoordinateFlags configures per-vertex editing for a selected feature.
// Midpoints has effect only together with Draggable; Resizable and Rotatable
// require this block to exist at all.
type CoordinateFlags struct {
	Draggable bool
	Deletable bool
	Midpoints bool
	Resizable ResizeMode
	Rotatable bool
}

// ModeFlags is the per-geometry-kind permission set select mode consults.
// A geometry kind with no ModeFlags entry in SelectFlags is not
// selectable at all.
type ModeFlags struct {
	Feature     *FeatureFlags
	Coordinates *CoordinateFlags
}

// SelectFlags maps a draw mode's name (the feature's "mode" property) to
// the editing permissions select mode grants it.
type SelectFlags map[string]ModeFlags

// SelectOptions configures a SelectMode at construction.
type SelectOptions struct {
	Flags SelectFlags
	// AllowManualDeselection defaults to true.
	AllowManualDeselection *bool
	// PointerDistancePx is the hit-test tolerance in pixels, default 40.
	PointerDistancePx float64
	// MinPixelDragDistance is the drag dead-zone, default 8px.
	MinPixelDragDistance float64
	Keys                 KeyBindings
}

type selectState int

const (
	stateIdle selectState = iota
	stateSelected
)

type dragKind int

const (
	dragNone dragKind = iota
	dragCoordinate
	dragFeature
	dragResizing
	dragRotating
)

const (
	overlaySelectionPoint = "selection-point"
	overlayMidpoint       = "midpoint"
)

// SelectMode is the composite picking/editing state machine. It is the only mode whose onDrag* sinks are non-trivial; see
// mode_select_drag.go for the Dragging/Resizing/Rotating step functions.
type SelectMode struct {
	ModeBase

	flags                  SelectFlags
	allowManualDeselection bool
	pointerDistancePx      float64
	minDragPx              float64
	keys                   KeyBindings

	state      selectState
	selectedID string
	overlay    overlayIndex

	dragKind        dragKind
	dragVertexIndex int
	dragLastCoord   Coordinate
	dragAnchor      Coordinate
	dragPrevDistKm  float64
	dragPrevBearing float64
	dragStartPx     [2]float64
	dragObserved    bool
}

// NewSelectMode returns a registrable select mode configured with opts.
func NewSelectMode(opts SelectOptions) *SelectMode {
	allow := true
	if opts.AllowManualDeselection != nil {
		allow = *opts.AllowManualDeselection
	}
	pointerDist := opts.PointerDistancePx
	if pointerDist <= 0 {
		pointerDist = defaultPointerDistancePx
	}
	minDrag := opts.MinPixelDragDistance
	if minDrag <= 0 {
		minDrag = 8
	}
	return &SelectMode{
		ModeBase:               newModeBase("select", "move", StyleMap{}),
		flags:                  opts.Flags,
		allowManualDeselection: allow,
		pointerDistancePx:      pointerDist,
		minDragPx:              minDrag,
		keys:                   opts.Keys,
	}
}

func (m *SelectMode) stop() {
	if m.selectedID != "" {
		deleteOverlays(m.cfg.Store, m.overlay)
	}
	m.selectedID = ""
	m.overlay = overlayIndex{}
	m.state = stateIdle
	m.dragKind = dragNone
	m.ModeBase.stop()
}

func (m *SelectMode) flagsFor(id string) ModeFlags {
	f, ok := m.cfg.Store.get(id)
	if !ok {
		return ModeFlags{}
	}
	return m.flags[f.Mode()]
}

// onClick dispatches by button: left-click picking/deselection, right-click vertex deletion (§4.E.2).
func (m *SelectMode) onClick(e PointerEvent) {
	if !m.running() {
		return
	}
	if e.Button == ButtonRight {
		m.handleRightClick(e)
		return
	}
	m.handleLeftClick(e)
}

func (m *SelectMode) handleLeftClick(e PointerEvent) {
	if m.selectedID != "" {
		if _, _, ok := m.hitSelectionPoint(e); ok {
			return // rule 1: hit on overlay point, no selection change
		}
		flags := m.flagsFor(m.selectedID)
		if flags.Coordinates != nil && flags.Coordinates.Midpoints && flags.Coordinates.Draggable {
			if midID, segIdx, ok := m.hitMidpoint(e); ok {
				m.insertMidpointVertex(midID, segIdx)
				return
			}
		}
	}

	hitID, ok := m.hitFeature(e)
	if ok {
		if hitID == m.selectedID {
			return // rule 5: no-op
		}
		m.switchSelection(hitID)
		return
	}

	if m.selectedID != "" && m.allowManualDeselection {
		m.deselect()
	}
}

func (m *SelectMode) handleRightClick(e PointerEvent) {
	if m.selectedID == "" {
		return
	}
	flags := m.flagsFor(m.selectedID)
	if flags.Coordinates == nil || !flags.Coordinates.Deletable {
		return
	}
	_, idx, ok := m.hitSelectionPoint(e)
	if !ok {
		return
	}
	m.deleteVertex(idx)
}

// deleteVertex deletes the vertex at idx from the selected feature's ring.
// A result below the geometry's minimum vertex count (invalid) is aborted
// silently with no mutation; a ring reduced to nothing takes the parent
// feature down with it.
func (m *SelectMode) deleteVertex(idx int) {
	id := m.selectedID
	geom, err := m.cfg.Store.getGeometryCopy(id)
	if err != nil {
		return
	}
	updated, status := removeVertexFromGeometry(geom, idx)
	switch status {
	case removalInvalid:
		log.Warn().Str("id", id).Int("index", idx).Msg("select: vertex deletion below minimum vertex count, aborted")
		return
	case removalEmpty:
		m.cfg.Store.Scope(func() {
			deleteOverlays(m.cfg.Store, m.overlay)
			if err := m.cfg.Store.delete(id); err != nil {
				log.Warn().Err(err).Msg("select: failed to delete degenerate parent")
			}
		})
		m.overlay = overlayIndex{}
		m.selectedID = ""
		m.state = stateIdle
		return
	}
	if err := m.cfg.Store.updateGeometry(id, updated); err != nil {
		log.Warn().Err(err).Msg("select: vertex deletion produced invalid geometry, aborted")
		return
	}
	m.rebuildOverlays()
}

// switchSelection deselects the current feature (if any), then selects
// the new one, within one Scope so the two change batches fuse into one.
func (m *SelectMode) switchSelection(newID string) {
	m.cfg.Store.Scope(func() {
		if m.selectedID != "" {
			oldID := m.selectedID
			m.clearSelectionState(oldID)
			if m.cfg.OnDeselect != nil {
				m.cfg.OnDeselect(oldID)
			}
		}
		m.selectFeature(newID)
	})
}

// deselect implements the miss-case and the "deselect" key action.
func (m *SelectMode) deselect() {
	if m.selectedID == "" {
		return
	}
	id := m.selectedID
	m.cfg.Store.Scope(func() {
		m.clearSelectionState(id)
	})
	m.state = stateIdle
	if m.cfg.OnDeselect != nil {
		m.cfg.OnDeselect(id)
	}
}

func (m *SelectMode) clearSelectionState(id string) {
	if err := m.cfg.Store.updateProperty([]PropertyUpdate{{ID: id, Props: Properties{PropSelected: false}}}); err != nil {
		log.Warn().Err(err).Msg("select: failed to clear selected property")
	}
	deleteOverlays(m.cfg.Store, m.overlay)
	m.overlay = overlayIndex{}
	m.selectedID = ""
}

func (m *SelectMode) selectFeature(id string) {
	if err := m.cfg.Store.updateProperty([]PropertyUpdate{{ID: id, Props: Properties{PropSelected: true}}}); err != nil {
		log.Warn().Err(err).Msg("select: failed to set selected property")
		return
	}
	m.overlay = m.buildOverlaysFor(id)
	m.selectedID = id
	m.state = stateSelected
	if m.cfg.OnSelect != nil {
		m.cfg.OnSelect(id)
	}
}

// buildOverlaysFor creates overlay features for id's selection.
// Selection-point overlays exist whenever a coordinates block is
// configured at all, since resizable/rotatable consult them visually even
// when coordinates.draggable is false; midpoints additionally require
// coordinates.midpoints and coordinates.draggable.
func (m *SelectMode) buildOverlaysFor(id string) overlayIndex {
	flags := m.flagsFor(id)
	geom, err := m.cfg.Store.getGeometryCopy(id)
	if err != nil {
		return overlayIndex{parentID: id}
	}
	verts := exteriorVertices(geom)
	closed := geom.Type == GeometryPolygon || geom.Type == GeometryMultiPolygon

	var pointIDs, midIDs []string
	if flags.Coordinates != nil {
		pointIDs = buildVertexOverlays(m.cfg.Store, id, verts)
		if flags.Coordinates.Midpoints && flags.Coordinates.Draggable {
			midIDs = buildMidpointOverlays(m.cfg.Store, id, verts, closed)
		}
	}
	return overlayIndex{parentID: id, pointIDs: pointIDs, midpointIDs: midIDs}
}

func (m *SelectMode) rebuildOverlays() {
	deleteOverlays(m.cfg.Store, m.overlay)
	m.overlay = m.buildOverlaysFor(m.selectedID)
}

func (m *SelectMode) insertMidpointVertex(midID string, segIdx int) {
	parentID := m.overlay.parentID
	midGeom, err := m.cfg.Store.getGeometryCopy(midID)
	if err != nil {
		return
	}
	geom, err := m.cfg.Store.getGeometryCopy(parentID)
	if err != nil {
		return
	}
	updated := insertVertexInGeometry(geom, segIdx+1, midGeom.Point)
	if err := m.cfg.Store.updateGeometry(parentID, updated); err != nil {
		log.Warn().Err(err).Msg("select: midpoint insertion produced invalid geometry, aborted")
		return
	}
	m.rebuildOverlays()
}

func (m *SelectMode) onKeyDown(key string) {
	if !m.running() || m.state != stateSelected {
		return
	}
	switch {
	case m.keys.Deselect != "" && key == m.keys.Deselect:
		m.deselect()
	case m.keys.Delete != "" && key == m.keys.Delete:
		m.deleteSelected()
	}
}

func (m *SelectMode) deleteSelected() {
	id := m.selectedID
	var delErr error
	m.cfg.Store.Scope(func() {
		deleteOverlays(m.cfg.Store, m.overlay)
		delErr = m.cfg.Store.delete(id)
	})
	if delErr != nil {
		log.Warn().Err(delErr).Msg("select: delete key failed")
		return
	}
	m.overlay = overlayIndex{}
	m.selectedID = ""
	m.state = stateIdle
	if m.cfg.OnDeselect != nil {
		m.cfg.OnDeselect(id)
	}
}

// --- hit testing ---

func (m *SelectMode) hitSelectionPoint(e PointerEvent) (string, int, bool) {
	if m.cfg.Project == nil {
		return "", 0, false
	}
	cursor := e.coordinate()
	for _, id := range m.overlay.pointIDs {
		f, ok := m.cfg.Store.get(id)
		if !ok {
			continue
		}
		d := PointToLineDistancePx(cursor, f.Geometry.Point, f.Geometry.Point, m.cfg.Project)
		if d <= m.pointerDistancePx {
			idx, _ := f.Properties[PropVertexIndex].(int)
			return id, idx, true
		}
	}
	return "", 0, false
}

func (m *SelectMode) hitMidpoint(e PointerEvent) (string, int, bool) {
	if m.cfg.Project == nil {
		return "", 0, false
	}
	cursor := e.coordinate()
	for _, id := range m.overlay.midpointIDs {
		f, ok := m.cfg.Store.get(id)
		if !ok {
			continue
		}
		d := PointToLineDistancePx(cursor, f.Geometry.Point, f.Geometry.Point, m.cfg.Project)
		if d <= m.pointerDistancePx {
			idx, _ := f.Properties[PropSegmentIndex].(int)
			return id, idx, true
		}
	}
	return "", 0, false
}

// hitFeature implements the priority order point > line > polygon, lines
// winning over polygons at equal distance:
// priority is compared before distance, so a line hit always outranks a
// polygon hit regardless of distance.
func (m *SelectMode) hitFeature(e PointerEvent) (string, bool) {
	bestID := ""
	bestPriority := math.MaxInt32
	bestDist := math.Inf(1)
	for _, f := range m.cfg.Store.copyAll() {
		if f.Mode() == overlaySelectionPoint || f.Mode() == overlayMidpoint {
			continue
		}
		if _, ok := m.flags[f.Mode()]; !ok {
			continue
		}
		priority, dist, ok := m.testFeatureHit(e, f)
		if !ok {
			continue
		}
		if priority < bestPriority || (priority == bestPriority && dist < bestDist) {
			bestPriority, bestDist, bestID = priority, dist, f.ID
		}
	}
	return bestID, bestID != ""
}

func (m *SelectMode) testFeatureHit(e PointerEvent, f Feature) (priority int, dist float64, ok bool) {
	if m.cfg.Project == nil {
		return 0, 0, false
	}
	cursor := e.coordinate()
	switch f.Geometry.Type {
	case GeometryPoint:
		d := PointToLineDistancePx(cursor, f.Geometry.Point, f.Geometry.Point, m.cfg.Project)
		if d <= m.pointerDistancePx {
			return 0, d, true
		}
	case GeometryLineString:
		if d, ok := nearestSegmentDistancePx(cursor, f.Geometry.LineString, m.cfg.Project); ok && d <= m.pointerDistancePx {
			return 1, d, true
		}
	case GeometryPolygon:
		if PointInPolygon(cursor, f.Geometry.Polygon) {
			return 2, 0, true
		}
	case GeometryMultiPolygon:
		for _, p := range f.Geometry.MultiPolygon {
			if PointInPolygon(cursor, p) {
				return 2, 0, true
			}
		}
	}
	return 0, 0, false
}

func nearestSegmentDistancePx(cursor Coordinate, pts []Coordinate, project ProjectFunc) (float64, bool) {
	if len(pts) < 2 {
		return 0, false
	}
	best := math.Inf(1)
	for i := 0; i < len(pts)-1; i++ {
		d := PointToLineDistancePx(cursor, pts[i], pts[i+1], project)
		if d < best {
			best = d
		}
	}
	return best, true
}

// --- ring editing helpers ---

func insertVertexInGeometry(g Geometry, index int, v Coordinate) Geometry {
	switch g.Type {
	case GeometryLineString:
		verts := insertAt(g.LineString, index, v)
		return Geometry{Type: GeometryLineString, LineString: verts}
	case GeometryPolygon:
		ring := insertAt(openRing(g.Polygon[0]), index, v)
		return Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{closeRing(ring)}}
	default:
		return g
	}
}

// removalStatus distinguishes a successful vertex removal from two
// distinct failure shapes: an invalid (below-minimum) result, silently
// aborted, versus a ring reduced to nothing, which deletes the parent
// feature outright.
type removalStatus int

const (
	removalOK removalStatus = iota
	removalInvalid
	removalEmpty
)

func removeVertexFromGeometry(g Geometry, idx int) (Geometry, removalStatus) {
	switch g.Type {
	case GeometryLineString:
		verts := removeAt(g.LineString, idx)
		switch {
		case len(verts) == 0:
			return Geometry{}, removalEmpty
		case len(verts) < 2:
			return Geometry{}, removalInvalid
		default:
			return Geometry{Type: GeometryLineString, LineString: verts}, removalOK
		}
	case GeometryPolygon:
		ring := removeAt(openRing(g.Polygon[0]), idx)
		switch {
		case len(ring) == 0:
			return Geometry{}, removalEmpty
		case len(ring) < 3:
			return Geometry{}, removalInvalid
		default:
			return Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{closeRing(ring)}}, removalOK
		}
	default:
		return g, removalInvalid
	}
}

func insertAt(s []Coordinate, idx int, v Coordinate) []Coordinate {
	if idx < 0 || idx > len(s) {
		idx = len(s)
	}
	out := make([]Coordinate, 0, len(s)+1)
	out = append(out, s[:idx]...)
	out = append(out, v)
	out = append(out, s[idx:]...)
	return out
}

func removeAt(s []Coordinate, idx int) []Coordinate {
	if idx < 0 || idx >= len(s) {
		return s
	}
	out := make([]Coordinate, 0, len(s)-1)
	out = append(out, s[:idx]...)
	out = append(out, s[idx+1:]...)
	return out
}

func closeRing(ring []Coordinate) []Coordinate {
	return append(append([]Coordinate(nil), ring...), ring[0])
}

func geometryCentroid(g Geometry) Coordinate {
	switch g.Type {
	case GeometryPoint:
		return g.Point
	case GeometryLineString:
		return Centroid([][]Coordinate{g.LineString})
	case GeometryPolygon:
		return Centroid(g.Polygon)
	case GeometryMultiPolygon:
		if len(g.MultiPolygon) == 0 {
			return Coordinate{}
		}
		return Centroid(g.MultiPolygon[0])
	default:
		return Coordinate{}
	}
}
