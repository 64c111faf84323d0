package terradraw

// recordingAdapter is a minimal headless Adapter that projects with a
// flat equirectangular transform (good enough for deterministic pixel
// hit-testing in tests) and records every Render call, driving the
// coordinator with synthetic events and asserting on recorded state
// instead of pixels.
type recordingAdapter struct {
	cursor        string
	draggable     bool
	dblClickZoom  bool
	renders       []ChangeBatch
	pxPerDegree   float64
}

func newRecordingAdapter() *recordingAdapter {
	return &recordingAdapter{draggable: true, dblClickZoom: true, pxPerDegree: 100}
}

func (a *recordingAdapter) Project(c Coordinate) (float64, float64) {
	return c.Lng * a.pxPerDegree, -c.Lat * a.pxPerDegree
}

func (a *recordingAdapter) Unproject(x, y float64) Coordinate {
	return Coordinate{Lng: x / a.pxPerDegree, Lat: -y / a.pxPerDegree}
}

func (a *recordingAdapter) SetDraggability(enabled bool)       { a.draggable = enabled }
func (a *recordingAdapter) SetDoubleClickToZoom(enabled bool)  { a.dblClickZoom = enabled }
func (a *recordingAdapter) SetCursor(name string)              { a.cursor = name }

func (a *recordingAdapter) Render(changes ChangeBatch, _ func(Feature) map[string]any) {
	a.renders = append(a.renders, changes)
}

func (a *recordingAdapter) GetLngLatFromEvent(nativeEvent any) Coordinate {
	if c, ok := nativeEvent.(Coordinate); ok {
		return c
	}
	return Coordinate{}
}

// harness drives a Coordinator with synthetic PointerEvents built from
// lng/lat, converting to container pixels via the recordingAdapter's
// projection so hit-testing sees consistent coordinates.
type harness struct {
	coord   *Coordinator
	adapter *recordingAdapter
}

func newHarness(store *Store) *harness {
	adapter := newRecordingAdapter()
	coord := NewCoordinator(store)
	coord.SetAdapter(adapter)
	return &harness{coord: coord, adapter: adapter}
}

func (h *harness) event(lng, lat float64, button MouseButton, heldKeys ...string) PointerEvent {
	x, y := h.adapter.Project(Coordinate{Lng: lng, Lat: lat})
	return PointerEvent{Lng: lng, Lat: lat, ContainerX: x, ContainerY: y, Button: button, HeldKeys: heldKeys}
}

func (h *harness) click(lng, lat float64) {
	h.coord.OnClick(h.event(lng, lat, ButtonLeft))
}

func (h *harness) rightClick(lng, lat float64) {
	h.coord.OnClick(h.event(lng, lat, ButtonRight))
}

func (h *harness) moveMouse(lng, lat float64) {
	h.coord.OnMouseMove(h.event(lng, lat, ButtonLeft))
}

func (h *harness) keyDown(key string) {
	h.coord.OnKeyDown(key)
}

func (h *harness) drag(fromLng, fromLat, toLng, toLat float64, steps int, heldKeys ...string) {
	if steps < 1 {
		steps = 1
	}
	h.coord.OnDragStart(h.event(fromLng, fromLat, ButtonLeft, heldKeys...))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		lng := fromLng + (toLng-fromLng)*t
		lat := fromLat + (toLat-fromLat)*t
		h.coord.OnDrag(h.event(lng, lat, ButtonLeft, heldKeys...))
	}
	h.coord.OnDragEnd(h.event(toLng, toLat, ButtonLeft, heldKeys...))
}
