package terradraw

import "testing"

func lineFlags() SelectFlags {
	return SelectFlags{
		"linestring": {
			Feature:     &FeatureFlags{Draggable: true},
			Coordinates: &CoordinateFlags{Draggable: true, Midpoints: true, Resizable: ResizeCenter, Rotatable: true},
		},
	}
}

func TestSelectModeDragCoordinateMovesVertexAndOverlays(t *testing.T) {
	h, sel := newSelectHarness(lineFlags())
	id, _ := h.coord.store.create("linestring", Geometry{Type: GeometryLineString, LineString: []Coordinate{
		{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0}, {Lng: 2, Lat: 0},
	}}, nil)
	h.click(1, 0) // select near the middle vertex (hits feature, not selection point, on first click)
	if sel.selectedID != id {
		t.Fatal("expected linestring selected")
	}

	h.drag(1, 0, 1, 1, 4)

	f, _ := h.coord.store.get(id)
	if f.Geometry.LineString[1].Lat < 0.5 {
		t.Errorf("expected middle vertex to move toward lat 1, got %+v", f.Geometry.LineString[1])
	}
	overlayPt, _ := h.coord.store.get(sel.overlay.pointIDs[1])
	if overlayPt.Geometry.Point != f.Geometry.LineString[1] {
		t.Errorf("expected overlay point to track the moved vertex, got %+v vs %+v", overlayPt.Geometry.Point, f.Geometry.LineString[1])
	}
}

func TestSelectModeDragBelowMinPixelDistanceIsAbsorbed(t *testing.T) {
	h, sel := newSelectHarness(lineFlags())
	id, _ := h.coord.store.create("linestring", Geometry{Type: GeometryLineString, LineString: []Coordinate{
		{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0},
	}}, nil)
	h.click(0, 0)
	if sel.selectedID != id {
		t.Fatal("expected linestring selected")
	}

	// pxPerDegree=100, so 0.01 degrees = 1px, far below the 8px dead zone.
	h.drag(0, 0, 0.01, 0, 1)

	f, _ := h.coord.store.get(id)
	if f.Geometry.LineString[0] != (Coordinate{Lng: 0, Lat: 0}) {
		t.Errorf("expected sub-threshold drag to be absorbed, vertex moved to %+v", f.Geometry.LineString[0])
	}
}

func TestSelectModeDragFeatureTranslatesWholeGeometry(t *testing.T) {
	h, sel := newSelectHarness(lineFlags())
	id, _ := h.coord.store.create("linestring", Geometry{Type: GeometryLineString, LineString: []Coordinate{
		{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0},
	}}, nil)
	h.click(0.5, 0) // mid-segment hit, not a vertex or overlay point
	if sel.selectedID != id {
		t.Fatal("expected linestring selected")
	}

	h.drag(0.5, 0, 0.5, 2, 4)

	f, _ := h.coord.store.get(id)
	if f.Geometry.LineString[0].Lat < 1.5 || f.Geometry.LineString[1].Lat < 1.5 {
		t.Errorf("expected both vertices translated by drag delta, got %+v", f.Geometry.LineString)
	}
}

func TestSelectModeDragEndEmitsFinishWithMatchingAction(t *testing.T) {
	h, sel := newSelectHarness(lineFlags())
	_, _ = h.coord.store.create("linestring", Geometry{Type: GeometryLineString, LineString: []Coordinate{
		{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0},
	}}, nil)
	h.click(0.5, 0)

	var gotAction, gotMode string
	sel.cfg.OnFinish = func(id string, info FinishInfo) {
		gotAction, gotMode = info.Action, info.Mode
	}
	h.drag(0.5, 0, 0.5, 2, 2)

	if gotAction != ActionDragFeature {
		t.Errorf("action = %q, want %q", gotAction, ActionDragFeature)
	}
	if gotMode != "select" {
		t.Errorf("mode = %q, want select", gotMode)
	}
	if h.adapter.draggable != true {
		t.Error("expected map draggability restored after drag end")
	}
}

func TestSelectModeDragCoordinateIntoSelfIntersectionIsSuppressed(t *testing.T) {
	flags := SelectFlags{
		"polygon": {Coordinates: &CoordinateFlags{Draggable: true}},
	}
	h, sel := newSelectHarness(flags)
	ring := []Coordinate{
		{Lng: 0, Lat: 0}, {Lng: 4, Lat: 0}, {Lng: 4, Lat: 4}, {Lng: 0, Lat: 4}, {Lng: 0, Lat: 0},
	}
	id, _ := h.coord.store.create("polygon", Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{ring}}, nil)

	h.click(2, 2) // interior point, selects via point-in-polygon hit
	if sel.selectedID != id {
		t.Fatal("expected polygon selected")
	}

	// Dragging vertex 1 from (4,0) across to (-1,2) in 4 steps: the first
	// three steps (2.75,0.5), (1.5,1), (0.25,1.5) keep the ring simple and
	// are applied; the last makes edge 1 cross the edge from (0,4) to (0,0),
	// producing a bowtie, so the store rejects it and the vertex stays at
	// its last valid position.
	h.drag(4, 0, -1, 2, 4)

	f, _ := h.coord.store.get(id)
	if f.Geometry.Polygon[0][1] != (Coordinate{Lng: 0.25, Lat: 1.5}) {
		t.Errorf("expected self-intersecting step to be suppressed at the last valid position (0.25,1.5), vertex at %+v", f.Geometry.Polygon[0][1])
	}
}

func TestSelectModeDragRotateChangesBearing(t *testing.T) {
	store := NewStore()
	h := newHarness(store)
	// Feature/coordinate dragging deliberately left off: onDragStart tests
	// coordinate- and feature-hits before the rotate modifier, so either
	// would otherwise shadow the rotate path when the cursor sits on the
	// feature itself.
	flags := SelectFlags{"linestring": {Coordinates: &CoordinateFlags{Rotatable: true}}}
	sel := NewSelectMode(SelectOptions{Flags: flags, Keys: KeyBindings{Rotate: []string{"Shift"}}})
	h.coord.Register("select", sel)
	h.coord.SetActiveMode("select")

	// Centroid sits at (1,0); starting the drag off-center at (0.5,0) so the
	// bearing from anchor to cursor actually changes as the cursor moves.
	id, _ := store.create("linestring", Geometry{Type: GeometryLineString, LineString: []Coordinate{
		{Lng: 0, Lat: 0}, {Lng: 2, Lat: 0},
	}}, nil)
	h.click(0.5, 0)
	if sel.selectedID != id {
		t.Fatal("expected linestring selected")
	}

	before, _ := h.coord.store.get(id)
	h.drag(0.5, 0, 0.5, 1, 4, "Shift")

	after, _ := h.coord.store.get(id)
	if after.Geometry.LineString[0] == before.Geometry.LineString[0] {
		t.Error("expected rotate-modifier drag to change vertex positions")
	}
}
