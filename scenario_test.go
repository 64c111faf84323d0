package terradraw

import "testing"

// The tests in this file each drive a concrete end-to-end interaction
// through the coordinator and assert on the resulting store/overlay state.

func TestScenario1PointSelectAndDelete(t *testing.T) {
	store := NewStore()
	h := newHarness(store)
	sel := NewSelectMode(SelectOptions{Flags: pointFlags(true, true), Keys: KeyBindings{Delete: "Delete"}})
	h.coord.Register("select", sel)
	h.coord.SetActiveMode("select")

	id, _ := store.create("point", pointGeom(0, 0), nil)

	var selects, deselects []string
	sel.cfg.OnSelect = func(id string) { selects = append(selects, id) }
	sel.cfg.OnDeselect = func(id string) { deselects = append(deselects, id) }

	h.click(0, 0)
	if len(selects) != 1 || selects[0] != id {
		t.Fatalf("expected onSelect(%s) exactly once, got %v", id, selects)
	}
	f, _ := store.get(id)
	if !f.Selected() {
		t.Error("expected selected=true after click")
	}

	h.keyDown("Delete")
	if len(deselects) != 1 || deselects[0] != id {
		t.Fatalf("expected onDeselect(%s), got %v", id, deselects)
	}
	if len(store.copyAll()) != 0 {
		t.Error("expected store empty after delete key")
	}
}

func TestScenario2PolygonSelectSwitches(t *testing.T) {
	store := NewStore()
	h := newHarness(store)
	sel := NewSelectMode(SelectOptions{Flags: SelectFlags{
		"polygon": {Coordinates: &CoordinateFlags{Draggable: true}},
	}})
	h.coord.Register("select", sel)
	h.coord.SetActiveMode("select")

	p1 := []Coordinate{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 1}, {Lng: 1, Lat: 1}, {Lng: 1, Lat: 0}, {Lng: 0, Lat: 0}}
	p2 := []Coordinate{{Lng: 2, Lat: 2}, {Lng: 2, Lat: 3}, {Lng: 3, Lat: 3}, {Lng: 3, Lat: 2}, {Lng: 2, Lat: 2}}
	id1, _ := store.create("polygon", Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{p1}}, nil)
	id2, _ := store.create("polygon", Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{p2}}, nil)

	var selects, deselects []string
	sel.cfg.OnSelect = func(id string) { selects = append(selects, id) }
	sel.cfg.OnDeselect = func(id string) { deselects = append(deselects, id) }

	h.click(0.5, 0.5)
	if len(selects) != 1 || selects[0] != id1 {
		t.Fatalf("expected onSelect(%s), got %v", id1, selects)
	}

	updatesPerID := map[string]int{}
	h.coord.store.OnChange(func(b ChangeBatch) {
		for _, id := range b.Updated {
			updatesPerID[id]++
		}
	})

	h.click(2.5, 2.5)
	if len(deselects) != 1 || deselects[0] != id1 {
		t.Fatalf("expected onDeselect(%s), got %v", id1, deselects)
	}
	if len(selects) != 2 || selects[1] != id2 {
		t.Fatalf("expected onSelect(%s) after deselect, got %v", id2, selects)
	}
	if updatesPerID[id1] != 1 || updatesPerID[id2] != 1 {
		t.Errorf("expected exactly one onChange update per id, got %+v", updatesPerID)
	}
}

func TestScenario3MidpointToVertex(t *testing.T) {
	h, sel := newSelectHarness(SelectFlags{
		"polygon": {Coordinates: &CoordinateFlags{Draggable: true, Midpoints: true}},
	})
	ring := []Coordinate{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 1}, {Lng: 1, Lat: 1}, {Lng: 1, Lat: 0}, {Lng: 0, Lat: 0}}
	id, _ := h.coord.store.create("polygon", Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{ring}}, nil)

	h.click(0.5, 0.5)
	if sel.selectedID != id {
		t.Fatal("expected polygon selected")
	}

	mid := MidpointGreatCircle(Coordinate{Lng: 0, Lat: 0}, Coordinate{Lng: 0, Lat: 1})
	h.click(mid.Lng, mid.Lat)

	f, _ := h.coord.store.get(id)
	if len(f.Geometry.Polygon[0]) != 6 {
		t.Fatalf("expected 6-coordinate closed ring, got %d", len(f.Geometry.Polygon[0]))
	}
	if len(sel.overlay.pointIDs) != 5 {
		t.Errorf("expected 5 selection points, got %d", len(sel.overlay.pointIDs))
	}
	if len(sel.overlay.midpointIDs) != 5 {
		t.Errorf("expected 5 midpoints, got %d", len(sel.overlay.midpointIDs))
	}
}

func TestScenario4ManualDeselectionDisabled(t *testing.T) {
	store := NewStore()
	h := newHarness(store)
	allow := false
	sel := NewSelectMode(SelectOptions{Flags: SelectFlags{
		"polygon": {Coordinates: &CoordinateFlags{Draggable: true}},
	}, AllowManualDeselection: &allow})
	h.coord.Register("select", sel)
	h.coord.SetActiveMode("select")

	ring := []Coordinate{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 1}, {Lng: 1, Lat: 1}, {Lng: 1, Lat: 0}, {Lng: 0, Lat: 0}}
	id, _ := store.create("polygon", Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{ring}}, nil)

	var deselected bool
	sel.cfg.OnDeselect = func(string) { deselected = true }

	h.click(0.5, 0.5)
	h.click(59, 59)

	if deselected {
		t.Error("expected onDeselect not to fire when manual deselection is disabled")
	}
	if sel.selectedID != id {
		t.Error("expected selection retained")
	}
}

func TestScenario5RightClickVertexDeletion(t *testing.T) {
	square := func() []Coordinate {
		return []Coordinate{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 1}, {Lng: 1, Lat: 1}, {Lng: 1, Lat: 0}, {Lng: 0, Lat: 0}}
	}

	t.Run("deletable", func(t *testing.T) {
		h, sel := newSelectHarness(SelectFlags{
			"polygon": {Coordinates: &CoordinateFlags{Draggable: true, Deletable: true}},
		})
		id, _ := h.coord.store.create("polygon", Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{square()}}, nil)
		h.click(0.5, 0.5)
		if sel.selectedID != id {
			t.Fatal("expected polygon selected")
		}
		vertexOverlayID := sel.overlay.pointIDs[0]

		h.rightClick(0, 0)

		if h.coord.store.has(vertexOverlayID) {
			t.Error("expected the original vertex-overlay feature to be gone after deletion")
		}
		f, _ := h.coord.store.get(id)
		if len(f.Geometry.Polygon[0]) != 4 {
			t.Errorf("expected closed triangle (4 coordinates), got %d", len(f.Geometry.Polygon[0]))
		}
	})

	t.Run("not deletable", func(t *testing.T) {
		h, sel := newSelectHarness(SelectFlags{
			"polygon": {Coordinates: &CoordinateFlags{Draggable: true, Deletable: false}},
		})
		id, _ := h.coord.store.create("polygon", Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{square()}}, nil)
		h.click(0.5, 0.5)
		_ = sel

		h.rightClick(0, 0)

		f, _ := h.coord.store.get(id)
		if len(f.Geometry.Polygon[0]) != 5 {
			t.Errorf("expected no mutation, ring still 5 coordinates, got %d", len(f.Geometry.Polygon[0]))
		}
	})
}

func TestScenario6InvalidDeleteSuppressed(t *testing.T) {
	h, sel := newSelectHarness(SelectFlags{
		"polygon": {Coordinates: &CoordinateFlags{Draggable: true, Deletable: true}},
	})
	triangle := []Coordinate{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 1}, {Lng: 1, Lat: 1}, {Lng: 0, Lat: 0}}
	id, _ := h.coord.store.create("polygon", Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{triangle}}, nil)
	h.click(0.4, 0.4)
	if sel.selectedID != id {
		t.Fatal("expected triangle selected")
	}

	for _, v := range []Coordinate{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 1}, {Lng: 1, Lat: 1}} {
		h.rightClick(v.Lng, v.Lat)
		f, _ := h.coord.store.get(id)
		if len(f.Geometry.Polygon[0]) != 4 {
			t.Fatalf("expected ring unchanged at 4 coordinates after attempted delete of %v, got %d", v, len(f.Geometry.Polygon[0]))
		}
	}
}

// TestScenario7DragCoordinateResizeCenter covers a selected polygon with
// resizable "center": two successive onDrag events at (1,1), each
// producing one update batch of parent + the four overlay points. The
// polygon's centroid (2,2) is kept away from (1,1) so both steps compute a
// non-degenerate scale factor.
func TestScenario7DragCoordinateResizeCenter(t *testing.T) {
	h, sel := newSelectHarness(SelectFlags{
		"polygon": {Coordinates: &CoordinateFlags{Resizable: ResizeCenter}},
	})
	ring := []Coordinate{{Lng: 0, Lat: 0}, {Lng: 0, Lat: 4}, {Lng: 4, Lat: 4}, {Lng: 4, Lat: 0}, {Lng: 0, Lat: 0}}
	id, _ := h.coord.store.create("polygon", Geometry{Type: GeometryPolygon, Polygon: [][]Coordinate{ring}}, nil)
	h.click(1, 1)
	if sel.selectedID != id {
		t.Fatal("expected polygon selected")
	}

	var batches []ChangeBatch
	h.coord.store.OnChange(func(b ChangeBatch) { batches = append(batches, b) })

	sel.keys = KeyBindings{Scale: []string{"Control"}}
	h.coord.OnDragStart(h.event(3, 3, ButtonLeft, "Control"))
	h.coord.OnDrag(h.event(1, 1, ButtonLeft, "Control"))
	h.coord.OnDrag(h.event(1, 1, ButtonLeft, "Control"))
	h.coord.OnDragEnd(h.event(1, 1, ButtonLeft, "Control"))

	if len(batches) != 2 {
		t.Fatalf("expected exactly 2 update batches, got %d", len(batches))
	}
	for i, b := range batches {
		if len(b.Updated) != 5 {
			t.Errorf("batch %d: expected 5 updated ids (parent + 4 overlay points), got %d: %v", i, len(b.Updated), b.Updated)
		}
	}
}

func TestScenario8CircleMode(t *testing.T) {
	store := NewStore()
	h := newHarness(store)
	circle := NewCircleMode()
	h.coord.Register("circle", circle)
	h.coord.SetActiveMode("circle")

	var creates int
	store.OnChange(func(b ChangeBatch) { creates += len(b.Created) })

	h.click(0, 0)
	if len(store.copyAll()) != 1 {
		t.Fatalf("expected 1 feature after first click, got %d", len(store.copyAll()))
	}
	if creates != 1 {
		t.Fatalf("expected 1 create, got %d", creates)
	}

	before := store.copyAll()[0].Geometry
	h.moveMouse(0, 0.02)
	after := store.copyAll()[0].Geometry
	if after.Polygon[0][0] == before.Polygon[0][0] {
		t.Error("expected mouse-move to update the circle's geometry")
	}

	h.click(0, 0.02)
	if len(store.copyAll()) != 1 {
		t.Fatalf("expected still 1 feature after finalize click, got %d", len(store.copyAll()))
	}
	if creates != 1 {
		t.Errorf("expected no additional create on finalize, got %d", creates)
	}
}
