package terradraw

import "testing"

func newPolygonHarness() (*PolygonMode, *Store, *recordingAdapter) {
	store := NewStore()
	adapter := newRecordingAdapter()
	m := NewPolygonMode()
	m.register(Config{
		Store:     store,
		Project:   adapter.Project,
		Unproject: adapter.Unproject,
		SetCursor: adapter.SetCursor,
	})
	m.start()
	return m, store, adapter
}

func TestPolygonModeFirstClickCreatesDegenerateDraft(t *testing.T) {
	m, store, _ := newPolygonHarness()
	m.onClick(PointerEvent{Lng: 0, Lat: 0})

	feats := store.copyAll()
	if len(feats) != 1 {
		t.Fatalf("expected 1 draft feature, got %d", len(feats))
	}
	ring := feats[0].Geometry.Polygon[0]
	if len(ring) != 4 {
		t.Fatalf("expected degenerate 4-vertex ring, got %d", len(ring))
	}
	for _, c := range ring {
		if c != (Coordinate{Lng: 0, Lat: 0}) {
			t.Errorf("expected all-(0,0) placeholder ring, got %v", ring)
		}
	}
}

func TestPolygonModeMouseMoveUpdatesGhostVertex(t *testing.T) {
	m, store, _ := newPolygonHarness()
	m.onClick(PointerEvent{Lng: 0, Lat: 0})
	m.onMouseMove(PointerEvent{Lng: 1, Lat: 1})

	ring := store.copyAll()[0].Geometry.Polygon[0]
	last := ring[len(ring)-2] // last non-closing vertex
	if last != (Coordinate{Lng: 1, Lat: 1}) {
		t.Errorf("ghost vertex = %v, want (1,1)", last)
	}
}

func TestPolygonModeFinalizesNearFirstVertex(t *testing.T) {
	m, store, _ := newPolygonHarness()
	m.onClick(PointerEvent{Lng: 0, Lat: 0})
	m.onClick(PointerEvent{Lng: 1, Lat: 0})
	m.onClick(PointerEvent{Lng: 1, Lat: 1})

	finished := false
	m.cfg.OnFinish = func(id string, info FinishInfo) { finished = true }
	m.onClick(PointerEvent{Lng: 0.0001, Lat: 0.0001})

	if !finished {
		t.Fatal("expected finalize near the first vertex")
	}
	if m.drawing() {
		t.Error("mode should have returned to idle after finalize")
	}
	ring := store.copyAll()[0].Geometry.Polygon[0]
	if ring[0] != ring[len(ring)-1] {
		t.Error("finalized ring must be closed")
	}
}

func TestPolygonModeEscapeDeletesDraft(t *testing.T) {
	m, store, _ := newPolygonHarness()
	m.onClick(PointerEvent{Lng: 0, Lat: 0})
	m.onKeyDown("Escape")

	if m.drawing() {
		t.Error("expected draft to be cleared after Escape")
	}
	if len(store.copyAll()) != 0 {
		t.Errorf("expected store empty after Escape, got %d features", len(store.copyAll()))
	}
}

func TestPolygonModeStopCleansUpInProgressDraft(t *testing.T) {
	m, store, _ := newPolygonHarness()
	m.onClick(PointerEvent{Lng: 0, Lat: 0})
	m.stop()

	if len(store.copyAll()) != 0 {
		t.Error("expected draft deleted on stop")
	}
}
