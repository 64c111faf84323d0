package terradraw

import "testing"

func newCircleHarness() (*CircleMode, *Store) {
	store := NewStore()
	adapter := newRecordingAdapter()
	m := NewCircleMode()
	m.register(Config{Store: store, Project: adapter.Project, Unproject: adapter.Unproject, SetCursor: adapter.SetCursor})
	m.start()
	return m, store
}

// TestCircleModeScenario covers click (0,0) creating 1 feature,
// mouse-move updating its geometry, and a second click finalizing
// without creating a second feature.
func TestCircleModeScenario(t *testing.T) {
	m, store := newCircleHarness()
	createCount := 0
	store.OnChange(func(b ChangeBatch) {
		createCount += len(b.Created)
	})

	m.onClick(PointerEvent{Lng: 0, Lat: 0})
	if len(store.copyAll()) != 1 {
		t.Fatalf("expected 1 feature after first click, got %d", len(store.copyAll()))
	}
	if createCount != 1 {
		t.Fatalf("expected 1 create notification, got %d", createCount)
	}

	m.onMouseMove(PointerEvent{Lng: 0, Lat: 0.01})
	ring := store.copyAll()[0].Geometry.Polygon[0]
	radius1 := HaversineDistanceKm(centerOfRing(ring), ring[0])
	if radius1 <= initialRadiusKm {
		t.Error("expected radius to grow after mouse-move")
	}

	m.onClick(PointerEvent{Lng: 0, Lat: 0.01})
	if len(store.copyAll()) != 1 {
		t.Fatalf("expected still 1 feature after finalize click, got %d", len(store.copyAll()))
	}
	if createCount != 1 {
		t.Errorf("expected no additional create on finalize, got %d total creates", createCount)
	}
	if m.sized {
		t.Error("expected circle mode to return to Idle after finalize")
	}
}

func centerOfRing(ring []Coordinate) Coordinate {
	return Centroid([][]Coordinate{ring})
}

func TestCircleModeEscapeDeletesDraft(t *testing.T) {
	m, store := newCircleHarness()
	m.onClick(PointerEvent{Lng: 0, Lat: 0})
	m.onKeyDown("Escape")

	if len(store.copyAll()) != 0 {
		t.Error("expected draft deleted on Escape")
	}
}
