package terradraw

// MouseButton identifies which pointer button produced a PointerEvent.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// PointerEvent is the normalised shape produced by an Adapter and consumed
// by the core. Deliberately has no timestamp: anything timing-sensitive
// (e.g. double-click detection) must be derived from position and the
// sequence of events rather than wall-clock deltas.
type PointerEvent struct {
	Lng        float64
	Lat        float64
	ContainerX float64
	ContainerY float64
	Button     MouseButton
	HeldKeys   []string
}

// hasKey reports whether name is present in the event's held-keys set.
func (e PointerEvent) hasKey(name string) bool {
	for _, k := range e.HeldKeys {
		if k == name {
			return true
		}
	}
	return false
}

func (e PointerEvent) coordinate() Coordinate {
	return Coordinate{Lng: e.Lng, Lat: e.Lat}
}

// UnprojectFunc converts container pixel coordinates back to a WGS84
// Coordinate. Paired with ProjectFunc (geometry.go) for the Adapter
// contract's project/unproject pair.
type UnprojectFunc func(x, y float64) Coordinate

// Adapter is what the core requires of any concrete map-library binding.
// The core never imports a rendering or windowing library directly; it
// only calls through this interface.
type Adapter interface {
	// Project converts a WGS84 Coordinate to container pixel space.
	Project(c Coordinate) (x, y float64)
	// Unproject converts container pixel space back to WGS84.
	Unproject(x, y float64) Coordinate

	// SetDraggability enables or disables the underlying map's own
	// pan/rotate gesture handling, frozen during a select-mode drag.
	SetDraggability(enabled bool)
	// SetDoubleClickToZoom enables or disables the map's native
	// double-click-to-zoom gesture, which otherwise races with
	// line-string/polygon mode's double-click-to-finish gesture.
	SetDoubleClickToZoom(enabled bool)
	// SetCursor sets the pointer cursor, e.g. "crosshair", "move", "unset".
	SetCursor(name string)

	// Render receives a batched ChangeBatch plus a per-feature style
	// resolver and must complete before the next render is scheduled.
	Render(changes ChangeBatch, styleFeature func(Feature) map[string]any)

	// GetLngLatFromEvent extracts the WGS84 coordinate a native input
	// event occurred at, for adapters that need to re-derive it outside
	// the normalised PointerEvent path.
	GetLngLatFromEvent(nativeEvent any) Coordinate
}

// KeyBindings configures the abstract key actions a mode recognizes, as the
// adapter-reported key names that trigger them; the mode compares incoming
// key names against these directly. A nil/empty field disables that
// binding.
type KeyBindings struct {
	Deselect string
	Delete   string
	Rotate   []string
	Scale    []string
}

func (k KeyBindings) matchesRotate(held []string) bool {
	return matchesAny(k.Rotate, held)
}

func (k KeyBindings) matchesScale(held []string) bool {
	return matchesAny(k.Scale, held)
}

func matchesAny(keys []string, held []string) bool {
	for _, k := range keys {
		for _, h := range held {
			if k == h {
				return true
			}
		}
	}
	return false
}
