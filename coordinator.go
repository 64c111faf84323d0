package terradraw

// SelectCallbacks are the Coordinator-level callbacks delivered to the
// adapter around selection and gesture completion. Store change
// notification is separate: SetAdapter wires Store.OnChange to
// Adapter.Render, resolving each rendered feature's style through the mode
// that owns it.
type SelectCallbacks struct {
	OnSelect   func(id string)
	OnDeselect func(id string)
	OnFinish   func(id string, info FinishInfo)
}

// Coordinator registers modes against a single Adapter, routes incoming
// events to whichever mode is currently active, and enforces that at most
// one mode is active at a time with a clean stop/start handoff on switch.
// Key names are forwarded to the active mode unchanged; each mode matches
// them against its own configured bindings (see KeyBindings).
type Coordinator struct {
	store   *Store
	adapter Adapter

	modes  map[string]Mode
	order  []string
	active string

	callbacks SelectCallbacks
}

// NewCoordinator returns a Coordinator bound to store. Call SetAdapter
// before routing any events.
func NewCoordinator(store *Store) *Coordinator {
	return &Coordinator{store: store, modes: make(map[string]Mode)}
}

// SetAdapter installs the adapter every registered mode's Config.Project/
// Unproject/SetCursor/SetDraggability hooks will call through, and wires
// the store's change notifications to the adapter's renderer.
func (c *Coordinator) SetAdapter(a Adapter) {
	c.adapter = a
	c.store.OnChange(func(b ChangeBatch) {
		c.adapter.Render(b, c.resolveStyle)
	})
}

// resolveStyle looks up f's owning mode (its reserved "mode" property) and
// returns the style that mode would render it with. A feature whose mode
// property names no registered mode (e.g. a stale or externally imported
// feature) renders with no style overrides.
func (c *Coordinator) resolveStyle(f Feature) map[string]any {
	m, ok := c.modes[f.Mode()]
	if !ok {
		return nil
	}
	return m.StyleFeature(f)
}

// SetCallbacks installs the select/deselect/finish callbacks delivered to
// the adapter.
func (c *Coordinator) SetCallbacks(cb SelectCallbacks) {
	c.callbacks = cb
}

// Register registers a mode under name, wiring its Config from the
// Coordinator's store and adapter. Fails AlreadyRegistered (via the
// mode's own register, which panics) if called twice for the same mode
// instance; fails by panic if the same name is registered twice under the
// Coordinator.
func (c *Coordinator) Register(name string, m Mode) {
	if _, exists := c.modes[name]; exists {
		panicUsage(ErrAlreadyRegistered, "coordinator.Register", "mode name "+name+" already registered")
	}
	m.register(Config{
		Store:           c.store,
		Project:         c.project,
		Unproject:       c.unproject,
		SetCursor:       c.setCursor,
		SetDraggability: c.setDraggability,
		OnSelect:        c.emitSelect,
		OnDeselect:      c.emitDeselect,
		OnFinish:        c.emitFinish,
	})
	c.modes[name] = m
	c.order = append(c.order, name)
}

func (c *Coordinator) project(coord Coordinate) (float64, float64) {
	if c.adapter == nil {
		return 0, 0
	}
	return c.adapter.Project(coord)
}

func (c *Coordinator) unproject(x, y float64) Coordinate {
	if c.adapter == nil {
		return Coordinate{}
	}
	return c.adapter.Unproject(x, y)
}

func (c *Coordinator) setCursor(name string) {
	if c.adapter != nil {
		c.adapter.SetCursor(name)
	}
}

func (c *Coordinator) setDraggability(enabled bool) {
	if c.adapter != nil {
		c.adapter.SetDraggability(enabled)
		c.adapter.SetDoubleClickToZoom(enabled)
	}
}

// SetActiveMode stops the currently active mode (if any) and starts name,
// enforcing at-most-one-active-mode. name must already be registered.
func (c *Coordinator) SetActiveMode(name string) {
	m, ok := c.modes[name]
	if !ok {
		panicUsage(ErrNotRegistered, "coordinator.SetActiveMode", "mode "+name+" not registered")
	}
	if c.active != "" {
		c.modes[c.active].stop()
	}
	c.active = name
	m.start()
	log.Debug().Str("mode", name).Msg("coordinator: active mode switched")
}

// ActiveMode returns the name of the currently active mode, or "" if none.
func (c *Coordinator) ActiveMode() string {
	return c.active
}

func (c *Coordinator) current() (Mode, bool) {
	if c.active == "" {
		return nil, false
	}
	m, ok := c.modes[c.active]
	return m, ok
}

// OnClick routes a click PointerEvent to the active mode.
func (c *Coordinator) OnClick(e PointerEvent) {
	if m, ok := c.current(); ok {
		m.onClick(e)
	}
}

// OnMouseMove routes a pointer-move PointerEvent to the active mode.
func (c *Coordinator) OnMouseMove(e PointerEvent) {
	if m, ok := c.current(); ok {
		m.onMouseMove(e)
	}
}

// OnDragStart routes a drag-start PointerEvent to the active mode.
func (c *Coordinator) OnDragStart(e PointerEvent) {
	if m, ok := c.current(); ok {
		m.onDragStart(e)
	}
}

// OnDrag routes a drag PointerEvent to the active mode.
func (c *Coordinator) OnDrag(e PointerEvent) {
	if m, ok := c.current(); ok {
		m.onDrag(e)
	}
}

// OnDragEnd routes a drag-end PointerEvent to the active mode.
func (c *Coordinator) OnDragEnd(e PointerEvent) {
	if m, ok := c.current(); ok {
		m.onDragEnd(e)
	}
}

// OnKeyDown routes a key name, unchanged, to the active mode.
func (c *Coordinator) OnKeyDown(key string) {
	if m, ok := c.current(); ok {
		m.onKeyDown(key)
	}
}

// OnKeyUp routes a key name, unchanged, to the active mode.
func (c *Coordinator) OnKeyUp(key string) {
	if m, ok := c.current(); ok {
		m.onKeyUp(key)
	}
}

// emitSelect, emitDeselect, and emitFinish are wired into select mode's
// Config.OnSelect/OnDeselect/OnFinish at Register time; Coordinator owns
// the callback plumbing so the ordering rule ("old selected false, old
// overlays deleted, new selected true, new overlays created") is satisfied
// by mode_select.go calling these at the right points within a single
// Store.Scope.
func (c *Coordinator) emitSelect(id string) {
	if c.callbacks.OnSelect != nil {
		c.callbacks.OnSelect(id)
	}
}

func (c *Coordinator) emitDeselect(id string) {
	if c.callbacks.OnDeselect != nil {
		c.callbacks.OnDeselect(id)
	}
}

func (c *Coordinator) emitFinish(id string, info FinishInfo) {
	if c.callbacks.OnFinish != nil {
		c.callbacks.OnFinish(id, info)
	}
}
