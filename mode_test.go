package terradraw

import "testing"

func TestModeBaseRegisterStartStopLifecycle(t *testing.T) {
	m := NewPointMode()
	var cursor string
	m.register(Config{Store: NewStore(), SetCursor: func(name string) { cursor = name }})
	m.start()
	if cursor != "crosshair" {
		t.Errorf("start cursor = %q, want crosshair", cursor)
	}
	m.stop()
	if cursor != "unset" {
		t.Errorf("stop cursor = %q, want unset", cursor)
	}
}

func TestModeBaseDoubleRegisterPanics(t *testing.T) {
	m := NewPointMode()
	m.register(Config{Store: NewStore()})
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on double register")
		}
	}()
	m.register(Config{Store: NewStore()})
}

func TestModeBaseStartBeforeRegisterPanics(t *testing.T) {
	m := NewPointMode()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic starting an unregistered mode")
		}
	}()
	m.start()
}

func TestStyleFeatureResolvesFuncsAndLiterals(t *testing.T) {
	m := NewPointMode()
	m.SetStyles(StyleMap{
		"pointColor": "#ff0000",
		"radius": StyleFunc(func(f Feature) any {
			if f.Selected() {
				return 8
			}
			return 4
		}),
	})
	selected := Feature{Properties: Properties{PropSelected: true}}
	resolved := m.StyleFeature(selected)
	if resolved["pointColor"] != "#ff0000" {
		t.Errorf("pointColor = %v, want #ff0000", resolved["pointColor"])
	}
	if resolved["radius"] != 8 {
		t.Errorf("radius = %v, want 8", resolved["radius"])
	}
}

func TestSetStylesPanicsOnBareFunc(t *testing.T) {
	m := NewPointMode()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for a bare func that isn't a StyleFunc")
		}
	}()
	m.SetStyles(StyleMap{"oops": func() {}})
}
