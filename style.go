package terradraw

import "reflect"

// StyleValue is either a literal value or a function of a Feature,
// resolved by StyleFeature. Only these two shapes are accepted by
// SetStyles; anything else panics with ErrInvalidStyles.
type StyleValue any

// StyleFunc computes a style value from the feature it is styling.
type StyleFunc func(Feature) any

// StyleMap is a mode's named style table, e.g. {"selectedPolygonColor":
// "#ff0000"} or {"pointColor": StyleFunc(func(f Feature) any {...})}.
type StyleMap map[string]StyleValue

// resolve evaluates a single StyleValue against f: a StyleFunc is called,
// anything else is returned as a literal.
func resolve(v StyleValue, f Feature) any {
	if fn, ok := v.(StyleFunc); ok {
		return fn(f)
	}
	return v
}

// styleTable holds a mode's defaults plus any caller overrides, merged by
// StyleFeature.
type styleTable struct {
	defaults  StyleMap
	overrides StyleMap
}

func newStyleTable(defaults StyleMap) *styleTable {
	return &styleTable{defaults: defaults, overrides: StyleMap{}}
}

func isFunc(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}

// SetStyles validates and installs overrides on top of the table's
// defaults. A bare func value that isn't a StyleFunc is a usage error and
// panics (ErrInvalidStyles): structural/usage errors are thrown, not
// returned.
func (t *styleTable) SetStyles(overrides StyleMap) {
	for k, v := range overrides {
		switch v.(type) {
		case StyleFunc, nil:
		default:
			if isFunc(v) {
				panicUsage(ErrInvalidStyles, "mode.SetStyles", "style key "+k+" is a func but not a StyleFunc")
			}
		}
	}
	for k, v := range overrides {
		t.overrides[k] = v
	}
}

// StyleFeature evaluates every style key against f, overrides taking
// precedence over defaults, and returns the resolved map.
func (t *styleTable) StyleFeature(f Feature) map[string]any {
	out := make(map[string]any, len(t.defaults)+len(t.overrides))
	for k, v := range t.defaults {
		out[k] = resolve(v, f)
	}
	for k, v := range t.overrides {
		out[k] = resolve(v, f)
	}
	return out
}
