package terradraw

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Reserved property keys. PropMode is stamped by Store.create on every
// feature; PropSelected is set and cleared by select mode through
// Store.updateProperty; PropParentID, PropVertexIndex and PropSegmentIndex
// are set on the overlay features select mode creates.
const (
	PropMode         = "mode"
	PropSelected     = "selected"
	PropParentID     = "parentId"
	PropVertexIndex  = "index"
	PropSegmentIndex = "segmentIndex"
)

// Properties is the free-form property mapping a Feature carries alongside
// its geometry.
type Properties map[string]any

// Clone returns a shallow copy, sufficient since property values are
// expected to be scalars or strings per the GeoJSON wire format.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Feature is a GeoJSON feature held by the Store: a stable id, a geometry
// tagged union, and free-form properties. PropMode and PropSelected are
// store-managed reserved properties.
type Feature struct {
	ID         string
	Geometry   Geometry
	Properties Properties
}

// Mode returns the owning mode name from the reserved "mode" property, or
// "" if unset.
func (f Feature) Mode() string {
	if v, ok := f.Properties[PropMode]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Selected returns the reserved "selected" property, defaulting to false.
func (f Feature) Selected() bool {
	if v, ok := f.Properties[PropSelected]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// clone returns a deep copy of f, used by every copy-returning Store
// accessor to prevent the adapter aliasing live store state.
func (f Feature) clone() Feature {
	return Feature{
		ID:         f.ID,
		Geometry:   cloneGeometry(f.Geometry),
		Properties: f.Properties.Clone(),
	}
}

func cloneGeometry(g Geometry) Geometry {
	out := g
	if g.LineString != nil {
		out.LineString = append([]Coordinate(nil), g.LineString...)
	}
	if g.Polygon != nil {
		out.Polygon = cloneRings(g.Polygon)
	}
	if g.MultiPolygon != nil {
		polys := make([][][]Coordinate, len(g.MultiPolygon))
		for i, p := range g.MultiPolygon {
			polys[i] = cloneRings(p)
		}
		out.MultiPolygon = polys
	}
	return out
}

func cloneRings(rings [][]Coordinate) [][]Coordinate {
	out := make([][]Coordinate, len(rings))
	for i, r := range rings {
		out[i] = append([]Coordinate(nil), r...)
	}
	return out
}

// MarshalGeoJSON converts f to a twpayne/go-geom GeoJSON feature, the
// store's strict GeoJSON wire format.
func (f Feature) MarshalGeoJSON() (*geojson.Feature, error) {
	g, err := toGeomT(f.Geometry)
	if err != nil {
		return nil, err
	}
	props := make(map[string]any, len(f.Properties))
	for k, v := range f.Properties {
		props[k] = v
	}
	return &geojson.Feature{
		ID:         f.ID,
		Geometry:   g,
		Properties: props,
	}, nil
}

// UnmarshalFeatureGeoJSON converts a decoded geojson.Feature back into a
// Feature, re-validating the resulting Geometry: on import the store
// re-validates invariants and rejects violators per feature.
func UnmarshalFeatureGeoJSON(gf *geojson.Feature) (Feature, error) {
	geom, err := fromGeomT(gf.Geometry)
	if err != nil {
		return Feature{}, err
	}
	if err := geom.Validate(); err != nil {
		return Feature{}, err
	}
	props := make(Properties, len(gf.Properties))
	for k, v := range gf.Properties {
		props[k] = v
	}
	id, _ := gf.ID.(string)
	return Feature{ID: id, Geometry: geom, Properties: props}, nil
}

func toGeomT(g Geometry) (geom.T, error) {
	switch g.Type {
	case GeometryPoint:
		return geom.NewPointFlat(geom.XY, []float64{g.Point.Lng, g.Point.Lat}), nil
	case GeometryLineString:
		flat := flattenCoords(g.LineString)
		return geom.NewLineStringFlat(geom.XY, flat), nil
	case GeometryPolygon:
		flat, ends := flattenRings(g.Polygon)
		return geom.NewPolygonFlat(geom.XY, flat, ends), nil
	case GeometryMultiPolygon:
		flat, ends, err := flattenMultiPolygon(g.MultiPolygon)
		if err != nil {
			return nil, err
		}
		return geom.NewMultiPolygonFlat(geom.XY, flat, ends)
	default:
		return nil, fmt.Errorf("terradraw: unsupported geometry type %q", g.Type)
	}
}

func flattenCoords(pts []Coordinate) []float64 {
	flat := make([]float64, 0, len(pts)*2)
	for _, c := range pts {
		flat = append(flat, c.Lng, c.Lat)
	}
	return flat
}

func flattenRings(rings [][]Coordinate) ([]float64, []int) {
	var flat []float64
	ends := make([]int, 0, len(rings))
	for _, ring := range rings {
		flat = append(flat, flattenCoords(ring)...)
		ends = append(ends, len(flat))
	}
	return flat, ends
}

func flattenMultiPolygon(polys [][][]Coordinate) ([]float64, [][]int, error) {
	var flat []float64
	ends := make([][]int, 0, len(polys))
	for _, rings := range polys {
		polyFlat, polyEnds := flattenRings(rings)
		offset := len(flat)
		flat = append(flat, polyFlat...)
		shifted := make([]int, len(polyEnds))
		for i, e := range polyEnds {
			shifted[i] = e + offset
		}
		ends = append(ends, shifted)
	}
	return flat, ends, nil
}

func fromGeomT(g geom.T) (Geometry, error) {
	switch t := g.(type) {
	case *geom.Point:
		flat := t.FlatCoords()
		return Geometry{Type: GeometryPoint, Point: Coordinate{Lng: flat[0], Lat: flat[1]}}, nil
	case *geom.LineString:
		return Geometry{Type: GeometryLineString, LineString: unflattenCoords(t.FlatCoords())}, nil
	case *geom.Polygon:
		return Geometry{Type: GeometryPolygon, Polygon: unflattenRings(t.FlatCoords(), t.Ends())}, nil
	case *geom.MultiPolygon:
		polys := make([][][]Coordinate, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			p := t.Polygon(i)
			polys[i] = unflattenRings(p.FlatCoords(), p.Ends())
		}
		return Geometry{Type: GeometryMultiPolygon, MultiPolygon: polys}, nil
	default:
		return Geometry{}, fmt.Errorf("terradraw: unsupported GeoJSON geometry %T", g)
	}
}

func unflattenCoords(flat []float64) []Coordinate {
	out := make([]Coordinate, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		out = append(out, Coordinate{Lng: flat[i], Lat: flat[i+1]})
	}
	return out
}

func unflattenRings(flat []float64, ends []int) [][]Coordinate {
	rings := make([][]Coordinate, 0, len(ends))
	start := 0
	for _, end := range ends {
		rings = append(rings, unflattenCoords(flat[start:end]))
		start = end
	}
	return rings
}
