package terradraw

import "math"

// RotateAroundAnchor rotates c around anchor by angleRad (clockwise,
// positive), treating lng/lat as a local planar patch scaled by
// cos(anchor.Lat) so that rotation looks correct on screen near the
// anchor.
func RotateAroundAnchor(c, anchor Coordinate, angleRad float64) Coordinate {
	scale := math.Cos(toRad(anchor.Lat))
	if scale == 0 {
		scale = 1e-9
	}
	dx := (c.Lng - anchor.Lng) * scale
	dy := c.Lat - anchor.Lat

	sin, cos := math.Sin(angleRad), math.Cos(angleRad)
	rx := dx*cos + dy*sin
	ry := -dx*sin + dy*cos

	return Coordinate{
		Lng: anchor.Lng + rx/scale,
		Lat: anchor.Lat + ry,
	}
}

// ScaleAroundAnchor scales c's offset from anchor by factor (1.0 = no
// change). Ported from transform.go's SetScale/computeLocalTransform
// scale step.
func ScaleAroundAnchor(c, anchor Coordinate, factor float64) Coordinate {
	return Coordinate{
		Lng: anchor.Lng + (c.Lng-anchor.Lng)*factor,
		Lat: anchor.Lat + (c.Lat-anchor.Lat)*factor,
	}
}

// rotateRing applies RotateAroundAnchor to every vertex of ring, returning
// a new slice.
func rotateRing(ring []Coordinate, anchor Coordinate, angleRad float64) []Coordinate {
	out := make([]Coordinate, len(ring))
	for i, c := range ring {
		out[i] = RotateAroundAnchor(c, anchor, angleRad)
	}
	return out
}

// scaleRing applies ScaleAroundAnchor to every vertex of ring, returning a
// new slice.
func scaleRing(ring []Coordinate, anchor Coordinate, factor float64) []Coordinate {
	out := make([]Coordinate, len(ring))
	for i, c := range ring {
		out[i] = ScaleAroundAnchor(c, anchor, factor)
	}
	return out
}

// transformGeometry applies fn to every coordinate in g, preserving its
// shape (rings, line, point). Used by Select mode's drag-rotate and
// drag-resize handlers to move every vertex of the dragged feature at once.
func transformGeometry(g Geometry, fn func(Coordinate) Coordinate) Geometry {
	out := g
	switch g.Type {
	case GeometryPoint:
		out.Point = fn(g.Point)
	case GeometryLineString:
		out.LineString = mapCoords(g.LineString, fn)
	case GeometryPolygon:
		out.Polygon = mapRings(g.Polygon, fn)
	case GeometryMultiPolygon:
		polys := make([][][]Coordinate, len(g.MultiPolygon))
		for i, p := range g.MultiPolygon {
			polys[i] = mapRings(p, fn)
		}
		out.MultiPolygon = polys
	}
	return out
}

func mapCoords(pts []Coordinate, fn func(Coordinate) Coordinate) []Coordinate {
	out := make([]Coordinate, len(pts))
	for i, c := range pts {
		out[i] = fn(c)
	}
	return out
}

func mapRings(rings [][]Coordinate, fn func(Coordinate) Coordinate) [][]Coordinate {
	out := make([][]Coordinate, len(rings))
	for i, ring := range rings {
		out[i] = mapCoords(ring, fn)
	}
	return out
}
