// Package terradraw is a map-agnostic interactive drawing engine: drawing-mode
// state machines plus the feature store that mediates between them and an
// external map adapter.
//
// The package covers the interaction core only. A concrete adapter wires a
// [Coordinator] to a specific map library: it feeds normalized [PointerEvent]
// values in, and receives batched [ChangeBatch] notifications plus
// onSelect/onDeselect/onFinish callbacks out. Rendering, tile projection, and
// persistence are the adapter's job, not this package's.
//
// # Quick start
//
//	store := terradraw.NewStore()
//	coord := terradraw.NewCoordinator(store)
//	coord.Register("point", terradraw.NewPointMode())
//	coord.Register("select", terradraw.NewSelectMode(terradraw.SelectOptions{
//		Flags: terradraw.SelectFlags{
//			"point": {Feature: &terradraw.FeatureFlags{Draggable: true}},
//		},
//	}))
//	coord.SetActiveMode("point")
//
// # Geometry kernel
//
// [HaversineDistanceKm], [MidpointGreatCircle], [PointInPolygon],
// [PointToLineDistancePx], [SelfIntersects], [CirclePolygon], and [Centroid]
// are pure functions over WGS84 coordinates ([Coordinate]).
// [Geometry.Validate] checks coordinates and rings without clamping and
// reports violations as a [GeometryError].
//
// # Feature store
//
// [Store] is the authoritative in-memory database of [Feature] values keyed
// by id. Mutating calls made within one [Store.Scope] coalesce into a single
// change notification delivered to the store's change callback.
package terradraw
