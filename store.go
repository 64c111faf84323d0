package terradraw

import (
	"github.com/google/uuid"
)

// ChangeBatch is the set of feature ids touched by one mutation scope,
// delivered to the store's change callback exactly once per scope. Created
// and Deleted are disjoint; an id appearing in multiple buckets within a
// scope has already been collapsed by the rules in
// recordCreate/recordUpdate/recordDelete.
type ChangeBatch struct {
	Created []string
	Updated []string
	Deleted []string
}

func (b ChangeBatch) empty() bool {
	return len(b.Created) == 0 && len(b.Updated) == 0 && len(b.Deleted) == 0
}

// changeKind is the collapsed state of a single id within the batch being
// built.
type changeKind int

const (
	changeNone changeKind = iota
	changeCreated
	changeUpdated
	changeDeleted
)

// ChangeFunc receives a completed ChangeBatch. Registered on a Store with
// OnChange; the coordinator/adapter is the usual subscriber.
type ChangeFunc func(ChangeBatch)

// Store is the authoritative in-memory database of Features keyed by id.
// It is not re-entrant: a mode must not invoke the store from inside
// another mode's handler. All mutating methods must be called either
// directly (auto-scoped as a single-bucket batch) or inside a Scope call
// (explicitly atomic across multiple store calls).
type Store struct {
	features map[string]Feature
	order    []string // insertion order, for deterministic copyAll

	onChange ChangeFunc

	scopeDepth int
	pending    map[string]changeKind
}

// NewStore returns an empty Store with no change callback registered.
func NewStore() *Store {
	return &Store{
		features: make(map[string]Feature),
		pending:  make(map[string]changeKind),
	}
}

// OnChange registers the callback invoked once per mutation scope with the
// accumulated ChangeBatch. A nil fn disables notification.
func (s *Store) OnChange(fn ChangeFunc) {
	s.onChange = fn
}

// Scope runs fn with mutations coalesced into a single ChangeBatch,
// delivered to the change callback once fn returns. Scopes nest: only
// the outermost call flushes.
func (s *Store) Scope(fn func()) {
	s.scopeDepth++
	defer s.endScope()
	fn()
}

// autoScope wraps a single store call that wasn't already inside an
// explicit Scope, so every mutating method always flushes exactly once
// per top-level call.
func (s *Store) autoScope(fn func()) {
	if s.scopeDepth > 0 {
		fn()
		return
	}
	s.Scope(fn)
}

func (s *Store) endScope() {
	s.scopeDepth--
	if s.scopeDepth > 0 {
		return
	}
	if len(s.pending) == 0 {
		return
	}
	batch := ChangeBatch{}
	for id, kind := range s.pending {
		switch kind {
		case changeCreated:
			batch.Created = append(batch.Created, id)
		case changeUpdated:
			batch.Updated = append(batch.Updated, id)
		case changeDeleted:
			batch.Deleted = append(batch.Deleted, id)
		}
	}
	s.pending = make(map[string]changeKind)
	if batch.empty() || s.onChange == nil {
		return
	}
	s.onChange(batch)
}

// recordCreate, recordUpdate, and recordDelete implement the collapse
// rules for a single mutation scope: created+deleted collapses to
// neither; updated+deleted collapses to deleted; created+updated stays
// created.
func (s *Store) recordCreate(id string) {
	s.pending[id] = changeCreated
}

func (s *Store) recordUpdate(id string) {
	if s.pending[id] == changeCreated {
		return
	}
	s.pending[id] = changeUpdated
}

func (s *Store) recordDelete(id string) {
	if s.pending[id] == changeCreated {
		delete(s.pending, id)
		return
	}
	s.pending[id] = changeDeleted
}

// create inserts a new feature with a fresh uuid and the given geometry and
// properties, validating the geometry first.
// mode is stamped as the reserved "mode" property.
func (s *Store) create(mode string, geom Geometry, props Properties) (string, error) {
	if err := geom.Validate(); err != nil {
		return "", newInvalidGeometry("store.create", err)
	}
	id := uuid.NewString()
	merged := props.Clone()
	if merged == nil {
		merged = Properties{}
	}
	merged[PropMode] = mode

	s.autoScope(func() {
		s.features[id] = Feature{ID: id, Geometry: cloneGeometry(geom), Properties: merged}
		s.order = append(s.order, id)
		s.recordCreate(id)
		log.Debug().Str("id", id).Str("mode", mode).Msg("store: create")
	})
	return id, nil
}

// delete removes a feature by id. Unknown ids are a bookkeeping error
// and are returned, not panicked.
func (s *Store) delete(id string) error {
	if _, ok := s.features[id]; !ok {
		return newUnknownID("store.delete", id)
	}
	s.autoScope(func() {
		delete(s.features, id)
		s.removeFromOrder(id)
		s.recordDelete(id)
		log.Debug().Str("id", id).Msg("store: delete")
	})
	return nil
}

func (s *Store) removeFromOrder(id string) {
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// updateGeometry replaces a feature's geometry after validating it. A
// validation failure is returned, never panicked, so a draw mode mid-drag
// can suppress the mutation and keep the feature at its last valid state.
func (s *Store) updateGeometry(id string, geom Geometry) error {
	f, ok := s.features[id]
	if !ok {
		return newUnknownID("store.updateGeometry", id)
	}
	if err := geom.Validate(); err != nil {
		return newInvalidGeometry("store.updateGeometry", err)
	}
	s.autoScope(func() {
		f.Geometry = cloneGeometry(geom)
		s.features[id] = f
		s.recordUpdate(id)
		log.Debug().Str("id", id).Msg("store: updateGeometry")
	})
	return nil
}

// PropertyUpdate is one entry in an updateProperty call: merge Props into
// feature ID's existing properties.
type PropertyUpdate struct {
	ID    string
	Props Properties
}

// updateProperty merges each update's Props into the named feature's
// properties and emits a single {updated} batch covering every id touched.
func (s *Store) updateProperty(updates []PropertyUpdate) error {
	for _, u := range updates {
		if _, ok := s.features[u.ID]; !ok {
			return newUnknownID("store.updateProperty", u.ID)
		}
	}
	s.autoScope(func() {
		for _, u := range updates {
			f := s.features[u.ID]
			if f.Properties == nil {
				f.Properties = Properties{}
			}
			for k, v := range u.Props {
				f.Properties[k] = v
			}
			s.features[u.ID] = f
			s.recordUpdate(u.ID)
		}
		log.Debug().Int("count", len(updates)).Msg("store: updateProperty")
	})
	return nil
}

// copyAll returns a deep-copied snapshot of every feature, in insertion
// order, so the adapter cannot alias live store state.
func (s *Store) copyAll() []Feature {
	out := make([]Feature, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.features[id].clone())
	}
	return out
}

// getGeometryCopy returns a deep copy of a single feature's geometry.
func (s *Store) getGeometryCopy(id string) (Geometry, error) {
	f, ok := s.features[id]
	if !ok {
		return Geometry{}, newUnknownID("store.getGeometryCopy", id)
	}
	return cloneGeometry(f.Geometry), nil
}

// getPropertiesCopy returns a deep copy of a single feature's properties.
func (s *Store) getPropertiesCopy(id string) (Properties, error) {
	f, ok := s.features[id]
	if !ok {
		return nil, newUnknownID("store.getPropertiesCopy", id)
	}
	return f.Properties.Clone(), nil
}

// has reports whether id currently exists in the store.
func (s *Store) has(id string) bool {
	_, ok := s.features[id]
	return ok
}

// get returns the live (uncloned) feature for internal, same-scope reads
// where the caller is known not to retain or mutate it beyond the current
// handler. External-facing code must use getGeometryCopy/getPropertiesCopy.
func (s *Store) get(id string) (Feature, bool) {
	f, ok := s.features[id]
	return f, ok
}
