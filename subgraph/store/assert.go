package store

import (
	"github.com/tinderbox-go/tinderbox/logging"
)

// Assertions never return errors: each failure mode logs its own
// diagnostic and yields false, so the caller can both tell why the
// expectation did not hold and decide whether that fails the test.

// FieldEquals reports whether the field's canonical rendering equals
// expected. Absence of the type, the id or the field each count as a
// distinct failure.
func (s *Store) FieldEquals(entityType, id, field, expected string) bool {
	s.Reconcile()
	ents, ok := s.types.Get(entityType)
	if !ok {
		logging.Error("(assert.fieldEquals) No entities with type '%s' found.", entityType)
		return false
	}
	rec, ok := ents.Get(id)
	if !ok {
		logging.Error("(assert.fieldEquals) No entity with type '%s' and id '%s' found.", entityType, id)
		return false
	}
	v, ok := rec[field]
	if !ok {
		logging.Error("(assert.fieldEquals) No field named '%s' on entity with type '%s' and id '%s' found.", field, entityType, id)
		return false
	}
	if got := v.String(); got != expected {
		logging.Error("(assert.fieldEquals) Expected field '%s' to equal '%s', but was '%s' instead.", field, expected, got)
		return false
	}
	return true
}

// NotInStore reports whether no record exists at (entityType, id).
func (s *Store) NotInStore(entityType, id string) bool {
	s.Reconcile()
	if ents, ok := s.types.Get(entityType); ok {
		if _, ok := ents.Get(id); ok {
			logging.Error("(assert.notInStore) Value for entity type: '%s' and id: '%s' was found in store.", entityType, id)
			return false
		}
	}
	return true
}
