// Package store implements the in-memory entity store backing one
// harness instance, including the synchronizer that keeps @derivedFrom
// back-references consistent with the linking fields they are computed
// from. The store is single-writer and synchronous; maps are
// insertion-ordered so that derived-list orderings are byte-identical
// across runs of the same mutation sequence.
package store

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/tinderbox-go/tinderbox/logging"
	"github.com/tinderbox-go/tinderbox/subgraph/schema"
	"github.com/tinderbox-go/tinderbox/subgraph/value"
)

// Record is one entity's field data, keyed by field name. Records held
// by the store are owned exclusively by it; Get returns copies.
type Record map[string]value.Value

// Copy returns a shallow copy. Values are immutable, so a shallow copy
// is a safe snapshot.
func (r Record) Copy() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store maps entity type -> id -> record. The dirty flag is set on
// every write or delete and cleared by a full reconciliation pass, so
// derived fields are not recomputed on every single mutation.
type Store struct {
	schema *schema.Schema
	types  *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, Record]]
	dirty  bool
}

// New builds an empty store over the given schema index.
func New(s *schema.Schema) *Store {
	st := &Store{
		schema: s,
		types:  orderedmap.New[string, *orderedmap.OrderedMap[string, Record]](),
	}
	st.seedOwnerTypes()
	return st
}

// Derived-field owners get their type map up front so eager pushes
// have somewhere to land even before any owner entity is written.
func (s *Store) seedOwnerTypes() {
	for _, name := range s.schema.DerivedOwners() {
		s.types.Set(name, orderedmap.New[string, Record]())
	}
}

// Set validates and inserts or replaces the record at (entityType, id).
// A validation failure leaves the store untouched. Writing a type the
// schema does not declare is fatal: the test environment itself is
// misconfigured.
func (s *Store) Set(entityType, id string, fields Record) error {
	et, ok := s.schema.Type(entityType)
	if !ok {
		logging.Critical("store.set: entity type %q is not declared in the schema", entityType)
		return fmt.Errorf("unknown entity type %q", entityType)
	}

	for _, req := range et.Required {
		v, ok := fields[req]
		if !ok {
			return fmt.Errorf("missing value for non-nullable field %q on an entity of type %q", req, entityType)
		}
		if v.IsNull() {
			return fmt.Errorf("the required field %q for an entity of type %q is null", req, entityType)
		}
	}

	rec := fields.Copy()
	s.pushDerived(entityType, id, rec)
	s.pullDerived(et, id, rec)

	ents, ok := s.types.Get(entityType)
	if !ok {
		ents = orderedmap.New[string, Record]()
		s.types.Set(entityType, ents)
	}
	ents.Set(id, rec)
	s.dirty = true
	return nil
}

// Get returns a copy of the record at (entityType, id). Absence is not
// an error.
func (s *Store) Get(entityType, id string) (Record, bool) {
	s.Reconcile()
	ents, ok := s.types.Get(entityType)
	if !ok {
		return nil, false
	}
	rec, ok := ents.Get(id)
	if !ok {
		return nil, false
	}
	return rec.Copy(), true
}

// Remove deletes the record at (entityType, id), scrubbing its id out
// of every derived list its linking fields pushed it into.
func (s *Store) Remove(entityType, id string) error {
	ents, ok := s.types.Get(entityType)
	if !ok {
		return removeMissingErr(entityType, id)
	}
	rec, ok := ents.Get(id)
	if !ok {
		return removeMissingErr(entityType, id)
	}

	s.cascadeRemove(entityType, id, rec)
	ents.Delete(id)
	s.dirty = true
	return nil
}

func removeMissingErr(entityType, id string) error {
	return fmt.Errorf("(store.remove) Entity with type '%s' and id '%s' does not exist", entityType, id)
}

// Count returns the number of stored records of the given type.
func (s *Store) Count(entityType string) int {
	s.Reconcile()
	ents, ok := s.types.Get(entityType)
	if !ok {
		return 0
	}
	return ents.Len()
}

// Clear empties the store and marks it clean. The surrounding harness
// calls this between independent test cases.
func (s *Store) Clear() {
	s.types = orderedmap.New[string, *orderedmap.OrderedMap[string, Record]]()
	s.seedOwnerTypes()
	s.dirty = false
}

// Clone deep-copies the store for the ipfs.map context handoff. The
// schema index is immutable and shared.
func (s *Store) Clone() *Store {
	c := &Store{
		schema: s.schema,
		types:  orderedmap.New[string, *orderedmap.OrderedMap[string, Record]](),
		dirty:  s.dirty,
	}
	for tp := s.types.Oldest(); tp != nil; tp = tp.Next() {
		ents := orderedmap.New[string, Record]()
		for ep := tp.Value.Oldest(); ep != nil; ep = ep.Next() {
			ents.Set(ep.Key, ep.Value.Copy())
		}
		c.types.Set(tp.Key, ents)
	}
	return c
}

// Dump renders the whole store as indented JSON with canonical value
// renderings, for logStore-style debugging.
func (s *Store) Dump() string {
	dump := make(map[string]map[string]map[string]string)
	for tp := s.types.Oldest(); tp != nil; tp = tp.Next() {
		ents := make(map[string]map[string]string)
		for ep := tp.Value.Oldest(); ep != nil; ep = ep.Next() {
			fields := make(map[string]string, len(ep.Value))
			for name, v := range ep.Value {
				fields[name] = v.String()
			}
			ents[ep.Key] = fields
		}
		dump[tp.Key] = ents
	}
	out, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Sprintf("store dump failed: %v", err)
	}
	return string(out)
}
