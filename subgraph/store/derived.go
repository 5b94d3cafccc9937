package store

import (
	"github.com/tinderbox-go/tinderbox/subgraph/schema"
	"github.com/tinderbox-go/tinderbox/subgraph/value"
)

// The derived-field machinery runs in two gears. On every write the
// eager paths below keep things current without a full rescan: push
// appends the writer's id into the derived lists of the entities its
// linking fields point at, and pull recomputes the writer's own
// derived lists from already-stored children. The lazy Reconcile pass
// is the single source of truth; the eager paths are an optimization
// that keeps intermediate reads cheap but are never trusted to cover
// removals or multi-hop edits.

// pushDerived appends id into the derived list of every target entity
// the record's linking fields reference. A target that was never
// written gets a phantom record holding just the derived list, so a
// parent read after a child-first write sequence still sees the
// back-reference.
func (s *Store) pushDerived(entityType, id string, rec Record) {
	for _, d := range s.schema.DerivedBySource(entityType) {
		link, ok := rec[d.LinkingField]
		if !ok {
			continue
		}
		owners, ok := s.types.Get(d.Owner)
		if !ok {
			continue
		}
		for _, target := range linkTargets(link) {
			targetRec, ok := owners.Get(target)
			if !ok {
				targetRec = Record{}
				owners.Set(target, targetRec)
			}
			appendUnique(targetRec, d.Field, id)
		}
	}
}

// pullDerived overwrites each derived field of rec with the ids of all
// stored source entities whose linking field points back at id, in
// store iteration order. Source types with no stored entities at all
// are left alone, matching the write-path contract that only stored
// types contribute.
func (s *Store) pullDerived(et *schema.EntityType, id string, rec Record) {
	for _, d := range et.Derived {
		sources, ok := s.types.Get(d.Source)
		if !ok {
			continue
		}
		children := make([]value.Value, 0, sources.Len())
		for sp := sources.Oldest(); sp != nil; sp = sp.Next() {
			link, ok := sp.Value[d.LinkingField]
			if !ok {
				continue
			}
			if refersTo(link, id) {
				children = append(children, value.NewString(sp.Key))
			}
		}
		rec[d.Field] = value.NewList(children...)
	}
}

// cascadeRemove scrubs id out of every derived list the record's
// linking fields pushed it into.
func (s *Store) cascadeRemove(entityType, id string, rec Record) {
	for _, d := range s.schema.DerivedBySource(entityType) {
		link, ok := rec[d.LinkingField]
		if !ok {
			continue
		}
		owners, ok := s.types.Get(d.Owner)
		if !ok {
			continue
		}
		for _, target := range linkTargets(link) {
			targetRec, ok := owners.Get(target)
			if !ok {
				continue
			}
			cur, ok := targetRec[d.Field]
			if !ok {
				continue
			}
			list, ok := cur.ListValue()
			if !ok {
				continue
			}
			kept := make([]value.Value, 0, len(list))
			for _, el := range list {
				if str, ok := el.StringValue(); ok && str == id {
					continue
				}
				kept = append(kept, el)
			}
			targetRec[d.Field] = value.NewList(kept...)
		}
	}
}

// Reconcile recomputes every stored entity's derived fields from
// scratch and clears the dirty flag. It runs before every read-facing
// operation and is idempotent: with no intervening writes a second
// pass is a no-op.
func (s *Store) Reconcile() {
	if !s.dirty {
		return
	}
	for tp := s.types.Oldest(); tp != nil; tp = tp.Next() {
		et, ok := s.schema.Type(tp.Key)
		if !ok || len(et.Derived) == 0 {
			continue
		}
		for ep := tp.Value.Oldest(); ep != nil; ep = ep.Next() {
			s.pullDerived(et, ep.Key, ep.Value)
		}
	}
	s.dirty = false
}

// linkTargets extracts the referenced ids out of a linking field
// value: a single id for a String, every string element for a List.
func linkTargets(v value.Value) []string {
	if str, ok := v.StringValue(); ok {
		return []string{str}
	}
	list, ok := v.ListValue()
	if !ok {
		return nil
	}
	targets := make([]string, 0, len(list))
	for _, el := range list {
		if str, ok := el.StringValue(); ok {
			targets = append(targets, str)
		}
	}
	return targets
}

// refersTo reports whether the linking field value names id, either
// directly or as a list element.
func refersTo(v value.Value, id string) bool {
	for _, target := range linkTargets(v) {
		if target == id {
			return true
		}
	}
	return false
}

func appendUnique(rec Record, field, id string) {
	list, _ := rec[field].ListValue()
	for _, el := range list {
		if str, ok := el.StringValue(); ok && str == id {
			return
		}
	}
	rec[field] = value.NewList(append(list, value.NewString(id))...)
}
