// Package schema parses a subgraph's GraphQL schema into the index the
// entity store validates writes against: per-type required fields plus
// the derived-field descriptors behind @derivedFrom back-references.
// The index is built once at harness startup and never mutated.
package schema

import (
	"fmt"
	"os"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/tinderbox-go/tinderbox/logging"
)

const (
	derivedFromDirective = "derivedFrom"
	linkingFieldArgument = "field"
)

// DerivedField describes one @derivedFrom relationship: entities of
// Source carry LinkingField holding the id of an entity of Owner, and
// Owner exposes Field as the list of ids of all such source entities.
type DerivedField struct {
	Owner        string
	Field        string
	Source       string
	LinkingField string
}

// EntityType is one object type of the schema. Required holds the
// fields that are non-nullable and not derived; Derived holds the
// descriptors of the type's own derived list fields.
type EntityType struct {
	Name     string
	Required []string
	Derived  []DerivedField

	fields map[string]struct{}
}

// HasField reports whether the type declares a field with that name,
// derived fields included.
func (et *EntityType) HasField(name string) bool {
	_, ok := et.fields[name]
	return ok
}

// Schema is the immutable index over all entity types.
type Schema struct {
	types    map[string]*EntityType
	ordered  []*EntityType
	bySource map[string][]DerivedField
}

// Parse builds the schema index from GraphQL SDL. The source name is
// only used in error messages.
func Parse(name, input string) (*Schema, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: input})
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	s := &Schema{
		types:    make(map[string]*EntityType),
		bySource: make(map[string][]DerivedField),
	}

	for _, def := range doc.Definitions {
		if def.Kind != ast.Object {
			continue
		}
		et := &EntityType{
			Name:   def.Name,
			fields: make(map[string]struct{}, len(def.Fields)),
		}
		for _, f := range def.Fields {
			et.fields[f.Name] = struct{}{}
			if d := f.Directives.ForName(derivedFromDirective); d != nil {
				arg := d.Arguments.ForName(linkingFieldArgument)
				if arg == nil {
					return nil, fmt.Errorf("derived field %s.%s has no %q argument", def.Name, f.Name, linkingFieldArgument)
				}
				et.Derived = append(et.Derived, DerivedField{
					Owner:        def.Name,
					Field:        f.Name,
					Source:       baseTypeName(f.Type),
					LinkingField: arg.Value.Raw,
				})
				continue
			}
			if f.Type.NonNull {
				et.Required = append(et.Required, f.Name)
			}
		}
		s.types[et.Name] = et
		s.ordered = append(s.ordered, et)
	}

	// Linking fields referenced by descriptors must exist on their
	// declared source type.
	for _, et := range s.ordered {
		for _, d := range et.Derived {
			src, ok := s.types[d.Source]
			if !ok {
				return nil, fmt.Errorf("derived field %s.%s points at undeclared type %q", d.Owner, d.Field, d.Source)
			}
			if !src.HasField(d.LinkingField) {
				return nil, fmt.Errorf("derived field %s.%s expects linking field %q on type %q, but %q does not declare it",
					d.Owner, d.Field, d.LinkingField, d.Source, d.Source)
			}
			s.bySource[d.Source] = append(s.bySource[d.Source], d)
		}
	}

	return s, nil
}

// MustLoadFile loads the schema the harness runs against. The harness
// cannot run without a valid schema, so any failure is fatal.
func MustLoadFile(path string) *Schema {
	raw, err := os.ReadFile(path)
	if err != nil {
		logging.Critical("Something went wrong when trying to read %q: %v", path, err)
		return nil
	}
	s, err := Parse(path, string(raw))
	if err != nil {
		logging.Critical("Something went wrong when trying to parse %q: %v", path, err)
		return nil
	}
	return s
}

// Type looks up an entity type by name.
func (s *Schema) Type(name string) (*EntityType, bool) {
	et, ok := s.types[name]
	return et, ok
}

// DerivedBySource returns the descriptors whose linking field lives on
// entities of the given type: "who references me and how", seen from
// the referencing side.
func (s *Schema) DerivedBySource(name string) []DerivedField {
	return s.bySource[name]
}

// DerivedOwners returns the names of all types owning at least one
// derived field, in declaration order.
func (s *Schema) DerivedOwners() []string {
	var owners []string
	for _, et := range s.ordered {
		if len(et.Derived) > 0 {
			owners = append(owners, et.Name)
		}
	}
	return owners
}

func baseTypeName(t *ast.Type) string {
	for t.Elem != nil {
		t = t.Elem
	}
	return t.NamedType
}
