// Package entities tracks real-world referents (typically people) across a
// conversation so the model can disambiguate several entities sharing a
// display name. Records accumulate for the life of the conversation; there
// is no deletion.
package entities

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrUnknownEntity reports a note added to an entity id that was never
// established by an Upsert. Recoverable: upsert first, then retry.
var ErrUnknownEntity = errors.New("unknown entity")

// Entity is a flat attribute record plus free-form disambiguation notes.
type Entity struct {
	ID         string
	Attributes map[string]string
	Notes      []string
}

// Store is an insertion-ordered entity registry. Not safe for concurrent
// use; the conversation driver owns it exclusively.
type Store struct {
	records *orderedmap.OrderedMap[string, *Entity]
}

func NewStore() *Store {
	return &Store{records: orderedmap.New[string, *Entity]()}
}

// Upsert creates the record on first touch (seeded with just the id), then
// sets attributes[key] = value. Idempotent for the same (id, key, value).
func (s *Store) Upsert(id, key, value string) {
	e, ok := s.records.Get(id)
	if !ok {
		e = &Entity{ID: id, Attributes: make(map[string]string)}
		s.records.Set(id, e)
	}
	e.Attributes[key] = value
}

// AddNote appends to the entity's notes. The id must have been established
// by a prior Upsert: notes annotate tool-confirmed records, and
// auto-creating here would fabricate entities with no attributes, so an
// unknown id fails with ErrUnknownEntity instead.
func (s *Store) AddNote(id, note string) error {
	e, ok := s.records.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, id)
	}
	e.Notes = append(e.Notes, note)
	return nil
}

// Get returns a copy of the entity record.
func (s *Store) Get(id string) (Entity, bool) {
	e, ok := s.records.Get(id)
	if !ok {
		return Entity{}, false
	}
	out := Entity{ID: e.ID, Attributes: make(map[string]string, len(e.Attributes))}
	for k, v := range e.Attributes {
		out.Attributes[k] = v
	}
	out.Notes = append(out.Notes, e.Notes...)
	return out, true
}

func (s *Store) Len() int { return s.records.Len() }

// renderedKeys is the fixed leading attribute order for RenderContext;
// remaining attributes follow sorted by key.
var renderedKeys = []string{"first_name", "last_name", "department", "job_title", "city", "email"}

// RenderContext produces a plain-text block, one line per entity in
// insertion order, for injection into the system prompt. When
// filterByFirstName is non-empty only entities whose first_name attribute
// matches it case-insensitively are listed. The output is a readability
// convention for the model, not a parseable format.
func (s *Store) RenderContext(filterByFirstName string) string {
	var lines []string
	for pair := s.records.Oldest(); pair != nil; pair = pair.Next() {
		e := pair.Value
		if filterByFirstName != "" && !strings.EqualFold(e.Attributes["first_name"], filterByFirstName) {
			continue
		}
		lines = append(lines, renderEntity(e))
	}
	return strings.Join(lines, "\n")
}

func renderEntity(e *Entity) string {
	parts := []string{"id: " + e.ID}
	seen := map[string]bool{}
	for _, k := range renderedKeys {
		if v, ok := e.Attributes[k]; ok {
			parts = append(parts, k+": "+v)
			seen[k] = true
		}
	}
	var rest []string
	for k := range e.Attributes {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		parts = append(parts, k+": "+e.Attributes[k])
	}
	if len(e.Notes) > 0 {
		parts = append(parts, "notes: "+strings.Join(e.Notes, "; "))
	}
	return strings.Join(parts, " | ")
}
