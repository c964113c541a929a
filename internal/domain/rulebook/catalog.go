package rulebook

import (
	"sort"

	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// Entry is anything a catalog can index
type Entry interface {
	CatalogKey() string
}

// Catalog is an immutable keyed table of rule elements
type Catalog[T Entry] struct {
	kind    string
	entries map[string]T
	keys    []string
}

// NewCatalog indexes entries by key. Duplicate or empty keys are rejected.
func NewCatalog[T Entry](kind string, entries ...T) (*Catalog[T], error) {
	c := &Catalog[T]{
		kind:    kind,
		entries: make(map[string]T, len(entries)),
		keys:    make([]string, 0, len(entries)),
	}

	for _, e := range entries {
		key := e.CatalogKey()
		if key == "" {
			return nil, rulerr.InvalidArgumentf("%s entry has no key", kind)
		}
		if _, exists := c.entries[key]; exists {
			return nil, rulerr.AlreadyExistsf("duplicate %s '%s'", kind, key).
				WithMeta("kind", kind).
				WithMeta("key", key)
		}
		c.entries[key] = e
		c.keys = append(c.keys, key)
	}
	sort.Strings(c.keys)

	return c, nil
}

// Kind names what the catalog holds ("feat", "spell", ...)
func (c *Catalog[T]) Kind() string {
	return c.kind
}

// Get returns the entry for key
func (c *Catalog[T]) Get(key string) (T, bool) {
	if c == nil {
		var zero T
		return zero, false
	}
	e, ok := c.entries[key]
	return e, ok
}

// Lookup returns the entry for key or an unknown catalog entry error
func (c *Catalog[T]) Lookup(key string) (T, error) {
	e, ok := c.Get(key)
	if !ok {
		kind := "entry"
		if c != nil {
			kind = c.kind
		}
		return e, rulerr.UnknownCatalogEntry(kind, key)
	}
	return e, nil
}

// Keys returns every key in sorted order
func (c *Catalog[T]) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// All returns every entry in key order
func (c *Catalog[T]) All() []T {
	if c == nil {
		return nil
	}
	out := make([]T, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.entries[k])
	}
	return out
}

// Len returns the number of entries
func (c *Catalog[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Catalogs bundles the rule tables the engine resolves against. It is read-only once
// built and may be shared between goroutines.
type Catalogs struct {
	Feats   *Catalog[*FeatDefinition]
	Spells  *Catalog[*SpellDefinition]
	Items   *Catalog[*ItemDefinition]
	Classes *Catalog[*ClassDefinition]
	Races   *Catalog[*RaceDefinition]
}

// Feat looks up a feat definition
func (c *Catalogs) Feat(key string) (*FeatDefinition, error) {
	return c.Feats.Lookup(key)
}

// Spell looks up a spell definition
func (c *Catalogs) Spell(key string) (*SpellDefinition, error) {
	return c.Spells.Lookup(key)
}

// Item looks up an item definition
func (c *Catalogs) Item(key string) (*ItemDefinition, error) {
	return c.Items.Lookup(key)
}

// Class looks up a class definition
func (c *Catalogs) Class(key string) (*ClassDefinition, error) {
	return c.Classes.Lookup(key)
}

// Race looks up a race definition
func (c *Catalogs) Race(key string) (*RaceDefinition, error) {
	return c.Races.Lookup(key)
}
