package rulebook

import (
	"bytes"
	"errors"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"

	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

const (
	FeatsFile   = "feats.yaml"
	SpellsFile  = "spells.yaml"
	ItemsFile   = "items.yaml"
	ClassesFile = "classes.yaml"
	RacesFile   = "races.yaml"
)

// Load reads the five catalog files from fsys. A missing file yields an empty catalog.
func Load(fsys fs.FS) (*Catalogs, error) {
	feats, err := readEntries[*FeatDefinition](fsys, FeatsFile)
	if err != nil {
		return nil, err
	}
	spells, err := readEntries[*SpellDefinition](fsys, SpellsFile)
	if err != nil {
		return nil, err
	}
	items, err := readEntries[*ItemDefinition](fsys, ItemsFile)
	if err != nil {
		return nil, err
	}
	classes, err := readEntries[*ClassDefinition](fsys, ClassesFile)
	if err != nil {
		return nil, err
	}
	races, err := readEntries[*RaceDefinition](fsys, RacesFile)
	if err != nil {
		return nil, err
	}

	return Build(feats, spells, items, classes, races)
}

// Build assembles catalogs from in-memory definitions and checks cross references
func Build(
	feats []*FeatDefinition,
	spells []*SpellDefinition,
	items []*ItemDefinition,
	classes []*ClassDefinition,
	races []*RaceDefinition,
) (*Catalogs, error) {
	var (
		c   Catalogs
		err error
	)

	if c.Feats, err = NewCatalog("feat", feats...); err != nil {
		return nil, err
	}
	if c.Spells, err = NewCatalog("spell", spells...); err != nil {
		return nil, err
	}
	if c.Items, err = NewCatalog("item", items...); err != nil {
		return nil, err
	}
	if c.Classes, err = NewCatalog("class", classes...); err != nil {
		return nil, err
	}
	if c.Races, err = NewCatalog("race", races...); err != nil {
		return nil, err
	}

	if err := c.verify(); err != nil {
		return nil, err
	}
	return &c, nil
}

// verify makes sure prerequisites only name registered feats, classes and races
func (c *Catalogs) verify() error {
	for _, feat := range c.Feats.All() {
		p := feat.Prerequisites
		if p == nil {
			continue
		}
		for _, key := range append(append([]string(nil), p.Feats...), p.SameChoiceFeats...) {
			if _, ok := c.Feats.Get(key); !ok {
				return rulerr.Wrapf(rulerr.UnknownCatalogEntry("feat", key), "feat '%s' prerequisites", feat.Key)
			}
		}
		for _, key := range p.Classes {
			if _, ok := c.Classes.Get(key); !ok {
				return rulerr.Wrapf(rulerr.UnknownCatalogEntry("class", key), "feat '%s' prerequisites", feat.Key)
			}
		}
		if p.Race != "" {
			if _, ok := c.Races.Get(p.Race); !ok {
				return rulerr.Wrapf(rulerr.UnknownCatalogEntry("race", p.Race), "feat '%s' prerequisites", feat.Key)
			}
		}
	}

	for _, spell := range c.Spells.All() {
		for class := range spell.Levels {
			if _, ok := c.Classes.Get(class); !ok {
				return rulerr.Wrapf(rulerr.UnknownCatalogEntry("class", class), "spell '%s' levels", spell.Key)
			}
		}
	}
	return nil
}

func readEntries[T Entry](fsys fs.FS, name string) ([]T, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, rulerr.Wrapf(err, "failed to read %s", name)
	}

	var entries []T
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, rulerr.WrapWithCode(err, rulerr.CodeInvalidArgument, "failed to parse "+name)
	}
	return entries, nil
}
