// Package srd embeds an illustrative d20 reference catalog
package srd

import (
	"embed"
	"io/fs"
	"sync"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
)

//go:embed data/*.yaml
var data embed.FS

var (
	once     sync.Once
	catalogs *rulebook.Catalogs
	loadErr  error
)

// FS exposes the raw catalog files
func FS() fs.FS {
	sub, err := fs.Sub(data, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Catalogs returns the embedded catalogs. They are parsed once and shared.
func Catalogs() (*rulebook.Catalogs, error) {
	once.Do(func() {
		catalogs, loadErr = rulebook.Load(FS())
	})
	return catalogs, loadErr
}

// MustCatalogs is Catalogs for tests and command wiring
func MustCatalogs() *rulebook.Catalogs {
	c, err := Catalogs()
	if err != nil {
		panic(err)
	}
	return c
}
