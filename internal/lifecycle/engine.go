// Package lifecycle derives workflow, stage visibility, progress and status
// labels from a property's persisted flags.
//
// Every function is pure: inputs are never mutated and nothing is cached,
// so an Engine may be shared by any number of goroutines.
package lifecycle

import (
	"fmt"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/model"
)

// Engine evaluates properties against an injected catalog.
type Engine struct {
	cat catalog.Catalog

	subdivisionDocs map[string]struct{}
}

// New validates the catalog and returns an engine bound to it.
func New(cat catalog.Catalog) (*Engine, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}

	subDocs := make(map[string]struct{}, len(cat.SubdivisionDocKeys))
	for _, k := range cat.SubdivisionDocKeys {
		subDocs[k] = struct{}{}
	}

	return &Engine{cat: cat, subdivisionDocs: subDocs}, nil
}

// MustNew is New for the built-in catalog, panicking if it is invalid.
func MustNew(cat catalog.Catalog) *Engine {
	e, err := New(cat)
	if err != nil {
		panic(err)
	}
	return e
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() catalog.Catalog {
	return e.cat
}

// Pipeline returns the stage catalog of a kind.
func (e *Engine) Pipeline(kind model.PipelineKind) (catalog.StageCatalog, bool) {
	return e.cat.Pipeline(kind)
}
