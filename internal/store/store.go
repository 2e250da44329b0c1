// Package store persists the recipe collection. Every driver loads and saves
// the whole collection at once.
package store

import (
	"context"
	"fmt"

	"github.com/gvondra/StsfctryRecipes/internal/recipe"
)

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverS3     = "s3"
)

type Store interface {
	LoadAll(ctx context.Context) ([]recipe.Recipe, error)
	SaveAll(ctx context.Context, recipes []recipe.Recipe) error
	Close() error
}

// EditFunc transforms a loaded collection into the collection to save.
type EditFunc func(recipes []recipe.Recipe) ([]recipe.Recipe, error)

// Edit loads the collection, applies fn and saves the result. Nothing is saved
// when fn fails.
func Edit(ctx context.Context, s Store, fn EditFunc) ([]recipe.Recipe, error) {
	recipes, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := fn(recipes)
	if err != nil {
		return nil, err
	}

	if err := s.SaveAll(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Options selects and configures a driver.
type Options struct {
	Driver   string
	FilePath string
	DBPath   string
	S3       S3Config
}

// Open returns the store for opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverJSON:
		return NewFile(opts.FilePath), nil
	case DriverSQLite:
		return OpenSQLite(opts.DBPath)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
