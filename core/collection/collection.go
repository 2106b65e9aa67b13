// Package collection is the record service behind the reference backend: id assignment,
// timestamps, validation, derived fields and list filtering over a Repository.
package collection

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

var ErrNotFound = errors.New("record not found")

// ComputeFunc sets server-derived fields on a record before it is stored.
type ComputeFunc func(rec core.Record)

// Collection describes one stored resource.
type Collection struct {
	Name     string
	Endpoint string
	IDField  string
	Required []string
	Numeric  []string
	Filters  []string // query keys matched exactly; "search" is always understood
	Compute  ComputeFunc
}

func (c Collection) idField() string {
	if c.IDField == "" {
		return core.IDField
	}
	return c.IDField
}

// Repository stores records as documents, keyed by collection name and id.
type Repository interface {
	All(ctx context.Context, collection string) ([]core.Record, error)
	Get(ctx context.Context, collection, id string) (core.Record, error)
	Insert(ctx context.Context, collection, id string, rec core.Record) error
	Replace(ctx context.Context, collection, id string, rec core.Record) error
	Delete(ctx context.Context, collection string, ids ...string) error
}
