package inmemdb

import (
	"context"

	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/core/collection"
)

type recordRepository struct {
	db *DB
}

func NewRecordRepository(db *DB) collection.Repository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) All(_ context.Context, name string) ([]core.Record, error) {
	tbl := repo.db.table(name)
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	recs := make([]core.Record, 0, len(tbl.order))
	for _, id := range tbl.order {
		recs = append(recs, tbl.t[id].Clone())
	}
	return recs, nil
}

func (repo *recordRepository) Get(_ context.Context, name, id string) (core.Record, error) {
	tbl := repo.db.table(name)
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	if rec, ok := tbl.t[id]; ok {
		return rec.Clone(), nil
	}
	return nil, collection.ErrNotFound
}

func (repo *recordRepository) Insert(_ context.Context, name, id string, rec core.Record) error {
	tbl := repo.db.table(name)
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, exists := tbl.t[id]; !exists {
		tbl.order = append(tbl.order, id)
	}
	tbl.t[id] = rec.Clone()
	return nil
}

func (repo *recordRepository) Replace(_ context.Context, name, id string, rec core.Record) error {
	tbl := repo.db.table(name)
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.t[id]; !ok {
		return collection.ErrNotFound
	}
	tbl.t[id] = rec.Clone()
	return nil
}

func (repo *recordRepository) Delete(_ context.Context, name string, ids ...string) error {
	tbl := repo.db.table(name)
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, id := range ids {
		delete(tbl.t, id)
	}
	kept := tbl.order[:0]
	for _, id := range tbl.order {
		if _, ok := tbl.t[id]; ok {
			kept = append(kept, id)
		}
	}
	tbl.order = kept
	return nil
}
