package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/core/collection"
)

var nowFunc = time.Now // mockable

// recordRow is a row of the `records` table (see migrations).
type recordRow struct {
	Collection string    `db:"collection"`
	ID         string    `db:"id"`
	Doc        []byte    `db:"doc"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  null.Time `db:"updated_at"`
}

func (row recordRow) record() (core.Record, error) {
	var rec core.Record
	if err := json.Unmarshal(row.Doc, &rec); err != nil {
		return nil, errors.Wrapf(err, "decoding %s/%s", row.Collection, row.ID)
	}
	return rec, nil
}

type recordRepository struct {
	db *sqlx.DB
}

func NewRecordRepository(db *sqlx.DB) collection.Repository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) All(ctx context.Context, name string) ([]core.Record, error) {
	var rows []recordRow
	q := `SELECT collection, id, doc, created_at, updated_at FROM records WHERE collection = $1 ORDER BY created_at, id`
	if err := repo.db.SelectContext(ctx, &rows, q, name); err != nil {
		return nil, errors.Wrap(err, "selecting records")
	}

	recs := make([]core.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo *recordRepository) Get(ctx context.Context, name, id string) (core.Record, error) {
	var row recordRow
	q := `SELECT collection, id, doc, created_at, updated_at FROM records WHERE collection = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, q, name, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, collection.ErrNotFound
		}
		return nil, errors.Wrap(err, "selecting record")
	}
	return row.record()
}

func (repo *recordRepository) Insert(ctx context.Context, name, id string, rec core.Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	row := recordRow{Collection: name, ID: id, Doc: doc, CreatedAt: nowFunc().UTC()}
	q := `INSERT INTO records (collection, id, doc, created_at) VALUES (:collection, :id, :doc, :created_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "inserting record")
	}
	return nil
}

func (repo *recordRepository) Replace(ctx context.Context, name, id string, rec core.Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	q := `UPDATE records SET doc = $3, updated_at = $4 WHERE collection = $1 AND id = $2`
	res, err := repo.db.ExecContext(ctx, q, name, id, doc, null.TimeFrom(nowFunc().UTC()))
	if err != nil {
		return errors.Wrap(err, "updating record")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating record")
	}
	if n == 0 {
		return collection.ErrNotFound
	}
	return nil
}

func (repo *recordRepository) Delete(ctx context.Context, name string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM records WHERE collection = ? AND id IN (?)`, name, ids)
	if err != nil {
		return errors.Wrap(err, "building delete")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting records")
	}
	return nil
}
