package database

import (
	"database/sql"
	"embed"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

const driverName = "postgres"

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	gooseRunFunc = goose.RunFS // mockable

	ErrNoDatabaseURL = errors.New("DATABASE_URL is not set")
)

// Open connects to postgres and waits for it to be ready.
func Open(conf *core.Config) (*sqlx.DB, error) {
	if conf.Database.URL == "" {
		return nil, ErrNoDatabaseURL
	}
	db, err := sqlx.Open(driverName, conf.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Goose runs a goose command (up, down, status, ...) against the embedded migrations.
func Goose(db *sql.DB, command string, args ...string) error {
	return gooseRunFunc(command, db, migrationsFS, "migrations", args...)
}

func Migrate(db *sql.DB) error {
	if err := Goose(db, "up"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
