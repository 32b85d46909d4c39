package db

import (
	"database/sql"
	"embed"
	"errors"

	"storefront/pkg/e"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jimlawless/whereami"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigratePostgres は埋め込みSQLでpostgresのスキーマを最新にする。
// 変更が無ければ何もしない
func MigratePostgres(dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer sqlDB.Close()

	m, err := newMigrator(sqlDB)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

// RollbackPostgres は1つ前のバージョンに戻す
func RollbackPostgres(dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer sqlDB.Close()

	m, err := newMigrator(sqlDB)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func newMigrator(sqlDB *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	return m, nil
}
