// Package store provides the SQLite persistence backend. Queries are built
// with goqu and executed against an embedded database file.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"agenda/embedded"
	"agenda/errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Mall implements all database operations.
type Mall struct {
	logger *zap.Logger
	// db is the actual database to perform operations in.
	db *sql.DB
	// dialect is the SQL dialect for building queries.
	dialect goqu.DialectWrapper
}

// NewMall creates a new Mall using the given database. It uses the SQLite
// dialect for queries.
func NewMall(logger *zap.Logger, db *sql.DB) *Mall {
	return &Mall{
		logger:  logger,
		db:      db,
		dialect: goqu.Dialect("sqlite3"),
	}
}

// Connect opens the SQLite database file, performs pending migrations and
// returns a ready Mall.
func Connect(ctx context.Context, logger *zap.Logger, filename string) (*Mall, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, errors.Error{
			Code:    errors.ErrFatal,
			Err:     err,
			Message: "open database",
			Details: errors.Details{"filename": filename},
		}
	}
	m := NewMall(logger, db)
	if err := m.performMigrations(ctx); err != nil {
		return nil, errors.Wrap(err, "perform db migrations", nil)
	}
	return m, nil
}

// Close closes the underlying database.
func (m *Mall) Close() error {
	if err := m.db.Close(); err != nil {
		return errors.NewInternalErrorFromErr(err, "close database", nil)
	}
	return nil
}

// dbVersion is used for determining the current database version. It is
// saved in the key-value table when properly set up. If the version does not
// exist, the database has not been initialized yet.
type dbVersion string

// dbVersionZero is used when no database version could be found.
const dbVersionZero dbVersion = "0"

// dbMigration is one migration step towards its version.
type dbMigration struct {
	version dbVersion
	up      string
}

// dbMigrations are the sql migrations in an ordered (!) list. The order
// determines which migrations need to be done when the current database
// version is not the latest one.
var dbMigrations = []dbMigration{
	{
		version: "1.0",
		up:      embedded.DBMigration1x0,
	},
}

// performMigrations performs all needed database migrations according to the
// (un)set database version.
func (m *Mall) performMigrations(ctx context.Context) error {
	currentVersion, err := m.retrieveCurrentDBVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieve current db version", nil)
	}
	migrationsToDo, err := migrationsAfter(currentVersion)
	if err != nil {
		return errors.Wrap(err, "get db migrations to do", nil)
	}
	if len(migrationsToDo) == 0 {
		return nil
	}
	m.logger.Debug("performing database migrations", zap.Int("migration_count", len(migrationsToDo)))
	// Begin tx for avoiding database destruction if something fails.
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewDBTxBeginError(err)
	}
	var newVersion dbVersion
	for _, migration := range migrationsToDo {
		if _, err := tx.ExecContext(ctx, migration.up); err != nil {
			m.rollbackTx(tx, "database migration failed")
			return errors.NewExecQueryError(err, "exec migration", migration.up)
		}
		newVersion = migration.version
	}
	// Update database version.
	var versionQ string
	if currentVersion == dbVersionZero {
		versionQ, _, err = m.dialect.Insert(goqu.T("agenda")).Rows(goqu.Record{
			"key":   "db-version",
			"value": string(newVersion),
		}).ToSQL()
	} else {
		versionQ, _, err = m.dialect.Update(goqu.T("agenda")).
			Set(goqu.Record{"value": string(newVersion)}).
			Where(goqu.C("key").Eq("db-version")).ToSQL()
	}
	if err != nil {
		m.rollbackTx(tx, "update database version query to sql failed")
		return errors.NewInternalErrorFromErr(err, "update database version query to sql", nil)
	}
	if _, err := tx.ExecContext(ctx, versionQ); err != nil {
		m.rollbackTx(tx, "update database version failed")
		return errors.NewExecQueryError(err, "exec update database version", versionQ)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewDBTxCommitError(err)
	}
	return nil
}

// migrationsAfter returns all database migrations following the given
// version. dbVersionZero yields all migrations; an unknown version is an
// error.
func migrationsAfter(currentVersion dbVersion) ([]dbMigration, error) {
	if currentVersion == dbVersionZero {
		return dbMigrations, nil
	}
	found := false
	migrationsToDo := make([]dbMigration, 0)
	for _, migration := range dbMigrations {
		if migration.version == currentVersion {
			found = true
			continue
		}
		if found {
			migrationsToDo = append(migrationsToDo, migration)
		}
	}
	if !found {
		return nil, errors.NewInternalError(fmt.Sprintf("unknown database version %v", currentVersion),
			errors.Details{"version": currentVersion})
	}
	return migrationsToDo, nil
}

// retrieveCurrentDBVersion retrieves the current dbVersion. If the key-value
// table or the version key do not exist yet, dbVersionZero is returned.
func (m *Mall) retrieveCurrentDBVersion(ctx context.Context) (dbVersion, error) {
	exists, err := m.tableExists(ctx, "agenda")
	if err != nil {
		return "", errors.Wrap(err, "check key-value table", nil)
	}
	if !exists {
		return dbVersionZero, nil
	}
	q, _, err := m.dialect.From(goqu.T("agenda")).
		Select(goqu.C("value")).
		Where(goqu.C("key").Eq("db-version")).ToSQL()
	if err != nil {
		return "", errors.NewInternalErrorFromErr(err, "version query to sql", nil)
	}
	var value string
	err = m.db.QueryRowContext(ctx, q).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return dbVersionZero, nil
		}
		return "", errors.NewScanDBRowError(err, "scan database version", q)
	}
	return dbVersion(value), nil
}

// tableExists checks the sqlite master table for the given table name.
func (m *Mall) tableExists(ctx context.Context, table string) (bool, error) {
	q, _, err := m.dialect.From(goqu.T("sqlite_master")).
		Select(goqu.C("name")).
		Where(goqu.C("type").Eq("table"), goqu.C("name").Eq(table)).ToSQL()
	if err != nil {
		return false, errors.NewInternalErrorFromErr(err, "table exists query to sql", nil)
	}
	var name string
	err = m.db.QueryRowContext(ctx, q).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, errors.NewScanDBRowError(err, "scan table name", q)
	}
	return true, nil
}

// rollbackTx rolls back the given sql.Tx. The encapsulation is needed because
// rolling back might return an error which does not need to be returned but
// definitely logged with the original reason the rollback was performed.
func (m *Mall) rollbackTx(tx *sql.Tx, reason string) {
	err := tx.Rollback()
	if err != nil {
		errors.Log(m.logger, errors.Error{
			Code:    errors.ErrInternal,
			Message: "rollback tx",
			Err:     err,
			Details: errors.Details{"rollbackReason": reason},
		})
	}
}
