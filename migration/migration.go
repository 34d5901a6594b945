package migration

import (
	"context"
	"database/sql"
	"embed"

	"github.com/fabric8-services/fabric8-tracker/log"
	errs "github.com/pkg/errors"
)

// AdvisoryLockID is a random number that should be used within the application
// by anybody who wants to modify the "version" table.
const AdvisoryLockID = 42

//go:embed sql-files/*.sql
var sqlFiles embed.FS

// fn defines the type of function that can be part of a migration steps
type fn func(ctx context.Context, tx *sql.Tx) error

// steps defines a collection of all the functions that make up a version
type steps []fn

// Migrations defines all a collection of all the steps
type Migrations []steps

// Migrate executes the required migration of the database on startup. Every
// version runs in its own transaction which first takes a transaction level
// advisory lock, so concurrent service instances apply each version exactly
// once. For each successful migration, an entry will be written into the
// "version" table, that states when a certain version was reached.
func Migrate(ctx context.Context, db *sql.DB, catalog string) error {
	if db == nil {
		return errs.New("database handle is nil")
	}
	m := GetMigrations()

	var err error
	for nextVersion := int64(0); nextVersion < int64(len(m)) && err == nil; nextVersion++ {
		var tx *sql.Tx
		tx, err = db.BeginTx(ctx, nil)
		if err != nil {
			return errs.Wrap(err, "failed to start transaction")
		}

		err = migrateToNextVersion(ctx, tx, &nextVersion, m, catalog)
		if err != nil {
			log.Error(ctx, map[string]interface{}{
				"err":          err,
				"next_version": nextVersion,
			}, "rolling back the migration transaction")
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return errs.Wrapf(err, "error while rolling back transaction: %v", rollbackErr)
			}
			return err
		}

		if err = tx.Commit(); err != nil {
			return errs.Wrap(err, "error during transaction commit")
		}
	}
	return nil
}

// GetMigrations returns the migrations all the migrations we have.
// Add your own migration to the end of this function.
// IMPORTANT: ALWAYS APPEND AT THE END AND DON'T CHANGE THE ORDER OF MIGRATIONS!
func GetMigrations() Migrations {
	m := Migrations{}

	// Version 0
	m = append(m, steps{executeSQLFile("000-bootstrap.sql")})

	// Version 1
	m = append(m, steps{executeSQLFile("001-trackers-and-actions.sql")})

	// Version 2
	m = append(m, steps{executeSQLFile("002-actions-local-id-trigger.sql")})

	// Version 3
	m = append(m, steps{executeSQLFile("003-actions-updated-at-trigger.sql")})

	// Version 4
	m = append(m, steps{executeSQLFile("004-actions-lock-tracker-on-insert.sql")})

	// Version N
	//
	// In order to add an upgrade, simply append an array of MigrationFunc to the
	// the end of the "migrations" slice. The version numbers are determined by
	// the index in the array. If one of the steps fails, the others are not
	// executed and the whole version is rolled back.

	return m
}

// executeSQLFile loads the given filename from the packaged SQL files and
// executes it on the given database
func executeSQLFile(filename string) fn {
	return func(ctx context.Context, tx *sql.Tx) error {
		data, err := sqlFiles.ReadFile("sql-files/" + filename)
		if err != nil {
			return errs.Wrapf(err, "failed to load %s", filename)
		}
		_, err = tx.ExecContext(ctx, string(data))
		return errs.Wrapf(err, "failed to execute %s", filename)
	}
}

// migrateToNextVersion migrates the database to the nextVersion.
// If the database is already at nextVersion or higher, the nextVersion
// will be set to the actual next version.
func migrateToNextVersion(ctx context.Context, tx *sql.Tx, nextVersion *int64, m Migrations, catalog string) error {
	// Obtain exclusive transaction level advisory that doesn't depend on any table.
	// Once obtained, the lock is held for the remainder of the current transaction.
	// (There is no UNLOCK TABLE command; locks are always released at transaction end.)
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", AdvisoryLockID); err != nil {
		return errs.Wrap(err, "failed to acquire lock")
	}

	// Determine current version and adjust the outmost loop
	// iterator variable "version"
	currentVersion, err := getCurrentVersion(ctx, tx, catalog)
	if err != nil {
		return err
	}
	*nextVersion = currentVersion + 1
	if *nextVersion >= int64(len(m)) {
		// No further updates to apply (this is NOT an error)
		log.Debug(ctx, map[string]interface{}{
			"current_version": currentVersion,
		}, "nothing to update")
		return nil
	}

	log.Info(ctx, map[string]interface{}{
		"next_version": *nextVersion,
	}, "attempt to update DB to version %d", *nextVersion)

	// Apply all the updates of the next version
	for j := range m[*nextVersion] {
		if err := m[*nextVersion][j](ctx, tx); err != nil {
			return errs.Wrapf(err, "failed to execute migration of step %d of version %d", j, *nextVersion)
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO version(version) VALUES($1)", *nextVersion); err != nil {
		return errs.Wrapf(err, "failed to update DB to version %d", *nextVersion)
	}

	log.Info(ctx, map[string]interface{}{
		"version": *nextVersion,
	}, "successfully updated DB to version %d", *nextVersion)
	return nil
}

// getCurrentVersion returns the highest version from the version
// table or -1 if that table does not exist.
//
// Returning -1 simplifies the logic of the migration process because
// the next version is always the current version + 1 which results
// in -1 + 1 = 0 which is exactly what we want as the first version.
func getCurrentVersion(ctx context.Context, tx *sql.Tx, catalog string) (int64, error) {
	row := tx.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_catalog=$1 AND table_name='version')", catalog)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return -1, errs.Wrap(err, `failed to scan if table "version" exists`)
	}
	if !exists {
		// table doesn't exist
		return -1, nil
	}

	row = tx.QueryRowContext(ctx, "SELECT max(version) as current FROM version")
	var current sql.NullInt64
	if err := row.Scan(&current); err != nil {
		return -1, errs.Wrap(err, `failed to scan max version in table "version"`)
	}
	if !current.Valid {
		return -1, nil
	}
	return current.Int64, nil
}

// CurrentVersion returns the version the database schema is at, -1 when it was
// never migrated.
func CurrentVersion(ctx context.Context, db *sql.DB, catalog string) (int64, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return -1, errs.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()
	return getCurrentVersion(ctx, tx, catalog)
}
