// Package store implements the transactional persistent repository of
// problems, their learning state, and an append-only history log —
// component #2 of the system overview, roughly a third of the core's
// budget. It generalizes the teacher's core.Engine (a hot-reloadable
// SQLite handle for a chat assistant) into the SRS store spec.md §4.1
// specifies: same connection string conventions, same WAL checkpoint on
// close, different schema and a narrower, hand-written query surface in
// place of ModuleManager's generic hook dispatch.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/srscore/internal/clock"
	"github.com/hazyhaar/srscore/internal/errs"
	"github.com/hazyhaar/srscore/internal/notify"
)

// Store owns the database handle exclusively. A Populator borrows it for
// the lifetime of a single transaction; no other mutation may happen
// concurrently (spec.md §3 "Ownership").
type Store struct {
	db    *sql.DB
	path  string
	kind  string
	clock clock.Clock
	bus   *notify.Bus
	sess  string // session id tagging this handle's emitted events
}

func dsn(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, errs.Storage("open", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errs.Storage("ping", err)
	}
	return db, nil
}

// Create establishes a store at path for the given modality kind. If the
// file already holds a store, Create succeeds only when its kind and
// schema version match what's requested; any mismatch is a conflicting-
// schema error.
func Create(path, kind string) (*Store, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, path: path, clock: clock.System{}, bus: notify.NewBus(), sess: uuid.NewString()}
	s.bus.Attach(sqlEventSink{s: s})

	existingVersion, err := s.readSchemaVersion()
	switch {
	case err == errNoSchema:
		if _, err := db.Exec(schemaDDL); err != nil {
			db.Close()
			return nil, errs.Storage("init schema", err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
			db.Close()
			return nil, errs.Storage("seed schema_version", err)
		}
		if _, err := db.Exec(`INSERT INTO config (key, value) VALUES ('kind', ?)`, kind); err != nil {
			db.Close()
			return nil, errs.Storage("seed kind", err)
		}
		s.kind = kind
		return s, nil

	case err != nil:
		db.Close()
		return nil, err

	default:
		if existingVersion != SchemaVersion {
			db.Close()
			return nil, errs.Storage("create", fmt.Errorf("conflicting schema_version %q (want %q)", existingVersion, SchemaVersion))
		}
		existingKind, kerr := readConfig(db, "kind")
		if kerr != nil {
			db.Close()
			return nil, errs.Storage("read kind", kerr)
		}
		if existingKind != kind {
			db.Close()
			return nil, errs.Storage("create", fmt.Errorf("conflicting kind %q (want %q)", existingKind, kind))
		}
		s.kind = kind
		return s, nil
	}
}

// Open reads exactly one row from schema_version; a mismatch, zero rows,
// or multiple rows is fatal.
func Open(path string) (*Store, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		db.Close()
		return nil, errs.Storage("read schema_version", err)
	}
	if count != 1 {
		db.Close()
		return nil, errs.Storage("open", fmt.Errorf("schema_version has %d rows, want exactly 1", count))
	}

	var version string
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		db.Close()
		return nil, errs.Storage("read schema_version", err)
	}
	if version != SchemaVersion {
		db.Close()
		return nil, errs.Storage("open", fmt.Errorf("schema_version %q incompatible with %q", version, SchemaVersion))
	}

	kind, err := readConfig(db, "kind")
	if err != nil {
		db.Close()
		return nil, errs.Storage("read kind", err)
	}

	s := &Store{db: db, path: path, kind: kind, clock: clock.System{}, bus: notify.NewBus(), sess: uuid.NewString()}
	s.bus.Attach(sqlEventSink{s: s})
	return s, nil
}

var errNoSchema = fmt.Errorf("no schema_version table")

// readSchemaVersion returns the version string on success and errNoSchema
// otherwise: a missing table (a brand-new file), an empty table, and any
// other query error are all reported as errNoSchema.
func (s *Store) readSchemaVersion() (string, error) {
	var version string
	err := s.db.QueryRow(`SELECT version FROM schema_version`).Scan(&version)
	if err == nil {
		return version, nil
	}
	if err == sql.ErrNoRows {
		return "", errNoSchema
	}
	// modernc.org/sqlite reports "no such table" as a generic query error.
	return "", errNoSchema
}

func readConfig(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// GetKind returns the modality kind the store was created for.
func (s *Store) GetKind() string { return s.kind }

// SetClock overrides the wall-clock source — used by tests that need
// reproducible due-dates.
func (s *Store) SetClock(c clock.Clock) { s.clock = c }

// Bus returns the store's event bus, so callers can attach sinks (the
// console sink the session loop installs, or a test probe).
func (s *Store) Bus() *notify.Bus { return s.bus }

// Close shuts the store down, checkpointing the WAL first so the file on
// disk reflects every committed transaction.
func (s *Store) Close() error {
	s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`)
	return s.db.Close()
}

func (s *Store) emit(kind string, payload string) {
	s.bus.Record(s.sess, kind, payload)
}
