package store

// SchemaVersion is the literal version tag every store's schema_version
// table must carry exactly one row of. A mismatch, zero rows, or
// multiple rows on Open is fatal — data corruption or incompatibility.
const SchemaVersion = "20170709A"

// schemaDDL creates the authoritative tables from spec.md §6 plus the two
// additive, read-only-to-the-scheduler tables the ambient event bus and
// import watcher use (§3 EXPANSION of SPEC_FULL.md). Foreign keys are
// enabled separately on every connection, per spec.md §6.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS probs (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL UNIQUE,
	answer   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS learning (
	probid   INTEGER PRIMARY KEY REFERENCES probs(id),
	next     REAL NOT NULL,
	interval REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS learning_next ON learning(next);

CREATE TABLE IF NOT EXISTS log (
	stamp  REAL NOT NULL,
	score  INTEGER NOT NULL,
	probid INTEGER NOT NULL REFERENCES probs(id)
);

CREATE TABLE IF NOT EXISTS config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
	version TEXT NOT NULL
);

-- EXPANSION: append-only session telemetry, never read by the scheduler
-- or comparator. Generalizes the teacher's debug_traces table.
CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	stamp      REAL NOT NULL,
	session_id TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS events_session ON events(session_id, stamp);

-- EXPANSION: tracks legacy-data files a Populator has been asked to
-- watch for re-import, so an unchanged file is a no-op on re-notify.
CREATE TABLE IF NOT EXISTS import_watch (
	path          TEXT PRIMARY KEY,
	last_modified REAL NOT NULL,
	last_count    INTEGER NOT NULL
);
`
