package store

import (
	"database/sql"

	"github.com/hazyhaar/srscore/internal/errs"
)

// Populator is a scoped transactional handle for bulk-loading problems,
// generalizing the teacher's db.go batch-insert pattern (a single
// *sql.Tx wrapped so callers can't forget to commit). Call Commit when
// done; if Close is called without a prior Commit, the transaction is
// rolled back and nothing it staged is kept. Defer Close right after
// Populate to get that rollback on every early return.
type Populator struct {
	tx        *sql.Tx
	committed bool
}

// Populate opens a transaction scoped to a single bulk load.
func (s *Store) Populate() (*Populator, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, errs.Storage("populate begin", err)
	}
	return &Populator{tx: tx}, nil
}

// AddProblem inserts a question/answer pair with no learning row yet —
// it becomes eligible for GetNew. question must be unique; a duplicate
// is a storage error surfaced to the caller, not silently ignored.
func (p *Populator) AddProblem(question, answer string) (int64, error) {
	res, err := p.tx.Exec(`INSERT INTO probs (question, answer) VALUES (?, ?)`, question, answer)
	if err != nil {
		return 0, errs.Storage("add_problem", err)
	}
	return res.LastInsertId()
}

// AddLearningProblem inserts a problem already carrying a schedule —
// used when importing a legacy collection that has prior history rather
// than starting fresh.
func (p *Populator) AddLearningProblem(question, answer string, next, interval float64) (int64, error) {
	id, err := p.AddProblem(question, answer)
	if err != nil {
		return 0, err
	}
	if _, err := p.tx.Exec(`INSERT INTO learning (probid, next, interval) VALUES (?, ?, ?)`, id, next, interval); err != nil {
		return 0, errs.Storage("add_learning_problem", err)
	}
	return id, nil
}

// Commit finalizes every staged insert. Calling AddProblem or
// AddLearningProblem afterward is an error from the underlying driver;
// Close afterward is a no-op.
func (p *Populator) Commit() error {
	if err := p.tx.Commit(); err != nil {
		return errs.Storage("populate commit", err)
	}
	p.committed = true
	return nil
}

// Close rolls the transaction back if Commit was never called. Safe to
// call unconditionally in a defer right after Populate.
func (p *Populator) Close() error {
	if p.committed {
		return nil
	}
	return p.tx.Rollback()
}
