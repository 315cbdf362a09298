package store

import (
	"database/sql"
	"fmt"

	"github.com/hazyhaar/srscore/internal/errs"
	"github.com/hazyhaar/srscore/internal/scheduler"
)

// Problem is one question/answer pair together with its learning state,
// if it has ever been scheduled (spec.md §4.1 "Problem").
type Problem struct {
	ID       int64
	Question string
	Answer   string

	// Scheduled is false for a problem that has never been answered —
	// it has no row in learning yet.
	Scheduled bool
	Next      float64
	Interval  float64
}

// GetNew returns one problem with no learning row yet, or ok=false if
// every problem has already been scheduled at least once.
func (s *Store) GetNew() (Problem, bool, error) {
	row := s.db.QueryRow(`
		SELECT p.id, p.question, p.answer
		FROM probs p
		LEFT JOIN learning l ON l.probid = p.id
		WHERE l.probid IS NULL
		ORDER BY p.id
		LIMIT 1
	`)
	var p Problem
	err := row.Scan(&p.ID, &p.Question, &p.Answer)
	if err == sql.ErrNoRows {
		return Problem{}, false, nil
	}
	if err != nil {
		return Problem{}, false, errs.Storage("get_new", err)
	}
	// Never-asked problems carry synthesized schedule fields so downstream
	// code treats them uniformly with scheduled ones.
	p.Next = s.clock.Now()
	p.Interval = scheduler.MinInterval
	return p, true, nil
}

// GetNewExcluding behaves like GetNew but skips the given problem ids —
// used by the session loop to move past a problem whose answer failed to
// parse without marking it failed in storage (spec.md §7: a Parse or
// Invariant error means the problem "was never asked").
func (s *Store) GetNewExcluding(excluded []int64) (Problem, bool, error) {
	if len(excluded) == 0 {
		return s.GetNew()
	}

	placeholders := make([]byte, 0, len(excluded)*2)
	args := make([]any, 0, len(excluded))
	for i, id := range excluded {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, id)
	}

	row := s.db.QueryRow(fmt.Sprintf(`
		SELECT p.id, p.question, p.answer
		FROM probs p
		LEFT JOIN learning l ON l.probid = p.id
		WHERE l.probid IS NULL AND p.id NOT IN (%s)
		ORDER BY p.id
		LIMIT 1
	`, string(placeholders)), args...)

	var p Problem
	err := row.Scan(&p.ID, &p.Question, &p.Answer)
	if err == sql.ErrNoRows {
		return Problem{}, false, nil
	}
	if err != nil {
		return Problem{}, false, errs.Storage("get_new", err)
	}
	p.Next = s.clock.Now()
	p.Interval = scheduler.MinInterval
	return p, true, nil
}

// GetNext returns the scheduled problem with the smallest due time, or
// ok=false if nothing is due yet (the caller falls back to GetNew).
func (s *Store) GetNext() (Problem, bool, error) {
	now := s.clock.Now()
	row := s.db.QueryRow(`
		SELECT p.id, p.question, p.answer, l.next, l.interval
		FROM probs p
		JOIN learning l ON l.probid = p.id
		WHERE l.next <= ?
		ORDER BY l.next, p.id
		LIMIT 1
	`, now)
	var p Problem
	err := row.Scan(&p.ID, &p.Question, &p.Answer, &p.Next, &p.Interval)
	if err == sql.ErrNoRows {
		return Problem{}, false, nil
	}
	if err != nil {
		return Problem{}, false, errs.Storage("get_next", err)
	}
	p.Scheduled = true
	return p, true, nil
}

// GetNexts returns up to n upcoming scheduled problems ordered by due
// time, earliest first — used to preview what's coming without
// disturbing the schedule.
func (s *Store) GetNexts(n int) ([]Problem, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.question, p.answer, l.next, l.interval
		FROM probs p
		JOIN learning l ON l.probid = p.id
		ORDER BY l.next
		LIMIT ?
	`, n)
	if err != nil {
		return nil, errs.Storage("get_nexts", err)
	}
	defer rows.Close()

	var out []Problem
	for rows.Next() {
		var p Problem
		if err := rows.Scan(&p.ID, &p.Question, &p.Answer, &p.Next, &p.Interval); err != nil {
			return nil, errs.Storage("get_nexts scan", err)
		}
		p.Scheduled = true
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update records a graded attempt at problem p: appends a log row,
// computes the new interval via the scheduler's interval-update rule,
// and upserts the learning row. A problem asked for the first time has
// no prior interval — the rule's base case uses MinInterval as the
// starting interval, per spec.md §4.2.
func (s *Store) Update(r scheduler.Rand, p Problem, score int) error {
	if score < 1 || score > 4 {
		return errs.Usage(fmt.Sprintf("score %d out of range 1..=4", score))
	}

	now := s.clock.Now()

	current := p.Interval
	if !p.Scheduled {
		current = scheduler.MinInterval
	}

	newInterval, next := scheduler.Update(r, current, score, now)

	tx, err := s.db.Begin()
	if err != nil {
		return errs.Storage("update begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO log (stamp, score, probid) VALUES (?, ?, ?)`, now, score, p.ID); err != nil {
		return errs.Storage("update log", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO learning (probid, next, interval) VALUES (?, ?, ?)
		ON CONFLICT(probid) DO UPDATE SET next = excluded.next, interval = excluded.interval
	`, p.ID, next, newInterval); err != nil {
		return errs.Storage("update learning", err)
	}

	if err := tx.Commit(); err != nil {
		return errs.Storage("update commit", err)
	}

	s.emit("scored", fmt.Sprintf(`{"probid":%d,"score":%d,"interval":%.3f}`, p.ID, score, newInterval))
	return nil
}

// Counts summarizes the state of the whole collection (spec.md §4.1
// "counts" operation): how many problems are due now, how many are
// scheduled but not yet due, how many have never been scheduled, and a
// histogram of scheduled intervals bucketed per scheduler.BucketOf.
type Counts struct {
	Active    int // scheduled, next <= now
	Later     int // scheduled, next > now
	Unlearned int // no learning row yet
	Buckets   map[scheduler.Bucket]int
}

// GetCounts computes a Counts snapshot as of the store's current clock.
func (s *Store) GetCounts() (Counts, error) {
	now := s.clock.Now()
	c := Counts{Buckets: map[scheduler.Bucket]int{}}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM learning WHERE next <= ?`, now).Scan(&c.Active); err != nil {
		return Counts{}, errs.Storage("counts active", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM learning WHERE next > ?`, now).Scan(&c.Later); err != nil {
		return Counts{}, errs.Storage("counts later", err)
	}
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM probs p LEFT JOIN learning l ON l.probid = p.id WHERE l.probid IS NULL
	`).Scan(&c.Unlearned); err != nil {
		return Counts{}, errs.Storage("counts unlearned", err)
	}

	rows, err := s.db.Query(`SELECT interval FROM learning`)
	if err != nil {
		return Counts{}, errs.Storage("counts buckets", err)
	}
	defer rows.Close()
	for rows.Next() {
		var interval float64
		if err := rows.Scan(&interval); err != nil {
			return Counts{}, errs.Storage("counts buckets scan", err)
		}
		c.Buckets[scheduler.BucketOf(interval)]++
	}
	return c, rows.Err()
}
