package store

import (
	"path/filepath"
	"testing"

	"github.com/hazyhaar/srscore/internal/clock"
	"github.com/hazyhaar/srscore/internal/scheduler"
)

func tempStore(t *testing.T, kind string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := Create(path, kind)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestCreateThenOpenRoundTrip(t *testing.T) {
	s, path := tempStore(t, "midi")

	pop, err := s.Populate()
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	questions := []string{"q1", "q2", "q3"}
	ids := make([]int64, len(questions))
	for i, q := range questions {
		id, err := pop.AddProblem(q, `{"type":"lick","notes":[[60]]}`)
		if err != nil {
			t.Fatalf("AddProblem: %v", err)
		}
		ids[i] = id
	}
	if err := pop.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	if reopened.GetKind() != "midi" {
		t.Fatalf("GetKind = %q, want midi", reopened.GetKind())
	}

	counts, err := reopened.GetCounts()
	if err != nil {
		t.Fatalf("GetCounts: %v", err)
	}
	if counts.Unlearned != len(questions) {
		t.Fatalf("Unlearned = %d, want %d", counts.Unlearned, len(questions))
	}
}

func TestCreateConflictingKindFails(t *testing.T) {
	_, path := tempStore(t, "midi")

	if _, err := Create(path, "steno"); err == nil {
		t.Fatal("Create with conflicting kind succeeded, want error")
	}
}

// S7: opening a file with no schema_version row (or a mismatched one)
// fails, and the store is unusable.
func TestOpenSchemaGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.db")

	db, err := open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE probs (id INTEGER PRIMARY KEY, question TEXT UNIQUE, answer TEXT)`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	db.Close()

	if _, err := Open(path); err == nil {
		t.Fatal("Open on a store with no schema_version row succeeded, want error")
	}
}

func TestOpenSchemaVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stale.db")

	db, err := open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		t.Fatalf("seed schema: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES ('19990101Z')`); err != nil {
		t.Fatalf("seed version: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO config (key, value) VALUES ('kind', 'midi')`); err != nil {
		t.Fatalf("seed kind: %v", err)
	}
	db.Close()

	if _, err := Open(path); err == nil {
		t.Fatal("Open with stale schema_version succeeded, want error")
	}
}

// Invariant 1 & 2: after any update, interval >= MinInterval and next > now.
func TestUpdateInvariants(t *testing.T) {
	s, _ := tempStore(t, "midi")
	s.SetClock(clock.Fixed(1000))

	pop, _ := s.Populate()
	id, _ := pop.AddProblem("q", `{"type":"lick","notes":[[60]]}`)
	pop.Commit()

	p := Problem{ID: id, Scheduled: false}
	r := scheduler.FixedRand(0.0)
	for _, score := range []int{1, 2, 3, 4, 1} {
		next, ok, err := s.GetNext()
		_ = next
		_ = ok
		if err != nil {
			t.Fatalf("GetNext: %v", err)
		}
		if err := s.Update(r, p, score); err != nil {
			t.Fatalf("Update: %v", err)
		}
		nexts, err := s.GetNexts(1)
		if err != nil {
			t.Fatalf("GetNexts: %v", err)
		}
		if len(nexts) != 1 {
			t.Fatalf("GetNexts returned %d, want 1", len(nexts))
		}
		got := nexts[0]
		if got.Interval < scheduler.MinInterval {
			t.Fatalf("interval %v below floor", got.Interval)
		}
		if got.Next <= 1000 {
			t.Fatalf("next %v not after now", got.Next)
		}
		p = got
	}
}

// S6: a brand-new problem scored 1 floors at exactly MinInterval for any
// jitter draw in range.
func TestUpdateFloorsNewProblem(t *testing.T) {
	s, _ := tempStore(t, "midi")
	s.SetClock(clock.Fixed(0))

	pop, _ := s.Populate()
	id, _ := pop.AddProblem("q", `{"type":"lick","notes":[[60]]}`)
	pop.Commit()

	for _, j := range []float64{0.0, 0.3, 0.9999} {
		if err := s.Update(scheduler.FixedRand(j), Problem{ID: id, Scheduled: false}, 1); err != nil {
			t.Fatalf("Update: %v", err)
		}
		nexts, _ := s.GetNexts(1)
		if nexts[0].Interval != scheduler.MinInterval {
			t.Fatalf("j=%v: interval = %v, want exactly %v", j, nexts[0].Interval, scheduler.MinInterval)
		}
	}
}

// Invariant 4: active + later == scheduled count; + unlearned == total.
func TestCountsPartitionTotal(t *testing.T) {
	s, _ := tempStore(t, "midi")
	s.SetClock(clock.Fixed(0))

	pop, _ := s.Populate()
	var scheduled []int64
	for i := 0; i < 3; i++ {
		id, _ := pop.AddProblem(questionFor(i), `{"type":"lick","notes":[[60]]}`)
		scheduled = append(scheduled, id)
	}
	for i := 0; i < 2; i++ {
		pop.AddProblem(questionFor(100+i), `{"type":"lick","notes":[[60]]}`)
	}
	pop.Commit()

	r := scheduler.FixedRand(0.5)
	for _, id := range scheduled {
		if err := s.Update(r, Problem{ID: id, Scheduled: false}, 3); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	counts, err := s.GetCounts()
	if err != nil {
		t.Fatalf("GetCounts: %v", err)
	}
	if counts.Active+counts.Later != len(scheduled) {
		t.Fatalf("active+later = %d, want %d", counts.Active+counts.Later, len(scheduled))
	}
	if counts.Active+counts.Later+counts.Unlearned != 5 {
		t.Fatalf("total = %d, want 5", counts.Active+counts.Later+counts.Unlearned)
	}
}

func questionFor(i int) string {
	return "q" + string(rune('a'+i%26)) + string(rune('0'+i/26))
}
