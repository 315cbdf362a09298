// Package sessionrunner drives the main learning loop: fetch the next
// due problem or a fresh one, ask the modality, write back the score,
// repeat until the modality stops or nothing is left to learn. It
// generalizes the teacher's ui.Chat.Run — the same readline-driven
// "loop until the interface says stop" shape, minus the chat-specific
// intent routing. Status text goes to the injected modality.Sink; the
// loop records nothing on the store's event bus itself (Store.Update
// emits its own "scored" event).
package sessionrunner

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/hazyhaar/srscore/internal/errs"
	"github.com/hazyhaar/srscore/internal/modality"
	"github.com/hazyhaar/srscore/internal/scheduler"
	"github.com/hazyhaar/srscore/internal/store"
)

// Runner ties a Store to a Modality for the duration of one session.
type Runner struct {
	store    *store.Store
	modality modality.Modality
	rand     scheduler.Rand
	sink     modality.Sink

	// skipped holds ids of never-scheduled problems whose answer failed
	// to parse this session — they aren't marked failed in storage, but
	// re-offering the same broken problem forever would wedge the loop.
	skipped []int64
}

// New builds a Runner. rand is the jitter source passed through to every
// Store.Update call — inject a fixed source in tests for reproducible
// sessions.
func New(s *store.Store, m modality.Modality, rand scheduler.Rand, sink modality.Sink) *Runner {
	return &Runner{store: s, modality: m, rand: rand, sink: sink}
}

// Run executes the session loop until the modality reports Stopped or
// there is nothing left to learn, returning how many problems were
// scored.
func (r *Runner) Run() (scored int, err error) {
	for {
		problem, ok, err := r.nextProblem()
		if err != nil {
			return scored, err
		}
		if !ok {
			r.sink.Info("nothing to learn")
			return scored, nil
		}

		upcoming, err := r.store.GetNexts(1)
		if err != nil {
			return scored, err
		}
		var previewed *store.Problem
		if len(upcoming) > 0 && upcoming[0].ID != problem.ID {
			previewed = &upcoming[0]
		}

		r.renderCounts()
		r.sink.Info("interval: " + scheduler.Humanize(problem.Interval))

		status, askErr := r.modality.Ask(&problem, previewed, r.sink)
		if askErr != nil {
			// Parse and Invariant errors surface from the modality but don't
			// abort the session — the problem was never scored.
			if errs.IsParse(askErr) || errs.IsInvariant(askErr) {
				r.sink.Error(askErr.Error())
				if !problem.Scheduled {
					r.skipped = append(r.skipped, problem.ID)
				}
				continue
			}
			return scored, askErr
		}

		if status.Stopped {
			return scored, nil
		}

		if err := r.store.Update(r.rand, problem, status.Score); err != nil {
			return scored, err
		}
		scored++
	}
}

func (r *Runner) nextProblem() (store.Problem, bool, error) {
	p, ok, err := r.store.GetNext()
	if err != nil {
		return store.Problem{}, false, err
	}
	if ok {
		return p, true, nil
	}
	return r.store.GetNewExcluding(r.skipped)
}

func (r *Runner) renderCounts() {
	counts, err := r.store.GetCounts()
	if err != nil {
		r.sink.Error(err.Error())
		return
	}
	r.sink.Info(fmt.Sprintf(
		"active=%s later=%s unlearned=%s",
		humanize.Comma(int64(counts.Active)),
		humanize.Comma(int64(counts.Later)),
		humanize.Comma(int64(counts.Unlearned)),
	))
}
