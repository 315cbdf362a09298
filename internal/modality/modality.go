// Package modality defines the capability the session loop depends on to
// present a problem and score the learner's attempt, generalizing the
// teacher's providers.Provider interface (ID/Generate/Stream/IsAvailable)
// from "talk to a remote LLM" to "ask the learner and grade the answer".
package modality

import "github.com/hazyhaar/srscore/internal/store"

// Status is what a modality reports after asking a problem.
type Status struct {
	// Stopped is true when the learner signaled they want to end the
	// session (e.g. pressed escape). Score is meaningless when Stopped.
	Stopped bool

	// Score is 1..=4, valid only when Stopped is false.
	Score int
}

// Continue builds a Status reporting a score for a completed attempt.
func Continue(score int) Status { return Status{Score: score} }

// Stop builds a Status signaling the learner wants to end the session.
func Stop() Status { return Status{Stopped: true} }

// Sink receives informational text between asks — counts, the current
// interval, error messages — without gating correctness.
type Sink interface {
	Info(msg string)
	Error(msg string)
}

// Modality presents a problem to the learner and returns how it went.
// next, when non-nil, is the upcoming problem the UI may preview (from
// Store.GetNexts) while the current one is being asked.
type Modality interface {
	Name() string
	Ask(problem *store.Problem, next *store.Problem, sink Sink) (Status, error)
}
