// Package midimodality implements the MIDI-played modality: it builds
// the expected note sequence from the problem's answer JSON, records
// what the learner actually played, octave-aligns and diffs the two,
// and scores the attempt per the scale/lick/voicing threshold table.
// It is the one modality grounded on internal/sequence and internal/midi
// rather than on any teacher file directly — the teacher has no musical
// domain to imitate, so this package follows those two packages' own
// conventions (typed errors, an injected Source boundary) instead.
package midimodality

import (
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/srscore/internal/errs"
	"github.com/hazyhaar/srscore/internal/midi"
	"github.com/hazyhaar/srscore/internal/modality"
	"github.com/hazyhaar/srscore/internal/sequence"
	"github.com/hazyhaar/srscore/internal/store"
)

// idleLimit per shape: more patience for voicings, whose chords take
// longer to land all at once.
const (
	idleLimitMelodic = 6 // scale, lick
	idleLimitChordal = 8 // voicing
)

// Modality scores MIDI performance against a parsed expected sequence.
type Modality struct {
	src midi.Source
}

// New wraps a MIDI event source. The same src is reused across Ask
// calls — one instrument, many problems.
func New(src midi.Source) *Modality {
	return &Modality{src: src}
}

func (m *Modality) Name() string { return "midi" }

// Ask builds the expected sequence from problem.Answer, records an
// attempt, and implements the re-ask policy: while the attempt's score
// is below the maximum, it records another attempt at the same problem,
// but reports the *original* attempt's score to the session loop so a
// struggling item still shrinks its interval.
func (m *Modality) Ask(problem *store.Problem, next *store.Problem, sink modality.Sink) (modality.Status, error) {
	expected, kind, err := sequence.Build(problem.Answer)
	if err != nil {
		sink.Error(err.Error())
		return modality.Status{}, err
	}

	idleLimit := idleLimitMelodic
	if kind == sequence.KindVoicing {
		idleLimit = idleLimitChordal
	}

	originalScore := 0
	first := true

	for {
		played, err := midi.Record(m.src, idleLimit)
		if err != nil {
			return modality.Status{}, err
		}

		status, d, stop := m.grade(expected, played, kind, sink)
		if stop {
			return modality.Stop(), nil
		}

		if first {
			originalScore = status
			first = false
		}
		_ = d

		if status == 4 {
			return modality.Continue(originalScore), nil
		}
		sink.Info(fmt.Sprintf("not quite — try again (off by %d)", d))
	}
}

// grade implements the Stopped pre-checks, octave alignment, and the
// per-shape scoring threshold table from the comparator's contract. It
// returns the score (1-4), the raw edit distance for display, and
// whether the attempt should end the session entirely.
func (m *Modality) grade(expected sequence.Seq, played sequence.Seq, kind sequence.Kind, sink modality.Sink) (score int, distance int, stop bool) {
	if len(played) == 0 {
		return 1, -1, true
	}

	if kind == sequence.KindVoicing {
		if first := played[0]; len(first) == 1 {
			return 0, -1, true
		}
	}

	aligned, ok := sequence.AdjustOctave(expected, played)
	if !ok {
		return 0, -1, true
	}

	d := sequence.Differences(aligned, played)

	switch kind {
	case sequence.KindVoicing:
		if d == 0 {
			return 4, d, false
		}
		return 1, d, false
	default: // scale, lick
		if d <= 3 {
			return 4 - d, d, false
		}
		return 1, d, false
	}
}

// ParseKind reports the tagged-union type of an answer without building
// the full sequence. Nothing in this module calls it; Ask derives the
// kind from sequence.Build instead.
func ParseKind(answerJSON string) (sequence.Kind, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(answerJSON), &envelope); err != nil {
		return "", errs.Parse("answer envelope", err)
	}
	switch envelope.Type {
	case "scale":
		return sequence.KindScale, nil
	case "lick":
		return sequence.KindLick, nil
	case "voicing":
		return sequence.KindVoicing, nil
	}
	return "", errs.Parse("answer envelope", fmt.Errorf("unrecognized type %q", envelope.Type))
}
