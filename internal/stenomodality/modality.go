// Package stenomodality implements the steno modality: the learner
// types a stroke (a slash-separated list of steno chord names, e.g.
// "TPH/RO/PBLG") at a prompt, and the answer stored for the problem is
// compared as plain text. The chord-bitmask codec that would translate
// raw key-down events into those chord names is an external
// collaborator out of scope for this core (spec.md §1 Non-goals) — this
// modality only consumes an already-decoded stroke string, the same way
// providers.Provider only consumes an already-formed Request rather than
// doing tokenization itself.
package stenomodality

import (
	"bufio"
	"io"
	"strings"

	"github.com/hazyhaar/srscore/internal/errs"
	"github.com/hazyhaar/srscore/internal/modality"
	"github.com/hazyhaar/srscore/internal/store"
)

// Source yields one decoded stroke line per call, e.g. from a steno
// machine driver external to this module. Production wiring supplies an
// adapter over that driver; tests supply a scripted reader.
type Source interface {
	ReadStroke() (string, error)
}

// ReaderSource adapts any io.Reader (a steno driver's output pipe, or a
// plain file for tests) into a Source, one newline-delimited stroke per
// call.
type ReaderSource struct {
	r *bufio.Scanner
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewScanner(r)}
}

func (s *ReaderSource) ReadStroke() (string, error) {
	if !s.r.Scan() {
		if err := s.r.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.r.Text(), nil
}

// Modality compares the learner's typed stroke against the problem's
// stored answer, ignoring case and leading/trailing whitespace. An exact
// match scores 4; any other stroke scores 1 and the expected answer is
// shown through the sink. There is no partial credit and no self-grade
// prompt.
type Modality struct {
	src Source
}

func New(src Source) *Modality {
	return &Modality{src: src}
}

func (m *Modality) Name() string { return "steno" }

func (m *Modality) Ask(problem *store.Problem, next *store.Problem, sink modality.Sink) (modality.Status, error) {
	stroke, err := m.src.ReadStroke()
	if err == io.EOF {
		return modality.Stop(), nil
	}
	if err != nil {
		return modality.Status{}, errs.Modality("read stroke", err)
	}

	if normalize(stroke) == normalize(problem.Answer) {
		return modality.Continue(4), nil
	}

	sink.Info("stroke: " + stroke + " (expected: " + problem.Answer + ")")
	return modality.Continue(1), nil
}

func normalize(stroke string) string {
	return strings.ToUpper(strings.TrimSpace(stroke))
}
