package freeformmodality

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/hazyhaar/srscore/internal/errs"
	"github.com/hazyhaar/srscore/internal/modality"
	"github.com/hazyhaar/srscore/internal/store"
)

// Modality presents the question text at a readline prompt, shows the
// stored answer, and asks the learner to self-grade their recall 1-4 —
// the "freeform" kind spec.md §5 names for plain Q&A problems with no
// structured comparator. Its readline setup mirrors the teacher's
// ui.Chat.NewChat (same history-file and interrupt-prompt config); one
// instance lives for the process and is reused for every Ask. New reads
// from the terminal; it has no option for a scripted input stream.
type Modality struct {
	rl *readline.Instance
}

// New opens a readline prompt at historyFile, following the teacher's
// chat interface conventions.
func New(historyFile string) (*Modality, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36m?\033[0m ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return nil, errs.Modality("readline init", err)
	}
	return &Modality{rl: rl}, nil
}

func (m *Modality) Name() string { return "freeform" }

// Close releases the underlying terminal state.
func (m *Modality) Close() error { return m.rl.Close() }

// Ask prints the question, waits for the learner to attempt it, reveals
// the stored answer, then reads a self-graded score. /skip treats the
// attempt as ungraded by asking again without recording anything against
// the schedule; /quit reports Stopped.
func (m *Modality) Ask(problem *store.Problem, next *store.Problem, sink modality.Sink) (modality.Status, error) {
	for {
		fmt.Fprintf(m.rl.Stdout(), "\n%s\n", problem.Question)

		line, err := m.rl.Readline()
		if err == readline.ErrInterrupt {
			return modality.Stop(), nil
		}
		if err == io.EOF {
			return modality.Stop(), nil
		}
		if err != nil {
			return modality.Status{}, errs.Modality("readline", err)
		}

		intent := Parse(line)
		switch intent.Type {
		case IntentQuit:
			return modality.Stop(), nil
		case IntentSkip:
			sink.Info("skipped")
			continue
		}

		fmt.Fprintf(m.rl.Stdout(), "answer: %s\ngrade yourself 1-4 (1=blackout, 4=perfect): ", problem.Answer)

		score, stopped, err := m.readScore()
		if err != nil {
			return modality.Status{}, err
		}
		if stopped {
			return modality.Stop(), nil
		}
		return modality.Continue(score), nil
	}
}

func (m *Modality) readScore() (score int, stopped bool, err error) {
	for {
		line, err := m.rl.Readline()
		if err == readline.ErrInterrupt {
			return 0, true, nil
		}
		if err == io.EOF {
			return 0, true, nil
		}
		if err != nil {
			return 0, false, errs.Modality("readline", err)
		}

		intent := Parse(line)
		if intent.Type == IntentQuit {
			return 0, true, nil
		}
		if intent.Type == IntentScore {
			return intent.Score, false, nil
		}
		fmt.Fprintf(m.rl.Stdout(), "enter a number 1-4: ")
	}
}
