package midimodality

import (
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/hazyhaar/srscore/internal/midi"
	"github.com/hazyhaar/srscore/internal/store"
)

type scriptSource struct {
	events []midi.Event
	pos    int
}

func (s *scriptSource) Recv(timeout time.Duration) (midi.Event, bool, error) {
	if s.pos >= len(s.events) {
		return midi.Event{}, false, nil
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, true, nil
}

func noteOn(key uint8, at time.Time) midi.Event {
	return midi.Event{Message: gomidi.NoteOn(0, key, 100), At: at}
}

type captureSink struct {
	infos, errs []string
}

func (c *captureSink) Info(msg string)  { c.infos = append(c.infos, msg) }
func (c *captureSink) Error(msg string) { c.errs = append(c.errs, msg) }

func chordScript(chords [][]int) []midi.Event {
	base := time.Unix(0, 0)
	var events []midi.Event
	for i, chord := range chords {
		at := base.Add(time.Duration(i) * 500 * time.Millisecond)
		for j, n := range chord {
			events = append(events, noteOn(uint8(n), at.Add(time.Duration(j)*5*time.Millisecond)))
		}
	}
	return events
}

// S1: scale C major updown, one hand, one octave, played verbatim.
func TestAskScaleExactMatch(t *testing.T) {
	expected := [][]int{{60}, {62}, {64}, {65}, {67}, {69}, {71}, {72}, {71}, {69}, {67}, {65}, {64}, {62}, {60}}
	src := &scriptSource{events: chordScript(expected)}
	m := New(src)

	p := &store.Problem{Question: "C major", Answer: `{"type":"scale","base":"C","intervals":"WWHWWWH","hands":1,"octaves":1,"style":"updown"}`}
	sink := &captureSink{}

	status, err := m.Ask(p, nil, sink)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if status.Stopped || status.Score != 4 {
		t.Fatalf("status = %+v, want Continue(4)", status)
	}
}

// S2: played one octave higher, still a perfect match after alignment.
func TestAskScaleOctaveShift(t *testing.T) {
	expected := [][]int{{60}, {62}, {64}, {65}, {67}, {69}, {71}, {72}, {71}, {69}, {67}, {65}, {64}, {62}, {60}}
	shifted := make([][]int, len(expected))
	for i, c := range expected {
		shifted[i] = []int{c[0] + 12}
	}
	src := &scriptSource{events: chordScript(shifted)}
	m := New(src)

	p := &store.Problem{Answer: `{"type":"scale","base":"C","intervals":"WWHWWWH","hands":1,"octaves":1,"style":"updown"}`}
	status, err := m.Ask(p, nil, &captureSink{})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if status.Stopped || status.Score != 4 {
		t.Fatalf("status = %+v, want Continue(4)", status)
	}
}

// S5: voicing attempted as a single note — Stopped.
func TestAskVoicingSingleNoteStops(t *testing.T) {
	src := &scriptSource{events: chordScript([][]int{{50}, {43, 59, 65}, {48, 59, 64}})}
	m := New(src)

	p := &store.Problem{Answer: `{"type":"voicing","chords":[[50,60,65],[43,59,65],[48,59,64]]}`}
	status, err := m.Ask(p, nil, &captureSink{})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !status.Stopped {
		t.Fatalf("status = %+v, want Stopped", status)
	}
}

// S4: voicing played verbatim in any within-chord order scores Continue(4).
func TestAskVoicingExactMatch(t *testing.T) {
	src := &scriptSource{events: chordScript([][]int{{50, 60, 65}, {43, 59, 65}, {48, 59, 64}})}
	m := New(src)

	p := &store.Problem{Answer: `{"type":"voicing","chords":[[50,60,65],[43,59,65],[48,59,64]]}`}
	status, err := m.Ask(p, nil, &captureSink{})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if status.Stopped || status.Score != 4 {
		t.Fatalf("status = %+v, want Continue(4)", status)
	}
}
