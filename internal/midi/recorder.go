// Package midi implements the recording contract spec.md §4.6 assigns to
// the MIDI event source: only note-on events matter, events within 80 ms
// of each other form a chord, and recording ends after a run of idle
// ticks. Device I/O itself — opening a real MIDI port — stays out of
// scope; Source is the abstraction the core consumes, satisfied in
// production by a thin adapter over gitlab.com/gomidi/midi/v2's driver
// packages and in tests by a synthetic feed.
package midi

import (
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/hazyhaar/srscore/internal/errs"
	"github.com/hazyhaar/srscore/internal/sequence"
)

// ChordWindow is the maximum gap between two accepted note-on events for
// them to be considered part of the same chord.
const ChordWindow = 80 * time.Millisecond

// IdleTick is the polling granularity used while waiting for the next
// event; recording ends after a run of ticks with nothing new.
const IdleTick = 250 * time.Millisecond

// Event pairs a raw MIDI message with the wall-clock instant it arrived.
type Event struct {
	Message midi.Message
	At      time.Time
}

// Source yields MIDI events one at a time. Recv blocks for up to timeout
// waiting for the next event; ok=false with a nil error means the timeout
// elapsed with nothing new — the caller's idle-tick counter, not Source,
// decides when that means recording is over.
type Source interface {
	Recv(timeout time.Duration) (ev Event, ok bool, err error)
}

// Record drains src until idleLimit consecutive idle ticks elapse with no
// accepted note-on event, grouping accepted events into chords by
// ChordWindow, and returns the resulting played sequence with each chord
// sorted ascending.
//
// Historical versions of this recorder filtered on status nibble 0x8
// (note-off); this one filters on 0x9 (note-on) per spec.md's resolution
// of that open question. A note-on received with velocity 0 is treated as
// a note-off and discarded, matching devices that signal release that
// way.
func Record(src Source, idleLimit int) (sequence.Seq, error) {
	var seq sequence.Seq
	var current []int
	var lastAt time.Time
	haveCurrent := false
	idleCount := 0

	flush := func() {
		if haveCurrent {
			seq = append(seq, sortChord(current))
		}
		current = nil
		haveCurrent = false
	}

	for {
		ev, ok, err := src.Recv(IdleTick)
		if err != nil {
			return nil, errs.Modality("midi recv", err)
		}
		if !ok {
			// Don't count idle ticks before anything has been played — the
			// learner gets unlimited time to start, the idle budget only
			// applies once recording is actually underway.
			if !haveCurrent && len(seq) == 0 {
				continue
			}
			idleCount++
			if idleCount >= idleLimit {
				break
			}
			continue
		}

		var channel, key, velocity uint8
		if !ev.Message.GetNoteOn(&channel, &key, &velocity) {
			continue // not a note-on event; discard (includes note-off)
		}
		if velocity == 0 {
			continue // note-on with velocity 0 signals release
		}

		idleCount = 0

		if !haveCurrent {
			current = []int{int(key)}
			haveCurrent = true
		} else if ev.At.Sub(lastAt) <= ChordWindow {
			current = append(current, int(key))
		} else {
			flush()
			current = []int{int(key)}
			haveCurrent = true
		}
		lastAt = ev.At
	}

	flush()
	return seq, nil
}

func sortChord(notes []int) sequence.Chord {
	c := make(sequence.Chord, len(notes))
	copy(c, notes)
	sort.Ints(c)
	return c
}
