// Package sequence builds and compares the ordered chord sequences the
// MIDI modality grades a learner against: an expected ScaleSeq parsed from
// a problem's answer JSON, and a played ScaleSeq recorded from the
// learner's performance.
package sequence

import "sort"

// Chord is a sorted set of MIDI note numbers (0-127) meant to sound
// simultaneously. A length-1 chord is the scalar-melody case.
type Chord []int

// sorted returns a copy of notes, sorted ascending — the comparator never
// treats physical key-down order within a chord as significant.
func sorted(notes []int) Chord {
	c := make(Chord, len(notes))
	copy(c, notes)
	sort.Ints(c)
	return c
}

// Seq is an ordered sequence of chords.
type Seq []Chord

// Transpose returns a copy of the sequence with every note shifted by
// delta semitones.
func (s Seq) Transpose(delta int) Seq {
	out := make(Seq, len(s))
	for i, chord := range s {
		nc := make(Chord, len(chord))
		for j, n := range chord {
			nc[j] = n + delta
		}
		out[i] = nc
	}
	return out
}

// FirstNote returns the lowest note of the first chord. The second return
// value is false for an empty sequence or an empty first chord.
func (s Seq) FirstNote() (int, bool) {
	if len(s) == 0 || len(s[0]) == 0 {
		return 0, false
	}
	return s[0][0], true
}
