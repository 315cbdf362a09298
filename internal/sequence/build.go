package sequence

import (
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/srscore/internal/errs"
)

// noteBase maps a note letter to its MIDI number in the octave of middle
// C (C=60), following gitlab.com/gomidi/midi/v2's convention that middle
// C is note number 60.
var noteBase = map[byte]int{
	'C': 60, 'D': 62, 'E': 64, 'F': 65, 'G': 67, 'A': 69, 'B': 71,
}

// stepFor maps an interval-string character to its semitone step.
var stepFor = map[byte]int{
	'H': 1, // half step
	'W': 2, // whole step
	'm': 3, // minor third
	'M': 4, // major third
	'4': 5, // perfect fourth
}

// answerEnvelope is the tagged-union envelope every problem answer JSON
// document uses.
type answerEnvelope struct {
	Type string `json:"type"`
}

// scaleAnswer is the "scale" shape of §4.5.
type scaleAnswer struct {
	Base      string `json:"base"`
	Intervals string `json:"intervals"`
	Hands     int    `json:"hands"`
	Octaves   int    `json:"octaves"`
	Style     string `json:"style"`
}

// lickAnswer is the "lick" shape: a beat-by-beat list of chords.
type lickAnswer struct {
	Notes [][]int `json:"notes"`
}

// voicingAnswer is the "voicing" shape: harmonic rather than melodic, but
// structurally identical to lick at the comparator layer.
type voicingAnswer struct {
	Chords [][]int `json:"chords"`
}

// Kind distinguishes scale/lick/voicing for grading-threshold purposes
// (§4.5's scoring table varies by shape).
type Kind string

const (
	KindScale   Kind = "scale"
	KindLick    Kind = "lick"
	KindVoicing Kind = "voicing"
)

// Build parses a problem's answer JSON into its expected Seq and reports
// which shape it was (the grading threshold depends on it).
func Build(answerJSON string) (Seq, Kind, error) {
	var env answerEnvelope
	if err := json.Unmarshal([]byte(answerJSON), &env); err != nil {
		return nil, "", errs.Parse("answer envelope", err)
	}

	switch Kind(env.Type) {
	case KindScale:
		var a scaleAnswer
		if err := json.Unmarshal([]byte(answerJSON), &a); err != nil {
			return nil, "", errs.Parse("scale answer", err)
		}
		seq, err := buildScale(a)
		if err != nil {
			return nil, "", err
		}
		return seq, KindScale, nil

	case KindLick:
		var a lickAnswer
		if err := json.Unmarshal([]byte(answerJSON), &a); err != nil {
			return nil, "", errs.Parse("lick answer", err)
		}
		return buildBeats(a.Notes), KindLick, nil

	case KindVoicing:
		var a voicingAnswer
		if err := json.Unmarshal([]byte(answerJSON), &a); err != nil {
			return nil, "", errs.Parse("voicing answer", err)
		}
		return buildBeats(a.Chords), KindVoicing, nil

	default:
		return nil, "", errs.Parse("answer type", fmt.Errorf("unrecognized type %q", env.Type))
	}
}

// buildBeats sorts each raw chord ascending — lick and voicing are
// structurally identical at this layer.
func buildBeats(raw [][]int) Seq {
	seq := make(Seq, len(raw))
	for i, chord := range raw {
		seq[i] = sorted(chord)
	}
	return seq
}

// parseBase maps a note name (one letter A..G, optional accidental) to a
// MIDI number in the octave of middle C.
func parseBase(base string) (int, error) {
	runes := []rune(base)
	if len(runes) == 0 {
		return 0, errs.Parse("note base", fmt.Errorf("empty note name"))
	}

	letter := byte(runes[0])
	n, ok := noteBase[letter]
	if !ok {
		return 0, errs.Parse("note base", fmt.Errorf("unrecognized letter %q", string(letter)))
	}

	if len(runes) == 1 {
		return n, nil
	}
	if len(runes) > 2 {
		return 0, errs.Parse("note base", fmt.Errorf("malformed note name %q", base))
	}

	switch runes[1] {
	case '#', '♯':
		return n + 1, nil
	case 'b', '♭':
		return n - 1, nil
	default:
		return 0, errs.Parse("note base", fmt.Errorf("unrecognized accidental %q", string(runes[1])))
	}
}

// applyIntervals repeats the interval string repeatCount times starting
// from base, checking after every repetition that it advanced exactly one
// octave (12 semitones) — the invariant spec.md §4.5 requires.
func applyIntervals(base int, intervals string, repeatCount int) ([]int, error) {
	notes := []int{base}

	for rep := 0; rep < repeatCount; rep++ {
		start := len(notes) - 1
		cur := notes[start]
		for i := 0; i < len(intervals); i++ {
			step, ok := stepFor[intervals[i]]
			if !ok {
				return nil, errs.Parse("interval string", fmt.Errorf("unrecognized interval char %q", string(intervals[i])))
			}
			cur += step
			notes = append(notes, cur)
		}
		if notes[len(notes)-1]-notes[start] != 12 {
			return nil, errs.Invariant(fmt.Sprintf("interval string %q does not advance one octave (got %d semitones)", intervals, notes[len(notes)-1]-notes[start]))
		}
	}

	return notes, nil
}

// withHands duplicates each note N octaves up for a multi-hand scale:
// hands=1 leaves every chord a singleton; hands=k adds k-1 octave
// duplicates per note.
func withHands(mono []int, hands int) Seq {
	seq := make(Seq, len(mono))
	for i, n := range mono {
		chord := make(Chord, 0, hands)
		chord = append(chord, n)
		for h := 1; h < hands; h++ {
			chord = append(chord, n+12*h)
		}
		seq[i] = sorted(chord)
	}
	return seq
}

func buildScale(a scaleAnswer) (Seq, error) {
	base, err := parseBase(a.Base)
	if err != nil {
		return nil, err
	}

	hands := a.Hands
	if hands <= 0 {
		hands = 1
	}
	octaves := a.Octaves
	if octaves <= 0 {
		octaves = 1
	}

	switch a.Style {
	case "updown":
		notes, err := applyIntervals(base, a.Intervals, octaves)
		if err != nil {
			return nil, err
		}
		mono := append([]int{}, notes...)
		// Ascend then descend, no duplicated apex.
		for i := len(notes) - 2; i >= 0; i-- {
			mono = append(mono, notes[i])
		}
		return withHands(mono, hands), nil

	case "3up", "3upr":
		notes, err := applyIntervals(base, a.Intervals, octaves+2)
		if err != nil {
			return nil, err
		}
		p := len(a.Intervals)
		// The descending walk below reaches notes[2*p+2]; require enough
		// padding octaves for that index to exist before indexing into it.
		if p == 0 || len(notes) < 2*p+3 {
			return nil, errs.Invariant("interval string too short for broken-thirds style")
		}

		var mono []int
		emit := func(i int) {
			if a.Style == "3up" {
				mono = append(mono, notes[i], notes[i+2])
			} else {
				mono = append(mono, notes[i+2], notes[i])
			}
		}

		for i := p; i < 2*p; i++ {
			emit(i)
		}
		for i := 2 * p; i >= p-1; i-- {
			emit(i)
		}
		mono = append(mono, notes[p])

		return withHands(mono, hands), nil

	default:
		return nil, errs.Parse("scale style", fmt.Errorf("unrecognized style %q", a.Style))
	}
}
