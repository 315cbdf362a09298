package sequence

// separator is a synthetic token outside the MIDI range (0-127) injected
// between flattened chords so a missing or extra chord costs an edit
// rather than being absorbed into a neighboring chord.
const separator = 128

// AdjustOctave aligns expected to played by comparing the lowest note of
// each sequence's first chord. If they already match, expected is
// returned unchanged. If the mismatch is a whole number of octaves, the
// entire expected sequence is transposed by it. Any other mismatch means
// the learner started on the wrong scale degree, reported via the second
// return value.
func AdjustOctave(expected, played Seq) (Seq, bool) {
	e0, ok := expected.FirstNote()
	if !ok {
		return expected, true
	}
	p0, ok := played.FirstNote()
	if !ok {
		return expected, false
	}

	if e0 == p0 {
		return expected, true
	}

	delta := p0 - e0
	if delta%12 != 0 {
		return expected, false
	}

	return expected.Transpose(delta), true
}

// flatten interleaves each sequence's notes with a separator after every
// chord, turning a sequence of chords into one linear stream.
func flatten(s Seq) []int {
	out := make([]int, 0, len(s)*2)
	for _, chord := range s {
		out = append(out, chord...)
		out = append(out, separator)
	}
	return out
}

// Differences runs Wagner-Fischer edit distance (unit insert/delete/
// substitute costs) over the flattened streams of a and b. It is
// symmetric and zero iff a and b are the same sequence of chords.
func Differences(a, b Seq) int {
	sa, sb := flatten(a), flatten(b)
	return editDistance(sa, sb)
}

func editDistance(a, b []int) int {
	m, n := len(a), len(b)
	prev := make([]int, n+1)
	cur := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			cur[j] = min3(del, ins, sub)
		}
		prev, cur = cur, prev
	}

	return prev[n]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
