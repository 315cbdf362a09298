// Package freeformmodality implements the "freeform" modality: the
// learner types the answer (or just self-grades aloud) at a readline
// prompt, and a line parser classifies what they typed. It generalizes
// the teacher's ui.IntentParser — there, free text routed to one of a
// dozen chat intents (code/undo/switch/...); here it routes to the much
// smaller vocabulary a quiz prompt needs: a self-graded score keypress,
// a skip, or a quit. Regex file-pattern detection and the French/English
// bilingual keyword tables have no home in this domain, so they're gone;
// the slash-command dispatch shape survives unchanged.
package freeformmodality

import "strings"

// IntentType is the small vocabulary a freeform quiz prompt recognizes.
type IntentType string

const (
	IntentScore IntentType = "score" // a digit 1-4, self-graded recall quality
	IntentSkip  IntentType = "skip"  // /skip — don't answer; the same question is asked again, ungraded
	IntentQuit  IntentType = "quit"  // /quit, /exit — end the session
	IntentText  IntentType = "text"  // anything else — the learner's typed answer
)

// Intent is a parsed line of learner input.
type Intent struct {
	Type  IntentType
	Score int    // valid only when Type == IntentScore
	Raw   string
}

// Parse classifies one line of input the way ui.IntentParser's
// parseCommand does for slash commands, falling back to a bare score
// keypress and finally to free text.
func Parse(line string) Intent {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "/") {
		switch strings.ToLower(strings.TrimPrefix(trimmed, "/")) {
		case "skip":
			return Intent{Type: IntentSkip, Raw: line}
		case "quit", "exit":
			return Intent{Type: IntentQuit, Raw: line}
		}
		return Intent{Type: IntentText, Raw: line}
	}

	if len(trimmed) == 1 {
		switch trimmed {
		case "1", "2", "3", "4":
			return Intent{Type: IntentScore, Score: int(trimmed[0] - '0'), Raw: line}
		}
	}

	return Intent{Type: IntentText, Raw: line}
}
