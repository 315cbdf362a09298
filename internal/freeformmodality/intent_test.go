package freeformmodality

import "testing"

func TestParseScoreDigits(t *testing.T) {
	for _, tc := range []struct {
		line string
		want int
	}{
		{"1", 1}, {"2", 2}, {"3", 3}, {"4", 4},
	} {
		got := Parse(tc.line)
		if got.Type != IntentScore || got.Score != tc.want {
			t.Fatalf("Parse(%q) = %+v, want score %d", tc.line, got, tc.want)
		}
	}
}

func TestParseSkipAndQuit(t *testing.T) {
	if got := Parse("/skip"); got.Type != IntentSkip {
		t.Fatalf("Parse(/skip) = %+v, want skip", got)
	}
	for _, line := range []string{"/quit", "/exit", "/QUIT"} {
		if got := Parse(line); got.Type != IntentQuit {
			t.Fatalf("Parse(%q) = %+v, want quit", line, got)
		}
	}
}

func TestParseUnknownCommandFallsBackToText(t *testing.T) {
	got := Parse("/bogus")
	if got.Type != IntentText {
		t.Fatalf("Parse(/bogus) = %+v, want text", got)
	}
}

func TestParseFreeTextAnswer(t *testing.T) {
	got := Parse("it's a dominant seventh chord")
	if got.Type != IntentText {
		t.Fatalf("Parse(answer) = %+v, want text", got)
	}
	if got.Raw != "it's a dominant seventh chord" {
		t.Fatalf("Raw = %q", got.Raw)
	}
}

func TestParseTrimsWhitespace(t *testing.T) {
	got := Parse("  3  ")
	if got.Type != IntentScore || got.Score != 3 {
		t.Fatalf("Parse(\"  3  \") = %+v, want score 3", got)
	}
}
