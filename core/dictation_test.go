package orchestration

import "testing"

func TestApplyPunctuation(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"add milk comma eggs comma bread", "add milk, eggs, bread"},
		{"done period", "done."},
		{"really question mark", "really?"},
		{"wow Exclamation Point", "wow!"},
		{"hello new line world", "hello\nworld"},
		{"first new paragraph second", "first\n\nsecond"},
		{"wrap it up full stop", "wrap it up."},
		{"one colon two semicolon three", "one: two; three"},
		{"the periodic table", "the periodic table"},
		{"no punctuation words here", "no punctuation words here"},
	} {
		if got := applyPunctuation(tc.in); got != tc.want {
			t.Fatalf("applyPunctuation(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDictationSeparator(t *testing.T) {
	for _, tc := range []struct {
		current string
		want    string
	}{
		{"", ""},
		{"Hello world", " "},
		{"Done.", ""},
		{"Really?", ""},
		{"Stop!", ""},
		{"line\n", ""},
		{"ends with comma,", " "},
	} {
		if got := dictationSeparator(tc.current); got != tc.want {
			t.Fatalf("dictationSeparator(%q) = %q, want %q", tc.current, got, tc.want)
		}
	}
}

func TestContainsExitPhrase(t *testing.T) {
	phrases := defaultDictationExitPhrases

	for _, tc := range []struct {
		text string
		want bool
	}{
		{"stop dictation", true},
		{"please Stop Dictation now", true},
		{"switch to command mode", true},
		{"end dictation", true},
		{"keep dictating", false},
		{"stop", false},
		{"", false},
	} {
		if got := containsExitPhrase(tc.text, phrases); got != tc.want {
			t.Fatalf("containsExitPhrase(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
