package orchestration

import (
	"regexp"
	"strings"
)

// punctuationRule replaces a spoken phrase with its symbol. Matching is
// whole-word and case-insensitive anywhere in the fragment, which can misfire
// on legitimate content words ("trial period"); that matches the observed
// dictation behavior and is kept as-is.
type punctuationRule struct {
	pattern     *regexp.Regexp
	replacement string
}

func newPunctuationRule(phrase, symbol string) punctuationRule {
	expr := `(?i)\s*\b` + regexp.QuoteMeta(phrase) + `\b`
	if strings.Contains(symbol, "\n") {
		// Line breaks swallow the following space as well, so "new line next"
		// becomes "\nnext" rather than "\n next".
		expr += `[ \t]*`
	}
	return punctuationRule{
		pattern:     regexp.MustCompile(expr),
		replacement: symbol,
	}
}

// Multi-word phrases come first so "new line" is never half-consumed by a
// shorter rule.
var punctuationRules = []punctuationRule{
	newPunctuationRule("new paragraph", "\n\n"),
	newPunctuationRule("new line", "\n"),
	newPunctuationRule("question mark", "?"),
	newPunctuationRule("exclamation point", "!"),
	newPunctuationRule("exclamation mark", "!"),
	newPunctuationRule("full stop", "."),
	newPunctuationRule("period", "."),
	newPunctuationRule("comma", ","),
	newPunctuationRule("colon", ":"),
	newPunctuationRule("semicolon", ";"),
}

// applyPunctuation runs the fixed word-to-symbol table over the whole
// fragment text.
func applyPunctuation(text string) string {
	for _, rule := range punctuationRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return text
}

// dictationSeparator decides whether a single space is inserted before an
// appended fragment: none when the target is empty or already ends in a
// newline or terminal punctuation.
func dictationSeparator(current string) string {
	if current == "" {
		return ""
	}

	switch current[len(current)-1] {
	case '\n', '.', '!', '?':
		return ""
	}
	return " "
}

// defaultDictationExitPhrases switch dictation back to command mode when any
// of them appears anywhere in a fragment, case-insensitively.
var defaultDictationExitPhrases = []string{
	"stop dictation",
	"end dictation",
	"exit dictation",
	"stop dictating",
	"command mode",
}

func containsExitPhrase(text string, phrases []string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
