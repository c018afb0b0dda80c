package orchestration

import "testing"

func TestVoiceModeControllerStartsInCommandMode(t *testing.T) {
	modes := newVoiceModeController()

	if _, ok := modes.current().(CommandMode); !ok {
		t.Fatalf("expected command mode, got %#v", modes.current())
	}
	if modes.exitDictation() {
		t.Fatalf("expected exit in command mode to be a no-op")
	}
}

func TestVoiceModeControllerDictationRoundTrip(t *testing.T) {
	modes := newVoiceModeController()

	modes.enterDictation("doc-1")
	mode, ok := modes.current().(DictationMode)
	if !ok || mode.TargetID != "doc-1" {
		t.Fatalf("expected dictation into doc-1, got %#v", modes.current())
	}

	if !modes.exitDictation() {
		t.Fatalf("expected exit to report a mode change")
	}
	if _, ok := modes.current().(CommandMode); !ok {
		t.Fatalf("expected command mode after exit, got %#v", modes.current())
	}
}

func TestVoiceModeControllerExitPhrasesOverride(t *testing.T) {
	modes := newVoiceModeController()

	modes.setExitPhrases([]string{"over and out"})
	phrases := modes.currentExitPhrases()
	if len(phrases) != 1 || phrases[0] != "over and out" {
		t.Fatalf("unexpected exit phrases %v", phrases)
	}

	// An empty override keeps the previous phrases.
	modes.setExitPhrases(nil)
	if len(modes.currentExitPhrases()) != 1 {
		t.Fatalf("expected empty override to be ignored")
	}
}
