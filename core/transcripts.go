package orchestration

import (
	"github.com/thoughtcanvas/canvas-core/core/events"
)

// transcriptRouter routes each transcript fragment either into the dictation
// target or into the pending command buffer, per the current voice mode.
// Fragment handling stays cheap and synchronous; fragments can arrive faster
// than an agent turn completes.
type transcriptRouter struct {
	o *Orchestrator
}

func newTranscriptRouter(o *Orchestrator) *transcriptRouter {
	return &transcriptRouter{o: o}
}

func (r *transcriptRouter) HandleFragment(text string, isFinal bool) {
	if text == "" {
		return
	}

	r.o.emit(events.NewVoiceFragment(text, isFinal))

	switch mode := r.o.modes.current().(type) {
	case DictationMode:
		r.handleDictationFragment(mode, text, isFinal)
	default:
		r.handleCommandFragment(text, isFinal)
	}
}

func (r *transcriptRouter) handleCommandFragment(text string, isFinal bool) {
	if !isFinal {
		return
	}

	r.o.pending.Append(text)
	r.o.emit(events.NewVoiceCommandBuffered(r.o.pending.String()))
}

func (r *transcriptRouter) handleDictationFragment(mode DictationMode, text string, isFinal bool) {
	if containsExitPhrase(text, r.o.modes.currentExitPhrases()) {
		// The exit phrase itself is never appended as content.
		if r.o.modes.exitDictation() {
			r.o.emit(events.NewVoiceModeChanged(false, ""))
		}
		return
	}

	if !isFinal {
		return
	}

	doc, ok := r.o.getDocument(mode.TargetID)
	if !ok {
		// Target is gone; the fragment has nowhere to go.
		return
	}

	processed := applyPunctuation(text)
	appended := dictationSeparator(doc.Content) + processed
	content := doc.Content + appended
	if err := r.o.updateDocument(mode.TargetID, DocumentUpdate{Content: &content}); err != nil {
		logger.Warn("failed to append dictated text", "error", err)
		return
	}

	r.o.emit(events.NewVoiceDictationAppended(mode.TargetID, appended))
}

// FlushPendingCommand sends the accumulated command as one agent turn. In
// dictation mode utterance ends carry no meaning and are ignored.
func (r *transcriptRouter) FlushPendingCommand() {
	if _, dictating := r.o.modes.current().(DictationMode); dictating {
		return
	}

	utterance := r.o.pending.Take()
	if utterance == "" {
		return
	}

	r.o.sendCommand(utterance)
}
