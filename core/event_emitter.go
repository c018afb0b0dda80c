package orchestration

import (
	"github.com/thoughtcanvas/canvas-core/core/events"
)

// eventEmitter delivers one orchestration event to the host. Emitters must
// be cheap; they run on the hot paths of transcript routing and streaming.
type eventEmitter func(event events.Event)

func noopEventEmitter(events.Event) {}

// newCallbackEventEmitter fans typed events out to the per-concern callbacks
// the host registered. Unregistered callbacks cost nothing.
func newCallbackEventEmitter(options OrchestrateOptions) eventEmitter {
	return func(event events.Event) {
		switch event := event.(type) {
		case events.VoiceFragment:
			if options.onFragment != nil {
				options.onFragment(event.Text, event.IsFinal)
			}
		case events.VoiceModeChanged:
			if options.onModeChanged != nil {
				options.onModeChanged(event.Dictating, event.TargetID)
			}
		case events.VoiceCommandBuffered:
			if options.onPendingCommand != nil {
				options.onPendingCommand(event.Pending)
			}
		case events.VoiceDictationAppended:
			if options.onDictationAppended != nil {
				options.onDictationAppended(event.TargetID, event.Text)
			}
		case events.TurnStarted:
			if options.onTurnStarted != nil {
				options.onTurnStarted(event.Utterance)
			}
		case events.AgentResponseSegment:
			if options.onStreamingText != nil {
				options.onStreamingText(event.Text)
			}
		case events.AgentResponseFinal:
			if options.onResponse != nil {
				options.onResponse(event.Text)
			}
		case events.ToolCallCompleted:
			if options.onToolCall != nil {
				options.onToolCall(event.Name, event.Result, true)
			}
		case events.ToolCallFailed:
			if options.onToolCall != nil {
				options.onToolCall(event.Name, event.Error, false)
			}
		case events.TurnCompleted:
			if options.onTurnCompleted != nil {
				options.onTurnCompleted()
			}
		case events.TurnFailed:
			if options.onError != nil {
				options.onError(event.Error)
			}
		case events.TurnCancelled:
			if options.onCancellation != nil {
				options.onCancellation()
			}
		case events.UndoPerformed:
			if options.onUndo != nil {
				options.onUndo(event.Status)
			}
		}
	}
}
