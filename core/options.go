package orchestration

import (
	"context"

	"github.com/thoughtcanvas/canvas-core/core/llms"
)

// LLMWithStream is the streaming completion surface agent turns run on.
type LLMWithStream interface {
	PromptWithStream(ctx context.Context, prompt *string, opts ...llms.PromptOption) llms.Stream
}

// LLMWithPrompt is the non-streaming surface used for secondary content
// transforms.
type LLMWithPrompt interface {
	Prompt(ctx context.Context, prompt string, opts ...llms.PromptOption) (*llms.Response, error)
}

// CompletionClient covers both surfaces; most real clients implement both.
type CompletionClient interface {
	LLMWithStream
	LLMWithPrompt
}

// AudioInput is a capture-only audio source feeding the speech engine.
type AudioInput interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

// ListGenerator produces list items for generate_list, replacing the default
// single-prompt fallback with e.g. a schema-constrained call.
type ListGenerator func(ctx context.Context, prompt, sourceContent string) ([]string, error)

type OrchestratorOption func(*Orchestrator)

// WithCompletionClient installs one client for both streaming turns and
// secondary transforms.
func WithCompletionClient(client CompletionClient) OrchestratorOption {
	return func(o *Orchestrator) {
		o.streamClient = client
		o.transformClient = client
	}
}

// WithStreamingLLM installs the streaming turn client only.
func WithStreamingLLM(client LLMWithStream) OrchestratorOption {
	return func(o *Orchestrator) {
		o.streamClient = client
	}
}

// WithTransformLLM installs the transform client only.
func WithTransformLLM(client LLMWithPrompt) OrchestratorOption {
	return func(o *Orchestrator) {
		o.transformClient = client
	}
}

func WithWorkspace(workspace Workspace) OrchestratorOption {
	return func(o *Orchestrator) {
		o.workspace = workspace
	}
}

func WithWindowEngine(windows WindowEngine) OrchestratorOption {
	return func(o *Orchestrator) {
		o.windows = windows
	}
}

func WithSpeechEngine(client SpeechEngine) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechToText.set(client)
	}
}

func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) {
		o.audioInput = client
	}
}

// WithUndoCapacity overrides the undo log bound.
func WithUndoCapacity(capacity int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.undoLog = NewUndoLog(capacity)
	}
}

func WithListGenerator(generate ListGenerator) OrchestratorOption {
	return func(o *Orchestrator) {
		o.generateList = generate
	}
}

// WithDictationExitPhrases replaces the default spoken exit phrases.
func WithDictationExitPhrases(phrases ...string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.modes.setExitPhrases(phrases)
	}
}

// WithHistoryWindow bounds the conversation history, counted in messages.
func WithHistoryWindow(window int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.session.setHistoryWindow(window)
	}
}

// OrchestrateOptions collects the per-run host callbacks.
type OrchestrateOptions struct {
	onFragment          func(text string, isFinal bool)
	onModeChanged       func(dictating bool, targetID string)
	onPendingCommand    func(pending string)
	onDictationAppended func(targetID, text string)
	onTurnStarted       func(utterance string)
	onStreamingText     func(text string)
	onResponse          func(response string)
	onToolCall          func(name, result string, ok bool)
	onTurnCompleted     func()
	onError             func(message string)
	onCancellation      func()
	onUndo              func(status string)
	onProcessingChanged func(isProcessing bool)
}

type OrchestrateOption func(*OrchestrateOptions)

// WithTranscriptionCallback receives every transcript fragment, interim or
// finalized.
func WithTranscriptionCallback(callback func(text string, isFinal bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onFragment = callback
	}
}

func WithModeChangedCallback(callback func(dictating bool, targetID string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onModeChanged = callback
	}
}

// WithPendingCommandCallback receives the pending command buffer after each
// finalized command fragment.
func WithPendingCommandCallback(callback func(pending string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onPendingCommand = callback
	}
}

func WithDictationAppendedCallback(callback func(targetID, text string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onDictationAppended = callback
	}
}

func WithTurnStartedCallback(callback func(utterance string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onTurnStarted = callback
	}
}

// WithStreamingTextCallback receives the visible response text accumulated so
// far, after every content chunk.
func WithStreamingTextCallback(callback func(text string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onStreamingText = callback
	}
}

// WithResponseCallback receives the final response text of each completed
// turn.
func WithResponseCallback(callback func(response string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onResponse = callback
	}
}

func WithToolCallCallback(callback func(name, result string, ok bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onToolCall = callback
	}
}

// WithTurnCompletedCallback fires once per successful turn, after all of its
// tool invocations have been dispatched.
func WithTurnCompletedCallback(callback func()) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onTurnCompleted = callback
	}
}

func WithErrorCallback(callback func(message string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onError = callback
	}
}

func WithCancellationCallback(callback func()) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onCancellation = callback
	}
}

func WithUndoCallback(callback func(status string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onUndo = callback
	}
}

func WithProcessingCallback(callback func(isProcessing bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onProcessingChanged = callback
	}
}
