// Package orchestration coordinates the voice-driven thought canvas: it
// routes live transcript fragments by voice mode, turns pending commands
// into streaming agent turns, dispatches the resulting tool invocations
// sequentially against the workspace, and keeps a bounded undo log of every
// reversible change.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/thoughtcanvas/canvas-core/core/audio"
	"github.com/thoughtcanvas/canvas-core/core/events"
)

// ErrUnknownDictationTarget is returned when a dictation request references a
// thought that does not resolve.
var ErrUnknownDictationTarget = errors.New("dictation target does not resolve to a thought")

// State is a point-in-time snapshot of the observable orchestrator state.
type State struct {
	Listening         bool
	Dictating         bool
	DictationTargetID string
	IsProcessing      bool
	PendingCommand    string
	LastResponse      string
	StreamingText     string
	Err               string
}

// Orchestrator is the façade over the whole voice pipeline. Construct one
// with NewOrchestrator, register callbacks with Orchestrate, then feed it
// audio (StartListening) or text (ProcessTranscript).
type Orchestrator struct {
	workspace Workspace
	windows   WindowEngine

	streamClient    LLMWithStream
	transformClient LLMWithPrompt
	generateList    ListGenerator

	undoLog      *UndoLog
	modes        *voiceModeController
	pending      *commandBuffer
	router       *transcriptRouter
	session      *agentSession
	dispatcher   *toolDispatcher
	speechToText *speechToText
	audioInput   AudioInput

	baseContext context.Context

	emitMu             sync.RWMutex
	emitEvent          eventEmitter
	orchestrateOptions OrchestrateOptions

	stateMu sync.RWMutex
	state   State
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		undoLog:     NewUndoLog(DefaultUndoCapacity),
		modes:       newVoiceModeController(),
		pending:     newCommandBuffer(),
		baseContext: context.Background(),
		emitEvent:   noopEventEmitter,
	}
	o.speechToText = &speechToText{o: o}
	o.session = newAgentSession(o)
	o.dispatcher = newToolDispatcher(o)
	o.router = newTranscriptRouter(o)

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Orchestrate registers the host's callbacks and the base context every turn
// derives from. It does not start listening.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	options := OrchestrateOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	o.emitMu.Lock()
	o.orchestrateOptions = options
	o.emitEvent = newCallbackEventEmitter(options)
	o.emitMu.Unlock()

	if ctx != nil {
		o.baseContext = ctx
	}
}

// StartListening opens the transcription stream and starts audio capture.
// Repeated calls while already listening are no-ops.
func (o *Orchestrator) StartListening() error {
	if o.modes.isListening() {
		return nil
	}

	encodingInfo := audio.GetDefaultEncodingInfo()
	if provider, ok := o.audioInput.(interface{ EncodingInfo() audio.EncodingInfo }); ok {
		encodingInfo = provider.EncodingInfo()
	}

	if o.speechToText.isConfigured() {
		if err := o.speechToText.start(o.baseContext, encodingInfo); err != nil {
			return err
		}
	}

	if o.audioInput != nil {
		err := o.audioInput.StartCapture(o.baseContext, func(chunk []byte) {
			if err := o.speechToText.SendAudio(chunk); err != nil {
				logger.Warn("failed to forward captured audio", "error", err)
			}
		})
		if err != nil {
			o.speechToText.stop()
			return fmt.Errorf("failed to start audio capture: %w", err)
		}
	}

	o.modes.setListening(true)
	o.updateState(func(s *State) { s.Listening = true })
	return nil
}

// StopListening stops audio capture and tears the transcription stream down.
// The speech engine's resulting stop notice is filtered as benign.
func (o *Orchestrator) StopListening() {
	if !o.modes.isListening() {
		return
	}

	o.modes.setListening(false)
	o.updateState(func(s *State) { s.Listening = false })

	if o.audioInput != nil {
		if err := o.audioInput.StopCapture(); err != nil {
			logger.Warn("failed to stop audio capture", "error", err)
		}
	}
	o.speechToText.stop()
}

// ProcessTranscript feeds typed text through the same routing path as a
// finalized spoken fragment, followed by an utterance end. In command mode
// that sends it as an agent turn; in dictation mode it appends to the
// target.
func (o *Orchestrator) ProcessTranscript(text string) {
	o.router.HandleFragment(text, true)
	o.router.FlushPendingCommand()
}

// SendPendingCommand flushes the buffered command as an agent turn without
// waiting for the engine's utterance end.
func (o *Orchestrator) SendPendingCommand() {
	o.router.FlushPendingCommand()
}

func (o *Orchestrator) ClearPendingCommand() {
	o.pending.Clear()
	o.emit(events.NewVoiceCommandBuffered(""))
}

// Cancel requests teardown of the in-flight turn, if any. The turn's
// streaming text is discarded and none of its tool invocations are
// dispatched.
func (o *Orchestrator) Cancel() bool {
	return o.session.cancelActiveTurn()
}

// EnterDictation switches fragment routing into the referenced thought.
func (o *Orchestrator) EnterDictation(ref string) error {
	id, ok := resolveSubject(o.workspace, ref)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDictationTarget, ref)
	}

	o.modes.enterDictation(id)
	o.updateState(func(s *State) {
		s.Dictating = true
		s.DictationTargetID = id
	})
	o.emit(events.NewVoiceModeChanged(true, id))
	return nil
}

// ExitDictation switches back to command routing. A no-op in command mode.
func (o *Orchestrator) ExitDictation() {
	if !o.modes.exitDictation() {
		return
	}

	o.updateState(func(s *State) {
		s.Dictating = false
		s.DictationTargetID = ""
	})
	o.emit(events.NewVoiceModeChanged(false, ""))
}

// PerformUndo applies the most recent undo entry. Calling it with an empty
// log reports "Nothing to undo" and changes nothing.
func (o *Orchestrator) PerformUndo() string {
	return o.dispatcher.PerformUndo()
}

func (o *Orchestrator) CanUndo() bool {
	return o.undoLog.CanUndo()
}

// DeleteThought removes a thought on the host's behalf, recording a deletion
// entry so the full document can be restored by undo. Serialized against
// tool dispatch.
func (o *Orchestrator) DeleteThought(ref string) (string, error) {
	if o.workspace == nil {
		return "", fmt.Errorf("no workspace configured")
	}

	o.dispatcher.mu.Lock()
	defer o.dispatcher.mu.Unlock()

	doc, failure := o.dispatcher.resolveThought(ref)
	if failure != "" {
		return failure, nil
	}

	o.undoLog.Push(DeletionEntry{Document: *doc})
	if windowID, ok := o.windowFor(doc.ID); ok {
		if err := o.windows.CloseWindow(windowID); err != nil {
			logger.Warn("failed to close window", "document_id", idPrefix(doc.ID), "error", err)
		}
	}
	if err := o.workspace.DeleteDocument(doc.ID); err != nil {
		o.undoLog.Pop()
		return "", fmt.Errorf("failed to delete thought: %w", err)
	}

	return fmt.Sprintf("Deleted thought %s", idPrefix(doc.ID)), nil
}

// State returns a snapshot of the observable orchestrator state.
func (o *Orchestrator) State() State {
	o.stateMu.RLock()
	state := o.state
	o.stateMu.RUnlock()

	state.PendingCommand = o.pending.String()
	return state
}

// Close cancels the in-flight turn and releases the audio pipeline.
func (o *Orchestrator) Close() error {
	o.StopListening()
	o.session.cancelActiveTurn()
	return o.speechToText.Close()
}

// sendCommand starts a new agent turn for the utterance. The turn runs on
// its own goroutine so transcript routing never blocks behind a prior
// turn's teardown.
func (o *Orchestrator) sendCommand(utterance string) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return
	}
	go o.processCommand(utterance)
}

func (o *Orchestrator) processCommand(utterance string) {
	turn := o.session.begin(o.baseContext)
	defer o.session.finish(turn)

	ctx, span := tracer.Start(turn.ctx, "process command",
		trace.WithAttributes(
			attribute.String("turn.id", turn.id),
			attribute.String("turn.utterance", utterance),
		),
	)
	defer span.End()

	o.setProcessing(true)
	defer o.setProcessing(false)
	o.updateState(func(s *State) {
		s.StreamingText = ""
		s.Err = ""
	})
	o.emit(events.NewTurnStarted(turn.id, utterance))

	snapshot := renderWorkspaceSnapshot(o.workspace)
	result, err := o.session.streamTurn(turn, utterance, snapshot, func(text string) {
		o.updateState(func(s *State) { s.StreamingText = text })
		o.emit(events.NewAgentResponseSegment(text))
	})
	switch {
	case errors.Is(err, errTurnCancelled):
		o.updateState(func(s *State) { s.StreamingText = "" })
		o.emit(events.NewTurnCancelled(turn.id))
		return
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "turn failed")
		o.updateState(func(s *State) {
			s.StreamingText = ""
			s.Err = err.Error()
		})
		o.emit(events.NewTurnFailed(turn.id, err.Error()))
		return
	}

	o.updateState(func(s *State) {
		s.StreamingText = ""
		s.LastResponse = result.finalText
	})
	o.emit(events.NewAgentResponseFinal(result.finalText))

	o.dispatcher.Dispatch(ctx, result.toolCalls)
	o.emit(events.NewTurnCompleted(turn.id))
}

func (o *Orchestrator) emit(event events.Event) {
	o.emitMu.RLock()
	emitEvent := o.emitEvent
	o.emitMu.RUnlock()

	emitEvent(event)
}

// reportError surfaces an out-of-turn failure, e.g. a speech engine error.
func (o *Orchestrator) reportError(message string) {
	o.updateState(func(s *State) { s.Err = message })

	o.emitMu.RLock()
	onError := o.orchestrateOptions.onError
	o.emitMu.RUnlock()
	if onError != nil {
		onError(message)
	}
}

func (o *Orchestrator) setProcessing(isProcessing bool) {
	o.updateState(func(s *State) { s.IsProcessing = isProcessing })

	o.emitMu.RLock()
	onProcessingChanged := o.orchestrateOptions.onProcessingChanged
	o.emitMu.RUnlock()
	if onProcessingChanged != nil {
		onProcessingChanged(isProcessing)
	}
}

func (o *Orchestrator) updateState(mutate func(s *State)) {
	o.stateMu.Lock()
	mutate(&o.state)
	o.stateMu.Unlock()
}

func (o *Orchestrator) getDocument(id string) (*Document, bool) {
	if o.workspace == nil {
		return nil, false
	}
	return o.workspace.GetDocument(id)
}

func (o *Orchestrator) updateDocument(id string, update DocumentUpdate) error {
	if o.workspace == nil {
		return fmt.Errorf("no workspace configured")
	}
	return o.workspace.UpdateDocument(id, update)
}

func (o *Orchestrator) windowFor(documentID string) (string, bool) {
	if o.windows == nil {
		return "", false
	}
	return o.windows.WindowFor(documentID)
}

func (o *Orchestrator) openWindow(documentID string, placement PlacementHint) {
	if o.windows == nil {
		return
	}
	if _, err := o.windows.CreateWindowFor(documentID, placement); err != nil {
		logger.Warn("failed to open window", "document_id", idPrefix(documentID), "error", err)
	}
}
