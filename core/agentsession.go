package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/thoughtcanvas/canvas-core/core/llms"
)

// DefaultHistoryWindow bounds the conversation history carried into each
// turn, counted in messages.
const DefaultHistoryWindow = 20

// errTurnCancelled marks a turn torn down by a newer utterance or an explicit
// cancel; it is never surfaced as a failure.
var errTurnCancelled = errors.New("turn cancelled")

// agentTurn is one streaming request lifecycle. done closes only after the
// turn has fully torn down, including tool dispatch, so a successor turn can
// await it before starting.
type agentTurn struct {
	id        string
	ctx       context.Context
	cancel    context.CancelFunc
	cancelled atomic.Bool
	done      chan struct{}
}

func (t *agentTurn) Cancel() {
	t.cancelled.Store(true)
	t.cancel()
}

// turnResult is the outcome of one completed (uncancelled) stream.
type turnResult struct {
	finalText string
	toolCalls []llms.ToolCall
}

// agentSession owns the conversation history and the single active turn.
// Starting a new turn cancels the previous one and awaits its teardown, so
// at most one stream is ever live and dispatches never interleave.
type agentSession struct {
	o *Orchestrator

	mu         sync.Mutex
	startMu    sync.Mutex
	activeTurn *agentTurn

	historyMu     sync.Mutex
	history       []llms.Message
	historyWindow int
}

func newAgentSession(o *Orchestrator) *agentSession {
	return &agentSession{o: o, historyWindow: DefaultHistoryWindow}
}

// begin cancels and awaits any prior turn, then registers a fresh one.
// Serialized so two rapid utterances cannot both believe they replaced the
// same predecessor.
func (s *agentSession) begin(ctx context.Context) *agentTurn {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.mu.Lock()
	prior := s.activeTurn
	s.mu.Unlock()
	if prior != nil {
		prior.Cancel()
		<-prior.done
	}

	turnCtx, cancel := context.WithCancel(ctx)
	turn := &agentTurn{
		id:     uuid.NewString(),
		ctx:    turnCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.activeTurn = turn
	s.mu.Unlock()
	return turn
}

// finish releases the turn's token. Must be called exactly once per begun
// turn, after all of its work (including dispatch) is over.
func (s *agentSession) finish(turn *agentTurn) {
	s.mu.Lock()
	if s.activeTurn == turn {
		s.activeTurn = nil
	}
	s.mu.Unlock()

	turn.cancel()
	close(turn.done)
}

// cancelActiveTurn requests teardown of the in-flight turn, if any. It does
// not wait for teardown to complete.
func (s *agentSession) cancelActiveTurn() bool {
	s.mu.Lock()
	turn := s.activeTurn
	s.mu.Unlock()

	if turn == nil {
		return false
	}
	turn.Cancel()
	return true
}

// streamTurn opens one streaming completion request and decodes it to the
// end. onText receives the monotonically growing visible text after every
// content chunk. Tool calls are collected in stream-completion order and
// returned for dispatch; they are never executed here.
func (s *agentSession) streamTurn(turn *agentTurn, utterance, workspaceSnapshot string, onText func(text string)) (*turnResult, error) {
	ctx, span := tracer.Start(turn.ctx, "agent session stream",
		trace.WithAttributes(attribute.String("turn.id", turn.id)),
	)
	defer span.End()

	client := s.o.streamClient
	if client == nil {
		err := errors.New("no completion client configured")
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing completion client")
		return nil, err
	}

	stream := client.PromptWithStream(ctx, &utterance,
		llms.WithSystemPrompt(agentSystemPrompt(workspaceSnapshot)),
		llms.WithMessages(s.History()...),
		llms.WithTools(s.o.dispatcher.Tools()...),
	)

	visible := strings.Builder{}
	toolCalls := []llms.ToolCall{}
	for chunk, err := range stream.Chunks(ctx) {
		if turn.cancelled.Load() {
			return nil, errTurnCancelled
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, errTurnCancelled
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to stream completion")
			return nil, fmt.Errorf("failed to stream completion: %w", err)
		}

		switch chunk := chunk.(type) {
		case llms.StreamContentChunk:
			visible.WriteString(chunk.Content())
			if onText != nil {
				onText(visible.String())
			}
		case llms.StreamToolCallChunk:
			toolCalls = append(toolCalls, chunk.ToolCall())
		}
	}

	if turn.cancelled.Load() {
		return nil, errTurnCancelled
	}

	finalText := visible.String()
	span.SetAttributes(attribute.Int("turn.tool_calls", len(toolCalls)))
	s.recordExchange(utterance, finalText)
	return &turnResult{finalText: finalText, toolCalls: toolCalls}, nil
}

// recordExchange appends the user/assistant pair and trims the history to
// the configured window. Cancelled turns never reach this point, so aborted
// exchanges leave no trace in history.
func (s *agentSession) recordExchange(utterance, response string) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append(s.history,
		llms.Message{Role: llms.MessageRoleUser, Content: utterance},
		llms.Message{Role: llms.MessageRoleAssistant, Content: response},
	)
	if len(s.history) > s.historyWindow {
		overflow := len(s.history) - s.historyWindow
		s.history = append(s.history[:0], s.history[overflow:]...)
	}
}

// History returns a defensive copy of the conversation history.
func (s *agentSession) History() []llms.Message {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	messages := []llms.Message{}
	if err := copier.Copy(&messages, &s.history); err != nil {
		logger.Warn("failed to copy conversation history", "error", err)
		return nil
	}
	return messages
}

func (s *agentSession) ClearHistory() {
	s.historyMu.Lock()
	s.history = nil
	s.historyMu.Unlock()
}

func (s *agentSession) setHistoryWindow(window int) {
	if window <= 0 {
		return
	}
	s.historyMu.Lock()
	s.historyWindow = window
	s.historyMu.Unlock()
}
