package orchestration_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	orchestration "github.com/thoughtcanvas/canvas-core/core"
	"github.com/thoughtcanvas/canvas-core/core/llms"
	"github.com/thoughtcanvas/canvas-core/core/speechtotext"
	"github.com/thoughtcanvas/canvas-core/core/workspaces/memory"
)

type contentChunk string

func (contentChunk) StopReason() *string { return nil }

func (c contentChunk) Content() string { return string(c) }

type toolChunk struct{ call llms.ToolCall }

func (toolChunk) StopReason() *string { return nil }

func (c toolChunk) ToolCall() llms.ToolCall { return c.call }

// scriptedStream replays its chunks; with holdOpen it then blocks until the
// turn context is cancelled, like a connection that never finishes.
type scriptedStream struct {
	chunks   []llms.StreamChunk
	holdOpen bool
}

func (s *scriptedStream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		for _, chunk := range s.chunks {
			if !yield(chunk, nil) {
				return
			}
		}
		if s.holdOpen {
			<-ctx.Done()
			yield(nil, ctx.Err())
		}
	}
}

// scriptedClient hands out one scripted stream per streaming call, in order.
type scriptedClient struct {
	mu      sync.Mutex
	streams []*scriptedStream
	calls   int

	transform string
}

func (c *scriptedClient) PromptWithStream(_ context.Context, _ *string, _ ...llms.PromptOption) llms.Stream {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.calls <= len(c.streams) {
		return c.streams[c.calls-1]
	}
	return &scriptedStream{}
}

func (c *scriptedClient) Prompt(_ context.Context, _ string, _ ...llms.PromptOption) (*llms.Response, error) {
	return &llms.Response{Content: c.transform}, nil
}

func await(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func TestTypedCommandStreamsMonotonicText(t *testing.T) {
	client := &scriptedClient{streams: []*scriptedStream{
		{chunks: []llms.StreamChunk{contentChunk("Hel"), contentChunk("lo")}},
	}}
	o := orchestration.NewOrchestrator(
		orchestration.WithCompletionClient(client),
		orchestration.WithWorkspace(memory.NewWorkspace()),
	)
	defer o.Close()

	streamedMu := sync.Mutex{}
	streamed := []string{}
	completed := make(chan struct{}, 1)

	o.Orchestrate(context.Background(),
		orchestration.WithStreamingTextCallback(func(text string) {
			streamedMu.Lock()
			streamed = append(streamed, text)
			streamedMu.Unlock()
		}),
		orchestration.WithTurnCompletedCallback(func() { signal(completed) }),
	)

	o.ProcessTranscript("say hello")
	await(t, completed, "turn completion")

	streamedMu.Lock()
	defer streamedMu.Unlock()
	if len(streamed) != 2 || streamed[0] != "Hel" || streamed[1] != "Hello" {
		t.Fatalf("expected growing prefixes [Hel Hello], got %v", streamed)
	}
	if got := o.State().LastResponse; got != "Hello" {
		t.Fatalf("expected last response %q, got %q", "Hello", got)
	}
}

func TestToolInvocationCreatesAndUndoRemoves(t *testing.T) {
	workspace := memory.NewWorkspace()
	client := &scriptedClient{streams: []*scriptedStream{
		{chunks: []llms.StreamChunk{
			contentChunk("Creating it now."),
			toolChunk{call: llms.ToolCall{
				ID:        "call-1",
				Name:      "create_thought",
				Arguments: `{"content":"buy milk","type":"note"}`,
			}},
		}},
	}}
	o := orchestration.NewOrchestrator(
		orchestration.WithCompletionClient(client),
		orchestration.WithWorkspace(workspace),
		orchestration.WithWindowEngine(memory.NewWindowEngine()),
	)
	defer o.Close()

	completed := make(chan struct{}, 1)
	o.Orchestrate(context.Background(),
		orchestration.WithTurnCompletedCallback(func() { signal(completed) }),
	)

	o.ProcessTranscript("note to buy milk")
	await(t, completed, "turn completion")

	docs := workspace.ListDocuments()
	if len(docs) != 1 || docs[0].Content != "buy milk" || docs[0].Type != "note" {
		t.Fatalf("expected one note with content 'buy milk', got %v", docs)
	}
	if !o.CanUndo() {
		t.Fatalf("expected an undo entry after the creation")
	}

	o.PerformUndo()
	if got := len(workspace.ListDocuments()); got != 0 {
		t.Fatalf("expected undo to remove the thought, %d documents remain", got)
	}
	if o.CanUndo() {
		t.Fatalf("expected an empty undo log")
	}
	if status := o.PerformUndo(); status != "Nothing to undo" {
		t.Fatalf("expected empty-log undo to be a no-op, got %q", status)
	}
}

func TestToolInvocationsDispatchInStreamOrder(t *testing.T) {
	workspace := memory.NewWorkspace()
	client := &scriptedClient{streams: []*scriptedStream{
		{chunks: []llms.StreamChunk{
			toolChunk{call: llms.ToolCall{ID: "call-1", Name: "create_thought", Arguments: `{"content":"first"}`}},
			toolChunk{call: llms.ToolCall{ID: "call-2", Name: "create_thought", Arguments: `{"content":"second"}`}},
		}},
	}}
	o := orchestration.NewOrchestrator(
		orchestration.WithCompletionClient(client),
		orchestration.WithWorkspace(workspace),
	)
	defer o.Close()

	completed := make(chan struct{}, 1)
	o.Orchestrate(context.Background(),
		orchestration.WithTurnCompletedCallback(func() { signal(completed) }),
	)

	o.ProcessTranscript("two notes")
	await(t, completed, "turn completion")

	docs := workspace.ListDocuments()
	if len(docs) != 2 || docs[0].Content != "first" || docs[1].Content != "second" {
		t.Fatalf("expected [first second] in creation order, got %v", docs)
	}
}

func TestCancelledTurnDispatchesNothing(t *testing.T) {
	workspace := memory.NewWorkspace()
	client := &scriptedClient{streams: []*scriptedStream{
		{
			chunks: []llms.StreamChunk{
				contentChunk("Working on it"),
				toolChunk{call: llms.ToolCall{ID: "call-1", Name: "create_thought", Arguments: `{"content":"never"}`}},
			},
			holdOpen: true,
		},
	}}
	o := orchestration.NewOrchestrator(
		orchestration.WithCompletionClient(client),
		orchestration.WithWorkspace(workspace),
	)
	defer o.Close()

	streaming := make(chan struct{}, 1)
	cancelled := make(chan struct{}, 1)
	failures := atomic.Int32{}

	o.Orchestrate(context.Background(),
		orchestration.WithStreamingTextCallback(func(string) { signal(streaming) }),
		orchestration.WithCancellationCallback(func() { signal(cancelled) }),
		orchestration.WithErrorCallback(func(string) { failures.Add(1) }),
	)

	o.ProcessTranscript("make a thought")
	await(t, streaming, "streaming text")

	if !o.Cancel() {
		t.Fatalf("expected an active turn to cancel")
	}
	await(t, cancelled, "cancellation")

	time.Sleep(50 * time.Millisecond)
	if got := len(workspace.ListDocuments()); got != 0 {
		t.Fatalf("expected no tool dispatch after cancel, got %d documents", got)
	}
	if got := o.State().StreamingText; got != "" {
		t.Fatalf("expected streaming text to be cleared, got %q", got)
	}
	if got := failures.Load(); got != 0 {
		t.Fatalf("expected cancellation not to surface as an error, got %d errors", got)
	}
}

func TestNewUtteranceCancelsActiveTurn(t *testing.T) {
	client := &scriptedClient{streams: []*scriptedStream{
		{chunks: []llms.StreamChunk{contentChunk("first response")}, holdOpen: true},
		{chunks: []llms.StreamChunk{contentChunk("second response")}},
	}}
	o := orchestration.NewOrchestrator(
		orchestration.WithCompletionClient(client),
		orchestration.WithWorkspace(memory.NewWorkspace()),
	)
	defer o.Close()

	firstStreaming := make(chan struct{}, 1)
	cancellations := atomic.Int32{}
	completed := make(chan struct{}, 1)

	o.Orchestrate(context.Background(),
		orchestration.WithStreamingTextCallback(func(text string) {
			if text == "first response" {
				signal(firstStreaming)
			}
		}),
		orchestration.WithCancellationCallback(func() { cancellations.Add(1) }),
		orchestration.WithTurnCompletedCallback(func() { signal(completed) }),
	)

	o.ProcessTranscript("first command")
	await(t, firstStreaming, "first turn streaming")

	o.ProcessTranscript("second command")
	await(t, completed, "second turn completion")

	time.Sleep(50 * time.Millisecond)
	if got := o.State().LastResponse; got != "second response" {
		t.Fatalf("expected the newer turn's response, got %q", got)
	}
	if got := cancellations.Load(); got != 1 {
		t.Fatalf("expected exactly one cancellation, got %d", got)
	}
}

func TestDictationAppendsPunctuatedText(t *testing.T) {
	workspace := memory.NewWorkspace()
	if err := workspace.CreateDocument(orchestration.Document{ID: "doc-1", Content: "Hello world", Type: "note"}); err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	o := orchestration.NewOrchestrator(orchestration.WithWorkspace(workspace))
	defer o.Close()
	o.Orchestrate(context.Background())

	if err := o.EnterDictation("doc-1"); err != nil {
		t.Fatalf("failed to enter dictation: %v", err)
	}

	o.ProcessTranscript("new line next point comma")

	doc, ok := workspace.GetDocument("doc-1")
	if !ok {
		t.Fatalf("document disappeared")
	}
	if want := "Hello world \nnext point,"; doc.Content != want {
		t.Fatalf("expected content %q, got %q", want, doc.Content)
	}
	if !o.State().Dictating {
		t.Fatalf("expected dictation mode to persist across fragments")
	}
}

func TestDictationTargetMustResolve(t *testing.T) {
	o := orchestration.NewOrchestrator(orchestration.WithWorkspace(memory.NewWorkspace()))
	defer o.Close()

	if err := o.EnterDictation("nope"); err == nil {
		t.Fatalf("expected an error for an unresolvable dictation target")
	}
	if o.State().Dictating {
		t.Fatalf("expected to stay in command mode")
	}
}

func TestDictationExitPhraseSwitchesMode(t *testing.T) {
	workspace := memory.NewWorkspace()
	if err := workspace.CreateDocument(orchestration.Document{ID: "doc-1", Content: "untouched", Type: "note"}); err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	o := orchestration.NewOrchestrator(orchestration.WithWorkspace(workspace))
	defer o.Close()

	modeChanges := make(chan struct{}, 2)
	o.Orchestrate(context.Background(),
		orchestration.WithModeChangedCallback(func(bool, string) { signal(modeChanges) }),
	)

	if err := o.EnterDictation("doc-1"); err != nil {
		t.Fatalf("failed to enter dictation: %v", err)
	}
	await(t, modeChanges, "dictation mode change")

	o.ProcessTranscript("okay stop dictation")
	await(t, modeChanges, "command mode change")

	if o.State().Dictating {
		t.Fatalf("expected command mode after the exit phrase")
	}
	doc, _ := workspace.GetDocument("doc-1")
	if doc.Content != "untouched" {
		t.Fatalf("expected the exit phrase not to be appended, got %q", doc.Content)
	}
}

// stubSpeechEngine records the transcription options so tests can drive the
// engine callbacks directly.
type stubSpeechEngine struct {
	mu      sync.Mutex
	options speechtotext.TranscriptionOptions
}

func (s *stubSpeechEngine) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.mu.Lock()
	s.options = options
	s.mu.Unlock()
	return nil
}

func (s *stubSpeechEngine) SendAudio([]byte) error { return nil }

func (s *stubSpeechEngine) captured() speechtotext.TranscriptionOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

func TestBenignEngineStopNoticeIsFiltered(t *testing.T) {
	engine := &stubSpeechEngine{}
	o := orchestration.NewOrchestrator(
		orchestration.WithWorkspace(memory.NewWorkspace()),
		orchestration.WithSpeechEngine(engine),
	)
	defer o.Close()

	errorsSeen := make(chan string, 2)
	o.Orchestrate(context.Background(),
		orchestration.WithErrorCallback(func(message string) { errorsSeen <- message }),
	)

	if err := o.StartListening(); err != nil {
		t.Fatalf("failed to start listening: %v", err)
	}

	engine.captured().ErrorCallback("transcription stopped: websocket: close 1000")
	engine.captured().ErrorCallback("connection refused")

	select {
	case message := <-errorsSeen:
		if message != "connection refused" {
			t.Fatalf("expected only the real error to surface, got %q", message)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the real engine error")
	}

	select {
	case message := <-errorsSeen:
		t.Fatalf("unexpected extra error callback %q", message)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngineFragmentsBufferUntilUtteranceEnd(t *testing.T) {
	engine := &stubSpeechEngine{}
	client := &scriptedClient{streams: []*scriptedStream{
		{chunks: []llms.StreamChunk{contentChunk("done")}},
	}}
	o := orchestration.NewOrchestrator(
		orchestration.WithCompletionClient(client),
		orchestration.WithWorkspace(memory.NewWorkspace()),
		orchestration.WithSpeechEngine(engine),
	)
	defer o.Close()

	pendingMu := sync.Mutex{}
	pending := []string{}
	completed := make(chan struct{}, 1)

	o.Orchestrate(context.Background(),
		orchestration.WithPendingCommandCallback(func(p string) {
			pendingMu.Lock()
			pending = append(pending, p)
			pendingMu.Unlock()
		}),
		orchestration.WithTurnCompletedCallback(func() { signal(completed) }),
	)

	if err := o.StartListening(); err != nil {
		t.Fatalf("failed to start listening: %v", err)
	}

	options := engine.captured()
	options.FragmentCallback("create a", false)
	options.FragmentCallback("create a note", true)
	options.FragmentCallback("about groceries", true)
	options.UtteranceEndCallback()

	await(t, completed, "turn completion")

	pendingMu.Lock()
	defer pendingMu.Unlock()
	if len(pending) != 2 || pending[0] != "create a note" || pending[1] != "create a note about groceries" {
		t.Fatalf("expected finalized fragments only, got %v", pending)
	}
	if got := o.State().PendingCommand; got != "" {
		t.Fatalf("expected the pending buffer to be drained, got %q", got)
	}
}

func TestUpdateUndoRestoresContentAndTags(t *testing.T) {
	workspace := memory.NewWorkspace()
	if err := workspace.CreateDocument(orchestration.Document{
		ID:      "doc-1",
		Content: "old content",
		Type:    "note",
		Tags:    []string{"keep"},
	}); err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	client := &scriptedClient{streams: []*scriptedStream{
		{chunks: []llms.StreamChunk{
			toolChunk{call: llms.ToolCall{ID: "call-1", Name: "update_thought", Arguments: `{"thought_id":"doc-1","content":"new content"}`}},
		}},
	}}
	o := orchestration.NewOrchestrator(
		orchestration.WithCompletionClient(client),
		orchestration.WithWorkspace(workspace),
	)
	defer o.Close()

	completed := make(chan struct{}, 1)
	o.Orchestrate(context.Background(),
		orchestration.WithTurnCompletedCallback(func() { signal(completed) }),
	)

	o.ProcessTranscript("rewrite it")
	await(t, completed, "turn completion")

	doc, _ := workspace.GetDocument("doc-1")
	if doc.Content != "new content" {
		t.Fatalf("expected updated content, got %q", doc.Content)
	}

	o.PerformUndo()
	doc, _ = workspace.GetDocument("doc-1")
	if doc.Content != "old content" || len(doc.Tags) != 1 || doc.Tags[0] != "keep" {
		t.Fatalf("expected prior content and tags restored, got %q %v", doc.Content, doc.Tags)
	}
}

func TestDeleteThoughtIsUndoable(t *testing.T) {
	workspace := memory.NewWorkspace()
	if err := workspace.CreateDocument(orchestration.Document{ID: "doc-1", Content: "precious", Type: "note"}); err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	o := orchestration.NewOrchestrator(
		orchestration.WithWorkspace(workspace),
		orchestration.WithWindowEngine(memory.NewWindowEngine()),
	)
	defer o.Close()

	if _, err := o.DeleteThought("doc-1"); err != nil {
		t.Fatalf("failed to delete thought: %v", err)
	}
	if got := len(workspace.ListDocuments()); got != 0 {
		t.Fatalf("expected the thought to be gone, %d remain", got)
	}

	o.PerformUndo()
	doc, ok := workspace.GetDocument("doc-1")
	if !ok || doc.Content != "precious" {
		t.Fatalf("expected undo to restore the full document, got %v", doc)
	}
}
