package orchestration

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/thoughtcanvas/canvas-core/core/events"
	"github.com/thoughtcanvas/canvas-core/core/llms"
)

// toolDispatcher executes a turn's completed tool invocations strictly
// sequentially, in stream-completion order. The same mutex serializes
// host-initiated undo against in-flight dispatches.
type toolDispatcher struct {
	o *Orchestrator

	mu sync.Mutex
	// ctx is the dispatching turn's context, visible to tool handlers for
	// their secondary model calls. Only valid while Dispatch holds mu.
	ctx context.Context

	tools []llms.Tool
}

func newToolDispatcher(o *Orchestrator) *toolDispatcher {
	d := &toolDispatcher{o: o}
	d.tools = canvasTools(d)
	return d
}

func (d *toolDispatcher) Tools() []llms.Tool {
	return d.tools
}

// Dispatch runs every invocation of one turn. A failed invocation is
// reported and execution moves on to the next one.
func (d *toolDispatcher) Dispatch(ctx context.Context, toolCalls []llms.ToolCall) []llms.ToolCall {
	if len(toolCalls) == 0 {
		return toolCalls
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.ctx = ctx
	defer func() { d.ctx = nil }()

	for i := range toolCalls {
		response, err := d.execute(ctx, toolCalls[i])
		if err != nil {
			toolCalls[i].Response = fmt.Sprintf("failed: %v", err)
			d.o.emit(events.NewToolCallFailed(toolCalls[i].Name, err.Error()))
			continue
		}

		toolCalls[i].Response = response
		d.o.emit(events.NewToolCallCompleted(toolCalls[i].Name, response))
	}
	return toolCalls
}

func (d *toolDispatcher) execute(ctx context.Context, toolCall llms.ToolCall) (response string, err error) {
	_, span := tracer.Start(ctx, fmt.Sprintf("tool call %s", toolCall.Name),
		trace.WithAttributes(
			attribute.String("tool.name", toolCall.Name),
			attribute.String("tool.arguments", toolCall.Arguments),
		),
	)
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "tool execution failed")
		}
	}()

	for _, tool := range d.tools {
		if tool.Function.Name == toolCall.Name {
			return tool.Execute(toolCall.Arguments)
		}
	}
	return "", fmt.Errorf("unknown tool %q", toolCall.Name)
}

// dispatchContext is the context tool handlers run under. Falls back to
// Background for handlers exercised outside a dispatch.
func (d *toolDispatcher) dispatchContext() context.Context {
	if d.ctx != nil {
		return d.ctx
	}
	return context.Background()
}

// PerformUndo applies one undo entry on behalf of the host, e.g. a keyboard
// shortcut. It takes the dispatch mutex so it never interleaves with tool
// execution; the undo tool handler calls performUndo directly instead since
// Dispatch already holds the mutex.
func (d *toolDispatcher) PerformUndo() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.performUndo()
}

func (d *toolDispatcher) performUndo() string {
	status := "Nothing to undo"
	if d.o.workspace != nil {
		if entry, ok := d.o.undoLog.Pop(); ok {
			status = d.applyUndo(entry)
		}
	}

	d.o.emit(events.NewUndoPerformed(status))
	return status
}

func (d *toolDispatcher) applyUndo(entry UndoEntry) string {
	switch entry := entry.(type) {
	case CreationEntry:
		if windowID, ok := d.o.windowFor(entry.DocumentID); ok {
			if err := d.o.windows.CloseWindow(windowID); err != nil {
				logger.Warn("failed to close window during undo", "error", err)
			}
		}
		if err := d.o.workspace.DeleteDocument(entry.DocumentID); err != nil {
			return fmt.Sprintf("Could not undo creating thought %s", idPrefix(entry.DocumentID))
		}
		return fmt.Sprintf("Removed thought %s", idPrefix(entry.DocumentID))

	case MutationEntry:
		content := entry.PriorContent
		tags := entry.PriorTags
		update := DocumentUpdate{Content: &content, Tags: &tags}
		if err := d.o.workspace.UpdateDocument(entry.DocumentID, update); err != nil {
			return fmt.Sprintf("Could not undo changing thought %s", idPrefix(entry.DocumentID))
		}
		return fmt.Sprintf("Restored thought %s", idPrefix(entry.DocumentID))

	case DeletionEntry:
		if err := d.o.workspace.CreateDocument(entry.Document); err != nil {
			return fmt.Sprintf("Could not restore thought %s", idPrefix(entry.Document.ID))
		}
		if d.o.windows != nil {
			if _, err := d.o.windows.CreateWindowFor(entry.Document.ID, ""); err != nil {
				logger.Warn("failed to reopen window during undo", "error", err)
			}
		}
		return fmt.Sprintf("Restored thought %s", idPrefix(entry.Document.ID))
	}

	return "Nothing to undo"
}
