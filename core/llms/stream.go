package llms

import "context"

// Stream is a lazily evaluated response stream. Chunks opens the underlying
// request when iterated and pushes decoded chunks until the stream terminates
// or the iterator is stopped.
type Stream interface {
	Chunks(context.Context) func(func(StreamChunk, error) bool)
}

type StreamChunk interface {
	StopReason() *string
}

// StreamContentChunk carries a visible text delta.
type StreamContentChunk interface {
	StreamChunk
	Content() string
}

// StreamToolCallChunk carries one completed tool call. Implementations only
// emit it once the enclosing block has closed and its buffered argument text
// parsed successfully.
type StreamToolCallChunk interface {
	StreamChunk
	ToolCall() ToolCall
}
