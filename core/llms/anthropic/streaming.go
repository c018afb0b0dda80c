package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/thoughtcanvas/canvas-core/core/llms"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// PromptWithStream prepares a single streaming completion request. The
// request is not opened until the returned stream is iterated.
func (c *Client) PromptWithStream(_ context.Context, prompt *string, opts ...llms.PromptOption) llms.Stream {
	options := llms.PromptOptions{MaxTokens: c.maxTokens}
	for _, opt := range opts {
		opt(&options)
	}

	system, messages := toMessages(options.Instructions, options.Messages)
	if prompt != nil {
		messages = append(messages, message{
			Role:    messageRoleUser,
			Content: *prompt,
		})
	}

	var tools []Tool
	if options.Tools != nil {
		tools = toTools(options.Tools)
	}

	return &Stream{
		apiKey:    c.apiKey,
		model:     c.model,
		maxTokens: options.MaxTokens,
		system:    system,
		tools:     tools,
		messages:  messages,
	}
}

type Stream struct {
	apiKey string

	model     string
	maxTokens int
	system    string
	tools     []Tool
	messages  []message
}

// streamingFrame is a single decoded data frame. Only the fields the decoder
// acts on are mapped; unknown frame types pass through untouched.
type streamingFrame struct {
	Type  string `json:"type"`
	Index int    `json:"index"`

	ContentBlock struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"content_block"`

	Delta struct {
		Type        string  `json:"type"`
		Text        string  `json:"text"`
		PartialJSON string  `json:"partial_json"`
		StopReason  *string `json:"stop_reason"`
	} `json:"delta"`
}

const (
	frameContentBlockStart = "content_block_start"
	frameContentBlockDelta = "content_block_delta"
	frameContentBlockStop  = "content_block_stop"
	frameMessageDelta      = "message_delta"

	deltaTypeText      = "text_delta"
	deltaTypeInputJSON = "input_json_delta"

	contentBlockTypeToolUse = "tool_use"
)

// toolUseAccumulator buffers the streamed argument fragments of one open
// tool-use block until the block closes.
type toolUseAccumulator struct {
	id        string
	name      string
	arguments strings.Builder
}

func (a *toolUseAccumulator) appendJSON(fragment string) {
	a.arguments.WriteString(fragment)
}

// close validates the buffered argument text. A block whose buffer does not
// parse as a JSON object yields no tool call.
func (a *toolUseAccumulator) close() (*llms.ToolCall, bool) {
	arguments := a.arguments.String()
	if arguments == "" {
		arguments = "{}"
	}

	var probe map[string]any
	if err := json.Unmarshal([]byte(arguments), &probe); err != nil {
		return nil, false
	}

	return &llms.ToolCall{
		ID:        a.id,
		Name:      a.name,
		Arguments: arguments,
	}, true
}

func (s *Stream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		ctx, span := tracer.Start(ctx, "prompt llm stream")
		defer span.End()
		span.SetAttributes(attribute.String("request.model", s.model))
		var toolNames []string
		for _, tool := range s.tools {
			toolNames = append(toolNames, tool.Name)
		}
		span.SetAttributes(attribute.StringSlice("request.available_tools", toolNames))

		reqBody := requestBody{
			Model:     s.model,
			MaxTokens: s.maxTokens,
			System:    s.system,
			Messages:  s.messages,
			Tools:     s.tools,
			Stream:    true,
		}

		requestBodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			err = fmt.Errorf("error marshalling JSON: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBodyBytes))
		if err != nil {
			err = fmt.Errorf("error creating HTTP request: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", s.apiKey)
		req.Header.Set("anthropic-version", apiVersion)

		span.SetAttributes(attribute.String("request.url", req.URL.String()))
		client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)}
		resp, err := client.Do(req)
		if err != nil {
			err = fmt.Errorf("error sending request: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
		if resp.StatusCode != http.StatusOK {
			if errorBody, err := io.ReadAll(resp.Body); err == nil {
				span.SetAttributes(attribute.String("response.error", string(errorBody)))
			}

			err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		var stopReason *string
		var openBlock *toolUseAccumulator
		completedToolCalls := []string{}
		defer func() {
			span.SetAttributes(attribute.StringSlice("response.tool_calls", completedToolCalls))
		}()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, chunkPrefix) {
				// Event-name and keep-alive lines carry no payload.
				continue
			}
			chunk := strings.TrimSpace(strings.TrimPrefix(line, chunkPrefix))

			if len(chunk) == 0 {
				continue
			}

			if chunk == endMessage {
				break
			}

			var frame streamingFrame
			if err := json.Unmarshal([]byte(chunk), &frame); err != nil {
				err = fmt.Errorf("error unmarshalling JSON: %w", err)
				span.RecordError(err)
				if !yield(nil, err) {
					return
				}
				continue
			}

			switch frame.Type {
			case frameContentBlockStart:
				if frame.ContentBlock.Type == contentBlockTypeToolUse {
					openBlock = &toolUseAccumulator{
						id:   frame.ContentBlock.ID,
						name: frame.ContentBlock.Name,
					}
				}

			case frameContentBlockDelta:
				switch frame.Delta.Type {
				case deltaTypeText:
					if !yield(StreamContentChunk{
						stopReason: stopReason,
						content:    frame.Delta.Text,
					}, nil) {
						return
					}

				case deltaTypeInputJSON:
					if openBlock != nil {
						openBlock.appendJSON(frame.Delta.PartialJSON)
					}
				}

			case frameContentBlockStop:
				if openBlock == nil {
					continue
				}
				toolCall, ok := openBlock.close()
				openBlock = nil
				if !ok {
					// Malformed argument buffers are dropped without
					// surfacing an error.
					span.AddEvent("dropped tool-use block with unparsable arguments")
					continue
				}

				completedToolCalls = append(completedToolCalls, toolCall.Name)
				if !yield(StreamToolCallChunk{
					stopReason: stopReason,
					toolCall:   *toolCall,
				}, nil) {
					return
				}

			case frameMessageDelta:
				if frame.Delta.StopReason != nil {
					stopReason = frame.Delta.StopReason
				}
			}
		}

		if err := scanner.Err(); err != nil {
			if ctx.Err() != nil {
				// Cancellation is observed by the caller through its own
				// context, not as a stream error.
				return
			}
			err = fmt.Errorf("error reading stream: %w", err)
			span.RecordError(err)
			yield(nil, err)
		}
	}
}

type StreamContentChunk struct {
	stopReason *string
	content    string
}

func (s StreamContentChunk) StopReason() *string {
	return s.stopReason
}

func (s StreamContentChunk) Content() string {
	return s.content
}

type StreamToolCallChunk struct {
	stopReason *string
	toolCall   llms.ToolCall
}

func (s StreamToolCallChunk) StopReason() *string {
	return s.stopReason
}

func (s StreamToolCallChunk) ToolCall() llms.ToolCall {
	return s.toolCall
}
