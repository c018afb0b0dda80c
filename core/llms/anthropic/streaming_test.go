package anthropic

import (
	"testing"

	"github.com/thoughtcanvas/canvas-core/core/llms"
)

func TestToolUseAccumulatorReassemblesSplitJSON(t *testing.T) {
	acc := toolUseAccumulator{id: "call-1", name: "create_thought"}

	acc.appendJSON(`{"content":`)
	acc.appendJSON(`"buy milk"}`)

	toolCall, ok := acc.close()
	if !ok {
		t.Fatalf("expected the split buffer to parse")
	}
	if toolCall.ID != "call-1" || toolCall.Name != "create_thought" {
		t.Fatalf("unexpected tool call identity %#v", toolCall)
	}
	if toolCall.Arguments != `{"content":"buy milk"}` {
		t.Fatalf("unexpected arguments %q", toolCall.Arguments)
	}
}

func TestToolUseAccumulatorDropsMalformedArguments(t *testing.T) {
	acc := toolUseAccumulator{id: "call-1", name: "create_thought"}
	acc.appendJSON(`{"content": "unterminated`)

	if toolCall, ok := acc.close(); ok {
		t.Fatalf("expected malformed arguments to be dropped, got %#v", toolCall)
	}
}

func TestToolUseAccumulatorTreatsEmptyBufferAsNoArguments(t *testing.T) {
	acc := toolUseAccumulator{id: "call-1", name: "undo"}

	toolCall, ok := acc.close()
	if !ok {
		t.Fatalf("expected an empty buffer to close cleanly")
	}
	if toolCall.Arguments != "{}" {
		t.Fatalf("expected empty arguments object, got %q", toolCall.Arguments)
	}
}

func TestToMessagesSkipsEmptyAssistantEntries(t *testing.T) {
	system, messages := toMessages("be brief", []llms.Message{
		{Role: llms.MessageRoleUser, Content: "hi"},
		{Role: llms.MessageRoleAssistant, Content: ""},
		{Role: llms.MessageRoleAssistant, Content: "hello"},
	})

	if system != "be brief" {
		t.Fatalf("unexpected system prompt %q", system)
	}
	if len(messages) != 2 || messages[0].Content != "hi" || messages[1].Content != "hello" {
		t.Fatalf("unexpected messages %v", messages)
	}
}

func TestToToolsMapsSchema(t *testing.T) {
	tool := llms.NewTool(
		"move_window",
		"Move a window.",
		map[string]llms.ParameterBase{
			"thought":  {Type: "string"},
			"position": {Type: "string", Optional: true},
		},
		func(struct{}) (string, error) { return "", nil },
	)

	wireTools := toTools([]llms.Tool{tool})
	if len(wireTools) != 1 {
		t.Fatalf("expected one wire tool, got %d", len(wireTools))
	}

	schema, ok := wireTools[0].InputSchema.(inputSchema)
	if !ok {
		t.Fatalf("unexpected schema type %T", wireTools[0].InputSchema)
	}
	if schema.Type != "object" || len(schema.Properties) != 2 {
		t.Fatalf("unexpected schema %#v", schema)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "thought" {
		t.Fatalf("expected only the non-optional parameter to be required, got %v", schema.Required)
	}
}
