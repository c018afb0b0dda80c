package anthropic

import (
	"github.com/thoughtcanvas/canvas-core/core/llms"
)

type requestBody struct {
	Model      string      `json:"model"`
	MaxTokens  int         `json:"max_tokens"`
	System     string      `json:"system,omitempty"`
	Messages   []message   `json:"messages"`
	Tools      []Tool      `json:"tools,omitempty"`
	ToolChoice *toolChoice `json:"tool_choice,omitempty"`
	Stream     bool        `json:"stream,omitempty"`
}

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

type messageRole string

const (
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
)

// Tool is the wire form of a tool definition.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	InputSchema any    `json:"input_schema"`
}

type inputSchema struct {
	Type       string                        `json:"type"`
	Properties map[string]llms.ParameterBase `json:"properties"`
	Required   []string                      `json:"required,omitempty"`
}

type toolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// toMessages drops system entries (carried in the top-level system field) and
// maps the rest onto wire roles.
func toMessages(instructions string, history []llms.Message) (string, []message) {
	messages := []message{}
	for _, msg := range history {
		switch msg.Role {
		case llms.MessageRoleSystem:
			if instructions == "" {
				instructions = msg.Content
			}
		case llms.MessageRoleUser:
			messages = append(messages, message{Role: messageRoleUser, Content: msg.Content})
		case llms.MessageRoleAssistant:
			if msg.Content == "" {
				// The endpoint rejects empty assistant text blocks.
				continue
			}
			messages = append(messages, message{Role: messageRoleAssistant, Content: msg.Content})
		}
	}
	return instructions, messages
}

func toTools(tools []llms.Tool) []Tool {
	wireTools := make([]Tool, 0, len(tools))
	for _, tool := range tools {
		properties := tool.Function.Parameters
		if properties == nil {
			properties = map[string]llms.ParameterBase{}
		}
		wireTools = append(wireTools, Tool{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			InputSchema: inputSchema{
				Type:       "object",
				Properties: properties,
				Required:   tool.Function.Required,
			},
		})
	}
	return wireTools
}
