package llms

// Response is a single response from an LLM.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Message is a single message in a conversation.
type Message struct {
	Role    MessageRole
	Content string
}

// ToolCall is a structured, named action the model requested, together with
// its raw argument text as it arrived on the wire.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
	Response  string
}

// MessageRole describes who the message is from.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)
