package events

const (
	// KindToolCallCompleted identifies successful tool execution.
	KindToolCallCompleted Kind = "tool_call.completed"
	// KindToolCallFailed identifies failed tool execution.
	KindToolCallFailed Kind = "tool_call.failed"
)

// ToolCallCompleted marks successful tool execution.
type ToolCallCompleted struct {
	Base
	Name   string
	Result string
}

// NewToolCallCompleted creates a tool call completed event.
func NewToolCallCompleted(name, result string) ToolCallCompleted {
	return ToolCallCompleted{Base: NewBase(KindToolCallCompleted), Name: name, Result: result}
}

// ToolCallFailed marks failed tool execution.
type ToolCallFailed struct {
	Base
	Name  string
	Error string
}

// NewToolCallFailed creates a tool call failed event.
func NewToolCallFailed(name, err string) ToolCallFailed {
	return ToolCallFailed{Base: NewBase(KindToolCallFailed), Name: name, Error: err}
}
