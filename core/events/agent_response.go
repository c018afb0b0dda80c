package events

const (
	// KindAgentResponseSegment identifies streamed agent response text.
	KindAgentResponseSegment Kind = "agent_response.segment"
	// KindAgentResponseFinal identifies agent response stream completion.
	KindAgentResponseFinal Kind = "agent_response.final"
)

// AgentResponseSegment carries the visible response text accumulated so far.
// Text is a monotonically growing prefix, never a replacement.
type AgentResponseSegment struct {
	Base
	Text string
}

// NewAgentResponseSegment creates an agent response segment event.
func NewAgentResponseSegment(text string) AgentResponseSegment {
	return AgentResponseSegment{Base: NewBase(KindAgentResponseSegment), Text: text}
}

// AgentResponseFinal marks agent response stream completion.
type AgentResponseFinal struct {
	Base
	Text string
}

// NewAgentResponseFinal creates an agent response final event.
func NewAgentResponseFinal(text string) AgentResponseFinal {
	return AgentResponseFinal{Base: NewBase(KindAgentResponseFinal), Text: text}
}
