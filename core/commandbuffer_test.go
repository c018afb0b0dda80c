package orchestration

import "testing"

func TestCommandBufferJoinsFragmentsInOrder(t *testing.T) {
	buffer := newCommandBuffer()

	buffer.Append("create a note")
	buffer.Append("  about groceries  ")
	buffer.Append("")
	buffer.Append("   ")

	if got := buffer.String(); got != "create a note about groceries" {
		t.Fatalf("unexpected pending command %q", got)
	}
}

func TestCommandBufferTakeClears(t *testing.T) {
	buffer := newCommandBuffer()

	buffer.Append("move it")
	buffer.Append("to the left")

	if got := buffer.Take(); got != "move it to the left" {
		t.Fatalf("unexpected taken command %q", got)
	}
	if got := buffer.Take(); got != "" {
		t.Fatalf("expected an empty buffer after take, got %q", got)
	}
}

func TestCommandBufferClear(t *testing.T) {
	buffer := newCommandBuffer()

	buffer.Append("discard this")
	buffer.Clear()

	if got := buffer.String(); got != "" {
		t.Fatalf("expected an empty buffer after clear, got %q", got)
	}
}
