package orchestration

import (
	"strings"
	"sync"
)

// commandBuffer accumulates finalized command-mode fragment text until the
// pending command is sent or cleared.
type commandBuffer struct {
	mu    sync.Mutex
	parts []string
}

func newCommandBuffer() *commandBuffer {
	return &commandBuffer{}
}

func (b *commandBuffer) Append(fragment string) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return
	}

	b.mu.Lock()
	b.parts = append(b.parts, fragment)
	b.mu.Unlock()
}

// String joins the buffered fragments with single spaces in arrival order.
func (b *commandBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Join(b.parts, " ")
}

// Take returns the joined pending command and clears the buffer in one step.
func (b *commandBuffer) Take() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	pending := strings.Join(b.parts, " ")
	b.parts = nil
	return pending
}

func (b *commandBuffer) Clear() {
	b.mu.Lock()
	b.parts = nil
	b.mu.Unlock()
}
