package orchestration

import "sync"

// DefaultUndoCapacity bounds the undo log unless overridden.
const DefaultUndoCapacity = 50

// UndoEntry is one reversible operation. Entries are pushed with
// pre-mutation values before the corresponding change is applied.
type UndoEntry interface {
	isUndoEntry()
}

// CreationEntry reverses a document creation.
type CreationEntry struct {
	DocumentID string
}

// MutationEntry reverses a content/tags mutation using the pre-mutation
// values.
type MutationEntry struct {
	DocumentID   string
	PriorContent string
	PriorTags    []string
}

// DeletionEntry reverses a document deletion using the full prior snapshot.
type DeletionEntry struct {
	Document Document
}

func (CreationEntry) isUndoEntry() {}
func (MutationEntry) isUndoEntry() {}
func (DeletionEntry) isUndoEntry() {}

// UndoLog is a bounded stack of reversible operations. On overflow the
// oldest entries are evicted silently, without re-validating whether they
// still reference live documents.
type UndoLog struct {
	mu       sync.Mutex
	entries  []UndoEntry
	capacity int
}

func NewUndoLog(capacity int) *UndoLog {
	if capacity <= 0 {
		capacity = DefaultUndoCapacity
	}
	return &UndoLog{capacity: capacity}
}

func (l *UndoLog) Push(entry UndoEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		overflow := len(l.entries) - l.capacity
		l.entries = append(l.entries[:0], l.entries[overflow:]...)
	}
}

// Pop removes and returns the most recent entry. The boolean result is false
// on an empty log.
func (l *UndoLog) Pop() (UndoEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return nil, false
	}

	entry := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return entry, true
}

func (l *UndoLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *UndoLog) CanUndo() bool {
	return l.Len() > 0
}
