package orchestration

import "testing"

func TestUndoLogPopsInReverseOrder(t *testing.T) {
	log := NewUndoLog(10)

	log.Push(CreationEntry{DocumentID: "a"})
	log.Push(MutationEntry{DocumentID: "b", PriorContent: "old"})
	log.Push(CreationEntry{DocumentID: "c"})

	entry, ok := log.Pop()
	if !ok {
		t.Fatalf("expected an entry")
	}
	if creation, ok := entry.(CreationEntry); !ok || creation.DocumentID != "c" {
		t.Fatalf("expected creation of c, got %#v", entry)
	}

	entry, _ = log.Pop()
	if mutation, ok := entry.(MutationEntry); !ok || mutation.DocumentID != "b" || mutation.PriorContent != "old" {
		t.Fatalf("expected mutation of b, got %#v", entry)
	}

	entry, _ = log.Pop()
	if creation, ok := entry.(CreationEntry); !ok || creation.DocumentID != "a" {
		t.Fatalf("expected creation of a, got %#v", entry)
	}
}

func TestUndoLogEvictsOldestSilently(t *testing.T) {
	log := NewUndoLog(2)

	log.Push(CreationEntry{DocumentID: "a"})
	log.Push(CreationEntry{DocumentID: "b"})
	log.Push(CreationEntry{DocumentID: "c"})

	if got := log.Len(); got != 2 {
		t.Fatalf("expected 2 entries after overflow, got %d", got)
	}

	entry, _ := log.Pop()
	if creation := entry.(CreationEntry); creation.DocumentID != "c" {
		t.Fatalf("expected c on top, got %#v", entry)
	}
	entry, _ = log.Pop()
	if creation := entry.(CreationEntry); creation.DocumentID != "b" {
		t.Fatalf("expected b next, got %#v", entry)
	}
	if _, ok := log.Pop(); ok {
		t.Fatalf("expected a to have been evicted")
	}
}

func TestUndoLogEmptyPopIsIdempotent(t *testing.T) {
	log := NewUndoLog(4)

	for range 3 {
		if entry, ok := log.Pop(); ok {
			t.Fatalf("expected empty pop, got %#v", entry)
		}
	}
	if log.CanUndo() {
		t.Fatalf("expected CanUndo to be false on an empty log")
	}
}

func TestUndoLogDefaultsCapacity(t *testing.T) {
	log := NewUndoLog(0)

	for i := range DefaultUndoCapacity + 5 {
		log.Push(CreationEntry{DocumentID: string(rune('a' + i%26))})
	}
	if got := log.Len(); got != DefaultUndoCapacity {
		t.Fatalf("expected the default capacity bound of %d, got %d", DefaultUndoCapacity, got)
	}
}
