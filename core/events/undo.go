package events

// KindUndoPerformed identifies application of one undo entry.
const KindUndoPerformed Kind = "undo.performed"

// UndoPerformed carries the status of one undo application.
type UndoPerformed struct {
	Base
	Status string
}

// NewUndoPerformed creates an undo performed event.
func NewUndoPerformed(status string) UndoPerformed {
	return UndoPerformed{Base: NewBase(KindUndoPerformed), Status: status}
}
