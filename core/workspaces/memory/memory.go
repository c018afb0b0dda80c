// Package memory provides in-process implementations of the workspace and
// window collaborators, suitable for demos and tests.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	orchestration "github.com/thoughtcanvas/canvas-core/core"
)

// Workspace stores documents in memory, in creation order.
type Workspace struct {
	mu       sync.RWMutex
	docs     map[string]orchestration.Document
	order    []string
	activeID string
}

func NewWorkspace() *Workspace {
	return &Workspace{docs: map[string]orchestration.Document{}}
}

func (w *Workspace) GetDocument(id string) (*orchestration.Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, ok := w.docs[id]
	if !ok {
		return nil, false
	}
	copied := doc
	return &copied, true
}

// CreateDocument stores the document and makes it the active one.
func (w *Workspace) CreateDocument(doc orchestration.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document has no id")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.docs[doc.ID]; exists {
		return fmt.Errorf("document %s already exists", doc.ID)
	}

	w.docs[doc.ID] = doc
	w.order = append(w.order, doc.ID)
	w.activeID = doc.ID
	return nil
}

func (w *Workspace) UpdateDocument(id string, update orchestration.DocumentUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.docs[id]
	if !ok {
		return fmt.Errorf("document %s not found", id)
	}

	if update.Content != nil {
		doc.Content = *update.Content
	}
	if update.Type != nil {
		doc.Type = *update.Type
	}
	if update.Tags != nil {
		doc.Tags = *update.Tags
	}
	doc.UpdatedAt = time.Now()
	w.docs[id] = doc
	return nil
}

func (w *Workspace) DeleteDocument(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.docs[id]; !ok {
		return fmt.Errorf("document %s not found", id)
	}

	delete(w.docs, id)
	for i, orderedID := range w.order {
		if orderedID == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.activeID == id {
		w.activeID = ""
		if len(w.order) > 0 {
			w.activeID = w.order[len(w.order)-1]
		}
	}
	return nil
}

func (w *Workspace) ListDocuments() []orchestration.Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]orchestration.Document, 0, len(w.order))
	for _, id := range w.order {
		docs = append(docs, w.docs[id])
	}
	return docs
}

func (w *Workspace) ActiveDocumentID() (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeID, w.activeID != ""
}

// SetActiveDocument focuses a document. Unknown ids are rejected.
func (w *Workspace) SetActiveDocument(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.docs[id]; !ok {
		return fmt.Errorf("document %s not found", id)
	}
	w.activeID = id
	return nil
}

// DocumentIDByDisplayIndex resolves a 1-based creation-order index.
func (w *Workspace) DocumentIDByDisplayIndex(index int) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if index < 1 || index > len(w.order) {
		return "", false
	}
	return w.order[index-1], true
}

// Window is one open document view with its placement hint.
type Window struct {
	ID         string
	DocumentID string
	Placement  orchestration.PlacementHint
}

// WindowEngine tracks open windows and their symbolic placements. Placement
// hints are stored verbatim; the rendering host interprets them.
type WindowEngine struct {
	mu      sync.RWMutex
	windows map[string]Window
	order   []string
}

func NewWindowEngine() *WindowEngine {
	return &WindowEngine{windows: map[string]Window{}}
}

// CreateWindowFor opens a window for the document. A document has at most
// one window; opening again returns the existing one.
func (e *WindowEngine) CreateWindowFor(documentID string, placement orchestration.PlacementHint) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, window := range e.windows {
		if window.DocumentID == documentID {
			return window.ID, nil
		}
	}

	window := Window{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Placement:  placement,
	}
	e.windows[window.ID] = window
	e.order = append(e.order, window.ID)
	return window.ID, nil
}

func (e *WindowEngine) MoveWindow(windowID string, placement orchestration.PlacementHint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	window, ok := e.windows[windowID]
	if !ok {
		return fmt.Errorf("window %s not found", windowID)
	}
	window.Placement = placement
	e.windows[windowID] = window
	return nil
}

func (e *WindowEngine) CloseWindow(windowID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.windows[windowID]; !ok {
		return fmt.Errorf("window %s not found", windowID)
	}

	delete(e.windows, windowID)
	for i, orderedID := range e.order {
		if orderedID == windowID {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

func (e *WindowEngine) WindowFor(documentID string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, window := range e.windows {
		if window.DocumentID == documentID {
			return window.ID, true
		}
	}
	return "", false
}

// Windows returns open windows in opening order.
func (e *WindowEngine) Windows() []Window {
	e.mu.RLock()
	defer e.mu.RUnlock()

	windows := make([]Window, 0, len(e.order))
	for _, id := range e.order {
		windows = append(windows, e.windows[id])
	}
	return windows
}
