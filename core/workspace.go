package orchestration

import (
	"strconv"
	"strings"
	"time"
)

// Document is a user-authored content unit (note/list/outline) owned by the
// workspace collaborator.
type Document struct {
	ID        string
	Content   string
	Type      string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentUpdate is a partial document mutation; nil fields are left
// untouched.
type DocumentUpdate struct {
	Content *string
	Type    *string
	Tags    *[]string
}

// Workspace is the shared document store collaborator. Implementations own
// persistence; the orchestration core never stores documents itself.
type Workspace interface {
	GetDocument(id string) (*Document, bool)
	CreateDocument(doc Document) error
	UpdateDocument(id string, update DocumentUpdate) error
	DeleteDocument(id string) error
	ListDocuments() []Document

	// ActiveDocumentID reports which document the workspace currently
	// considers focused, if any.
	ActiveDocumentID() (string, bool)
	// DocumentIDByDisplayIndex resolves a 1-based display index to a document.
	DocumentIDByDisplayIndex(index int) (string, bool)
}

// PlacementHint is a symbolic or coordinate description of where a window
// should appear; the placement engine interprets it.
type PlacementHint string

// WindowEngine is the window/placement collaborator.
type WindowEngine interface {
	CreateWindowFor(documentID string, placement PlacementHint) (string, error)
	MoveWindow(windowID string, placement PlacementHint) error
	CloseWindow(windowID string) error

	// WindowFor looks up the window currently bound to a document.
	WindowFor(documentID string) (string, bool)
}

// resolveSubject turns a symbolic subject reference into a concrete document
// id. Accepted forms: "active" (or empty), a 1-based display index, an exact
// id, or a unique id prefix. The boolean result is false when the reference
// does not resolve; callers turn that into their own failure strings.
func resolveSubject(workspace Workspace, ref string) (string, bool) {
	if workspace == nil {
		return "", false
	}

	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, "active") {
		return workspace.ActiveDocumentID()
	}

	if index, err := strconv.Atoi(ref); err == nil {
		return workspace.DocumentIDByDisplayIndex(index)
	}

	if _, ok := workspace.GetDocument(ref); ok {
		return ref, true
	}

	match := ""
	for _, doc := range workspace.ListDocuments() {
		if strings.HasPrefix(doc.ID, ref) {
			if match != "" {
				// Ambiguous prefixes do not resolve.
				return "", false
			}
			match = doc.ID
		}
	}
	return match, match != ""
}

// idPrefix shortens a document id for user-facing strings and the grounding
// snapshot.
func idPrefix(id string) string {
	const prefixLen = 8
	if len(id) <= prefixLen {
		return id
	}
	return id[:prefixLen]
}
