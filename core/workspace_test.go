package orchestration

import (
	"fmt"
	"testing"
)

// stubWorkspace is a minimal fixed-content workspace for resolution tests.
type stubWorkspace struct {
	docs   []Document
	active string
}

func (w *stubWorkspace) GetDocument(id string) (*Document, bool) {
	for _, doc := range w.docs {
		if doc.ID == id {
			copied := doc
			return &copied, true
		}
	}
	return nil, false
}

func (w *stubWorkspace) CreateDocument(doc Document) error {
	w.docs = append(w.docs, doc)
	return nil
}

func (w *stubWorkspace) UpdateDocument(id string, update DocumentUpdate) error {
	for i := range w.docs {
		if w.docs[i].ID != id {
			continue
		}
		if update.Content != nil {
			w.docs[i].Content = *update.Content
		}
		if update.Type != nil {
			w.docs[i].Type = *update.Type
		}
		if update.Tags != nil {
			w.docs[i].Tags = *update.Tags
		}
		return nil
	}
	return fmt.Errorf("document %s not found", id)
}

func (w *stubWorkspace) DeleteDocument(id string) error {
	for i := range w.docs {
		if w.docs[i].ID == id {
			w.docs = append(w.docs[:i], w.docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("document %s not found", id)
}

func (w *stubWorkspace) ListDocuments() []Document {
	return w.docs
}

func (w *stubWorkspace) ActiveDocumentID() (string, bool) {
	return w.active, w.active != ""
}

func (w *stubWorkspace) DocumentIDByDisplayIndex(index int) (string, bool) {
	if index < 1 || index > len(w.docs) {
		return "", false
	}
	return w.docs[index-1].ID, true
}

func TestResolveSubject(t *testing.T) {
	workspace := &stubWorkspace{
		docs: []Document{
			{ID: "aaaa-1111", Content: "first"},
			{ID: "bbbb-2222", Content: "second"},
			{ID: "bbcc-3333", Content: "third"},
		},
		active: "aaaa-1111",
	}

	for _, tc := range []struct {
		ref    string
		wantID string
		wantOK bool
	}{
		{"", "aaaa-1111", true},
		{"active", "aaaa-1111", true},
		{"Active", "aaaa-1111", true},
		{"2", "bbbb-2222", true},
		{"0", "", false},
		{"4", "", false},
		{"bbcc-3333", "bbcc-3333", true},
		{"aaaa", "aaaa-1111", true},
		{"bbcc", "bbcc-3333", true},
		{"bb", "", false},
		{"zzzz", "", false},
	} {
		id, ok := resolveSubject(workspace, tc.ref)
		if ok != tc.wantOK || id != tc.wantID {
			t.Fatalf("resolveSubject(%q) = (%q, %v), want (%q, %v)", tc.ref, id, ok, tc.wantID, tc.wantOK)
		}
	}
}

func TestResolveSubjectWithoutActiveDocument(t *testing.T) {
	workspace := &stubWorkspace{docs: []Document{{ID: "aaaa-1111"}}}

	if _, ok := resolveSubject(workspace, "active"); ok {
		t.Fatalf("expected no resolution without a focused document")
	}
	if _, ok := resolveSubject(nil, "active"); ok {
		t.Fatalf("expected no resolution without a workspace")
	}
}

func TestIDPrefix(t *testing.T) {
	if got := idPrefix("0123456789abcdef"); got != "01234567" {
		t.Fatalf("unexpected prefix %q", got)
	}
	if got := idPrefix("short"); got != "short" {
		t.Fatalf("expected short ids to pass through, got %q", got)
	}
}
