package orchestration

import (
	"fmt"
	"strings"
)

const agentPromptPreamble = `You are the voice-driven assistant of a spatial thought canvas.
The user speaks commands; you manipulate their thoughts (notes, lists, outlines)
through the provided tools and answer briefly in plain spoken language.

Rules:
- Prefer acting through tools over describing what you would do.
- Refer to thoughts by their short id or display number, exactly as shown below.
- When the user refers to "this" or "the active thought", target the focused thought.
- Keep spoken replies to one or two short sentences.`

// agentSystemPrompt grounds every turn in the current canvas contents so the
// model can resolve references like "the second one".
func agentSystemPrompt(workspaceSnapshot string) string {
	return agentPromptPreamble + "\n\nCurrent canvas:\n" + workspaceSnapshot
}

const transformSystemPrompt = `You rewrite text on a thought canvas.
Reply with only the rewritten text, no preamble and no commentary.`

const snapshotPreviewLen = 80

// renderWorkspaceSnapshot lists every document with its display number, short
// id, type and a one-line content preview. The focused document is starred.
func renderWorkspaceSnapshot(workspace Workspace) string {
	if workspace == nil {
		return "(no canvas attached)"
	}

	docs := workspace.ListDocuments()
	if len(docs) == 0 {
		return "(the canvas is empty)"
	}

	activeID := ""
	if id, ok := workspace.ActiveDocumentID(); ok {
		activeID = id
	}

	b := strings.Builder{}
	for i, doc := range docs {
		preview := strings.ReplaceAll(doc.Content, "\n", " ")
		if len(preview) > snapshotPreviewLen {
			preview = preview[:snapshotPreviewLen-3] + "..."
		}

		marker := " "
		if doc.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %d. [%s] (%s) %s\n", marker, i+1, idPrefix(doc.ID), doc.Type, preview)
	}
	return strings.TrimRight(b.String(), "\n")
}
