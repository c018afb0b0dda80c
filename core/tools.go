package orchestration

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thoughtcanvas/canvas-core/core/llms"
)

// canvasTools is the fixed tool vocabulary exposed to the model. Handlers
// return plain spoken-style status strings; unresolved references come back
// as failure strings rather than errors so the feedback stays conversational.
func canvasTools(d *toolDispatcher) []llms.Tool {
	thoughtParameter := func(description string) llms.ParameterBase {
		return llms.ParameterBase{
			Type:        "string",
			Description: description + ` Accepts "active", a display number, or a thought id (or unique prefix).`,
		}
	}
	positionParameter := llms.ParameterBase{
		Type:        "string",
		Description: `Where to place the window, e.g. "center", "top-left", "left of 2".`,
		Optional:    true,
	}

	return []llms.Tool{
		llms.NewTool(
			"create_thought",
			"Create a new thought on the canvas and open a window for it.",
			map[string]llms.ParameterBase{
				"content": {Type: "string", Description: "The content of the new thought."},
				"type": {
					Type:        "string",
					Description: "The kind of thought to create.",
					Enum:        []string{"note", "list", "outline"},
					Optional:    true,
				},
				"position": positionParameter,
			},
			func(params struct {
				Content  string `json:"content"`
				Type     string `json:"type"`
				Position string `json:"position"`
			}) (string, error) {
				return d.createThought(params.Content, params.Type, params.Position)
			},
		),
		llms.NewTool(
			"update_thought",
			"Replace or append to an existing thought's content.",
			map[string]llms.ParameterBase{
				"thought_id": thoughtParameter("The thought to update."),
				"content":    {Type: "string", Description: "The new or additional content."},
				"append": {
					Type:        "boolean",
					Description: "Append to the existing content instead of replacing it.",
					Optional:    true,
				},
			},
			func(params struct {
				ThoughtID string `json:"thought_id"`
				Content   string `json:"content"`
				Append    bool   `json:"append"`
			}) (string, error) {
				return d.updateThought(params.ThoughtID, params.Content, params.Append)
			},
		),
		llms.NewTool(
			"move_window",
			"Move a thought's window to a new position on the canvas.",
			map[string]llms.ParameterBase{
				"thought_id": thoughtParameter("The thought whose window to move."),
				"position":   {Type: "string", Description: `The new position, e.g. "center", "top-left", "left of 2".`},
			},
			func(params struct {
				ThoughtID string `json:"thought_id"`
				Position  string `json:"position"`
			}) (string, error) {
				return d.moveWindow(params.ThoughtID, params.Position)
			},
		),
		llms.NewTool(
			"close_window",
			"Close a thought's window. The thought itself is kept.",
			map[string]llms.ParameterBase{
				"thought_id": thoughtParameter("The thought whose window to close."),
			},
			func(params struct {
				ThoughtID string `json:"thought_id"`
			}) (string, error) {
				return d.closeWindow(params.ThoughtID)
			},
		),
		llms.NewTool(
			"condense",
			"Condense a thought's content to its essence.",
			map[string]llms.ParameterBase{
				"thought_id": thoughtParameter("The thought to condense."),
				"target": {
					Type:        "string",
					Description: `Optional target, e.g. "one sentence" or "half the length".`,
					Optional:    true,
				},
			},
			func(params struct {
				ThoughtID string `json:"thought_id"`
				Target    string `json:"target"`
			}) (string, error) {
				target := params.Target
				if target == "" {
					target = "roughly half its length"
				}
				return d.transformThought(params.ThoughtID, "Condensed", func(doc *Document) string {
					return fmt.Sprintf("Condense the following text to %s, keeping its meaning:\n\n%s", target, doc.Content)
				})
			},
		),
		llms.NewTool(
			"rewrite",
			"Rewrite a thought's content following an instruction.",
			map[string]llms.ParameterBase{
				"thought_id": thoughtParameter("The thought to rewrite."),
				"style":      {Type: "string", Description: `How to rewrite it, e.g. "more formal" or "as bullet points".`},
				"target": {
					Type:        "string",
					Description: "Optional target length or shape for the rewrite.",
					Optional:    true,
				},
			},
			func(params struct {
				ThoughtID string `json:"thought_id"`
				Style     string `json:"style"`
				Target    string `json:"target"`
			}) (string, error) {
				instruction := params.Style
				if params.Target != "" {
					instruction += ", aiming for " + params.Target
				}
				return d.transformThought(params.ThoughtID, "Rewrote", func(doc *Document) string {
					return fmt.Sprintf("Rewrite the following text (%s):\n\n%s", instruction, doc.Content)
				})
			},
		),
		llms.NewTool(
			"expand",
			"Expand a thought's content with more detail.",
			map[string]llms.ParameterBase{
				"thought_id": thoughtParameter("The thought to expand."),
				"focus": {
					Type:        "string",
					Description: "Optional focus for the expansion.",
					Optional:    true,
				},
			},
			func(params struct {
				ThoughtID string `json:"thought_id"`
				Focus     string `json:"focus"`
			}) (string, error) {
				return d.transformThought(params.ThoughtID, "Expanded", func(doc *Document) string {
					if params.Focus != "" {
						return fmt.Sprintf("Expand the following text with more detail, focusing on %s:\n\n%s", params.Focus, doc.Content)
					}
					return fmt.Sprintf("Expand the following text with more detail:\n\n%s", doc.Content)
				})
			},
		),
		llms.NewTool(
			"generate_list",
			"Generate a new list thought from a prompt, optionally grounded in an existing thought.",
			map[string]llms.ParameterBase{
				"prompt": {Type: "string", Description: "What the list should contain."},
				"source": {
					Type:        "string",
					Description: "Optional thought whose content grounds the list.",
					Optional:    true,
				},
				"position": positionParameter,
			},
			func(params struct {
				Prompt   string `json:"prompt"`
				Source   string `json:"source"`
				Position string `json:"position"`
			}) (string, error) {
				return d.generateList(params.Prompt, params.Source, params.Position)
			},
		),
		llms.NewTool(
			"link_thoughts",
			"Link one thought to another, optionally naming the relationship.",
			map[string]llms.ParameterBase{
				"source_id": thoughtParameter("The thought the link starts from."),
				"target_id": thoughtParameter("The thought the link points to."),
				"relationship": {
					Type:        "string",
					Description: `Optional relationship name, e.g. "supports" or "contradicts".`,
					Optional:    true,
				},
			},
			func(params struct {
				SourceID     string `json:"source_id"`
				TargetID     string `json:"target_id"`
				Relationship string `json:"relationship"`
			}) (string, error) {
				return d.linkThoughts(params.SourceID, params.TargetID, params.Relationship)
			},
		),
		llms.NewTool(
			"undo",
			"Undo the most recent change to the canvas.",
			map[string]llms.ParameterBase{},
			func(struct{}) (string, error) {
				return d.performUndo(), nil
			},
		),
	}
}

func (d *toolDispatcher) createThought(content, docType, position string) (string, error) {
	if d.o.workspace == nil {
		return "", fmt.Errorf("no workspace configured")
	}
	if docType == "" {
		docType = "note"
	}

	now := time.Now()
	doc := Document{
		ID:        uuid.NewString(),
		Content:   content,
		Type:      docType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The entry is pushed before the write so a later write failure can
	// compensate by popping it.
	d.o.undoLog.Push(CreationEntry{DocumentID: doc.ID})
	if err := d.o.workspace.CreateDocument(doc); err != nil {
		d.o.undoLog.Pop()
		return "", fmt.Errorf("failed to create thought: %w", err)
	}

	d.o.openWindow(doc.ID, PlacementHint(position))
	return fmt.Sprintf("Created thought %s", idPrefix(doc.ID)), nil
}

func (d *toolDispatcher) updateThought(ref, content string, appendContent bool) (string, error) {
	doc, failure := d.resolveThought(ref)
	if failure != "" {
		return failure, nil
	}

	next := content
	if appendContent {
		next = doc.Content + dictationSeparator(doc.Content) + content
	}

	d.o.undoLog.Push(MutationEntry{
		DocumentID:   doc.ID,
		PriorContent: doc.Content,
		PriorTags:    slices.Clone(doc.Tags),
	})
	if err := d.o.workspace.UpdateDocument(doc.ID, DocumentUpdate{Content: &next}); err != nil {
		d.o.undoLog.Pop()
		return "", fmt.Errorf("failed to update thought: %w", err)
	}

	return fmt.Sprintf("Updated thought %s", idPrefix(doc.ID)), nil
}

func (d *toolDispatcher) moveWindow(ref, position string) (string, error) {
	doc, failure := d.resolveThought(ref)
	if failure != "" {
		return failure, nil
	}

	windowID, ok := d.o.windowFor(doc.ID)
	if !ok {
		return fmt.Sprintf("Thought %s has no open window", idPrefix(doc.ID)), nil
	}
	if err := d.o.windows.MoveWindow(windowID, PlacementHint(position)); err != nil {
		return "", fmt.Errorf("failed to move window: %w", err)
	}

	return fmt.Sprintf("Moved thought %s to %s", idPrefix(doc.ID), position), nil
}

func (d *toolDispatcher) closeWindow(ref string) (string, error) {
	doc, failure := d.resolveThought(ref)
	if failure != "" {
		return failure, nil
	}

	windowID, ok := d.o.windowFor(doc.ID)
	if !ok {
		return fmt.Sprintf("Thought %s has no open window", idPrefix(doc.ID)), nil
	}
	if err := d.o.windows.CloseWindow(windowID); err != nil {
		return "", fmt.Errorf("failed to close window: %w", err)
	}

	return fmt.Sprintf("Closed the window of thought %s", idPrefix(doc.ID)), nil
}

// transformThought runs a secondary model call over the document content and
// stores the result. When the secondary call fails the original content is
// kept, so the mutation is still reversible but effectively a no-op.
func (d *toolDispatcher) transformThought(ref, label string, buildPrompt func(doc *Document) string) (string, error) {
	doc, failure := d.resolveThought(ref)
	if failure != "" {
		return failure, nil
	}

	transformed := d.transformContent(buildPrompt(doc), doc.Content)

	d.o.undoLog.Push(MutationEntry{
		DocumentID:   doc.ID,
		PriorContent: doc.Content,
		PriorTags:    slices.Clone(doc.Tags),
	})
	if err := d.o.workspace.UpdateDocument(doc.ID, DocumentUpdate{Content: &transformed}); err != nil {
		d.o.undoLog.Pop()
		return "", fmt.Errorf("failed to store transformed thought: %w", err)
	}

	return fmt.Sprintf("%s thought %s", label, idPrefix(doc.ID)), nil
}

func (d *toolDispatcher) transformContent(prompt, original string) string {
	client := d.o.transformClient
	if client == nil {
		return original
	}

	response, err := client.Prompt(d.dispatchContext(), prompt,
		llms.WithSystemPrompt(transformSystemPrompt),
	)
	if err != nil || response == nil || strings.TrimSpace(response.Content) == "" {
		if err != nil {
			logger.Warn("content transform failed, keeping original", "error", err)
		}
		return original
	}
	return strings.TrimSpace(response.Content)
}

func (d *toolDispatcher) generateList(prompt, sourceRef, position string) (string, error) {
	if d.o.workspace == nil {
		return "", fmt.Errorf("no workspace configured")
	}

	sourceContent := ""
	if sourceRef != "" {
		doc, failure := d.resolveThought(sourceRef)
		if failure != "" {
			return failure, nil
		}
		sourceContent = doc.Content
	}

	items, err := d.generateItems(prompt, sourceContent)
	if err != nil {
		logger.Warn("list generation failed", "error", err)
		return "Could not generate a list for that request", nil
	}
	if len(items) == 0 {
		return "Could not generate a list for that request", nil
	}

	content := "- " + strings.Join(items, "\n- ")
	status, err := d.createThought(content, "list", position)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s with %d items", status, len(items)), nil
}

func (d *toolDispatcher) generateItems(prompt, sourceContent string) ([]string, error) {
	if d.o.generateList != nil {
		return d.o.generateList(d.dispatchContext(), prompt, sourceContent)
	}

	client := d.o.transformClient
	if client == nil {
		return nil, fmt.Errorf("no completion client configured")
	}

	request := fmt.Sprintf("Produce a list: %s\nReply with one item per line, no numbering and no commentary.", prompt)
	if sourceContent != "" {
		request += "\n\nBase the list on the following text:\n\n" + sourceContent
	}

	response, err := client.Prompt(d.dispatchContext(), request,
		llms.WithSystemPrompt(transformSystemPrompt),
	)
	if err != nil {
		return nil, err
	}

	items := []string{}
	for _, line := range strings.Split(response.Content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		if line != "" {
			items = append(items, line)
		}
	}
	return items, nil
}

func (d *toolDispatcher) linkThoughts(sourceRef, targetRef, relationship string) (string, error) {
	source, failure := d.resolveThought(sourceRef)
	if failure != "" {
		return failure, nil
	}
	target, failure := d.resolveThought(targetRef)
	if failure != "" {
		return failure, nil
	}

	tag := "link:" + target.ID
	if relationship != "" {
		tag += ":" + relationship
	}
	if slices.Contains(source.Tags, tag) {
		return fmt.Sprintf("Thought %s is already linked to thought %s", idPrefix(source.ID), idPrefix(target.ID)), nil
	}

	d.o.undoLog.Push(MutationEntry{
		DocumentID:   source.ID,
		PriorContent: source.Content,
		PriorTags:    slices.Clone(source.Tags),
	})
	tags := append(slices.Clone(source.Tags), tag)
	if err := d.o.workspace.UpdateDocument(source.ID, DocumentUpdate{Tags: &tags}); err != nil {
		d.o.undoLog.Pop()
		return "", fmt.Errorf("failed to link thoughts: %w", err)
	}

	return fmt.Sprintf("Linked thought %s to thought %s", idPrefix(source.ID), idPrefix(target.ID)), nil
}

// resolveThought resolves a symbolic reference to a live document. The second
// result is a non-empty failure string when the reference does not resolve.
func (d *toolDispatcher) resolveThought(ref string) (*Document, string) {
	id, ok := resolveSubject(d.o.workspace, ref)
	if !ok {
		return nil, fmt.Sprintf("No thought matches %q", ref)
	}

	doc, ok := d.o.workspace.GetDocument(id)
	if !ok {
		return nil, fmt.Sprintf("No thought matches %q", ref)
	}
	return doc, ""
}
