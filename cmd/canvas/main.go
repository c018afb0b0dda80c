package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/thoughtcanvas/canvas-core/core"
	"github.com/thoughtcanvas/canvas-core/core/audio/miniaudio"
	"github.com/thoughtcanvas/canvas-core/core/llms/anthropic"
	"github.com/thoughtcanvas/canvas-core/core/speechtotext/deepgram"
	"github.com/thoughtcanvas/canvas-core/core/workspaces/memory"
)

func main() {
	voice := flag.Bool("voice", false, "capture microphone audio and transcribe it (needs DEEPGRAM_API_KEY)")
	model := flag.String("model", "", "override the completion model")
	flag.Parse()

	if err := run(*voice, *model); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(voice bool, model string) error {
	clientOpts := []anthropic.ClientOption{}
	if model != "" {
		clientOpts = append(clientOpts, anthropic.WithModel(model))
	}
	client, err := anthropic.NewClientFromEnv(clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}

	workspace := memory.NewWorkspace()
	windows := memory.NewWindowEngine()

	orchestratorOpts := []orchestration.OrchestratorOption{
		orchestration.WithCompletionClient(client),
		orchestration.WithWorkspace(workspace),
		orchestration.WithWindowEngine(windows),
		orchestration.WithListGenerator(newListGenerator(client)),
	}

	var audioInput *miniaudio.Client
	if voice {
		audioInput, err = miniaudio.NewClient()
		if err != nil {
			return fmt.Errorf("failed to open audio input: %w", err)
		}
		defer audioInput.Close()

		orchestratorOpts = append(orchestratorOpts,
			orchestration.WithAudioInput(audioInput),
			orchestration.WithSpeechEngine(deepgram.NewTranscriptionClient()),
		)
	}

	orchestrator := orchestration.NewOrchestrator(orchestratorOpts...)
	defer orchestrator.Close()

	p := tea.NewProgram(
		newModel(orchestrator, workspace, windows, voice),
		tea.WithAltScreen(),
	)

	orchestrator.Orchestrate(context.Background(),
		orchestration.WithTranscriptionCallback(func(text string, isFinal bool) {
			p.Send(fragmentMsg{text: text, isFinal: isFinal})
		}),
		orchestration.WithPendingCommandCallback(func(pending string) {
			p.Send(pendingMsg{pending: pending})
		}),
		orchestration.WithModeChangedCallback(func(dictating bool, targetID string) {
			p.Send(modeMsg{dictating: dictating, targetID: targetID})
		}),
		orchestration.WithStreamingTextCallback(func(text string) {
			p.Send(streamingMsg{text: text})
		}),
		orchestration.WithResponseCallback(func(response string) {
			p.Send(responseMsg{response: response})
		}),
		orchestration.WithToolCallCallback(func(name, result string, ok bool) {
			p.Send(toolMsg{name: name, result: result, ok: ok})
		}),
		orchestration.WithProcessingCallback(func(isProcessing bool) {
			p.Send(processingMsg{isProcessing: isProcessing})
		}),
		orchestration.WithErrorCallback(func(message string) {
			p.Send(errMsg{message: message})
		}),
		orchestration.WithCancellationCallback(func() {
			p.Send(cancelledMsg{})
		}),
		orchestration.WithUndoCallback(func(status string) {
			p.Send(undoMsg{status: status})
		}),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run ui: %w", err)
	}
	return nil
}

type generatedList struct {
	Items []string `json:"items" jsonschema_description:"The list items, in order, without numbering."`
}

// newListGenerator asks for list items through a schema-constrained call
// instead of parsing free-form lines.
func newListGenerator(client *anthropic.Client) orchestration.ListGenerator {
	return func(ctx context.Context, prompt, sourceContent string) ([]string, error) {
		request := "Produce a list: " + prompt
		if sourceContent != "" {
			request += "\n\nBase the list on the following text:\n\n" + sourceContent
		}

		result, err := anthropic.PromptJSONSchema(ctx, client, request,
			"You produce concise list items for a thought canvas.", generatedList{})
		if err != nil {
			return nil, err
		}
		return result.Items, nil
	}
}
