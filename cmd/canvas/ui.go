package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/thoughtcanvas/canvas-core/core"
	"github.com/thoughtcanvas/canvas-core/core/workspaces/memory"
)

const (
	windowWidth = 36
	toolLogTail = 5
)

type fragmentMsg struct {
	text    string
	isFinal bool
}

type pendingMsg struct{ pending string }

type modeMsg struct {
	dictating bool
	targetID  string
}

type streamingMsg struct{ text string }

type responseMsg struct{ response string }

type toolMsg struct {
	name   string
	result string
	ok     bool
}

type processingMsg struct{ isProcessing bool }

type errMsg struct{ message string }

type cancelledMsg struct{}

type undoMsg struct{ status string }

type model struct {
	orchestrator *orchestration.Orchestrator
	workspace    *memory.Workspace
	windows      *memory.WindowEngine

	input textarea.Model
	spin  spinner.Model

	voice      bool
	listening  bool
	dictating  bool
	targetID   string
	processing bool

	fragment  string
	pending   string
	streaming string
	response  string
	errText   string
	toolLog   []string

	width  int
	height int
}

func newModel(orchestrator *orchestration.Orchestrator, workspace *memory.Workspace, windows *memory.WindowEngine, voice bool) model {
	input := textarea.New()
	input.Placeholder = "Speak, or type a command and press enter..."
	input.SetHeight(2)
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return model{
		orchestrator: orchestrator,
		workspace:    workspace,
		windows:      windows,
		input:        input,
		spin:         spin,
		voice:        voice,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			_ = m.orchestrator.Close()
			return m, tea.Quit

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if text != "" {
				m.orchestrator.ProcessTranscript(text)
			}
			return m, nil

		case "esc":
			if m.orchestrator.Cancel() {
				m.streaming = ""
			}
			return m, nil

		case "ctrl+z":
			orchestrator := m.orchestrator
			return m, func() tea.Msg {
				return undoMsg{status: orchestrator.PerformUndo()}
			}

		case "ctrl+l":
			if !m.voice {
				m.errText = "started without -voice; type commands instead"
				return m, nil
			}
			if m.listening {
				m.orchestrator.StopListening()
				m.listening = false
			} else if err := m.orchestrator.StartListening(); err != nil {
				m.errText = err.Error()
			} else {
				m.listening = true
			}
			return m, nil

		case "ctrl+d":
			if m.dictating {
				m.orchestrator.ExitDictation()
			} else if err := m.orchestrator.EnterDictation("active"); err != nil {
				m.errText = err.Error()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 4)
		return m, nil

	case fragmentMsg:
		m.fragment = msg.text
		return m, nil

	case pendingMsg:
		m.pending = msg.pending
		return m, nil

	case modeMsg:
		m.dictating = msg.dictating
		m.targetID = msg.targetID
		return m, nil

	case streamingMsg:
		m.streaming = msg.text
		return m, nil

	case responseMsg:
		m.response = msg.response
		m.streaming = ""
		return m, nil

	case toolMsg:
		line := fmt.Sprintf("%s: %s", msg.name, msg.result)
		if !msg.ok {
			line = fmt.Sprintf("%s failed: %s", msg.name, msg.result)
		}
		m.toolLog = append(m.toolLog, line)
		if len(m.toolLog) > toolLogTail {
			m.toolLog = m.toolLog[len(m.toolLog)-toolLogTail:]
		}
		return m, nil

	case processingMsg:
		m.processing = msg.isProcessing
		if msg.isProcessing {
			m.errText = ""
		}
		return m, nil

	case errMsg:
		m.errText = msg.message
		return m, nil

	case cancelledMsg:
		m.streaming = ""
		return m, nil

	case undoMsg:
		m.response = msg.status
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	sections := []string{
		titleStyle.Render("thought canvas"),
		m.canvasView(),
		m.conversationView(),
		m.input.View(),
		helpStyle.Render("enter send · esc cancel · ctrl+z undo · ctrl+d dictate · ctrl+l mic · ctrl+c quit"),
	}
	return strings.Join(sections, "\n")
}

func (m model) canvasView() string {
	windows := m.windows.Windows()
	if len(windows) == 0 {
		return statusStyle.Render("  the canvas is empty")
	}

	activeID := ""
	if id, ok := m.workspace.ActiveDocumentID(); ok {
		activeID = id
	}

	panes := []string{}
	for _, window := range windows {
		doc, ok := m.workspace.GetDocument(window.DocumentID)
		if !ok {
			continue
		}

		style := windowStyle
		if doc.ID == activeID {
			style = activeWindowStyle
		}

		title := windowTitleStyle.Render(fmt.Sprintf("%s · %s", shortID(doc.ID), doc.Type))
		body := wordwrap.String(doc.Content, windowWidth)
		panes = append(panes, style.Width(windowWidth).Render(title+"\n"+body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m model) conversationView() string {
	lines := []string{}

	mode := "command mode"
	if m.dictating {
		mode = dictationStyle.Render(fmt.Sprintf("dictating into %s", shortID(m.targetID)))
	}
	mic := "mic off"
	if m.listening {
		mic = "listening"
	}
	status := fmt.Sprintf(" %s · %s", mode, mic)
	if m.processing {
		status += " · " + m.spin.View() + "thinking"
	}
	lines = append(lines, statusStyle.Render(status))

	if m.fragment != "" {
		lines = append(lines, statusStyle.Render(" heard: "+m.fragment))
	}
	if m.pending != "" {
		lines = append(lines, statusStyle.Render(" pending: "+m.pending))
	}

	switch {
	case m.streaming != "":
		lines = append(lines, responseStyle.Render(wordwrap.String(m.streaming, max(m.width-4, 40))))
	case m.response != "":
		lines = append(lines, responseStyle.Render(wordwrap.String(m.response, max(m.width-4, 40))))
	}

	for _, entry := range m.toolLog {
		lines = append(lines, toolStyle.Render("⚙ "+entry))
	}
	if m.errText != "" {
		lines = append(lines, errorStyle.Render("error: "+m.errText))
	}

	return strings.Join(lines, "\n")
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
