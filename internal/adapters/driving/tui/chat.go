// Package tui provides an interactive chat session over the RAG
// pipeline, following the Elm architecture used by Bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	blockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// answerMsg carries a completed pipeline result into the update loop.
type answerMsg struct {
	result *domain.QueryResult
}

// errMsg carries a pipeline failure into the update loop.
type errMsg struct {
	err error
}

// Chat is the interactive chat model. It implements tea.Model.
type Chat struct {
	pipeline driving.PipelineService
	topK     int

	viewport   viewport.Model
	input      textinput.Model
	spinner    spinner.Model
	transcript []string
	waiting    bool
	ready      bool
	width      int
	height     int
}

// Ensure Chat implements tea.Model.
var _ tea.Model = (*Chat)(nil)

// NewChat creates the chat model.
func NewChat(pipeline driving.PipelineService, topK int) *Chat {
	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Focus()
	input.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Chat{
		pipeline: pipeline,
		topK:     topK,
		input:    input,
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		if !c.ready {
			c.viewport = viewport.New(msg.Width, msg.Height-4)
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = msg.Height - 4
		}
		c.refresh()
		return c, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return c, tea.Quit
		case tea.KeyEnter:
			question := strings.TrimSpace(c.input.Value())
			if question == "" || c.waiting {
				return c, nil
			}
			c.transcript = append(c.transcript, userStyle.Render("You: ")+question)
			c.input.Reset()
			c.waiting = true
			c.refresh()
			return c, tea.Batch(c.spinner.Tick, c.ask(question))
		}

	case answerMsg:
		c.waiting = false
		c.transcript = append(c.transcript, renderResult(msg.result))
		c.refresh()
		return c, nil

	case errMsg:
		c.waiting = false
		c.transcript = append(c.transcript, errorStyle.Render("Error: "+msg.err.Error()))
		c.refresh()
		return c, nil

	case spinner.TickMsg:
		if !c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// View implements tea.Model.
func (c *Chat) View() string {
	if !c.ready {
		return "Starting chat..."
	}

	status := helpStyle.Render("enter: send • esc: quit")
	if c.waiting {
		status = c.spinner.View() + " thinking..."
	}

	return fmt.Sprintf("%s\n%s\n%s", c.viewport.View(), c.input.View(), status)
}

// ask runs one query off the update loop.
func (c *Chat) ask(question string) tea.Cmd {
	return func() tea.Msg {
		result, err := c.pipeline.Query(context.Background(), question, c.topK)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{result: result}
	}
}

// refresh re-renders the transcript into the viewport and follows the
// tail.
func (c *Chat) refresh() {
	if !c.ready {
		return
	}
	c.viewport.SetContent(strings.Join(c.transcript, "\n\n"))
	c.viewport.GotoBottom()
}

// renderResult formats one pipeline outcome for the transcript.
func renderResult(result *domain.QueryResult) string {
	if result.Blocked && result.Answer == nil {
		reason := "request blocked"
		if result.BlockedReason != nil {
			reason = *result.BlockedReason
		}
		return blockedStyle.Render("Blocked: ") + reason
	}

	var b strings.Builder
	b.WriteString(assistantStyle.Render("Assistant: "))
	if result.Answer != nil {
		b.WriteString(*result.Answer)
	}

	if result.Blocked && result.BlockedReason != nil {
		b.WriteString("\n")
		b.WriteString(blockedStyle.Render("Flagged: ") + *result.BlockedReason)
	}

	for _, src := range result.Sources {
		b.WriteString("\n")
		b.WriteString(sourceStyle.Render(fmt.Sprintf("  - %s (score: %.3f)", src.Source, src.Score)))
	}
	return b.String()
}

// Run starts the chat session and blocks until the user quits.
func Run(pipeline driving.PipelineService, topK int) error {
	program := tea.NewProgram(NewChat(pipeline, topK), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
