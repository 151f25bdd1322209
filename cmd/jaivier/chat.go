// This file implements the interactive chat interface using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/agent"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/config"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))
	botStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	statusReadyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))
	statusBusyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

type chatMessage struct {
	role    string // "user" or "assistant"
	content string
	time    time.Time
}

// Messages for tea updates
type (
	responseMsg string
	errorMsg    error
)

// chatModel drives the interactive chat interface
type chatModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer

	// State
	history   []chatMessage
	isLoading bool
	err       error
	width     int
	height    int
	ready     bool

	// Session state
	sessionID string
	turnCount int

	// Backend
	agent     *agent.Agent
	cleanup   func()
	cfg       *config.Config
	userID    int64
	workspace string
}

// initChat assembles the chat model and its backend pipeline
func initChat() chatModel {
	ws := resolveWorkspace()
	logging.Initialize(ws)

	cfg, err := config.Load(config.DefaultPath(ws))
	if err != nil {
		cfg = config.DefaultConfig()
	}

	ti := textinput.New()
	ti.Placeholder = "Tell me what to do... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusBusyStyle

	vp := viewport.New(80, 20)
	vp.SetContent("")

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	a, cleanup, _ := buildAgent(context.Background(), cfg)

	return chatModel{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		renderer:  renderer,
		history:   []chatMessage{},
		sessionID: uuid.NewString(),
		agent:     a,
		cleanup:   cleanup,
		cfg:       cfg,
		userID:    userID,
		workspace: ws,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.cleanup != nil {
				m.cleanup()
			}
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isLoading {
				return m.handleSubmit()
			}
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}

		m.textinput.Width = msg.Width - 4

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case responseMsg:
		m.isLoading = false
		m.turnCount++
		m.history = append(m.history, chatMessage{
			role:    "assistant",
			content: string(msg),
			time:    time.Now(),
		})
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()

	case errorMsg:
		m.isLoading = false
		m.err = msg
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	m.history = append(m.history, chatMessage{
		role:    "user",
		content: input,
		time:    time.Now(),
	})

	m.textinput.Reset()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	m.isLoading = true
	m.err = nil

	return m, tea.Batch(
		m.spinner.Tick,
		m.processInput(input),
	)
}

// processInput runs the agent pipeline in the background
func (m chatModel) processInput(input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		logging.Session("Chat turn %d (session %s): %q", m.turnCount+1, m.sessionID, input)
		return responseMsg(m.agent.HandleMessage(ctx, m.userID, input))
	}
}

// handleCommand processes slash commands locally
func (m chatModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.textinput.Reset()

	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/help":
		m.history = append(m.history, chatMessage{
			role: "assistant",
			content: strings.Join([]string{
				"**Commands:**",
				"- `/help` show this help",
				"- `/clear` clear the chat history",
				"- `/status` show backend configuration",
				"",
				"**Examples:**",
				"- create project MyApp",
				"- create a project with a sprint and 3 tasks",
				"- list my tasks",
			}, "\n"),
			time: time.Now(),
		})

	case "/clear":
		m.history = nil
		m.err = nil

	case "/status":
		m.history = append(m.history, chatMessage{
			role: "assistant",
			content: fmt.Sprintf("Backend: %s\nModel: %s\nSession: %s (turn %d)",
				m.cfg.API.BaseURL, m.cfg.LLM.Model, m.sessionID, m.turnCount),
			time: time.Now(),
		})

	default:
		m.history = append(m.history, chatMessage{
			role:    "assistant",
			content: fmt.Sprintf("Unknown command %q. Try /help.", input),
			time:    time.Now(),
		})
	}

	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	return m, nil
}

func (m chatModel) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.history {
		if msg.role == "user" {
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(msg.content)
			sb.WriteString("\n\n")
		} else {
			sb.WriteString(botStyle.Render("🤖 jaivier") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.content))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m chatModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	chatView := m.viewport.View()

	if m.isLoading {
		chatView += "\n" + m.spinner.View() + " Working..."
	}
	if m.err != nil {
		chatView += "\n" + errorStyle.Render("Error: "+m.err.Error())
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textinput.View())

	footer := mutedStyle.Render("Enter: send • /help: commands • Ctrl+C: exit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		chatView,
		inputArea,
		footer,
	)
}

func (m chatModel) renderHeader() string {
	title := headerStyle.Render(" 🤖 jaivier ")
	ver := badgeStyle.Render("v" + version)

	var status string
	if m.isLoading {
		status = statusBusyStyle.Render("● Processing")
	} else {
		status = statusReadyStyle.Render("● Ready")
	}

	headerLine := lipgloss.JoinHorizontal(
		lipgloss.Center,
		title, " ", ver, "  ", status,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		mutedStyle.Render(fmt.Sprintf(" 📁 %s • %s", m.workspace, m.cfg.API.BaseURL)),
	)
}

func runInteractiveChat() error {
	p := tea.NewProgram(
		initChat(),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
