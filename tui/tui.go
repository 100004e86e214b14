package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/drgrpg/cli"
	"github.com/nathoo/drgrpg/engine"
)

// rawLine keeps an output line unstyled so it can be re-wrapped when
// the terminal is resized.
type rawLine struct {
	text    string
	kind    string
	isInput bool
}

// Model is the Bubble Tea model for the game.
type Model struct {
	ctx     context.Context
	session *cli.Session
	records engine.Store

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
	saveDir  string
	err      error
}

// gameOutputMsg carries rendered turn output into the Update loop.
type gameOutputMsg struct {
	input string
	lines []cli.Line
	err   error
}

// New creates a model driving one player's session.
func New(ctx context.Context, t cli.Turner, records engine.Store, playerID int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		ctx:     ctx,
		session: cli.NewSession(t, playerID),
		records: records,
		input:   ti,
		history: NewHistory(100),
		saveDir: filepath.Join(home, ".drgrpg", "saves"),
	}
}

// Run starts the Bubble Tea program and returns when the player quits.
func Run(ctx context.Context, t cli.Turner, records engine.Store, playerID int) error {
	m := New(ctx, t, records, playerID)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.err
	}
	return nil
}

// Init plays the first turn.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.start())
}

func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		lines, err := m.session.Start(m.ctx)
		return gameOutputMsg{lines: lines, err: err}
	}
}

// Update handles key presses, resizes, and game output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // status bar + input line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
			}
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case gameOutputMsg:
		if errors.Is(msg.err, engine.ErrPlayerNotFound) {
			m.err = msg.err
			m.quitting = true
			return m, tea.Quit
		}
		m = m.appendOutput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter runs the submitted line as a meta-command or a game command.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}
	m.history.Push(input)
	m.history.ResetCursor()

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			return m.appendOutput(gameOutputMsg{input: input, lines: systemLines("Nothing to repeat.")}), nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	if strings.HasPrefix(input, "/") {
		lines, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	lines, err := m.session.Do(m.ctx, input)
	if m.trace && err == nil {
		lines = append(lines, cli.Line{Kind: cli.KindSystem, Text: m.session.TraceLine()})
	}
	return m.Update(gameOutputMsg{input: input, lines: lines, err: err})
}

func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, l := range msg.lines {
		m.rawLines = append(m.rawLines, rawLine{text: l.Text, kind: l.Kind})
	}
	if msg.err != nil {
		m.rawLines = append(m.rawLines, rawLine{text: fmt.Sprintf("Turn failed: %v", msg.err), kind: cli.KindError})
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles every line at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		switch {
		case rl.text == "":
			styled = append(styled, "")
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wordWrap(rl.text, width)))
		default:
			styled = append(styled, render(wordWrap(rl.text, width), rl.kind))
		}
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap breaks text at word boundaries to fit width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			lineLen = len(word)
		case lineLen+1+len(word) > width:
			b.WriteString("\n")
			lineLen = len(word)
		default:
			b.WriteString(" ")
			lineLen += 1 + len(word)
		}
		b.WriteString(word)
	}
	return b.String()
}

// View lays out the viewport, status bar, and input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta runs a slash command. It reports whether the program should exit.
func (m *Model) handleMeta(input string) ([]cli.Line, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	arg := "quicksave"
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return systemLines("Goodbye."), true

	case "/save":
		if err := cli.SaveGame(m.ctx, m.records, m.session.PlayerID, m.saveDir, arg); err != nil {
			return systemLines(fmt.Sprintf("Save failed: %v", err)), false
		}
		return systemLines(fmt.Sprintf("Game saved to %s.", arg)), false

	case "/load":
		if err := cli.LoadGame(m.ctx, m.records, m.session.PlayerID, m.saveDir, arg); err != nil {
			return systemLines(fmt.Sprintf("Load failed: %v", err)), false
		}
		lines := systemLines(fmt.Sprintf("Game loaded from %s.", arg))
		more, err := m.session.Start(m.ctx)
		if err != nil {
			return append(lines, systemLines(fmt.Sprintf("Load failed: %v", err))...), false
		}
		return append(lines, more...), false

	case "/help":
		var lines []cli.Line
		for _, h := range cli.HelpText() {
			lines = append(lines, cli.Line{Kind: cli.KindText, Text: h})
		}
		lines = append(lines, cli.Line{Kind: cli.KindText, Text: "Navigation: PgUp/PgDn to scroll, Up/Down for command history"})
		return lines, false

	case "/state":
		return systemLines(m.session.StateLines()...), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return systemLines("Trace output enabled."), false
		}
		return systemLines("Trace output disabled."), false
	}
	return systemLines(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)), false
}

func systemLines(texts ...string) []cli.Line {
	lines := make([]cli.Line, 0, len(texts))
	for _, t := range texts {
		lines = append(lines, cli.Line{Kind: cli.KindSystem, Text: t})
	}
	return lines
}

// viewportKeyMap disables Up/Down scrolling; those keys walk history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
