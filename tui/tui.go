// Package tui provides a Bubble Tea terminal UI for the escapecore engine,
// locally or over SSH.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/escapecore/config"
	"github.com/nathoo/escapecore/engine"
	"github.com/nathoo/escapecore/engine/events"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/types"
)

// mode is what the next submitted line or key press means.
type mode int

const (
	modeNormal  mode = iota
	modeCode         // next line goes to the object awaiting a code
	modeInspect      // overlay shown; any dismiss key returns
	modeOver         // escaped; enter leaves
)

// Options tune the TUI.
type Options struct {
	ShowMap     bool
	HistorySize int
	Trace       bool
}

// OptionsFromConfig maps the tui config section onto Options.
func OptionsFromConfig(cfg config.TUIConfig) Options {
	return Options{ShowMap: cfg.ShowMap, HistorySize: cfg.HistorySize}
}

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the escapecore TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs
	opts   Options

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	mode         mode
	afterInspect mode   // mode to restore when the overlay closes
	inspectText  string // overlay body

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		defs:    defs,
		opts:    opts,
		input:   ti,
		history: NewHistory(opts.HistorySize),
		trace:   opts.Trace,
	}
}

// Run starts the Bubble Tea program on the local terminal.
func Run(eng *engine.Engine, defs *state.Defs, opts Options) error {
	m := New(eng, defs, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces intro text and first look.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		header := m.defs.Game.Title
		if m.defs.Game.Version != "" {
			header += " v" + m.defs.Game.Version
		}
		if m.defs.Game.Author != "" {
			header += " by " + m.defs.Game.Author
		}
		lines = append(lines, header, "")

		if m.defs.Game.Intro != "" {
			lines = append(lines, m.defs.Game.Intro, "")
		}

		lines = append(lines, m.engine.DescribeRoom(m.engine.State().CurrentRoom())...)
		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.narrativeWidth(), vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.narrativeWidth()
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

		switch m.mode {
		case modeInspect:
			switch msg.String() {
			case "enter", "esc", " ", "q":
				m.mode = m.afterInspect
				m.inspectText = ""
				m.setPrompt()
			}
			return m, nil

		case modeOver:
			switch msg.String() {
			case "enter", "esc", "q":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "enter":
			return m.handleEnter()

		case "esc":
			if m.mode == modeCode {
				m = m.cancelCode()
			}
			return m, nil

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
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		if m.mode == modeCode {
			m = m.cancelCode()
		}
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands work in every mode.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.mode == modeCode {
		m.mode = modeNormal
		return m.applyResult(input, m.engine.EnterCode(input))
	}

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	return m.applyResult(input, m.engine.Step(input))
}

// applyResult shows a result and switches mode on the events it carries:
// AskedForCode opens code entry, Inspected opens the overlay, GameEnded
// leaves and reaching the win room ends the session.
func (m Model) applyResult(input string, result types.Result) (tea.Model, tea.Cmd) {
	output := result.Output
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})

	m.mode = modeNormal
	var inspect []string
	for _, ev := range result.Events {
		switch ev.(type) {
		case types.AskedForCode:
			m.mode = modeCode
		case types.Inspected:
			inspect = append(inspect, m.engine.Describe([]types.Event{ev})...)
		}
	}

	g := m.engine.Game
	switch {
	case g.Escaped():
		m.mode = modeOver
		m = m.appendOutput(gameOutputMsg{
			lines:    []string{fmt.Sprintf("You escaped in %d turns. Press Enter to leave.", g.State.TurnCount)},
			isSystem: true,
		})
	case g.Finished():
		m.quitting = true
		return m, tea.Quit
	}

	if len(inspect) > 0 && m.mode != modeOver {
		m.afterInspect = m.mode
		m.mode = modeInspect
		m.inspectText = strings.Join(inspect, "\n")
	}
	m.setPrompt()
	return m, nil
}

// cancelCode leaves code entry without sending anything.
func (m Model) cancelCode() Model {
	m.mode = modeNormal
	m.setPrompt()
	return m.appendOutput(gameOutputMsg{lines: []string{"Code entry cancelled."}, isSystem: true})
}

// setPrompt matches the input prompt to the mode.
func (m *Model) setPrompt() {
	if m.mode == modeCode {
		m.input.Prompt = "code> "
		m.input.PromptStyle = styleCodePrompt
		return
	}
	m.input.Prompt = "> "
	m.input.PromptStyle = styleInputPrompt
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.narrativeWidth()
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// mapWidth is the width of the room map panel, 0 when hidden.
func (m Model) mapWidth() int {
	if !m.opts.ShowMap || m.width < 60 {
		return 0
	}
	return min(max(m.width/3, 24), 48)
}

func (m Model) narrativeWidth() int {
	return m.width - m.mapWidth()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindYouSee:
		return styledYouSee(line)
	case kindUnlock:
		return styleUnlock.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleRoomDesc.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: narrative (+ room map) + status bar +
// input. The inspect overlay replaces the narrative while open.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	body := m.viewport.View()
	if m.mode == modeInspect {
		body = m.renderInspect()
	} else if w := m.mapWidth(); w > 0 {
		if panel := renderRoomMap(m.engine.State(), w, m.viewport.Height); panel != "" {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
		}
	}

	return body + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// renderInspect draws the overlay centered over the narrative area.
func (m Model) renderInspect() string {
	boxWidth := min(max(m.width*2/3, 20), 72)
	text := wordWrap(m.inspectText, boxWidth-6)
	box := styleInspect.Width(boxWidth).Render(
		text + "\n\n" + styleInspectHint.Render("Press Enter to close."),
	)
	return lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/map":
		m.opts.ShowMap = !m.opts.ShowMap
		m.viewport.Width = m.narrativeWidth()
		m.refreshViewport()
		if m.opts.ShowMap {
			return []string{"Room map shown."}, false
		}
		return []string{"Room map hidden."}, false

	case "/cancel":
		if m.mode == modeCode {
			m.mode = modeNormal
			m.setPrompt()
			return []string{"Code entry cancelled."}, false
		}
		return []string{"Nothing to cancel."}, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	lines := []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle event trace output",
		"  /map          Toggle the room map",
		"  /cancel       Leave code entry (or press Esc)",
		"",
	}
	lines = append(lines, engine.HelpLines()...)
	return append(lines,
		"  again (g)              repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	)
}

func (m *Model) cmdState() []string {
	s := m.engine.State()
	output := []string{
		fmt.Sprintf("Turn: %d", s.TurnCount),
		fmt.Sprintf("Room: %s", s.CurrentRoom()),
		fmt.Sprintf("Inventory: %v", s.Inventory),
	}
	if held, ok := s.InHand(); ok {
		output = append(output, fmt.Sprintf("In hand: %s", held))
	}
	if m.engine.AwaitingCode != "" {
		output = append(output, fmt.Sprintf("Awaiting code: %s", m.engine.AwaitingCode))
	}
	return output
}

func formatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s", events.Key(e)))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
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
