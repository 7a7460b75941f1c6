package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nathoo/mindspire/engine"
	"github.com/nathoo/mindspire/engine/floor"
	"github.com/nathoo/mindspire/engine/save"
	"github.com/nathoo/mindspire/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the Mindspire TUI.
type Model struct {
	session *engine.Session
	log     zerolog.Logger

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool
	farewell bool
	saveDir  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given session.
func New(sess *engine.Session, log zerolog.Logger) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		session: sess,
		log:     log,
		input:   ti,
		history: NewHistory(100),
		saveDir: filepath.Join(home, ".mindspire", "saves"),
	}
}

// Run starts the Bubble Tea program. An empty saveDir keeps the per-user
// default save location.
func Run(sess *engine.Session, log zerolog.Logger, saveDir string) error {
	m := New(sess, log)
	if saveDir != "" {
		m.saveDir = saveDir
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		game := m.session.Defs.Game
		header := game.Title
		if game.Version != "" {
			header += " v" + game.Version
		}
		if game.Author != "" {
			header += " by " + game.Author
		}
		lines = append(lines, header)
		lines = append(lines, "")

		if game.Intro != "" {
			lines = append(lines, game.Intro)
			lines = append(lines, "")
		}
		lines = append(lines, m.describeFloor()...)

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

		vpHeight := m.height - m.mapHeight() - 3 // map + blank + status + input
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

		case "esc":
			if _, ok := m.session.Active(); ok {
				m.session.EndConversation()
				m = m.appendOutput(gameOutputMsg{
					lines: []string{"You step back. The conversation can resume later."},
				})
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
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	lines := m.dispatch(input)
	lines = append(lines, m.endBanner()...)
	m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
	return m, nil
}

// dispatch routes one line of game input. Inside a conversation every
// non-command line is an answer; outside, it is a roaming command.
func (m *Model) dispatch(input string) []string {
	if _, ok := m.session.Active(); ok {
		return m.handleAnswer(input)
	}

	fields := strings.Fields(strings.ToLower(input))
	switch fields[0] {
	case "n", "north":
		return m.move(0, -1)
	case "s", "south":
		return m.move(0, 1)
	case "e", "east":
		return m.move(1, 0)
	case "w", "west":
		return m.move(-1, 0)

	case "talk", "t", "interact":
		res := m.session.Interact()
		lines := []string{res.Message}
		if res.Kind == types.InteractConversation {
			lines = append(lines, m.questionLines()...)
		}
		return lines

	case "stairs", "climb", ">":
		res := m.session.UseStairs()
		lines := []string{res.Message}
		if res.FloorChanged {
			lines = append(lines, "")
			lines = append(lines, m.describeFloor()...)
		}
		return lines

	case "look", "l":
		return m.describeFloor()

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", fields[0])}
	}
}

// handleAnswer resolves conversation input: "leave" backs out, a number
// picks a choice on multiple-choice questions, anything else is a typed
// answer. Digits only count as a choice index when the current question
// actually offers choices; numeric questions take them as the answer.
func (m *Model) handleAnswer(input string) []string {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)
	if lower == "leave" || lower == "bye" {
		m.session.EndConversation()
		return []string{"You step back. The conversation can resume later."}
	}
	if strings.HasPrefix(lower, "answer ") {
		trimmed = strings.TrimSpace(trimmed[len("answer "):])
		lower = strings.ToLower(trimmed)
	}

	var res types.AnswerResult
	q, _ := m.session.CurrentQuestion()
	if n, err := strconv.Atoi(lower); err == nil && q.Kind == types.KindMultipleChoice {
		res = m.session.AnswerChoice(n - 1)
	} else {
		res = m.session.AnswerText(trimmed)
	}

	lines := []string{res.Message}
	if res.Accepted && !res.Done && !res.GameOver {
		lines = append(lines, "")
		lines = append(lines, m.questionLines()...)
	}
	return lines
}

func (m *Model) move(dx, dy int) []string {
	if !m.session.Move(dx, dy) {
		return []string{"You can't go that way."}
	}
	// The map pane shows the result; only call out things in reach.
	var lines []string
	s := m.session
	for _, id := range s.Defs.NPCsOnFloor(s.Floor) {
		if floor.InReach(s.Pos, s.Defs.NPCs[id].Pos) {
			lines = append(lines, fmt.Sprintf("%s is here.", s.Defs.NPCName(id)))
		}
	}
	for _, id := range s.Defs.TerminalsOnFloor(s.Floor) {
		if floor.InReach(s.Pos, s.Defs.Terminals[id].Pos) {
			lines = append(lines, "A terminal flickers here.")
		}
	}
	return lines
}

// questionLines formats the active question with numbered choices.
func (m *Model) questionLines() []string {
	q, ok := m.session.CurrentQuestion()
	if !ok {
		return nil
	}
	var lines []string
	if q.Topic != "" {
		lines = append(lines, fmt.Sprintf("[%s]", q.Topic))
	}
	lines = append(lines, q.Text)
	for i, choice := range q.Choices {
		lines = append(lines, fmt.Sprintf("  %d) %s", i+1, choice.Text))
	}
	return lines
}

// describeFloor lists the floor name and its occupants.
func (m *Model) describeFloor() []string {
	s := m.session
	fd, _ := s.Defs.Floor(s.Floor)
	name := fd.Name
	if name == "" {
		name = fmt.Sprintf("Floor %d", s.Floor)
	}
	lines := []string{fmt.Sprintf("%s (floor %d)", name, s.Floor)}

	for _, id := range s.Defs.NPCsOnFloor(s.Floor) {
		npc := s.Defs.NPCs[id]
		status := ""
		if s.Completed[id] {
			status = " (done)"
		}
		lines = append(lines, fmt.Sprintf("  %s, %s%s", s.Defs.NPCName(id), npc.Category, status))
	}
	if n := len(s.Defs.TerminalsOnFloor(s.Floor)); n == 1 {
		lines = append(lines, "  a lore terminal")
	} else if n > 1 {
		lines = append(lines, fmt.Sprintf("  %d lore terminals", n))
	}
	return lines
}

// endBanner emits the game-over/victory line exactly once.
func (m *Model) endBanner() []string {
	if m.farewell {
		return nil
	}
	switch {
	case m.session.GameWon():
		m.farewell = true
		return []string{"", "You have won. /quit to leave, or keep wandering."}
	case m.session.GameOver():
		m.farewell = true
		return []string{"", "Game over. /load to restore a save, or /quit."}
	}
	return nil
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

	width := m.width
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

// View renders the full TUI layout: map + viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.renderMap() + "\n" +
		m.viewport.View() + "\n" +
		m.renderStatusBar() + "\n" +
		m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Capture(m.session)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	// The question draw depends on the seed, so the session is rebuilt
	// from the save's seed before the overlay.
	sess := engine.New(m.session.Defs, m.session.Diff, sd.RNGSeed, m.log)
	save.Apply(sess, sd)
	m.session = sess
	m.farewell = false

	output := []string{fmt.Sprintf("Game loaded from %s (floor %d).", name, sess.Floor)}
	output = append(output, m.describeFloor()...)
	return output
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Dump current state",
		"",
		"Roaming:",
		"  n/s/e/w       — Move one tile",
		"  talk (t)      — Interact with whatever is in reach",
		"  stairs (>)    — Climb when standing on a stairwell",
		"  look (l)      — Describe the floor",
		"",
		"In conversation:",
		"  <number>      — Pick a numbered choice",
		"  <text>        — Type an answer",
		"  leave / Esc   — Step out of the conversation",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	s := m.session
	output := []string{
		fmt.Sprintf("Floor: %d, position: (%d,%d)", s.Floor, s.Pos.X, s.Pos.Y),
		fmt.Sprintf("Coherence: %d/%d", s.Player.Coherence(), s.Player.Max()),
	}
	if know := s.Player.Knowledge(); len(know) > 0 {
		output = append(output, fmt.Sprintf("Knowledge: %s", strings.Join(know, ", ")))
	}
	if s.Quest.Active() {
		if rem := s.Quest.Remaining(); len(rem) > 0 {
			names := make([]string, 0, len(rem))
			for _, id := range rem {
				names = append(names, s.Defs.NPCName(id))
			}
			output = append(output, fmt.Sprintf("Quest: waiting on %s", strings.Join(names, ", ")))
		} else {
			output = append(output, "Quest: complete")
		}
	}
	return output
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
