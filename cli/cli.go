// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Mindspire engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nathoo/mindspire/engine"
	"github.com/nathoo/mindspire/engine/floor"
	"github.com/nathoo/mindspire/engine/save"
	"github.com/nathoo/mindspire/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *engine.Session
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool // echo each input line after the prompt (for script playback)

	log      zerolog.Logger
	farewell bool // the game-over/victory banner was already printed
}

// New creates a CLI wired to the given session.
func New(sess *engine.Session, log zerolog.Logger) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".mindspire", "saves")
	return &CLI{
		Session: sess,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
		log:     log,
	}
}

// Run starts the game loop. It shows the intro, describes the starting
// floor, then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	if c.Session.Defs.Game.Intro != "" {
		c.printLine(c.Session.Defs.Game.Intro)
		c.printLine("")
	}
	c.cmdLook()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		c.dispatch(input)
		c.checkEnd()
	}
}

// dispatch routes one line of game input. Inside a conversation every
// non-command line is an answer; outside, it is a roaming command.
func (c *CLI) dispatch(input string) {
	if _, ok := c.Session.Active(); ok {
		c.handleAnswer(input)
		return
	}

	fields := strings.Fields(strings.ToLower(input))
	cmd := fields[0]
	switch cmd {
	case "n", "north":
		c.move(0, -1)
	case "s", "south":
		c.move(0, 1)
	case "e", "east":
		c.move(1, 0)
	case "w", "west":
		c.move(-1, 0)

	case "talk", "t", "interact":
		res := c.Session.Interact()
		c.printLine(res.Message)
		if res.Kind == types.InteractConversation {
			c.printQuestion()
		}

	case "stairs", "climb", ">":
		res := c.Session.UseStairs()
		c.printLine(res.Message)
		if res.FloorChanged {
			c.printLine("")
			c.cmdLook()
		}

	case "look", "l":
		c.cmdLook()

	case "answer", "a":
		c.printLine("You are not in a conversation.")

	default:
		c.printLine(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
}

// handleAnswer resolves conversation input: "leave" backs out, a number
// picks a choice on multiple-choice questions, anything else is a typed
// answer. Digits only count as a choice index when the current question
// actually offers choices; numeric questions take them as the answer.
func (c *CLI) handleAnswer(input string) {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)
	if lower == "leave" || lower == "bye" {
		c.Session.EndConversation()
		c.printLine("You step back. The conversation can resume later.")
		return
	}

	// "answer 2" and bare "2" both work.
	if strings.HasPrefix(lower, "answer ") {
		trimmed = strings.TrimSpace(trimmed[len("answer "):])
		lower = strings.ToLower(trimmed)
	}

	var res types.AnswerResult
	q, _ := c.Session.CurrentQuestion()
	if n, err := strconv.Atoi(lower); err == nil && q.Kind == types.KindMultipleChoice {
		res = c.Session.AnswerChoice(n - 1)
	} else {
		res = c.Session.AnswerText(trimmed)
	}

	c.printLine(res.Message)
	if res.Accepted && !res.Done && !res.GameOver {
		c.printLine("")
		c.printQuestion()
	}
}

func (c *CLI) move(dx, dy int) {
	if !c.Session.Move(dx, dy) {
		c.printLine("You can't go that way.")
		return
	}
	c.describeNearby()
}

// printQuestion shows the active question, with numbered choices for
// multiple choice.
func (c *CLI) printQuestion() {
	q, ok := c.Session.CurrentQuestion()
	if !ok {
		return
	}
	if q.Topic != "" {
		c.printLine(fmt.Sprintf("[%s]", q.Topic))
	}
	c.printLine(q.Text)
	for i, choice := range q.Choices {
		c.printLine(fmt.Sprintf("  %d) %s", i+1, choice.Text))
	}
}

// cmdLook describes the current floor and everything standing on it.
func (c *CLI) cmdLook() {
	s := c.Session
	fd, _ := s.Defs.Floor(s.Floor)
	name := fd.Name
	if name == "" {
		name = fmt.Sprintf("Floor %d", s.Floor)
	}
	c.printLine(fmt.Sprintf("%s (floor %d)", name, s.Floor))

	for _, id := range s.Defs.NPCsOnFloor(s.Floor) {
		npc := s.Defs.NPCs[id]
		status := ""
		if s.Completed[id] {
			status = " (done)"
		}
		c.printLine(fmt.Sprintf("  %s, %s at (%d,%d)%s",
			s.Defs.NPCName(id), npc.Category, npc.Pos.X, npc.Pos.Y, status))
	}
	for _, id := range s.Defs.TerminalsOnFloor(s.Floor) {
		term := s.Defs.Terminals[id]
		c.printLine(fmt.Sprintf("  a terminal at (%d,%d)", term.Pos.X, term.Pos.Y))
	}
	for _, p := range s.Defs.StairsAt(s.Floor) {
		c.printLine(fmt.Sprintf("  stairs up at (%d,%d)", p.X, p.Y))
	}
	c.printLine(fmt.Sprintf("You stand at (%d,%d).", s.Pos.X, s.Pos.Y))
}

// describeNearby mentions anything within interaction reach after a move.
func (c *CLI) describeNearby() {
	s := c.Session
	for _, id := range s.Defs.NPCsOnFloor(s.Floor) {
		if floor.InReach(s.Pos, s.Defs.NPCs[id].Pos) {
			c.printLine(fmt.Sprintf("%s is here.", s.Defs.NPCName(id)))
		}
	}
	for _, id := range s.Defs.TerminalsOnFloor(s.Floor) {
		if floor.InReach(s.Pos, s.Defs.Terminals[id].Pos) {
			c.printLine("A terminal flickers here.")
		}
	}
	for _, p := range s.Defs.StairsAt(s.Floor) {
		if s.Pos == p {
			c.printLine("You stand on the stairwell.")
		}
	}
}

// checkEnd prints the ending banner exactly once.
func (c *CLI) checkEnd() {
	if c.farewell {
		return
	}
	switch {
	case c.Session.GameWon():
		c.farewell = true
		c.printLine("")
		c.printSystem("You have won. /quit to leave, or keep wandering.")
	case c.Session.GameOver():
		c.farewell = true
		c.printLine("")
		c.printSystem("Game over. /load to restore a save, or /quit.")
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Capture(c.Session)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	// The question draw depends on the seed, so the session is rebuilt
	// from the save's seed before the overlay.
	sess := engine.New(c.Session.Defs, c.Session.Diff, sd.RNGSeed, c.log)
	save.Apply(sess, sd)
	c.Session = sess
	c.farewell = false

	c.printSystem(fmt.Sprintf("Game loaded from %s (floor %d).", name, sess.Floor))
	c.cmdLook()
}

func (c *CLI) cmdHelp() {
	help := []string{
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
		"  leave         — Step out of the conversation",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Session
	c.printSystem(fmt.Sprintf("Floor: %d, position: (%d,%d)", s.Floor, s.Pos.X, s.Pos.Y))
	c.printSystem(fmt.Sprintf("Coherence: %d/%d", s.Player.Coherence(), s.Player.Max()))
	if know := s.Player.Knowledge(); len(know) > 0 {
		c.printSystem(fmt.Sprintf("Knowledge: %s", strings.Join(know, ", ")))
	}
	if s.Quest.Active() {
		if rem := s.Quest.Remaining(); len(rem) > 0 {
			names := make([]string, 0, len(rem))
			for _, id := range rem {
				names = append(names, s.Defs.NPCName(id))
			}
			c.printSystem(fmt.Sprintf("Quest: waiting on %s", strings.Join(names, ", ")))
		} else {
			c.printSystem("Quest: complete")
		}
	}
	if id, ok := s.Active(); ok {
		c.printSystem(fmt.Sprintf("Talking to: %s", s.Defs.NPCName(id)))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
