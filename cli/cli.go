// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the escapecore engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/escapecore/engine"
	"github.com/nathoo/escapecore/engine/events"
	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/types"
)

// Prompts for the two input modes.
const (
	PromptNormal = "> "
	PromptCode   = "code> "
)

// CLI handles line-oriented terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
	codeMode  bool   // next line goes to the object that asked for a code
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	return &CLI{
		Engine: eng,
		Defs:   defs,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop. It shows the intro, describes the starting room,
// then loops: prompt → input → dispatch → output. It returns when the player
// quits, the game ends, or input runs out.
func (c *CLI) Run() {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}

	result := c.Engine.Step("look")
	c.printResult(result)

	scanner := bufio.NewScanner(c.In)
	for {
		if c.codeMode {
			c.print(PromptCode)
		} else {
			c.print(PromptNormal)
		}
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if input == "" {
			if c.codeMode {
				c.codeMode = false
				c.printSystem("Code entry cancelled.")
			}
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

		if c.codeMode {
			c.codeMode = false
			result = c.Engine.EnterCode(input)
		} else {
			// "again" / "g" repeats the last game command.
			lower := strings.ToLower(input)
			if lower == "again" || lower == "g" {
				if c.lastCmd == "" {
					c.printLine("Nothing to repeat.")
					continue
				}
				input = c.lastCmd
			} else {
				c.lastCmd = input
			}
			result = c.Engine.Step(input)
		}

		if c.handleResult(result) {
			return
		}
	}
}

// handleResult prints a result and reacts to its events. Returns true if the
// game is over.
func (c *CLI) handleResult(result types.Result) bool {
	c.printResult(result)
	if c.Trace {
		c.printTrace(result)
	}

	if len(events.Filter[types.AskedForCode](result.Events)) > 0 {
		c.codeMode = true
	}

	g := c.Engine.Game
	switch {
	case g.Escaped():
		c.printSystem(fmt.Sprintf("You escaped in %d turns.", g.State.TurnCount))
		return true
	case g.Finished():
		return true
	}
	return false
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/cancel":
		if c.codeMode {
			c.codeMode = false
			c.printSystem("Code entry cancelled.")
		}

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /trace        Toggle event trace output",
		"  /cancel       Leave code entry",
		"",
	}
	for _, line := range help {
		c.printLine(line)
	}
	for _, line := range engine.HelpLines() {
		c.printLine(line)
	}
	c.printLine("  again (g)              repeat your last command")
}

func (c *CLI) cmdState() {
	s := c.Engine.State()
	c.printSystem(fmt.Sprintf("Turn: %d", s.TurnCount))
	c.printSystem(fmt.Sprintf("Room: %s", s.CurrentRoom()))
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Inventory))
	if held, ok := s.InHand(); ok {
		c.printSystem(fmt.Sprintf("In hand: %s", held))
	}
	if c.Engine.AwaitingCode != "" {
		c.printSystem(fmt.Sprintf("Awaiting code: %s", c.Engine.AwaitingCode))
	}
	for _, id := range s.ObjectsInRoom(s.CurrentRoom()) {
		if obj, ok := s.Object(id); ok {
			c.printSystem(fmt.Sprintf("  %s: %s", id, strings.Join(object.Capabilities(obj), " ")))
		}
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		c.printSystem(fmt.Sprintf("[trace]   %s", events.Key(e)))
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
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
