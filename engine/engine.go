// Package engine provides the Game state machine and the Step() front that
// turns typed commands into calls on it.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/escapecore/engine/events"
	"github.com/nathoo/escapecore/engine/parser"
	"github.com/nathoo/escapecore/engine/resolve"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/types"
)

// Engine wraps a Game with text parsing and player-facing output.
type Engine struct {
	Game     *Game
	Messages events.MessageProvider

	// AwaitingCode is the object that last asked for a code. A bare
	// "code 1234" goes to it.
	AwaitingCode string
}

// New creates a new engine from definitions. Content messages come from
// defs.Messages.
func New(defs *state.Defs, opts ...Option) *Engine {
	return &Engine{
		Game:     NewGame(defs, opts...),
		Messages: events.DictProvider(defs.Messages),
	}
}

// State returns the live game state.
func (e *Engine) State() *state.State { return e.Game.State }

// Step processes one player command and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	// 0. Game over: block all gameplay commands.
	if e.Game.Finished() {
		result.Output = append(result.Output, "The game is over. Use /quit to exit.")
		return result
	}

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Empty input.
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	var evs []types.Event
	switch intent.Verb {
	case "look":
		if intent.Object == "" {
			result.Output = e.DescribeRoom(e.State().CurrentRoom())
			return result
		}
		id, err := resolve.Room(e.State(), intent.Object)
		if err != nil {
			result.Output = append(result.Output, sentence(err))
			return result
		}
		evs = e.Game.Interact(id)

	case "inventory":
		result.Output = e.DescribeInventory()
		return result

	case "help":
		result.Output = HelpLines()
		return result

	case "use":
		var err error
		evs, err = e.use(intent)
		if err != nil {
			result.Output = append(result.Output, sentence(err))
			return result
		}

	case "select":
		if intent.Object == "" {
			result.Output = append(result.Output, "Select what?")
			return result
		}
		id, err := resolve.Inventory(e.State(), intent.Object)
		if err != nil {
			result.Output = append(result.Output, sentence(err))
			return result
		}
		evs = e.Game.InteractInventory(id)

	case "deselect":
		evs = e.Game.Deselect()

	case "code":
		var err error
		evs, err = e.code(intent)
		if err != nil {
			result.Output = append(result.Output, sentence(err))
			return result
		}

	case "quit":
		evs = e.Game.Quit()

	default:
		result.Output = append(result.Output, "I don't understand that. Type \"help\" for commands.")
		return result
	}

	result.Events = evs
	result.Output = append(result.Output, e.Describe(evs)...)
	return result
}

// EnterCode sends a line typed in code-entry mode to the awaiting object.
func (e *Engine) EnterCode(code string) types.Result {
	var result types.Result
	if e.AwaitingCode == "" {
		result.Output = append(result.Output, "Nothing is waiting for a code.")
		return result
	}
	evs := e.Game.InsertCode(e.AwaitingCode, strings.TrimSpace(code))
	result.Events = evs
	result.Output = e.Describe(evs)
	return result
}

// use resolves "use X" and "use X on Y". A bare object is looked for in
// the room first, then in the inventory.
func (e *Engine) use(intent types.Intent) ([]types.Event, error) {
	if intent.Object == "" {
		return nil, errors.New("use what?")
	}
	s := e.State()

	if intent.Target != "" {
		held, err := resolve.Inventory(s, intent.Object)
		if err != nil {
			return nil, err
		}
		target, err := resolve.Room(s, intent.Target)
		if err != nil {
			return nil, err
		}
		var evs []types.Event
		if current, _ := s.InHand(); current != held {
			evs = append(evs, e.Game.Hold(held)...)
		}
		return append(evs, e.Game.Interact(target)...), nil
	}

	id, err := resolve.Room(s, intent.Object)
	if err == nil {
		return e.Game.Interact(id), nil
	}
	var nf *resolve.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}
	if held, invErr := resolve.Inventory(s, intent.Object); invErr == nil {
		return e.Game.InteractInventory(held), nil
	}
	return nil, err
}

func (e *Engine) code(intent types.Intent) ([]types.Event, error) {
	target := e.AwaitingCode
	if intent.Object != "" {
		id, err := resolve.Any(e.State(), intent.Object)
		if err != nil {
			return nil, err
		}
		target = id
	}
	if target == "" {
		return nil, errors.New("enter the code on what?")
	}
	if intent.Code == "" {
		return nil, errors.New("what code?")
	}
	return e.Game.InsertCode(target, intent.Code), nil
}

// Describe turns events into output lines. Content messages win; events
// content does not cover fall back to built-in text. Entering a room
// appends its description.
func (e *Engine) Describe(evs []types.Event) []string {
	if len(evs) == 0 {
		return []string{"Nothing happens."}
	}
	var out []string
	for _, ev := range evs {
		switch ev := ev.(type) {
		case types.AskedForCode:
			e.AwaitingCode = ev.ObjectID
		case types.Unlocked:
			if ev.ObjectID == e.AwaitingCode {
				e.AwaitingCode = ""
			}
		}

		if text, ok := e.Messages.Message(ev); ok {
			if text != "" {
				out = append(out, text)
			}
		} else if text := defaultMessage(ev); text != "" {
			out = append(out, text)
		}

		if m, ok := ev.(types.MovedToRoom); ok {
			out = append(out, e.roomListing(m.RoomID)...)
		}
	}
	return out
}

// DescribeRoom produces the standard room description output.
func (e *Engine) DescribeRoom(roomID string) []string {
	var out []string
	if text, ok := e.Messages.Message(types.MovedToRoom{RoomID: roomID}); ok && text != "" {
		out = append(out, text)
	} else {
		out = append(out, fmt.Sprintf("You are in the %s.", DisplayName(roomID)))
	}
	return append(out, e.roomListing(roomID)...)
}

// DescribeInventory lists held objects, marking the one in hand.
func (e *Engine) DescribeInventory() []string {
	s := e.State()
	if len(s.Inventory) == 0 {
		return []string{"You are carrying nothing."}
	}
	held, _ := s.InHand()
	names := make([]string, 0, len(s.Inventory))
	for _, id := range s.Inventory {
		name := DisplayName(id)
		if id == held {
			name += " (in hand)"
		}
		names = append(names, name)
	}
	return []string{"You are carrying: " + strings.Join(names, ", ") + "."}
}

func (e *Engine) roomListing(roomID string) []string {
	ids := e.State().ObjectsInRoom(roomID)
	if len(ids) == 0 {
		return []string{"There is nothing of interest here."}
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, DisplayName(id))
	}
	return []string{"You see: " + strings.Join(names, ", ") + "."}
}

// defaultMessage is the built-in text for events content does not cover.
func defaultMessage(ev types.Event) string {
	switch ev := ev.(type) {
	case types.PickedUp:
		return fmt.Sprintf("You pick up the %s.", DisplayName(ev.ObjectID))
	case types.AddedToInventory:
		return fmt.Sprintf("The %s is now in your inventory.", DisplayName(ev.ObjectID))
	case types.PutInHand:
		return fmt.Sprintf("You hold the %s.", DisplayName(ev.ObjectID))
	case types.PutOffHand:
		return "Your hands are empty."
	case types.MovedToRoom:
		return fmt.Sprintf("You enter the %s.", DisplayName(ev.RoomID))
	case types.InteractedWithLocked:
		return fmt.Sprintf("The %s is locked.", DisplayName(ev.ObjectID))
	case types.Unlocked:
		return fmt.Sprintf("The %s unlocks.", DisplayName(ev.ObjectID))
	case types.Revealed:
		return fmt.Sprintf("A %s appears.", DisplayName(ev.ObjectID))
	case types.AskedForCode:
		return fmt.Sprintf("The %s asks for a code.", DisplayName(ev.ObjectID))
	case types.WrongCode:
		return "Wrong code."
	case types.Inspected:
		return fmt.Sprintf("You look closely at the %s.", DisplayName(ev.ObjectID))
	case types.GameEnded:
		return "Goodbye."
	default:
		return ""
	}
}

// DisplayName turns an id like "old_radio" into "old radio".
func DisplayName(id string) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(id)
}

// HelpLines is the command reference shown by "help".
func HelpLines() []string {
	return []string{
		"Commands:",
		"  look                   describe the room",
		"  use <thing>            interact with something here (or held)",
		"  use <item> on <thing>  hold an item, then use the thing",
		"  select <item>          hold an item from your inventory",
		"  deselect               empty your hand",
		"  code <thing> <code>    type a code (or: enter <code> on <thing>)",
		"  inventory              list what you carry",
		"  quit                   give up",
	}
}

// sentence renders an error as a line of output.
func sentence(err error) string {
	s := err.Error()
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	if !strings.HasSuffix(s, "?") && !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, ")") {
		s += "."
	}
	return s
}
