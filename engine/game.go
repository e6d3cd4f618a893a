package engine

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nathoo/escapecore/engine/effects"
	"github.com/nathoo/escapecore/engine/events"
	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/types"
)

// DefaultMaxCascade bounds the events one call may resolve.
const DefaultMaxCascade = 1000

// Game is the interaction state machine. Each public operation runs a
// command against the current state and resolves its events to completion
// before returning. A Game is not safe for concurrent use.
type Game struct {
	Defs       *state.Defs
	State      *state.State
	MaxCascade int

	logger *log.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithLogger routes resolution logs to l.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMaxCascade overrides DefaultMaxCascade. Values below 1 are ignored.
func WithMaxCascade(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.MaxCascade = n
		}
	}
}

// NewGame creates a game from definitions. The Defs value is owned by the
// game from here on: objects keep their lock state in place.
func NewGame(defs *state.Defs, opts ...Option) *Game {
	g := &Game{
		Defs:       defs,
		State:      state.NewState(defs),
		MaxCascade: DefaultMaxCascade,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Interact runs the interact command of an object placed in the current
// room. Objects elsewhere, or without Interactable, yield nothing.
func (g *Game) Interact(objectID string) []types.Event {
	if !g.State.IsPlaced(g.State.CurrentRoom(), objectID) {
		return nil
	}
	obj, ok := g.State.Object(objectID)
	if !ok {
		return nil
	}
	i, ok := obj.(object.Interactable)
	if !ok {
		return nil
	}
	return g.run(i.Interact(g.State))
}

// InteractInventory runs the inventory command of a held object. An empty
// id deselects the in-hand object.
func (g *Game) InteractInventory(objectID string) []types.Event {
	if objectID == "" {
		return g.run([]types.Event{types.PutOffHand{}})
	}
	if !g.State.HasItem(objectID) {
		return nil
	}
	obj, ok := g.State.Object(objectID)
	if !ok {
		return nil
	}
	i, ok := obj.(object.InventoryInteractable)
	if !ok {
		return nil
	}
	return g.run(i.InteractInventory(g.State))
}

// Deselect empties the hand.
func (g *Game) Deselect() []types.Event {
	return g.InteractInventory("")
}

// Hold puts a held object in hand regardless of its inventory command, for
// fronts that let the player say "use knife on poster".
func (g *Game) Hold(objectID string) []types.Event {
	if !g.State.HasItem(objectID) {
		return nil
	}
	return g.run([]types.Event{types.PutInHand{ObjectID: objectID}})
}

// InsertCode types code into a Decodable object. The object does not have
// to be in the current room: a held machine can take a code too.
func (g *Game) InsertCode(objectID, code string) []types.Event {
	obj, ok := g.State.Object(objectID)
	if !ok {
		return nil
	}
	d, ok := obj.(object.Decodable)
	if !ok {
		return nil
	}
	return g.run(d.InsertCode(g.State, code))
}

// Quit ends the game.
func (g *Game) Quit() []types.Event {
	return g.run([]types.Event{types.GameEnded{}})
}

// Finished reports whether GameEnded has been resolved.
func (g *Game) Finished() bool {
	return g.State.Finished
}

// Escaped reports whether the player stands in the game's win room or in
// the room any WinMachine leads to.
func (g *Game) Escaped() bool {
	room := g.State.CurrentRoom()
	if g.Defs.Game.WinRoom != "" && room == g.Defs.Game.WinRoom {
		return true
	}
	for _, obj := range g.Defs.Objects {
		if m, ok := obj.(*object.WinMachine); ok && m.WinRoom != "" && m.WinRoom == room {
			return true
		}
	}
	return false
}

// run resolves a command's events and counts the turn if anything happened.
func (g *Game) run(evs []types.Event) []types.Event {
	if len(evs) == 0 {
		return nil
	}
	out := g.resolve(evs)
	g.State.TurnCount++
	return out
}

// resolve is a breadth-first work list: every event is applied in order and
// the events its resolution produces are appended to the end of the same
// list. The returned slice is the full list in resolution order.
func (g *Game) resolve(evs []types.Event) []types.Event {
	queue := make([]types.Event, len(evs))
	copy(queue, evs)

	for i := 0; i < len(queue); i++ {
		if i >= g.MaxCascade {
			panic(&effects.ContentError{
				Code:   effects.CodeCascadeLimit,
				Detail: "event cascade exceeded the limit; check onUnlock commands for a cycle",
			})
		}
		ev := queue[i]
		follow, err := effects.Apply(g.State, ev)
		if err != nil {
			if errors.Is(err, effects.ErrUnknownRoom) {
				g.logger.Warn("event ignored", "event", events.Key(ev), "err", err)
			} else {
				g.logger.Debug("event ignored", "event", events.Key(ev), "err", err)
			}
			continue
		}
		g.logger.Debug("resolved", "event", events.Key(ev), "follow", len(follow))
		queue = append(queue, follow...)
	}
	return queue
}
