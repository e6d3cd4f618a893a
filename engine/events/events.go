// Package events renders domain events as canonical keys and maps them to
// player-facing messages. Content addresses messages by key, so keys are
// stable: "PickedUp(knife)", "Revealed(key,room1)", "WrongCode()".
package events

import (
	"fmt"

	"github.com/nathoo/escapecore/types"
)

// Names lists every event variant name, in the order of types/events.go.
var Names = []string{
	"PickedUp", "PutInHand", "PutOffHand", "InteractedWithLocked", "Unlocked",
	"Revealed", "MovedToRoom", "AskedForCode", "WrongCode", "Inspected",
	"GameEnded", "AddedToInventory",
}

// IsName reports whether name is a known event variant.
func IsName(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Name returns the event's variant name.
func Name(ev types.Event) string {
	switch ev.(type) {
	case types.PickedUp:
		return "PickedUp"
	case types.PutInHand:
		return "PutInHand"
	case types.PutOffHand:
		return "PutOffHand"
	case types.InteractedWithLocked:
		return "InteractedWithLocked"
	case types.Unlocked:
		return "Unlocked"
	case types.Revealed:
		return "Revealed"
	case types.MovedToRoom:
		return "MovedToRoom"
	case types.AskedForCode:
		return "AskedForCode"
	case types.WrongCode:
		return "WrongCode"
	case types.Inspected:
		return "Inspected"
	case types.GameEnded:
		return "GameEnded"
	case types.AddedToInventory:
		return "AddedToInventory"
	default:
		return fmt.Sprintf("%T", ev)
	}
}

// Key returns the canonical key of an event: its name followed by its
// identifying arguments. Positions are not part of the key.
func Key(ev types.Event) string {
	return Name(ev) + "(" + args(ev) + ")"
}

// ObjectID returns the object an event is about, if any.
func ObjectID(ev types.Event) (string, bool) {
	switch e := ev.(type) {
	case types.PickedUp:
		return e.ObjectID, true
	case types.PutInHand:
		return e.ObjectID, true
	case types.InteractedWithLocked:
		return e.ObjectID, true
	case types.Unlocked:
		return e.ObjectID, true
	case types.Revealed:
		return e.ObjectID, true
	case types.AskedForCode:
		return e.ObjectID, true
	case types.Inspected:
		return e.ObjectID, true
	case types.AddedToInventory:
		return e.ObjectID, true
	default:
		return "", false
	}
}

func args(ev types.Event) string {
	switch e := ev.(type) {
	case types.Revealed:
		return e.ObjectID + "," + e.RoomID
	case types.MovedToRoom:
		return e.RoomID
	}
	if id, ok := ObjectID(ev); ok {
		return id
	}
	return ""
}

// MessageProvider maps an event to text for the player. ok is false when
// the event has nothing to say.
type MessageProvider interface {
	Message(ev types.Event) (text string, ok bool)
}

// ProviderFunc adapts a function to MessageProvider.
type ProviderFunc func(ev types.Event) (string, bool)

func (f ProviderFunc) Message(ev types.Event) (string, bool) { return f(ev) }

// DictProvider looks the event up by its exact key, then by its bare name,
// so content can give one generic text for every WrongCode.
func DictProvider(messages map[string]string) MessageProvider {
	return ProviderFunc(func(ev types.Event) (string, bool) {
		if text, ok := messages[Key(ev)]; ok {
			return text, true
		}
		text, ok := messages[Name(ev)]
		return text, ok
	})
}

// Describe returns the message lines for events, in order, skipping events
// without text. A nil provider yields nothing.
func Describe(p MessageProvider, evs []types.Event) []string {
	if p == nil {
		return nil
	}
	var lines []string
	for _, ev := range evs {
		if text, ok := p.Message(ev); ok && text != "" {
			lines = append(lines, text)
		}
	}
	return lines
}

// Filter returns the events of type T in evs.
func Filter[T types.Event](evs []types.Event) []T {
	var out []T
	for _, ev := range evs {
		if e, ok := ev.(T); ok {
			out = append(out, e)
		}
	}
	return out
}
