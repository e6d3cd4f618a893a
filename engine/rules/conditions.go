// Package rules compiles content-declared conditions into command
// predicates for Cond and Chain.
package rules

import (
	"github.com/nathoo/escapecore/engine/command"
	"github.com/nathoo/escapecore/engine/events"
	"github.com/nathoo/escapecore/types"
)

// EvalCondition evaluates a single condition against the current view and
// the events emitted so far in the enclosing chain (nil outside a chain).
func EvalCondition(c types.Condition, v command.View, emitted []types.Event) bool {
	switch c.Type {
	case "always":
		return true

	case "locked":
		id, _ := c.Params["object"].(string)
		st, ok := v.LockState(id)
		return ok && st == types.LockedState

	case "unlocked":
		id, _ := c.Params["object"].(string)
		st, ok := v.LockState(id)
		return ok && st == types.UnlockedState

	case "in_hand":
		id, _ := c.Params["object"].(string)
		held, ok := v.InHand()
		return ok && held == id

	case "has_item":
		id, _ := c.Params["object"].(string)
		return v.HasItem(id)

	case "in_room":
		room, _ := c.Params["room"].(string)
		return v.CurrentRoom() == room

	case "is_placed":
		room, _ := c.Params["room"].(string)
		id, _ := c.Params["object"].(string)
		return v.IsPlaced(room, id)

	case "emitted":
		name, _ := c.Params["event"].(string)
		id, _ := c.Params["object"].(string)
		return wasEmitted(emitted, name, id)

	case "not":
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, v, emitted)

	case "all":
		return EvalAllConditions(c.Clauses, v, emitted)

	case "any":
		for _, inner := range c.Clauses {
			if EvalCondition(inner, v, emitted) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, v command.View, emitted []types.Event) bool {
	for _, c := range conditions {
		if !EvalCondition(c, v, emitted) {
			return false
		}
	}
	return true
}

// AsPredicate compiles a condition for Cond.
func AsPredicate(c types.Condition) command.Predicate {
	return func(v command.View) bool {
		return EvalCondition(c, v, nil)
	}
}

// AsEventPredicate compiles a condition for Chain.
func AsEventPredicate(c types.Condition) command.EventPredicate {
	return func(v command.View, emitted []types.Event) bool {
		return EvalCondition(c, v, emitted)
	}
}

// wasEmitted matches events by variant name and, when id is set, by the
// object (or, for MovedToRoom, the room) they are about.
func wasEmitted(emitted []types.Event, name, id string) bool {
	for _, ev := range emitted {
		if events.Name(ev) != name {
			continue
		}
		if id == "" {
			return true
		}
		if m, ok := ev.(types.MovedToRoom); ok && m.RoomID == id {
			return true
		}
		if got, ok := events.ObjectID(ev); ok && got == id {
			return true
		}
	}
	return false
}

// Refs returns the object and room ids a condition tree mentions.
func Refs(c types.Condition) (objects, rooms []string) {
	if id, ok := c.Params["object"].(string); ok && id != "" {
		objects = append(objects, id)
	}
	if room, ok := c.Params["room"].(string); ok && room != "" {
		rooms = append(rooms, room)
	}
	if c.Inner != nil {
		o, r := Refs(*c.Inner)
		objects = append(objects, o...)
		rooms = append(rooms, r...)
	}
	for _, inner := range c.Clauses {
		o, r := Refs(inner)
		objects = append(objects, o...)
		rooms = append(rooms, r...)
	}
	return objects, rooms
}
