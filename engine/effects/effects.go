// Package effects implements centralized state mutation via the Apply
// function. Each event maps to one atomic mutation; the only event with
// follow-on events is Unlocked, which runs the object's onUnlock command.
package effects

import (
	"errors"
	"fmt"

	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/types"
)

// Code classifies a content integrity violation.
type Code string

const (
	// CodeNotUnlockable: Unlocked was resolved for an object without a lock.
	CodeNotUnlockable Code = "not_unlockable"
	// CodeCascadeLimit: one interaction produced more events than allowed.
	CodeCascadeLimit Code = "cascade_limit"
)

// ContentError reports malformed game content discovered while resolving
// events. It is raised with panic, never returned: it is not player input.
type ContentError struct {
	Code     Code
	ObjectID string
	Detail   string
}

func (e *ContentError) Error() string {
	msg := fmt.Sprintf("content error [%s]", e.Code)
	if e.ObjectID != "" {
		msg += fmt.Sprintf(" object %q", e.ObjectID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ErrUnknownRoom is returned (wrapped) when an event names a room that does
// not exist. The event is ignored.
var ErrUnknownRoom = errors.New("unknown room")

// Apply applies one event to the state and returns the events its
// resolution produces. A non-nil error means the event was ignored; the
// state is unchanged in that case.
func Apply(s *state.State, ev types.Event) ([]types.Event, error) {
	switch e := ev.(type) {
	case types.PickedUp:
		s.AddItem(e.ObjectID)

	case types.AddedToInventory:
		s.AddItem(e.ObjectID)

	case types.PutInHand:
		if !s.Select(e.ObjectID) {
			return nil, fmt.Errorf("put in hand %q: not in inventory", e.ObjectID)
		}

	case types.PutOffHand:
		s.InHandObjectID = ""

	case types.Unlocked:
		return unlock(s, e.ObjectID), nil

	case types.Revealed:
		if !s.Place(e.RoomID, e.ObjectID, e.Position) {
			return nil, fmt.Errorf("reveal %q in %q: %w", e.ObjectID, e.RoomID, ErrUnknownRoom)
		}

	case types.MovedToRoom:
		if _, ok := s.Rooms[e.RoomID]; !ok {
			return nil, fmt.Errorf("move to %q: %w", e.RoomID, ErrUnknownRoom)
		}
		s.CurrentRoomID = e.RoomID

	case types.GameEnded:
		s.Finished = true

	case types.InteractedWithLocked, types.AskedForCode, types.WrongCode, types.Inspected:
		// Signals for the front end only.

	default:
		return nil, fmt.Errorf("unhandled event %T", ev)
	}
	return nil, nil
}

// unlock flips the object's lock and returns its onUnlock events. A second
// Unlocked for the same object does nothing, so onUnlock runs at most once.
func unlock(s *state.State, id string) []types.Event {
	obj, ok := s.Object(id)
	if !ok {
		panic(&ContentError{Code: CodeNotUnlockable, ObjectID: id, Detail: "unlocked an unknown object"})
	}
	u, ok := obj.(object.Unlockable)
	if !ok {
		panic(&ContentError{
			Code:     CodeNotUnlockable,
			ObjectID: id,
			Detail:   fmt.Sprintf("%T has no lock", obj),
		})
	}
	if u.LockState() == types.UnlockedState {
		return nil
	}
	return u.Unlock(s)
}
