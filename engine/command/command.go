// Package command implements interaction commands: pure functions from a
// read-only view of the game to an ordered list of events. Commands never
// mutate state; the engine resolves the events they return.
package command

import "github.com/nathoo/escapecore/types"

// View is the read-only game state a Command may inspect. Lookups go through
// object ids on every call, so a command always sees the current snapshot.
type View interface {
	CurrentRoom() string
	InHand() (string, bool)
	LockState(objectID string) (types.LockState, bool)
	HasItem(objectID string) bool
	IsPlaced(roomID, objectID string) bool
}

// Command produces the events for one interaction.
type Command func(v View) []types.Event

// CodeCheck is the behavior behind a keypad: it turns a typed code into events.
type CodeCheck func(v View, code string) []types.Event

// NoOp emits nothing.
func NoOp() Command {
	return func(View) []types.Event { return nil }
}

// Pick emits PickedUp. The room/inventory move happens during resolution.
func Pick(id string) Command {
	return func(View) []types.Event {
		return []types.Event{types.PickedUp{ObjectID: id}}
	}
}

func PutInHand(id string) Command {
	return func(View) []types.Event {
		return []types.Event{types.PutInHand{ObjectID: id}}
	}
}

func PutOffHand() Command {
	return func(View) []types.Event {
		return []types.Event{types.PutOffHand{}}
	}
}

// SimpleLock emits Unlocked while the object is locked. No key is needed.
func SimpleLock(id string) Command {
	return func(v View) []types.Event {
		if st, ok := v.LockState(id); ok && st == types.LockedState {
			return []types.Event{types.Unlocked{ObjectID: id}}
		}
		return nil
	}
}

// KeyLock emits Unlocked while the object is locked and keyID is in hand.
func KeyLock(id, keyID string) Command {
	return func(v View) []types.Event {
		st, ok := v.LockState(id)
		if !ok || st != types.LockedState {
			return nil
		}
		if held, ok := v.InHand(); ok && held == keyID {
			return []types.Event{types.Unlocked{ObjectID: id}}
		}
		return nil
	}
}

// Locked unconditionally reports that the object is locked.
func Locked(id string) Command {
	return func(View) []types.Event {
		return []types.Event{types.InteractedWithLocked{ObjectID: id}}
	}
}

func AskForCode(id string) Command {
	return func(View) []types.Event {
		return []types.Event{types.AskedForCode{ObjectID: id}}
	}
}

func Inspect(id string) Command {
	return func(View) []types.Event {
		return []types.Event{types.Inspected{ObjectID: id}}
	}
}

// Reveal places objectID at pos in roomID, which may not be the current room.
func Reveal(objectID, roomID string, pos types.Position) Command {
	return func(View) []types.Event {
		return []types.Event{types.Revealed{ObjectID: objectID, RoomID: roomID, Position: pos}}
	}
}

func MoveToRoom(roomID string) Command {
	return func(View) []types.Event {
		return []types.Event{types.MovedToRoom{RoomID: roomID}}
	}
}

func AddToInventory(objectID string) Command {
	return func(View) []types.Event {
		return []types.Event{types.AddedToInventory{ObjectID: objectID}}
	}
}

// CodeLock accepts expected as the code for id. A correct code unlocks the
// object while it is still locked; any other code yields exactly WrongCode.
func CodeLock(id, expected string) CodeCheck {
	return func(v View, code string) []types.Event {
		if code != expected {
			return []types.Event{types.WrongCode{}}
		}
		if st, ok := v.LockState(id); ok && st == types.UnlockedState {
			return nil
		}
		return []types.Event{types.Unlocked{ObjectID: id}}
	}
}
