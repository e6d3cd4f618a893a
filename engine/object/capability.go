// Package object defines capabilities as small interfaces and the reusable
// records that provide them. A concrete object kind embeds the records for the
// capabilities it carries and satisfies exactly those interfaces; the engine
// dispatches with type assertions, never through a shared base type.
package object

import (
	"github.com/nathoo/escapecore/engine/command"
	"github.com/nathoo/escapecore/types"
)

// Object is anything with a stable id in the registry.
type Object interface {
	ID() string
}

// Placeable objects occupy space when placed in a room.
type Placeable interface {
	Object
	Size() (width, height float64)
}

// Interactable objects respond to direct interaction in a room.
type Interactable interface {
	Object
	Interact(v command.View) []types.Event
}

// InventoryInteractable objects respond to interaction while held.
type InventoryInteractable interface {
	Object
	InteractInventory(v command.View) []types.Event
}

// Unlockable objects carry a monotonic lock state and an onUnlock followup.
type Unlockable interface {
	Object
	LockState() types.LockState
	// Unlock marks the object unlocked and returns onUnlock's events,
	// evaluated against state that already sees the object unlocked.
	Unlock(v command.View) []types.Event
}

// Decodable objects accept a typed code.
type Decodable interface {
	Object
	InsertCode(v command.View, code string) []types.Event
}

// Identity provides Object.
type Identity struct {
	Key string
}

func (i Identity) ID() string { return i.Key }

// Footprint provides Placeable.
type Footprint struct {
	Width  float64
	Height float64
}

func (f Footprint) Size() (float64, float64) { return f.Width, f.Height }

// OnInteract provides Interactable.
type OnInteract struct {
	Do command.Command
}

func (o OnInteract) Interact(v command.View) []types.Event {
	if o.Do == nil {
		return nil
	}
	return o.Do(v)
}

// OnInventory provides InventoryInteractable.
type OnInventory struct {
	Do command.Command
}

func (o OnInventory) InteractInventory(v command.View) []types.Event {
	if o.Do == nil {
		return nil
	}
	return o.Do(v)
}

// Lock provides Unlockable. Embed it by value and store the object by pointer.
type Lock struct {
	State    types.LockState
	OnUnlock command.Command
}

func (l *Lock) LockState() types.LockState { return l.State }

func (l *Lock) Unlock(v command.View) []types.Event {
	l.State = types.UnlockedState
	if l.OnUnlock == nil {
		return nil
	}
	return l.OnUnlock(v)
}

// Keypad provides Decodable.
type Keypad struct {
	Check command.CodeCheck
}

func (k Keypad) InsertCode(v command.View, code string) []types.Event {
	if k.Check == nil {
		return nil
	}
	return k.Check(v, code)
}

// Capabilities lists the capability names obj carries, in a fixed order.
func Capabilities(obj Object) []string {
	var caps []string
	if _, ok := obj.(Placeable); ok {
		caps = append(caps, "placeable")
	}
	if _, ok := obj.(Interactable); ok {
		caps = append(caps, "interactable")
	}
	if _, ok := obj.(InventoryInteractable); ok {
		caps = append(caps, "inventory")
	}
	if _, ok := obj.(Unlockable); ok {
		caps = append(caps, "unlockable")
	}
	if _, ok := obj.(Decodable); ok {
		caps = append(caps, "decodable")
	}
	return caps
}
