package object

import (
	"github.com/nathoo/escapecore/engine/command"
	"github.com/nathoo/escapecore/types"
)

// PickableObject can be picked up and then held.
type PickableObject struct {
	Identity
	Footprint
	OnInteract
	OnInventory
}

func NewPickableObject(id string, width, height float64) *PickableObject {
	return &PickableObject{
		Identity:    Identity{Key: id},
		Footprint:   Footprint{Width: width, Height: height},
		OnInteract:  OnInteract{Do: command.Pick(id)},
		OnInventory: OnInventory{Do: command.PutInHand(id)},
	}
}

// SelfSimpleLock opens on first touch.
type SelfSimpleLock struct {
	Identity
	Footprint
	OnInteract
	Lock
}

func NewSelfSimpleLock(id string, onUnlock command.Command, width, height float64) *SelfSimpleLock {
	return &SelfSimpleLock{
		Identity:   Identity{Key: id},
		Footprint:  Footprint{Width: width, Height: height},
		OnInteract: OnInteract{Do: tryUnlock(id, command.SimpleLock(id))},
		Lock:       Lock{State: types.LockedState, OnUnlock: onUnlock},
	}
}

// SelfKeyLock opens when keyID is in hand.
type SelfKeyLock struct {
	Identity
	Footprint
	OnInteract
	Lock
	KeyID string
}

func NewSelfKeyLock(id, keyID string, onUnlock command.Command, width, height float64) *SelfKeyLock {
	return &SelfKeyLock{
		Identity:   Identity{Key: id},
		Footprint:  Footprint{Width: width, Height: height},
		OnInteract: OnInteract{Do: tryUnlock(id, command.KeyLock(id, keyID))},
		Lock:       Lock{State: types.LockedState, OnUnlock: onUnlock},
		KeyID:      keyID,
	}
}

// SelfAskCodeLock asks for a code while locked and opens on the right one.
type SelfAskCodeLock struct {
	Identity
	Footprint
	OnInteract
	Lock
	Keypad
}

func NewSelfAskCodeLock(id string, onUnlock command.Command, code string, width, height float64) *SelfAskCodeLock {
	return &SelfAskCodeLock{
		Identity:  Identity{Key: id},
		Footprint: Footprint{Width: width, Height: height},
		OnInteract: OnInteract{Do: command.Cond(
			command.Clause{When: command.IsLocked(id), Then: command.AskForCode(id)},
		)},
		Lock:   Lock{State: types.LockedState, OnUnlock: onUnlock},
		Keypad: Keypad{Check: command.CodeLock(id, code)},
	}
}

// WinMachine is used from the inventory; the right code moves the player to
// the win room.
type WinMachine struct {
	Identity
	Footprint
	OnInventory
	Lock
	Keypad
	WinRoom string
}

func NewWinMachine(id, code, winRoomID string, width, height float64) *WinMachine {
	return &WinMachine{
		Identity:    Identity{Key: id},
		Footprint:   Footprint{Width: width, Height: height},
		OnInventory: OnInventory{Do: command.AskForCode(id)},
		Lock:        Lock{State: types.LockedState, OnUnlock: command.MoveToRoom(winRoomID)},
		Keypad:      Keypad{Check: command.CodeLock(id, code)},
		WinRoom:     winRoomID,
	}
}

// MoveToRoom is a door: touching it changes the active room.
type MoveToRoom struct {
	Identity
	Footprint
	OnInteract
}

func NewMoveToRoom(id, roomID string, width, height float64) *MoveToRoom {
	return &MoveToRoom{
		Identity:   Identity{Key: id},
		Footprint:  Footprint{Width: width, Height: height},
		OnInteract: OnInteract{Do: command.MoveToRoom(roomID)},
	}
}

// InspectableObject shows a close-up when touched.
type InspectableObject struct {
	Identity
	Footprint
	OnInteract
}

func NewInspectableObject(id string, width, height float64) *InspectableObject {
	return &InspectableObject{
		Identity:   Identity{Key: id},
		Footprint:  Footprint{Width: width, Height: height},
		OnInteract: OnInteract{Do: command.Inspect(id)},
	}
}

// PickableInspectableObject is picked up, then inspected from the inventory.
type PickableInspectableObject struct {
	Identity
	Footprint
	OnInteract
	OnInventory
}

func NewPickableInspectableObject(id string, width, height float64) *PickableInspectableObject {
	return &PickableInspectableObject{
		Identity:    Identity{Key: id},
		Footprint:   Footprint{Width: width, Height: height},
		OnInteract:  OnInteract{Do: command.Pick(id)},
		OnInventory: OnInventory{Do: command.Inspect(id)},
	}
}

// MoveToRoomAndAddToInventoryObject moves the player and grants an object.
type MoveToRoomAndAddToInventoryObject struct {
	Identity
	Footprint
	OnInteract
}

func NewMoveToRoomAndAddToInventoryObject(id, roomID, objectID string, width, height float64) *MoveToRoomAndAddToInventoryObject {
	return &MoveToRoomAndAddToInventoryObject{
		Identity:  Identity{Key: id},
		Footprint: Footprint{Width: width, Height: height},
		OnInteract: OnInteract{Do: command.Combine(
			command.MoveToRoom(roomID),
			command.AddToInventory(objectID),
		)},
	}
}

// tryUnlock runs unlock and, unless it just succeeded, reports the object as
// locked. Once unlocked the object answers with nothing.
func tryUnlock(id string, unlock command.Command) command.Command {
	return command.Chain(
		command.ChainClause{When: command.Always(), Then: unlock},
		command.ChainClause{When: command.StillLocked(id), Then: command.Locked(id)},
	)
}
