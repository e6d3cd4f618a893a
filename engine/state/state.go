// Package state owns the mutable game aggregate: room placements, the
// inventory, the held item and the finished flag. State implements
// command.View so commands can read it without being able to mutate it.
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/types"
)

// Defs holds the game content loaded from Lua. Objects carry their own
// capability state (a Lock flips to unlocked), so a Defs value backs exactly
// one game; load a fresh one per session.
type Defs struct {
	Game      types.GameDef
	Objects   map[string]object.Object
	Rooms     map[string]types.Room
	Inventory []string
	Messages  map[string]string
}

// State is the mutable game aggregate.
type State struct {
	Objects        map[string]object.Object
	Rooms          map[string]types.Room
	CurrentRoomID  string
	Inventory      []string
	InHandObjectID string
	Finished       bool
	TurnCount      int
}

// NewState creates a fresh game state from definitions. Room placements and
// the inventory are copied so the Defs maps are never mutated.
func NewState(defs *Defs) *State {
	rooms := make(map[string]types.Room, len(defs.Rooms))
	for id, room := range defs.Rooms {
		r := make(types.Room, len(room))
		for obj, pos := range room {
			r[obj] = pos
		}
		rooms[id] = r
	}
	inv := make([]string, len(defs.Inventory))
	copy(inv, defs.Inventory)

	return &State{
		Objects:       defs.Objects,
		Rooms:         rooms,
		CurrentRoomID: defs.Game.Start,
		Inventory:     inv,
	}
}

func (s *State) CurrentRoom() string { return s.CurrentRoomID }

func (s *State) InHand() (string, bool) {
	return s.InHandObjectID, s.InHandObjectID != ""
}

// LockState reports the lock state of an Unlockable object. The second
// result is false for unknown ids and objects without a lock.
func (s *State) LockState(objectID string) (types.LockState, bool) {
	obj, ok := s.Objects[objectID]
	if !ok {
		return 0, false
	}
	u, ok := obj.(object.Unlockable)
	if !ok {
		return 0, false
	}
	return u.LockState(), true
}

// HasItem returns true if the player has the given item in inventory.
func (s *State) HasItem(objectID string) bool {
	for _, id := range s.Inventory {
		if id == objectID {
			return true
		}
	}
	return false
}

// IsPlaced returns true if the object is visible in the given room.
func (s *State) IsPlaced(roomID, objectID string) bool {
	room, ok := s.Rooms[roomID]
	if !ok {
		return false
	}
	_, ok = room[objectID]
	return ok
}

// Object returns the registered object with the given id.
func (s *State) Object(id string) (object.Object, bool) {
	obj, ok := s.Objects[id]
	return obj, ok
}

// ObjectsInRoom returns the ids placed in a room, sorted for deterministic
// output.
func (s *State) ObjectsInRoom(roomID string) []string {
	room := s.Rooms[roomID]
	ids := make([]string, 0, len(room))
	for id := range room {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Locate returns the room an object is placed in.
func (s *State) Locate(objectID string) (string, bool) {
	for roomID, room := range s.Rooms {
		if _, ok := room[objectID]; ok {
			return roomID, true
		}
	}
	return "", false
}

// Unplace removes an object from every room.
func (s *State) Unplace(objectID string) {
	for _, room := range s.Rooms {
		delete(room, objectID)
	}
}

// Place puts an object at pos in roomID, removing it from any other room and
// from the inventory. Returns false if the room is unknown.
func (s *State) Place(roomID, objectID string, pos types.Position) bool {
	room, ok := s.Rooms[roomID]
	if !ok {
		return false
	}
	s.Unplace(objectID)
	s.RemoveItem(objectID)
	room[objectID] = pos
	return true
}

// AddItem takes an object out of every room and appends it to the
// inventory unless already held.
func (s *State) AddItem(objectID string) {
	s.Unplace(objectID)
	if !s.HasItem(objectID) {
		s.Inventory = append(s.Inventory, objectID)
	}
}

// RemoveItem drops an object from the inventory, clearing the hand if it
// was the held item.
func (s *State) RemoveItem(objectID string) {
	for i, id := range s.Inventory {
		if id == objectID {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
			break
		}
	}
	if s.InHandObjectID == objectID {
		s.InHandObjectID = ""
	}
}

// Select sets the held item. Only inventory items can be held.
func (s *State) Select(objectID string) bool {
	if !s.HasItem(objectID) {
		return false
	}
	s.InHandObjectID = objectID
	return true
}

// CheckInvariants reports the first broken structural invariant: an object
// placed in two rooms, placed while held, listed twice in the inventory, a
// held item missing from the inventory, or an unknown current room.
func (s *State) CheckInvariants() error {
	if _, ok := s.Rooms[s.CurrentRoomID]; !ok {
		return fmt.Errorf("current room %q does not exist", s.CurrentRoomID)
	}
	placed := map[string]string{}
	for _, roomID := range sortedKeys(s.Rooms) {
		for id := range s.Rooms[roomID] {
			if prev, ok := placed[id]; ok {
				return fmt.Errorf("object %q placed in both %q and %q", id, prev, roomID)
			}
			placed[id] = roomID
		}
	}
	seen := map[string]bool{}
	for _, id := range s.Inventory {
		if seen[id] {
			return fmt.Errorf("object %q held twice", id)
		}
		seen[id] = true
		if roomID, ok := placed[id]; ok {
			return fmt.Errorf("object %q is both held and placed in %q", id, roomID)
		}
	}
	if s.InHandObjectID != "" && !seen[s.InHandObjectID] {
		return fmt.Errorf("in-hand object %q is not in the inventory", s.InHandObjectID)
	}
	return nil
}

func sortedKeys(rooms map[string]types.Room) []string {
	keys := make([]string, 0, len(rooms))
	for k := range rooms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
