package object

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nathoo/escapecore/engine/command"
	"github.com/nathoo/escapecore/types"
)

// view is a minimal command.View backed by a lock table and a hand slot.
type view struct {
	hand  string
	locks map[string]types.LockState
}

func (v view) CurrentRoom() string { return "room1" }

func (v view) InHand() (string, bool) { return v.hand, v.hand != "" }

func (v view) LockState(id string) (types.LockState, bool) {
	st, ok := v.locks[id]
	return st, ok
}

func (v view) HasItem(string) bool { return false }

func (v view) IsPlaced(string, string) bool { return false }

func viewOf(objs ...Object) view {
	v := view{locks: map[string]types.LockState{}}
	for _, o := range objs {
		if u, ok := o.(Unlockable); ok {
			v.locks[o.ID()] = u.LockState()
		}
	}
	return v
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want []string
	}{
		{"pickable", NewPickableObject("knife", 0.1, 0.1), []string{"placeable", "interactable", "inventory"}},
		{"simple lock", NewSelfSimpleLock("drawer", nil, 0.2, 0.1), []string{"placeable", "interactable", "unlockable"}},
		{"key lock", NewSelfKeyLock("poster", "knife", nil, 0.3, 0.4), []string{"placeable", "interactable", "unlockable"}},
		{"code lock", NewSelfAskCodeLock("safe", nil, "1234", 0.2, 0.2), []string{"placeable", "interactable", "unlockable", "decodable"}},
		{"win machine", NewWinMachine("radio", "42", "outside", 0.1, 0.1), []string{"placeable", "inventory", "unlockable", "decodable"}},
		{"door", NewMoveToRoom("door", "hall", 0.2, 0.6), []string{"placeable", "interactable"}},
		{"inspectable", NewInspectableObject("painting", 0.3, 0.3), []string{"placeable", "interactable"}},
		{"pickable inspectable", NewPickableInspectableObject("note", 0.1, 0.1), []string{"placeable", "interactable", "inventory"}},
		{"move and add", NewMoveToRoomAndAddToInventoryObject("hatch", "attic", "torch", 0.2, 0.2), []string{"placeable", "interactable"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Capabilities(tt.obj))
		})
	}
}

func TestPickableObject(t *testing.T) {
	knife := NewPickableObject("knife", 0.1, 0.05)
	v := viewOf(knife)

	assert.Equal(t, []types.Event{types.PickedUp{ObjectID: "knife"}}, knife.Interact(v))
	assert.Equal(t, []types.Event{types.PutInHand{ObjectID: "knife"}}, knife.InteractInventory(v))
	w, h := knife.Size()
	assert.Equal(t, 0.1, w)
	assert.Equal(t, 0.05, h)
}

func TestSelfSimpleLock(t *testing.T) {
	drawer := NewSelfSimpleLock("drawer", command.Inspect("drawer"), 0.2, 0.1)
	v := viewOf(drawer)

	assert.Equal(t, []types.Event{types.Unlocked{ObjectID: "drawer"}}, drawer.Interact(v))

	assert.Equal(t, []types.Event{types.Inspected{ObjectID: "drawer"}}, drawer.Unlock(v))
	assert.Equal(t, types.UnlockedState, drawer.LockState())

	v = viewOf(drawer)
	assert.Empty(t, drawer.Interact(v), "unlocked drawer answers with nothing")
}

func TestSelfKeyLock(t *testing.T) {
	poster := NewSelfKeyLock("poster", "knife", command.NoOp(), 0.3, 0.4)
	v := viewOf(poster)

	assert.Equal(t, []types.Event{types.InteractedWithLocked{ObjectID: "poster"}}, poster.Interact(v),
		"without the key only the locked fallback fires")

	v.hand = "knife"
	assert.Equal(t, []types.Event{types.Unlocked{ObjectID: "poster"}}, poster.Interact(v),
		"with the key the fallback is suppressed")
}

func TestSelfAskCodeLock(t *testing.T) {
	safe := NewSelfAskCodeLock("safe", command.Reveal("key", "room1", types.Position{X: 0.5, Y: 0.5}), "1234", 0.2, 0.2)
	v := viewOf(safe)

	assert.Equal(t, []types.Event{types.AskedForCode{ObjectID: "safe"}}, safe.Interact(v))
	assert.Equal(t, []types.Event{types.WrongCode{}}, safe.InsertCode(v, "9999"))
	assert.Equal(t, []types.Event{types.Unlocked{ObjectID: "safe"}}, safe.InsertCode(v, "1234"))

	got := safe.Unlock(v)
	assert.Equal(t, []types.Event{types.Revealed{ObjectID: "key", RoomID: "room1", Position: types.Position{X: 0.5, Y: 0.5}}}, got)

	v = viewOf(safe)
	assert.Empty(t, safe.Interact(v), "open safe no longer asks")
	assert.Empty(t, safe.InsertCode(v, "1234"))
}

func TestWinMachine(t *testing.T) {
	radio := NewWinMachine("radio", "42", "outside", 0.1, 0.1)
	v := viewOf(radio)

	assert.Equal(t, []types.Event{types.AskedForCode{ObjectID: "radio"}}, radio.InteractInventory(v))
	assert.Equal(t, []types.Event{types.Unlocked{ObjectID: "radio"}}, radio.InsertCode(v, "42"))
	assert.Equal(t, []types.Event{types.MovedToRoom{RoomID: "outside"}}, radio.Unlock(v))
}

func TestDoors(t *testing.T) {
	door := NewMoveToRoom("door", "hall", 0.2, 0.6)
	assert.Equal(t, []types.Event{types.MovedToRoom{RoomID: "hall"}}, door.Interact(viewOf()))

	hatch := NewMoveToRoomAndAddToInventoryObject("hatch", "attic", "torch", 0.2, 0.2)
	assert.Equal(t, []types.Event{
		types.MovedToRoom{RoomID: "attic"},
		types.AddedToInventory{ObjectID: "torch"},
	}, hatch.Interact(viewOf()))
}

func TestInspectables(t *testing.T) {
	painting := NewInspectableObject("painting", 0.3, 0.3)
	assert.Equal(t, []types.Event{types.Inspected{ObjectID: "painting"}}, painting.Interact(viewOf()))

	note := NewPickableInspectableObject("note", 0.1, 0.1)
	assert.Equal(t, []types.Event{types.PickedUp{ObjectID: "note"}}, note.Interact(viewOf()))
	assert.Equal(t, []types.Event{types.Inspected{ObjectID: "note"}}, note.InteractInventory(viewOf()))
}

func TestEmptyRecords(t *testing.T) {
	var (
		oi OnInteract
		ov OnInventory
		kp Keypad
		lk Lock
	)
	v := viewOf()
	assert.Nil(t, oi.Interact(v))
	assert.Nil(t, ov.InteractInventory(v))
	assert.Nil(t, kp.InsertCode(v, "1"))
	assert.Nil(t, lk.Unlock(v))
	assert.Equal(t, types.UnlockedState, lk.LockState())
}
