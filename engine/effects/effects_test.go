package effects

import (
	"errors"
	"testing"

	"github.com/nathoo/escapecore/engine/command"
	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/types"
)

var keyPos = types.Position{X: 0.5, Y: 0.5}

func testSetup() *state.State {
	defs := &state.Defs{
		Game: types.GameDef{Start: "room1"},
		Objects: map[string]object.Object{
			"knife":  object.NewPickableObject("knife", 0.1, 0.1),
			"poster": object.NewSelfKeyLock("poster", "knife", command.Reveal("key", "room1", keyPos), 0.3, 0.4),
			"key":    object.NewPickableObject("key", 0.1, 0.1),
			"door":   object.NewMoveToRoom("door", "room2", 0.2, 0.6),
		},
		Rooms: map[string]types.Room{
			"room1": {
				"knife":  {X: 0.2, Y: 0.8},
				"poster": {X: 0.5, Y: 0.3},
				"door":   {X: 0.9, Y: 0.5},
			},
			"room2": {},
		},
	}
	return state.NewState(defs)
}

func TestApply_PickedUp(t *testing.T) {
	s := testSetup()

	follow, err := Apply(s, types.PickedUp{ObjectID: "knife"})
	if err != nil || follow != nil {
		t.Fatalf("expected no follow-on and no error, got %v, %v", follow, err)
	}
	if s.IsPlaced("room1", "knife") {
		t.Error("expected knife removed from room1")
	}
	if !s.HasItem("knife") {
		t.Error("expected knife in inventory")
	}

	Apply(s, types.PickedUp{ObjectID: "knife"})
	if len(s.Inventory) != 1 {
		t.Errorf("expected knife held once, got %v", s.Inventory)
	}
}

func TestApply_AddedToInventory(t *testing.T) {
	s := testSetup()

	Apply(s, types.AddedToInventory{ObjectID: "key"})

	if !s.HasItem("key") {
		t.Error("expected key in inventory")
	}
}

func TestApply_HandSelection(t *testing.T) {
	s := testSetup()

	if _, err := Apply(s, types.PutInHand{ObjectID: "knife"}); err == nil {
		t.Error("expected holding a placed object to be ignored")
	}
	if _, ok := s.InHand(); ok {
		t.Error("expected empty hand")
	}

	Apply(s, types.PickedUp{ObjectID: "knife"})
	Apply(s, types.PutInHand{ObjectID: "knife"})
	if id, _ := s.InHand(); id != "knife" {
		t.Errorf("expected knife in hand, got %q", id)
	}

	Apply(s, types.PutOffHand{})
	if _, ok := s.InHand(); ok {
		t.Error("expected hand cleared")
	}
}

func TestApply_Unlocked_RunsOnUnlockOnce(t *testing.T) {
	s := testSetup()

	follow, err := Apply(s, types.Unlocked{ObjectID: "poster"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := types.Revealed{ObjectID: "key", RoomID: "room1", Position: keyPos}
	if len(follow) != 1 || follow[0] != expected {
		t.Fatalf("expected [%v], got %v", expected, follow)
	}
	if st, _ := s.LockState("poster"); st != types.UnlockedState {
		t.Errorf("expected poster unlocked, got %v", st)
	}

	follow, _ = Apply(s, types.Unlocked{ObjectID: "poster"})
	if len(follow) != 0 {
		t.Errorf("expected second unlock to be a no-op, got %v", follow)
	}
}

func TestApply_Unlocked_OnUnlockSeesUnlockedState(t *testing.T) {
	s := testSetup()
	s.Objects["drawer"] = object.NewSelfSimpleLock("drawer", command.Cond(
		command.Clause{When: command.IsLocked("drawer"), Then: command.Locked("drawer")},
		command.Clause{Then: command.Inspect("drawer")},
	), 0.2, 0.1)

	follow, err := Apply(s, types.Unlocked{ObjectID: "drawer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := types.Inspected{ObjectID: "drawer"}
	if len(follow) != 1 || follow[0] != want {
		t.Errorf("expected [%v], got %v", want, follow)
	}
}

func TestApply_Unlocked_WithoutLockPanics(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"no lock capability", "knife"},
		{"unknown object", "ghost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSetup()
			defer func() {
				r := recover()
				ce, ok := r.(*ContentError)
				if !ok {
					t.Fatalf("expected *ContentError panic, got %v", r)
				}
				if ce.Code != CodeNotUnlockable || ce.ObjectID != tt.id {
					t.Errorf("expected not_unlockable for %q, got %v", tt.id, ce)
				}
			}()
			Apply(s, types.Unlocked{ObjectID: tt.id})
		})
	}
}

func TestApply_Revealed_AnyRoom(t *testing.T) {
	s := testSetup()

	Apply(s, types.Revealed{ObjectID: "key", RoomID: "room2", Position: keyPos})

	if !s.IsPlaced("room2", "key") {
		t.Error("expected key placed in room2 even though room1 is active")
	}
	if got := s.Rooms["room2"]["key"]; got != keyPos {
		t.Errorf("expected %v, got %v", keyPos, got)
	}
}

func TestApply_UnknownRoomIgnored(t *testing.T) {
	s := testSetup()

	_, err := Apply(s, types.MovedToRoom{RoomID: "attic"})
	if !errors.Is(err, ErrUnknownRoom) {
		t.Errorf("expected ErrUnknownRoom, got %v", err)
	}
	if s.CurrentRoom() != "room1" {
		t.Errorf("expected to stay in room1, got %q", s.CurrentRoom())
	}

	_, err = Apply(s, types.Revealed{ObjectID: "key", RoomID: "attic"})
	if !errors.Is(err, ErrUnknownRoom) {
		t.Errorf("expected ErrUnknownRoom, got %v", err)
	}
}

func TestApply_MovedToRoom(t *testing.T) {
	s := testSetup()

	Apply(s, types.MovedToRoom{RoomID: "room2"})

	if s.CurrentRoom() != "room2" {
		t.Errorf("expected room2, got %q", s.CurrentRoom())
	}
}

func TestApply_GameEnded(t *testing.T) {
	s := testSetup()

	Apply(s, types.GameEnded{})

	if !s.Finished {
		t.Error("expected game finished")
	}
}

func TestApply_SignalsDoNotMutate(t *testing.T) {
	s := testSetup()
	signals := []types.Event{
		types.InteractedWithLocked{ObjectID: "poster"},
		types.AskedForCode{ObjectID: "poster"},
		types.WrongCode{},
		types.Inspected{ObjectID: "poster"},
	}
	for _, ev := range signals {
		follow, err := Apply(s, ev)
		if follow != nil || err != nil {
			t.Errorf("%T: expected nothing, got %v, %v", ev, follow, err)
		}
	}
	if st, _ := s.LockState("poster"); st != types.LockedState {
		t.Error("expected poster still locked")
	}
	if len(s.Inventory) != 0 || s.CurrentRoom() != "room1" {
		t.Error("expected state unchanged")
	}
}

func TestContentError_Message(t *testing.T) {
	err := &ContentError{Code: CodeNotUnlockable, ObjectID: "knife", Detail: "no lock"}
	expected := `content error [not_unlockable] object "knife": no lock`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
