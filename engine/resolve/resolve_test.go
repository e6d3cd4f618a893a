package resolve

import (
	"errors"
	"testing"

	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/types"
)

func testState() *state.State {
	defs := &state.Defs{
		Game: types.GameDef{Start: "hall"},
		Objects: map[string]object.Object{
			"a1-knife":        object.NewPickableObject("a1-knife", 0.1, 0.1),
			"old_radio":       object.NewWinMachine("old_radio", "42", "outside", 0.1, 0.1),
			"red_key":         object.NewPickableObject("red_key", 0.1, 0.1),
			"blue_key":        object.NewPickableObject("blue_key", 0.1, 0.1),
			"iron_door":       object.NewMoveToRoom("iron_door", "cellar", 0.2, 0.6),
			"cellar_painting": object.NewInspectableObject("cellar_painting", 0.2, 0.2),
		},
		Rooms: map[string]types.Room{
			"hall": {
				"a1-knife":  {X: 0.1, Y: 0.1},
				"red_key":   {X: 0.2, Y: 0.2},
				"blue_key":  {X: 0.3, Y: 0.3},
				"iron_door": {X: 0.9, Y: 0.5},
			},
			"cellar": {"cellar_painting": {X: 0.5, Y: 0.5}},
		},
		Inventory: []string{"old_radio"},
	}
	return state.NewState(defs)
}

func TestRoom(t *testing.T) {
	s := testState()

	tests := []struct {
		name string
		want string
	}{
		{"a1-knife", "a1-knife"},
		{"knife", "a1-knife"},
		{"Knife", "a1-knife"},
		{"iron door", "iron_door"},
		{"door", "iron_door"},
		{"red key", "red_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Room(s, tt.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRoom_Ambiguous(t *testing.T) {
	s := testState()

	_, err := Room(s, "key")
	var amb *AmbiguityError
	if !errors.As(err, &amb) {
		t.Fatalf("expected AmbiguityError, got %v", err)
	}
	if len(amb.Candidates) != 2 || amb.Candidates[0] != "blue_key" || amb.Candidates[1] != "red_key" {
		t.Errorf("expected [blue_key red_key], got %v", amb.Candidates)
	}
	if amb.Error() != "which key? (blue_key, red_key)" {
		t.Errorf("unexpected message %q", amb.Error())
	}
}

func TestRoom_OtherRoomNotVisible(t *testing.T) {
	s := testState()

	_, err := Room(s, "painting")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Error() != `you don't see "painting" here` {
		t.Errorf("unexpected message %q", nf.Error())
	}
}

func TestRoom_PartialSegmentDoesNotMatch(t *testing.T) {
	s := testState()

	if _, err := Room(s, "kni"); err == nil {
		t.Error("expected a partial word not to match")
	}
}

func TestInventory(t *testing.T) {
	s := testState()

	got, err := Inventory(s, "radio")
	if err != nil || got != "old_radio" {
		t.Errorf("expected old_radio, got %q (%v)", got, err)
	}

	_, err = Inventory(s, "knife")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Error() != `you don't have "knife" in your inventory` {
		t.Errorf("unexpected message %q", nf.Error())
	}
}

func TestAny_PrefersInventory(t *testing.T) {
	s := testState()

	if got, err := Any(s, "radio"); err != nil || got != "old_radio" {
		t.Errorf("expected old_radio, got %q (%v)", got, err)
	}
	if got, err := Any(s, "door"); err != nil || got != "iron_door" {
		t.Errorf("expected iron_door, got %q (%v)", got, err)
	}
}
