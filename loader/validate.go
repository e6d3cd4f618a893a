package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/escapecore/engine/events"
	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/engine/rules"
	"github.com/nathoo/escapecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validator carries the indexes built from content while checking it.
type validator struct {
	c       *content
	ve      *ValidationError
	rooms   map[string]bool
	objects map[string]object.Object
	placed  map[string]string // object id -> room id
	granted map[string]bool   // revealed, given or carried at start
}

func (v *validator) errorf(format string, args ...any) {
	v.ve.Errors = append(v.ve.Errors, fmt.Sprintf(format, args...))
}

func (v *validator) warnf(format string, args ...any) {
	v.ve.Warnings = append(v.ve.Warnings, fmt.Sprintf(format, args...))
}

// validate checks content for referential integrity and consistency. It
// returns the warnings, and a *ValidationError if anything is wrong.
func validate(c *content) ([]string, error) {
	v := &validator{
		c:       c,
		ve:      &ValidationError{},
		rooms:   map[string]bool{},
		objects: map[string]object.Object{},
		placed:  map[string]string{},
		granted: map[string]bool{},
	}

	// Game metadata.
	if c.Game.Title == "" {
		v.errorf("Game.title is required")
	}

	// Rooms and objects, with duplicate detection.
	for _, r := range c.Rooms {
		if v.rooms[r.ID] {
			v.errorf("duplicate room id %q", r.ID)
		}
		v.rooms[r.ID] = true
	}
	for _, o := range c.Objects {
		if _, dup := v.objects[o.ID]; dup {
			v.errorf("duplicate object id %q", o.ID)
			continue
		}
		if v.rooms[o.ID] {
			v.errorf("object id %q is also a room id", o.ID)
		}
		v.objects[o.ID] = buildObject(o, c.Game)
	}

	if c.Game.Start == "" {
		v.errorf("Game.start is required")
	} else if !v.rooms[c.Game.Start] {
		v.errorf("Game.start references unknown room %q", c.Game.Start)
	}
	if c.Game.WinRoom != "" && !v.rooms[c.Game.WinRoom] {
		v.errorf("Game.win_room references unknown room %q", c.Game.WinRoom)
	}

	v.checkPlacements()
	v.checkInventory()
	for _, o := range c.Objects {
		v.checkObject(o)
	}
	v.checkOrphans()
	v.checkMessages()

	if len(v.ve.Errors) > 0 {
		return v.ve.Warnings, v.ve
	}
	return v.ve.Warnings, nil
}

func (v *validator) checkPlacements() {
	for _, r := range v.c.Rooms {
		for _, id := range r.Order {
			obj, ok := v.objects[id]
			if !ok {
				v.errorf("room %q places unknown object %q", r.ID, id)
				continue
			}
			if _, ok := obj.(object.Placeable); !ok {
				v.errorf("room %q places object %q, which cannot be placed", r.ID, id)
			}
			if other, dup := v.placed[id]; dup {
				v.errorf("object %q is placed in both %q and %q", id, other, r.ID)
				continue
			}
			v.placed[id] = r.ID
		}
	}
}

func (v *validator) checkInventory() {
	seen := map[string]bool{}
	for _, id := range v.c.Inventory {
		obj, ok := v.objects[id]
		if !ok {
			v.errorf("Game.inventory references unknown object %q", id)
			continue
		}
		if seen[id] {
			v.errorf("Game.inventory lists %q twice", id)
		}
		seen[id] = true
		v.granted[id] = true
		if room, ok := v.placed[id]; ok {
			v.errorf("object %q starts in the inventory and in room %q", id, room)
		}
		if _, ok := obj.(object.InventoryInteractable); !ok {
			v.errorf("inventory object %q cannot be used from the inventory", id)
		}
	}
}

func (v *validator) checkObject(o objectDef) {
	where := fmt.Sprintf("object %q", o.ID)

	if o.Width <= 0 || o.Height <= 0 {
		v.errorf("%s: width and height must be positive", where)
	}

	switch o.Kind {
	case "SelfKeyLock":
		if o.Key == "" {
			v.errorf("%s: key is required", where)
		} else {
			v.requireObject(where+" key", o.Key)
		}
	case "SelfAskCodeLock":
		if o.Code == "" {
			v.errorf("%s: code is required", where)
		}
	case "WinMachine":
		if o.Code == "" {
			v.errorf("%s: code is required", where)
		}
		room := winRoom(o, v.c.Game)
		if room == "" {
			v.errorf("%s: win_room is required (on the object or on Game)", where)
		} else {
			v.requireRoom(where+" win_room", room)
		}
	case "MoveToRoom":
		v.requireField(where, "room", o.Room)
		v.requireRoom(where, o.Room)
	case "MoveToRoomAndAddToInventory":
		v.requireField(where, "room", o.Room)
		v.requireRoom(where, o.Room)
		v.requireField(where, "item", o.Item)
		v.requireObject(where+" item", o.Item)
		v.granted[o.Item] = true
	}

	if o.OnUnlock != nil {
		if _, ok := v.objects[o.ID].(object.Unlockable); !ok {
			v.errorf("%s: on_unlock is set but %s objects never unlock", where, o.Kind)
		}
		v.checkCommand(where+" on_unlock", *o.OnUnlock)
	}
}

func (v *validator) requireField(where, field, value string) {
	if value == "" {
		v.errorf("%s: %s is required", where, field)
	}
}

func (v *validator) requireObject(where, id string) {
	if id == "" {
		return
	}
	if _, ok := v.objects[id]; !ok {
		v.errorf("%s references unknown object %q", where, id)
	}
}

func (v *validator) requireRoom(where, id string) {
	if id == "" {
		return
	}
	if !v.rooms[id] {
		v.errorf("%s references unknown room %q", where, id)
	}
}

// requireUnlockable reports commands that would resolve Unlocked against an
// object that cannot unlock, which panics at run time.
func (v *validator) requireUnlockable(where, id string) {
	obj, ok := v.objects[id]
	if !ok {
		return
	}
	if _, ok := obj.(object.Unlockable); !ok {
		v.errorf("%s targets %q, which has no lock", where, id)
	}
}

func (v *validator) checkCommand(where string, cmd commandDef) {
	switch cmd.Type {
	case "pick", "put_in_hand", "inspect", "locked":
		v.requireObject(where, cmd.Object)
	case "simple_lock":
		v.requireObject(where, cmd.Object)
		v.requireUnlockable(where, cmd.Object)
	case "key_lock":
		v.requireObject(where, cmd.Object)
		v.requireUnlockable(where, cmd.Object)
		v.requireObject(where+" key", cmd.Key)
	case "ask_for_code":
		v.requireObject(where, cmd.Object)
		if obj, ok := v.objects[cmd.Object]; ok {
			if _, ok := obj.(object.Decodable); !ok {
				v.errorf("%s asks %q for a code, but it has no keypad", where, cmd.Object)
			}
		}
	case "reveal":
		v.requireObject(where, cmd.Object)
		v.requireRoom(where, cmd.Room)
		if obj, ok := v.objects[cmd.Object]; ok {
			if _, ok := obj.(object.Placeable); !ok {
				v.errorf("%s reveals %q, which cannot be placed", where, cmd.Object)
			}
		}
		v.granted[cmd.Object] = true
	case "move_to":
		v.requireRoom(where, cmd.Room)
	case "add_to_inventory":
		v.requireObject(where, cmd.Object)
		v.granted[cmd.Object] = true
	case "combine":
		for _, child := range cmd.Cmds {
			v.checkCommand(where, child)
		}
	case "cond", "chain":
		for _, cl := range cmd.Clauses {
			v.checkCondition(where, cl.When)
			v.checkCommand(where, cl.Then)
		}
	}
}

func (v *validator) checkCondition(where string, c types.Condition) {
	objects, rooms := rules.Refs(c)
	for _, id := range objects {
		// Emitted(MovedToRoom, id) names a room.
		if v.rooms[id] {
			continue
		}
		v.requireObject(where+" condition", id)
	}
	for _, id := range rooms {
		v.requireRoom(where+" condition", id)
	}
	v.checkConditionTypes(where, c)
}

func (v *validator) checkConditionTypes(where string, c types.Condition) {
	switch c.Type {
	case "locked", "unlocked":
		id, _ := c.Params["object"].(string)
		if obj, ok := v.objects[id]; ok {
			if _, ok := obj.(object.Unlockable); !ok {
				v.errorf("%s checks the lock of %q, which has no lock", where, id)
			}
		}
	case "emitted":
		name, _ := c.Params["event"].(string)
		if !events.IsName(name) {
			v.errorf("%s condition references unknown event %q", where, name)
		}
	}
	if c.Inner != nil {
		v.checkConditionTypes(where, *c.Inner)
	}
	for _, inner := range c.Clauses {
		v.checkConditionTypes(where, inner)
	}
}

// checkOrphans warns about objects the player can never reach.
func (v *validator) checkOrphans() {
	ids := make([]string, 0, len(v.objects))
	for id := range v.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, ok := v.placed[id]; ok || v.granted[id] {
			continue
		}
		v.warnf("object %q is never placed, revealed or given", id)
	}
}

// checkMessages warns about message keys no event can produce.
func (v *validator) checkMessages() {
	keys := make([]string, 0, len(v.c.Messages))
	for k := range v.c.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		name, args, _ := strings.Cut(key, "(")
		if !events.IsName(name) {
			v.warnf("message %q names unknown event %q", key, name)
			continue
		}
		args = strings.TrimSuffix(args, ")")
		if args == "" {
			continue
		}
		for _, arg := range strings.Split(args, ",") {
			arg = strings.TrimSpace(arg)
			if _, ok := v.objects[arg]; !ok && !v.rooms[arg] {
				v.warnf("message %q references unknown id %q", key, arg)
			}
		}
	}
}
