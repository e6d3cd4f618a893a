package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// objectKinds are the curried object constructors exposed to Lua.
var objectKinds = []string{
	"PickableObject",
	"SelfSimpleLock",
	"SelfKeyLock",
	"SelfAskCodeLock",
	"WinMachine",
	"MoveToRoom",
	"InspectableObject",
	"PickableInspectableObject",
	"MoveToRoomAndAddToInventory",
}

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerCommandHelpers(L)
	registerConditionHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Room "id" { objects = { ... } }: curried, Room("id") returns a
	// function that takes a table.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rooms = append(coll.rooms, rawRoom{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// PickableObject "id" { ... } and friends, curried the same way.
	for _, kind := range objectKinds {
		kind := kind
		L.SetGlobal(kind, L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.OptTable(1, L.NewTable())
				coll.objects = append(coll.objects, rawObject{id: id, kind: kind, table: tbl})
				return 0
			}))
			return 1
		}))
	}

	// Messages { ["PickedUp(knife)"] = "..." } may be called more than once.
	L.SetGlobal("Messages", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.messages = append(coll.messages, tbl)
		return 0
	}))
}

// newHelper registers a global that returns a {type = typ, field = arg...}
// table, one string argument per field.
func newHelper(L *lua.LState, name, typ string, fields ...string) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(typ))
		for i, field := range fields {
			tbl.RawSetString(field, lua.LString(L.CheckString(i+1)))
		}
		L.Push(tbl)
		return 1
	}))
}

// newListHelper registers a global that collects its table arguments into
// {type = typ, items = {...}}.
func newListHelper(L *lua.LState, name, typ string) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		items := L.NewTable()
		for i := 1; i <= L.GetTop(); i++ {
			items.Append(L.CheckTable(i))
		}
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(typ))
		tbl.RawSetString("items", items)
		L.Push(tbl)
		return 1
	}))
}

func registerCommandHelpers(L *lua.LState) {
	newHelper(L, "NoOp", "noop")
	newHelper(L, "Pick", "pick", "object")
	newHelper(L, "PutInHand", "put_in_hand", "object")
	newHelper(L, "PutOffHand", "put_off_hand")
	newHelper(L, "SimpleLock", "simple_lock", "object")
	newHelper(L, "KeyLock", "key_lock", "object", "key")
	newHelper(L, "Locked", "locked", "object")
	newHelper(L, "AskForCode", "ask_for_code", "object")
	newHelper(L, "Inspect", "inspect", "object")
	newHelper(L, "MoveTo", "move_to", "room")
	newHelper(L, "AddToInventory", "add_to_inventory", "object")

	// Reveal("id", "room", x, y): position defaults to the room centre.
	L.SetGlobal("Reveal", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("reveal"))
		tbl.RawSetString("object", lua.LString(L.CheckString(1)))
		tbl.RawSetString("room", lua.LString(L.CheckString(2)))
		tbl.RawSetString("x", L.OptNumber(3, 0.5))
		tbl.RawSetString("y", L.OptNumber(4, 0.5))
		L.Push(tbl)
		return 1
	}))

	// Combine(cmd1, cmd2, ...)
	newListHelper(L, "Combine", "combine")
	// Cond({cond, cmd}, ...) and Chain({cond, cmd}, ...)
	newListHelper(L, "Cond", "cond")
	newListHelper(L, "Chain", "chain")
}

func registerConditionHelpers(L *lua.LState) {
	newHelper(L, "Always", "always")
	newHelper(L, "IsLocked", "locked", "object")
	newHelper(L, "IsUnlocked", "unlocked", "object")
	newHelper(L, "InHand", "in_hand", "object")
	newHelper(L, "HasItem", "has_item", "object")
	newHelper(L, "InRoom", "in_room", "room")
	newHelper(L, "IsPlaced", "is_placed", "room", "object")

	// Emitted("Unlocked", "safe"): the object id is optional.
	L.SetGlobal("Emitted", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("emitted"))
		tbl.RawSetString("event", lua.LString(L.CheckString(1)))
		if id := L.OptString(2, ""); id != "" {
			tbl.RawSetString("object", lua.LString(id))
		}
		L.Push(tbl)
		return 1
	}))

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		inner := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("not"))
		tbl.RawSetString("inner", inner)
		L.Push(tbl)
		return 1
	}))

	newListHelper(L, "All", "all")
	newListHelper(L, "Any", "any")
}
