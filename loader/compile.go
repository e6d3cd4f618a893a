// Package loader loads Lua game content into Go values at load time.
// The Lua VM is discarded after loading; no Lua runs during play.
package loader

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/nathoo/escapecore/engine/command"
	"github.com/nathoo/escapecore/engine/object"
	"github.com/nathoo/escapecore/engine/rules"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/types"
	lua "github.com/yuin/gopher-lua"
)

// Default footprint for objects that do not declare one.
const defaultSize = 0.1

// rawRoom holds a room table before compilation.
type rawRoom struct {
	id    string
	table *lua.LTable
}

// rawObject holds an object table before compilation.
type rawObject struct {
	id    string
	kind  string
	table *lua.LTable
}

// commandDef is a compiled, still inspectable command tree. It is turned
// into a command.Command only after validation.
type commandDef struct {
	Type    string
	Object  string
	Room    string
	Key     string
	Pos     types.Position
	Cmds    []commandDef // combine
	Clauses []clauseDef  // cond, chain
}

type clauseDef struct {
	When types.Condition
	Then commandDef
}

// objectDef is one declared object.
type objectDef struct {
	ID       string
	Kind     string
	Width    float64
	Height   float64
	Key      string // SelfKeyLock
	Code     string // SelfAskCodeLock, WinMachine
	Room     string // MoveToRoom, MoveToRoomAndAddToInventory
	WinRoom  string // WinMachine
	Item     string // MoveToRoomAndAddToInventory
	OnUnlock *commandDef
}

// roomDef is one declared room. Order lists its object ids sorted, so
// validation output is deterministic.
type roomDef struct {
	ID      string
	Objects map[string]types.Position
	Order   []string
}

// content is everything the Lua files declared, before validation.
type content struct {
	Game      types.GameDef
	Inventory []string
	Rooms     []roomDef
	Objects   []objectDef
	Messages  map[string]string
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or def if missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getCode returns a code field. Codes may be written as strings or numbers;
// write a string to keep leading zeros.
func getCode(tbl *lua.LTable, key string) string {
	switch v := tbl.RawGetString(key).(type) {
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	}
	return ""
}

// tableToStringSlice converts the array part of a Lua table to strings.
func tableToStringSlice(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	m := map[string]string{}
	if tbl == nil {
		return m
	}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// compile converts all collected Lua data into content.
func compile(coll *collector) (*content, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	c := &content{
		Game:      compileGame(coll.game),
		Inventory: tableToStringSlice(getTable(coll.game, "inventory")),
		Messages:  map[string]string{},
	}

	for _, raw := range coll.rooms {
		room, err := compileRoom(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling room %s: %w", raw.id, err)
		}
		c.Rooms = append(c.Rooms, room)
	}

	for _, raw := range coll.objects {
		obj, err := compileObject(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling object %s: %w", raw.id, err)
		}
		c.Objects = append(c.Objects, obj)
	}

	for _, tbl := range coll.messages {
		for k, v := range tableToStringMap(tbl) {
			c.Messages[k] = v
		}
	}

	return c, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Start:   getString(tbl, "start"),
		Intro:   getString(tbl, "intro"),
		WinRoom: getString(tbl, "win_room"),
	}
}

func compileRoom(raw rawRoom) (roomDef, error) {
	room := roomDef{ID: raw.id, Objects: map[string]types.Position{}}
	objs := getTable(raw.table, "objects")
	if objs == nil {
		return room, nil
	}

	var err error
	objs.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		id, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("objects keys must be object ids, got %s", k.Type())
			return
		}
		posTbl, ok := v.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("position of %s must be a table", id)
			return
		}
		room.Objects[string(id)] = compilePosition(posTbl)
		room.Order = append(room.Order, string(id))
	})
	sort.Strings(room.Order)
	return room, err
}

// compilePosition accepts {x = 0.2, y = 0.4} or {0.2, 0.4}.
func compilePosition(tbl *lua.LTable) types.Position {
	if x, ok := tbl.RawGetInt(1).(lua.LNumber); ok {
		y, _ := tbl.RawGetInt(2).(lua.LNumber)
		return types.Position{X: float64(x), Y: float64(y)}
	}
	return types.Position{X: getNumber(tbl, "x", 0), Y: getNumber(tbl, "y", 0)}
}

func compileObject(raw rawObject) (objectDef, error) {
	tbl := raw.table
	obj := objectDef{
		ID:      raw.id,
		Kind:    raw.kind,
		Width:   getNumber(tbl, "width", defaultSize),
		Height:  getNumber(tbl, "height", defaultSize),
		Key:     getString(tbl, "key"),
		Code:    getCode(tbl, "code"),
		Room:    getString(tbl, "room"),
		WinRoom: getString(tbl, "win_room"),
		Item:    getString(tbl, "item"),
	}
	if onUnlock := getTable(tbl, "on_unlock"); onUnlock != nil {
		cmd, err := compileCommand(onUnlock)
		if err != nil {
			return obj, fmt.Errorf("on_unlock: %w", err)
		}
		obj.OnUnlock = &cmd
	}
	return obj, nil
}

// compileCommand compiles a command helper table.
func compileCommand(tbl *lua.LTable) (commandDef, error) {
	cmd := commandDef{
		Type:   getString(tbl, "type"),
		Object: getString(tbl, "object"),
		Room:   getString(tbl, "room"),
		Key:    getString(tbl, "key"),
	}

	switch cmd.Type {
	case "noop", "pick", "put_in_hand", "put_off_hand", "simple_lock", "key_lock",
		"locked", "ask_for_code", "inspect", "move_to", "add_to_inventory":

	case "reveal":
		cmd.Pos = types.Position{X: getNumber(tbl, "x", 0.5), Y: getNumber(tbl, "y", 0.5)}

	case "combine":
		for _, item := range listItems(tbl) {
			child, err := compileCommand(item)
			if err != nil {
				return cmd, err
			}
			cmd.Cmds = append(cmd.Cmds, child)
		}

	case "cond", "chain":
		for i, item := range listItems(tbl) {
			condTbl, _ := item.RawGetInt(1).(*lua.LTable)
			thenTbl, _ := item.RawGetInt(2).(*lua.LTable)
			if condTbl == nil || thenTbl == nil {
				return cmd, fmt.Errorf("%s clause %d must be {condition, command}", cmd.Type, i+1)
			}
			when, err := compileCondition(condTbl)
			if err != nil {
				return cmd, err
			}
			then, err := compileCommand(thenTbl)
			if err != nil {
				return cmd, err
			}
			cmd.Clauses = append(cmd.Clauses, clauseDef{When: when, Then: then})
		}

	case "":
		return cmd, fmt.Errorf("table is not a command")
	default:
		return cmd, fmt.Errorf("unknown command type %q", cmd.Type)
	}
	return cmd, nil
}

// compileCondition compiles a condition helper table.
func compileCondition(tbl *lua.LTable) (types.Condition, error) {
	condType := getString(tbl, "type")

	switch condType {
	case "not":
		innerTbl := getTable(tbl, "inner")
		if innerTbl == nil {
			return types.Condition{}, fmt.Errorf("not: missing inner condition")
		}
		inner, err := compileCondition(innerTbl)
		if err != nil {
			return types.Condition{}, err
		}
		return types.Condition{Type: "not", Inner: &inner}, nil

	case "all", "any":
		c := types.Condition{Type: condType}
		for _, item := range listItems(tbl) {
			inner, err := compileCondition(item)
			if err != nil {
				return types.Condition{}, err
			}
			c.Clauses = append(c.Clauses, inner)
		}
		return c, nil

	case "always", "locked", "unlocked", "in_hand", "has_item", "in_room", "is_placed", "emitted":
		params := map[string]any{}
		for _, key := range []string{"object", "room", "event"} {
			if s := getString(tbl, key); s != "" {
				params[key] = s
			}
		}
		return types.Condition{Type: condType, Params: params}, nil

	case "":
		return types.Condition{}, fmt.Errorf("table is not a condition")
	default:
		return types.Condition{}, fmt.Errorf("unknown condition type %q", condType)
	}
}

// listItems returns the tables collected by a list helper.
func listItems(tbl *lua.LTable) []*lua.LTable {
	items := getTable(tbl, "items")
	if items == nil {
		return nil
	}
	var out []*lua.LTable
	for i := 1; i <= items.MaxN(); i++ {
		if t, ok := items.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, t)
		}
	}
	return out
}

// build turns validated content into Defs with live objects.
func build(c *content) *state.Defs {
	defs := &state.Defs{
		Game:      c.Game,
		Objects:   map[string]object.Object{},
		Rooms:     map[string]types.Room{},
		Inventory: append([]string(nil), c.Inventory...),
		Messages:  c.Messages,
	}
	for _, r := range c.Rooms {
		room := types.Room{}
		for id, pos := range r.Objects {
			room[id] = pos
		}
		defs.Rooms[r.ID] = room
	}
	for _, o := range c.Objects {
		defs.Objects[o.ID] = buildObject(o, c.Game)
	}
	if defs.Game.WinRoom == "" {
		defs.Game.WinRoom = machineWinRoom(c.Objects)
	}
	return defs
}

// machineWinRoom is the win_room of the first WinMachine by id that
// declares one.
func machineWinRoom(objs []objectDef) string {
	var id, room string
	for _, o := range objs {
		if o.Kind != "WinMachine" || o.WinRoom == "" {
			continue
		}
		if id == "" || o.ID < id {
			id, room = o.ID, o.WinRoom
		}
	}
	return room
}

func buildObject(o objectDef, game types.GameDef) object.Object {
	var onUnlock command.Command
	if o.OnUnlock != nil {
		onUnlock = buildCommand(*o.OnUnlock)
	}

	switch o.Kind {
	case "PickableObject":
		return object.NewPickableObject(o.ID, o.Width, o.Height)
	case "SelfSimpleLock":
		return object.NewSelfSimpleLock(o.ID, onUnlock, o.Width, o.Height)
	case "SelfKeyLock":
		return object.NewSelfKeyLock(o.ID, o.Key, onUnlock, o.Width, o.Height)
	case "SelfAskCodeLock":
		return object.NewSelfAskCodeLock(o.ID, onUnlock, o.Code, o.Width, o.Height)
	case "WinMachine":
		return object.NewWinMachine(o.ID, o.Code, winRoom(o, game), o.Width, o.Height)
	case "MoveToRoom":
		return object.NewMoveToRoom(o.ID, o.Room, o.Width, o.Height)
	case "InspectableObject":
		return object.NewInspectableObject(o.ID, o.Width, o.Height)
	case "PickableInspectableObject":
		return object.NewPickableInspectableObject(o.ID, o.Width, o.Height)
	case "MoveToRoomAndAddToInventory":
		return object.NewMoveToRoomAndAddToInventoryObject(o.ID, o.Room, o.Item, o.Width, o.Height)
	}
	panic(fmt.Sprintf("loader: unknown object kind %q", o.Kind))
}

// winRoom is the machine's own win_room, falling back to the game's.
func winRoom(o objectDef, game types.GameDef) string {
	if o.WinRoom != "" {
		return o.WinRoom
	}
	return game.WinRoom
}

func buildCommand(d commandDef) command.Command {
	switch d.Type {
	case "pick":
		return command.Pick(d.Object)
	case "put_in_hand":
		return command.PutInHand(d.Object)
	case "put_off_hand":
		return command.PutOffHand()
	case "simple_lock":
		return command.SimpleLock(d.Object)
	case "key_lock":
		return command.KeyLock(d.Object, d.Key)
	case "locked":
		return command.Locked(d.Object)
	case "ask_for_code":
		return command.AskForCode(d.Object)
	case "inspect":
		return command.Inspect(d.Object)
	case "reveal":
		return command.Reveal(d.Object, d.Room, d.Pos)
	case "move_to":
		return command.MoveToRoom(d.Room)
	case "add_to_inventory":
		return command.AddToInventory(d.Object)
	case "combine":
		cmds := make([]command.Command, 0, len(d.Cmds))
		for _, child := range d.Cmds {
			cmds = append(cmds, buildCommand(child))
		}
		return command.Combine(cmds...)
	case "cond":
		clauses := make([]command.Clause, 0, len(d.Clauses))
		for _, cl := range d.Clauses {
			clauses = append(clauses, command.Clause{
				When: rules.AsPredicate(cl.When),
				Then: buildCommand(cl.Then),
			})
		}
		return command.Cond(clauses...)
	case "chain":
		clauses := make([]command.ChainClause, 0, len(d.Clauses))
		for _, cl := range d.Clauses {
			clauses = append(clauses, command.ChainClause{
				When: rules.AsEventPredicate(cl.When),
				Then: buildCommand(cl.Then),
			})
		}
		return command.Chain(clauses...)
	default:
		return command.NoOp()
	}
}

// sortedLuaFiles returns files with game.lua first, rest alphabetical.
func sortedLuaFiles(files []string) []string {
	var gameLua []string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameLua = append(gameLua, f)
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	return append(gameLua, others...)
}
