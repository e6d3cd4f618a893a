// Package types defines the shared data structures for the escapecore engine.
// This package contains only type definitions; no game logic.
package types

// Position is a normalized (0.0-1.0) placement of an object within a room.
type Position struct {
	X float64
	Y float64
}

// Room maps the ids of the objects currently visible in a room to their placement.
// Presence in the map is existence; absence means "not placed anywhere visible".
type Room map[string]Position

// LockState is the state of an Unlockable object. Unlocking is monotonic.
type LockState int

const (
	LockedState LockState = iota
	UnlockedState
)

func (s LockState) String() string {
	if s == UnlockedState {
		return "unlocked"
	}
	return "locked"
}

// Intent is the parsed representation of a typed player command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
	Code   string // only for "code"
}

// Result is the output of a single text-driven game step.
type Result struct {
	Events []Event
	Output []string
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   string // starting room ID
	Intro   string
	WinRoom string // optional; reaching it counts as escaping
}

// Condition is a predicate over ambient game state (and, inside a Chain,
// the events emitted so far) compiled from content.
type Condition struct {
	Type    string         // "always", "locked", "unlocked", "in_hand", "has_item", ...
	Params  map[string]any // condition-specific parameters
	Inner   *Condition     // for Not()
	Clauses []Condition    // for All() / Any()
}
