package command

import "github.com/nathoo/escapecore/types"

// Predicate inspects ambient state only.
type Predicate func(v View) bool

// EventPredicate also sees the events emitted so far by the enclosing Chain.
type EventPredicate func(v View, emitted []types.Event) bool

// Clause pairs a predicate with the command Cond runs when it holds.
type Clause struct {
	When Predicate
	Then Command
}

// ChainClause pairs an event-aware predicate with a command for Chain.
type ChainClause struct {
	When EventPredicate
	Then Command
}

// Combine concatenates the events of every command in order. All commands
// run against the same snapshot; none observes another's effect.
func Combine(cmds ...Command) Command {
	return func(v View) []types.Event {
		var events []types.Event
		for _, cmd := range cmds {
			if cmd == nil {
				continue
			}
			events = append(events, cmd(v)...)
		}
		return events
	}
}

// Cond runs the first clause whose predicate holds, or nothing.
func Cond(clauses ...Clause) Command {
	return func(v View) []types.Event {
		for _, c := range clauses {
			if c.When != nil && !c.When(v) {
				continue
			}
			if c.Then == nil {
				return nil
			}
			return c.Then(v)
		}
		return nil
	}
}

// Chain is Combine where each clause may look at what earlier clauses in the
// same invocation already emitted.
func Chain(clauses ...ChainClause) Command {
	return func(v View) []types.Event {
		var events []types.Event
		for _, c := range clauses {
			if c.When != nil && !c.When(v, events) {
				continue
			}
			if c.Then != nil {
				events = append(events, c.Then(v)...)
			}
		}
		return events
	}
}

// Always holds unconditionally.
func Always() EventPredicate {
	return func(View, []types.Event) bool { return true }
}

// IsLocked holds while the object is in the locked state.
func IsLocked(id string) Predicate {
	return func(v View) bool {
		st, ok := v.LockState(id)
		return ok && st == types.LockedState
	}
}

// Ambient lifts a state-only predicate into a chain predicate.
func Ambient(p Predicate) EventPredicate {
	return func(v View, _ []types.Event) bool { return p(v) }
}

// StillLocked holds while id is locked and no Unlocked{id} has been emitted
// earlier in the same chain. It keeps a "locked" fallback from firing right
// after a successful unlock.
func StillLocked(id string) EventPredicate {
	locked := IsLocked(id)
	return func(v View, emitted []types.Event) bool {
		return locked(v) && !UnlockedIn(emitted, id)
	}
}

// UnlockedIn reports whether events contains Unlocked for id.
func UnlockedIn(events []types.Event, id string) bool {
	for _, ev := range events {
		if u, ok := ev.(types.Unlocked); ok && u.ObjectID == id {
			return true
		}
	}
	return false
}
