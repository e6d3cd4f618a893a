package types

// Event is the closed set of domain events a command may emit. Events are
// immutable value records: the intent a Command produces and the trigger the
// state machine consumes.
type Event interface {
	isEvent()
}

// PickedUp moves an object from the current room into the inventory.
type PickedUp struct {
	ObjectID string
}

// PutInHand selects an inventory object.
type PutInHand struct {
	ObjectID string
}

// PutOffHand clears the selected inventory object.
type PutOffHand struct{}

// InteractedWithLocked reports an interaction with something still locked.
type InteractedWithLocked struct {
	ObjectID string
}

// Unlocked transitions an Unlockable object and runs its onUnlock command.
type Unlocked struct {
	ObjectID string
}

// Revealed places an object in a room, not necessarily the current one.
type Revealed struct {
	ObjectID string
	RoomID   string
	Position Position
}

// MovedToRoom changes the active room.
type MovedToRoom struct {
	RoomID string
}

// AskedForCode asks the front-end to open a code entry for an object.
type AskedForCode struct {
	ObjectID string
}

// WrongCode reports a rejected code.
type WrongCode struct{}

// Inspected asks the front-end to show an object close up.
type Inspected struct {
	ObjectID string
}

// GameEnded finishes the session.
type GameEnded struct{}

// AddedToInventory grants an object without picking it from a room.
type AddedToInventory struct {
	ObjectID string
}

func (PickedUp) isEvent()             {}
func (PutInHand) isEvent()            {}
func (PutOffHand) isEvent()           {}
func (InteractedWithLocked) isEvent() {}
func (Unlocked) isEvent()             {}
func (Revealed) isEvent()             {}
func (MovedToRoom) isEvent()          {}
func (AskedForCode) isEvent()         {}
func (WrongCode) isEvent()            {}
func (Inspected) isEvent()            {}
func (GameEnded) isEvent()            {}
func (AddedToInventory) isEvent()     {}
