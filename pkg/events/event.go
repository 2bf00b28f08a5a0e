package events

import "time"

// Event is the contract for everything placed on the event bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "NOTE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event codes emitted by the document store.
const (
	TypeNoteCreated       = "NOTE_CREATED"
	TypeNoteUpdated       = "NOTE_UPDATED"
	TypeNotebookDeleted   = "NOTEBOOK_DELETED"
	TypeCollaboratorAdded = "COLLABORATOR_ADDED"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
