package kernel

import "time"

// DomainEvent is a fact raised by an aggregate during a state change. The unit of
// work collects events from every aggregate it saved and stores them in the outbox
// within the same transaction.
type DomainEvent interface {
	EventID() UUID
	EventType() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields shared by all events. Concrete events embed
// it and add their JSON payload as exported fields.
type BaseEvent struct {
	id          UUID
	eventType   string
	aggregateID UUID
	occurredAt  time.Time
}

func NewBaseEvent(eventType string, aggregateID UUID, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		id:          NewUUID(),
		eventType:   eventType,
		aggregateID: aggregateID,
		occurredAt:  occurredAt.UTC(),
	}
}

func (e BaseEvent) EventID() UUID         { return e.id }
func (e BaseEvent) EventType() string     { return e.eventType }
func (e BaseEvent) AggregateID() UUID     { return e.aggregateID }
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }

// EventRecorder is embedded by aggregate roots to buffer raised events until the
// unit of work drains them.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) Raise(e DomainEvent) {
	r.events = append(r.events, e)
}

// DomainEvents returns the events raised since the last ClearDomainEvents.
func (r *EventRecorder) DomainEvents() []DomainEvent {
	return r.events
}

func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}
