package events

import "time"

// DomainEvent is a fact recorded by an aggregate and published after commit.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder collects pending events on an aggregate. Embed by value;
// events are flushed by the surrounding handler after a successful save.
type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	if event == nil {
		return
	}
	r.pending = append(r.pending, event)
}

func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}

// BaseEvent carries the fields shared by every concrete event type.
type BaseEvent struct {
	Name      string    `json:"name"`
	Aggregate string    `json:"aggregate"`
	Time      time.Time `json:"time"`
}

func (e BaseEvent) EventName() string     { return e.Name }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) OccurredAt() time.Time { return e.Time }
