// Package outbox buffers domain events next to the state change that
// produced them; a background worker later hands them to the broker.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain/shared/events"
)

type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

type EventEncoder interface {
	Encode(ev events.DomainEvent) (EventRecord, error)
}

type JSONEventEncoder struct {
	IDGenerator func() string
}

func (e JSONEventEncoder) Encode(ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, err
	}
	idGen := e.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	return EventRecord{
		ID:         idGen(),
		Name:       ev.EventName(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt(),
		Aggregate:  ev.AggregateID(),
		Headers:    map[string]string{},
	}, nil
}

type Recorder interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}

// DrainRecorder encodes and stores an aggregate's pending events, clearing
// them on success.
func DrainRecorder(ctx context.Context, box Outbox, encoder EventEncoder, rec Recorder) error {
	if box == nil || rec == nil {
		return nil
	}
	evs := rec.PendingEvents()
	if len(evs) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, ev := range evs {
		record, err := encoder.Encode(ev)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, record); err != nil {
			return err
		}
	}
	rec.ClearEvents()
	return nil
}
