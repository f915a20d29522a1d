package game

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/transport"
)

// captureAdapter records every delivered event for assertions
type captureAdapter struct {
	mu     sync.Mutex
	events []transport.Event
}

func (c *captureAdapter) Deliver(event model.EventType, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, transport.Event{Type: event, Data: payload})
}

func (c *captureAdapter) Close() {}

func (c *captureAdapter) byType(event model.EventType) []transport.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []transport.Event
	for _, e := range c.events {
		if e.Type == event {
			out = append(out, e)
		}
	}
	return out
}

func (c *captureAdapter) count(event model.EventType) int {
	return len(c.byType(event))
}

// fakeStats is an in-process StatsRecorder
type fakeStats struct {
	mu      sync.Mutex
	records map[model.ParticipantID]*model.StatsRecord
}

func newFakeStats() *fakeStats {
	return &fakeStats{records: make(map[model.ParticipantID]*model.StatsRecord)}
}

func (f *fakeStats) Record(ctx context.Context, id model.ParticipantID, correct bool) (model.StatsRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		record = &model.StatsRecord{}
		f.records[id] = record
	}
	record.Apply(correct)
	return *record, nil
}

func (f *fakeStats) get(id model.ParticipantID) model.StatsRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record, ok := f.records[id]; ok {
		return *record
	}
	return model.StatsRecord{}
}

func newTicket(id model.ParticipantID, name string) (Ticket, *captureAdapter) {
	adapter := &captureAdapter{}
	return Ticket{
		Participant: model.Participant{
			ID:          id,
			DisplayName: name,
			Transport:   model.TransportPush,
			ConnectedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		Adapter: adapter,
	}, adapter
}

func newSimulatedTicket(id model.ParticipantID, name, provider string) (Ticket, *captureAdapter) {
	t, adapter := newTicket(id, name)
	t.Participant.Simulated = true
	t.Participant.ProviderLabel = provider
	t.Participant.Transport = model.TransportPull
	return t, adapter
}
