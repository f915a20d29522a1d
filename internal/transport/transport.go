package transport

import (
	"time"

	"github.com/mcoot/humanorbot/internal/model"
)

// Adapter delivers session events to one participant over whatever
// channel they connected on. Implementations must never block the
// caller: a slow or dead consumer drops events rather than stalling
// the session.
type Adapter interface {
	Deliver(event model.EventType, payload any)
	Close()
}

// Event is a delivered event together with when it was delivered.
type Event struct {
	Type      model.EventType `json:"type"`
	Data      any             `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Noop discards everything. Used for scripted participants that have
// no live connection to deliver to.
type Noop struct{}

func (Noop) Deliver(event model.EventType, payload any) {}

func (Noop) Close() {}

var _ Adapter = Noop{}
