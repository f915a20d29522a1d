package transport

import (
	"sync"

	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/model"
)

// pushBufferSize bounds how many undelivered events a push connection
// may queue before new events are dropped.
const pushBufferSize = 32

// Push is a push-mode adapter backed by a buffered channel. A
// connection-level writer goroutine consumes Events and forwards them
// to the wire; if the buffer fills the event is dropped silently.
type Push struct {
	clk clock.Clock

	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewPush creates a push adapter with a bounded event buffer.
func NewPush(clk clock.Clock) *Push {
	return &Push{
		clk: clk,
		ch:  make(chan Event, pushBufferSize),
	}
}

var _ Adapter = (*Push)(nil)

func (p *Push) Deliver(event model.EventType, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	ev := Event{Type: event, Data: payload, Timestamp: p.clk.Now()}
	select {
	case p.ch <- ev:
	default:
		// Consumer is not keeping up; drop rather than block the session
	}
}

// Events returns the channel the connection writer consumes. It is
// closed when the adapter is closed.
func (p *Push) Events() <-chan Event {
	return p.ch
}

func (p *Push) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.ch)
}
