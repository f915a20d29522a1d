package game

import (
	"sync"
	"time"

	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/transport"
)

// Ticket is one participant waiting to be paired, together with the
// transport their session events will be delivered over.
type Ticket struct {
	Participant model.Participant
	Adapter     transport.Adapter
	ModeHint    string
	EnqueuedAt  time.Time
}

// Match is a pair pulled from the queue. A queued first, so A maps to
// the earlier arrival.
type Match struct {
	A Ticket
	B Ticket
}

// EnqueueResult reports the outcome of an enqueue: either a match was
// formed, or the ticket is waiting at the given 1-based position.
// AlreadyQueued is set when the participant was queued before the call.
type EnqueueResult struct {
	Matched       *Match
	Position      int
	AlreadyQueued bool
}

// Queue is the FIFO matchmaking queue. The head is paired with the next
// arrival; a participant already queued stays at their position.
type Queue struct {
	mu      sync.Mutex
	tickets []Ticket
}

// NewQueue creates an empty matchmaking queue
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue adds a ticket, pairing it with the queue head when one is
// waiting. Re-enqueueing a participant already in the queue is a no-op
// that reports their existing position.
func (q *Queue) Enqueue(t Ticket) EnqueueResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, existing := range q.tickets {
		if existing.Participant.ID == t.Participant.ID {
			return EnqueueResult{Position: i + 1, AlreadyQueued: true}
		}
	}

	if len(q.tickets) > 0 {
		head := q.tickets[0]
		q.tickets = q.tickets[1:]
		return EnqueueResult{Matched: &Match{A: head, B: t}}
	}

	q.tickets = append(q.tickets, t)
	return EnqueueResult{Position: len(q.tickets)}
}

// Remove takes a participant out of the queue, reporting whether they
// were present
func (q *Queue) Remove(id model.ParticipantID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.tickets {
		if t.Participant.ID == id {
			q.tickets = append(q.tickets[:i], q.tickets[i+1:]...)
			return true
		}
	}
	return false
}

// WaitingNames returns the display names of everyone queued, in order
func (q *Queue) WaitingNames() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	names := make([]string, len(q.tickets))
	for i, t := range q.tickets {
		names[i] = t.Participant.DisplayName
	}
	return names
}

// WaitingHumans returns the display names of queued participants that
// are not simulated, in order
func (q *Queue) WaitingHumans() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	var names []string
	for _, t := range q.tickets {
		if !t.Participant.Simulated {
			names = append(names, t.Participant.DisplayName)
		}
	}
	return names
}

// Len returns the number of queued tickets
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tickets)
}
