package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/humanorbot/internal/model"
)

func TestQueueWaitsWhenEmpty(t *testing.T) {
	q := NewQueue()

	ticket, _ := newTicket("p1", "Ada")
	result := q.Enqueue(ticket)

	assert.Nil(t, result.Matched)
	assert.Equal(t, 1, result.Position)
	assert.Equal(t, 1, q.Len())
}

func TestQueuePairsHeadWithNewArrival(t *testing.T) {
	q := NewQueue()

	first, _ := newTicket("p1", "Ada")
	second, _ := newTicket("p2", "Grace")

	q.Enqueue(first)
	result := q.Enqueue(second)

	require.NotNil(t, result.Matched)
	assert.Equal(t, first.Participant.ID, result.Matched.A.Participant.ID)
	assert.Equal(t, second.Participant.ID, result.Matched.B.Participant.ID)
	assert.Equal(t, 0, q.Len())
}

func TestQueueIsFIFO(t *testing.T) {
	q := NewQueue()

	for _, id := range []string{"p1", "p2", "p3"} {
		ticket, _ := newTicket(model.ParticipantID(id), id)
		q.Enqueue(ticket)
	}

	fourth, _ := newTicket("p4", "p4")
	result := q.Enqueue(fourth)

	require.NotNil(t, result.Matched)
	assert.Equal(t, model.ParticipantID("p1"), result.Matched.A.Participant.ID)
}

func TestQueueDuplicateEnqueueKeepsPosition(t *testing.T) {
	q := NewQueue()

	first, _ := newTicket("p1", "Ada")
	second, _ := newTicket("p2", "Grace")

	q.Enqueue(first)

	// Re-enqueueing the only waiter must not pair them with themselves
	result := q.Enqueue(first)
	assert.Nil(t, result.Matched)
	assert.True(t, result.AlreadyQueued)
	assert.Equal(t, 1, result.Position)

	result = q.Enqueue(second)
	require.NotNil(t, result.Matched)
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()

	first, _ := newTicket("p1", "Ada")
	q.Enqueue(first)

	assert.True(t, q.Remove("p1"))
	assert.False(t, q.Remove("p1"))
	assert.Equal(t, 0, q.Len())
}

func TestQueueWaitingNames(t *testing.T) {
	q := NewQueue()

	assert.Empty(t, q.WaitingNames())

	first, _ := newTicket("p1", "Ada")
	q.Enqueue(first)

	assert.Equal(t, []string{"Ada"}, q.WaitingNames())
}
