package relay

import (
	"sync"
	"time"

	"golang.org/x/exp/slices"
)

type QueuedPlayer struct {
	ID       string
	JoinedAt time.Time
}

type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) Add(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if slices.ContainsFunc(q.players, func(p QueuedPlayer) bool { return p.ID == playerID }) {
		return ErrAlreadyQueued
	}
	q.players = append(q.players, QueuedPlayer{ID: playerID, JoinedAt: time.Now()})
	return nil
}

// Remove drops a player who gave up waiting.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := slices.IndexFunc(q.players, func(p QueuedPlayer) bool { return p.ID == playerID })
	if i < 0 {
		return false
	}
	q.players = slices.Delete(q.players, i, i+1)
	return true
}

// NextPair pops the two players who have been waiting longest.
func (q *Queue) NextPair() (QueuedPlayer, QueuedPlayer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return QueuedPlayer{}, QueuedPlayer{}, false
	}
	first, second := q.players[0], q.players[1]
	q.players = q.players[2:]
	return first, second, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
