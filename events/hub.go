// tasks/events/hub.go
package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/tasks/domain"
)

const (
	TaskCreated = "task_created"
	TaskUpdated = "task_updated"
	TaskDeleted = "task_deleted"
)

// subscriberBuffer is how many messages a subscriber may fall behind before
// it is dropped.
const subscriberBuffer = 16

type Message struct {
	Type string       `json:"type"`
	Task *domain.Task `json:"task,omitempty"`
}

// Hub fans task change messages out to subscribers. All subscriber
// bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[chan Message]struct{}
	broadcast  chan Message
	register   chan chan Message
	unregister chan chan Message
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return newHub(log, 256)
}

func newHub(log zerolog.Logger, queue int) *Hub {
	return &Hub{
		clients:    make(map[chan Message]struct{}),
		broadcast:  make(chan Message, queue),
		register:   make(chan chan Message),
		unregister: make(chan chan Message),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// Run serves the hub until ctx is cancelled, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for ch := range h.clients {
			delete(h.clients, ch)
			close(ch)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ch := <-h.register:
			h.clients[ch] = struct{}{}
			h.log.Debug().Int("subscribers", len(h.clients)).Msg("subscriber added")

		case ch := <-h.unregister:
			if _, ok := h.clients[ch]; ok {
				delete(h.clients, ch)
				close(ch)
			}

		case msg := <-h.broadcast:
			for ch := range h.clients {
				select {
				case ch <- msg:
				default:
					h.log.Warn().Str("type", msg.Type).Msg("dropping slow subscriber")
					delete(h.clients, ch)
					close(ch)
				}
			}
		}
	}
}

// Broadcast queues a message. It never blocks once the hub has stopped.
func (h *Hub) Broadcast(msgType string, task *domain.Task) {
	select {
	case h.broadcast <- Message{Type: msgType, Task: task}:
	case <-h.done:
	}
}

// Subscription receives every broadcast on C until it is unsubscribed, falls
// behind, or the hub stops. C is closed in all three cases.
type Subscription struct {
	C  <-chan Message
	ch chan Message
}

func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Message, subscriberBuffer)
	select {
	case h.register <- ch:
	case <-h.done:
		close(ch)
	}
	return &Subscription{C: ch, ch: ch}
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	select {
	case h.unregister <- sub.ch:
	case <-h.done:
	}
}
