package pubsub

import (
	"sync"
)

// PubSub fans messages out to topic subscribers. Delivery is fire and
// forget: a subscriber whose mailbox is full misses the message.
type PubSub[T any] struct {
	mu      sync.Mutex
	subs    map[string][]chan T
	mailbox int
}

func NewPubSub[T any]() *PubSub[T] {
	return NewPubSubWithMailbox[T](1)
}

// NewPubSubWithMailbox sets how many undelivered messages a subscriber may
// hold before new ones are dropped. Zero only delivers to subscribers
// already blocked on receive.
func NewPubSubWithMailbox[T any](size int) *PubSub[T] {
	if size < 0 {
		size = 0
	}
	return &PubSub[T]{
		subs:    make(map[string][]chan T),
		mailbox: size,
	}
}

func (ps *PubSub[T]) Subscribe(topics ...string) <-chan T {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ch := make(chan T, ps.mailbox)
	for _, topic := range topics {
		ps.subs[topic] = append(ps.subs[topic], ch)
	}
	return ch
}

// Unsubscribe removes ch from every topic and closes it.
func (ps *PubSub[T]) Unsubscribe(ch <-chan T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	var found chan T
	for topic, subs := range ps.subs {
		kept := subs[:0]
		for _, sub := range subs {
			if (<-chan T)(sub) == ch {
				found = sub
				continue
			}
			kept = append(kept, sub)
		}
		if len(kept) == 0 {
			delete(ps.subs, topic)
		} else {
			ps.subs[topic] = kept
		}
	}
	if found != nil {
		close(found)
	}
}

// Publish returns how many subscribers accepted the message.
func (ps *PubSub[T]) Publish(topic string, data T) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delivered := 0
	for _, ch := range ps.subs[topic] {
		select {
		case ch <- data:
			delivered++
		default:
		}
	}
	return delivered
}

func (ps *PubSub[T]) Subscribers(topic string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.subs[topic])
}
