// Package events is the in-process publish/subscribe bus that replaces page
// refresh callbacks: commits and cancellations publish, the websocket hub and
// the message-queue bridge subscribe.
package events

import (
	"log/slog"
	"sync"
	"time"

	"shuttlego/internal/domain/models"
)

type Topic string

const (
	TopicBookingCreated      Topic = "booking.created"
	TopicBookingCancelled    Topic = "booking.cancelled"
	TopicNotificationCreated Topic = "notification.created"
	TopicShuttleUpdated      Topic = "shuttle.updated"
)

// AllTopics lists every topic, for subscribers that want everything.
func AllTopics() []Topic {
	return []Topic{TopicBookingCreated, TopicBookingCancelled, TopicNotificationCreated, TopicShuttleUpdated}
}

// Event is one published message. UserID is empty for events meant for everyone.
type Event struct {
	Topic   Topic     `json:"type"`
	UserID  string    `json:"user_id,omitempty"`
	Payload any       `json:"data"`
	At      time.Time `json:"at"`
}

func BookingCreated(b models.Booking) Event {
	return Event{Topic: TopicBookingCreated, UserID: b.UserID, Payload: b, At: time.Now()}
}

func BookingCancelled(b models.Booking) Event {
	return Event{Topic: TopicBookingCancelled, UserID: b.UserID, Payload: b, At: time.Now()}
}

func NotificationCreated(n models.Notification) Event {
	e := Event{Topic: TopicNotificationCreated, Payload: n, At: time.Now()}
	if !n.IsBroadcast() {
		e.UserID = *n.UserID
	}
	return e
}

func ShuttleUpdated(s models.Shuttle) Event {
	return Event{Topic: TopicShuttleUpdated, Payload: s, At: time.Now()}
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(e Event)
}

const defaultBuffer = 64

type subscriber struct {
	ch     chan Event
	topics map[Topic]struct{}
}

// Bus fans events out to subscribers. Publish never blocks: a subscriber whose
// buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*subscriber
	nextID int
	buffer int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscriber), buffer: defaultBuffer}
}

// Subscribe registers for the given topics (all topics when none are given).
// The returned func unsubscribes and closes the channel; call it on teardown.
func (b *Bus) Subscribe(topics ...Topic) (<-chan Event, func()) {
	if len(topics) == 0 {
		topics = AllTopics()
	}
	sub := &subscriber{ch: make(chan Event, b.buffer), topics: make(map[Topic]struct{}, len(topics))}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if s, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(s.ch)
			}
		})
	}
}

func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		if _, ok := s.topics[e.Topic]; !ok {
			continue
		}
		select {
		case s.ch <- e:
		default:
			slog.Warn("event dropped for slow subscriber", slog.String("topic", string(e.Topic)))
		}
	}
}

// Close unsubscribes everyone. Later Subscribe calls get a closed channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, s := range b.subs {
		close(s.ch)
		delete(b.subs, id)
	}
}

// Subscribers reports the current subscriber count.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
