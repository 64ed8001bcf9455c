package registry

import "sync"

// Broadcaster fans device values out to any number of subscribers.
//
// It is the send endpoint for a device's value channel. The handle is
// shared by reference: the table keeps one, the registering driver gets
// the same one, and any observer may call Subscribe at any time. A
// subscriber only receives values sent after it subscribed.
//
// Backlog policy: each subscriber owns an independent bounded buffer.
// When a subscriber falls behind, its oldest buffered values are dropped
// to make room for new ones. The publisher never blocks on a slow
// subscriber. This lossy backlog is deliberate: a monitoring consumer
// that cannot keep up should see the freshest readings, not stall the
// driver that produces them.
//
// All methods are safe for concurrent use.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	backlog int
}

// Subscription is one subscriber's receive endpoint on a Broadcaster.
type Subscription struct {
	b  *Broadcaster
	ch chan Value
}

// NewBroadcaster creates a broadcaster whose subscribers each buffer up
// to backlog undelivered values.
func NewBroadcaster(backlog int) *Broadcaster {
	if backlog <= 0 {
		backlog = 1
	}
	return &Broadcaster{
		subs:    make(map[*Subscription]struct{}),
		backlog: backlog,
	}
}

// Send delivers v to every current subscriber and reports how many
// subscribers received it. It never blocks: a full subscriber buffer
// sheds its oldest value first.
func (b *Broadcaster) Send(v Value) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for sub := range b.subs {
		select {
		case sub.ch <- v:
			delivered++
			continue
		default:
		}

		// Buffer full: shed the oldest value, then retry once. The retry
		// can still lose to a concurrent receiver, in which case the new
		// value is dropped instead of the old one.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- v:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribe attaches a new subscriber. Only values sent after this call
// are delivered.
func (b *Broadcaster) Subscribe() *Subscription {
	sub := &Subscription{
		b:  b,
		ch: make(chan Value, b.backlog),
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// SubscriberCount returns the number of attached subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Values returns the subscriber's receive channel. The channel is closed
// when the subscription is cancelled, so it can be drained with range.
func (s *Subscription) Values() <-chan Value {
	return s.ch
}

// Cancel detaches the subscription and closes its channel. A consumer
// ranging over Values still receives values buffered before the close,
// then the range ends. Cancel is idempotent.
func (s *Subscription) Cancel() {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if _, ok := s.b.subs[s]; !ok {
		return
	}
	delete(s.b.subs, s)
	close(s.ch)
}
