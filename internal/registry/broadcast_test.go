package registry

import (
	"testing"
	"time"
)

func testValue(device string, reading any) Value {
	return Value{Device: device, At: time.Now().UTC(), Reading: reading}
}

func TestBroadcasterFanOut(t *testing.T) {
	b := NewBroadcaster(5)
	first := b.Subscribe()
	second := b.Subscribe()

	if delivered := b.Send(testValue("d", 1)); delivered != 2 {
		t.Errorf("Send() delivered = %d, want 2", delivered)
	}

	for _, sub := range []*Subscription{first, second} {
		select {
		case v := <-sub.Values():
			if v.Reading != 1 {
				t.Errorf("Reading = %v, want 1", v.Reading)
			}
		default:
			t.Error("subscriber did not receive the value")
		}
	}
}

func TestBroadcasterNoSubscribers(t *testing.T) {
	b := NewBroadcaster(5)

	if delivered := b.Send(testValue("d", 1)); delivered != 0 {
		t.Errorf("Send() delivered = %d, want 0", delivered)
	}
}

func TestBroadcasterLateSubscriberSeesOnlyFutureValues(t *testing.T) {
	b := NewBroadcaster(5)
	b.Send(testValue("d", "early"))

	sub := b.Subscribe()
	b.Send(testValue("d", "late"))

	select {
	case v := <-sub.Values():
		if v.Reading != "late" {
			t.Errorf("Reading = %v, want %q", v.Reading, "late")
		}
	default:
		t.Fatal("subscriber did not receive the post-subscribe value")
	}

	select {
	case v := <-sub.Values():
		t.Errorf("unexpected extra value %v", v.Reading)
	default:
	}
}

func TestBroadcasterDropsOldestOnFullBacklog(t *testing.T) {
	const backlog = 20
	b := NewBroadcaster(backlog)
	sub := b.Subscribe()

	// Send more than the backlog without consuming. The oldest values
	// must be shed; the newest backlog-many survive.
	const total = 25
	for i := 0; i < total; i++ {
		b.Send(testValue("d", i))
	}

	want := total - backlog // first surviving reading
	for i := 0; i < backlog; i++ {
		select {
		case v := <-sub.Values():
			if v.Reading != want+i {
				t.Fatalf("value %d: Reading = %v, want %d", i, v.Reading, want+i)
			}
		default:
			t.Fatalf("expected %d buffered values, got %d", backlog, i)
		}
	}

	select {
	case v := <-sub.Values():
		t.Errorf("unexpected extra value %v", v.Reading)
	default:
	}
}

func TestBroadcasterSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	b := NewBroadcaster(2)
	slow := b.Subscribe()
	fast := b.Subscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			b.Send(testValue("d", i))
			// Keep the fast subscriber drained.
			select {
			case <-fast.Values():
			default:
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}

	_ = slow
}

func TestSubscriptionCancel(t *testing.T) {
	b := NewBroadcaster(5)
	sub := b.Subscribe()

	if got := b.SubscriberCount(); got != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", got)
	}

	sub.Cancel()

	if got := b.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() after Cancel = %d, want 0", got)
	}

	// Channel is closed so range loops terminate.
	if _, ok := <-sub.Values(); ok {
		t.Error("Values() channel should be closed after Cancel")
	}

	// Idempotent.
	sub.Cancel()

	if delivered := b.Send(testValue("d", 1)); delivered != 0 {
		t.Errorf("Send() after Cancel delivered = %d, want 0", delivered)
	}
}
