package registry

import (
	"context"
	"sync"
	"time"
)

// Client is the driver-facing front end for the Registrar.
//
// It builds registration requests, submits them on the shared request
// channel (suspending while the queue is full), and awaits the private
// reply. Clients are cheap; one is typically shared by all drivers.
//
// All methods are safe for concurrent use.
type Client struct {
	requests chan<- Request

	mu         sync.RWMutex
	onRegister func(Device)
}

// NewClient creates a Client bound to a running Registrar.
func NewClient(h *Handle) *Client {
	return &Client{requests: h.Requests()}
}

// SetOnRegister installs a callback invoked after every successful
// registration made through this Client. In-process observers (the MQTT
// bridge, the history recorder, the WebSocket hub) use it to subscribe to
// new devices without ever touching the registrar's table.
//
// The callback runs on the registering driver's goroutine and should
// return quickly.
func (c *Client) SetOnRegister(fn func(Device)) {
	c.mu.Lock()
	c.onRegister = fn
	c.mu.Unlock()
}

// RegisterReadonly registers a read-only device and returns its value
// broadcast handle.
//
// It returns ErrDeviceDefined if the name is already registered, ErrClosed
// if the registrar has shut down, or ctx.Err() if the context ends while
// waiting for queue space or for the reply. A context cancelled after the
// request was accepted may leave the registration in place; the registrar
// logs the undeliverable reply and carries on.
func (c *Client) RegisterReadonly(ctx context.Context, name string) (*Broadcaster, error) {
	reply := make(chan ReadonlyReply, 1)

	if err := c.submit(ctx, AddReadonlyDevice{Name: name, Reply: reply}); err != nil {
		return nil, err
	}

	select {
	case rep := <-reply:
		if rep.Err != nil {
			return nil, rep.Err
		}
		c.announce(Device{
			Name:         name,
			Values:       rep.Values,
			RegisteredAt: time.Now().UTC(),
		})
		return rep.Values, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RegisterReadWrite registers a read-write device and returns its value
// broadcast handle together with the receive end of its settings channel.
// Error behaviour matches RegisterReadonly.
func (c *Client) RegisterReadWrite(ctx context.Context, name string) (*Broadcaster, <-chan Setting, error) {
	reply := make(chan ReadWriteReply, 1)

	if err := c.submit(ctx, AddReadWriteDevice{Name: name, Reply: reply}); err != nil {
		return nil, nil, err
	}

	select {
	case rep := <-reply:
		if rep.Err != nil {
			return nil, nil, rep.Err
		}
		c.announce(Device{
			Name:         name,
			Writable:     true,
			Values:       rep.Values,
			RegisteredAt: time.Now().UTC(),
		})
		return rep.Values, rep.Settings, nil
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

// submit places a request on the shared channel. A send onto the closed
// channel is converted into ErrClosed; the surrounding system treats it
// as a connection loss, not a crash.
func (c *Client) submit(ctx context.Context, req Request) (err error) {
	defer func() {
		if recover() != nil {
			err = ErrClosed
		}
	}()

	select {
	case c.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// announce invokes the registration callback, if installed.
func (c *Client) announce(dev Device) {
	c.mu.RLock()
	fn := c.onRegister
	c.mu.RUnlock()

	if fn != nil {
		fn(dev)
	}
}
