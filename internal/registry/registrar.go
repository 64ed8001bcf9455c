package registry

// Logger defines the logging interface used by the Registrar.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Request is a registration request submitted to the Registrar.
// The two concrete kinds are AddReadonlyDevice and AddReadWriteDevice.
type Request interface {
	deviceName() string
}

// AddReadonlyDevice asks the Registrar to register a read-only device.
//
// Reply must be buffered with capacity 1: the Registrar sends exactly one
// reply without blocking and logs a warning if the send is not possible.
type AddReadonlyDevice struct {
	Name  string
	Reply chan<- ReadonlyReply
}

func (r AddReadonlyDevice) deviceName() string { return r.Name }

// AddReadWriteDevice asks the Registrar to register a read-write device.
//
// Reply must be buffered with capacity 1, as for AddReadonlyDevice.
type AddReadWriteDevice struct {
	Name  string
	Reply chan<- ReadWriteReply
}

func (r AddReadWriteDevice) deviceName() string { return r.Name }

// ReadonlyReply is the answer to an AddReadonlyDevice request. Exactly
// one of Values and Err is set.
type ReadonlyReply struct {
	Values *Broadcaster
	Err    error
}

// ReadWriteReply is the answer to an AddReadWriteDevice request. On
// success both Values and Settings are set, atomically; on failure only
// Err is set.
type ReadWriteReply struct {
	Values   *Broadcaster
	Settings <-chan Setting
	Err      error
}

// Registrar is the single-writer owner of the device table.
//
// It runs as one goroutine, serves one request at a time to completion,
// and never fails fatally on a bad request: duplicates are reported to
// the requester and undeliverable replies are logged. The only exit is
// graceful, when the request channel is closed and drained.
type Registrar struct {
	devices *table
	logger  Logger
}

// Handle connects the rest of the process to a running Registrar.
type Handle struct {
	requests chan Request
	done     chan struct{}
}

// Requests returns the send side of the registrar's request channel.
// It is shared by every Client; sends block while ten requests are queued.
func (h *Handle) Requests() chan<- Request {
	return h.requests
}

// Close closes the request channel, signalling that no more senders
// remain. The Registrar drains pending requests and then terminates.
// Close must only be called once, after every Client user has stopped.
func (h *Handle) Close() {
	close(h.requests)
}

// Done is closed when the Registrar has terminated. Every request sent
// before Close is answered before Done closes.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start creates the request channel, spawns the Registrar goroutine bound
// to its receive end, and returns the Handle used to reach and await it.
//
// A nil logger disables logging.
func Start(logger Logger) *Handle {
	if logger == nil {
		logger = noopLogger{}
	}

	h := &Handle{
		requests: make(chan Request, requestBacklog),
		done:     make(chan struct{}),
	}

	r := &Registrar{
		devices: newTable(),
		logger:  logger,
	}
	go r.run(h)

	return h
}

// run is the actor loop. It owns the table for its whole lifetime and
// processes requests strictly in arrival order.
func (r *Registrar) run(h *Handle) {
	defer close(h.done)

	for req := range h.requests {
		r.handle(req)
	}

	r.logger.Warn("no active drivers left, registrar exiting",
		"devices", r.devices.size(),
	)
}

// handle dispatches one request and sends exactly one reply.
func (r *Registrar) handle(req Request) {
	switch q := req.(type) {
	case AddReadonlyDevice:
		var reply ReadonlyReply
		if tx, ok := r.devices.addReadonly(q.Name); ok {
			reply.Values = tx
			r.logger.Info("device registered", "device", q.Name, "writable", false)
		} else {
			reply.Err = deviceDefined(q.Name)
		}
		sendReply(r.logger, q.Name, q.Reply, reply)

	case AddReadWriteDevice:
		var reply ReadWriteReply
		if tx, settings, ok := r.devices.addReadWrite(q.Name); ok {
			reply.Values = tx
			reply.Settings = settings
			r.logger.Info("device registered", "device", q.Name, "writable", true)
		} else {
			reply.Err = deviceDefined(q.Name)
		}
		sendReply(r.logger, q.Name, q.Reply, reply)

	default:
		// Unknown request kinds are reported and skipped; the actor
		// never crashes on a malformed request.
		r.logger.Error("unknown registration request", "device", req.deviceName())
	}
}

// sendReply delivers a reply without blocking the actor. The reply
// channel is expected to be buffered (capacity 1); if the send is not
// possible the requester is gone and the reply is dropped.
func sendReply[T any](logger Logger, device string, ch chan<- T, reply T) {
	select {
	case ch <- reply:
	default:
		logger.Warn("driver exited before a reply could be sent", "device", device)
	}
}
