// Package registry implements the device registry for Hearth Core.
//
// The registry is the one piece of shared mutable state in an otherwise
// message-passing system: the authoritative table of active devices. It is
// owned exclusively by the Registrar, a single goroutine that serves
// registration requests from device drivers one at a time. Because the
// check-and-insert for a device name happens inside one uninterrupted
// actor step, name uniqueness needs no lock and no transaction.
//
// # Architecture
//
//	 drivers ──Request──▶ ┌───────────────────────────────┐
//	 (many, via Client)   │           Registrar           │
//	                      │  ┌─────────┐   ┌───────────┐  │
//	                      │  │  table  │──▶│Broadcaster│──▶ subscribers
//	                      │  │ (names) │   │ (values)  │  │ (bridge, history,
//	                      │  └─────────┘   └───────────┘  │  websocket hub)
//	                      │        │                      │
//	                      │        └──▶ settings chan ───▶│ driver (read-write
//	                      └───────────────────────────────┘  devices only)
//
// A device is registered exactly once for the lifetime of the process;
// there is no update or delete. Read-only devices get a value Broadcaster;
// read-write devices additionally get a bounded settings channel whose
// receive side goes to the owning driver. The table keeps the send side of
// every channel it creates, so later subscribers can attach even after the
// registering driver has gone away.
//
// # Lifecycle
//
//	handle := registry.Start(logger)
//	client := registry.NewClient(handle)
//	// hand client to every driver
//	...
//	handle.Close()   // after the last driver has stopped
//	<-handle.Done()  // registrar has drained and exited
//
// The Registrar terminates only when the request channel is closed and
// drained; duplicate or undeliverable replies never stop it.
package registry
