// Package driver provides the device drivers bundled with Hearth Core and
// the supervisor that runs them.
//
// A driver is a goroutine that registers one or more devices with the
// registry, publishes readings on the value endpoints it receives back,
// and, for writable devices, consumes incoming settings. Two driver kinds
// ship in-tree:
//
//   - sim: a read-only signal generator (sine or ramp waveform) useful for
//     exercising the full value path without hardware
//   - latch: a writable device that holds the last accepted setting and
//     republishes it as a value
//
// The Supervisor launches every configured driver, restarts failed ones
// according to policy, and closes the registry request channel once the
// last driver has exited so the registrar can drain and terminate.
//
// Example usage:
//
//	sup, err := driver.NewSupervisor(cfg.Drivers, client, handle.Close)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sup.SetLogger(logger)
//	sup.Start(ctx)
//	<-sup.Done()
package driver
