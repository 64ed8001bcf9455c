package registry

import (
	"errors"
	"fmt"
)

// Domain errors for the registry package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, registry.ErrDeviceDefined) {
//	    // handle duplicate registration
//	}
var (
	// ErrDeviceDefined is returned when a registration names a device that
	// is already present in the table. It is the only failure a
	// registration request can produce.
	ErrDeviceDefined = errors.New("registry: device already defined")

	// ErrClosed is returned by Client methods after the request channel has
	// been closed (the registrar has shut down or is shutting down).
	ErrClosed = errors.New("registry: registrar closed")
)

// deviceDefined wraps ErrDeviceDefined with the offending device name.
func deviceDefined(name string) error {
	return fmt.Errorf("%w: %s", ErrDeviceDefined, name)
}
