// Package logging provides structured logging for Hearth Core.
//
// It wraps log/slog with configuration-driven format and level selection
// and stamps every record with the service name and version. Leaf packages
// do not import this package directly; they declare a minimal Logger
// interface and receive a *logging.Logger (or nothing) from main.
package logging
