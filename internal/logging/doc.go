// Package logging provides a unified logging interface for threadrace.
// It abstracts the underlying logging implementation so the driver, the
// colony and the metrics server log the same way whether they are backed by
// zerolog or by the standard library logger.
package logging
