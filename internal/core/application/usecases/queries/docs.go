// Package queries contains read-only operations over orders. Handlers read
// through ports.OrderReader and never open a unit of work.
package queries
