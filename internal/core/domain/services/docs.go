// Package services contains the stateless domain services of the order pipeline.
//
// The package includes:
//   - OrderResolver: turns an emoji string into priced items and modifiers
//   - OrderFormatter: read-only projections of an order for display and APIs
//
// Neither service performs I/O or holds mutable state; both are safe for
// concurrent use.
package services
