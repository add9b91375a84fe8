// Package kernel provides the value objects shared across the order domain.
//
// The package includes:
//   - UUID: order identifier with validation and comparison
//   - Money: exact non-negative decimal amounts for prices and totals
//   - Clock and IDGenerator: seams for time and identity so handlers stay deterministic
//
// Values are immutable and safe for concurrent use.
package kernel
