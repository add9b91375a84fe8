// Package order provides the Order aggregate and its status lifecycle.
//
// The package includes:
//   - Order: the aggregate root holding line items, modifiers, the frozen total,
//     timestamps and the optional payment reference
//   - LineItem: one priced unit copied from a catalog entry
//   - Status: the state machine enforcing legal transitions
//
// Key business rules:
//   - An order needs at least one line item
//   - The total is computed once, at creation, from line items and modifiers
//   - Status follows Pending -> Confirmed -> Paid -> Preparing -> Ready -> Completed,
//     and Pending, Confirmed or Paid may be Cancelled
//   - Completed and Cancelled are terminal
//   - Every mutation moves updatedAt forward
package order
