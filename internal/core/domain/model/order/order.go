package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the pipeline: a priced set of line items and
// modifiers moving through the status lifecycle.
//
// Order follows these invariants:
//   - The identifier is valid and never changes
//   - At least one line item is present
//   - total equals the sum of line item and modifier prices at creation and is
//     never recomputed afterwards
//   - updatedAt is never before createdAt and moves on every mutation
//   - Status changes only along the transitions defined by Status
type Order struct {
	id           kernel.UUID
	customerName string
	lineItems    []LineItem
	modifiers    []LineItem
	total        kernel.Money
	status       Status
	createdAt    time.Time
	updatedAt    time.Time

	// paymentReference and paymentURL are empty until a charge is attached.
	paymentReference string
	paymentURL       string

	isConstructed bool
}

// NewOrder creates a Pending order. customerName may be empty for a guest order.
//
// Example:
//
//	coffee, _ := menu.Lookup("☕")
//	o, err := order.NewOrder(kernel.NewUUID(), "Ada",
//	    []order.LineItem{order.NewLineItem(coffee)}, nil, time.Now())
func NewOrder(
	id kernel.UUID,
	customerName string,
	lineItems []LineItem,
	modifiers []LineItem,
	now time.Time,
) (*Order, error) {
	order := &Order{
		customerName:  strings.TrimSpace(customerName),
		modifiers:     slices.Clone(modifiers),
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setLineItems(lineItems),
		validateTimestamp("createdAt", now),
	); err != nil {
		return nil, err
	}

	order.total = sumPrices(order.lineItems, order.modifiers)
	return order, nil
}

// Snapshot is the full persisted state of an order, used by storage adapters.
type Snapshot struct {
	ID               kernel.UUID
	CustomerName     string
	LineItems        []LineItem
	Modifiers        []LineItem
	Total            kernel.Money
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
	PaymentReference string
	PaymentURL       string
}

// RestoreOrder rebuilds an order from storage, re-checking every invariant.
func RestoreOrder(s Snapshot) (*Order, error) {
	order := &Order{
		customerName:     s.CustomerName,
		modifiers:        slices.Clone(s.Modifiers),
		total:            s.Total,
		status:           s.Status,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		paymentReference: s.PaymentReference,
		paymentURL:       s.PaymentURL,
		isConstructed:    true,
	}

	var totalErr, timeErr error
	if expected := sumPrices(s.LineItems, s.Modifiers); !expected.IsEqual(s.Total) {
		totalErr = errs.NewValueIsInvalidErrorWithCause(
			"total",
			fmt.Errorf("%s does not match line items sum %s", s.Total, expected),
		)
	}
	if s.UpdatedAt.Before(s.CreatedAt) {
		timeErr = errs.NewValueIsInvalidErrorWithCause("updatedAt", errors.New("updatedAt is before createdAt"))
	}

	if err := errors.Join(
		order.setID(s.ID),
		order.setLineItems(s.LineItems),
		s.Status.Validate(),
		validateTimestamp("createdAt", s.CreatedAt),
		totalErr,
		timeErr,
	); err != nil {
		return nil, err
	}

	return order, nil
}

// Snapshot exports the order state. Slices are copies.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:               o.id,
		CustomerName:     o.customerName,
		LineItems:        o.LineItems(),
		Modifiers:        o.Modifiers(),
		Total:            o.total,
		Status:           o.status,
		CreatedAt:        o.createdAt,
		UpdatedAt:        o.updatedAt,
		PaymentReference: o.paymentReference,
		PaymentURL:       o.paymentURL,
	}
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Clone returns an independent copy. Stores hand out clones so that callers
// cannot change authoritative state without going through a store operation.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.lineItems = slices.Clone(o.lineItems)
	c.modifiers = slices.Clone(o.modifiers)
	return &c
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerName returns the empty string for guest orders.
func (o *Order) CustomerName() string {
	return o.customerName
}

func (o *Order) LineItems() []LineItem {
	return slices.Clone(o.lineItems)
}

func (o *Order) Modifiers() []LineItem {
	return slices.Clone(o.modifiers)
}

// ModifierNames lists modifier names in scan order.
func (o *Order) ModifierNames() []string {
	names := make([]string, 0, len(o.modifiers))
	for _, m := range o.modifiers {
		names = append(names, m.Name())
	}
	return names
}

// Total is the price frozen at creation.
func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// PaymentReference returns the empty string until one is attached.
func (o *Order) PaymentReference() string {
	return o.paymentReference
}

func (o *Order) PaymentURL() string {
	return o.paymentURL
}

// ChangeStatus moves the order to next if the lifecycle allows it.
//
// Returns:
//   - nil on success
//   - *TransitionError (errors.Is ErrInvalidTransition) if the move is not allowed
//   - a validation error if next is not a valid status
func (o *Order) ChangeStatus(next Status, now time.Time) error {
	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch(now)
	return nil
}

// AttachPaymentReference records the payment collaborator's reference and,
// optionally, the URL the customer pays at. A later call replaces both.
func (o *Order) AttachPaymentReference(reference, paymentURL string, now time.Time) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("payment reference")
	}

	o.paymentReference = reference
	o.paymentURL = strings.TrimSpace(paymentURL)
	o.touch(now)
	return nil
}

// touch bumps updatedAt without ever moving it backwards.
func (o *Order) touch(now time.Time) {
	if now.After(o.updatedAt) {
		o.updatedAt = now
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setLineItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}
	o.lineItems = slices.Clone(items)
	return nil
}

func validateTimestamp(name string, t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func sumPrices(groups ...[]LineItem) kernel.Money {
	total := kernel.Zero
	for _, group := range groups {
		for _, item := range group {
			total = total.Add(item.UnitPrice())
		}
	}
	return total
}
