package queries

import (
	"errors"

	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/pkg/errs"
	"emojiorder/internal/pkg/guard"
)

const (
	MinListLimit     = 1
	MaxListLimit     = 100
	DefaultListLimit = 50
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders newest first, optionally filtered by status.
//
// Example:
//
//	query, err := NewListOrdersQuery(order.Pending, 20)
//	if err != nil {
//	    return err
//	}
//	pending, err := handler.Handle(ctx, query)
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	status order.Status
	limit  int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery builds the query. order.Unknown disables the status
// filter; limit must lie within MinListLimit..MaxListLimit.
func NewListOrdersQuery(status order.Status, limit int) (ListOrdersQuery, error) {
	query := ListOrdersQuery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		query.setStatus(status),
		query.setLimit(limit),
	); err != nil {
		return ListOrdersQuery{}, err
	}

	return query, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Status() order.Status {
	return q.status
}

func (q ListOrdersQuery) Limit() int {
	return q.limit
}

func (q *ListOrdersQuery) setStatus(status order.Status) error {
	if status != order.Unknown {
		if err := status.Validate(); err != nil {
			return err
		}
	}

	q.status = status
	return nil
}

func (q *ListOrdersQuery) setLimit(limit int) error {
	if limit < MinListLimit || limit > MaxListLimit {
		return errs.NewValueIsOutOfRangeError("limit", limit, MinListLimit, MaxListLimit)
	}

	q.limit = limit
	return nil
}
