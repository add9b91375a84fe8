package kernel

import (
	"fmt"

	"emojiorder/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a non-negative decimal amount in the single currency the menu is
// priced in. It is immutable; arithmetic returns new values.
//
// Money is backed by github.com/shopspring/decimal so that sums such as
// 3.50 + 12.00 are exact.
//
// Example:
//
//	coffee := kernel.MustMoneyFromString("3.50")
//	pizza := kernel.MustMoneyFromString("12.00")
//	fmt.Println(coffee.Add(pizza)) // 15.50
type Money struct {
	amount decimal.Decimal
}

// Zero is the additive identity.
var Zero = Money{amount: decimal.Zero}

// NewMoney validates that amount is not negative.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}
	return Money{amount: amount}, nil
}

// MoneyFromString parses a decimal string such as "3.50".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", err)
	}
	return NewMoney(amount)
}

// MustMoneyFromString is MoneyFromString for literals known to be valid.
func MustMoneyFromString(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Times multiplies by a non-negative quantity.
func (m Money) Times(quantity int) Money {
	if quantity < 0 {
		quantity = 0
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// DivideBy divides by a positive count. Division by zero or less yields Zero.
func (m Money) DivideBy(count int) Money {
	if count <= 0 {
		return Zero
	}
	return Money{amount: m.amount.Div(decimal.NewFromInt(int64(count)))}
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Decimal exposes the amount for adapters and exact comparisons.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with two decimal places.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
