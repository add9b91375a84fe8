package kernel_test

import (
	"testing"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromString(t *testing.T) {
	t.Run("should parse decimal strings", func(t *testing.T) {
		m, err := kernel.MoneyFromString("3.5")

		require.NoError(t, err)
		assert.Equal(t, "3.50", m.String())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.MoneyFromString("-0.01")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := kernel.MoneyFromString("three fifty")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("must variant panics on invalid input", func(t *testing.T) {
		assert.Panics(t, func() { kernel.MustMoneyFromString("-1") })
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	coffee := kernel.MustMoneyFromString("3.50")
	pizza := kernel.MustMoneyFromString("12.00")

	t.Run("add is exact", func(t *testing.T) {
		assert.True(t, coffee.Add(pizza).IsEqual(kernel.MustMoneyFromString("15.50")))
		sum := kernel.MustMoneyFromString("0.10").Add(kernel.MustMoneyFromString("0.20"))
		assert.Equal(t, "0.30", sum.String())
	})

	t.Run("times multiplies by quantity", func(t *testing.T) {
		assert.Equal(t, "10.50", coffee.Times(3).String())
		assert.True(t, coffee.Times(0).IsZero())
		assert.True(t, coffee.Times(-2).IsZero())
	})

	t.Run("divide by count", func(t *testing.T) {
		ten := kernel.MustMoneyFromString("10.00")
		expected := decimal.NewFromInt(10).Div(decimal.NewFromInt(3))

		assert.True(t, ten.DivideBy(3).Decimal().Equal(expected))
		assert.True(t, ten.DivideBy(0).IsZero())
	})

	t.Run("zero is the additive identity", func(t *testing.T) {
		assert.True(t, kernel.Zero.Add(coffee).IsEqual(coffee))
	})
}
