package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(10.50), USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(10.50)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		require.Error(t, err)
	})

	t.Run("from string", func(t *testing.T) {
		m, err := NewMoneyFromString("99.99", EUR)
		require.NoError(t, err)
		assert.Equal(t, "99.99 EUR", m.String())

		_, err = NewMoneyFromString("not-a-number", EUR)
		require.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	ten := NewMoneyUSD(decimal.NewFromInt(10))
	three := NewMoneyUSD(decimal.NewFromInt(3))
	euro := Zero(EUR)

	t.Run("add", func(t *testing.T) {
		sum, err := ten.Add(three)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(13)))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := ten.Subtract(three)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(7)))
	})

	t.Run("currency mismatch", func(t *testing.T) {
		_, err := ten.Add(euro)
		require.Error(t, err)
		_, err = ten.Subtract(euro)
		require.Error(t, err)
		_, err = ten.GreaterThan(euro)
		require.Error(t, err)
	})

	t.Run("multiply and negate", func(t *testing.T) {
		doubled := ten.Multiply(decimal.NewFromInt(2))
		assert.True(t, doubled.Amount().Equal(decimal.NewFromInt(20)))

		neg := ten.Negate()
		assert.True(t, neg.IsNegative())
		assert.True(t, neg.Abs().Equals(ten))
	})

	t.Run("comparisons", func(t *testing.T) {
		gt, err := ten.GreaterThan(three)
		require.NoError(t, err)
		assert.True(t, gt)

		lt, err := three.LessThan(ten)
		require.NoError(t, err)
		assert.True(t, lt)
	})
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(12.34))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"12.34","currency":"USD"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(m))
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string amount", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("42.5"))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.5)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("nil becomes zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		require.Error(t, m.Scan(3.14))
	})
}

func TestCurrencyIsValid(t *testing.T) {
	assert.True(t, USD.IsValid())
	assert.True(t, Currency("XAU").IsValid())
	assert.False(t, Currency("usd").IsValid())
	assert.False(t, Currency("US").IsValid())
	assert.False(t, Currency("DOLL").IsValid())
}
