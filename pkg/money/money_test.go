package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDecimal(t *testing.T) {
	t.Run("converts major units to cents", func(t *testing.T) {
		d, err := decimal.NewFromString("1443685.70")
		require.NoError(t, err)

		m := NewFromDecimal(d, ARS)
		assert.Equal(t, int64(144368570), m.Amount())
		assert.Equal(t, ARS, m.Currency())
	})

	t.Run("rounds sub-cent values", func(t *testing.T) {
		d, err := decimal.NewFromString("10.005")
		require.NoError(t, err)

		m := NewFromDecimal(d, USD)
		assert.Equal(t, int64(1001), m.Amount())
	})

	t.Run("keeps sign", func(t *testing.T) {
		d, err := decimal.NewFromString("-17.87")
		require.NoError(t, err)

		m := NewFromDecimal(d, USD)
		assert.Equal(t, int64(-1787), m.Amount())
		assert.False(t, m.IsPositive())
	})
}

func TestMoney_Multiply(t *testing.T) {
	m := New(1000000, ARS) // 10000.00
	total := m.Multiply(4)
	assert.Equal(t, int64(4000000), total.Amount())
	assert.Equal(t, "40000.00 ARS", total.String())
}

func TestMoney_Decimal(t *testing.T) {
	m := New(2451, USD)
	assert.Equal(t, "24.51", m.Decimal().StringFixed(2))
}

func TestMoney_NilSafety(t *testing.T) {
	var m *Money
	assert.Equal(t, int64(0), m.Amount())
	assert.False(t, m.IsPositive())
	assert.Equal(t, "0", m.String())
}
