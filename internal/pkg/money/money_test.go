package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "$8,300.00", Format(decimal.NewFromInt(8300), "USD"))
	assert.Equal(t, "$1,250.51", Format(decimal.RequireFromString("1250.505"), "USD"))
	assert.Equal(t, Format(decimal.NewFromInt(10), DefaultCurrency), Format(decimal.NewFromInt(10), "NOPE"))
	assert.Equal(t, Format(decimal.NewFromInt(10), DefaultCurrency), Format(decimal.NewFromInt(10), ""))
}

func TestRound(t *testing.T) {
	assert.True(t, decimal.RequireFromString("10.13").Equal(Round(decimal.RequireFromString("10.125"), "USD")))
	assert.True(t, decimal.RequireFromString("10.13").Equal(Round(decimal.RequireFromString("10.125"), "XXX-unknown")))
}

func TestIsKnownCurrency(t *testing.T) {
	assert.True(t, IsKnownCurrency("USD"))
	assert.True(t, IsKnownCurrency("SAR"))
	assert.False(t, IsKnownCurrency("ZZZ"))
}
