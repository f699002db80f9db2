package template

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUSD(t *testing.T) {
	for expected, value := range map[string]decimal.Decimal{
		"$0.00":          decimal.Zero,
		"$50.00":         decimal.NewFromInt(50),
		"$180.45":        decimal.RequireFromString("180.45"),
		"$1,234.56":      decimal.RequireFromString("1234.56"),
		"$10,000.00":     decimal.NewFromInt(10000),
		"$999.99":        decimal.RequireFromString("999.99"),
		"$1,000,000.00":  decimal.NewFromInt(1000000),
		"-$9,740.50":     decimal.RequireFromString("-9740.50"),
		"$0.50":          decimal.RequireFromString("0.5"),
	} {
		assert.Equal(t, expected, USD(value))
	}
}
