package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrecision(t *testing.T) {
	assert.Equal(t, int32(0), DefaultPrecision("IRR", false))
	assert.Equal(t, int32(8), DefaultPrecision("BTC", true))
	assert.Equal(t, int32(8), DefaultPrecision("USDT", true))
	assert.Equal(t, int32(2), DefaultPrecision("USD", false))
	assert.Equal(t, int32(2), DefaultPrecision("AED", false))
}

func TestRound_HalfToEven(t *testing.T) {
	testCases := []struct {
		name      string
		amount    string
		precision int32
		expected  string
	}{
		{"half rounds to even below", "2.005", 2, "2"},
		{"half rounds to even above", "2.015", 2, "2.02"},
		{"ordinary round up", "2.016", 2, "2.02"},
		{"ordinary round down", "2.014", 2, "2.01"},
		{"zero precision", "2.5", 0, "2"},
		{"zero precision odd", "3.5", 0, "4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Round(decimal.RequireFromString(tc.amount), tc.precision)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)), "got %s", got.String())
		})
	}
}

func TestMinorUnit(t *testing.T) {
	assert.True(t, MinorUnit(2).Equal(decimal.RequireFromString("0.01")))
	assert.True(t, MinorUnit(0).Equal(decimal.RequireFromString("1")))
	assert.True(t, MinorUnit(8).Equal(decimal.RequireFromString("0.00000001")))
}

func TestSplit_RemainderAbsorbsResidual(t *testing.T) {
	total := decimal.RequireFromString("100")
	part := decimal.RequireFromString("33.335")

	rounded, rest := Split(total, part, 2)
	require.True(t, rounded.Add(rest).Equal(total), "split must reassemble to the total")
	assert.True(t, rounded.Equal(decimal.RequireFromString("33.34")))
}

func TestResidual(t *testing.T) {
	total := decimal.RequireFromString("10")
	residual := Residual(total, decimal.RequireFromString("3.33"), decimal.RequireFromString("3.33"), decimal.RequireFromString("3.33"))
	assert.True(t, residual.Equal(decimal.RequireFromString("0.01")))

	assert.True(t, Residual(total, total).IsZero())
}

func TestCheckPrecision(t *testing.T) {
	assert.NoError(t, CheckPrecision(decimal.RequireFromString("10.25"), "USD", 2))
	assert.NoError(t, CheckPrecision(decimal.RequireFromString("10"), "USD", 2))
	assert.NoError(t, CheckPrecision(decimal.RequireFromString("5000"), "IRR", 0))

	assert.Error(t, CheckPrecision(decimal.RequireFromString("10.255"), "USD", 2))
	assert.Error(t, CheckPrecision(decimal.RequireFromString("10.5"), "IRR", 0))
}
