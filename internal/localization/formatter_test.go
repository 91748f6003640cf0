package localization

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsCurrency(t *testing.T) {
	f, err := NewFormatter("en")
	require.NoError(t, err)

	tests := []struct {
		name       string
		amount     string
		iso        string
		stripZeros bool
		want       string
	}{
		{name: "standard scale", amount: "12.5", iso: "USD", want: "USD 12.50"},
		{name: "grouping", amount: "1234.5", iso: "eur", want: "EUR 1,234.50"},
		{name: "strip integral", amount: "10.0000", iso: "GBP", stripZeros: true, want: "GBP 10"},
		{name: "strip keeps fraction", amount: "10.25", iso: "GBP", stripZeros: true, want: "GBP 10.25"},
		{name: "negative", amount: "-5", iso: "GBP", want: "GBP -5.00"},
		{name: "ten digit amount", amount: "1234567890.125", iso: "USD", want: "USD 1,234,567,890.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.AsCurrency(decimal.RequireFromString(tt.amount), tt.iso, tt.stripZeros)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsCurrencyUnknownISO(t *testing.T) {
	f, err := NewFormatter("en")
	require.NoError(t, err)

	_, err = f.AsCurrency(decimal.NewFromInt(1), "XX1", false)
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestNormalizeNumber(t *testing.T) {
	en, err := NewFormatter("en")
	require.NoError(t, err)
	de, err := NewFormatter("de")
	require.NoError(t, err)

	assert.Equal(t, "1234.5", en.NormalizeNumber("1,234.5"))
	assert.Equal(t, "1234.5", de.NormalizeNumber("1.234,5"))
	assert.Equal(t, 42, en.NormalizeNumber(42))
}

func TestParseDecimal(t *testing.T) {
	f, err := NewFormatter("de")
	require.NoError(t, err)

	d, err := f.ParseDecimal("12,75")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("12.75")))

	d, err = f.ParseDecimal("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = f.ParseDecimal("abc")
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestNewFormatterRejectsBadLocale(t *testing.T) {
	_, err := NewFormatter("not a locale!")
	assert.Error(t, err)
}
