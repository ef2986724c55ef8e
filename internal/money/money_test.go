package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPercentageOfIsExact(t *testing.T) {
	got := PercentageOf(dec("10.01"), dec("2.5"))
	require.True(t, got.Equal(dec("0.25025")), "got %s", got)

	got = PercentageOf(dec("1000"), dec("18"))
	require.True(t, got.Equal(dec("180")), "got %s", got)
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	values := make([]decimal.Decimal, 0, 10)
	for i := 0; i < 10; i++ {
		values = append(values, dec("0.1"))
	}
	require.True(t, Sum(values...).Equal(dec("1")))
	require.True(t, Sum().Equal(decimal.Zero))
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	require.Equal(t, "0.13", Round(dec("0.125")).StringFixed(2))
	require.Equal(t, "-0.13", Round(dec("-0.125")).StringFixed(2))
	require.Equal(t, "2.68", Round(dec("2.675")).StringFixed(2))
}

func TestWithinTolerance(t *testing.T) {
	require.True(t, WithinTolerance(dec("100.00"), dec("100.01"), MinorUnit))
	require.True(t, WithinTolerance(dec("100.01"), dec("100.00"), MinorUnit))
	require.False(t, WithinTolerance(dec("100.00"), dec("100.02"), MinorUnit))
}

func TestFormatIndianGrouping(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"5":          "5.00",
		"999.999":    "1,000.00",
		"1234.5":     "1,234.50",
		"123456":     "1,23,456.00",
		"1234567.89": "12,34,567.89",
		"100000000":  "10,00,00,000.00",
		"-1234567.8": "-12,34,567.80",
		"-0.001":     "0.00",
	}
	for in, want := range cases {
		require.Equal(t, want, Indian.Format(dec(in)), "input %s", in)
	}
}

func TestFormatWesternGrouping(t *testing.T) {
	require.Equal(t, "1,234,567.89", Western.Format(dec("1234567.89")))
	require.Equal(t, "123.00", Western.Format(dec("123")))
}

func TestParseGrouping(t *testing.T) {
	f, err := ParseGrouping("indian")
	require.NoError(t, err)
	require.Equal(t, Indian, f)

	f, err = ParseGrouping("western")
	require.NoError(t, err)
	require.Equal(t, Western, f)

	f, err = ParseGrouping("4,4")
	require.NoError(t, err)
	require.Equal(t, "1,2345,6789.00", f.Format(dec("123456789")))

	_, err = ParseGrouping("3")
	require.ErrorIs(t, err, ErrInvalidGrouping)
	_, err = ParseGrouping("0,2")
	require.ErrorIs(t, err, ErrInvalidGrouping)
}

func TestFormatPercent(t *testing.T) {
	require.Equal(t, "18%", FormatPercent(dec("18.00")))
	require.Equal(t, "2.5%", FormatPercent(dec("2.50")))
}
