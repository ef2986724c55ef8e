package invoice

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func sampleInvoice() Invoice {
	return Invoice{
		Number: "INV-001",
		Date:   "2024-03-15",
		BillTo: BillTo{
			Name:    "Sharma Traders",
			Address: "12 MG Road, Pune",
			TaxID:   "27ABCDE1234F1Z5",
		},
		Company: Company{Name: "Shree Ceramics", Address: "Morbi, Gujarat", TaxID: "24AAACS1234A1Z2"},
		Items: []LineItem{
			{ID: "tile-a", Name: "Vitrified Tile", Price: dec("1000"), Quantity: 5, HSNCode: "6907"},
			{ID: "tile-b", Name: "Wall Tile", Price: dec("250.50"), Quantity: 2, HSNCode: "6908", TaxRate: decPtr("12")},
		},
		TaxRate:        dec("18"),
		Packaging:      dec("100"),
		Transportation: dec("50"),
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestComputeLineUsesOverrideRate(t *testing.T) {
	inv := sampleInvoice()

	line := ComputeLine(inv.Items[0], inv.TaxRate)
	requireDecimal(t, "5000", line.TaxableValue)
	requireDecimal(t, "900", line.TaxAmount)
	requireDecimal(t, "5900", line.LineTotal)

	line = ComputeLine(inv.Items[1], inv.TaxRate)
	requireDecimal(t, "12", line.Rate)
	requireDecimal(t, "501", line.TaxableValue)
	requireDecimal(t, "60.12", line.TaxAmount)
	requireDecimal(t, "561.12", line.LineTotal)
}

func TestComputeInvoiceTotals(t *testing.T) {
	totals := ComputeInvoiceTotals(sampleInvoice())

	require.Equal(t, int64(7), totals.Quantity)
	requireDecimal(t, "5501", totals.TaxableValue)
	requireDecimal(t, "5501", totals.Subtotal())
	requireDecimal(t, "960.12", totals.TaxAmount)
	requireDecimal(t, "6461.12", totals.ItemsTotal)
	requireDecimal(t, "6611.12", totals.GrandTotal)
	require.Len(t, totals.Lines, 2)

	// grand total = subtotal + packaging + transportation + tax
	requireDecimal(t, totals.GrandTotal.String(),
		totals.TaxableValue.Add(totals.Packaging).Add(totals.Transportation).Add(totals.TaxAmount))
}

func TestComputeTotalsOrderIndependent(t *testing.T) {
	items := makeItems(9)
	items[3].TaxRate = decPtr("5")
	items[6].Price = dec("0.10")

	forward := ComputeTotals(items, dec("18"))
	reversed := slices.Clone(items)
	slices.Reverse(reversed)
	backward := ComputeTotals(reversed, dec("18"))

	requireDecimal(t, forward.TaxableValue.String(), backward.TaxableValue)
	requireDecimal(t, forward.TaxAmount.String(), backward.TaxAmount)
	requireDecimal(t, forward.GrandTotal.String(), backward.GrandTotal)
}

func TestComputeTotalsHasNoFloatDrift(t *testing.T) {
	items := []LineItem{
		{Price: dec("0.1"), Quantity: 1},
		{Price: dec("0.1"), Quantity: 1},
		{Price: dec("0.1"), Quantity: 1},
	}
	totals := ComputeTotals(items, decimal.Zero)
	require.Equal(t, "0.3", totals.TaxableValue.String())
	require.True(t, totals.TaxAmount.IsZero())
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil, dec("18"))
	require.Zero(t, totals.Quantity)
	require.True(t, totals.GrandTotal.IsZero())
	require.NotNil(t, totals.Lines)
	require.Empty(t, totals.Lines)
}
