package invoice

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/invoice-engine/internal/money"
)

// Line holds the derived figures for a single item.
type Line struct {
	TaxableValue decimal.Decimal `json:"taxableValue"`
	Rate         decimal.Decimal `json:"rate"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

// Totals aggregates an invoice's figures. All values are exact; callers round at display time.
type Totals struct {
	Quantity int64 `json:"quantity"`
	// TaxableValue is the invoice subtotal, Σ price × quantity.
	TaxableValue decimal.Decimal `json:"taxableValue"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	// ItemsTotal is Σ (taxable value + tax) over the items.
	ItemsTotal     decimal.Decimal `json:"itemsTotal"`
	Packaging      decimal.Decimal `json:"packaging"`
	Transportation decimal.Decimal `json:"transportation"`
	// GrandTotal is ItemsTotal plus the untaxed charges.
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Lines      []Line          `json:"lines"`
}

// ComputeLine derives one item's taxable value, tax and line total.
func ComputeLine(item LineItem, defaultRate decimal.Decimal) Line {
	taxable := money.Multiply(item.Price, decimal.NewFromInt(item.Quantity))
	rate := item.EffectiveRate(defaultRate)
	tax := money.PercentageOf(taxable, rate)
	return Line{
		TaxableValue: taxable,
		Rate:         rate,
		TaxAmount:    tax,
		LineTotal:    taxable.Add(tax),
	}
}

// ComputeTotals derives per-item and aggregate figures for items taxed at
// defaultRatePercent unless an item overrides it. GrandTotal equals ItemsTotal
// because no charges are involved.
func ComputeTotals(items []LineItem, defaultRatePercent decimal.Decimal) Totals {
	lines := lo.Map(items, func(item LineItem, _ int) Line {
		return ComputeLine(item, defaultRatePercent)
	})
	itemsTotal := money.Sum(lo.Map(lines, func(l Line, _ int) decimal.Decimal { return l.LineTotal })...)
	return Totals{
		Quantity:       lo.SumBy(items, func(item LineItem) int64 { return item.Quantity }),
		TaxableValue:   money.Sum(lo.Map(lines, func(l Line, _ int) decimal.Decimal { return l.TaxableValue })...),
		TaxAmount:      money.Sum(lo.Map(lines, func(l Line, _ int) decimal.Decimal { return l.TaxAmount })...),
		ItemsTotal:     itemsTotal,
		Packaging:      decimal.Zero,
		Transportation: decimal.Zero,
		GrandTotal:     itemsTotal,
		Lines:          lines,
	}
}

// WithCharges adds packaging and transportation to the grand total.
func (t Totals) WithCharges(packaging, transportation decimal.Decimal) Totals {
	t.Packaging = packaging
	t.Transportation = transportation
	t.GrandTotal = money.Sum(t.ItemsTotal, packaging, transportation)
	return t
}

// ComputeInvoiceTotals computes totals for every item of inv including its charges.
func ComputeInvoiceTotals(inv Invoice) Totals {
	return ComputeTotals(inv.Items, inv.TaxRate).WithCharges(inv.Packaging, inv.Transportation)
}

// Subtotal is an alias for TaxableValue matching the stored field name.
func (t Totals) Subtotal() decimal.Decimal {
	return t.TaxableValue
}
