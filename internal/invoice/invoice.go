// Package invoice computes tax totals, page plans and amount-in-words for tax invoices.
//
// The engine is pure: it never mutates an Invoice and every call allocates a fresh
// Result, so a single Engine can serve concurrent renders.
package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is one priced row of an invoice.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity" validate:"gt=0"`
	// Area is only consulted when the invoice shows the area column.
	Area    *decimal.Decimal `json:"sqFeet,omitempty"`
	HSNCode string           `json:"hsnCode"`
	// TaxRate overrides the invoice-wide rate for this item when set.
	TaxRate *decimal.Decimal `json:"taxRate,omitempty"`
}

// EffectiveRate returns the item's own rate, falling back to the invoice rate.
func (li LineItem) EffectiveRate(defaultRate decimal.Decimal) decimal.Decimal {
	if li.TaxRate != nil {
		return *li.TaxRate
	}
	return defaultRate
}

// Party is a Bill-To or Ship-To customer block.
type Party struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	TaxID          string `json:"gstNumber"`
	SecondaryTaxID string `json:"panNumber,omitempty"`
	Phone          string `json:"phoneNumber,omitempty"`
}

// IsPopulated reports whether any field is set. Skins fall back to Bill-To when it is not.
func (p Party) IsPopulated() bool {
	for _, v := range []string{p.Name, p.Address, p.TaxID, p.SecondaryTaxID, p.Phone} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// BillTo is a Party whose identifying fields are mandatory.
type BillTo struct {
	Name           string `json:"name" validate:"required,notblank"`
	Address        string `json:"address" validate:"required,notblank"`
	TaxID          string `json:"gstNumber" validate:"required,notblank"`
	SecondaryTaxID string `json:"panNumber,omitempty"`
	Phone          string `json:"phoneNumber,omitempty"`
}

// Party converts the Bill-To block to a plain Party.
func (b BillTo) Party() Party {
	return Party(b)
}

// Company describes the issuer printed in the invoice header.
type Company struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	CityState string `json:"cityState,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	TaxID     string `json:"gstin,omitempty"`
}

// DisplayFlags toggle optional columns.
type DisplayFlags struct {
	ShowQuantityUnit bool `json:"showPcsInQty"`
	ShowArea         bool `json:"showSqFeet"`
}

// StoredTotals are the figures persisted alongside the invoice. They are only ever
// compared against recomputed totals, never used for display.
type StoredTotals struct {
	Subtotal  *decimal.Decimal `json:"subtotal,omitempty"`
	TaxAmount *decimal.Decimal `json:"gstAmount,omitempty"`
	Total     *decimal.Decimal `json:"total,omitempty"`
}

// Invoice is the aggregate consumed by the engine.
type Invoice struct {
	Number      string `json:"invoiceNumber" validate:"required,notblank"`
	Date        string `json:"invoiceDate"`
	ChallanNo   string `json:"challanNo,omitempty" validate:"omitempty,alphanum,max=6"`
	ChallanDate string `json:"challanDate,omitempty"`
	PONo        string `json:"poNo,omitempty" validate:"omitempty,numeric"`
	EWayNo      string `json:"eWayNo,omitempty" validate:"omitempty,max=14"`

	BillTo  BillTo  `json:"customerBillTo"`
	ShipTo  Party   `json:"customerShipTo"`
	Company Company `json:"companyDetails"`

	Items []LineItem `json:"items" validate:"dive"`

	// TaxRate is the invoice-wide percentage applied to items without an override.
	TaxRate        decimal.Decimal `json:"gstRate"`
	Packaging      decimal.Decimal `json:"packaging"`
	Transportation decimal.Decimal `json:"transportationAndOthers"`

	Template string `json:"template,omitempty"`

	DisplayFlags
	StoredTotals
}

// ShipToPopulated reports whether a distinct Ship-To block was supplied.
func (inv Invoice) ShipToPopulated() bool {
	return inv.ShipTo.IsPopulated()
}

// Templates lists the visual skins a renderer knows about.
var Templates = []string{"classic", "minimal", "modern", "professional"}
