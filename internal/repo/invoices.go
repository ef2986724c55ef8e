package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/invoice-engine/internal/invoice"
)

// ErrCorruptRow marks stored rows whose columns cannot be decoded.
var ErrCorruptRow = errors.New("repo: corrupt invoice row")

// Querier is the subset of pgxpool.Pool used by InvoiceRepo.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InvoiceRepo loads stored invoices. Numeric columns are read as text so no
// precision is lost on the way into decimals.
type InvoiceRepo struct {
	DB Querier
}

const getInvoiceByNumberSQL = `
SELECT invoice_number,
       COALESCE(invoice_date::text, ''),
       COALESCE(challan_no, ''),
       COALESCE(challan_date::text, ''),
       COALESCE(po_no, ''),
       COALESCE(eway_no, ''),
       customer_bill_to,
       customer_ship_to,
       company_details,
       items,
       gst_rate::text,
       packaging::text,
       transportation_and_others::text,
       show_pcs_in_qty,
       show_sq_feet,
       COALESCE(template, ''),
       subtotal::text,
       gst_amount::text,
       total::text
FROM invoices
WHERE invoice_number = $1`

// GetByNumber implements invoice.Store.
func (r InvoiceRepo) GetByNumber(ctx context.Context, number string) (invoice.Invoice, error) {
	var (
		inv                              invoice.Invoice
		billTo, shipTo, company, items   []byte
		rate, packaging, transportation  string
		subtotal, taxAmount, storedTotal *string
	)
	err := r.DB.QueryRow(ctx, getInvoiceByNumberSQL, number).Scan(
		&inv.Number,
		&inv.Date,
		&inv.ChallanNo,
		&inv.ChallanDate,
		&inv.PONo,
		&inv.EWayNo,
		&billTo,
		&shipTo,
		&company,
		&items,
		&rate,
		&packaging,
		&transportation,
		&inv.ShowQuantityUnit,
		&inv.ShowArea,
		&inv.Template,
		&subtotal,
		&taxAmount,
		&storedTotal,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invoice.Invoice{}, fmt.Errorf("%w: %s", invoice.ErrNotFound, number)
		}
		return invoice.Invoice{}, err
	}

	for _, col := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"customer_bill_to", billTo, &inv.BillTo},
		{"customer_ship_to", shipTo, &inv.ShipTo},
		{"company_details", company, &inv.Company},
		{"items", items, &inv.Items},
	} {
		if err := decodeJSONColumn(col.raw, col.dst); err != nil {
			return invoice.Invoice{}, fmt.Errorf("%w: decode %s: %w", ErrCorruptRow, col.name, err)
		}
	}

	if inv.TaxRate, err = decimal.NewFromString(rate); err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: parse gst_rate: %w", ErrCorruptRow, err)
	}
	if inv.Packaging, err = decimal.NewFromString(packaging); err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: parse packaging: %w", ErrCorruptRow, err)
	}
	if inv.Transportation, err = decimal.NewFromString(transportation); err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: parse transportation_and_others: %w", ErrCorruptRow, err)
	}
	if inv.Subtotal, err = optionalDecimal(subtotal); err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: parse subtotal: %w", ErrCorruptRow, err)
	}
	if inv.TaxAmount, err = optionalDecimal(taxAmount); err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: parse gst_amount: %w", ErrCorruptRow, err)
	}
	if inv.Total, err = optionalDecimal(storedTotal); err != nil {
		return invoice.Invoice{}, fmt.Errorf("%w: parse total: %w", ErrCorruptRow, err)
	}

	assignItemIDs(inv.Number, inv.Items)
	return inv, nil
}

func decodeJSONColumn(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func optionalDecimal(value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// assignItemIDs gives legacy rows without item ids a stable id derived from the
// invoice number and position.
func assignItemIDs(number string, items []invoice.LineItem) {
	for i := range items {
		if items[i].ID != "" {
			continue
		}
		items[i].ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(number+"/"+strconv.Itoa(i))).String()
	}
}
