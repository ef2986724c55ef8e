package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/invoice-engine/internal/money"
	"github.com/noah-isme/invoice-engine/internal/words"
)

// Options configures an Engine. Zero fields fall back to DefaultOptions,
// except Tolerance: zero demands exact stored totals and only a negative
// tolerance falls back.
type Options struct {
	Planner      Planner
	Formatter    money.Formatter
	Words        words.Converter
	Tolerance    decimal.Decimal
	QuantityUnit string
	// TolerateInvalidItems renders without items that have range violations
	// instead of rejecting the invoice.
	TolerateInvalidItems bool
}

// DefaultOptions renders with the 7/14 layout, Indian grouping and rupee words.
func DefaultOptions() Options {
	return Options{
		Planner:      DefaultPlanner,
		Formatter:    money.Indian,
		Words:        words.Rupees,
		Tolerance:    DefaultTolerance,
		QuantityUnit: "Pcs",
	}
}

// Engine turns invoices into page plans, totals and words.
type Engine struct {
	opts Options
}

// NewEngine constructs an Engine.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	opts.Planner = opts.Planner.normalized()
	if opts.Formatter.Primary <= 0 {
		opts.Formatter = def.Formatter
	}
	if opts.Words.MajorUnit == "" {
		suffix := opts.Words.Suffix
		opts.Words = def.Words
		opts.Words.Suffix = suffix
	}
	if opts.Tolerance.IsNegative() {
		opts.Tolerance = def.Tolerance
	}
	if strings.TrimSpace(opts.QuantityUnit) == "" {
		opts.QuantityUnit = def.QuantityUnit
	}
	return &Engine{opts: opts}
}

// Options returns the effective configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// PageHeader is stamped on every page.
type PageHeader struct {
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"`
	PageNumber    int    `json:"pageNumber"`
	PageCount     int    `json:"pageCount"`
}

// Footer returns the page stamp line.
func (h PageHeader) Footer() string {
	return fmt.Sprintf("Invoice No: %s | Invoice Date: %s | Page %d of %d",
		h.InvoiceNumber, h.InvoiceDate, h.PageNumber, h.PageCount)
}

// Row is one display-ready item row. Serials continue across pages.
type Row struct {
	Serial        int    `json:"serial"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	HSNCode       string `json:"hsnCode"`
	Quantity      int64  `json:"quantity"`
	QuantityLabel string `json:"quantityLabel"`
	AreaLabel     string `json:"areaLabel,omitempty"`
	Price         string `json:"price"`
	TaxableValue  string `json:"taxableValue"`
	TaxRate       string `json:"taxRate"`
	TaxAmount     string `json:"taxAmount"`
	LineTotal     string `json:"lineTotal"`
}

// Summary is the grand-total block printed once, on the last page.
type Summary struct {
	Quantity       int64  `json:"quantity"`
	TaxableValue   string `json:"taxableValue"`
	Packaging      string `json:"packaging"`
	Transportation string `json:"transportationAndOthers"`
	TaxAmount      string `json:"totalTax"`
	GrandTotal     string `json:"totalAmountAfterTax"`
	TotalInWords   string `json:"totalInWords"`
}

// Page is one printed sheet.
type Page struct {
	Header            PageHeader `json:"header"`
	Footer            string     `json:"footer"`
	Rows              []Row      `json:"rows"`
	CarriesGrandTotal bool       `json:"carriesGrandTotal"`
	Summary           *Summary   `json:"summary,omitempty"`
}

// Result is the complete render output. It holds no timestamps or generated ids,
// so identical input always marshals to identical bytes.
type Result struct {
	InvoiceNumber    string           `json:"invoiceNumber"`
	Template         string           `json:"template,omitempty"`
	FirstPage        Page             `json:"firstPage"`
	OtherPages       []Page           `json:"otherPages"`
	Totals           Totals           `json:"totals"`
	TotalInWords     string           `json:"totalInWords"`
	ShipToPopulated  bool             `json:"shipToPopulated"`
	ShowQuantityUnit bool             `json:"showPcsInQty"`
	ShowArea         bool             `json:"showSqFeet"`
	Validation       ValidationResult `json:"validation"`
}

// Pages returns every page in print order.
func (r Result) Pages() []Page {
	return append([]Page{r.FirstPage}, r.OtherPages...)
}

// PageCount returns the number of pages.
func (r Result) PageCount() int {
	return 1 + len(r.OtherPages)
}

// Validate reports every finding for inv using the engine tolerance.
func (e *Engine) Validate(inv Invoice) ValidationResult {
	return Validate(inv, e.opts.Tolerance)
}

// Render validates inv and computes its document. Input-shape errors always reject.
// Range violations reject unless TolerateInvalidItems is set, in which case the
// offending items are left out and reported as warnings. Negative charges or
// invoice rates always reject. Stored-total mismatches are warnings only.
func (e *Engine) Render(inv Invoice) (Result, error) {
	rep := inspect(inv, e.opts.Tolerance, e.opts.TolerateInvalidItems)

	if shape := lo.Filter(rep.result.Errors(), func(v Violation, _ int) bool {
		return v.Kind == KindInputShape
	}); len(shape) > 0 {
		return Result{}, &ValidationError{Err: ErrInputShape, Violations: shape}
	}
	if ranged := rep.result.ByKind(KindRange); len(ranged) > 0 {
		if !e.opts.TolerateInvalidItems || rep.chargesInvalid {
			return Result{}, &ValidationError{Err: ErrRangeViolation, Violations: ranged}
		}
		rep.result = excludeItems(rep.result, inv.Items, rep.badItems)
	}

	totals := rep.totals
	plan := e.opts.Planner.Plan(rep.kept)
	inWords, err := e.opts.Words.ToWords(money.Round(totals.GrandTotal))
	if err != nil {
		return Result{}, fmt.Errorf("%w: total: %w", ErrRangeViolation, err)
	}

	pageCount := plan.PageCount()
	header := func(n int) PageHeader {
		return PageHeader{InvoiceNumber: inv.Number, InvoiceDate: inv.Date, PageNumber: n, PageCount: pageCount}
	}
	summary := e.summary(totals, inWords)

	offset := 0
	build := func(n int, items []LineItem) Page {
		h := header(n)
		page := Page{
			Header: h,
			Footer: h.Footer(),
			Rows:   e.rows(items, totals.Lines[offset:offset+len(items)], inv.DisplayFlags, e.opts.Planner.StartSerial(n)),
		}
		offset += len(items)
		if plan.IsLast(n) {
			page.CarriesGrandTotal = true
			page.Summary = &summary
		}
		return page
	}

	first := build(1, plan.FirstPage)
	others := make([]Page, 0, len(plan.OtherPages))
	for i, items := range plan.OtherPages {
		others = append(others, build(i+2, items))
	}

	return Result{
		InvoiceNumber:    inv.Number,
		Template:         inv.Template,
		FirstPage:        first,
		OtherPages:       others,
		Totals:           totals,
		TotalInWords:     inWords,
		ShipToPopulated:  inv.ShipToPopulated(),
		ShowQuantityUnit: inv.ShowQuantityUnit,
		ShowArea:         inv.ShowArea,
		Validation:       rep.result,
	}, nil
}

func (e *Engine) rows(items []LineItem, lines []Line, flags DisplayFlags, startSerial int) []Row {
	f := e.opts.Formatter
	return lo.Map(items, func(item LineItem, i int) Row {
		line := lines[i]
		row := Row{
			Serial:        startSerial + i,
			ID:            item.ID,
			Name:          item.Name,
			HSNCode:       item.HSNCode,
			Quantity:      item.Quantity,
			QuantityLabel: strconv.FormatInt(item.Quantity, 10),
			Price:         f.Format(item.Price),
			TaxableValue:  f.Format(line.TaxableValue),
			TaxRate:       money.FormatPercent(line.Rate),
			TaxAmount:     f.Format(line.TaxAmount),
			LineTotal:     f.Format(line.LineTotal),
		}
		if flags.ShowQuantityUnit {
			row.QuantityLabel += " " + e.opts.QuantityUnit
		}
		if flags.ShowArea {
			row.AreaLabel = "-"
			if item.Area != nil {
				row.AreaLabel = money.Round(*item.Area).StringFixed(money.Places)
			}
		}
		return row
	})
}

func (e *Engine) summary(t Totals, inWords string) Summary {
	f := e.opts.Formatter
	return Summary{
		Quantity:       t.Quantity,
		TaxableValue:   f.Format(t.TaxableValue),
		Packaging:      f.Format(t.Packaging),
		Transportation: f.Format(t.Transportation),
		TaxAmount:      f.Format(t.TaxAmount),
		GrandTotal:     f.Format(t.GrandTotal),
		TotalInWords:   inWords,
	}
}

// excludeItems downgrades per-item range violations to warnings and records
// which items were left out of the document.
func excludeItems(r ValidationResult, items []LineItem, bad []int) ValidationResult {
	out := ValidationResult{Violations: make([]Violation, 0, len(r.Violations)+len(bad))}
	for _, v := range r.Violations {
		if v.Kind == KindRange {
			v.Severity = SeverityWarning
		}
		out.Violations = append(out.Violations, v)
	}
	for _, i := range bad {
		out.add(fmt.Sprintf("items[%d]", i), KindRange, SeverityWarning, CodeItemExcluded,
			"item %q excluded from totals", items[i].ID)
	}
	return out
}
