package invoice

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/invoice-engine/internal/money"
)

// Kind classifies a violation.
type Kind string

const (
	KindInputShape Kind = "input_shape"
	KindRange      Kind = "range"
	KindArithmetic Kind = "arithmetic"
	KindDisplay    Kind = "display"
)

// Severity tells the caller whether a violation blocks rendering.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation codes.
const (
	CodeRequired            = "REQUIRED"
	CodeInvalidFormat       = "INVALID_FORMAT"
	CodeNonPositiveQuantity = "NON_POSITIVE_QUANTITY"
	CodeNegativePrice       = "NEGATIVE_PRICE"
	CodeNegativeArea        = "NEGATIVE_AREA"
	CodeNegativeRate        = "NEGATIVE_RATE"
	CodeNegativeCharge      = "NEGATIVE_CHARGE"
	CodeMissingArea         = "MISSING_AREA"
	CodeSubtotalMismatch    = "SUBTOTAL_MISMATCH"
	CodeTaxMismatch         = "TAX_MISMATCH"
	CodeTotalMismatch       = "TOTAL_MISMATCH"
	CodeUnknownTemplate     = "UNKNOWN_TEMPLATE"
	CodeItemExcluded        = "ITEM_EXCLUDED"
)

// DefaultTolerance is one minor unit.
var DefaultTolerance = money.MinorUnit

// Violation is a single field-level finding.
type Violation struct {
	Field    string   `json:"field"`
	Kind     Kind     `json:"kind"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationResult lists every finding for an invoice in a stable order.
type ValidationResult struct {
	Violations []Violation `json:"violations"`
}

// Valid reports whether no violation has error severity.
func (r ValidationResult) Valid() bool {
	return len(r.Errors()) == 0
}

// Errors returns the blocking violations.
func (r ValidationResult) Errors() []Violation {
	return lo.Filter(r.Violations, func(v Violation, _ int) bool { return v.Severity == SeverityError })
}

// Warnings returns the non-blocking violations.
func (r ValidationResult) Warnings() []Violation {
	return lo.Filter(r.Violations, func(v Violation, _ int) bool { return v.Severity == SeverityWarning })
}

// ByKind returns violations of one kind.
func (r ValidationResult) ByKind(kind Kind) []Violation {
	return lo.Filter(r.Violations, func(v Violation, _ int) bool { return v.Kind == kind })
}

func (r *ValidationResult) add(field string, kind Kind, severity Severity, code, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Field:    field,
		Kind:     kind,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
	})
}

var (
	structValidatorOnce sync.Once
	structValidator     *validator.Validate
)

func shapeValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		structValidator = v
	})
	return structValidator
}

// Validate checks inv without computing a document. It never fails: every finding,
// including ones that would make Engine.Render reject the invoice, is returned.
func Validate(inv Invoice, tolerance decimal.Decimal) ValidationResult {
	report := inspect(inv, tolerance, false)
	return report.result
}

type inspection struct {
	result ValidationResult
	// badItems holds indexes of items with range violations.
	badItems       []int
	chargesInvalid bool
	// totals are computed over the items that survive exclusion.
	totals Totals
	kept   []LineItem
}

func inspect(inv Invoice, tolerance decimal.Decimal, excludeBadItems bool) inspection {
	rep := inspection{result: ValidationResult{Violations: []Violation{}}}
	r := &rep.result

	shapeViolations(inv, r, &rep.badItems)
	rangeViolations(inv, r, &rep.badItems, &rep.chargesInvalid)
	slices.Sort(rep.badItems)
	rep.badItems = slices.Compact(rep.badItems)

	rep.kept = inv.Items
	if excludeBadItems && len(rep.badItems) > 0 {
		rep.kept = lo.Reject(inv.Items, func(_ LineItem, i int) bool {
			_, found := slices.BinarySearch(rep.badItems, i)
			return found
		})
	}

	if inv.ShowArea {
		for i, item := range inv.Items {
			if item.Area == nil {
				r.add(itemField(i, "sqFeet"), KindDisplay, SeverityWarning, CodeMissingArea,
					"area is required when the area column is shown")
			}
		}
	}

	if inv.Template != "" && !slices.Contains(Templates, inv.Template) {
		r.add("template", KindDisplay, SeverityWarning, CodeUnknownTemplate,
			"template %q is not one of %s", inv.Template, strings.Join(Templates, ", "))
	}

	rep.totals = ComputeTotals(rep.kept, inv.TaxRate).WithCharges(inv.Packaging, inv.Transportation)
	if tolerance.IsNegative() {
		tolerance = DefaultTolerance
	}
	compareStored(inv.StoredTotals, rep.totals, tolerance, r)
	return rep
}

func shapeViolations(inv Invoice, r *ValidationResult, badItems *[]int) {
	err := shapeValidator().Struct(inv)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		r.add("", KindInputShape, SeverityError, CodeInvalidFormat, "%v", err)
		return
	}
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		switch fe.Tag() {
		case "required":
			r.add(field, KindInputShape, SeverityError, CodeRequired, "%s is required", field)
		case "notblank":
			r.add(field, KindInputShape, SeverityError, CodeRequired, "%s must not be blank", field)
		case "gt":
			r.add(field, KindRange, SeverityError, CodeNonPositiveQuantity,
				"%s must be a positive integer, got %v", field, fe.Value())
			if idx, ok := itemIndex(field); ok {
				*badItems = append(*badItems, idx)
			}
		case "alphanum":
			r.add(field, KindInputShape, SeverityError, CodeInvalidFormat, "%s must be alphanumeric", field)
		case "max":
			r.add(field, KindInputShape, SeverityError, CodeInvalidFormat,
				"%s must be at most %s characters", field, fe.Param())
		case "numeric":
			r.add(field, KindInputShape, SeverityError, CodeInvalidFormat, "%s must be numeric", field)
		default:
			r.add(field, KindInputShape, SeverityError, CodeInvalidFormat, "%s failed %s", field, fe.Tag())
		}
	}
}

func rangeViolations(inv Invoice, r *ValidationResult, badItems *[]int, chargesInvalid *bool) {
	for i, item := range inv.Items {
		bad := false
		if item.Price.IsNegative() {
			r.add(itemField(i, "price"), KindRange, SeverityError, CodeNegativePrice,
				"price must not be negative, got %s", item.Price)
			bad = true
		}
		if inv.ShowArea && item.Area != nil && item.Area.IsNegative() {
			r.add(itemField(i, "sqFeet"), KindRange, SeverityError, CodeNegativeArea,
				"area must not be negative, got %s", item.Area)
			bad = true
		}
		if item.TaxRate != nil && item.TaxRate.IsNegative() {
			r.add(itemField(i, "taxRate"), KindRange, SeverityError, CodeNegativeRate,
				"tax rate must not be negative, got %s", item.TaxRate)
			bad = true
		}
		if bad {
			*badItems = append(*badItems, i)
		}
	}
	if inv.TaxRate.IsNegative() {
		r.add("gstRate", KindRange, SeverityError, CodeNegativeRate,
			"tax rate must not be negative, got %s", inv.TaxRate)
		*chargesInvalid = true
	}
	if inv.Packaging.IsNegative() {
		r.add("packaging", KindRange, SeverityError, CodeNegativeCharge,
			"packaging must not be negative, got %s", inv.Packaging)
		*chargesInvalid = true
	}
	if inv.Transportation.IsNegative() {
		r.add("transportationAndOthers", KindRange, SeverityError, CodeNegativeCharge,
			"transportation and other charges must not be negative, got %s", inv.Transportation)
		*chargesInvalid = true
	}
}

func compareStored(stored StoredTotals, computed Totals, tolerance decimal.Decimal, r *ValidationResult) {
	check := func(field, code string, want *decimal.Decimal, got decimal.Decimal) {
		if want == nil || money.WithinTolerance(*want, got, tolerance) {
			return
		}
		r.add(field, KindArithmetic, SeverityWarning, code,
			"stored %s differs from recomputed %s", want.String(), money.Round(got).StringFixed(money.Places))
	}
	check("subtotal", CodeSubtotalMismatch, stored.Subtotal, computed.TaxableValue)
	check("gstAmount", CodeTaxMismatch, stored.TaxAmount, computed.TaxAmount)
	check("total", CodeTotalMismatch, stored.Total, computed.GrandTotal)
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func itemIndex(field string) (int, bool) {
	var idx int
	if _, err := fmt.Sscanf(field, "items[%d]", &idx); err != nil {
		return 0, false
	}
	return idx, true
}
