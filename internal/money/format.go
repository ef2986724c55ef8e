package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidGrouping is returned when a digit grouping setting cannot be parsed.
var ErrInvalidGrouping = errors.New("money: invalid digit grouping")

// Formatter renders amounts with exactly two fractional digits and a configurable
// digit grouping. Primary is the size of the right-most integer group; every group
// to its left has Secondary digits.
type Formatter struct {
	Primary   int
	Secondary int
	Separator string
	Point     string
}

var (
	// Indian groups 12,34,567.89.
	Indian = Formatter{Primary: 3, Secondary: 2, Separator: ",", Point: "."}
	// Western groups 1,234,567.89.
	Western = Formatter{Primary: 3, Secondary: 3, Separator: ",", Point: "."}
)

// ParseGrouping accepts "indian", "western" or an explicit "primary,secondary" pair such as "3,2".
func ParseGrouping(value string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "indian", "en-in":
		return Indian, nil
	case "western", "en-us", "international":
		return Western, nil
	}
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return Formatter{}, fmt.Errorf("%w: %q", ErrInvalidGrouping, value)
	}
	primary, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || primary <= 0 {
		return Formatter{}, fmt.Errorf("%w: %q", ErrInvalidGrouping, value)
	}
	secondary, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || secondary <= 0 {
		return Formatter{}, fmt.Errorf("%w: %q", ErrInvalidGrouping, value)
	}
	return Formatter{Primary: primary, Secondary: secondary, Separator: ",", Point: "."}, nil
}

// Format rounds v half away from zero to two places and groups the integer digits.
func (f Formatter) Format(v decimal.Decimal) string {
	fixed := Round(v).StringFixed(Places)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	if sign == "-" && strings.Trim(intPart+fracPart, "0") == "" {
		sign = ""
	}
	return sign + f.group(intPart) + f.point() + fracPart
}

func (f Formatter) group(digits string) string {
	primary := f.Primary
	if primary <= 0 {
		primary = 3
	}
	secondary := f.Secondary
	if secondary <= 0 {
		secondary = primary
	}
	if len(digits) <= primary {
		return digits
	}
	head := digits[:len(digits)-primary]
	groups := []string{digits[len(digits)-primary:]}
	for len(head) > secondary {
		groups = append(groups, head[len(head)-secondary:])
		head = head[:len(head)-secondary]
	}
	groups = append(groups, head)

	var b strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		b.WriteString(groups[i])
		if i > 0 {
			b.WriteString(f.separator())
		}
	}
	return b.String()
}

func (f Formatter) separator() string {
	if f.Separator == "" {
		return ","
	}
	return f.Separator
}

func (f Formatter) point() string {
	if f.Point == "" {
		return "."
	}
	return f.Point
}

// FormatPercent renders a rate without trailing zeros, e.g. "18%" or "2.5%".
func FormatPercent(rate decimal.Decimal) string {
	return rate.String() + "%"
}
