// Package words spells out currency amounts using the Indian numbering system
// (crore, lakh, thousand, hundred).
package words

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeAmount is returned for amounts below zero.
	ErrNegativeAmount = errors.New("words: amount must not be negative")
	// ErrAmountTooLarge is returned when the major part does not fit in an int64.
	ErrAmountTooLarge = errors.New("words: amount too large")
)

var (
	ones  = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teens = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens  = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// tier is a magnitude above the hundreds place.
type tier struct {
	unit int64
	name string
}

// Tiers are applied in strictly descending order.
var tiers = []tier{
	{unit: 10_000_000, name: "Crore"},
	{unit: 100_000, name: "Lakh"},
	{unit: 1_000, name: "Thousand"},
}

var maxMajor = decimal.NewFromInt(9_223_372_036_854_775_807)

// Converter spells amounts in a configured currency.
type Converter struct {
	MajorUnit string
	MinorUnit string
	ZeroWord  string
	// Suffix is appended after the whole phrase when set, e.g. "Only".
	Suffix string
}

// Rupees is the converter used on Indian tax invoices.
var Rupees = Converter{MajorUnit: "Rupees", MinorUnit: "Paisa", ZeroWord: "Zero"}

// ToWords converts a non-negative amount. The major part is floor(amount) and the
// minor part is round((amount mod 1) × 100); a minor part that rounds to 100 carries
// into the major part.
//
// Zero yields the zero word alone. An amount below one major unit still names the
// major unit, e.g. "Zero Rupees and Forty Paisa".
func (c Converter) ToWords(amount decimal.Decimal) (string, error) {
	if amount.Sign() < 0 {
		return "", ErrNegativeAmount
	}
	zero := c.zeroWord()
	if amount.IsZero() {
		return c.withSuffix(zero), nil
	}

	majorPart := amount.Floor()
	minor := amount.Sub(majorPart).Shift(2).Round(0).IntPart()
	if minor >= 100 {
		majorPart = majorPart.Add(decimal.NewFromInt(1))
		minor -= 100
	}
	if majorPart.GreaterThan(maxMajor) {
		return "", ErrAmountTooLarge
	}
	major := majorPart.IntPart()

	phrase := Integer(major)
	if phrase == "" {
		phrase = zero
	}
	var b strings.Builder
	b.WriteString(phrase)
	if c.MajorUnit != "" {
		b.WriteString(" ")
		b.WriteString(c.MajorUnit)
	}
	if minor > 0 {
		b.WriteString(" and ")
		b.WriteString(Integer(minor))
		if c.MinorUnit != "" {
			b.WriteString(" ")
			b.WriteString(c.MinorUnit)
		}
	}
	return c.withSuffix(b.String()), nil
}

func (c Converter) zeroWord() string {
	if c.ZeroWord == "" {
		return "Zero"
	}
	return c.ZeroWord
}

func (c Converter) withSuffix(s string) string {
	if strings.TrimSpace(c.Suffix) == "" {
		return s
	}
	return s + " " + strings.TrimSpace(c.Suffix)
}

// Integer spells a non-negative integer; zero and negative input yield "".
// Counts of crores above 999 are themselves spelled with lakh/thousand tiers.
func Integer(n int64) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, 0, 4)
	remaining := n
	for _, t := range tiers {
		if remaining < t.unit {
			continue
		}
		count := remaining / t.unit
		var spelled string
		if count < 1000 {
			spelled = belowThousand(count)
		} else {
			spelled = Integer(count)
		}
		parts = append(parts, spelled+" "+t.name)
		remaining %= t.unit
	}
	if rest := belowThousand(remaining); rest != "" {
		parts = append(parts, rest)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func belowThousand(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n < 10:
		return ones[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	}
	if n%100 == 0 {
		return ones[n/100] + " Hundred"
	}
	return ones[n/100] + " Hundred " + belowThousand(n%100)
}
