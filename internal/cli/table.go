package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/noah-isme/invoice-engine/internal/invoice"
)

var (
	accent = lipgloss.Color("#D97706")
	dim    = lipgloss.Color("#6B7280")
	warn   = lipgloss.Color("#F59E0B")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	footerStyle = lipgloss.NewStyle().Foreground(dim)
	warnStyle   = lipgloss.NewStyle().Foreground(warn)
	headerCell  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell        = lipgloss.NewStyle().Padding(0, 1)
	numberCell  = cell.Align(lipgloss.Right)
	summaryBox  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 2)
)

// numeric columns are right aligned.
var numericColumns = map[int]bool{0: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true}

func renderTable(result invoice.Result) string {
	var b strings.Builder
	for _, page := range result.Pages() {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Invoice %s, page %d of %d",
			page.Header.InvoiceNumber, page.Header.PageNumber, page.Header.PageCount)))
		b.WriteString("\n")
		b.WriteString(pageTable(page, result.ShowArea))
		b.WriteString("\n")
		if page.Summary != nil {
			b.WriteString(summaryBox.Render(summaryText(*page.Summary)))
			b.WriteString("\n")
		}
		b.WriteString(footerStyle.Render(page.Footer))
		b.WriteString("\n\n")
	}
	for _, v := range result.Validation.Violations {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%s %s: %s", strings.ToUpper(string(v.Severity)), v.Field, v.Message)))
		b.WriteString("\n")
	}
	return b.String()
}

func pageTable(page invoice.Page, showArea bool) string {
	headers := []string{"#", "Item", "HSN/SAC", "Qty", "Price", "Taxable", "GST", "Tax", "Total"}
	if showArea {
		headers = append(headers, "Sq Ft")
	}
	rows := make([][]string, 0, len(page.Rows))
	for _, r := range page.Rows {
		row := []string{strconv.Itoa(r.Serial), r.Name, r.HSNCode, r.QuantityLabel, r.Price, r.TaxableValue, r.TaxRate, r.TaxAmount, r.LineTotal}
		if showArea {
			row = append(row, r.AreaLabel)
		}
		rows = append(rows, row)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(dim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case numericColumns[col]:
				return numberCell
			default:
				return cell
			}
		})
	return t.String()
}

func summaryText(s invoice.Summary) string {
	lines := [][2]string{
		{"Taxable Value", s.TaxableValue},
		{"Packaging", s.Packaging},
		{"Transportation & Others", s.Transportation},
		{"Total Tax", s.TaxAmount},
		{"Total Amount After Tax", s.GrandTotal},
	}
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%-24s %14s\n", l[0], l[1])
	}
	b.WriteString(s.TotalInWords)
	return b.String()
}
