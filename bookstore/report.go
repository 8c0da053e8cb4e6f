package bookstore

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatSalesReport renders joined sales as fixed-width text blocks, one per
// sale, with thousands separators on money amounts.
func FormatSalesReport(lines []*SaleLine) string {
	if len(lines) == 0 {
		return "No sales recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 25) + " Sales Report " + strings.Repeat("=", 25) + "\n")
	for i, l := range lines {
		fmt.Fprintf(&sb, "Sale #%d\n", i+1)
		fmt.Fprintf(&sb, "Sale ID: %d\n", l.ID)
		fmt.Fprintf(&sb, "Date: %s\n", l.Date)
		fmt.Fprintf(&sb, "Member: %s\n", l.MemberName)
		fmt.Fprintf(&sb, "Book: %s\n", l.BookTitle)
		sb.WriteString(strings.Repeat("-", 50) + "\n")
		fmt.Fprintf(&sb, "%-12s%-10s%-12s%-10s\n", "Unit Price", "Qty", "Discount", "Subtotal")
		sb.WriteString(strings.Repeat("-", 50) + "\n")
		fmt.Fprintf(&sb, "%-12s%-10d%-12s%-10s\n",
			humanize.Comma(l.BookPrice), l.Quantity, humanize.Comma(l.Discount), humanize.Comma(l.Total))
		sb.WriteString(strings.Repeat("-", 50) + "\n")
		fmt.Fprintf(&sb, "Sale total: %s\n", humanize.Comma(l.Total))
		sb.WriteString(strings.Repeat("=", 50) + "\n")
	}
	return sb.String()
}
