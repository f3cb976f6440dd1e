package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
)

// FormatResolution renders a single price lookup.
func FormatResolution(r domain.PriceResolution, currency string) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%-12s", label)), value))
	}

	price := Money(r.UnitPrice, currency)
	if r.Unit != "" {
		price += Dim(" / " + r.Unit)
	}
	line("Item", Bold(r.ItemName)+" "+CategoryStyle(r.Category).Render(string(r.Category)))
	line("Unit price", price)
	line("Vendor", r.Vendor)
	line("Confidence", Confidence(r.Confidence))
	line("Rule", string(r.Rule))
	if r.SKU != "" {
		line("SKU", r.SKU)
	}
	if !r.FetchedAt.IsZero() {
		line("Fetched", r.FetchedAt.Format(time.DateOnly))
	}
	if r.Rule == domain.RuleFallback {
		b.WriteString("\n" + StyleYellow.Render("No catalog price found; this is a category baseline."))
	}
	return RenderBox("Price", strings.TrimRight(b.String(), "\n"))
}
