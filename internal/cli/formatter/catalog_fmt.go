package formatter

import (
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
)

func FormatProjectList(projects []*domain.Project, now time.Time) string {
	headers := []string{"ID", "NAME", "CLIENT", "STATUS", "CREATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		client := p.Client
		if client == "" {
			client = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			client,
			StatusPill(p.Status),
			HumanDate(p.CreatedAt, now),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

func FormatVendorList(vendors []*domain.Vendor) string {
	headers := []string{"ID", "NAME", "CONTACT"}
	rows := make([][]string, 0, len(vendors))
	for _, v := range vendors {
		contact := v.Contact
		if contact == "" {
			contact = Dim("--")
		}
		rows = append(rows, []string{TruncID(v.ID), Bold(v.Name), contact})
	}
	return RenderBox("Vendors", RenderTable(headers, rows))
}

// FormatQuoteList renders quotes; vendorNames maps vendor IDs to names and
// unknown IDs are shown truncated.
func FormatQuoteList(quotes []*domain.VendorQuote, vendorNames map[string]string) string {
	headers := []string{"ITEM", "CATEGORY", "VENDOR", "UNIT PRICE", "CONF.", "KIND", "FETCHED"}
	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		vendor, ok := vendorNames[q.VendorID]
		if !ok {
			vendor = TruncID(q.VendorID)
		}
		price := Money(q.UnitPrice, "")
		if q.Unit != "" {
			price += Dim(" / " + q.Unit)
		}
		kind := StyleGreen.Render("quote")
		if q.Historical {
			kind = Dim("historical")
		}
		rows = append(rows, []string{
			Bold(q.ItemName),
			CategoryStyle(q.Category).Render(string(q.Category)),
			vendor,
			price,
			Confidence(q.Confidence),
			kind,
			q.FetchedAt.Format(time.DateOnly),
		})
	}
	return RenderBox("Quotes", RenderTable(headers, rows, AlignRight(3, 4)))
}
