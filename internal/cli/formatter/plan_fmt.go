package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatPlan renders a plan card: header facts, the item table and totals.
func FormatPlan(p *domain.Plan) string {
	var b strings.Builder

	facts := [][2]string{
		{"State", StatePill(p.State())},
		{"Currency", p.Currency()},
		{"Margin target", p.MarginTarget().Mul(hundred).String() + "%"},
	}
	if pid := p.ProjectID(); pid != "" {
		facts = append(facts, [2]string{"Project", TruncID(pid)})
	}
	if at := p.ApprovedAt(); at != nil {
		facts = append(facts, [2]string{"Approved", at.Format(time.DateTime)})
	}
	for _, f := range facts {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%-14s", f[0])), f[1]))
	}
	b.WriteString("\n")

	if p.Len() == 0 {
		b.WriteString(Dim("No items."))
		b.WriteString("\n")
	} else {
		b.WriteString(formatItems(p))
	}

	b.WriteString("\n")
	b.WriteString(formatTotals(p))
	return RenderBox("Plan "+shortID(p.ID()), strings.TrimRight(b.String(), "\n"))
}

func formatItems(p *domain.Plan) string {
	headers := []string{"#", "CATEGORY", "ITEM", "QTY", "UNIT PRICE", "SUBTOTAL", "SOURCE"}
	items := p.Items()
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		title := Bold(it.Title)
		if d := detailSummary(it.Details); d != "" {
			title += " " + Dim(d)
		}
		rows = append(rows, []string{
			Dim(strconv.Itoa(i)),
			CategoryStyle(it.Category()).Render(string(it.Category())),
			title,
			Quantity(it.Quantity, it.Unit),
			Money(it.UnitPrice, ""),
			Money(it.Subtotal(), ""),
			sourceLabel(it),
		})
	}
	return RenderTable(headers, rows, AlignRight(3, 4, 5))
}

func formatTotals(p *domain.Plan) string {
	totals := p.CategoryTotals()
	rows := make([][]string, 0, len(domain.Categories)+2)
	for _, c := range domain.Categories {
		if t, ok := totals[c]; ok {
			rows = append(rows, []string{CategoryStyle(c).Render(string(c)), Money(t, p.Currency())})
		}
	}

	lines := make([]string, 0, len(rows)+2)
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", Dim(fmt.Sprintf("%-14s", r[0])), r[1]))
	}
	lines = append(lines, fmt.Sprintf("%s %s", StyleBold.Render(fmt.Sprintf("%-14s", "Total")), Bold(Money(p.Total(), p.Currency()))))
	if p.MarginTarget().IsPositive() {
		lines = append(lines, fmt.Sprintf("%s %s", Dim(fmt.Sprintf("%-14s", "Client price")), Money(p.ClientPrice(), p.Currency())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func sourceLabel(it domain.PlanItem) string {
	src := it.PriceSource
	if src == nil {
		if it.Category() == domain.CategoryMaterials {
			return Dim("manual")
		}
		return Dim("--")
	}
	if src.Vendor == domain.FallbackVendor {
		return StyleRed.Render("baseline")
	}
	label := src.Vendor
	if !src.IsQuote {
		label += " (hist.)"
	}
	return label + " " + Confidence(src.Confidence)
}

func detailSummary(d domain.ItemDetails) string {
	switch v := d.(type) {
	case domain.MaterialDetails:
		if v.SKU != "" {
			return "[" + v.SKU + "]"
		}
	case domain.LaborDetails:
		parts := []string{}
		if v.Crew > 1 {
			parts = append(parts, fmt.Sprintf("crew %d", v.Crew))
		}
		if !v.Hours.IsZero() {
			parts = append(parts, v.Hours.String()+"h")
		}
		if v.ExperienceLevel != "" {
			parts = append(parts, string(v.ExperienceLevel))
		}
		if len(parts) > 0 {
			return "(" + strings.Join(parts, ", ") + ")"
		}
	case domain.ToolDetails:
		if v.Owned {
			return "(owned)"
		}
		if v.RentalDays > 0 {
			return fmt.Sprintf("(%dd rental)", v.RentalDays)
		}
	case domain.LogisticsDetails:
		parts := []string{}
		if !v.DistanceKm.IsZero() {
			parts = append(parts, v.DistanceKm.String()+"km")
		}
		if !v.WeightKg.IsZero() {
			parts = append(parts, v.WeightKg.String()+"kg")
		}
		if v.Urgency == domain.UrgencyHigh {
			parts = append(parts, "urgent")
		}
		if len(parts) > 0 {
			return "(" + strings.Join(parts, ", ") + ")"
		}
	}
	return ""
}

// FormatPlanList renders one row per plan.
func FormatPlanList(plans []*domain.Plan, now time.Time) string {
	headers := []string{"ID", "STATE", "ITEMS", "TOTAL", "PROJECT", "CREATED"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		project := Dim("--")
		if pid := p.ProjectID(); pid != "" {
			project = TruncID(pid)
		}
		rows = append(rows, []string{
			shortID(p.ID()),
			StatePill(p.State()),
			strconv.Itoa(p.Len()),
			Money(p.Total(), p.Currency()),
			project,
			HumanDate(p.CreatedAt(), now),
		})
	}
	return RenderBox("Plans", RenderTable(headers, rows, AlignRight(2, 3)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
