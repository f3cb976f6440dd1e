package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studioops/internal/cli/formatter"
	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage vendors and their price quotes",
	}

	vendor := &cobra.Command{Use: "vendor", Short: "Manage vendors"}
	vendor.AddCommand(newVendorAddCmd(app), newVendorListCmd(app))

	quote := &cobra.Command{Use: "quote", Short: "Manage vendor quotes"}
	quote.AddCommand(newQuoteAddCmd(app), newQuoteListCmd(app))

	cmd.AddCommand(vendor, quote)
	return cmd
}

type vendorJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newVendorAddCmd(app *App) *cobra.Command {
	var contact string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := &domain.Vendor{Name: args[0], Contact: contact}
			if err := app.Catalog.AddVendor(context.Background(), v); err != nil {
				return err
			}
			return render(cmd, vendorJSON{ID: v.ID, Name: v.Name, Contact: v.Contact, CreatedAt: v.CreatedAt}, func() string {
				return fmt.Sprintf("Added vendor %s [%s]", v.Name, v.ID[:8])
			})
		},
	}
	cmd.Flags().StringVar(&contact, "contact", "", "Contact details")
	return cmd
}

func newVendorListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vendors",
		RunE: func(cmd *cobra.Command, args []string) error {
			vendors, err := app.Catalog.ListVendors(context.Background())
			if err != nil {
				return err
			}
			out := make([]vendorJSON, len(vendors))
			for i, v := range vendors {
				out[i] = vendorJSON{ID: v.ID, Name: v.Name, Contact: v.Contact, CreatedAt: v.CreatedAt}
			}
			return render(cmd, out, func() string {
				if len(vendors) == 0 {
					return "No vendors found."
				}
				return formatter.FormatVendorList(vendors)
			})
		},
	}
}

type quoteJSON struct {
	ID         string          `json:"id"`
	VendorID   string          `json:"vendor_id"`
	ItemName   string          `json:"item_name"`
	Category   domain.Category `json:"category"`
	Unit       string          `json:"unit,omitempty"`
	UnitPrice  string          `json:"unit_price"`
	Confidence float64         `json:"confidence"`
	SKU        string          `json:"sku,omitempty"`
	Historical bool            `json:"historical"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

func toQuoteJSON(q *domain.VendorQuote) quoteJSON {
	return quoteJSON{
		ID:         q.ID,
		VendorID:   q.VendorID,
		ItemName:   q.ItemName,
		Category:   q.Category,
		Unit:       q.Unit,
		UnitPrice:  q.UnitPrice.String(),
		Confidence: q.Confidence,
		SKU:        q.SKU,
		Historical: q.Historical,
		FetchedAt:  q.FetchedAt,
	}
}

func newQuoteAddCmd(app *App) *cobra.Command {
	var vendor, item, category, price, unit, sku, fetched string
	var confidence float64
	var historical bool

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Record a vendor quote or a historical price",
		Example: `  studioops catalog quote add --vendor "Timber Ltd" --item plywood --price 45.99 --unit sheet --confidence 0.9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}
			p, err := parseDecimal("price", price)
			if err != nil {
				return err
			}
			q := &domain.VendorQuote{
				VendorID:   vendor,
				ItemName:   item,
				Category:   cat,
				Unit:       unit,
				UnitPrice:  p,
				Confidence: confidence,
				SKU:        sku,
				IsQuote:    !historical,
				Historical: historical,
			}
			if fetched != "" {
				if q.FetchedAt, err = time.Parse(time.DateOnly, fetched); err != nil {
					return fmt.Errorf("invalid --fetched %q: want YYYY-MM-DD", fetched)
				}
			}
			if err := app.Catalog.AddQuote(context.Background(), q); err != nil {
				return err
			}
			return render(cmd, toQuoteJSON(q), func() string {
				return fmt.Sprintf("Added quote for %s at %s", q.ItemName, formatter.Money(q.UnitPrice, app.currency()))
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&vendor, "vendor", "", "Vendor name or ID")
	fs.StringVar(&item, "item", "", "Item name")
	fs.StringVarP(&category, "category", "c", string(domain.CategoryMaterials), "materials, labor, tools or logistics")
	fs.StringVar(&price, "price", "", "Unit price")
	fs.StringVar(&unit, "unit", "", "Unit of measure")
	fs.Float64Var(&confidence, "confidence", 1, "Confidence in the price, 0 to 1")
	fs.StringVar(&sku, "sku", "", "Vendor SKU")
	fs.BoolVar(&historical, "historical", false, "A price paid in the past rather than a live quote")
	fs.StringVar(&fetched, "fetched", "", "Date the price was obtained (YYYY-MM-DD, default: today)")
	_ = cmd.MarkFlagRequired("vendor")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newQuoteListCmd(app *App) *cobra.Command {
	var item, category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes for an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cat, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}
			quotes, err := app.Catalog.ListQuotes(ctx, item, cat)
			if err != nil {
				return err
			}
			vendors, err := app.Catalog.ListVendors(ctx)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(vendors))
			for _, v := range vendors {
				names[v.ID] = v.Name
			}

			out := make([]quoteJSON, len(quotes))
			for i, q := range quotes {
				out[i] = toQuoteJSON(q)
			}
			return render(cmd, out, func() string {
				if len(quotes) == 0 {
					return fmt.Sprintf("No quotes for %q.", item)
				}
				return formatter.FormatQuoteList(quotes, names)
			})
		},
	}
	cmd.Flags().StringVar(&item, "item", "", "Item name")
	cmd.Flags().StringVarP(&category, "category", "c", string(domain.CategoryMaterials), "materials, labor, tools or logistics")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}
