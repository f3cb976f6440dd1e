package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/studioops/internal/cli/formatter"
	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/dto"
	"github.com/spf13/cobra"
)

func newPriceCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "price <item name>",
		Short: "Look up the unit price of an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := domain.ParseCategory(category)
			if err != nil {
				return err
			}
			res, err := app.Plans.ResolvePrice(context.Background(), strings.Join(args, " "), cat)
			if err != nil {
				return err
			}
			return render(cmd, dto.FromResolution(res), func() string {
				return formatter.FormatResolution(res, app.currency())
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", string(domain.CategoryMaterials), "materials, labor, tools or logistics")
	return cmd
}
