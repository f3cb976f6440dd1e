package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/studioops/internal/cli/formatter"
	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/dto"
	"github.com/alexanderramin/studioops/internal/plan"
	"github.com/alexanderramin/studioops/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate, inspect and edit priced plans",
	}
	cmd.AddCommand(
		newPlanGenerateCmd(app),
		newPlanShowCmd(app),
		newPlanListCmd(app),
		newPlanAddItemCmd(app),
		newPlanUpdateItemCmd(app),
		newPlanDeleteItemCmd(app),
		newPlanApproveCmd(app),
	)
	return cmd
}

func newPlanGenerateCmd(app *App) *cobra.Command {
	var margin, currency, project string
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "generate <description>",
		Short:   "Estimate a plan from a description of the work",
		Example: `  studioops plan generate "Build a small cabinet using plywood, needs a carpenter for 16 hours" --margin 0.25`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			m, err := parseDecimal("margin", margin)
			if err != nil {
				return err
			}
			if project != "" {
				if project, err = resolveProjectID(ctx, app, project); err != nil {
					return err
				}
			}

			gen, err := app.Plans.GeneratePlan(ctx, service.GeneratePlanRequest{
				Description:  strings.Join(args, " "),
				MarginTarget: m,
				Currency:     currency,
				ProjectID:    project,
			})
			if err != nil {
				return err
			}
			if !dryRun {
				if err := app.Plans.SavePlan(ctx, gen.Plan); err != nil {
					return err
				}
			}

			return render(cmd, dto.FromPlan(gen.Plan), func() string {
				out := formatter.FormatPlan(gen.Plan)
				if n := fallbackCount(gen); n > 0 {
					out += "\n" + formatter.StyleYellow.Render(fmt.Sprintf("%d item(s) priced from category baselines; confirm with a quote.", n))
				}
				if dryRun {
					out += "\n" + formatter.Dim("Dry run: plan not saved.")
				} else {
					out += "\n" + fmt.Sprintf("Saved plan %s", gen.Plan.ID())
				}
				return out
			})
		},
	}

	cmd.Flags().StringVar(&margin, "margin", "0", "Target margin as a fraction in [0, 1)")
	cmd.Flags().StringVar(&currency, "plan-currency", "", "Currency for this plan (default: configured currency)")
	cmd.Flags().StringVar(&project, "project", "", "Project ID or prefix to attach the plan to")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without saving it")
	return cmd
}

func fallbackCount(gen *service.GeneratedPlan) int {
	n := 0
	for _, l := range gen.Lines {
		if l.Resolution.Rule == domain.RuleFallback {
			n++
		}
	}
	return n
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.GetPlan(ctx, id)
			if err != nil {
				return err
			}
			return render(cmd, dto.FromPlan(p), func() string { return formatter.FormatPlan(p) })
		},
	}
}

func newPlanListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if project != "" {
				var err error
				if project, err = resolveProjectID(ctx, app, project); err != nil {
					return err
				}
			}
			plans, err := app.Plans.ListPlans(ctx, project)
			if err != nil {
				return err
			}
			return render(cmd, dto.FromPlans(plans), func() string {
				if len(plans) == 0 {
					return "No plans found."
				}
				return formatter.FormatPlanList(plans, app.now())
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Only list plans of this project")
	return cmd
}

// itemFlags collects the flags shared by add-item and update-item.
type itemFlags struct {
	category, title, description, unit string
	quantity, price                    string

	sku, spec                 string
	role, experience          string
	hours                     string
	crew                      int
	rentalDays                int
	owned                     bool
	weight, distance, urgency string
}

func (f *itemFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.category, "category", "", "materials, labor, tools or logistics")
	fs.StringVar(&f.title, "title", "", "Item title")
	fs.StringVar(&f.description, "description", "", "Item description")
	fs.StringVar(&f.unit, "unit", "", "Unit of measure, e.g. sheet, hour, day")
	fs.StringVar(&f.quantity, "qty", "", "Quantity")
	fs.StringVar(&f.price, "price", "", "Unit price")
	fs.StringVar(&f.sku, "sku", "", "Materials: SKU")
	fs.StringVar(&f.spec, "spec", "", "Materials: specification")
	fs.StringVar(&f.role, "role", "", "Labor: role")
	fs.StringVar(&f.experience, "experience", "", "Labor: junior, mid or senior")
	fs.StringVar(&f.hours, "hours", "", "Labor: hours per person")
	fs.IntVar(&f.crew, "crew", 0, "Labor: crew size")
	fs.IntVar(&f.rentalDays, "rental-days", 0, "Tools: rental days")
	fs.BoolVar(&f.owned, "owned", false, "Tools: the studio owns the tool")
	fs.StringVar(&f.weight, "weight", "", "Logistics: weight in kg")
	fs.StringVar(&f.distance, "distance", "", "Logistics: distance in km")
	fs.StringVar(&f.urgency, "urgency", "", "Logistics: low, normal or high")
}

func (f *itemFlags) details() (domain.DetailsRecord, error) {
	rec := domain.DetailsRecord{
		SKU:             f.sku,
		Spec:            f.spec,
		Role:            f.role,
		Crew:            f.crew,
		ExperienceLevel: f.experience,
		RentalDays:      f.rentalDays,
		Owned:           f.owned,
		Urgency:         f.urgency,
	}
	var err error
	if rec.Hours, err = optionalDecimal("hours", f.hours); err != nil {
		return rec, err
	}
	if rec.WeightKg, err = optionalDecimal("weight", f.weight); err != nil {
		return rec, err
	}
	if rec.DistanceKm, err = optionalDecimal("distance", f.distance); err != nil {
		return rec, err
	}
	return rec, nil
}

// detailsChanged reports whether any category-specific flag was given.
func detailsChanged(fs *pflag.FlagSet) bool {
	for _, name := range []string{"sku", "spec", "role", "experience", "hours", "crew", "rental-days", "owned", "weight", "distance", "urgency"} {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

func newPlanAddItemCmd(app *App) *cobra.Command {
	var f itemFlags

	cmd := &cobra.Command{
		Use:     "add-item <plan-id>",
		Short:   "Append an item to a plan",
		Example: `  studioops plan add-item 1a2b3c --category labor --title Painter --qty 6 --unit hour --price 120 --role painter --hours 6`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := dto.ItemInput{
				Category:    f.category,
				Title:       f.title,
				Description: f.description,
				Unit:        f.unit,
			}
			var err error
			if in.Quantity, err = parseDecimal("qty", f.quantity); err != nil {
				return err
			}
			if in.UnitPrice, err = parseDecimal("price", f.price); err != nil {
				return err
			}
			if in.Details, err = f.details(); err != nil {
				return err
			}
			item, err := in.Item()
			if err != nil {
				return err
			}
			return editPlan(cmd, app, args[0], plan.AddItem{Item: item})
		},
	}
	f.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("qty")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newPlanUpdateItemCmd(app *App) *cobra.Command {
	var f itemFlags

	cmd := &cobra.Command{
		Use:   "update-item <plan-id> <index>",
		Short: "Change fields of a plan item",
		Long: `Change fields of a plan item. Only the flags given are changed.
Setting --price drops the item's vendor price source. Category-specific
flags replace the item's details and need --category.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			var in dto.PatchInput
			if fs.Changed("title") {
				in.Title = &f.title
			}
			if fs.Changed("description") {
				in.Description = &f.description
			}
			if fs.Changed("unit") {
				in.Unit = &f.unit
			}
			if fs.Changed("qty") {
				q, err := parseDecimal("qty", f.quantity)
				if err != nil {
					return err
				}
				in.Quantity = &q
			}
			if fs.Changed("price") {
				p, err := parseDecimal("price", f.price)
				if err != nil {
					return err
				}
				in.UnitPrice = &p
			}
			if detailsChanged(fs) {
				rec, err := f.details()
				if err != nil {
					return err
				}
				in.Category = f.category
				in.Details = &rec
			}
			patch, err := in.Patch()
			if err != nil {
				return err
			}
			return editPlan(cmd, app, args[0], plan.UpdateItem{Index: index, Patch: patch})
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newPlanDeleteItemCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-item <plan-id> <index>",
		Short: "Remove an item from a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return editPlan(cmd, app, args[0], plan.DeleteItem{Index: index})
		},
	}
}

func editPlan(cmd *cobra.Command, app *App, idArg string, op plan.Operation) error {
	ctx := context.Background()
	id, err := resolvePlanID(ctx, app, idArg)
	if err != nil {
		return err
	}
	p, err := app.Plans.EditStoredPlan(ctx, id, op)
	if err != nil {
		return err
	}
	return render(cmd, dto.FromPlan(p), func() string { return formatter.FormatPlan(p) })
}

func newPlanApproveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <plan-id>",
		Short: "Approve a plan and lock it against edits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolvePlanID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.ApprovePlan(ctx, id)
			if err != nil {
				return err
			}
			return render(cmd, dto.FromPlan(p), func() string {
				return fmt.Sprintf("Approved plan %s (%s)", p.ID(), formatter.Money(p.Total(), p.Currency()))
			})
		},
	}
}

func parseDecimal(flag, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: not a number", flag, s)
	}
	return d, nil
}

func optionalDecimal(flag, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDecimal(flag, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("item index must be an integer, got %q", s)
	}
	return i, nil
}
