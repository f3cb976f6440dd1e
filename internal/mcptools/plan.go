package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/studioops/internal/dto"
	"github.com/alexanderramin/studioops/internal/plan"
	"github.com/alexanderramin/studioops/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"
)

// GenerateTool handles plan_generate.
type GenerateTool struct {
	plans service.PlanService
}

func NewGenerateTool(plans service.PlanService) *GenerateTool {
	return &GenerateTool{plans: plans}
}

func (t *GenerateTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_generate",
		mcp.WithDescription(
			"Estimate a priced project plan from a free-text description of the work and save it. "+
				"Returns the plan with its line items, prices, price sources and totals.",
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What the project needs, e.g. 'Build a small cabinet using plywood, needs a carpenter for 16 hours'"),
		),
		mcp.WithString("margin_target",
			mcp.Description("Target margin as a fraction in [0, 1), e.g. '0.25' (default: 0)"),
		),
		mcp.WithString("currency",
			mcp.Description("ISO currency code (default: the configured currency)"),
		),
		mcp.WithString("project_id",
			mcp.Description("Project to attach the plan to"),
		),
	)
}

func (t *GenerateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description := req.GetString("description", "")
	if strings.TrimSpace(description) == "" {
		return mcp.NewToolResultError("'description' is required"), nil
	}
	margin := decimal.Zero
	if s := req.GetString("margin_target", ""); s != "" {
		m, err := decimal.NewFromString(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("'margin_target' is not a number: %q", s)), nil
		}
		margin = m
	}

	gen, err := t.plans.GeneratePlan(ctx, service.GeneratePlanRequest{
		Description:  description,
		MarginTarget: margin,
		Currency:     req.GetString("currency", ""),
		ProjectID:    req.GetString("project_id", ""),
	})
	if err != nil {
		return errorResult("generating plan", err)
	}
	if err := t.plans.SavePlan(ctx, gen.Plan); err != nil {
		return errorResult("saving plan", err)
	}
	return jsonResult(dto.FromPlan(gen.Plan))
}

// ShowTool handles plan_show.
type ShowTool struct {
	plans service.PlanService
}

func NewShowTool(plans service.PlanService) *ShowTool {
	return &ShowTool{plans: plans}
}

func (t *ShowTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_show",
		mcp.WithDescription("Show a saved plan with its items and totals."),
		mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan ID")),
	)
}

func (t *ShowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("plan_id", "")
	if id == "" {
		return mcp.NewToolResultError("'plan_id' is required"), nil
	}
	p, err := t.plans.GetPlan(ctx, id)
	if err != nil {
		return errorResult("loading plan", err)
	}
	return jsonResult(dto.FromPlan(p))
}

// ListTool handles plan_list.
type ListTool struct {
	plans service.PlanService
}

func NewListTool(plans service.PlanService) *ListTool {
	return &ListTool{plans: plans}
}

func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_list",
		mcp.WithDescription("List saved plans, optionally only those of one project."),
		mcp.WithString("project_id", mcp.Description("Only list plans of this project")),
	)
}

func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ps, err := t.plans.ListPlans(ctx, req.GetString("project_id", ""))
	if err != nil {
		return errorResult("listing plans", err)
	}
	return jsonResult(dto.FromPlans(ps))
}

// EditTool handles plan_edit: adding, updating or deleting one line item.
type EditTool struct {
	plans service.PlanService
}

func NewEditTool(plans service.PlanService) *EditTool {
	return &EditTool{plans: plans}
}

func (t *EditTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_edit",
		mcp.WithDescription(
			"Edit one line item of an editable plan and recompute its totals. "+
				"op=add appends 'item'; op=update applies 'patch' to the item at 'index'; op=delete removes the item at 'index'. "+
				"Approved plans cannot be edited.",
		),
		mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan ID")),
		mcp.WithString("op",
			mcp.Required(),
			mcp.Enum("add", "update", "delete"),
			mcp.Description("Edit to apply"),
		),
		mcp.WithNumber("index", mcp.Description("Zero-based item index, for update and delete")),
		mcp.WithObject("item",
			mcp.Description("New item for add: category (materials|labor|tools|logistics), title, quantity, unit, unit_price, details"),
		),
		mcp.WithObject("patch",
			mcp.Description("Fields to change for update: title, description, unit, quantity, unit_price, category with details"),
		),
	)
}

func (t *EditTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("plan_id", "")
	if id == "" {
		return mcp.NewToolResultError("'plan_id' is required"), nil
	}
	op, err := t.operation(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := t.plans.EditStoredPlan(ctx, id, op)
	if err != nil {
		return errorResult("editing plan", err)
	}
	return jsonResult(dto.FromPlan(p))
}

func (t *EditTool) operation(req mcp.CallToolRequest) (plan.Operation, error) {
	switch op := req.GetString("op", ""); op {
	case "add":
		var in dto.ItemInput
		if err := objectArg(req, "item", &in); err != nil {
			return nil, err
		}
		item, err := in.Item()
		if err != nil {
			return nil, err
		}
		return plan.AddItem{Item: item}, nil
	case "update":
		index, ok := intArg(req, "index")
		if !ok {
			return nil, fmt.Errorf("'index' must be an integer for update")
		}
		var in dto.PatchInput
		if err := objectArg(req, "patch", &in); err != nil {
			return nil, err
		}
		patch, err := in.Patch()
		if err != nil {
			return nil, err
		}
		return plan.UpdateItem{Index: index, Patch: patch}, nil
	case "delete":
		index, ok := intArg(req, "index")
		if !ok {
			return nil, fmt.Errorf("'index' must be an integer for delete")
		}
		return plan.DeleteItem{Index: index}, nil
	default:
		return nil, fmt.Errorf("'op' must be add, update or delete, got %q", op)
	}
}

// ApproveTool handles plan_approve.
type ApproveTool struct {
	plans service.PlanService
}

func NewApproveTool(plans service.PlanService) *ApproveTool {
	return &ApproveTool{plans: plans}
}

func (t *ApproveTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_approve",
		mcp.WithDescription("Approve a plan. Approved plans are locked against further edits."),
		mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan ID")),
	)
}

func (t *ApproveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("plan_id", "")
	if id == "" {
		return mcp.NewToolResultError("'plan_id' is required"), nil
	}
	p, err := t.plans.ApprovePlan(ctx, id)
	if err != nil {
		return errorResult("approving plan", err)
	}
	return jsonResult(dto.FromPlan(p))
}
