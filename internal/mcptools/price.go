package mcptools

import (
	"context"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/dto"
	"github.com/alexanderramin/studioops/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// PriceTool handles price_resolve.
type PriceTool struct {
	plans service.PlanService
}

func NewPriceTool(plans service.PlanService) *PriceTool {
	return &PriceTool{plans: plans}
}

func (t *PriceTool) Definition() mcp.Tool {
	return mcp.NewTool("price_resolve",
		mcp.WithDescription(
			"Look up the unit price of an item. Prefers current vendor quotes, then historical prices, "+
				"then a per-category baseline with vendor 'fallback' and zero confidence.",
		),
		mcp.WithString("name", mcp.Required(), mcp.Description("Item name, e.g. 'plywood' or 'carpenter'")),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Enum(string(domain.CategoryMaterials), string(domain.CategoryLabor), string(domain.CategoryTools), string(domain.CategoryLogistics)),
			mcp.Description("Item category"),
		),
	)
}

func (t *PriceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	category, err := domain.ParseCategory(req.GetString("category", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := t.plans.ResolvePrice(ctx, name, category)
	if err != nil {
		return errorResult("resolving price", err)
	}
	return jsonResult(dto.FromResolution(res))
}
