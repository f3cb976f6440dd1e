package mcptools

import (
	"github.com/alexanderramin/studioops/internal/service"
	"github.com/mark3labs/mcp-go/server"
)

const serverInstructions = `StudioOps prices project plans for a small production studio.
Use plan_generate to estimate a plan from a description, then plan_edit to adjust line items
and plan_approve once the client agrees. price_resolve looks up a single unit price.
Prices with vendor "fallback" are heuristic baselines and should be confirmed with a quote.`

// NewServer builds an MCP server exposing the plan tools.
func NewServer(plans service.PlanService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"studioops",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	generate := NewGenerateTool(plans)
	s.AddTool(generate.Definition(), generate.Handle)

	show := NewShowTool(plans)
	s.AddTool(show.Definition(), show.Handle)

	list := NewListTool(plans)
	s.AddTool(list.Definition(), list.Handle)

	edit := NewEditTool(plans)
	s.AddTool(edit.Definition(), edit.Handle)

	approve := NewApproveTool(plans)
	s.AddTool(approve.Definition(), approve.Handle)

	price := NewPriceTool(plans)
	s.AddTool(price.Definition(), price.Handle)

	return s
}

// ServeStdio serves s over standard input and output until the client
// disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
