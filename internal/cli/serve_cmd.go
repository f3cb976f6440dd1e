package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/studioops/internal/httpapi"
	"github.com/alexanderramin/studioops/internal/mcptools"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.HTTP.Addr
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			router := httpapi.NewRouter(app.Plans, app.Projects, app.Logger, app.HTTP.Mode)
			return httpapi.Serve(ctx, addr, router, app.Logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: http.addr from config)")
	return cmd
}

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve plan tools over MCP on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcptools.ServeStdio(mcptools.NewServer(app.Plans, app.Version))
		},
	}
}
