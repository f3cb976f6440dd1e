package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/studioops/internal/config"
	"github.com/alexanderramin/studioops/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the services used by CLI commands. Init, when set, fills the
// services from configuration after flags are parsed; tests leave it nil
// and wire the services directly.
type App struct {
	Plans    service.PlanService
	Projects service.ProjectService
	Catalog  service.CatalogService

	Logger   *slog.Logger
	Currency string
	HTTP     config.HTTPConfig
	Version  string

	Init  func(opts config.LoadOptions) error
	Close func() error

	// Now is the clock used for relative dates in listings.
	Now func() time.Time
}

// ConfigFlagKeys maps configuration keys to the root command's persistent
// flags.
var ConfigFlagKeys = map[string]string{
	"database.path":    "db",
	"logger.level":     "log-level",
	"logger.format":    "log-format",
	"pricing.currency": "currency",
	"catalog.mode":     "catalog",
	"llm.enabled":      "llm",
}

// NewRootCmd creates the top-level "studioops" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "studioops",
		Short:         "Plan pricing for a small production studio",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Init == nil {
				return nil
			}
			return app.Init(config.LoadOptions{
				File:     configFile,
				Flags:    cmd.Root().PersistentFlags(),
				FlagKeys: ConfigFlagKeys,
			})
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.Close == nil {
				return nil
			}
			return app.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default: ./studioops.yaml or ~/.studioops/studioops.yaml)")
	addConfigFlags(pf)
	pf.Bool("json", false, "Print JSON instead of tables")

	root.AddCommand(
		newPlanCmd(app),
		newPriceCmd(app),
		newCatalogCmd(app),
		newProjectCmd(app),
		newServeCmd(app),
		newMCPCmd(app),
	)
	return root
}

func addConfigFlags(pf *pflag.FlagSet) {
	pf.String("db", "", "SQLite database path")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("log-format", "console", "Log format: console or json")
	pf.String("currency", "NIS", "Default plan currency")
	pf.String("catalog", config.CatalogSQLite, "Catalog source: sqlite or static")
	pf.Bool("llm", false, "Extract needs with the local LLM")
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) currency() string {
	if a.Currency != "" {
		return a.Currency
	}
	return "NIS"
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// render prints v as indented JSON when --json is set, and the result of
// text otherwise.
func render(cmd *cobra.Command, v any, text func() string) error {
	out := cmd.OutOrStdout()
	if wantJSON(cmd) {
		return writeJSON(out, v)
	}
	_, err := fmt.Fprintln(out, text())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
