package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/llm"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studioops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// inEmptyDir keeps the lookup for ./studioops.yaml from finding a real file.
func inEmptyDir(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	inEmptyDir(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "NIS", cfg.Pricing.Currency)
	assert.Equal(t, 8, cfg.Pricing.FanOut)
	assert.Equal(t, 2*time.Second, cfg.Pricing.LookupTimeout())
	assert.Equal(t, CatalogSQLite, cfg.Catalog.Mode)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".studioops", "studioops.db"), cfg.Database.Path)
}

func TestLoad_FileEnvAndFlagPrecedence(t *testing.T) {
	inEmptyDir(t)
	path := writeConfig(t, `
database:
  path: /tmp/from-file.db
pricing:
  currency: USD
  fan_out: 3
  baselines:
    labor:
      price: "120.50"
    Logistics:
      price: "300"
      unit: load
llm:
  enabled: true
  model: mistral
`)
	t.Setenv("STUDIOOPS_PRICING_FAN_OUT", "5")
	t.Setenv("STUDIOOPS_LLM_MAX_RETRIES", "0")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	require.NoError(t, flags.Parse([]string{"--db", "/tmp/from-flag.db"}))

	cfg, err := Load(LoadOptions{File: path, Flags: flags, FlagKeys: map[string]string{"database.path": "db"}})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-flag.db", cfg.Database.Path, "flag beats file")
	assert.Equal(t, 5, cfg.Pricing.FanOut, "env beats file")
	assert.Equal(t, "USD", cfg.Pricing.Currency)

	baselines, err := cfg.Pricing.BaselineOverrides()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("120.5").Equal(baselines[domain.CategoryLabor].UnitPrice))
	assert.Equal(t, "load", baselines[domain.CategoryLogistics].Unit)

	client := cfg.LLM.Client()
	assert.True(t, client.Enabled)
	assert.Equal(t, "mistral", client.Model)
	assert.Equal(t, 0, client.MaxRetries)
	assert.Equal(t, 15000, client.TaskTimeout(llm.TaskExtractNeeds))
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	inEmptyDir(t)
	path := writeConfig(t, "database:\n  path: /tmp/from-file.db\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(LoadOptions{File: path, Flags: flags, FlagKeys: map[string]string{"database.path": "db"}})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-file.db", cfg.Database.Path)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	inEmptyDir(t)
	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorContains(t, err, "reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"fan out":        "pricing:\n  fan_out: 0\n",
		"log format":     "logger:\n  format: xml\n",
		"catalog mode":   "catalog:\n  mode: redis\n",
		"baseline cat":   "pricing:\n  baselines:\n    furniture:\n      price: '10'\n",
		"baseline price": "pricing:\n  baselines:\n    labor:\n      price: cheap\n",
		"negative price": "pricing:\n  baselines:\n    labor:\n      price: '-1'\n",
		"static quote":   "catalog:\n  mode: static\n  quotes:\n    - item: plywood\n      unit_price: '12'\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			inEmptyDir(t)
			_, err := Load(LoadOptions{File: writeConfig(t, body)})
			assert.Error(t, err)
		})
	}
}

func TestCatalogConfig_StaticQuotes(t *testing.T) {
	inEmptyDir(t)
	path := writeConfig(t, `
catalog:
  mode: static
  quotes:
    - item: plywood
      vendor: Timber Ltd
      unit_price: "45.99"
      unit: sheet
      confidence: 0.9
    - item: plywood
      vendor: Old Yard
      unit_price: "39"
      historical: true
      fetched_at: "2025-01-10"
    - item: carpenter
      category: labor
      vendor: Crew Co
      unit_price: "140"
      confidence: 1
`)
	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)

	quotes, err := cfg.Catalog.StaticQuotes()
	require.NoError(t, err)
	ply := quotes["plywood"][domain.CategoryMaterials]
	require.Len(t, ply, 2)
	assert.Equal(t, "Timber Ltd", ply[0].Vendor)
	assert.True(t, ply[0].IsQuote)
	assert.True(t, ply[1].IsHistorical)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), ply[1].FetchedAt)
	assert.Len(t, quotes["carpenter"][domain.CategoryLabor], 1)
}
