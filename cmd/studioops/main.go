package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/studioops/internal/app"
	"github.com/alexanderramin/studioops/internal/cli"
	"github.com/alexanderramin/studioops/internal/config"
	"github.com/alexanderramin/studioops/internal/logging"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	a := &cli.App{Version: version}

	var closers []func() error
	a.Init = func(opts config.LoadOptions) error {
		cfg, err := config.Load(opts)
		if err != nil {
			return err
		}

		logger, closeLog, err := logging.New(cfg.Logger, os.Stdout, os.Stderr)
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		closers = append(closers, closeLog)

		svc, err := app.Build(cfg, logger)
		if err != nil {
			return err
		}
		closers = append(closers, svc.Close)

		a.Plans = svc.Plans
		a.Projects = svc.Projects
		a.Catalog = svc.Catalog
		a.Logger = logger
		a.Currency = cfg.Pricing.Currency
		a.HTTP = cfg.HTTP
		return nil
	}
	a.Close = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		closers = nil
		return errors.Join(errs...)
	}

	err := cli.NewRootCmd(a).Execute()
	// PersistentPostRunE is skipped when a command fails.
	return errors.Join(err, a.Close())
}
