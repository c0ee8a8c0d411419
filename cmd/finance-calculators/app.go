package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/iwvelando/finance-calculators/internal/cache"
	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"go.uber.org/zap"
)

// app bundles what every subcommand needs after the global flags are parsed.
type app struct {
	conf         *config.Configuration
	logger       *zap.Logger
	outputFormat string
	cache        cache.Cache
	svc          *calculator.Service
	out          io.Writer
}

// newApp loads the configuration, applies adjust, builds the logger and wires
// the calculator service. Callers must call close.
func newApp(configPath, logLevelOverride, outputFormatOverride string, adjust ...func(*config.Configuration)) (*app, error) {
	conf, err := config.LoadOptionalConfiguration(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", configPath, err)
	}
	for _, fn := range adjust {
		fn(conf)
	}

	logger, err := initializeLogger(conf.Logging, logLevelOverride)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if outputFormatOverride != "" {
		outputFormat = outputFormatOverride
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		_ = logger.Sync()
		return nil, err
	}

	c, err := cache.New(conf.Cache)
	if err != nil {
		logger.Warn("result cache unavailable, continuing without it",
			zap.String("op", "main"),
			zap.String("backend", conf.Cache.Backend),
			zap.Error(err),
		)
		c = cache.Noop{}
	}

	return &app{
		conf:         conf,
		logger:       logger,
		outputFormat: outputFormat,
		cache:        c,
		svc:          calculator.NewService(logger, conf, c),
		out:          os.Stdout,
	}, nil
}

func (a *app) close() {
	if closer, ok := a.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("failed to close cache",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
	_ = a.logger.Sync()
}

// setupApp builds the app from the global flags and reports failures the
// way main does before a logger exists.
func setupApp(adjust ...func(*config.Configuration)) (*app, subcommands.ExitStatus) {
	a, err := newApp(*configLocation, *logLevel, *outputFormatFlag, adjust...)
	if err != nil {
		return nil, setupFailure(err)
	}
	return a, subcommands.ExitSuccess
}

func setupFailure(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q}\n", err.Error())
	return subcommands.ExitFailure
}

// setFlags returns the names of the flags given on the command line.
func setFlags(f *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

// runCommand executes fn with a fully wired app and maps its error to an exit status.
func runCommand(ctx context.Context, op string, fn func(context.Context, *app) error) subcommands.ExitStatus {
	a, status := setupApp()
	if a == nil {
		return status
	}
	defer a.close()

	if err := fn(ctx, a); err != nil {
		a.logger.Error("calculation failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
