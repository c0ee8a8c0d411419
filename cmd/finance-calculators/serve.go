package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/iwvelando/finance-calculators/internal/cache"
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/server"
	"github.com/iwvelando/finance-calculators/internal/tracing"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	serverConfig string
	address      string
	maxBodySize  string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the calculators as a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `finance-calculators [-config config.yaml] serve [-server-config server-config.yaml] [-address :8080] [-max-body-size 1M]

  Starts the HTTP API and stops gracefully on SIGINT or SIGTERM.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	f.StringVar(&c.address, "address", "", "listen address override")
	f.StringVar(&c.maxBodySize, "max-body-size", "", "request body limit override, e.g. 512K or 1M")
}

// applyOverrides lets the command line win over the server configuration file.
func (c *serveCmd) applyOverrides(serverConf *server.Config) error {
	if c.address != "" {
		serverConf.Address = c.address
	}
	if c.maxBodySize != "" {
		size, err := server.ParseSize(c.maxBodySize)
		if err != nil {
			return err
		}
		if size <= 0 {
			return fmt.Errorf("invalid max body size %q: must be positive", c.maxBodySize)
		}
		serverConf.SetBodySizeBytes(size)
	}
	return nil
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	serverConf, err := server.LoadConfig(c.serverConfig)
	if err != nil {
		return setupFailure(err)
	}
	if err := c.applyOverrides(serverConf); err != nil {
		return setupFailure(err)
	}

	// Server logging settings, when present, replace the calculator ones.
	a, status := setupApp(func(conf *config.Configuration) {
		if serverConf.Logging != (config.LoggingConfig{}) {
			conf.Logging = serverConf.Logging
		}
	})
	if a == nil {
		return status
	}
	defer a.close()

	if err := c.run(ctx, a, serverConf); err != nil {
		a.logger.Error("server failed",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *serveCmd) run(ctx context.Context, a *app, serverConf *server.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitTracing(ctx, a.logger, a.conf.Tracing, version)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			a.logger.Warn("failed to flush traces",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	if rc, ok := a.cache.(*cache.RedisCache); ok {
		if err := rc.Ping(ctx); err != nil {
			a.logger.Warn("redis cache is not reachable, results will be recomputed",
				zap.String("op", "main.serve"),
				zap.String("address", a.conf.Cache.Address),
				zap.Error(err),
			)
		}
	}

	var limiter *server.RateLimiter
	if serverConf.RateLimit.Requests > 0 {
		limiter = server.NewRateLimiter(serverConf.RateLimit.Requests, serverConf.RateLimit.Window)
		defer limiter.Stop()
	}

	srv := &http.Server{
		Addr: serverConf.Address,
		Handler: server.NewHandler(a.logger, a.svc, server.Options{
			MaxBodySize: serverConf.BodySizeBytes(),
			Version:     version,
			RateLimiter: limiter,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("listening",
			zap.String("op", "main.serve"),
			zap.String("address", serverConf.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("shutting down",
			zap.String("op", "main.serve"),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
