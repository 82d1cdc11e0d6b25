package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/fluxkit/logger"
	"github.com/kbukum/fluxkit/observability"
	"github.com/kbukum/fluxkit/tutorial"
	"github.com/kbukum/fluxkit/validation"
	"github.com/kbukum/fluxkit/version"
)

const shutdownTimeout = 5 * time.Second

func runExamples(cmd *cobra.Command, opts *options, args []string) error {
	names := args
	if opts.all {
		names = tutorial.Names()
	}
	if len(names) == 0 {
		return fmt.Errorf("no examples given: pass names or --all (see fluxkit list)")
	}
	v := validation.New()
	for _, name := range names {
		v.OneOf("example", name, tutorial.Names())
	}
	if err := v.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configFile, opts.logLevel)
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging)
	log := logger.WithComponent("cli")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := observability.Setup(ctx, cfg.Telemetry, cfg.Name, version.Get().Short())
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	runnerOpts := []tutorial.Option{
		tutorial.WithLogger(logger.NewWithWriter(&cfg.Logging, cfg.Name, cmd.OutOrStdout()).WithComponent("tutorial")),
	}
	if cfg.Telemetry.Enabled {
		m, err := observability.NewMetrics(observability.Meter(serviceName))
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		runnerOpts = append(runnerOpts, tutorial.WithTelemetry(m, nil))
	}
	runner := tutorial.NewRunner(cfg.Examples, runnerOpts...)

	execs, err := runner.RunAll(ctx, names)
	if errors.Is(err, context.Canceled) {
		log.Warn("interrupted", logger.Fields("completed", max(len(execs)-1, 0)))
		return nil
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, exec := range execs {
		if exec.Err() != nil {
			failed++
		}
	}
	log.Debug("run finished", logger.Fields("examples", len(execs), "failed", failed))
	return nil
}
