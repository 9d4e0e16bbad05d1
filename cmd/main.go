// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/narmesh/System-Spec-Analyzer/internal/dashboard"
	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo"
	"github.com/narmesh/System-Spec-Analyzer/pkg/sysinfo/collectors"
)

var (
	setupLog logr.Logger

	// CLI Options (alphabetical order)
	debug        bool
	hostProcPath string
	hostSysPath  string
	interval     time.Duration
	once         bool
)

func init() {
	flag.BoolVar(&debug, "debug", false,
		"Enable debug logging")
	flag.StringVar(&hostProcPath, "host-proc", "",
		"Path to the host's proc filesystem. Defaults to /proc; the HOST_PROC "+
			"environment variable takes precedence over both.")
	flag.StringVar(&hostSysPath, "host-sys", "",
		"Path to the host's sys filesystem. Defaults to /sys; the HOST_SYS "+
			"environment variable takes precedence over both.")
	flag.DurationVar(&interval, "interval", dashboard.DefaultRefreshInterval,
		"Interval between automatic dashboard refreshes")
	flag.BoolVar(&once, "once", false,
		"Run a single collection pass and exit instead of refreshing")
}

func main() {
	flag.Parse()

	logger, err := buildLogger(debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	setupLog = logger.WithName("setup")

	if err := run(logger); err != nil {
		setupLog.Error(err, "exiting")
		os.Exit(1)
	}
}

func run(logger logr.Logger) error {
	config := sysinfo.DefaultCollectionConfig()
	if hostProcPath != "" {
		config.HostProcPath = hostProcPath
	}
	if hostSysPath != "" {
		config.HostSysPath = hostSysPath
	}

	runner, err := sysinfo.NewRunner(sysinfo.RunnerOptions{
		Config:       config,
		Logger:       logger,
		Constructors: collectors.Steps(),
	})
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	dash, err := dashboard.New(dashboard.Options{
		Collector: runner,
		Presenter: dashboard.NewConsolePresenter(os.Stdout),
		Logger:    logger,
		Interval:  interval,
	})
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once {
		dash.RunOnce(ctx)
		return nil
	}

	// SIGHUP requests an immediate refresh without restarting.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for range hup {
			dash.Refresh()
		}
	}()

	setupLog.Info("starting dashboard", "interval", interval)
	if err := dash.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func buildLogger(debug bool) (logr.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.Development = true
	}
	zl, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zl), nil
}
