package main

import (
	"context"
	"fmt"
	"os"

	cblog "github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tracekit/tracekit/internal/infrastructure/logging"
	"github.com/tracekit/tracekit/internal/plugin"
)

func main() {
	formatter := cblog.JSONFormatter
	if term.IsTerminal(int(os.Stdout.Fd())) {
		formatter = cblog.TextFormatter
	}

	appLogger, err := logging.New(logging.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "infrastructure",
		Formatter: formatter,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := logging.GenerateCorrelationID()
	ctx := logging.WithCorrelationID(context.Background(), correlationID)

	registry := plugin.New()
	if err := registerBuiltinPlugins(registry, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register component classes: %v\n", err)
		os.Exit(1)
	}

	app := &AppContext{Logger: appLogger, Registry: registry}

	rootCmd := newRootCmd(app)
	rootCmd.SetContext(ctx)
	appLogger.Info(ctx, "starting tracekit command", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
