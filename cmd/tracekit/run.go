package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/config"
	"github.com/tracekit/tracekit/internal/graph"
	"github.com/tracekit/tracekit/internal/plugin"
	"github.com/tracekit/tracekit/pkg/errstack"
)

type runFlags struct {
	configPath string
}

func newRunCmd(app *AppContext, root *rootFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "assemble and run the graph described by a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, log := app.CommandContext(cmd, "run")
			if root.verbose {
				log.Debug(ctx, "verbose logging requested")
			}
			// One error stack per run command invocation (spec 7): every
			// errstack.Append call the graph engine makes while assembling
			// or running this graph lands here, readable on failure.
			ctx = errstack.NewContext(ctx)

			gd, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load graph descriptor: %w", err)
			}

			g := graph.New(log)
			if err := assembleGraph(ctx, g, app.Registry, gd); err != nil {
				return withCauses(ctx, fmt.Errorf("assemble graph %q: %w", gd.Name, err))
			}

			log.Info(ctx, "running graph", "name", gd.Name, "components", len(gd.Components))
			code := g.Run(ctx)
			log.Info(ctx, "graph run finished", "name", gd.Name, "status", code.String())
			if code.IsError() {
				return withCauses(ctx, fmt.Errorf("graph %q ended with status %s", gd.Name, code.String()))
			}
			errstack.Clear(ctx)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to a graph descriptor YAML file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// assembleGraph instantiates every component descriptor against the
// registry and wires every connection descriptor, in the order spec 4.8
// describes for the assembly phase: components first, then ports.
func assembleGraph(ctx context.Context, g *graph.Graph, reg *plugin.Registry, gd *config.GraphDescriptor) error {
	for _, cd := range gd.Components {
		kind, err := component.ParseKind(cd.Kind)
		if err != nil {
			return fmt.Errorf("component %q: %w", cd.Name, err)
		}
		cc, err := reg.Get(kind, cd.Class)
		if err != nil {
			return fmt.Errorf("component %q: %w", cd.Name, err)
		}
		if _, err := g.AddComponent(ctx, cc, cd.Name, cd.ParamsValue()); err != nil {
			return fmt.Errorf("add component %q: %w", cd.Name, err)
		}
	}

	for _, conn := range gd.Connections {
		outName, outPort := conn.OutputRef()
		inName, inPort := conn.InputRef()

		output, err := findPort(g, outName, outPort, component.DirectionOutput)
		if err != nil {
			return err
		}
		input, err := findPort(g, inName, inPort, component.DirectionInput)
		if err != nil {
			return err
		}
		if _, err := g.ConnectPorts(ctx, output, input); err != nil {
			return fmt.Errorf("connect %s.%s -> %s.%s: %w", outName, outPort, inName, inPort, err)
		}
	}

	return nil
}

func findPort(g *graph.Graph, componentName, portName string, dir component.Direction) (*component.Port, error) {
	c, ok := g.ComponentByName(componentName)
	if !ok {
		return nil, fmt.Errorf("no component named %q", componentName)
	}
	label := "output"
	ports := c.OutputPorts()
	if dir == component.DirectionInput {
		label = "input"
		ports = c.InputPorts()
	}
	for _, p := range ports {
		if p.Name == portName {
			return p, nil
		}
	}
	return nil, fmt.Errorf("component %q has no %s port %q", componentName, label, portName)
}

// withCauses drains ctx's error stack and appends its records, oldest
// first, to err's message, then clears the stack so a later command on
// the same context starts clean.
func withCauses(ctx context.Context, err error) error {
	records := errstack.Drain(ctx)
	errstack.Clear(ctx)
	if len(records) == 0 {
		return err
	}
	causes := make([]string, len(records))
	for i, r := range records {
		causes[i] = r.String()
	}
	return fmt.Errorf("%w\ncauses:\n  %s", err, strings.Join(causes, "\n  "))
}
