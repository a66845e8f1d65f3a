package main

import (
	"io"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/plugin"
	"github.com/tracekit/tracekit/internal/plugins/dashboardsink"
	"github.com/tracekit/tracekit/internal/plugins/gitsource"
	"github.com/tracekit/tracekit/internal/plugins/muxer"
	"github.com/tracekit/tracekit/internal/plugins/printsink"
)

// registerBuiltinPlugins populates r with every component class this
// binary ships, the way a plug-in shared object advertises its classes
// through a static descriptor.
//
// ctfsource is deliberately left unregistered: its SourceSpec is a Go-level
// struct (packets, per-event cycle counts) with no YAML-expressible params
// shape, so it has no home in a config-driven registry. It stays a
// componenttest-style fixture, exercised directly by its own package's
// tests rather than through a graph descriptor.
func registerBuiltinPlugins(r *plugin.Registry, stdout io.Writer) error {
	modules := []plugin.ModuleDescriptor{
		{
			Name:        "git_source",
			Description: "emits one event per commit reachable from a git repository's HEAD",
			Author:      "tracekit",
			License:     "Apache-2.0",
			Classes:     []*component.Class{gitsource.NewClass("git_source")},
		},
		{
			Name:        "muxer",
			Description: "merges several upstream message streams into one, ordered by default clock snapshot",
			Author:      "tracekit",
			License:     "Apache-2.0",
			Classes:     []*component.Class{muxer.NewClass("muxer")},
		},
		{
			Name:        "print_sink",
			Description: "writes one descriptive line per consumed message",
			Author:      "tracekit",
			License:     "Apache-2.0",
			Classes:     []*component.Class{printsink.NewClass("print_sink", stdout)},
		},
		{
			Name:        "dashboard_sink",
			Description: "renders a live terminal dashboard of message throughput",
			Author:      "tracekit",
			License:     "Apache-2.0",
			Classes:     []*component.Class{dashboardsink.NewClass("dashboard_sink")},
		},
	}

	for _, mod := range modules {
		if err := r.Register(mod); err != nil {
			return err
		}
	}
	return nil
}
