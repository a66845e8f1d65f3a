// Package config decodes a graph descriptor document: the set of
// components to instantiate, their instantiation parameters, and the
// connections between their ports. The graph engine itself never parses
// YAML — it consumes the value.Value params this package produces.
package config

// GraphDescriptor is the full document describing one graph to assemble.
type GraphDescriptor struct {
	Version     string                 `yaml:"version" validate:"required,semver"`
	Name        string                 `yaml:"name" validate:"required,min=1,max=100"`
	Description string                 `yaml:"description,omitempty"`
	Settings    Settings               `yaml:"settings,omitempty"`
	Components  []ComponentDescriptor  `yaml:"components" validate:"required,min=1,dive"`
	Connections []ConnectionDescriptor `yaml:"connections,omitempty" validate:"omitempty,dive"`
}

// Settings holds execution parameters decoded and validated with the
// descriptor. The run command does not read them.
type Settings struct {
	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	DryRun   bool   `yaml:"dry_run,omitempty"`
}

// ComponentDescriptor names one component instance, the plug-in class
// implementing it, and its instantiation parameters.
type ComponentDescriptor struct {
	Name   string                 `yaml:"name" validate:"required,component_name"`
	Kind   string                 `yaml:"kind" validate:"required,oneof=source filter sink"`
	Class  string                 `yaml:"class" validate:"required"`
	Params map[string]interface{} `yaml:"params,omitempty"`
}

// ConnectionDescriptor wires one component's output port to another's
// input port, each written "component.port".
type ConnectionDescriptor struct {
	Output string `yaml:"output" validate:"required,port_ref"`
	Input  string `yaml:"input" validate:"required,port_ref"`
}

// ComponentByName builds a lookup table for components by name.
func ComponentByName(components []ComponentDescriptor) map[string]ComponentDescriptor {
	out := make(map[string]ComponentDescriptor, len(components))
	for _, c := range components {
		out[c.Name] = c
	}
	return out
}
