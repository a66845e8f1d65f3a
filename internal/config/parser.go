package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tracekit/tracekit/internal/value"
	tkerrors "github.com/tracekit/tracekit/pkg/errors"
)

// Load reads a graph descriptor document from path, decodes it, and
// validates it, returning the ready-to-use descriptor.
func Load(path string) (*GraphDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tkerrors.NewLoadingError(path, err)
	}

	var gd GraphDescriptor
	if err := yaml.Unmarshal(data, &gd); err != nil {
		return nil, tkerrors.NewLoadingError(path, err)
	}

	if err := Validate(&gd); err != nil {
		return nil, err
	}

	return &gd, nil
}

// ParamsValue converts a component descriptor's raw decoded params into a
// value.Value map, ready to pass to graph.Graph.AddComponent.
func (c ComponentDescriptor) ParamsValue() value.Value {
	if c.Params == nil {
		return value.Map()
	}
	return value.FromNative(map[string]interface{}(c.Params))
}

// OutputRef splits a "component.port" reference into its parts.
func (c ConnectionDescriptor) OutputRef() (component, port string) {
	return splitRef(c.Output)
}

// InputRef splits a "component.port" reference into its parts.
func (c ConnectionDescriptor) InputRef() (component, port string) {
	return splitRef(c.Input)
}

func splitRef(ref string) (component, port string) {
	parts := strings.SplitN(ref, ".", 2)
	if len(parts) != 2 {
		return ref, ""
	}
	return parts[0], parts[1]
}
