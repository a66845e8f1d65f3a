// Package plugin implements the component-class descriptor registry of
// spec section 6: plug-in modules expose a static descriptor naming their
// component classes; the core loads descriptors without depending on
// loader details.
package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tracekit/tracekit/internal/component"
)

// ModuleDescriptor is a plug-in's static descriptor: a name, optional
// metadata, and the component-class descriptors it exposes.
type ModuleDescriptor struct {
	Name        string
	Description string
	Author      string
	License     string
	Classes     []*component.Class
}

// Registry is a mutex-guarded map of component classes keyed by
// (kind, name), generalized from the teacher's `PluginRegistry` map
// structure without its dependency-graph machinery, since spec section 6
// imposes no cross-plug-in dependency model.
type Registry struct {
	mu      sync.RWMutex
	classes map[component.Kind]map[string]*component.Class
	modules []ModuleDescriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		classes: map[component.Kind]map[string]*component.Class{
			component.KindSource: make(map[string]*component.Class),
			component.KindFilter: make(map[string]*component.Class),
			component.KindSink:   make(map[string]*component.Class),
		},
	}
}

// Register validates and adds every component class of mod. Fails atomically:
// if any class is invalid or collides with an already-registered name of the
// same kind, no class from mod is registered.
func (r *Registry) Register(mod ModuleDescriptor) error {
	if mod.Name == "" {
		return fmt.Errorf("plugin: module descriptor missing name")
	}
	for _, cc := range mod.Classes {
		if err := cc.Validate(); err != nil {
			return fmt.Errorf("plugin: module %q: %w", mod.Name, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cc := range mod.Classes {
		if _, exists := r.classes[cc.Kind][cc.Name]; exists {
			return fmt.Errorf("plugin: component class %q (%s) already registered", cc.Name, cc.Kind)
		}
	}
	for _, cc := range mod.Classes {
		r.classes[cc.Kind][cc.Name] = cc
	}
	r.modules = append(r.modules, mod)
	return nil
}

// Get looks up a component class by kind and name.
func (r *Registry) Get(kind component.Kind, name string) (*component.Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cc, ok := r.classes[kind][name]
	if !ok {
		return nil, fmt.Errorf("plugin: no %s component class named %q", kind, name)
	}
	return cc, nil
}

// List returns every registered module descriptor, sorted by module name.
func (r *Registry) List() []ModuleDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ModuleDescriptor, len(r.modules))
	copy(out, r.modules)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
