// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import (
	"errors"
	"sort"
	"sync"
)

// Factory creates a new Scene with the given options.
type Factory func(opts ...Option) Scene

// RegistryEntry represents a registered scene.
type RegistryEntry struct {
	// Name is the unique identifier for this scene.
	Name string

	// Priority determines the default scene (higher = preferred).
	Priority int

	// Description is a one-line summary shown by scene listings.
	Description string

	// Factory creates scene instances.
	Factory Factory
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages named scenes.
//
// Example registration:
//
//	func init() {
//	    scene.Register("cube", 20, "spinning cube", newCube)
//	}
//
// Example usage:
//
//	s, err := scene.New("pyramid")
//	// or the highest priority scene:
//	s, err := scene.Default()
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and New.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a scene to the global registry.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, description string, factory Factory) {
	globalRegistry.Register(name, priority, description, factory)
}

// Unregister removes a scene from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered scene names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Get returns information about a specific scene.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// New creates the named scene from the global registry.
func New(name string, opts ...Option) (Scene, error) {
	return globalRegistry.New(name, opts...)
}

// Default creates the highest priority scene of the global registry.
func Default(opts ...Option) (Scene, error) {
	return globalRegistry.Default(opts...)
}

// Register adds a scene to this registry.
func (r *Registry) Register(name string, priority int, description string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	r.entries[name] = &RegistryEntry{
		Name:        name,
		Priority:    priority,
		Description: description,
		Factory:     factory,
	}
}

// Unregister removes a scene from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered scene names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames()
}

// Get returns information about a specific scene.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	// Return a copy to prevent modification
	entryCopy := *entry
	return &entryCopy, true
}

// New creates the named scene.
func (r *Registry) New(name string, opts ...Option) (Scene, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return entry.Factory(opts...), nil
}

// Default creates the highest priority scene.
func (r *Registry) Default(opts ...Option) (Scene, error) {
	r.mu.RLock()
	names := r.sortedNames()
	r.mu.RUnlock()

	if len(names) == 0 {
		return nil, ErrNoScene
	}
	return r.New(names[0], opts...)
}

// sortedNames returns scene names sorted by priority (highest first),
// then by name. Must be called with lock held.
func (r *Registry) sortedNames() []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoScene is returned when no scenes are registered.
	ErrNoScene = errors.New("scene: no scene registered")
)

// NotFoundError indicates a named scene is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "scene: not found: " + e.Name
}

// init registers the built-in scenes.
func init() {
	Register("pentagon", 100, "static purple pentagon, three triangles", Pentagon)
	Register("pyramid", 50, "rotating square pyramid with back-face culling", Pyramid)
}
