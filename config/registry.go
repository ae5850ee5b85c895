package config

import (
	"sort"

	"go.uber.org/atomic"
)

// Registry holds the resources currently served. Readers never block,
// Replace swaps the whole set at once when the configuration changes.
type Registry struct {
	resources atomic.Value
}

func NewRegistry(resources []Resource) (*Registry, error) {
	r := &Registry{}
	if err := r.Replace(resources); err != nil {
		return nil, err
	}
	return r, nil
}

// Replace validates resources and makes them visible to subsequent lookups.
// On error the previous set stays in place.
func (r *Registry) Replace(resources []Resource) error {
	if err := ValidateResources(resources); err != nil {
		return err
	}

	byName := make(map[string]Resource, len(resources))
	for _, res := range resources {
		byName[res.Name] = res
	}
	r.resources.Store(byName)
	return nil
}

func (r *Registry) Get(name string) (Resource, bool) {
	res, ok := r.load()[name]
	return res, ok
}

// Names returns the served resource names in sorted order.
func (r *Registry) Names() []string {
	byName := r.load()
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) load() map[string]Resource {
	byName, _ := r.resources.Load().(map[string]Resource)
	return byName
}
