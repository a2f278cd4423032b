package sdk

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps entity names to their configurations.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]*EntityConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]*EntityConfig)}
}

// DefaultRegistry returns a registry holding the built-in entities:
// Plan, Addon and Subscription.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, cfg := range []EntityConfig{PlanConfig(), AddonConfig(), SubscriptionConfig()} {
		if err := r.Register(cfg); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds an entity configuration. Name, Module and Command are
// required and names must be unique.
func (r *Registry) Register(cfg EntityConfig) error {
	if cfg.Name == "" || cfg.Module == "" || cfg.Command == "" {
		return fmt.Errorf("%w: entity name, module and command are required", ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[cfg.Name]; exists {
		return fmt.Errorf("%w: entity %q already registered", ErrInvalidConfig, cfg.Name)
	}
	r.configs[cfg.Name] = &cfg
	return nil
}

// Lookup returns the configuration of a registered entity.
func (r *Registry) Lookup(name string) (*EntityConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return cfg, nil
}

// Names returns the registered entity names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
