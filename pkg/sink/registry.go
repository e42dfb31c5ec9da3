package sink

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/logger"
)

// Factory creates a sink writer from the run configuration.
type Factory func(ctx context.Context, cfg *config.Config) (Writer, error)

// Info describes a registered sink.
type Info struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
}

type entry struct {
	info    Info
	factory Factory
}

// Registry manages sink registration and instantiation
type Registry struct {
	sinks map[string]entry
	mu    sync.RWMutex
}

var globalRegistry = NewRegistry()

// NewRegistry creates an empty sink registry
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[string]entry),
	}
}

// Register adds a sink factory under info.Name
func (r *Registry) Register(info Info, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sinks[info.Name]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "sink %s already registered", info.Name)
	}

	r.sinks[info.Name] = entry{info: info, factory: factory}
	logger.Debug("sink registered", zap.String("name", info.Name), zap.String("kind", string(info.Kind)))
	return nil
}

// Create instantiates the named sink
func (r *Registry) Create(ctx context.Context, name string, cfg *config.Config) (Writer, error) {
	r.mu.RLock()
	e, exists := r.sinks[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeConfig, "sink %s not found", name).
			WithDetail("available", r.names())
	}

	w, err := e.factory(ctx, cfg)
	if err != nil {
		// keep the factory's classification (io, connection, config)
		if errors.As(err, new(*errors.Error)) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to create sink "+name)
	}
	return w, nil
}

// List returns registered sinks sorted by name
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.sinks))
	for _, e := range r.sinks {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Has checks if a sink is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.sinks[name]
	return exists
}

func (r *Registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sinks))
	for name := range r.sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register registers a sink in the global registry
func Register(info Info, factory Factory) error {
	return globalRegistry.Register(info, factory)
}

// Create creates a sink from the global registry
func Create(ctx context.Context, name string, cfg *config.Config) (Writer, error) {
	return globalRegistry.Create(ctx, name, cfg)
}

// List returns the sinks in the global registry
func List() []Info {
	return globalRegistry.List()
}

// Has checks if a sink is registered in the global registry
func Has(name string) bool {
	return globalRegistry.Has(name)
}
