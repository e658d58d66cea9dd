// Package model defines the inference-model contract consumed by the
// forecast assembler, together with a name-keyed registry so a run can
// select its model once at construction time.
package model

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/stormlab/geomag-api/internal/domain"
)

// Model produces per-timestep spherical-harmonic coefficient vectors for
// a batch. The assembler treats the model as an opaque, blocking call:
// how the coefficients were learned is out of scope here.
type Model interface {
	// Name returns the registry name of the model.
	Name() string

	// Predict returns one (timesteps x basis functions) coefficient
	// matrix per target component, aligned with batch.Times.
	Predict(batch *domain.Batch) (map[string]*mat.Dense, error)
}

// Config carries construction parameters common to all models.
type Config struct {
	Nmax       int
	Components []string

	// Coefficients holds precomputed (timesteps x basis functions)
	// matrices per component for models that serve stored inference
	// output; the row order matches Times.
	Coefficients map[string]*mat.Dense
	Times        []int64 // Unix seconds, one per coefficient row.
}

// Factory builds a model from its configuration.
type Factory func(cfg Config) (Model, error)

var registry = map[string]Factory{}

// Register adds a model factory under a name. Registering the same name
// twice is a programming error and panics during init.
func Register(name string, factory Factory) {
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("model %q registered twice", name))
	}
	registry[name] = factory
}

// New resolves a registered model by name and constructs it.
func New(name string, cfg Config) (Model, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (available: %v)", name, Names())
	}
	return factory(cfg)
}

// Names lists the registered model names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
