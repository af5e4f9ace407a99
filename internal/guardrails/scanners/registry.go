package scanners

import (
	"sync"
	"sync/atomic"
)

// Lifecycle states of a scanner set.
const (
	StateUninitialized int32 = iota
	StateLoading
	StateReady
)

// RegistryConfig selects scanners and their thresholds.
type RegistryConfig struct {
	PromptInjectionThreshold float64
	ToxicityThreshold        float64
	EnablePromptInjection    bool
	EnableToxicity           bool
	EnableSecrets            bool
	EnablePII                bool
}

// Registry owns the scanner sets. Construction is lazy: the first
// caller of Inputs or Outputs builds the set under a sync.Once, so
// concurrent first use never constructs twice. Warmup forces both sets
// eagerly.
type Registry struct {
	cfg RegistryConfig

	inputOnce   sync.Once
	outputOnce  sync.Once
	inputState  atomic.Int32
	outputState atomic.Int32
	inputs      []InputScanner
	outputs     []OutputScanner
}

// NewRegistry creates a registry. No scanner is constructed yet.
func NewRegistry(cfg RegistryConfig) *Registry {
	return &Registry{cfg: cfg}
}

// Inputs returns the input scanner set, constructing it on first use.
func (r *Registry) Inputs() []InputScanner {
	r.inputOnce.Do(func() {
		r.inputState.Store(StateLoading)

		var set []InputScanner
		if r.cfg.EnablePromptInjection {
			set = append(set, NewPromptInjection(r.cfg.PromptInjectionThreshold))
		}
		if r.cfg.EnableToxicity {
			set = append(set, NewToxicity(r.cfg.ToxicityThreshold))
		}
		if r.cfg.EnableSecrets {
			set = append(set, NewSecrets())
		}

		r.inputs = set
		r.inputState.Store(StateReady)
	})
	return r.inputs
}

// Outputs returns the output scanner set, constructing it on first use.
// NoRefusal is always present; Sensitive follows the PII toggle.
func (r *Registry) Outputs() []OutputScanner {
	r.outputOnce.Do(func() {
		r.outputState.Store(StateLoading)

		var set []OutputScanner
		if r.cfg.EnablePII {
			set = append(set, NewSensitive())
		}
		set = append(set, NewNoRefusal())

		r.outputs = set
		r.outputState.Store(StateReady)
	})
	return r.outputs
}

// Warmup constructs both sets eagerly and returns their sizes.
func (r *Registry) Warmup() (inputs, outputs int) {
	return len(r.Inputs()), len(r.Outputs())
}

// Loaded reports the current set sizes without triggering construction.
// Sets that are not ready count as zero.
func (r *Registry) Loaded() (inputs, outputs int) {
	if r.inputState.Load() == StateReady {
		inputs = len(r.inputs)
	}
	if r.outputState.Load() == StateReady {
		outputs = len(r.outputs)
	}
	return inputs, outputs
}

// Ready reports whether the input scanner set has been constructed.
func (r *Registry) Ready() bool {
	return r.inputState.Load() == StateReady
}

// Config returns the registry's configuration.
func (r *Registry) Config() RegistryConfig {
	return r.cfg
}
