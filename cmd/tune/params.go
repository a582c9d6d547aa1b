// Package main tunes controller parameters against scripted corner
// transitions with gonum's optimizers.
package main

import (
	"fmt"

	"github.com/pthm-cable/wallwalk/config"
)

// DefaultParams are the tunables that shape a floor-to-wall transition.
var DefaultParams = []string{
	"surface.rotation_speed",
	"surface.stick_force",
	"surface.sphere_blend",
	"surface.ground_check_distance",
	"surface.surface_check_distance",
	"surface.min_wrap_angle",
	"movement.responsiveness",
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []config.Tunable
}

// NewParamVector looks up the named tunables.
func NewParamVector(paths []string) (*ParamVector, error) {
	pv := &ParamVector{}
	for _, p := range paths {
		t, ok := config.LookupTunable(p)
		if !ok {
			return nil, fmt.Errorf("unknown tunable %q", p)
		}
		pv.Specs = append(pv.Specs, t)
	}
	if len(pv.Specs) == 0 {
		return nil, fmt.Errorf("no tunables selected")
	}
	return pv, nil
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Names returns the parameter paths in vector order.
func (pv *ParamVector) Names() []string {
	names := make([]string, len(pv.Specs))
	for i, spec := range pv.Specs {
		names[i] = spec.Path
	}
	return names
}

// FromConfig reads the current parameter values from cfg.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Get(cfg)
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and recomputes
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, spec := range pv.Specs {
		spec.Set(cfg, values[i])
	}
	return cfg.Recompute()
}
