package model

import (
	"math"

	"github.com/pkg/errors"
)

// Target implementors are unnormalized log densities over an unconstrained
// coordinate space. Constrained or hierarchically-coupled parameters are
// handled by sampling in transformed coordinates and mapping back via
// Transform - that mapping is the whole reparameterization trick.
type Target interface {
	// Dim is the number of sampled coordinates
	Dim() int
	// ParamNames returns one reporting name per coordinate. Empty names get
	// a default letter name from the model.
	ParamNames() []string
	// LogDensity returns the unnormalized log density at x
	LogDensity(x []float64) float64
	// Gradient fills grad with the gradient of LogDensity at x
	Gradient(x []float64, grad []float64) error
	// Transform maps sampled coordinates to the natural (reporting) scale
	Transform(x []float64, out []float64) error
}

// Model pairs a target density with the parameter set we track statistics
// for while sampling.
type Model struct {
	Name   string       // Model name for reporting
	Target Target       // The density being sampled
	Params []*Parameter // One tracked parameter per coordinate
}

// NewModel creates a model for the given target with freshly-named params.
func NewModel(name string, target Target) (*Model, error) {
	if target == nil {
		return nil, errors.Errorf("No target supplied for model %s", name)
	}

	dim := target.Dim()
	if dim < 1 {
		return nil, errors.Errorf("Model %s target has invalid dimension %d", name, dim)
	}

	names := target.ParamNames()
	if len(names) != dim {
		return nil, errors.Errorf("Model %s has %d param names for dimension %d", name, len(names), dim)
	}

	m := &Model{
		Name:   name,
		Target: target,
		Params: make([]*Parameter, dim),
	}

	for i, n := range names {
		p, err := NewParameter(i, n)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not create param %d for model %s", i, name)
		}
		m.Params[i] = p
	}

	return m, nil
}

// Clone returns a copy of the model with cloned parameter state. The target
// is shared: targets are stateless.
func (m *Model) Clone() *Model {
	cp := &Model{
		Name:   m.Name,
		Target: m.Target,
		Params: make([]*Parameter, len(m.Params)),
	}

	for i, p := range m.Params {
		cp.Params[i] = p.Clone()
	}

	return cp
}

// Check returns an error if there is a problem with the model
func (m *Model) Check() error {
	if m.Target == nil {
		return errors.Errorf("Model %s has no target", m.Name)
	}

	dim := m.Target.Dim()
	if dim != len(m.Params) {
		return errors.Errorf("Model %s has %d params for dimension %d", m.Name, len(m.Params), dim)
	}

	paramID := make(map[int]bool)
	for _, p := range m.Params {
		e := p.Check()
		if e != nil {
			return errors.Wrapf(e, "Model %s has an invalid Parameter %s", m.Name, p.Name)
		}

		_, ok := paramID[p.ID]
		if ok {
			return errors.Errorf("Duplicate Id %d for Param %s", p.ID, p.Name)
		}
		paramID[p.ID] = true
	}

	// The origin of the sampling space must be usable as a chain start
	origin := make([]float64, dim)
	lp := m.Target.LogDensity(origin)
	if math.IsNaN(lp) || math.IsInf(lp, 0) {
		return errors.Errorf("Model %s has unusable log density %f at the origin", m.Name, lp)
	}

	return nil
}
