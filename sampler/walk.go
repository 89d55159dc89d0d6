package sampler

import (
	"math"

	"github.com/pkg/errors"

	"github.com/CraigKelly/reparam/model"
	"github.com/CraigKelly/reparam/rand"
)

// Walk is our baseline, simple to code random-walk Metropolis sampler:
// spherical normal proposals with a single scale. It needs no gradients, so
// it runs on any target, but it is the slow-mixing yardstick the HMC
// sampler is measured against.
type Walk struct {
	Scale float64 // Proposal standard deviation

	target model.Target
	gen    *rand.Generator

	lastAcceptProb float64
	lastLogP       float64
	haveLogP       bool

	prop []float64
}

// NewWalk creates a new sampler
func NewWalk(gen *rand.Generator, target model.Target, scale float64) (*Walk, error) {
	if gen == nil {
		return nil, errors.New("No generator supplied")
	}
	if target == nil {
		return nil, errors.New("No target supplied")
	}
	if scale <= 0.0 {
		return nil, errors.Errorf("Invalid proposal scale %f", scale)
	}

	w := &Walk{
		Scale:  scale,
		target: target,
		gen:    gen,
		prop:   make([]float64, target.Dim()),
	}
	return w, nil
}

// Sample advances x by one accept/reject step - implements Sampler
func (w *Walk) Sample(x []float64) (bool, error) {
	dim := w.target.Dim()
	if len(x) != dim {
		return false, errors.Errorf("Sample size %d is wrong for dim %d", len(x), dim)
	}

	// The current log density is cached between calls: it only changes when
	// we accept
	if !w.haveLogP {
		w.lastLogP = w.target.LogDensity(x)
		w.haveLogP = true
	}

	for i, xi := range x {
		w.prop[i] = xi + w.Scale*w.gen.NormFloat64()
	}

	lp := w.target.LogDensity(w.prop)
	w.lastAcceptProb = math.Min(1.0, math.Exp(lp-w.lastLogP))

	if w.gen.Float64() < w.lastAcceptProb {
		copy(x, w.prop)
		w.lastLogP = lp
		return true, nil
	}

	return false, nil
}

// AcceptProb returns the acceptance probability of the last proposal -
// implements Adaptable
func (w *Walk) AcceptProb() float64 {
	return w.lastAcceptProb
}

// SetStepSize updates the proposal scale - implements Adaptable
func (w *Walk) SetStepSize(eps float64) {
	w.Scale = eps
}
