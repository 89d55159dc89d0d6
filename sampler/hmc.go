package sampler

import (
	"math"

	"github.com/pkg/errors"

	"github.com/CraigKelly/reparam/model"
	"github.com/CraigKelly/reparam/rand"
)

// DivergenceThreshold is the energy error (in nats) past which a leapfrog
// trajectory is declared divergent. Divergent proposals are always rejected
// and counted: on a badly-parameterized target (a centered funnel neck) the
// count climbs fast, which is exactly the signal the non-centered
// parameterization removes.
const DivergenceThreshold = 1000.0

// HMC is a fixed-path-length Hamiltonian Monte Carlo sampler.
type HMC struct {
	StepSize float64 // Leapfrog step size (epsilon)
	Steps    int     // Leapfrog steps per proposal (L)

	target model.Target
	gen    *rand.Generator

	divergences    int64
	lastAcceptProb float64

	// scratch space, sized once
	pos  []float64
	mom  []float64
	grad []float64
}

// NewHMC creates a new sampler for the given target
func NewHMC(gen *rand.Generator, target model.Target, stepSize float64, steps int) (*HMC, error) {
	if gen == nil {
		return nil, errors.New("No generator supplied")
	}
	if target == nil {
		return nil, errors.New("No target supplied")
	}
	if stepSize <= 0.0 {
		return nil, errors.Errorf("Invalid step size %f", stepSize)
	}
	if steps < 1 {
		return nil, errors.Errorf("Invalid leapfrog step count %d", steps)
	}

	dim := target.Dim()
	h := &HMC{
		StepSize: stepSize,
		Steps:    steps,
		target:   target,
		gen:      gen,
		pos:      make([]float64, dim),
		mom:      make([]float64, dim),
		grad:     make([]float64, dim),
	}
	return h, nil
}

// Sample advances x by one accept/reject step - implements Sampler
func (h *HMC) Sample(x []float64) (bool, error) {
	dim := h.target.Dim()
	if len(x) != dim {
		return false, errors.Errorf("Sample size %d is wrong for dim %d", len(x), dim)
	}

	copy(h.pos, x)

	// Gaussian momenta: H(q, p) = -logp(q) + sum(p^2)/2
	kinetic := 0.0
	for i := range h.mom {
		p := h.gen.NormFloat64()
		h.mom[i] = p
		kinetic += p * p
	}
	h0 := -h.target.LogDensity(h.pos) + 0.5*kinetic

	h1, err := h.leapfrog()
	if err != nil {
		return false, errors.Wrap(err, "Leapfrog trajectory failed")
	}

	energyErr := h1 - h0
	if math.IsNaN(energyErr) || energyErr > DivergenceThreshold {
		h.divergences++
		h.lastAcceptProb = 0.0
		return false, nil
	}

	h.lastAcceptProb = math.Min(1.0, math.Exp(-energyErr))
	if h.gen.Float64() < h.lastAcceptProb {
		copy(x, h.pos)
		return true, nil
	}

	return false, nil
}

// leapfrog integrates the current (pos, mom) state for Steps steps and
// returns the final Hamiltonian
func (h *HMC) leapfrog() (float64, error) {
	eps := h.StepSize

	if err := h.target.Gradient(h.pos, h.grad); err != nil {
		return 0, err
	}

	// Half step for momenta, alternating full steps, half step to finish
	for i := range h.mom {
		h.mom[i] += 0.5 * eps * h.grad[i]
	}

	for l := 0; l < h.Steps; l++ {
		for i := range h.pos {
			h.pos[i] += eps * h.mom[i]
		}

		if err := h.target.Gradient(h.pos, h.grad); err != nil {
			return 0, err
		}

		scale := eps
		if l == h.Steps-1 {
			scale = 0.5 * eps
		}
		for i := range h.mom {
			h.mom[i] += scale * h.grad[i]
		}
	}

	kinetic := 0.0
	for _, p := range h.mom {
		kinetic += p * p
	}

	return -h.target.LogDensity(h.pos) + 0.5*kinetic, nil
}

// AcceptProb returns the acceptance probability of the last proposal -
// implements Adaptable
func (h *HMC) AcceptProb() float64 {
	return h.lastAcceptProb
}

// SetStepSize updates the leapfrog step size - implements Adaptable
func (h *HMC) SetStepSize(eps float64) {
	h.StepSize = eps
}

// Divergences returns the count of divergent trajectories seen - implements
// DivergenceCounter
func (h *HMC) Divergences() int64 {
	return h.divergences
}
