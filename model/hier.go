package model

import (
	"fmt"
	"io/ioutil"
	"math"

	"github.com/pkg/errors"

	"github.com/CraigKelly/reparam/dist"
)

// Hierarchical is the classic hierarchical Normal means target (the
// eight-schools setup): group effects theta_j ~ Normal(mu, tau) observed
// through y_j ~ Normal(theta_j, sigma_j) with known sigma_j, a
// Normal(0, MuScale) prior on mu, and a half-Cauchy(TauScale) prior on tau.
//
// Sampled coordinates are always (mu, log tau, ...): tau is sampled on the
// log scale with the Jacobian folded into the density. In centered form the
// remaining coordinates are the theta's themselves; with few groups or weak
// data that couples them to tau in the funnel way. In non-centered form the
// remaining coordinates are standardized effects eta_j with
// theta_j = mu + tau*eta_j.
type Hierarchical struct {
	Y           []float64 // Observed group means
	Sigma       []float64 // Known group standard errors
	NonCentered bool      // Sample standardized effects instead of thetas
	MuScale     float64   // Prior sd for mu
	TauScale    float64   // Half-Cauchy prior scale for tau
}

// NewHierarchical validates the data and returns a ready target.
func NewHierarchical(y []float64, sigma []float64, nonCentered bool) (*Hierarchical, error) {
	if len(y) < 1 {
		return nil, errors.Errorf("Hierarchical target requires at least one group")
	}
	if len(y) != len(sigma) {
		return nil, errors.Errorf("Group count mismatch: %d means for %d standard errors", len(y), len(sigma))
	}
	for j, s := range sigma {
		if s <= 0.0 {
			return nil, errors.Errorf("Group %d has invalid standard error %f", j, s)
		}
	}

	h := &Hierarchical{
		Y:           y,
		Sigma:       sigma,
		NonCentered: nonCentered,
		MuScale:     5.0,
		TauScale:    5.0,
	}
	return h, nil
}

// NewEightSchools returns the canonical eight-schools instance.
func NewEightSchools(nonCentered bool) *Hierarchical {
	h, err := NewHierarchical(
		[]float64{28.0, 8.0, -3.0, 7.0, -1.0, 1.0, 18.0, 12.0},
		[]float64{15.0, 10.0, 16.0, 11.0, 9.0, 11.0, 10.0, 18.0},
		nonCentered,
	)
	if err != nil {
		panic("BUG: eight schools data failed validation")
	}
	return h
}

// NewHierarchicalFromFile reads group data from a whitespace-delimited file:
// a leading group count J followed by J (y, sigma) pairs.
func NewHierarchicalFromFile(filename string, nonCentered bool) (*Hierarchical, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ group data from %s", filename)
	}
	return NewHierarchicalFromBuffer(string(data), nonCentered)
}

// NewHierarchicalFromBuffer parses group data from pre-read text.
func NewHierarchicalFromBuffer(data string, nonCentered bool) (*Hierarchical, error) {
	fr := NewFieldReader(data)

	j, err := fr.ReadInt()
	if err != nil {
		return nil, errors.Wrapf(err, "Could not read group count")
	}
	if j < 1 {
		return nil, errors.Errorf("Invalid group count %d", j)
	}

	y := make([]float64, j)
	sigma := make([]float64, j)
	for i := 0; i < j; i++ {
		pair, err := fr.ReadFloats(2)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not read data for group %d", i)
		}
		y[i] = pair[0]
		sigma[i] = pair[1]
	}

	return NewHierarchical(y, sigma, nonCentered)
}

// Dim implements Target: mu, log tau, and one coordinate per group.
func (h *Hierarchical) Dim() int {
	return 2 + len(h.Y)
}

// ParamNames implements Target
func (h *Hierarchical) ParamNames() []string {
	names := make([]string, h.Dim())
	names[0] = "mu"
	names[1] = "tau"
	for j := range h.Y {
		names[j+2] = fmt.Sprintf("theta%d", j)
	}
	return names
}

// priors are the shared mu/tau prior terms plus the log-scale Jacobian
func (h *Hierarchical) priors(mu float64, logTau float64, tau float64) float64 {
	muPrior := dist.Normal{Mu: 0.0, Sigma: h.MuScale}
	tauPrior := dist.HalfCauchy{Sigma: h.TauScale}

	return muPrior.LogProb(mu) + tauPrior.LogProb(tau) + logTau
}

// priorGrads returns the d/dmu and d/dlogTau contributions of priors
func (h *Hierarchical) priorGrads(mu float64, tau float64) (dMu float64, dLogTau float64) {
	s := h.TauScale
	dMu = -mu / (h.MuScale * h.MuScale)
	dLogTau = 1.0 - 2.0*tau*tau/(s*s+tau*tau)
	return
}

// LogDensity implements Target
func (h *Hierarchical) LogDensity(x []float64) float64 {
	mu := x[0]
	logTau := x[1]
	tau := math.Exp(logTau)

	lp := h.priors(mu, logTau, tau)

	if h.NonCentered {
		for j, eta := range x[2:] {
			lp += -0.5 * eta * eta

			resid := h.Y[j] - dist.Center(mu, tau, eta)
			lp += -0.5 * resid * resid / (h.Sigma[j] * h.Sigma[j])
		}
		return lp
	}

	for j, theta := range x[2:] {
		z := dist.NonCenter(mu, tau, theta)
		lp += -0.5*z*z - logTau

		resid := h.Y[j] - theta
		lp += -0.5 * resid * resid / (h.Sigma[j] * h.Sigma[j])
	}
	return lp
}

// Gradient implements Target
func (h *Hierarchical) Gradient(x []float64, grad []float64) error {
	if len(x) != h.Dim() || len(grad) != h.Dim() {
		return errors.Errorf("Hierarchical gradient needs dim %d, got x=%d grad=%d", h.Dim(), len(x), len(grad))
	}

	mu := x[0]
	logTau := x[1]
	tau := math.Exp(logTau)

	dMu, dLogTau := h.priorGrads(mu, tau)

	if h.NonCentered {
		for j, eta := range x[2:] {
			r := (h.Y[j] - dist.Center(mu, tau, eta)) / (h.Sigma[j] * h.Sigma[j])
			dMu += r
			dLogTau += tau * r * eta
			grad[j+2] = -eta + tau*r
		}
	} else {
		for j, theta := range x[2:] {
			z := dist.NonCenter(mu, tau, theta)
			dMu += z / tau
			dLogTau += -1.0 + z*z
			grad[j+2] = -z/tau + (h.Y[j]-theta)/(h.Sigma[j]*h.Sigma[j])
		}
	}

	grad[0] = dMu
	grad[1] = dLogTau
	return nil
}

// Transform implements Target - tau back to the natural scale and, for the
// non-centered form, standardized effects back to thetas.
func (h *Hierarchical) Transform(x []float64, out []float64) error {
	if len(x) != h.Dim() || len(out) < h.Dim() {
		return errors.Errorf("Hierarchical transform needs dim %d, got x=%d out=%d", h.Dim(), len(x), len(out))
	}

	mu := x[0]
	tau := math.Exp(x[1])
	out[0] = mu
	out[1] = tau

	if h.NonCentered {
		for j, eta := range x[2:] {
			out[j+2] = dist.Center(mu, tau, eta)
		}
		return nil
	}

	copy(out[2:], x[2:])
	return nil
}
