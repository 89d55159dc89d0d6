package model

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/CraigKelly/reparam/dist"
)

// Funnel is Neal's funnel: v ~ Normal(0, 3) and x_i ~ Normal(0, exp(v/2)).
// In centered form the sampled coordinates ARE (v, x...) and the density has
// the pathological neck that defeats fixed-step HMC. In non-centered form
// every sampled coordinate is standard normal and the funnel shape is
// recovered by Transform, so the sampler never sees the neck.
type Funnel struct {
	XDim        int  // Number of x coordinates (total dimension is XDim+1)
	NonCentered bool // Sample in standard-normal coordinates
}

// NewFunnel creates a funnel target with xDim low-level coordinates.
func NewFunnel(xDim int, nonCentered bool) (*Funnel, error) {
	if xDim < 1 {
		return nil, errors.Errorf("Funnel requires at least 1 x coordinate, not %d", xDim)
	}
	return &Funnel{XDim: xDim, NonCentered: nonCentered}, nil
}

// Dim implements Target
func (f *Funnel) Dim() int {
	return f.XDim + 1
}

// ParamNames implements Target - coordinate 0 is v, the rest are x's
func (f *Funnel) ParamNames() []string {
	names := make([]string, f.Dim())
	names[0] = "v"
	for i := 1; i < len(names); i++ {
		names[i] = fmt.Sprintf("x%d", i-1)
	}
	return names
}

// LogDensity implements Target
func (f *Funnel) LogDensity(x []float64) float64 {
	if f.NonCentered {
		// Every coordinate is standard normal - no neck at all
		lp := 0.0
		for _, z := range x {
			lp += -0.5 * z * z
		}
		return lp
	}

	v := x[0]
	vPrior := dist.Normal{Mu: 0.0, Sigma: 3.0}
	xPrior := dist.Normal{Mu: 0.0, Sigma: math.Exp(v / 2.0)}

	lp := vPrior.LogProb(v)
	for _, xi := range x[1:] {
		lp += xPrior.LogProb(xi)
	}
	return lp
}

// Gradient implements Target
func (f *Funnel) Gradient(x []float64, grad []float64) error {
	if len(x) != f.Dim() || len(grad) != f.Dim() {
		return errors.Errorf("Funnel gradient needs dim %d, got x=%d grad=%d", f.Dim(), len(x), len(grad))
	}

	if f.NonCentered {
		for i, z := range x {
			grad[i] = -z
		}
		return nil
	}

	v := x[0]
	expNegV := math.Exp(-v)

	grad[0] = -v / 9.0
	for i, xi := range x[1:] {
		grad[0] += -0.5 + 0.5*xi*xi*expNegV
		grad[i+1] = -xi * expNegV
	}

	return nil
}

// Transform implements Target - maps sampled coordinates to funnel scale
func (f *Funnel) Transform(x []float64, out []float64) error {
	if len(x) != f.Dim() || len(out) < f.Dim() {
		return errors.Errorf("Funnel transform needs dim %d, got x=%d out=%d", f.Dim(), len(x), len(out))
	}

	if !f.NonCentered {
		copy(out, x)
		return nil
	}

	v := dist.Center(0.0, 3.0, x[0])
	out[0] = v

	scale := math.Exp(v / 2.0)
	for i, z := range x[1:] {
		out[i+1] = dist.Center(0.0, scale, z)
	}

	return nil
}
