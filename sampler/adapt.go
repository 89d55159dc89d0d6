package sampler

import (
	"math"

	"github.com/pkg/errors"
)

// DualAverage tunes a sampler's step size toward a target acceptance rate
// using Nesterov dual averaging. Update is called once per burn-in sample
// with the sampler's last acceptance probability; Final returns the
// averaged step size to freeze for the post-burn-in run.
type DualAverage struct {
	TargetAccept float64 // The acceptance rate we adapt toward

	mu        float64
	logEps    float64
	logEpsBar float64
	hBar      float64
	count     float64

	// standard dual-averaging constants
	gamma float64
	t0    float64
	kappa float64
}

// NewDualAverage creates an adapter starting from the given step size.
func NewDualAverage(initStep float64, targetAccept float64) (*DualAverage, error) {
	if initStep <= 0.0 {
		return nil, errors.Errorf("Invalid initial step size %f", initStep)
	}
	if targetAccept <= 0.0 || targetAccept >= 1.0 {
		return nil, errors.Errorf("Invalid target acceptance rate %f", targetAccept)
	}

	da := &DualAverage{
		TargetAccept: targetAccept,
		mu:           math.Log(10.0 * initStep),
		logEps:       math.Log(initStep),
		logEpsBar:    math.Log(initStep),
		gamma:        0.05,
		t0:           10.0,
		kappa:        0.75,
	}
	return da, nil
}

// Update consumes one acceptance probability and returns the next step size
// to try
func (da *DualAverage) Update(acceptProb float64) float64 {
	da.count++

	frac := 1.0 / (da.count + da.t0)
	da.hBar = (1.0-frac)*da.hBar + frac*(da.TargetAccept-acceptProb)

	da.logEps = da.mu - math.Sqrt(da.count)/da.gamma*da.hBar

	w := math.Pow(da.count, -da.kappa)
	da.logEpsBar = w*da.logEps + (1.0-w)*da.logEpsBar

	return math.Exp(da.logEps)
}

// Final returns the averaged step size to use after burn-in
func (da *DualAverage) Final() float64 {
	return math.Exp(da.logEpsBar)
}
