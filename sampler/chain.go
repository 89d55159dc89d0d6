package sampler

import (
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/CraigKelly/reparam/buffer"
	"github.com/CraigKelly/reparam/model"
)

// Chain provides functionality around a single MCMC chain: burn-in,
// step-size adaptation, history windows for convergence diagnostics, and
// natural-scale moment tracking on the model's parameters.
type Chain struct {
	Target            *model.Model
	Sampler           Sampler
	ConvergenceWindow int
	ChainHistory      []*buffer.CircularFloat
	TotalSampleCount  int64
	AcceptedCount     int64
	LastSample        []float64

	natural []float64
}

// NewChain returns a chain ready to go. It even performs burn-in, running
// the adapter (when one is given and the sampler supports it) over the
// burn-in samples and freezing the averaged step size at the end.
func NewChain(mod *model.Model, samp Sampler, cw int, burnIn int64, adapter *DualAverage) (*Chain, error) {
	if mod == nil {
		return nil, errors.New("No model supplied")
	}
	if samp == nil {
		return nil, errors.New("No sampler supplied")
	}
	if cw < 4 {
		return nil, errors.Errorf("Convergence window %d is too small", cw)
	}

	dim := len(mod.Params)
	ch := &Chain{
		Target:            mod,
		Sampler:           samp,
		ConvergenceWindow: cw,
		ChainHistory:      make([]*buffer.CircularFloat, dim),
		TotalSampleCount:  0,
		LastSample:        make([]float64, dim),
		natural:           make([]float64, dim),
	}

	for i := range ch.ChainHistory {
		ch.ChainHistory[i] = buffer.NewCircularFloat(cw)
	}

	adaptable, canAdapt := samp.(Adaptable)

	for i := int64(0); i < burnIn; i++ {
		err := ch.oneSample(false)
		if err != nil {
			return nil, errors.Wrap(err, "Failure during chain burn in")
		}

		if adapter != nil && canAdapt {
			adaptable.SetStepSize(adapter.Update(adaptable.AcceptProb()))
		}
	}

	if adapter != nil && canAdapt {
		adaptable.SetStepSize(adapter.Final())
	}

	return ch, nil
}

// AdvanceChain asynchronously generates samples until every parameter's
// history window has turned over at least once since the call.
func (c *Chain) AdvanceChain(wg *sync.WaitGroup) error {
	cwThresh := make([]int64, len(c.ChainHistory))

	for i, hist := range c.ChainHistory {
		cwThresh[i] = hist.TotalSeen + int64(c.ConvergenceWindow) + 1
	}

	keepRunning := func() bool {
		for i, hist := range c.ChainHistory {
			if hist.TotalSeen < cwThresh[i] {
				return true
			}
		}
		return false
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		// If we have N parameters, we take batches of 2N samples between
		// checks so the bookkeeping stays off the hot path.
		batchSize := len(c.Target.Params) * 2

		for keepRunning() {
			for i := 0; i < batchSize; i++ {
				err := c.oneSample(true)
				if err != nil {
					panic("Async sample generation failed - cannot continue")
				}
			}
		}
	}()

	return nil
}

// oneSample takes a single sample and optionally updates the chain state.
func (c *Chain) oneSample(updateState bool) error {
	accepted, err := c.Sampler.Sample(c.LastSample)
	if err != nil {
		return errors.Wrap(err, "Error taking sample")
	}

	if updateState {
		err = c.Target.Target.Transform(c.LastSample, c.natural)
		if err != nil {
			return errors.Wrap(err, "Error transforming sample")
		}

		for i, x := range c.natural {
			c.ChainHistory[i].Add(x)
			c.Target.Params[i].Observe(x)
		}

		c.TotalSampleCount++
		if accepted {
			c.AcceptedCount++
		}
	}

	return nil
}

// AcceptRate returns the post-burn-in acceptance rate
func (c *Chain) AcceptRate() float64 {
	if c.TotalSampleCount < 1 {
		return 0.0
	}
	return float64(c.AcceptedCount) / float64(c.TotalSampleCount)
}

// Divergences returns the sampler's divergence count, or 0 for samplers
// that can not diverge
func (c *Chain) Divergences() int64 {
	if dc, ok := c.Sampler.(DivergenceCounter); ok {
		return dc.Divergences()
	}
	return 0
}

// MergeChains returns a single parameter array with moments pooled across
// all the chains, suitable for posterior mean/sd reporting.
func MergeChains(chains []*Chain) ([]*model.Parameter, error) {
	chLen := len(chains)
	if chLen < 1 {
		return nil, errors.Errorf("Can not merge 0 chains")
	}

	dim := len(chains[0].Target.Params)
	params := make([]*model.Parameter, dim)
	for i, p := range chains[0].Target.Params {
		params[i] = p.Clone()
	}

	for _, ch := range chains[1:] {
		if len(ch.Target.Params) != dim {
			return nil, errors.Errorf("Cannot merge chain with %d params into %d params", len(ch.Target.Params), dim)
		}
		for i, src := range ch.Target.Params {
			if err := params[i].Merge(src); err != nil {
				return nil, errors.Wrapf(err, "Cannot merge param %d", i)
			}
		}
	}

	return params, nil
}

// ChainConvergence returns the split R-hat (potential scale reduction
// factor) per parameter. Each chain's history window is split into its
// first and second halves, so m chains give 2m sequences of cw/2 samples.
// An error is returned if any window has not filled yet.
func ChainConvergence(chains []*Chain) ([]float64, error) {
	if len(chains) < 1 {
		return nil, errors.Errorf("At least 1 chain required for convergence check")
	}

	dim := len(chains[0].Target.Params)
	rhats := make([]float64, dim)

	means := make([]float64, 0, len(chains)*2)
	vars := make([]float64, 0, len(chains)*2)

	for i := 0; i < dim; i++ {
		means = means[:0]
		vars = vars[:0]

		for _, ch := range chains {
			if len(ch.Target.Params) != dim {
				return nil, errors.Errorf("Chain param count mismatch %d != %d", len(ch.Target.Params), dim)
			}

			hist := ch.ChainHistory[i]
			first := hist.FirstHalf()
			second := hist.SecondHalf()
			if first == nil || second == nil {
				return nil, errors.Errorf("Chain history for param %d is not full", i)
			}

			m, v := first.Stats()
			means = append(means, m)
			vars = append(vars, v)

			m, v = second.Stats()
			means = append(means, m)
			vars = append(vars, v)
		}

		rhats[i] = splitRhat(means, vars, float64(chains[0].ConvergenceWindow/2))
	}

	return rhats, nil
}

// splitRhat computes the potential scale reduction factor from per-sequence
// means and variances, where every sequence has length n.
func splitRhat(means []float64, vars []float64, n float64) float64 {
	m := float64(len(means))

	// W: mean within-sequence variance
	w := 0.0
	for _, v := range vars {
		w += v
	}
	w /= m

	// B/n: variance of the sequence means
	grand := 0.0
	for _, mu := range means {
		grand += mu
	}
	grand /= m

	bOverN := 0.0
	for _, mu := range means {
		d := mu - grand
		bOverN += d * d
	}
	bOverN /= m - 1.0

	if w <= 0.0 {
		// Everything constant: converged by definition
		if bOverN <= 0.0 {
			return 1.0
		}
		return math.Inf(1)
	}

	varPlus := (n-1.0)/n*w + bOverN
	return math.Sqrt(varPlus / w)
}
