package cmd

import (
	"encoding/json"
	"io/ioutil"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/CraigKelly/reparam/model"
	"github.com/CraigKelly/reparam/rand"
	"github.com/CraigKelly/reparam/sampler"
)

// RhatThreshold is the split R-hat we accept as converged.
const RhatThreshold = 1.05

// Adaptation targets differ by sampler: HMC wants high acceptance, a
// random walk mixes best accepting far less.
const (
	hmcTargetAccept  = 0.8
	walkTargetAccept = 0.3
)

// buildTarget creates the requested target density from startup params.
func buildTarget(sp *startupParams) (model.Target, error) {
	var nonCentered bool
	switch sp.paramMode {
	case "centered":
		nonCentered = false
	case "noncentered":
		nonCentered = true
	default:
		return nil, errors.Errorf("Unknown parameterization mode %s", sp.paramMode)
	}

	switch sp.modelName {
	case "funnel":
		return model.NewFunnel(sp.funnelDims, nonCentered)
	case "hier":
		if sp.dataFile != "" {
			return model.NewHierarchicalFromFile(sp.dataFile, nonCentered)
		}
		return model.NewEightSchools(nonCentered), nil
	}

	return nil, errors.Errorf("Unknown model %s", sp.modelName)
}

// buildSampler creates the requested sampler and its step-size adapter.
func buildSampler(sp *startupParams, gen *rand.Generator, target model.Target) (sampler.Sampler, *sampler.DualAverage, error) {
	switch sp.samplerName {
	case "hmc":
		samp, err := sampler.NewHMC(gen, target, sp.stepSize, sp.leapSteps)
		if err != nil {
			return nil, nil, err
		}
		adapter, err := sampler.NewDualAverage(sp.stepSize, hmcTargetAccept)
		if err != nil {
			return nil, nil, err
		}
		return samp, adapter, nil

	case "walk":
		samp, err := sampler.NewWalk(gen, target, sp.stepSize)
		if err != nil {
			return nil, nil, err
		}
		adapter, err := sampler.NewDualAverage(sp.stepSize, walkTargetAccept)
		if err != nil {
			return nil, nil, err
		}
		return samp, adapter, nil
	}

	return nil, nil, errors.Errorf("Unknown sampler %s", sp.samplerName)
}

// traceParam is the per-parameter entry of the JSON summary
type traceParam struct {
	Name string
	Mean float64
	SD   float64
	Rhat float64
}

// traceResult is the JSON summary written when a trace file is requested
type traceResult struct {
	Model       string
	Mode        string
	Sampler     string
	Converged   bool
	Iterations  int64
	Seconds     float64
	Samples     int64
	AcceptRate  float64
	Divergences int64
	Params      []traceParam
}

// RunChains builds the chosen target, runs chains concurrently with burn-in
// and adaptation, and reports posterior moments plus convergence and
// divergence diagnostics.
func RunChains(sp *startupParams) error {
	target, err := buildTarget(sp)
	if err != nil {
		return err
	}

	mod, err := model.NewModel(sp.modelName, target)
	if err != nil {
		return err
	}
	if err := mod.Check(); err != nil {
		return errors.Wrap(err, "Built model is not valid")
	}

	if sp.chainCount < 1 {
		return errors.Errorf("Invalid chain count %d", sp.chainCount)
	}
	if sp.maxIters < 1 {
		return errors.Errorf("Invalid max iteration count %d", sp.maxIters)
	}

	sp.Report()
	sp.out.Printf("Target has %d parameters\n", len(mod.Params))

	if sp.monitorAddr != "" {
		if err := sp.mon.Start(sp.monitorAddr); err != nil {
			return err
		}
		defer sp.mon.Stop()

		sp.mon.BurnIn.Set(sp.burnIn)
		sp.mon.ConvergeWindow.Set(int64(sp.convergeWindow))
		sp.mon.Chains.Set(int64(sp.chainCount))
		sp.mon.MaxIters.Set(sp.maxIters)
		sp.mon.MaxSeconds.Set(sp.maxSecs)
	}

	// Every chain gets its own generator (derived seed) and model clone
	sp.verb.Printf("Burning in %d chains (%d samples each)\n", sp.chainCount, sp.burnIn)

	chains := make([]*sampler.Chain, sp.chainCount)
	for i := range chains {
		gen, err := rand.NewGenerator(sp.randomSeed + int64(i))
		if err != nil {
			return err
		}

		samp, adapter, err := buildSampler(sp, gen, target)
		if err != nil {
			return err
		}

		ch, err := sampler.NewChain(mod.Clone(), samp, sp.convergeWindow, sp.burnIn, adapter)
		if err != nil {
			return errors.Wrapf(err, "Could not create chain %d", i)
		}
		chains[i] = ch
	}

	// Advance all chains until the worst split R-hat clears the threshold
	// (or we run out of iterations/time)
	startTime := time.Now()
	converged := false
	var iterations int64
	var rhats []float64

	for iterations < sp.maxIters {
		iterations++

		var wg sync.WaitGroup
		for _, ch := range chains {
			if err := ch.AdvanceChain(&wg); err != nil {
				return errors.Wrapf(err, "Error advancing chains on iteration %d", iterations)
			}
		}
		wg.Wait()

		rhats, err = sampler.ChainConvergence(chains)
		if err != nil {
			return errors.Wrap(err, "Error calculating convergence")
		}

		worst := 0.0
		for _, r := range rhats {
			if r > worst {
				worst = r
			}
		}

		var totalSamples, acceptedSoFar, divergences int64
		for _, ch := range chains {
			totalSamples += ch.TotalSampleCount
			acceptedSoFar += ch.AcceptedCount
			divergences += ch.Divergences()
		}

		runSecs := time.Since(startTime).Seconds()
		sp.verb.Printf(
			"Iter %3d | Samples %9d | Worst Rhat %7.4f | Divergences %d\n",
			iterations, totalSamples, worst, divergences,
		)

		if sp.monitorAddr != "" {
			sp.mon.Iterations.Set(iterations)
			sp.mon.TotalSamples.Set(totalSamples)
			sp.mon.WorstRhat.Set(worst)
			sp.mon.Divergences.Set(divergences)
			sp.mon.RunTime.Set(runSecs)
			if totalSamples > 0 {
				sp.mon.AcceptRate.Set(float64(acceptedSoFar) / float64(totalSamples))
			}
		}

		if worst <= RhatThreshold {
			converged = true
			break
		}
		if runSecs > float64(sp.maxSecs) {
			sp.out.Printf("Max run time exceeded: stopping\n")
			break
		}
	}

	// Final report from the pooled chains
	merged, err := sampler.MergeChains(chains)
	if err != nil {
		return errors.Wrap(err, "Error merging chains for the final report")
	}

	var totalSamples, acceptedSamples, divergences int64
	for _, ch := range chains {
		totalSamples += ch.TotalSampleCount
		acceptedSamples += ch.AcceptedCount
		divergences += ch.Divergences()
	}
	acceptRate := float64(acceptedSamples) / float64(totalSamples)

	sp.out.Printf("--------------------------------------------------\n")
	if converged {
		sp.out.Printf("CONVERGED after %d iterations (%.1fs)\n", iterations, time.Since(startTime).Seconds())
	} else {
		sp.out.Printf("DID NOT CONVERGE after %d iterations (%.1fs)\n", iterations, time.Since(startTime).Seconds())
	}
	sp.out.Printf("Samples: %d | Accept Rate: %.3f | Divergences: %d\n", totalSamples, acceptRate, divergences)
	sp.out.Printf("%-12s %12s %12s %8s\n", "Param", "Mean", "SD", "Rhat")
	for i, p := range merged {
		sp.out.Printf("%-12s %12.5f %12.5f %8.4f\n", p.Name, p.Mean(), p.SD(), rhats[i])
	}

	if sp.traceFile != "" {
		tr := traceResult{
			Model:       sp.modelName,
			Mode:        sp.paramMode,
			Sampler:     sp.samplerName,
			Converged:   converged,
			Iterations:  iterations,
			Seconds:     time.Since(startTime).Seconds(),
			Samples:     totalSamples,
			AcceptRate:  acceptRate,
			Divergences: divergences,
			Params:      make([]traceParam, len(merged)),
		}
		for i, p := range merged {
			tr.Params[i] = traceParam{Name: p.Name, Mean: p.Mean(), SD: p.SD(), Rhat: rhats[i]}
		}

		data, err := json.MarshalIndent(tr, "", "  ")
		if err != nil {
			return errors.Wrap(err, "Could not marshal trace summary")
		}
		if err := ioutil.WriteFile(sp.traceFile, data, 0644); err != nil {
			return errors.Wrapf(err, "Could not WRITE trace summary to %s", sp.traceFile)
		}
		sp.out.Printf("Wrote trace summary to %s\n", sp.traceFile)
	}

	return nil
}
