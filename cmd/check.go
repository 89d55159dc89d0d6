package cmd

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/CraigKelly/reparam/dist"
	"github.com/CraigKelly/reparam/model"
	"github.com/CraigKelly/reparam/rand"
)

// Tolerances for the transform checks. With 200k draws the KS critical
// value at alpha=0.001 is under 0.005, so 0.01 only fails on a real bug.
const (
	checkDraws   = 200000
	checkBins    = 100
	ksTolerance  = 0.01
	helTolerance = 0.01
)

// A transformCheck validates one documented closed form: draw variates
// through the transform, then compare against the analytic reference CDF
// (KS statistic) and against reference-sampled draws (Hellinger distance on
// matching histograms).
type transformCheck struct {
	Name string
	Lo   float64 // Histogram range for the Hellinger comparison
	Hi   float64
	Draw func(g *rand.Generator) float64
	CDF  func(x float64) float64
	Ref  func(g *rand.Generator) float64
}

func allChecks() []transformCheck {
	// gonum spells the Cauchy as a one-degree Student-T
	cauchy := distuv.StudentsT{Mu: 0.0, Sigma: 1.0, Nu: 1.0}
	studentT := distuv.StudentsT{Mu: 0.0, Sigma: 1.0, Nu: 4.0}
	logNormal := distuv.LogNormal{Mu: 0.0, Sigma: 0.5}
	expon := distuv.Exponential{Rate: 1.5}
	pareto := distuv.Pareto{Xm: 1.0, Alpha: 3.0}
	gamma := distuv.Gamma{Alpha: 2.5, Beta: 1.5}

	halfCauchyCDF := func(x float64) float64 {
		if x < 0.0 {
			return 0.0
		}
		return 2.0*cauchy.CDF(x) - 1.0
	}

	return []transformCheck{
		{
			Name: "cauchy-from-uniform",
			Lo:   -15.0, Hi: 15.0,
			Draw: func(g *rand.Generator) float64 { return dist.CauchyFromUniform(g.Float64OO(), 0.0, 1.0) },
			CDF:  cauchy.CDF,
			Ref:  func(g *rand.Generator) float64 { return distuv.StudentsT{Mu: 0.0, Sigma: 1.0, Nu: 1.0, Src: g}.Rand() },
		},
		{
			Name: "cauchy-from-normal-ratio",
			Lo:   -15.0, Hi: 15.0,
			Draw: func(g *rand.Generator) float64 {
				return dist.CauchyFromNormals(g.NormFloat64(), g.NormFloat64(), 0.0, 1.0)
			},
			CDF: cauchy.CDF,
			Ref: func(g *rand.Generator) float64 { return distuv.StudentsT{Mu: 0.0, Sigma: 1.0, Nu: 1.0, Src: g}.Rand() },
		},
		{
			Name: "cauchy-from-normal-gamma",
			Lo:   -15.0, Hi: 15.0,
			Draw: func(g *rand.Generator) float64 {
				tau := g.GammaFloat64(0.5) / 0.5
				return dist.CauchyFromNormalGamma(g.NormFloat64(), tau, 0.0, 1.0)
			},
			CDF: cauchy.CDF,
			Ref: func(g *rand.Generator) float64 { return distuv.StudentsT{Mu: 0.0, Sigma: 1.0, Nu: 1.0, Src: g}.Rand() },
		},
		{
			Name: "halfcauchy-from-uniform",
			Lo:   0.0, Hi: 15.0,
			Draw: func(g *rand.Generator) float64 { return dist.HalfCauchyFromUniform(g.Float64OO(), 1.0) },
			CDF:  halfCauchyCDF,
			Ref: func(g *rand.Generator) float64 {
				x := distuv.StudentsT{Mu: 0.0, Sigma: 1.0, Nu: 1.0, Src: g}.Rand()
				if x < 0.0 {
					return -x
				}
				return x
			},
		},
		{
			Name: "studentt-from-normal-gamma",
			Lo:   -8.0, Hi: 8.0,
			Draw: func(g *rand.Generator) float64 {
				tau := g.GammaFloat64(2.0) / 2.0
				return dist.StudentTFromNormalGamma(g.NormFloat64(), tau, 0.0, 1.0)
			},
			CDF: studentT.CDF,
			Ref: func(g *rand.Generator) float64 { return distuv.StudentsT{Mu: 0.0, Sigma: 1.0, Nu: 4.0, Src: g}.Rand() },
		},
		{
			Name: "lognormal-from-normal",
			Lo:   0.0, Hi: 6.0,
			Draw: func(g *rand.Generator) float64 { return dist.LognormalFromNormal(g.NormFloat64(), 0.0, 0.5) },
			CDF:  logNormal.CDF,
			Ref:  func(g *rand.Generator) float64 { return distuv.LogNormal{Mu: 0.0, Sigma: 0.5, Src: g}.Rand() },
		},
		{
			Name: "exponential-from-uniform",
			Lo:   0.0, Hi: 5.0,
			Draw: func(g *rand.Generator) float64 { return dist.ExponentialFromUniform(g.Float64OO(), 1.5) },
			CDF:  expon.CDF,
			Ref:  func(g *rand.Generator) float64 { return distuv.Exponential{Rate: 1.5, Src: g}.Rand() },
		},
		{
			Name: "pareto-from-uniform",
			Lo:   1.0, Hi: 5.0,
			Draw: func(g *rand.Generator) float64 { return dist.ParetoFromUniform(g.Float64OO(), 1.0, 3.0) },
			CDF:  pareto.CDF,
			Ref:  func(g *rand.Generator) float64 { return distuv.Pareto{Xm: 1.0, Alpha: 3.0, Src: g}.Rand() },
		},
		{
			Name: "pareto-from-exponential",
			Lo:   1.0, Hi: 5.0,
			Draw: func(g *rand.Generator) float64 { return dist.ParetoFromExponential(g.ExpFloat64(), 1.0, 3.0) },
			CDF:  pareto.CDF,
			Ref:  func(g *rand.Generator) float64 { return distuv.Pareto{Xm: 1.0, Alpha: 3.0, Src: g}.Rand() },
		},
		{
			Name: "gamma-marsaglia-tsang",
			Lo:   0.0, Hi: 8.0,
			Draw: func(g *rand.Generator) float64 { return g.GammaFloat64(2.5) / 1.5 },
			CDF:  gamma.CDF,
			Ref:  func(g *rand.Generator) float64 { return distuv.Gamma{Alpha: 2.5, Beta: 1.5, Src: g}.Rand() },
		},
	}
}

// CheckTransforms validates every documented transform and returns an error
// if any misses tolerance.
func CheckTransforms(sp *startupParams) error {
	gen, err := rand.NewGenerator(sp.randomSeed)
	if err != nil {
		return err
	}
	refGen, err := rand.NewGenerator(sp.randomSeed + 1)
	if err != nil {
		return err
	}

	failures := 0

	for _, chk := range allChecks() {
		xs := make([]float64, checkDraws)
		for i := range xs {
			xs[i] = chk.Draw(gen)
		}

		ks, err := model.KSStat(xs, chk.CDF)
		if err != nil {
			return errors.Wrapf(err, "KS failure on %s", chk.Name)
		}

		hist, err := model.NewHistogram(chk.Lo, chk.Hi, checkBins)
		if err != nil {
			return errors.Wrapf(err, "Histogram failure on %s", chk.Name)
		}
		hist.ObserveAll(xs)

		refHist, err := model.NewHistogram(chk.Lo, chk.Hi, checkBins)
		if err != nil {
			return errors.Wrapf(err, "Histogram failure on %s", chk.Name)
		}
		for i := 0; i < checkDraws; i++ {
			refHist.Observe(chk.Ref(refGen))
		}

		es, err := model.NewErrorSuite(hist, refHist)
		if err != nil {
			return errors.Wrapf(err, "Error suite failure on %s", chk.Name)
		}

		status := "PASS"
		if ks > ksTolerance || es.Hellinger > helTolerance {
			status = "FAIL"
			failures++
		}

		sp.out.Printf(
			"%-26s KS:%8.5f Hel:%8.5f JSD:%8.5f  %s\n",
			chk.Name, ks, es.Hellinger, es.JSDiverge, status,
		)
	}

	if failures > 0 {
		return errors.Errorf("%d transform check(s) failed", failures)
	}

	sp.out.Printf("All transform checks passed\n")
	return nil
}
