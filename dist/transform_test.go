package dist

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/CraigKelly/reparam/rand"
)

func testGen(t *testing.T) *rand.Generator {
	g, err := rand.NewGenerator(42)
	if err != nil {
		t.Fatalf("Could not create generator: %v", err)
	}
	return g
}

// Kolmogorov-Smirnov statistic of a sample against an analytic CDF
func ksStat(xs []float64, cdf func(float64) float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	worst := 0.0
	for i, x := range sorted {
		f := cdf(x)
		if d := f - float64(i)/n; d > worst {
			worst = d
		}
		if d := float64(i+1)/n - f; d > worst {
			worst = d
		}
	}

	return worst
}

func TestQuantileRoundTrip(t *testing.T) {
	assert := assert.New(t)

	gen := testGen(t)

	cases := []struct {
		Name string
		Q    Quantiler
	}{
		{"Uniform", &Uniform{Low: -2.0, High: 3.0, Gen: gen}},
		{"Normal", &Normal{Mu: 1.0, Sigma: 2.0, Gen: gen}},
		{"Exponential", &Exponential{Rate: 1.5, Gen: gen}},
		{"Cauchy", &Cauchy{Mu: -1.0, Sigma: 0.5, Gen: gen}},
		{"HalfCauchy", &HalfCauchy{Sigma: 5.0, Gen: gen}},
		{"Lognormal", &Lognormal{Mu: 0.5, Sigma: 0.75, Gen: gen}},
		{"Pareto", &Pareto{Xm: 2.0, Alpha: 3.0, Gen: gen}},
	}

	for _, c := range cases {
		for p := 0.01; p < 1.0; p += 0.01 {
			x := c.Q.Quantile(p)
			assert.InDelta(p, c.Q.CDF(x), 1e-9, "%s round trip at p=%f", c.Name, p)
		}
	}
}

func TestTransformsAreQuantiles(t *testing.T) {
	assert := assert.New(t)

	cauchy := &Cauchy{Mu: 1.0, Sigma: 2.0}
	halfCauchy := &HalfCauchy{Sigma: 5.0}
	expo := &Exponential{Rate: 0.5}
	pareto := &Pareto{Xm: 2.0, Alpha: 3.0}

	for u := 0.05; u < 1.0; u += 0.05 {
		assert.InDelta(cauchy.Quantile(u), CauchyFromUniform(u, 1.0, 2.0), 1e-12)
		assert.InDelta(halfCauchy.Quantile(u), HalfCauchyFromUniform(u, 5.0), 1e-12)
		assert.InDelta(expo.Quantile(u), ExponentialFromUniform(u, 0.5), 1e-12)
		assert.InDelta(pareto.Quantile(u), ParetoFromUniform(u, 2.0, 3.0), 1e-12)
	}
}

func TestCauchyRepresentationsAgree(t *testing.T) {
	assert := assert.New(t)

	gen := testGen(t)
	target := &Cauchy{Mu: 0.0, Sigma: 1.0}

	const n = 100000
	pit := make([]float64, n)
	ratio := make([]float64, n)
	mixture := make([]float64, n)

	for i := 0; i < n; i++ {
		pit[i] = CauchyFromUniform(gen.Float64OO(), 0.0, 1.0)
		ratio[i] = CauchyFromNormals(gen.NormFloat64(), gen.NormFloat64(), 0.0, 1.0)

		tau := gen.GammaFloat64(0.5) / 0.5
		mixture[i] = CauchyFromNormalGamma(gen.NormFloat64(), tau, 0.0, 1.0)
	}

	// KS critical value at alpha=0.001 for n=100000 is about 0.006
	assert.Less(ksStat(pit, target.CDF), 0.01)
	assert.Less(ksStat(ratio, target.CDF), 0.01)
	assert.Less(ksStat(mixture, target.CDF), 0.01)
}

func TestStudentTScaleMixture(t *testing.T) {
	assert := assert.New(t)

	gen := testGen(t)
	st := &StudentT{Nu: 4.0, Mu: 1.0, Sigma: 2.0, Gen: gen}
	ref := distuv.StudentsT{Mu: 1.0, Sigma: 2.0, Nu: 4.0}

	const n = 100000
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = st.Rand()
	}

	assert.Less(ksStat(xs, ref.CDF), 0.01)
}

func TestParetoRepresentationsAgree(t *testing.T) {
	assert := assert.New(t)

	gen := testGen(t)
	ref := distuv.Pareto{Xm: 2.0, Alpha: 3.0}

	const n = 100000
	pit := make([]float64, n)
	viaExp := make([]float64, n)
	for i := 0; i < n; i++ {
		pit[i] = ParetoFromUniform(gen.Float64OO(), 2.0, 3.0)
		viaExp[i] = ParetoFromExponential(gen.ExpFloat64(), 2.0, 3.0)
	}

	assert.Less(ksStat(pit, ref.CDF), 0.01)
	assert.Less(ksStat(viaExp, ref.CDF), 0.01)
}

func TestLognormalFromNormal(t *testing.T) {
	assert := assert.New(t)

	gen := testGen(t)
	ref := distuv.LogNormal{Mu: 0.5, Sigma: 0.75}

	const n = 100000
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = LognormalFromNormal(gen.NormFloat64(), 0.5, 0.75)
	}

	assert.Less(ksStat(xs, ref.CDF), 0.01)
}

func TestCenterNonCenter(t *testing.T) {
	assert := assert.New(t)

	for _, x := range []float64{-10.0, -1.0, 0.0, 0.5, 42.0} {
		z := NonCenter(2.0, 3.0, x)
		assert.InDelta(x, Center(2.0, 3.0, z), 1e-12)
	}

	// Standardizing really does standardize
	assert.InDelta(0.0, NonCenter(2.0, 3.0, 2.0), 1e-12)
	assert.InDelta(1.0, NonCenter(2.0, 3.0, 5.0), 1e-12)
}

func TestTransformEdgeCases(t *testing.T) {
	assert := assert.New(t)

	// Quantile limits at the endpoints of the unit interval
	assert.InDelta(0.0, CauchyFromUniform(0.5, 0.0, 1.0), 1e-12)
	assert.Equal(0.0, ExponentialFromUniform(0.0, 2.0))
	assert.True(math.IsInf(ExponentialFromUniform(1.0, 2.0), 1))
	assert.Equal(2.0, ParetoFromUniform(0.0, 2.0, 3.0))
	assert.True(math.IsInf(ParetoFromUniform(1.0, 2.0, 3.0), 1))
	assert.Equal(0.0, HalfCauchyFromUniform(0.0, 5.0))

	// The probability-zero ratio denominator maps to infinity, never NaN
	assert.False(math.IsNaN(CauchyFromNormals(1.0, 0.0, 0.0, 1.0)))
	assert.True(math.IsInf(CauchyFromNormals(1.0, 0.0, 0.0, 1.0), 1))
	assert.True(math.IsInf(CauchyFromNormals(-1.0, 0.0, 0.0, 1.0), -1))
}
