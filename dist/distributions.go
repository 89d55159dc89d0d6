package dist

import (
	"math"

	"github.com/pkg/errors"

	"github.com/CraigKelly/reparam/rand"
)

var (
	_ Quantiler = (*Uniform)(nil)
	_ Quantiler = (*Normal)(nil)
	_ Quantiler = (*Exponential)(nil)
	_ Quantiler = (*Cauchy)(nil)
	_ Quantiler = (*HalfCauchy)(nil)
	_ Quantiler = (*Lognormal)(nil)
	_ Quantiler = (*Pareto)(nil)

	_ Dist = (*StudentT)(nil)
	_ Dist = (*Gamma)(nil)
)

const (
	logTwoPi = 1.8378770664093454835606594728112 // log(2*pi)
	sqrtTwo  = math.Sqrt2
)

// Uniform is the continuous uniform distribution on [Low, High).
type Uniform struct {
	Low  float64
	High float64
	Gen  *rand.Generator
}

// NewUniform validates params and returns a ready distribution
func NewUniform(gen *rand.Generator, low float64, high float64) (*Uniform, error) {
	if gen == nil {
		return nil, errors.Errorf("No generator supplied for Uniform(%f, %f)", low, high)
	}
	if high <= low {
		return nil, errors.Errorf("Invalid Uniform bounds [%f, %f)", low, high)
	}
	return &Uniform{Low: low, High: high, Gen: gen}, nil
}

// Rand returns a single variate
func (d *Uniform) Rand() float64 {
	return d.Low + (d.High-d.Low)*d.Gen.Float64()
}

// LogProb returns the log density at x
func (d *Uniform) LogProb(x float64) float64 {
	if x < d.Low || x >= d.High {
		return math.Inf(-1)
	}
	return -math.Log(d.High - d.Low)
}

// CDF returns P(X <= x)
func (d *Uniform) CDF(x float64) float64 {
	if x < d.Low {
		return 0.0
	}
	if x >= d.High {
		return 1.0
	}
	return (x - d.Low) / (d.High - d.Low)
}

// Quantile returns the inverse CDF at p
func (d *Uniform) Quantile(p float64) float64 {
	return d.Low + p*(d.High-d.Low)
}

// Normal is the Normal(Mu, Sigma) distribution.
type Normal struct {
	Mu    float64
	Sigma float64
	Gen   *rand.Generator
}

// NewNormal validates params and returns a ready distribution
func NewNormal(gen *rand.Generator, mu float64, sigma float64) (*Normal, error) {
	if gen == nil {
		return nil, errors.Errorf("No generator supplied for Normal(%f, %f)", mu, sigma)
	}
	if sigma <= 0.0 {
		return nil, errors.Errorf("Invalid Normal scale %f", sigma)
	}
	return &Normal{Mu: mu, Sigma: sigma, Gen: gen}, nil
}

// Rand returns a single variate
func (d *Normal) Rand() float64 {
	return Center(d.Mu, d.Sigma, d.Gen.NormFloat64())
}

// LogProb returns the log density at x
func (d *Normal) LogProb(x float64) float64 {
	z := NonCenter(d.Mu, d.Sigma, x)
	return -0.5*z*z - math.Log(d.Sigma) - 0.5*logTwoPi
}

// CDF returns P(X <= x)
func (d *Normal) CDF(x float64) float64 {
	z := NonCenter(d.Mu, d.Sigma, x)
	return 0.5 * math.Erfc(-z/sqrtTwo)
}

// Quantile returns the inverse CDF at p
func (d *Normal) Quantile(p float64) float64 {
	return Center(d.Mu, d.Sigma, sqrtTwo*math.Erfinv(2.0*p-1.0))
}

// Exponential is the Exponential(Rate) distribution.
type Exponential struct {
	Rate float64
	Gen  *rand.Generator
}

// NewExponential validates params and returns a ready distribution
func NewExponential(gen *rand.Generator, rate float64) (*Exponential, error) {
	if gen == nil {
		return nil, errors.Errorf("No generator supplied for Exponential(%f)", rate)
	}
	if rate <= 0.0 {
		return nil, errors.Errorf("Invalid Exponential rate %f", rate)
	}
	return &Exponential{Rate: rate, Gen: gen}, nil
}

// Rand returns a single variate
func (d *Exponential) Rand() float64 {
	return ExponentialFromUniform(d.Gen.Float64OO(), d.Rate)
}

// LogProb returns the log density at x
func (d *Exponential) LogProb(x float64) float64 {
	if x < 0.0 {
		return math.Inf(-1)
	}
	return math.Log(d.Rate) - d.Rate*x
}

// CDF returns P(X <= x)
func (d *Exponential) CDF(x float64) float64 {
	if x < 0.0 {
		return 0.0
	}
	return -math.Expm1(-d.Rate * x)
}

// Quantile returns the inverse CDF at p
func (d *Exponential) Quantile(p float64) float64 {
	return ExponentialFromUniform(p, d.Rate)
}

// Cauchy is the Cauchy(Mu, Sigma) distribution: the poster child for why
// heavy tails need reparameterized sampling.
type Cauchy struct {
	Mu    float64
	Sigma float64
	Gen   *rand.Generator
}

// NewCauchy validates params and returns a ready distribution
func NewCauchy(gen *rand.Generator, mu float64, sigma float64) (*Cauchy, error) {
	if gen == nil {
		return nil, errors.Errorf("No generator supplied for Cauchy(%f, %f)", mu, sigma)
	}
	if sigma <= 0.0 {
		return nil, errors.Errorf("Invalid Cauchy scale %f", sigma)
	}
	return &Cauchy{Mu: mu, Sigma: sigma, Gen: gen}, nil
}

// Rand returns a single variate via the probability-integral transform
func (d *Cauchy) Rand() float64 {
	return CauchyFromUniform(d.Gen.Float64OO(), d.Mu, d.Sigma)
}

// LogProb returns the log density at x
func (d *Cauchy) LogProb(x float64) float64 {
	z := NonCenter(d.Mu, d.Sigma, x)
	return -math.Log(math.Pi*d.Sigma) - math.Log1p(z*z)
}

// CDF returns P(X <= x)
func (d *Cauchy) CDF(x float64) float64 {
	z := NonCenter(d.Mu, d.Sigma, x)
	return 0.5 + math.Atan(z)/math.Pi
}

// Quantile returns the inverse CDF at p
func (d *Cauchy) Quantile(p float64) float64 {
	return CauchyFromUniform(p, d.Mu, d.Sigma)
}

// HalfCauchy is the Cauchy(0, Sigma) distribution folded onto the
// non-negative reals - the standard weakly-informative scale prior.
type HalfCauchy struct {
	Sigma float64
	Gen   *rand.Generator
}

// NewHalfCauchy validates params and returns a ready distribution
func NewHalfCauchy(gen *rand.Generator, sigma float64) (*HalfCauchy, error) {
	if gen == nil {
		return nil, errors.Errorf("No generator supplied for HalfCauchy(%f)", sigma)
	}
	if sigma <= 0.0 {
		return nil, errors.Errorf("Invalid HalfCauchy scale %f", sigma)
	}
	return &HalfCauchy{Sigma: sigma, Gen: gen}, nil
}

// Rand returns a single variate via the probability-integral transform
func (d *HalfCauchy) Rand() float64 {
	return HalfCauchyFromUniform(d.Gen.Float64OO(), d.Sigma)
}

// LogProb returns the log density at x
func (d *HalfCauchy) LogProb(x float64) float64 {
	if x < 0.0 {
		return math.Inf(-1)
	}
	z := x / d.Sigma
	return math.Log(2.0) - math.Log(math.Pi*d.Sigma) - math.Log1p(z*z)
}

// CDF returns P(X <= x)
func (d *HalfCauchy) CDF(x float64) float64 {
	if x < 0.0 {
		return 0.0
	}
	return 2.0 * math.Atan(x/d.Sigma) / math.Pi
}

// Quantile returns the inverse CDF at p
func (d *HalfCauchy) Quantile(p float64) float64 {
	return HalfCauchyFromUniform(p, d.Sigma)
}

// StudentT is the Student-T distribution with Nu degrees of freedom,
// location Mu, and scale Sigma. No closed-form CDF, so it is a Dist but not
// a Quantiler: use the gonum reference distribution when you need the CDF.
type StudentT struct {
	Nu    float64
	Mu    float64
	Sigma float64
	Gen   *rand.Generator
}

// NewStudentT validates params and returns a ready distribution
func NewStudentT(gen *rand.Generator, nu float64, mu float64, sigma float64) (*StudentT, error) {
	if gen == nil {
		return nil, errors.Errorf("No generator supplied for StudentT(%f, %f, %f)", nu, mu, sigma)
	}
	if nu <= 0.0 {
		return nil, errors.Errorf("Invalid StudentT degrees of freedom %f", nu)
	}
	if sigma <= 0.0 {
		return nil, errors.Errorf("Invalid StudentT scale %f", sigma)
	}
	return &StudentT{Nu: nu, Mu: mu, Sigma: sigma, Gen: gen}, nil
}

// Rand returns a single variate via the scale-mixture representation: a
// standard normal divided by the root of a Gamma(Nu/2, Nu/2) precision.
func (d *StudentT) Rand() float64 {
	z := d.Gen.NormFloat64()
	tau := d.Gen.GammaFloat64(d.Nu/2.0) / (d.Nu / 2.0)
	return StudentTFromNormalGamma(z, tau, d.Mu, d.Sigma)
}

// LogProb returns the log density at x
func (d *StudentT) LogProb(x float64) float64 {
	z := NonCenter(d.Mu, d.Sigma, x)

	lgNum, _ := math.Lgamma((d.Nu + 1.0) / 2.0)
	lgDen, _ := math.Lgamma(d.Nu / 2.0)

	return lgNum - lgDen -
		0.5*math.Log(d.Nu*math.Pi) - math.Log(d.Sigma) -
		(d.Nu+1.0)/2.0*math.Log1p(z*z/d.Nu)
}

// Lognormal is the distribution of exp(Normal(Mu, Sigma)).
type Lognormal struct {
	Mu    float64
	Sigma float64
	Gen   *rand.Generator
}

// NewLognormal validates params and returns a ready distribution
func NewLognormal(gen *rand.Generator, mu float64, sigma float64) (*Lognormal, error) {
	if gen == nil {
		return nil, errors.Errorf("No generator supplied for Lognormal(%f, %f)", mu, sigma)
	}
	if sigma <= 0.0 {
		return nil, errors.Errorf("Invalid Lognormal scale %f", sigma)
	}
	return &Lognormal{Mu: mu, Sigma: sigma, Gen: gen}, nil
}

// Rand returns a single variate by exponentiating a normal variate
func (d *Lognormal) Rand() float64 {
	return LognormalFromNormal(d.Gen.NormFloat64(), d.Mu, d.Sigma)
}

// LogProb returns the log density at x
func (d *Lognormal) LogProb(x float64) float64 {
	if x <= 0.0 {
		return math.Inf(-1)
	}
	z := NonCenter(d.Mu, d.Sigma, math.Log(x))
	return -0.5*z*z - math.Log(x*d.Sigma) - 0.5*logTwoPi
}

// CDF returns P(X <= x)
func (d *Lognormal) CDF(x float64) float64 {
	if x <= 0.0 {
		return 0.0
	}
	z := NonCenter(d.Mu, d.Sigma, math.Log(x))
	return 0.5 * math.Erfc(-z/sqrtTwo)
}

// Quantile returns the inverse CDF at p
func (d *Lognormal) Quantile(p float64) float64 {
	return LognormalFromNormal(sqrtTwo*math.Erfinv(2.0*p-1.0), d.Mu, d.Sigma)
}

// Pareto is the Pareto distribution with minimum Xm and tail index Alpha.
type Pareto struct {
	Xm    float64
	Alpha float64
	Gen   *rand.Generator
}

// NewPareto validates params and returns a ready distribution
func NewPareto(gen *rand.Generator, xm float64, alpha float64) (*Pareto, error) {
	if gen == nil {
		return nil, errors.Errorf("No generator supplied for Pareto(%f, %f)", xm, alpha)
	}
	if xm <= 0.0 {
		return nil, errors.Errorf("Invalid Pareto minimum %f", xm)
	}
	if alpha <= 0.0 {
		return nil, errors.Errorf("Invalid Pareto tail index %f", alpha)
	}
	return &Pareto{Xm: xm, Alpha: alpha, Gen: gen}, nil
}

// Rand returns a single variate via the probability-integral transform
func (d *Pareto) Rand() float64 {
	return ParetoFromUniform(d.Gen.Float64OO(), d.Xm, d.Alpha)
}

// LogProb returns the log density at x
func (d *Pareto) LogProb(x float64) float64 {
	if x < d.Xm {
		return math.Inf(-1)
	}
	return math.Log(d.Alpha) + d.Alpha*math.Log(d.Xm) - (d.Alpha+1.0)*math.Log(x)
}

// CDF returns P(X <= x)
func (d *Pareto) CDF(x float64) float64 {
	if x < d.Xm {
		return 0.0
	}
	return 1.0 - math.Pow(d.Xm/x, d.Alpha)
}

// Quantile returns the inverse CDF at p
func (d *Pareto) Quantile(p float64) float64 {
	return ParetoFromUniform(p, d.Xm, d.Alpha)
}

// Gamma is the Gamma(Shape, Rate) distribution. Like StudentT, no
// closed-form CDF.
type Gamma struct {
	Shape float64
	Rate  float64
	Gen   *rand.Generator
}

// NewGamma validates params and returns a ready distribution
func NewGamma(gen *rand.Generator, shape float64, rate float64) (*Gamma, error) {
	if gen == nil {
		return nil, errors.Errorf("No generator supplied for Gamma(%f, %f)", shape, rate)
	}
	if shape <= 0.0 {
		return nil, errors.Errorf("Invalid Gamma shape %f", shape)
	}
	if rate <= 0.0 {
		return nil, errors.Errorf("Invalid Gamma rate %f", rate)
	}
	return &Gamma{Shape: shape, Rate: rate, Gen: gen}, nil
}

// Rand returns a single variate
func (d *Gamma) Rand() float64 {
	return d.Gen.GammaFloat64(d.Shape) / d.Rate
}

// LogProb returns the log density at x
func (d *Gamma) LogProb(x float64) float64 {
	if x <= 0.0 {
		return math.Inf(-1)
	}
	lg, _ := math.Lgamma(d.Shape)
	return d.Shape*math.Log(d.Rate) - lg +
		(d.Shape-1.0)*math.Log(x) - d.Rate*x
}
