// Package dist provides the closed-form reparameterization transforms used
// to turn easy-to-sample variates (uniform, normal, gamma, exponential) into
// heavy-tailed or constrained ones (Cauchy, Student-T, Lognormal, Pareto),
// plus distribution types wrapping each transform with its density, CDF, and
// quantile function where closed forms exist.
package dist

// A Sampler draws variates from a univariate distribution. The interface is
// compatible with gonum's distuv distributions.
type Sampler interface {
	Rand() float64
}

// A Dist is a distribution that can report its log density as well as sample.
type Dist interface {
	Sampler
	LogProb(x float64) float64
}

// A Quantiler is a distribution whose CDF has a closed-form inverse. Every
// Quantiler here satisfies Quantile(CDF(x)) == x on the support interior.
type Quantiler interface {
	CDF(x float64) float64
	Quantile(p float64) float64
}
