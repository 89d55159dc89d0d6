package dist

import "math"

// The transforms below are all stateless closed forms. Parameters are
// assumed valid (scales, rates, and shapes positive) - validation lives on
// the distribution types that wrap these for sampling.

// CauchyFromUniform maps a variate u from the open unit interval to a
// Cauchy(mu, sigma) variate via the probability-integral transform: the
// Cauchy quantile function is mu + sigma*tan(pi*(u - 1/2)).
func CauchyFromUniform(u float64, mu float64, sigma float64) float64 {
	return mu + sigma*math.Tan(math.Pi*(u-0.5))
}

// HalfCauchyFromUniform maps a variate u from the open unit interval to a
// half-Cauchy(sigma) variate: sigma*tan(pi*u/2).
func HalfCauchyFromUniform(u float64, sigma float64) float64 {
	return sigma * math.Tan(math.Pi*u/2.0)
}

// CauchyFromNormals maps two independent standard normal variates to a
// Cauchy(mu, sigma) variate: the ratio of independent standard normals is
// standard Cauchy. The z2==0 case has probability zero but maps to the
// matching infinity rather than NaN.
func CauchyFromNormals(z1 float64, z2 float64, mu float64, sigma float64) float64 {
	if z2 == 0.0 {
		return mu + sigma*math.Inf(sign(z1))
	}
	return mu + sigma*z1/z2
}

// CauchyFromNormalGamma is the scale-mixture representation of the Cauchy: a
// Cauchy is a Student-T with one degree of freedom, so z standard normal and
// precision tau ~ Gamma(1/2, 1/2) give mu + sigma*z/sqrt(tau).
func CauchyFromNormalGamma(z float64, tau float64, mu float64, sigma float64) float64 {
	return StudentTFromNormalGamma(z, tau, mu, sigma)
}

// StudentTFromNormalGamma is the scale-mixture representation of the
// Student-T with nu degrees of freedom: z standard normal and precision
// tau ~ Gamma(nu/2, nu/2) (shape, rate) give mu + sigma*z/sqrt(tau). The
// degrees of freedom enter only through how tau is drawn.
func StudentTFromNormalGamma(z float64, tau float64, mu float64, sigma float64) float64 {
	return mu + sigma*z/math.Sqrt(tau)
}

// LognormalFromNormal maps a standard normal variate to a
// Lognormal(mu, sigma) variate: exp(mu + sigma*z).
func LognormalFromNormal(z float64, mu float64, sigma float64) float64 {
	return math.Exp(mu + sigma*z)
}

// ExponentialFromUniform maps a variate u from the open unit interval to an
// Exponential(rate) variate by inverting the CDF: -log(1-u)/rate.
func ExponentialFromUniform(u float64, rate float64) float64 {
	return -math.Log1p(-u) / rate
}

// ParetoFromUniform maps a variate u from the open unit interval to a
// Pareto(xm, alpha) variate by inverting the CDF: xm*(1-u)^(-1/alpha).
func ParetoFromUniform(u float64, xm float64, alpha float64) float64 {
	return xm * math.Pow(1.0-u, -1.0/alpha)
}

// ParetoFromExponential maps a standard exponential variate y to a
// Pareto(xm, alpha) variate: xm*exp(y/alpha). A Pareto is a log-transformed
// shifted exponential.
func ParetoFromExponential(y float64, xm float64, alpha float64) float64 {
	return xm * math.Exp(y/alpha)
}

// NonCenter maps a Normal(mu, sigma) variate x to its standard normal
// coordinate z = (x-mu)/sigma. This is the location-scale identity behind
// non-centered parameterizations of hierarchical models.
func NonCenter(mu float64, sigma float64, x float64) float64 {
	return (x - mu) / sigma
}

// Center is the inverse of NonCenter: x = mu + sigma*z.
func Center(mu float64, sigma float64, z float64) float64 {
	return mu + sigma*z
}

func sign(x float64) int {
	if x < 0.0 {
		return -1
	}
	return 1
}
