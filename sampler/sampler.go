package sampler

// A Sampler advances a position in a target's coordinate space. Sample
// updates x in place when the proposal is accepted and reports whether it
// did so.
type Sampler interface {
	Sample(x []float64) (bool, error)
}

// Adaptable is implemented by samplers whose step size can be tuned during
// burn-in.
type Adaptable interface {
	AcceptProb() float64
	SetStepSize(eps float64)
}

// DivergenceCounter is implemented by samplers that can detect numerical
// divergences (currently just HMC).
type DivergenceCounter interface {
	Divergences() int64
}
