package rand

import (
	"math"

	"github.com/seehuhn/mt19937"
	exprand "golang.org/x/exp/rand"
)

var _ exprand.Source = (*Generator)(nil)

// A Generator uses a goroutine to populate batches of random numbers from a
// seeded Mersenne twister. A Generator also satisfies the Source interface
// from golang.org/x/exp/rand, so it can drive gonum distuv distributions.
type Generator struct {
	ch chan int64

	// Cached second variate from the polar normal method
	haveSpare bool
	spare     float64
}

// NewGenerator starts a new background PRNG based on the given seed
func NewGenerator(seed int64) (*Generator, error) {
	numChan := make(chan int64, 1024)

	go func() {
		r := mt19937.New()
		r.Seed(seed)
		for {
			numChan <- r.Int63()
		}
	}()

	g := &Generator{
		ch: numChan,
	}

	return g, nil
}

// Int63 provides the same interface as Go's math/rand, but with pre-generation.
func (g *Generator) Int63() int64 {
	return <-g.ch
}

// Int63n is a copy of the current Go code
func (g *Generator) Int63n(n int64) int64 {
	if n <= 0 {
		panic("invalid argument to Int63n")
	}

	if n&(n-1) == 0 { // n is power of two, can mask
		return g.Int63() & (n - 1)
	}

	max := int64((1 << 63) - 1 - (1<<63)%uint64(n))
	v := g.Int63()
	for v > max {
		v = g.Int63()
	}

	return v % n
}

// Int31 is just a copy of the golang impl
func (g *Generator) Int31() int32 {
	return int32(g.Int63() >> 32)
}

// Int31n is just a copy of the golang impL
func (g *Generator) Int31n(n int32) int32 {
	if n <= 0 {
		panic("invalid argument to Int31n")
	}

	if n&(n-1) == 0 { // n is power of two, can mask
		return g.Int31() & (n - 1)
	}

	max := int32((1 << 31) - 1 - (1<<31)%uint32(n))
	v := g.Int31()

	for v > max {
		v = g.Int31()
	}

	return v % n
}

// Uint64 composes two pre-generated 63-bit values into a full 64-bit value.
// This is the generation half of the golang.org/x/exp/rand Source interface.
func (g *Generator) Uint64() uint64 {
	return uint64(g.Int63())>>31 | uint64(g.Int63())<<32
}

// Seed is required by the golang.org/x/exp/rand Source interface. A
// Generator may only be seeded at construction, so this always panics.
func (g *Generator) Seed(seed uint64) {
	panic("Generator must be seeded via NewGenerator")
}

// Float64 uses the commented, simpler implmentation since we don't have the
// same support requirements for users
func (g *Generator) Float64() float64 {
	// See the Go lang comments for Rand Float64 implementation for details
	return float64(g.Int63n(1<<53)) / (1 << 53)
}

// Float64OO returns a variate from the OPEN interval (0, 1). Inverse-CDF
// transforms require u strictly inside the unit interval: u=0 or u=1 would
// map to a support endpoint or an infinity.
func (g *Generator) Float64OO() float64 {
	for {
		u := g.Float64()
		if u > 0.0 && u < 1.0 {
			return u
		}
	}
}

// NormFloat64 returns a standard normal variate via the polar method. The
// method produces variates in pairs, so the second is cached for the next
// call.
func (g *Generator) NormFloat64() float64 {
	if g.haveSpare {
		g.haveSpare = false
		return g.spare
	}

	for {
		u := 2.0*g.Float64() - 1.0
		v := 2.0*g.Float64() - 1.0
		s := u*u + v*v
		if s >= 1.0 || s == 0.0 {
			continue
		}

		f := math.Sqrt(-2.0 * math.Log(s) / s)
		g.spare = v * f
		g.haveSpare = true
		return u * f
	}
}

// ExpFloat64 returns a standard (rate 1) exponential variate by inverting
// the exponential CDF on an open-interval uniform.
func (g *Generator) ExpFloat64() float64 {
	return -math.Log(g.Float64OO())
}

// GammaFloat64 returns a standard (rate 1) gamma variate with the given
// shape using the Marsaglia-Tsang method. Shapes below 1 are handled with
// the usual boost: G(a) = G(a+1) * U^(1/a). Panics on shape <= 0 to match
// the contract of the other panicking variate methods.
func (g *Generator) GammaFloat64(shape float64) float64 {
	if shape <= 0.0 {
		panic("invalid shape for GammaFloat64")
	}

	if shape < 1.0 {
		u := g.Float64OO()
		return g.GammaFloat64(shape+1.0) * math.Pow(u, 1.0/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)

	for {
		var x, v float64
		for {
			x = g.NormFloat64()
			v = 1.0 + c*x
			if v > 0.0 {
				break
			}
		}
		v = v * v * v

		u := g.Float64OO()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}
}
