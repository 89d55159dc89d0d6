package model

import (
	"math"

	"github.com/pkg/errors"
)

// Parameter represents a single tracked coordinate of a target density. It
// accumulates running posterior moments (Welford) on the natural scale.
type Parameter struct {
	ID    int                // A numeric ID for tracking a parameter
	Name  string             // Parameter name (defaults to a letter scheme)
	Count int64              // Number of samples observed
	State map[string]float64 // State/stats a sampler can track - mainly for JSON tracking

	mean float64
	m2   float64
}

// NewParameter is our standard way to create a parameter from an index and
// an optional name. An empty name gets the default letter scheme.
func NewParameter(index int, name string) (*Parameter, error) {
	if index < 0 {
		return nil, errors.Errorf("Invalid index %d for parameter %s", index, name)
	}

	p := &Parameter{
		ID:    index,
		Name:  name,
		State: make(map[string]float64),
	}

	if p.Name == "" {
		p.Name = letter26(index)
	}

	return p, nil
}

// Clone returns a deep copy of the parameter, moments and state included.
func (p *Parameter) Clone() *Parameter {
	cp := &Parameter{
		ID:    p.ID,
		Name:  p.Name,
		Count: p.Count,
		State: make(map[string]float64),
		mean:  p.mean,
		m2:    p.m2,
	}

	for ky, val := range p.State {
		cp.State[ky] = val
	}

	return cp
}

// Check returns an error if any problem is found
func (p *Parameter) Check() error {
	if p.ID < 0 {
		return errors.Errorf("Parameter %s has invalid ID %d", p.Name, p.ID)
	}
	if p.Name == "" {
		return errors.Errorf("Parameter %d has no name", p.ID)
	}
	if p.Count < 0 {
		return errors.Errorf("Parameter %s has negative count %d", p.Name, p.Count)
	}
	if math.IsNaN(p.mean) || math.IsNaN(p.m2) || p.m2 < 0.0 {
		return errors.Errorf("Parameter %s has corrupt moments (mean=%f, m2=%f)", p.Name, p.mean, p.m2)
	}
	return nil
}

// Observe updates the running moments with a single sample
func (p *Parameter) Observe(x float64) {
	p.Count++
	delta := x - p.mean
	p.mean += delta / float64(p.Count)
	p.m2 += delta * (x - p.mean)
}

// Mean returns the running sample mean
func (p *Parameter) Mean() float64 {
	return p.mean
}

// Variance returns the running unbiased sample variance
func (p *Parameter) Variance() float64 {
	if p.Count < 2 {
		return 0.0
	}
	return p.m2 / float64(p.Count-1)
}

// SD returns the running sample standard deviation
func (p *Parameter) SD() float64 {
	return math.Sqrt(p.Variance())
}

// Merge pools the moments from another parameter into this one (the
// parallel Welford combination). The other parameter must track the same
// coordinate.
func (p *Parameter) Merge(o *Parameter) error {
	if p.ID != o.ID {
		return errors.Errorf("Can not merge param %s (ID %d) into %s (ID %d)", o.Name, o.ID, p.Name, p.ID)
	}

	if o.Count == 0 {
		return nil
	}
	if p.Count == 0 {
		p.Count = o.Count
		p.mean = o.mean
		p.m2 = o.m2
		return nil
	}

	nA := float64(p.Count)
	nB := float64(o.Count)
	n := nA + nB

	delta := o.mean - p.mean
	p.mean += delta * nB / n
	p.m2 += o.m2 + delta*delta*nA*nB/n
	p.Count += o.Count

	return nil
}

func divmod(numerator, denominator int) (quotient, remainder int) {
	quotient = numerator / denominator // integer division, decimals are truncated
	remainder = numerator % denominator
	return
}

// letter26 is sort of base-26 with only letters, but A=0 *and* the start digit (so 0=A, 1=B, and ZZ+1=AAA)
func letter26(n int) string {
	// Easy for n==0
	if n == 0 {
		return "A"
	}
	// Need to bump up one
	n++

	const LETTERS = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits := make([]byte, 0, 8)
	var remain int
	for n > 0 {
		n, remain = divmod(n-1, 26)
		digits = append(digits, LETTERS[remain])
	}

	//reverse
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	return string(digits)
}
