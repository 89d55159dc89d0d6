package model

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Histogram is a fixed-range, equal-width binning of float64 samples.
// Observations outside the range are clamped into the end bins so that
// heavy-tailed samples still produce comparable histograms.
type Histogram struct {
	Lo     float64   // Low edge of the binned range
	Hi     float64   // High edge of the binned range
	Counts []float64 // Per-bin counts
	Total  int64     // Total observations (including clamped ones)
}

// NewHistogram creates an empty histogram over [lo, hi) with the given bin count
func NewHistogram(lo float64, hi float64, bins int) (*Histogram, error) {
	if hi <= lo {
		return nil, errors.Errorf("Invalid histogram range [%f, %f)", lo, hi)
	}
	if bins < 2 {
		return nil, errors.Errorf("Invalid histogram bin count %d", bins)
	}

	return &Histogram{
		Lo:     lo,
		Hi:     hi,
		Counts: make([]float64, bins),
	}, nil
}

// Observe adds a single sample to the histogram
func (h *Histogram) Observe(x float64) {
	bins := len(h.Counts)

	idx := int(float64(bins) * (x - h.Lo) / (h.Hi - h.Lo))
	if idx < 0 {
		idx = 0
	}
	if idx >= bins {
		idx = bins - 1
	}

	h.Counts[idx]++
	h.Total++
}

// ObserveAll adds every sample in the slice
func (h *Histogram) ObserveAll(xs []float64) {
	for _, x := range xs {
		h.Observe(x)
	}
}

// ErrorSuite represents all the loss/error functions we use to compare two
// binned sample sets (or a binned sample set against binned reference
// draws).
type ErrorSuite struct {
	MeanAbsError float64
	MaxAbsError  float64
	Hellinger    float64
	JSDiverge    float64
}

// NewErrorSuite returns an ErrorSuite with all calculated error functions
func NewErrorSuite(h1 *Histogram, h2 *Histogram) (*ErrorSuite, error) {
	if h1 == nil || h2 == nil {
		return nil, errors.Errorf("Two histograms required")
	}
	if len(h1.Counts) != len(h2.Counts) {
		return nil, errors.Errorf("Histogram bin mismatch %d != %d", len(h1.Counts), len(h2.Counts))
	}
	if h1.Total < 1 || h2.Total < 1 {
		return nil, errors.Errorf("Can not score empty histograms")
	}

	es := ErrorSuite{
		MeanAbsError: MeanAbsDiff(h1.Counts, h2.Counts),
		MaxAbsError:  MaxAbsDiff(h1.Counts, h2.Counts),
		Hellinger:    HellingerDiff(h1.Counts, h2.Counts),
		JSDiverge:    JSDivergence(h1.Counts, h2.Counts),
	}

	return &es, nil
}

const normEps = 1e-12

// normTotals returns the two count totals floored away from zero
func normTotals(c1 []float64, c2 []float64) (tot1 float64, tot2 float64) {
	for i := range c1 {
		tot1 += c1[i]
		tot2 += c2[i]
	}
	if tot1 < normEps {
		tot1 = normEps
	}
	if tot2 < normEps {
		tot2 = normEps
	}
	return
}

// MaxAbsDiff returns the maximum difference found between the two binned dists
func MaxAbsDiff(c1 []float64, c2 []float64) float64 {
	tot1, tot2 := normTotals(c1, c2)

	maxErr := 0.0
	for i := range c1 {
		err := math.Abs(c1[i]/tot1 - c2[i]/tot2)
		if err > maxErr {
			maxErr = err
		}
	}

	return maxErr
}

// MeanAbsDiff returns the mean of the differences found between the two binned dists
func MeanAbsDiff(c1 []float64, c2 []float64) float64 {
	if len(c1) < 1 {
		return 0
	}

	tot1, tot2 := normTotals(c1, c2)

	errSum := 0.0
	for i := range c1 {
		errSum += math.Abs(c1[i]/tot1 - c2[i]/tot2)
	}

	return errSum / float64(len(c1))
}

// HellingerDiff returns the Hellinger error between two binned dists. The
// counts do not need to be normalized.
func HellingerDiff(c1 []float64, c2 []float64) float64 {
	tot1, tot2 := normTotals(c1, c2)

	// Hellinger distance is similar to the Euclidean L2:
	// sum((sqrt(p) - sqrt(q))**2) / sqrt(2)
	errSum := 0.0
	for i := range c1 {
		err := math.Sqrt(c1[i]/tot1) - math.Sqrt(c2[i]/tot2)
		errSum += err * err // squared, so always positive
	}
	return errSum / math.Sqrt2
}

// klDivergence returns the Kullback-Leibler divergence, which is
// non-symmetric! This is strictly a subroutine for JS Divergence, so there
// is no error checking, the bin values are operated on directly, and the
// arrays are assumed normalized (so sum(p1) == sum(p2) == 1.0). Zero bins
// contribute nothing.
// klDivergence(P, Q) <==> D_{KL}(P || Q)
func klDivergence(p1 []float64, p2 []float64) float64 {
	diverge := 0.0
	for i, p := range p1 {
		if p <= 0.0 {
			continue
		}
		diverge += p * math.Log2(p/p2[i])
	}

	return diverge
}

// JSDivergence returns the Jensen-Shannon divergence, which is a
// symmetric generalization of the KL divergence
func JSDivergence(c1 []float64, c2 []float64) float64 {
	tot1, tot2 := normTotals(c1, c2)

	p1Norm := make([]float64, len(c1))
	p2Norm := make([]float64, len(c1))
	mid := make([]float64, len(c1))
	for i := range c1 {
		p1Norm[i] = c1[i] / tot1
		p2Norm[i] = c2[i] / tot2
		mid[i] = (p1Norm[i] + p2Norm[i]) * 0.5
	}

	return 0.5 * (klDivergence(p1Norm, mid) + klDivergence(p2Norm, mid))
}

// KSStat returns the Kolmogorov-Smirnov statistic of a sample against an
// analytic CDF: the largest gap between the empirical and analytic
// distribution functions.
func KSStat(xs []float64, cdf func(float64) float64) (float64, error) {
	if len(xs) < 1 {
		return 0, errors.Errorf("Can not compute KS statistic on an empty sample")
	}

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

	return worst, nil
}
