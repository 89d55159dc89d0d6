package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamCreate(t *testing.T) {
	assert := assert.New(t)

	_, err := NewParameter(-1, "nope")
	assert.Error(err)

	p, err := NewParameter(0, "")
	assert.NoError(err)
	assert.Equal("A", p.Name)
	assert.NoError(p.Check())

	p, err = NewParameter(1, "")
	assert.NoError(err)
	assert.Equal("B", p.Name)

	p, err = NewParameter(5, "tau")
	assert.NoError(err)
	assert.Equal("tau", p.Name)
}

func TestLetter26(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("A", letter26(0))
	assert.Equal("B", letter26(1))
	assert.Equal("Z", letter26(25))
	assert.Equal("AA", letter26(26))
	assert.Equal("AB", letter26(27))
}

func TestParamMoments(t *testing.T) {
	assert := assert.New(t)

	p, err := NewParameter(0, "x")
	assert.NoError(err)

	assert.Equal(0.0, p.Mean())
	assert.Equal(0.0, p.Variance())

	xs := []float64{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0}
	for _, x := range xs {
		p.Observe(x)
	}

	assert.Equal(int64(8), p.Count)
	assert.InDelta(5.0, p.Mean(), 1e-12)
	assert.InDelta(32.0/7.0, p.Variance(), 1e-12)
	assert.NoError(p.Check())
}

func TestParamMerge(t *testing.T) {
	assert := assert.New(t)

	full, err := NewParameter(0, "x")
	assert.NoError(err)
	left, err := NewParameter(0, "x")
	assert.NoError(err)
	right, err := NewParameter(0, "x")
	assert.NoError(err)

	xs := []float64{2.0, 4.0, 4.0, 4.0, 5.0, 5.0, 7.0, 9.0}
	for i, x := range xs {
		full.Observe(x)
		if i < 3 {
			left.Observe(x)
		} else {
			right.Observe(x)
		}
	}

	assert.NoError(left.Merge(right))
	assert.Equal(full.Count, left.Count)
	assert.InDelta(full.Mean(), left.Mean(), 1e-12)
	assert.InDelta(full.Variance(), left.Variance(), 1e-12)

	// Merging an empty param is a no-op
	empty, err := NewParameter(0, "x")
	assert.NoError(err)
	before := left.Mean()
	assert.NoError(left.Merge(empty))
	assert.InDelta(before, left.Mean(), 1e-12)

	// Merging INTO an empty param copies
	empty2, err := NewParameter(0, "x")
	assert.NoError(err)
	assert.NoError(empty2.Merge(full))
	assert.InDelta(full.Mean(), empty2.Mean(), 1e-12)
	assert.InDelta(full.Variance(), empty2.Variance(), 1e-12)

	// ID mismatch is an error
	other, err := NewParameter(1, "y")
	assert.NoError(err)
	assert.Error(left.Merge(other))
}

func TestParamClone(t *testing.T) {
	assert := assert.New(t)

	p, err := NewParameter(0, "x")
	assert.NoError(err)
	p.Observe(1.0)
	p.Observe(3.0)
	p.State["accept"] = 0.5

	cp := p.Clone()
	assert.Equal(p.Count, cp.Count)
	assert.InDelta(p.Mean(), cp.Mean(), 1e-12)
	assert.Equal(0.5, cp.State["accept"])

	// Clone state is independent
	cp.Observe(100.0)
	cp.State["accept"] = 0.9
	assert.Equal(int64(2), p.Count)
	assert.Equal(0.5, p.State["accept"])
}
