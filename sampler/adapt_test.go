package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDualAverageCreateErrors(t *testing.T) {
	assert := assert.New(t)

	var err error

	_, err = NewDualAverage(0.0, 0.8)
	assert.Error(err)
	_, err = NewDualAverage(-1.0, 0.8)
	assert.Error(err)
	_, err = NewDualAverage(0.1, 0.0)
	assert.Error(err)
	_, err = NewDualAverage(0.1, 1.0)
	assert.Error(err)
}

func TestDualAverageDirection(t *testing.T) {
	assert := assert.New(t)

	// Always accepting means the step is too timid - it should grow
	up, err := NewDualAverage(0.1, 0.8)
	assert.NoError(err)
	for i := 0; i < 100; i++ {
		up.Update(1.0)
	}
	assert.Greater(up.Final(), 0.1)

	// Never accepting means the step is too bold - it should shrink
	down, err := NewDualAverage(0.1, 0.8)
	assert.NoError(err)
	for i := 0; i < 100; i++ {
		down.Update(0.0)
	}
	assert.Less(down.Final(), 0.1)
	assert.Greater(down.Final(), 0.0)
}

func TestDualAverageTracksTarget(t *testing.T) {
	assert := assert.New(t)

	// Fake a sampler whose acceptance falls as the step grows: accept
	// probability exp(-eps). Dual averaging should settle the step near
	// -log(target).
	da, err := NewDualAverage(1.0, 0.65)
	assert.NoError(err)

	eps := 1.0
	for i := 0; i < 2000; i++ {
		eps = da.Update(math.Exp(-eps))
	}

	assert.InDelta(-math.Log(0.65), da.Final(), 0.05)
}
