package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularFloat(t *testing.T) {
	assert := assert.New(t)

	cf := NewCircularFloat(6)
	assert.Equal(6, cf.BufSize)
	assert.Equal(0, cf.Count)

	cf.Add(1)
	cf.Add(2)
	cf.Add(3)
	cf.Add(4)
	cf.Add(5)
	assert.Equal(6, cf.BufSize)
	assert.Equal(5, cf.Count)
	assert.False(cf.Full())
	assert.Nil(cf.FirstHalf())
	assert.Nil(cf.SecondHalf())

	cf.Add(6)
	assert.Equal(6, cf.BufSize)
	assert.Equal(6, cf.Count)
	assert.True(cf.Full())

	exp := 0.0
	for iter := cf.FirstHalf(); iter.Next(); {
		val := iter.Value()
		exp++
		assert.Equal(exp, val)
	}
	for iter := cf.SecondHalf(); iter.Next(); {
		val := iter.Value()
		exp++
		assert.Equal(exp, val)
	}

	// 1 2 3 4 5 6 add 8 add 8 => 8 8 3 4 5 6
	// So first=3,4,5 second=6,8,8
	cf.Add(8)
	cf.Add(8)
	expVals := []float64{3, 4, 5, 6, 8, 8}
	idx := 0
	for iter := cf.FirstHalf(); iter.Next(); {
		val := iter.Value()
		exp := expVals[idx]
		idx++
		assert.Equal(exp, val)
	}
	for iter := cf.SecondHalf(); iter.Next(); {
		val := iter.Value()
		exp := expVals[idx]
		idx++
		assert.Equal(exp, val)
	}
}

func TestCircularFloatOddSize(t *testing.T) {
	assert := assert.New(t)

	cf := NewCircularFloat(7)
	assert.Equal(6, cf.BufSize)
}

func TestIteratorStats(t *testing.T) {
	assert := assert.New(t)

	cf := NewCircularFloat(8)
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		cf.Add(x)
	}

	// First half is 2,4,4,4 - second half is 5,5,7,9
	mean, variance := cf.FirstHalf().Stats()
	assert.InDelta(3.5, mean, 1e-12)
	assert.InDelta(1.0, variance, 1e-12)

	mean, variance = cf.SecondHalf().Stats()
	assert.InDelta(6.5, mean, 1e-12)
	assert.InDelta(11.0/3.0, variance, 1e-12)
}
