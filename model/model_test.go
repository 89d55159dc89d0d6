package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewModel(t *testing.T) {
	assert := assert.New(t)

	_, err := NewModel("nothing", nil)
	assert.Error(err)

	f, err := NewFunnel(2, false)
	assert.NoError(err)

	m, err := NewModel("funnel", f)
	assert.NoError(err)
	assert.Equal(3, len(m.Params))
	assert.Equal("v", m.Params[0].Name)
	assert.Equal("x0", m.Params[1].Name)
	assert.NoError(m.Check())
}

func TestModelClone(t *testing.T) {
	assert := assert.New(t)

	m, err := NewModel("schools", NewEightSchools(true))
	assert.NoError(err)

	m.Params[0].Observe(1.0)

	cp := m.Clone()
	assert.Equal(m.Name, cp.Name)
	assert.NoError(cp.Check())

	cp.Params[0].Observe(100.0)
	assert.Equal(int64(1), m.Params[0].Count)
	assert.Equal(int64(2), cp.Params[0].Count)

	// Targets are shared - they are stateless
	assert.Equal(m.Target, cp.Target)
}

func TestModelCheckCatchesDupIDs(t *testing.T) {
	assert := assert.New(t)

	f, err := NewFunnel(1, false)
	assert.NoError(err)

	m, err := NewModel("funnel", f)
	assert.NoError(err)

	m.Params[1].ID = 0
	assert.Error(m.Check())
}
