package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldReader(t *testing.T) {
	assert := assert.New(t)

	fr := NewFieldReader("  3 hello\n1.5 \t 2.5  ")

	i, err := fr.ReadInt()
	assert.NoError(err)
	assert.Equal(3, i)

	s, err := fr.Read()
	assert.NoError(err)
	assert.Equal("hello", s)

	fs, err := fr.ReadFloats(2)
	assert.NoError(err)
	assert.Equal([]float64{1.5, 2.5}, fs)

	_, err = fr.Read()
	assert.Error(err)
	_, err = fr.ReadFloats(1)
	assert.Error(err)
}

func TestFieldReaderBadTokens(t *testing.T) {
	assert := assert.New(t)

	fr := NewFieldReader("bogus")
	_, err := fr.ReadInt()
	assert.Error(err)

	fr = NewFieldReader("bogus")
	_, err = fr.ReadFloat()
	assert.Error(err)
}
