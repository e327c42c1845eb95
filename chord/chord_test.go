package chord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveSetTracksMembership(t *testing.T) {
	var s ActiveSet
	s.Add(64, Voice{})
	s.Add(60, Voice{Channel: 3})
	s.Add(64, Voice{})

	assert := assert.New(t)
	assert.Equal(2, s.Len())
	assert.True(s.Has(60))
	assert.False(s.Has(62))

	lowest, ok := s.Lowest()
	assert.True(ok)
	assert.Equal(uint8(60), lowest)

	v, ok := s.Remove(60)
	assert.True(ok)
	assert.Equal(Voice{Channel: 3}, v)

	_, ok = s.Remove(60)
	assert.False(ok)
	assert.Equal(1, s.Len())
}

func TestLowestOfEmptySet(t *testing.T) {
	var s ActiveSet
	_, ok := s.Lowest()
	assert.False(t, ok)
}

func TestActiveSetString(t *testing.T) {
	var s ActiveSet
	for _, p := range []uint8{67, 60, 64} {
		s.Add(p, Voice{})
	}
	assert.Equal(t, "60-64-67", s.String())
	assert.Equal(t, "", (&ActiveSet{}).String())
}

func TestExtremePitches(t *testing.T) {
	var s ActiveSet
	s.Add(127, Voice{})
	s.Add(0, Voice{})
	assert.Equal(t, []uint8{0, 127}, s.Pitches())
}
