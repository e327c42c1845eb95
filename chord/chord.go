package chord

import (
	"fmt"
	"strings"
)

// Voice records where a sounding pitch was started so a stop can be sent
// on the same channel.
type Voice struct {
	Channel uint8
}

// ActiveSet is the set of currently sounding pitches. Slots are indexed by
// pitch, so Lowest is a bounded scan.
type ActiveSet struct {
	active [128]bool
	voices [128]Voice
	size   int
}

func (s *ActiveSet) Add(pitch uint8, v Voice) {
	if !s.active[pitch] {
		s.active[pitch] = true
		s.size++
	}
	s.voices[pitch] = v
}

// Remove reports whether pitch was sounding.
func (s *ActiveSet) Remove(pitch uint8) (Voice, bool) {
	if !s.active[pitch] {
		return Voice{}, false
	}
	s.active[pitch] = false
	s.size--
	return s.voices[pitch], true
}

func (s *ActiveSet) Has(pitch uint8) bool {
	return s.active[pitch]
}

func (s *ActiveSet) Len() int {
	return s.size
}

func (s *ActiveSet) Lowest() (uint8, bool) {
	for p := 0; p < len(s.active); p++ {
		if s.active[p] {
			return uint8(p), true
		}
	}
	return 0, false
}

// Pitches lists the sounding pitches in ascending order.
func (s *ActiveSet) Pitches() []uint8 {
	res := make([]uint8, 0, s.size)
	for p := 0; p < len(s.active); p++ {
		if s.active[p] {
			res = append(res, uint8(p))
		}
	}
	return res
}

func (s *ActiveSet) String() string {
	return CreateChordKey(s.Pitches())
}

// CreateChordKey joins ascending pitches with dashes, e.g. "60-64-67".
func CreateChordKey(notes []uint8) string {
	parts := make([]string, len(notes))
	for i, note := range notes {
		parts[i] = fmt.Sprintf("%v", note)
	}
	return strings.Join(parts, "-")
}
