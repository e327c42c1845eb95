package metric

import (
	"math"

	"github.com/jsphweid/earworm/bucket"
	"github.com/jsphweid/earworm/model"
)

// MinDuration keeps notes per second finite for near-zero length input.
const MinDuration = 0.1

type Metrics struct {
	TotalNotes      int
	NotesPerSecond  float64
	AvgPolyphony    float64
	PitchRange      int
	MaxHandSpan     int
	DurationSeconds float64
}

// Empty is true for the zero value Extract returns on degenerate input.
func (m Metrics) Empty() bool {
	return m.TotalNotes == 0
}

// Extract computes density, polyphony, range and span statistics. A stream
// with no sounding notes or no duration yields the zero Metrics.
func Extract(s model.Stream) Metrics {
	starts := s.Starts()
	duration := s.Duration()
	if len(starts) == 0 || duration == 0 {
		return Metrics{}
	}

	lo, hi := starts[0].Pitch, starts[0].Pitch
	for _, e := range starts {
		if e.Pitch < lo {
			lo = e.Pitch
		}
		if e.Pitch > hi {
			hi = e.Pitch
		}
	}

	buckets := bucket.Group(starts, bucket.Window(s.TicksPerBeat))

	return Metrics{
		TotalNotes:      len(starts),
		NotesPerSecond:  float64(len(starts)) / math.Max(duration, MinDuration),
		AvgPolyphony:    bucket.AvgPopulation(buckets),
		PitchRange:      int(hi - lo),
		MaxHandSpan:     bucket.MaxSpan(buckets),
		DurationSeconds: duration,
	}
}
