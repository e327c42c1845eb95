package bucket

import (
	"github.com/jsphweid/earworm/model"
	"github.com/jsphweid/earworm/util"
)

// Buckets maps floor(onset / window) to the pitches starting in that window.
// A pitch struck twice in one window appears twice.
type Buckets = map[int][]uint8

// Window is the polyphony window for a resolution: an eighth of a beat, which
// is about 60ms at 120 BPM. Resolutions below 8 fall back to one tick.
func Window(ticksPerBeat uint16) uint32 {
	return util.Max(uint32(ticksPerBeat)/8, 1)
}

func Group(starts []model.Event, window uint32) Buckets {
	res := make(Buckets)
	for _, e := range starts {
		b := int(e.Tick / window)
		res[b] = append(res[b], e.Pitch)
	}
	return res
}

// AvgPopulation is the mean number of notes per non-empty bucket.
func AvgPopulation(b Buckets) float64 {
	if len(b) == 0 {
		return 0
	}
	var total int
	for _, pitches := range b {
		total += len(pitches)
	}
	return float64(total) / float64(len(b))
}

// MaxSpan is the widest interval inside any bucket holding at least two
// notes.
func MaxSpan(b Buckets) int {
	var res int
	for _, pitches := range b {
		if len(pitches) < 2 {
			continue
		}
		lo, hi := pitches[0], pitches[0]
		for _, p := range pitches[1:] {
			lo = util.Min(lo, p)
			hi = util.Max(hi, p)
		}
		res = util.Max(res, int(hi-lo))
	}
	return res
}
