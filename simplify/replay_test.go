package simplify

import (
	"sort"

	"github.com/jsphweid/earworm/model"
)

type flatEvent struct {
	track int
	model.Event
}

// timeline merges the tracks of s by tick, keeping track order on ties.
func timeline(s model.Stream) []flatEvent {
	var res []flatEvent
	for i, t := range s.Tracks {
		for _, e := range model.SortedByTick(t.Events) {
			res = append(res, flatEvent{i, e})
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Tick < res[j].Tick
	})
	return res
}

// maxActive replays each track of s and reports the largest number of
// distinct pitches sounding at once on any one of them.
func maxActive(s model.Stream) int {
	var res int
	for _, t := range s.Tracks {
		active := make(map[uint8]bool)
		for _, e := range model.SortedByTick(t.Events) {
			switch {
			case e.IsOnset():
				active[e.Pitch] = true
			case e.IsNote():
				delete(active, e.Pitch)
			}
			if len(active) > res {
				res = len(active)
			}
		}
	}
	return res
}

func startPitches(s model.Stream) []uint8 {
	var res []uint8
	for _, e := range timeline(s) {
		if e.IsOnset() {
			res = append(res, e.Pitch)
		}
	}
	return res
}

func mustStrategy(level Level) Strategy {
	s, err := New(level, DefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}
