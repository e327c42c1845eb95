package simplify

import (
	"github.com/jsphweid/earworm/chord"
	"github.com/jsphweid/earworm/model"
)

// IntermediateStrategy bounds polyphony and drops quiet notes. When a new
// note arrives at a full set it replaces the lowest sounding pitch if it is
// higher, otherwise the new note is dropped. Dropped notes are never
// deferred. Each track is replayed on its own.
type IntermediateStrategy struct {
	cfg IntermediateConfig
}

func NewIntermediate(cfg IntermediateConfig) (*IntermediateStrategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &IntermediateStrategy{cfg: cfg}, nil
}

func (m *IntermediateStrategy) Level() Level {
	return Intermediate
}

func (m *IntermediateStrategy) Transform(s model.Stream) (model.Stream, error) {
	if err := s.Validate(); err != nil {
		return model.Stream{}, err
	}

	g := grid(s.TicksPerBeat, m.cfg.GridDivisor)

	out := model.Stream{TicksPerBeat: s.TicksPerBeat, Tracks: make([]model.Track, len(s.Tracks))}
	for i, t := range s.Tracks {
		events := m.replay(quantiseNotes(t.Events, g))
		out.Tracks[i] = model.Track{Events: events, End: endOf(events, t.End)}
	}
	return out, nil
}

// replay walks events in tick order. Stops synthesised for evicted notes
// come right before the start that evicted them.
func (m *IntermediateStrategy) replay(events []model.Event) []model.Event {
	var active chord.ActiveSet
	res := make([]model.Event, 0, len(events))
	for _, e := range events {
		switch {
		case !e.IsNote():
			res = append(res, e)

		case e.IsOnset():
			if e.Velocity < m.cfg.MinVelocity {
				continue
			}
			if active.Len() >= m.cfg.MaxPolyphony {
				lowest, _ := active.Lowest()
				if e.Pitch <= lowest {
					continue
				}
				evicted, _ := active.Remove(lowest)
				res = append(res, model.Event{Tick: e.Tick, Kind: model.NoteStop, Channel: evicted.Channel, Pitch: lowest})
			}
			active.Add(e.Pitch, chord.Voice{Channel: e.Channel})
			res = append(res, e)

		default:
			if _, ok := active.Remove(e.Pitch); ok {
				res = append(res, e)
			}
		}
	}
	return res
}
