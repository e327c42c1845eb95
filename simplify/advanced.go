package simplify

import "github.com/jsphweid/earworm/model"

// AdvancedStrategy keeps the transcription's content and only cleans it up:
// note times snap to a fine grid and notes left too short to be intentional
// are removed.
type AdvancedStrategy struct {
	cfg AdvancedConfig
}

func NewAdvanced(cfg AdvancedConfig) (*AdvancedStrategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &AdvancedStrategy{cfg: cfg}, nil
}

func (a *AdvancedStrategy) Level() Level {
	return Advanced
}

func (a *AdvancedStrategy) Transform(s model.Stream) (model.Stream, error) {
	if err := s.Validate(); err != nil {
		return model.Stream{}, err
	}

	g := grid(s.TicksPerBeat, a.cfg.GridDivisor)
	minTicks := float64(a.cfg.MinNoteMillis) * 1000 * float64(s.TicksPerBeat) / float64(s.Tempo())

	out := model.Stream{TicksPerBeat: s.TicksPerBeat}
	for _, t := range s.Tracks {
		events := quantiseNotes(t.Events, g)
		drop := shortNotes(events, minTicks)

		kept := make([]model.Event, 0, len(events))
		for i, e := range events {
			if !drop[i] {
				kept = append(kept, e)
			}
		}
		out.Tracks = append(out.Tracks, model.Track{Events: kept, End: endOf(kept, t.End)})
	}
	return out, nil
}

type noteKey struct {
	channel, pitch uint8
}

// shortNotes marks the start and stop indices of every paired note lasting
// less than minTicks. events must be sorted by tick.
func shortNotes(events []model.Event, minTicks float64) map[int]bool {
	drop := make(map[int]bool)
	open := make(map[noteKey][]int)
	for i, e := range events {
		key := noteKey{e.Channel, e.Pitch}
		switch {
		case e.IsOnset():
			open[key] = append(open[key], i)
		case e.IsNote():
			if len(open[key]) == 0 {
				continue
			}
			start := open[key][0]
			open[key] = open[key][1:]
			if float64(e.Tick-events[start].Tick) < minTicks {
				drop[start] = true
				drop[i] = true
			}
		}
	}
	return drop
}
