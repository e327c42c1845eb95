package simplify

import (
	"fmt"

	"github.com/jsphweid/earworm/model"
	"github.com/jsphweid/earworm/util"
)

// BeginnerStrategy reduces the stream to a single melodic line on a coarse
// grid: the highest note starting in each slot, held until the next one,
// with the tempo slowed down.
type BeginnerStrategy struct {
	cfg BeginnerConfig
}

func NewBeginner(cfg BeginnerConfig) (*BeginnerStrategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BeginnerStrategy{cfg: cfg}, nil
}

func (b *BeginnerStrategy) Level() Level {
	return Beginner
}

func (b *BeginnerStrategy) Transform(s model.Stream) (model.Stream, error) {
	if err := s.Validate(); err != nil {
		return model.Stream{}, err
	}

	tempo := uint64(float64(s.Tempo()) * b.cfg.TempoScale)
	if tempo == 0 || tempo > uint64(model.MaxTempo) {
		return model.Stream{}, fmt.Errorf("%w: scaled tempo %v out of range", ErrInvalidParameter, tempo)
	}

	g := grid(s.TicksPerBeat, b.cfg.GridDivisor)

	// flatten every track, then group by grid slot
	var notes []model.Event
	for _, t := range s.Tracks {
		for _, e := range t.Events {
			if e.IsNote() {
				notes = append(notes, e)
			}
		}
	}
	slots := make(map[uint32][]model.Event)
	for _, e := range model.SortedByTick(notes) {
		q := util.Quantise(e.Tick, g)
		slots[q] = append(slots[q], e)
	}

	var melody []model.Event
	var current model.Event
	var sounding bool
	for _, q := range util.SortedKeys(slots) {
		highest, ok := highestStart(slots[q])
		if !ok {
			continue
		}
		if sounding {
			melody = append(melody, model.Event{Tick: q, Kind: model.NoteStop, Channel: current.Channel, Pitch: current.Pitch})
		}
		current = model.Event{
			Tick:     q,
			Kind:     model.NoteStart,
			Channel:  highest.Channel,
			Pitch:    highest.Pitch,
			Velocity: util.Min(highest.Velocity, b.cfg.MaxVelocity),
		}
		melody = append(melody, current)
		sounding = true
	}
	if sounding {
		melody = append(melody, model.Event{Tick: current.Tick + g, Kind: model.NoteStop, Channel: current.Channel, Pitch: current.Pitch})
	}

	tempoTrack := model.Track{Events: []model.Event{{Kind: model.Tempo, TempoMicros: uint32(tempo)}}}
	return model.Stream{
		TicksPerBeat: s.TicksPerBeat,
		Tracks:       []model.Track{tempoTrack, {Events: melody, End: endOf(melody, 0)}},
	}, nil
}

// highestStart picks the highest sounding start. On equal pitch the earliest
// wins.
func highestStart(events []model.Event) (model.Event, bool) {
	var best model.Event
	var found bool
	for _, e := range events {
		if e.IsOnset() && (!found || e.Pitch > best.Pitch) {
			best = e
			found = true
		}
	}
	return best, found
}
