package model

import (
	"fmt"
	"sort"
)

// DefaultTempo is 120 BPM expressed in microseconds per quarter note.
const DefaultTempo uint32 = 500000

// MaxTempo is the largest tempo a set-tempo event can carry (24 bits).
const MaxTempo uint32 = 1<<24 - 1

// Stream is a complete note event stream. Events inside a track need not be
// sorted; everything that iterates them sorts a copy by tick first.
type Stream struct {
	TicksPerBeat uint16
	Tracks       []Track
}

func (s Stream) Validate() error {
	if s.TicksPerBeat == 0 {
		return fmt.Errorf("%w: ticks per beat must be positive", ErrMalformedInput)
	}
	for i, t := range s.Tracks {
		for _, e := range t.Events {
			switch {
			case e.Channel > 15:
				return fmt.Errorf("%w: track %v has channel %v", ErrMalformedInput, i, e.Channel)
			case e.Pitch > 127:
				return fmt.Errorf("%w: track %v has pitch %v", ErrMalformedInput, i, e.Pitch)
			case e.Velocity > 127:
				return fmt.Errorf("%w: track %v has velocity %v", ErrMalformedInput, i, e.Velocity)
			case e.Kind == Tempo && (e.TempoMicros == 0 || e.TempoMicros > MaxTempo):
				return fmt.Errorf("%w: track %v has tempo %v", ErrMalformedInput, i, e.TempoMicros)
			}
		}
	}
	return nil
}

func (s Stream) Clone() Stream {
	res := Stream{TicksPerBeat: s.TicksPerBeat, Tracks: make([]Track, len(s.Tracks))}
	for i, t := range s.Tracks {
		res.Tracks[i] = t.Clone()
	}
	return res
}

// TempoChange is a tempo declaration in effect from Tick onwards.
type TempoChange struct {
	Tick   uint32
	Micros uint32
}

// TempoMap returns every tempo declaration of the stream ordered by tick.
// Ties keep track order.
func (s Stream) TempoMap() []TempoChange {
	var res []TempoChange
	for _, t := range s.Tracks {
		for _, e := range t.Events {
			if e.Kind == Tempo {
				res = append(res, TempoChange{Tick: e.Tick, Micros: e.TempoMicros})
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Tick < res[j].Tick
	})
	return res
}

// Tempo is the first declared tempo, or DefaultTempo if there is none.
func (s Stream) Tempo() uint32 {
	changes := s.TempoMap()
	if len(changes) == 0 {
		return DefaultTempo
	}
	return changes[0].Micros
}

// Seconds converts an absolute tick to wall-clock seconds, honouring every
// tempo change before it.
func (s Stream) Seconds(tick uint32) float64 {
	if s.TicksPerBeat == 0 {
		return 0
	}
	var micros float64
	var prevTick uint32
	tempo := DefaultTempo
	for _, c := range s.TempoMap() {
		if c.Tick >= tick {
			break
		}
		micros += float64(c.Tick-prevTick) * float64(tempo) / float64(s.TicksPerBeat)
		prevTick = c.Tick
		tempo = c.Micros
	}
	micros += float64(tick-prevTick) * float64(tempo) / float64(s.TicksPerBeat)
	return micros / 1e6
}

func (s Stream) EndTick() uint32 {
	var end uint32
	for _, t := range s.Tracks {
		if last := t.LastTick(); last > end {
			end = last
		}
	}
	return end
}

// Duration is the length of the stream in seconds.
func (s Stream) Duration() float64 {
	return s.Seconds(s.EndTick())
}

// Starts returns every sounding note start of the stream in onset order.
// Equal onsets keep track order, then insertion order.
func (s Stream) Starts() []Event {
	var res []Event
	for _, t := range s.Tracks {
		for _, e := range t.Events {
			if e.IsOnset() {
				res = append(res, e)
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Tick < res[j].Tick
	})
	return res
}

func noteKey(channel, pitch uint8) uint16 {
	return uint16(channel)<<7 | uint16(pitch)
}

// Notes pairs starts and stops. A stop closes the earliest open start of the
// same channel and pitch; a start that is never stopped lasts until the end
// of its track.
func (s Stream) Notes() []Note {
	var res []Note
	for _, t := range s.Tracks {
		events := SortedByTick(t.Events)
		open := make(map[uint16][]int)
		var notes []Note
		for _, e := range events {
			key := noteKey(e.Channel, e.Pitch)
			switch {
			case e.IsOnset():
				open[key] = append(open[key], len(notes))
				notes = append(notes, Note{Onset: e.Tick, Channel: e.Channel, Pitch: e.Pitch, Velocity: e.Velocity})
			case e.IsNote():
				if len(open[key]) == 0 {
					continue
				}
				n := &notes[open[key][0]]
				n.Duration = e.Tick - n.Onset
				open[key] = open[key][1:]
			}
		}
		end := t.LastTick()
		for _, idxs := range open {
			for _, i := range idxs {
				notes[i].Duration = end - notes[i].Onset
			}
		}
		res = append(res, notes...)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Onset < res[j].Onset
	})
	return res
}

// SortedByTick returns a stably sorted copy of events.
func SortedByTick(events []Event) []Event {
	res := make([]Event, len(events))
	copy(res, events)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Tick < res[j].Tick
	})
	return res
}
