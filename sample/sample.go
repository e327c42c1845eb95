// Package sample builds small streams for tests and demos.
package sample

import "github.com/jsphweid/earworm/model"

type Note struct {
	Pitch    uint8
	Velocity uint8
	Duration uint32
}

func BPMToMicros(bpm uint32) uint32 {
	return 60000000 / bpm
}

// Sequence lays the notes out one after another on a single track, preceded
// by a tempo track.
func Sequence(notes []Note, ticksPerBeat uint16, bpm uint32) model.Stream {
	tempoTrack := model.Track{Events: []model.Event{{Kind: model.Tempo, TempoMicros: BPMToMicros(bpm)}}}

	var track model.Track
	var absTicks uint32
	for _, n := range notes {
		track.Events = append(track.Events,
			model.Event{Tick: absTicks, Kind: model.NoteStart, Pitch: n.Pitch, Velocity: n.Velocity},
			model.Event{Tick: absTicks + n.Duration, Kind: model.NoteStop, Pitch: n.Pitch},
		)
		absTicks += n.Duration
	}
	track.End = absTicks

	return model.Stream{TicksPerBeat: ticksPerBeat, Tracks: []model.Track{tempoTrack, track}}
}

// Chord starts every pitch at tick 0 and stops them all after duration, on a
// single track without a tempo declaration.
func Chord(pitches []uint8, velocity uint8, duration uint32, ticksPerBeat uint16) model.Stream {
	var track model.Track
	for _, p := range pitches {
		track.Events = append(track.Events, model.Event{Kind: model.NoteStart, Pitch: p, Velocity: velocity})
	}
	for _, p := range pitches {
		track.Events = append(track.Events, model.Event{Tick: duration, Kind: model.NoteStop, Pitch: p})
	}
	track.End = duration
	return model.Stream{TicksPerBeat: ticksPerBeat, Tracks: []model.Track{track}}
}

// Demo is a two hand arrangement: a melody over block chords with a few
// soft and slightly off-grid notes, enough to exercise every strategy.
func Demo() model.Stream {
	const tpb = 480
	melody := []uint8{72, 74, 76, 77, 79, 77, 76, 74}
	chords := [][]uint8{{48, 55, 60, 64}, {53, 57, 60, 65}, {55, 59, 62, 67}, {48, 55, 60, 64}}

	var right, left model.Track
	for i, p := range melody {
		start := uint32(i*tpb) + uint32(i%3)*7
		vel := uint8(90)
		if i%4 == 3 {
			vel = 30
		}
		right.Events = append(right.Events,
			model.Event{Tick: start, Kind: model.NoteStart, Pitch: p, Velocity: vel},
			model.Event{Tick: start + tpb - 20, Kind: model.NoteStop, Pitch: p},
		)
	}
	right.End = uint32(len(melody) * tpb)

	for i, c := range chords {
		start := uint32(i * 2 * tpb)
		for _, p := range c {
			left.Events = append(left.Events, model.Event{Tick: start, Kind: model.NoteStart, Channel: 1, Pitch: p, Velocity: 70})
		}
		for _, p := range c {
			left.Events = append(left.Events, model.Event{Tick: start + 2*tpb, Kind: model.NoteStop, Channel: 1, Pitch: p})
		}
	}
	left.End = uint32(len(chords) * 2 * tpb)

	tempo := model.Track{Events: []model.Event{{Kind: model.Tempo, TempoMicros: BPMToMicros(96)}}}
	return model.Stream{TicksPerBeat: tpb, Tracks: []model.Track{tempo, right, left}}
}
