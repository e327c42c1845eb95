package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/earworm/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrMalformedInput = model.ErrMalformedInput

const (
	metaPrefix     = 0xFF
	metaTempo      = 0x51
	metaEndOfTrack = 0x2F
)

func ReadMidiFile(filepath string) (model.Stream, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return model.Stream{}, fmt.Errorf("error reading midi file %v: %w", filepath, err)
	}
	s, err := Decode(bytes.NewReader(dat))
	if err != nil {
		return model.Stream{}, fmt.Errorf("error parsing midi file %v: %w", filepath, err)
	}
	return s, nil
}

// Decode reads a standard midi file into a stream with absolute ticks.
func Decode(r io.Reader) (s model.Stream, e error) {
	// the reader panics on some truncated files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = model.Stream{}
			e = fmt.Errorf("%w: %v", ErrMalformedInput, r)
		}
	}()

	parsed, err := smf.ReadFrom(r)
	if err != nil {
		return model.Stream{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	ticks, ok := parsed.TimeFormat.(smf.MetricTicks)
	if !ok {
		return model.Stream{}, fmt.Errorf("%w: unsupported time format %v", ErrMalformedInput, parsed.TimeFormat)
	}
	s.TicksPerBeat = uint16(ticks)

	for _, track := range parsed.Tracks {
		var t model.Track
		var absTicks uint32
		var closed bool
		for _, evt := range track {
			absTicks += evt.Delta
			msg := []byte(evt.Message)
			var channel, key, velocity uint8
			switch {
			case evt.Message.GetNoteOn(&channel, &key, &velocity):
				kind := model.NoteStart
				if velocity == 0 {
					kind = model.NoteStop
				}
				t.Events = append(t.Events, model.Event{Tick: absTicks, Kind: kind, Channel: channel, Pitch: key, Velocity: velocity})
			case evt.Message.GetNoteOff(&channel, &key, &velocity):
				t.Events = append(t.Events, model.Event{Tick: absTicks, Kind: model.NoteStop, Channel: channel, Pitch: key, Velocity: velocity})
			case isMeta(msg, metaTempo):
				micros, err := tempoMicros(msg)
				if err != nil {
					return model.Stream{}, err
				}
				t.Events = append(t.Events, model.Event{Tick: absTicks, Kind: model.Tempo, TempoMicros: micros})
			case isMeta(msg, metaEndOfTrack):
				t.End = absTicks
				closed = true
			default:
				raw := make([]byte, len(msg))
				copy(raw, msg)
				t.Events = append(t.Events, model.Event{Tick: absTicks, Kind: model.Other, Raw: raw})
			}
		}
		if !closed {
			t.End = absTicks
		}
		s.Tracks = append(s.Tracks, t)
	}

	if err := s.Validate(); err != nil {
		return model.Stream{}, err
	}
	return s, nil
}

func DecodeBytes(data []byte) (model.Stream, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes s as a multitrack midi file. Deltas are recomputed from the
// absolute ticks, so events may be in any order.
func Encode(w io.Writer, s model.Stream) error {
	if err := s.Validate(); err != nil {
		return err
	}

	out := smf.New()
	out.TimeFormat = smf.MetricTicks(s.TicksPerBeat)
	for _, t := range s.Tracks {
		var track smf.Track
		var prev uint32
		for _, e := range model.SortedByTick(t.Events) {
			track = append(track, smf.Event{Delta: e.Tick - prev, Message: message(e)})
			prev = e.Tick
		}
		end := t.End
		if end < prev {
			end = prev
		}
		track.Close(end - prev)
		out.Tracks = append(out.Tracks, track)
	}

	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("error writing midi: %w", err)
	}
	return nil
}

func EncodeBytes(s model.Stream) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := Encode(buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func message(e model.Event) smf.Message {
	switch e.Kind {
	case model.NoteStart:
		return smf.Message(midi.NoteOn(e.Channel, e.Pitch, e.Velocity))
	case model.NoteStop:
		return smf.Message(midi.NoteOffVelocity(e.Channel, e.Pitch, e.Velocity))
	case model.Tempo:
		return smf.Message(TempoMessage(e.TempoMicros))
	default:
		return smf.Message(e.Raw)
	}
}

// TempoMessage encodes a set-tempo meta event carrying the exact
// microseconds per quarter note.
func TempoMessage(micros uint32) []byte {
	return []byte{metaPrefix, metaTempo, 0x03, byte(micros >> 16), byte(micros >> 8), byte(micros)}
}

func isMeta(msg []byte, typ byte) bool {
	return len(msg) >= 2 && msg[0] == metaPrefix && msg[1] == typ
}

func tempoMicros(msg []byte) (uint32, error) {
	if len(msg) != 6 || msg[2] != 0x03 {
		return 0, fmt.Errorf("%w: bad tempo event % X", ErrMalformedInput, msg)
	}
	micros := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
	if micros == 0 {
		return 0, fmt.Errorf("%w: zero tempo", ErrMalformedInput)
	}
	return micros, nil
}
