package model

import "errors"

// ErrMalformedInput marks a stream that cannot be decoded or violates the
// value ranges of the event format.
var ErrMalformedInput = errors.New("malformed input")

type EventKind uint8

const (
	NoteStart EventKind = iota
	NoteStop
	Tempo
	Other
)

func (k EventKind) String() string {
	switch k {
	case NoteStart:
		return "note-start"
	case NoteStop:
		return "note-stop"
	case Tempo:
		return "tempo"
	default:
		return "other"
	}
}

// Event is one timed message of a track. Tick is absolute, not a delta.
type Event struct {
	Tick        uint32
	Kind        EventKind
	Channel     uint8
	Pitch       uint8
	Velocity    uint8
	TempoMicros uint32

	// Raw holds the encoded message of Other events so it can be written
	// back unchanged.
	Raw []byte
}

func (e Event) IsNote() bool {
	return e.Kind == NoteStart || e.Kind == NoteStop
}

// IsOnset reports whether the event starts a sounding note.
func (e Event) IsOnset() bool {
	return e.Kind == NoteStart && e.Velocity > 0
}

// Note is a start/stop pair.
type Note struct {
	Onset    uint32
	Duration uint32
	Channel  uint8
	Pitch    uint8
	Velocity uint8
}

type Track struct {
	Events []Event

	// End is the absolute tick of the end-of-track marker.
	End uint32
}

// LastTick is the tick of the latest event or the end marker, whichever is
// later.
func (t Track) LastTick() uint32 {
	last := t.End
	for _, e := range t.Events {
		if e.Tick > last {
			last = e.Tick
		}
	}
	return last
}

func (t Track) Clone() Track {
	events := make([]Event, len(t.Events))
	copy(events, t.Events)
	return Track{Events: events, End: t.End}
}
