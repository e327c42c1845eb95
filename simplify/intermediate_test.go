package simplify

import (
	"testing"

	"github.com/jsphweid/earworm/model"
	"github.com/jsphweid/earworm/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntermediateEvictsLowestFirst(t *testing.T) {
	in := sample.Chord([]uint8{48, 52, 55, 60, 64, 67}, 80, 480, 480)
	out, err := mustStrategy(Intermediate).Transform(in)
	require.NoError(t, err)

	type step struct {
		tick  uint32
		kind  model.EventKind
		pitch uint8
	}
	var got []step
	for _, e := range out.Tracks[0].Events {
		got = append(got, step{e.Tick, e.Kind, e.Pitch})
	}

	assert.Equal(t, []step{
		{0, model.NoteStart, 48},
		{0, model.NoteStart, 52},
		{0, model.NoteStart, 55},
		{0, model.NoteStart, 60},
		{0, model.NoteStop, 48},
		{0, model.NoteStart, 64},
		{0, model.NoteStop, 52},
		{0, model.NoteStart, 67},
		{480, model.NoteStop, 55},
		{480, model.NoteStop, 60},
		{480, model.NoteStop, 64},
		{480, model.NoteStop, 67},
	}, got)
	assert.LessOrEqual(t, maxActive(out), 4)
}

func TestIntermediateDiscardsNotesNotAboveLowest(t *testing.T) {
	for _, pitches := range [][]uint8{
		{60, 62, 64, 65, 59, 60},
		{60, 62, 64, 65, 60},
	} {
		in := sample.Chord(pitches, 80, 480, 480)
		out, err := mustStrategy(Intermediate).Transform(in)
		require.NoError(t, err)

		// 59 is below the lowest sounding pitch and a repeated 60 is not
		// above it, so both are dropped along with their stops
		assert.Equal(t, []uint8{60, 62, 64, 65}, startPitches(out))

		var stops []uint8
		for _, e := range out.Tracks[0].Events {
			if e.Kind == model.NoteStop {
				assert.Equal(t, uint32(480), e.Tick)
				stops = append(stops, e.Pitch)
			}
		}
		assert.Equal(t, []uint8{60, 62, 64, 65}, stops)
	}
}

func TestIntermediateRepeatedPitchStillEvicts(t *testing.T) {
	in := sample.Chord([]uint8{60, 62, 64, 65, 64}, 80, 480, 480)
	out, err := mustStrategy(Intermediate).Transform(in)
	require.NoError(t, err)

	assert := assert.New(t)
	// the full set is compared before membership, so the second 64 still
	// pushes out 60
	events := out.Tracks[0].Events
	require.Len(t, events, 9)
	assert.Equal(model.Event{Tick: 0, Kind: model.NoteStop, Pitch: 60}, events[4])
	assert.Equal(model.NoteStart, events[5].Kind)
	assert.Equal(uint8(64), events[5].Pitch)

	var late []uint8
	for _, e := range events[6:] {
		assert.Equal(uint32(480), e.Tick)
		late = append(late, e.Pitch)
	}
	assert.Equal([]uint8{62, 64, 65}, late)
	assert.LessOrEqual(maxActive(out), 4)
}

func TestIntermediateFiltersQuietNotes(t *testing.T) {
	in := sample.Sequence([]sample.Note{{Pitch: 60, Velocity: 80, Duration: 480}, {Pitch: 64, Velocity: 20, Duration: 480}, {Pitch: 67, Velocity: 90, Duration: 480}}, 480, 120)
	out, err := mustStrategy(Intermediate).Transform(in)
	require.NoError(t, err)

	assert.Equal(t, []uint8{60, 67}, startPitches(out))
	for _, tr := range out.Tracks {
		for _, e := range tr.Events {
			assert.NotEqual(t, uint8(64), e.Pitch)
			if e.IsOnset() {
				assert.GreaterOrEqual(t, e.Velocity, uint8(40))
			}
		}
	}
	// the tempo track passes through
	assert.Equal(t, in.Tempo(), out.Tempo())
}

func TestIntermediateReplaysTracksSeparately(t *testing.T) {
	melody := model.Track{Events: []model.Event{
		{Tick: 480, Kind: model.NoteStart, Pitch: 72, Velocity: 80},
		{Tick: 960, Kind: model.NoteStop, Pitch: 72},
	}, End: 960}
	chord := sample.Chord([]uint8{48, 52, 55, 60}, 80, 960, 480).Tracks[0]
	in := model.Stream{TicksPerBeat: 480, Tracks: []model.Track{melody, chord}}

	out, err := mustStrategy(Intermediate).Transform(in)
	require.NoError(t, err)

	assert := assert.New(t)
	require.Len(t, out.Tracks, 2)
	// a full chord on one track does not crowd out a melody on another
	assert.Equal(melody.Events, out.Tracks[0].Events)
	assert.Equal(chord.Events, out.Tracks[1].Events)
	assert.LessOrEqual(maxActive(out), 4)
}

func TestIntermediateKeepsOverlappingPitchesOnOtherTracks(t *testing.T) {
	first := model.Track{Events: []model.Event{
		{Tick: 0, Kind: model.NoteStart, Channel: 0, Pitch: 60, Velocity: 80},
		{Tick: 960, Kind: model.NoteStop, Channel: 0, Pitch: 60},
	}, End: 960}
	second := model.Track{Events: []model.Event{
		{Tick: 480, Kind: model.NoteStart, Channel: 1, Pitch: 60, Velocity: 80},
		{Tick: 1440, Kind: model.NoteStop, Channel: 1, Pitch: 60},
	}, End: 1440}
	in := model.Stream{TicksPerBeat: 480, Tracks: []model.Track{first, second}}

	out, err := mustStrategy(Intermediate).Transform(in)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(first.Events, out.Tracks[0].Events)
	assert.Equal(second.Events, out.Tracks[1].Events)

	notes := out.Notes()
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(uint32(960), n.Duration)
	}
}

func TestIntermediateQuantisesToEighths(t *testing.T) {
	in := model.Stream{TicksPerBeat: 480, Tracks: []model.Track{{
		Events: []model.Event{
			{Tick: 250, Kind: model.NoteStart, Pitch: 60, Velocity: 80},
			{Tick: 700, Kind: model.NoteStop, Pitch: 60},
		},
		End: 960,
	}}}
	out, err := mustStrategy(Intermediate).Transform(in)
	require.NoError(t, err)
	assert.Equal(t, uint32(240), out.Tracks[0].Events[0].Tick)
	assert.Equal(t, uint32(720), out.Tracks[0].Events[1].Tick)
	assert.Equal(t, uint32(960), out.Tracks[0].End)
}

func TestIntermediateRespectsOverriddenCap(t *testing.T) {
	cfg := DefaultConfig().Intermediate
	cfg.MaxPolyphony = 2
	m, err := NewIntermediate(cfg)
	require.NoError(t, err)

	in := sample.Demo()
	out, err := m.Transform(in)
	require.NoError(t, err)
	assert.Len(t, out.Tracks, len(in.Tracks))
	assert.LessOrEqual(t, maxActive(out), 2)
}
