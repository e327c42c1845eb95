package difficulty

import (
	"fmt"
	"testing"

	"github.com/jsphweid/earworm/model"
	"github.com/jsphweid/earworm/sample"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestScoreBoundaries(t *testing.T) {
	cases := []struct {
		nps, poly            float64
		pitchRange, handSpan int
		want                 int
	}{
		// sum 4 -> 1
		{0, 0, 0, 0, 1},
		// sum 10 -> 2.5 rounds to 2
		{4, 1.5, 0, 0, 2},
		// sum 14 -> 3.5 rounds to 4
		{7, 2.5, 0, 0, 4},
		// sum 18 -> 4.5 rounds to 4
		{7, 2.5, 24, 8, 4},
		// sum 16 -> 4
		{4, 2.5, 24, 8, 4},
		// sum 22 -> 5.5 rounds to 6
		{4, 2.5, 36, 15, 6},
		// sum 31 -> 7.75 rounds to 8
		{100, 10, 88, 40, 8},
		// lower bounds are inclusive
		{1.99, 1.49, 23, 7, 1},
		{2, 1.5, 24, 8, 3},
	}

	for _, c := range cases {
		name := fmt.Sprintf("score %v %v %v %v", c.nps, c.poly, c.pitchRange, c.handSpan)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.want, Score(c.nps, c.poly, c.pitchRange, c.handSpan))
		})
	}
}

func TestLabels(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("beginner", Label(1))
	assert.Equal("easy+", Label(4))
	assert.Equal("concert", Label(10))
	assert.Panics(func() { Label(0) })
	assert.Panics(func() { Label(11) })
}

func TestSimpleMelodyIsEasy(t *testing.T) {
	s := sample.Sequence([]sample.Note{{Pitch: 60, Velocity: 80, Duration: 480}, {Pitch: 62, Velocity: 80, Duration: 480}, {Pitch: 64, Velocity: 80, Duration: 480}, {Pitch: 65, Velocity: 80, Duration: 480}}, 480, 100)
	r := Analyse(s)

	assert := assert.New(t)
	assert.LessOrEqual(r.Level, 3)
	assert.Equal(4, r.TotalNotes)
	assert.LessOrEqual(r.AvgPolyphony, 1.5)
	assert.Equal("beginner", r.Label)
}

func TestEmptyStreamIsBeginner(t *testing.T) {
	s := model.Stream{TicksPerBeat: 480, Tracks: []model.Track{{End: 0}}}
	assert.Equal(t, Report{Level: 1, Label: "beginner"}, Analyse(s))

	// notes but nothing elapses
	s = model.Stream{TicksPerBeat: 480, Tracks: []model.Track{{
		Events: []model.Event{{Kind: model.NoteStart, Pitch: 60, Velocity: 80}},
	}}}
	assert.Equal(t, Report{Level: 1, Label: "beginner"}, Analyse(s))
}

func TestReportString(t *testing.T) {
	r := Report{
		Level:                5,
		Label:                "intermediate",
		NotesPerSecond:       4.2,
		AvgPolyphony:         2.1,
		PitchRangeSemitones:  36,
		MaxHandSpanSemitones: 12,
		TotalNotes:           200,
		DurationSeconds:      47.5,
	}
	want := "Difficulty: intermediate (level 5/10)\n" +
		"  Notes/sec:      4.2\n" +
		"  Avg polyphony:  2.1\n" +
		"  Pitch range:    36 semitones\n" +
		"  Max hand span:  12 semitones\n" +
		"  Total notes:    200\n" +
		"  Duration:       47.5s"
	assert.Equal(t, want, r.String())
}

func TestReportYAML(t *testing.T) {
	r := Report{Level: 2, Label: "beginner+", TotalNotes: 3}
	out, err := yaml.Marshal(r)
	assert.NoError(t, err)
	assert.Contains(t, string(out), "label: beginner+")
	assert.Contains(t, string(out), "total_notes: 3")
}
