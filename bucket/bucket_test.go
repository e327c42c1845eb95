package bucket

import (
	"testing"

	"github.com/jsphweid/earworm/model"
	"github.com/stretchr/testify/assert"
)

func starts(ticksAndPitches ...uint32) []model.Event {
	var res []model.Event
	for i := 0; i < len(ticksAndPitches); i += 2 {
		res = append(res, model.Event{Tick: ticksAndPitches[i], Kind: model.NoteStart, Pitch: uint8(ticksAndPitches[i+1]), Velocity: 80})
	}
	return res
}

func TestWindow(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint32(60), Window(480))
	assert.Equal(uint32(12), Window(96))
	assert.Equal(uint32(1), Window(4))
}

func TestGroupFloorsOnsets(t *testing.T) {
	b := Group(starts(0, 60, 59, 64, 60, 67, 130, 72), 60)
	assert.Equal(t, Buckets{0: {60, 64}, 1: {67}, 2: {72}}, b)
}

func TestAvgPopulationCountsNotesNotPitches(t *testing.T) {
	b := Group(starts(0, 60, 1, 60, 2, 64, 480, 62), 60)
	assert.InDelta(t, 2.0, AvgPopulation(b), 1e-9)
	assert.Equal(t, 0.0, AvgPopulation(Buckets{}))
}

func TestMaxSpanIgnoresSingleNoteBuckets(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, MaxSpan(Group(starts(0, 30, 480, 90), 60)))
	assert.Equal(19, MaxSpan(Group(starts(0, 48, 0, 67, 0, 60, 480, 60, 481, 72), 60)))
}
