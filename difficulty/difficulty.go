package difficulty

import (
	"fmt"
	"math"

	"github.com/jsphweid/earworm/metric"
	"github.com/jsphweid/earworm/model"
)

const (
	MinLevel = 1
	MaxLevel = 10
)

var labels = [MaxLevel]string{
	"beginner",
	"beginner+",
	"easy",
	"easy+",
	"intermediate",
	"intermediate+",
	"advanced",
	"advanced+",
	"expert",
	"concert",
}

type Report struct {
	Level                int     `json:"level" yaml:"level"`
	Label                string  `json:"label" yaml:"label"`
	NotesPerSecond       float64 `json:"notes_per_second" yaml:"notes_per_second"`
	AvgPolyphony         float64 `json:"avg_polyphony" yaml:"avg_polyphony"`
	PitchRangeSemitones  int     `json:"pitch_range" yaml:"pitch_range"`
	MaxHandSpanSemitones int     `json:"max_hand_span" yaml:"max_hand_span"`
	TotalNotes           int     `json:"total_notes" yaml:"total_notes"`
	DurationSeconds      float64 `json:"duration_seconds" yaml:"duration_seconds"`
}

func (r Report) String() string {
	return fmt.Sprintf("Difficulty: %s (level %d/10)\n", r.Label, r.Level) +
		fmt.Sprintf("  Notes/sec:      %.1f\n", r.NotesPerSecond) +
		fmt.Sprintf("  Avg polyphony:  %.1f\n", r.AvgPolyphony) +
		fmt.Sprintf("  Pitch range:    %d semitones\n", r.PitchRangeSemitones) +
		fmt.Sprintf("  Max hand span:  %d semitones\n", r.MaxHandSpanSemitones) +
		fmt.Sprintf("  Total notes:    %d\n", r.TotalNotes) +
		fmt.Sprintf("  Duration:       %.1fs", r.DurationSeconds)
}

// Label panics for levels outside [1,10]; Score never produces one.
func Label(level int) string {
	if level < MinLevel || level > MaxLevel {
		panic(fmt.Sprintf("difficulty level %v out of range", level))
	}
	return labels[level-1]
}

type breakpoint struct {
	below float64
	score int
}

// Each table is scanned in order; the first bound the value is below wins,
// otherwise the trailing score applies.
var (
	npsTable      = []breakpoint{{2, 1}, {4, 3}, {7, 5}, {10, 7}}
	polyTable     = []breakpoint{{1.5, 1}, {2.5, 3}, {4, 5}}
	rangeTable    = []breakpoint{{24, 1}, {36, 3}, {48, 5}}
	handSpanTable = []breakpoint{{8, 1}, {12, 3}, {15, 5}}
)

func subScore(table []breakpoint, otherwise int, value float64) int {
	for _, b := range table {
		if value < b.below {
			return b.score
		}
	}
	return otherwise
}

// Score maps metrics to a level: the mean of four bucketed sub-scores,
// rounded half to even and clamped to [1,10].
func Score(nps, polyphony float64, pitchRange, handSpan int) int {
	sum := subScore(npsTable, 9, nps) +
		subScore(polyTable, 8, polyphony) +
		subScore(rangeTable, 7, float64(pitchRange)) +
		subScore(handSpanTable, 7, float64(handSpan))

	level := int(math.RoundToEven(float64(sum) / 4))
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

func FromMetrics(m metric.Metrics) Report {
	if m.Empty() {
		return Report{Level: MinLevel, Label: Label(MinLevel)}
	}
	level := Score(m.NotesPerSecond, m.AvgPolyphony, m.PitchRange, m.MaxHandSpan)
	return Report{
		Level:                level,
		Label:                Label(level),
		NotesPerSecond:       m.NotesPerSecond,
		AvgPolyphony:         m.AvgPolyphony,
		PitchRangeSemitones:  m.PitchRange,
		MaxHandSpanSemitones: m.MaxHandSpan,
		TotalNotes:           m.TotalNotes,
		DurationSeconds:      m.DurationSeconds,
	}
}

func Analyse(s model.Stream) Report {
	return FromMetrics(metric.Extract(s))
}
