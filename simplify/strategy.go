// Package simplify rewrites a stream into easier arrangements. Every
// strategy is a pure function of its input: the input is never modified and
// no state survives between calls.
package simplify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/earworm/model"
	"github.com/jsphweid/earworm/util"
)

var ErrInvalidParameter = errors.New("invalid parameter")

type Level int

const (
	Beginner Level = iota + 1
	Intermediate
	Advanced
)

// Levels is every level in the order artifacts are reported.
var Levels = []Level{Beginner, Intermediate, Advanced}

func (l Level) String() string {
	switch l {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown level %q", ErrInvalidParameter, s)
}

type Strategy interface {
	Level() Level
	Transform(s model.Stream) (model.Stream, error)
}

// New builds the strategy for a level from the matching section of cfg.
func New(level Level, cfg Config) (Strategy, error) {
	var (
		s   Strategy
		err error
	)
	switch level {
	case Beginner:
		s, err = NewBeginner(cfg.Beginner)
	case Intermediate:
		s, err = NewIntermediate(cfg.Intermediate)
	case Advanced:
		s, err = NewAdvanced(cfg.Advanced)
	default:
		err = fmt.Errorf("%w: unknown level %v", ErrInvalidParameter, int(level))
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// All builds one strategy per level, in Levels order.
func All(cfg Config) ([]Strategy, error) {
	res := make([]Strategy, 0, len(Levels))
	for _, l := range Levels {
		s, err := New(l, cfg)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

// grid divides a beat; resolutions too coarse for the divisor snap to
// single ticks.
func grid(ticksPerBeat uint16, divisor uint16) uint32 {
	return util.Max(uint32(ticksPerBeat/divisor), 1)
}

func quantiseNotes(events []model.Event, g uint32) []model.Event {
	res := model.SortedByTick(events)
	for i := range res {
		if res[i].IsNote() {
			res[i].Tick = util.Quantise(res[i].Tick, g)
		}
	}
	return model.SortedByTick(res)
}

func endOf(events []model.Event, end uint32) uint32 {
	for _, e := range events {
		end = util.Max(end, e.Tick)
	}
	return end
}
