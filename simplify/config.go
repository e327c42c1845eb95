package simplify

import "fmt"

type AdvancedConfig struct {
	// GridDivisor splits a beat into the quantisation grid, 4 for 16ths.
	GridDivisor uint16 `mapstructure:"gridDivisor"`
	// Notes shorter than this after quantisation are dropped.
	MinNoteMillis uint32 `mapstructure:"minNoteMillis"`
}

type IntermediateConfig struct {
	GridDivisor  uint16 `mapstructure:"gridDivisor"`
	MaxPolyphony int    `mapstructure:"maxPolyphony"`
	MinVelocity  uint8  `mapstructure:"minVelocity"`
}

type BeginnerConfig struct {
	GridDivisor uint16  `mapstructure:"gridDivisor"`
	MaxVelocity uint8   `mapstructure:"maxVelocity"`
	TempoScale  float64 `mapstructure:"tempoScale"`
}

type Config struct {
	Advanced     AdvancedConfig     `mapstructure:"advanced"`
	Intermediate IntermediateConfig `mapstructure:"intermediate"`
	Beginner     BeginnerConfig     `mapstructure:"beginner"`
}

func DefaultConfig() Config {
	return Config{
		Advanced:     AdvancedConfig{GridDivisor: 4, MinNoteMillis: 30},
		Intermediate: IntermediateConfig{GridDivisor: 2, MaxPolyphony: 4, MinVelocity: 40},
		Beginner:     BeginnerConfig{GridDivisor: 1, MaxVelocity: 100, TempoScale: 1.25},
	}
}

func (c AdvancedConfig) Validate() error {
	if c.GridDivisor == 0 {
		return fmt.Errorf("%w: advanced grid divisor must be positive", ErrInvalidParameter)
	}
	return nil
}

func (c IntermediateConfig) Validate() error {
	switch {
	case c.GridDivisor == 0:
		return fmt.Errorf("%w: intermediate grid divisor must be positive", ErrInvalidParameter)
	case c.MaxPolyphony <= 0:
		return fmt.Errorf("%w: max polyphony must be positive, got %v", ErrInvalidParameter, c.MaxPolyphony)
	case c.MinVelocity > 127:
		return fmt.Errorf("%w: min velocity %v above 127", ErrInvalidParameter, c.MinVelocity)
	}
	return nil
}

func (c BeginnerConfig) Validate() error {
	switch {
	case c.GridDivisor == 0:
		return fmt.Errorf("%w: beginner grid divisor must be positive", ErrInvalidParameter)
	case c.MaxVelocity == 0 || c.MaxVelocity > 127:
		return fmt.Errorf("%w: max velocity must be in [1,127], got %v", ErrInvalidParameter, c.MaxVelocity)
	case c.TempoScale <= 0:
		return fmt.Errorf("%w: tempo scale must be positive, got %v", ErrInvalidParameter, c.TempoScale)
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Advanced.Validate(); err != nil {
		return err
	}
	if err := c.Intermediate.Validate(); err != nil {
		return err
	}
	return c.Beginner.Validate()
}
