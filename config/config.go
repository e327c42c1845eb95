// Package config loads earworm settings from defaults, an optional
// .earwormrc file, EARWORM_* environment variables and bound command line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jsphweid/earworm/constants"
	"github.com/jsphweid/earworm/simplify"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var FileNames = []string{".earwormrc.yaml", ".earwormrc.yml", ".earwormrc.json"}

var Formats = []string{"text", "json", "yaml"}

type Config struct {
	Output      string `mapstructure:"output"`
	Concurrency int    `mapstructure:"concurrency"`
	Format      string `mapstructure:"format"`
	Verbose     bool   `mapstructure:"verbose"`
	Quiet       bool   `mapstructure:"quiet"`

	Simplify simplify.Config `mapstructure:",squash"`

	Serve ServeConfig `mapstructure:"serve"`
	Watch WatchConfig `mapstructure:"watch"`
	Store StoreConfig `mapstructure:"store"`
}

type ServeConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type StoreConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Region   string `mapstructure:"region"`
	Table    string `mapstructure:"table"`
}

func SetDefaults(v *viper.Viper) {
	d := simplify.DefaultConfig()

	v.SetDefault("output", constants.GetOutputDir())
	v.SetDefault("concurrency", runtime.NumCPU())
	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)

	v.SetDefault("advanced.gridDivisor", d.Advanced.GridDivisor)
	v.SetDefault("advanced.minNoteMillis", d.Advanced.MinNoteMillis)
	v.SetDefault("intermediate.gridDivisor", d.Intermediate.GridDivisor)
	v.SetDefault("intermediate.maxPolyphony", d.Intermediate.MaxPolyphony)
	v.SetDefault("intermediate.minVelocity", d.Intermediate.MinVelocity)
	v.SetDefault("beginner.gridDivisor", d.Beginner.GridDivisor)
	v.SetDefault("beginner.maxVelocity", d.Beginner.MaxVelocity)
	v.SetDefault("beginner.tempoScale", d.Beginner.TempoScale)

	v.SetDefault("serve.addr", constants.DefaultAddr)
	v.SetDefault("serve.allowedOrigins", []string{"*"})
	v.SetDefault("watch.debounce", constants.DefaultWatchDebounce)
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.endpoint", constants.DefaultStoreEndpoint)
	v.SetDefault("store.region", constants.DefaultStoreRegion)
	v.SetDefault("store.table", constants.DefaultStoreTable)
}

// Load reads the first config file found in dir, if any, then the
// environment. Flags must already be bound to v.
func Load(v *viper.Viper, dir string) (*Config, error) {
	SetDefaults(v)

	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %v: %w", path, err)
		}
		break
	}

	// EARWORM_INTERMEDIATE_MAXPOLYPHONY sets intermediate.maxPolyphony
	v.SetEnvPrefix("EARWORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !isFormat(c.Format) {
		return fmt.Errorf("%w: format %q must be one of %v", ErrInvalidConfig, c.Format, strings.Join(Formats, ", "))
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.Quiet && c.Verbose {
		return fmt.Errorf("%w: quiet and verbose are mutually exclusive", ErrInvalidConfig)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output dir is empty", ErrInvalidConfig)
	}
	if err := c.Simplify.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Serve.Addr == "" {
		return fmt.Errorf("%w: serve.addr is empty", ErrInvalidConfig)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce is negative", ErrInvalidConfig)
	}
	if c.Store.Enabled && c.Store.Table == "" {
		return fmt.Errorf("%w: store.table is required when the store is enabled", ErrInvalidConfig)
	}
	return nil
}

func isFormat(s string) bool {
	for _, f := range Formats {
		if s == f {
			return true
		}
	}
	return false
}
