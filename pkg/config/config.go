// Package config loads the driver's configuration: where to read items
// from, where to write the serialized filter, and any overrides to the
// filter's construction parameters. The core morton package never reads
// configuration itself — only the driver does, per the filter's external
// collaborator boundary.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/anastasiam/mortonfilter/morton"
)

// Sentinel validation errors.
var (
	ErrMissingOutput   = errors.New("output path must be set")
	ErrInvalidBlocks   = errors.New("block count override must be positive")
	ErrInvalidFpWidth  = errors.New("fingerprint width must be in [1, 32]")
	ErrInvalidBuckets  = errors.New("buckets per block must be positive")
	ErrInvalidSlots    = errors.New("slots per bucket must be positive")
	ErrInvalidNFp      = errors.New("fingerprints per block must be positive")
	ErrInvalidOTAWidth = errors.New("OTA width must be positive")
)

// Default configuration values, matching morton.DefaultParams.
const (
	defaultWFp  = 8
	defaultB    = 64
	defaultS    = 3
	defaultNFp  = 46
	defaultOTA  = 16
	defaultHash = "xxhash"
)

// FilterConfig overrides morton.DefaultParams. Load fills any key left out
// of the config file with the default; an explicit zero fails Validate.
type FilterConfig struct {
	WFp  int `mapstructure:"fingerprint_width"`
	B    int `mapstructure:"buckets_per_block"`
	S    int `mapstructure:"slots_per_bucket"`
	NFp  int `mapstructure:"fingerprints_per_block"`
	WOTA int `mapstructure:"ota_width"`
}

// Config holds all configuration for the mortonfilter driver.
type Config struct {
	Input      string       `mapstructure:"input"`
	Output     string       `mapstructure:"output"`
	BlockCount int          `mapstructure:"block_count"`
	HashFunc   string       `mapstructure:"hash_func"`
	Filter     FilterConfig `mapstructure:"filter"`
	Verbose    bool         `mapstructure:"verbose"`
}

// Load reads configuration from path (YAML, JSON, or TOML — whatever
// viper's format sniffing recognizes) and returns a validated Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("filter.fingerprint_width", defaultWFp)
	v.SetDefault("filter.buckets_per_block", defaultB)
	v.SetDefault("filter.slots_per_bucket", defaultS)
	v.SetDefault("filter.fingerprints_per_block", defaultNFp)
	v.SetDefault("filter.ota_width", defaultOTA)
	v.SetDefault("hash_func", defaultHash)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded configuration for internal consistency. It
// does not validate the resulting morton.Params against a block count,
// since the block count may still be derived from the input item count at
// driver runtime; morton.New performs that check once the block count is
// known.
func (c *Config) Validate() error {
	if c.Output == "" {
		return ErrMissingOutput
	}
	if c.BlockCount < 0 {
		return ErrInvalidBlocks
	}
	if c.Filter.WFp < 1 || c.Filter.WFp > 32 {
		return ErrInvalidFpWidth
	}
	if c.Filter.B < 1 {
		return ErrInvalidBuckets
	}
	if c.Filter.S < 1 {
		return ErrInvalidSlots
	}
	if c.Filter.NFp < 1 {
		return ErrInvalidNFp
	}
	if c.Filter.WOTA < 1 {
		return ErrInvalidOTAWidth
	}
	return nil
}

// Params converts the configured overrides into morton.Params.
func (c *Config) Params() morton.Params {
	return morton.Params{
		WFp:  c.Filter.WFp,
		B:    c.Filter.B,
		S:    c.Filter.S,
		NFp:  c.Filter.NFp,
		WOTA: c.Filter.WOTA,
	}
}
